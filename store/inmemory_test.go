package store

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/sweetpotato0/questflow/document"
	"github.com/sweetpotato0/questflow/errors"
	"github.com/sweetpotato0/questflow/quest"
)

func TestMemorySaveAndGet(t *testing.T) {
	ctx := context.Background()
	st := NewMemory()

	doc := document.Document{
		ID:           "health_test_001",
		Category:     quest.CategoryHealth,
		Content:      "stretch twice a day",
		QualityScore: 0.9,
		CreatedAt:    time.Now(),
	}

	id, err := st.Save(ctx, doc)
	if err != nil {
		t.Fatalf("Save error: %v", err)
	}
	if id != doc.ID {
		t.Errorf("Save returned %q, want %q", id, doc.ID)
	}

	got, err := st.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if got.Content != doc.Content || got.Category != doc.Category {
		t.Errorf("round trip mismatch: %+v", got)
	}
}

func TestMemorySaveAssignsID(t *testing.T) {
	st := NewMemory()
	id, err := st.Save(context.Background(), document.Document{
		Category: quest.CategoryFinance,
		Content:  "budget guide",
	})
	if err != nil {
		t.Fatalf("Save error: %v", err)
	}
	if id == "" {
		t.Fatal("expected an allocated identifier")
	}
	if _, err := st.Get(context.Background(), id); err != nil {
		t.Errorf("Get(%q) error: %v", id, err)
	}
}

func TestMemorySaveNeverOverwrites(t *testing.T) {
	ctx := context.Background()
	st := NewMemory()

	doc := document.Document{
		ID:       "skincare_test_001",
		Category: quest.CategorySkincare,
		Content:  "original content",
	}
	if _, err := st.Save(ctx, doc); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	doc.Content = "replacement content"
	if _, err := st.Save(ctx, doc); !stderrors.Is(err, errors.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}

	got, err := st.Get(ctx, doc.ID)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if got.Content != "original content" {
		t.Errorf("existing content was overwritten: %q", got.Content)
	}
}

func TestMemoryGetMissing(t *testing.T) {
	st := NewMemory()
	if _, err := st.Get(context.Background(), "nope"); !stderrors.Is(err, errors.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMemorySaveRejectsEmptyContent(t *testing.T) {
	st := NewMemory()
	if _, err := st.Save(context.Background(), document.Document{ID: "x"}); !stderrors.Is(err, errors.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}
