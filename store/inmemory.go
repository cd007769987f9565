package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sweetpotato0/questflow/document"
	"github.com/sweetpotato0/questflow/errors"
)

// Memory implements Store using in-memory storage. Safe for concurrent use.
type Memory struct {
	mu   sync.RWMutex
	docs map[string]document.Document
}

// NewMemory creates an empty in-memory document store.
func NewMemory() *Memory {
	return &Memory{
		docs: make(map[string]document.Document),
	}
}

// Save implements Store.
func (m *Memory) Save(ctx context.Context, doc document.Document) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if doc.Content == "" {
		return "", fmt.Errorf("save document: %w: empty content", errors.ErrInvalidInput)
	}
	if doc.ID == "" {
		createdAt := doc.CreatedAt
		if createdAt.IsZero() {
			createdAt = time.Now()
			doc.CreatedAt = createdAt
		}
		doc.ID = document.NewID(doc.Category, createdAt)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.docs[doc.ID]; ok {
		return "", fmt.Errorf("save document %s: %w", doc.ID, errors.ErrAlreadyExists)
	}
	m.docs[doc.ID] = doc.Clone()
	return doc.ID, nil
}

// Get implements Store.
func (m *Memory) Get(ctx context.Context, id string) (document.Document, error) {
	if err := ctx.Err(); err != nil {
		return document.Document{}, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	doc, ok := m.docs[id]
	if !ok {
		return document.Document{}, fmt.Errorf("get document %s: %w", id, errors.ErrNotFound)
	}
	return doc.Clone(), nil
}

// Count returns the number of stored documents.
func (m *Memory) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.docs)
}
