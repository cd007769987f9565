package pipeline

import (
	"context"
	"strings"
	"testing"

	"github.com/sweetpotato0/questflow/document"
	"github.com/sweetpotato0/questflow/quest"
)

func TestGenerateTemplatesPerCategory(t *testing.T) {
	gen := newGenerator(nil, defaultConfig())

	for _, category := range quest.Categories() {
		doc := document.Document{ID: "doc_" + string(category), Category: category, QualityScore: 0.9}
		quests, err := gen.Generate(context.Background(), []document.Document{doc}, quest.NewFeedback("help"))
		if err != nil {
			t.Fatalf("Generate(%s) error = %v", category, err)
		}
		if len(quests) != 3 {
			t.Fatalf("Generate(%s) returned %d quests, want 3", category, len(quests))
		}
		for i, tier := range quest.Tiers() {
			if quests[i].Difficulty != tier {
				t.Errorf("%s quest %d difficulty = %v, want %v", category, i, quests[i].Difficulty, tier)
			}
			if !strings.Contains(quests[i].Evidence, doc.ID) {
				t.Errorf("%s quest %d evidence %q does not cite the document", category, i, quests[i].Evidence)
			}
		}
	}
}

func TestGenerateUnknownCategorySingleQuest(t *testing.T) {
	gen := newGenerator(nil, defaultConfig())
	doc := document.Document{ID: "doc_misc", Category: quest.Category("gardening"), QualityScore: 0.9}

	quests, err := gen.Generate(context.Background(), []document.Document{doc}, quest.NewFeedback("help"))
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if len(quests) != 1 {
		t.Fatalf("Generate() returned %d quests, want 1 for unknown category", len(quests))
	}
	if quests[0].Difficulty != quest.DifficultyEasy {
		t.Errorf("difficulty = %v, want easy", quests[0].Difficulty)
	}
}

func TestGenerateEmptyDocuments(t *testing.T) {
	gen := newGenerator(nil, defaultConfig())

	quests, err := gen.Generate(context.Background(), nil, quest.NewFeedback("help"))
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if quests != nil {
		t.Errorf("Generate() = %v, want nil for empty input", quests)
	}
}

func TestGenerateRejectsNegativeQuality(t *testing.T) {
	gen := newGenerator(nil, defaultConfig())
	doc := document.Document{ID: "doc_bad", Category: quest.CategoryHealth, QualityScore: -1}

	if _, err := gen.Generate(context.Background(), []document.Document{doc}, quest.NewFeedback("help")); err == nil {
		t.Error("Generate() should reject a negative quality score")
	}
}

func TestDecodeQuestsRejectsWrongShape(t *testing.T) {
	gen := newGenerator(nil, defaultConfig())
	primary := document.Document{ID: "doc_x", Category: quest.CategoryHealth}

	tests := []struct {
		name  string
		reply string
	}{
		{name: "not json", reply: "sure, here are your quests"},
		{name: "too few quests", reply: `{"quests":[{"title":"a","then_action":"b","difficulty":"easy"}]}`},
		{name: "wrong tier order", reply: `{"quests":[
			{"title":"a","then_action":"b","difficulty":"hard"},
			{"title":"c","then_action":"d","difficulty":"medium"},
			{"title":"e","then_action":"f","difficulty":"easy"}]}`},
		{name: "missing title", reply: `{"quests":[
			{"title":"","then_action":"b","difficulty":"easy"},
			{"title":"c","then_action":"d","difficulty":"medium"},
			{"title":"e","then_action":"f","difficulty":"hard"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := gen.decodeQuests(tt.reply, primary); err == nil {
				t.Error("decodeQuests() should reject malformed output")
			}
		})
	}
}

func TestDecodeQuestsFencedReply(t *testing.T) {
	gen := newGenerator(nil, defaultConfig())
	primary := document.Document{ID: "doc_x", Category: quest.CategoryHealth}
	reply := "```json\n" + `{"quests":[
		{"title":"a","then_action":"b","difficulty":"easy"},
		{"title":"c","then_action":"d","difficulty":"medium"},
		{"title":"e","then_action":"f","difficulty":"HARD"}]}` + "\n```"

	quests, err := gen.decodeQuests(reply, primary)
	if err != nil {
		t.Fatalf("decodeQuests() error = %v", err)
	}
	if len(quests) != 3 {
		t.Fatalf("decodeQuests() returned %d quests", len(quests))
	}
	if quests[2].Difficulty != quest.DifficultyHard {
		t.Errorf("difficulty = %v, want normalized hard", quests[2].Difficulty)
	}
}
