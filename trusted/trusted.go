package trusted

import (
	"context"

	"github.com/sweetpotato0/questflow/quest"
)

// Confidence is the ordered confidence tier of an excerpt's source.
type Confidence string

const (
	ConfidenceLow      Confidence = "LOW"
	ConfidenceMedium   Confidence = "MEDIUM"
	ConfidenceHigh     Confidence = "HIGH"
	ConfidenceVeryHigh Confidence = "VERY_HIGH"
)

// Excerpt is a short snippet from an external authoritative corpus. Excerpts
// are produced per request and never persisted.
type Excerpt struct {
	Title      string     `json:"title"`
	Content    string     `json:"content"`
	Source     string     `json:"source"`
	Confidence Confidence `json:"confidence"`
}

// Retriever is the trusted-corpus capability consumed by the synthesize
// path. An empty result is valid and must not abort synthesis.
type Retriever interface {
	// Search returns excerpts relevant to the query within the category,
	// most relevant first.
	Search(ctx context.Context, query string, category quest.Category) ([]Excerpt, error)
}
