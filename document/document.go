package document

import (
	"fmt"
	"time"

	"github.com/sweetpotato0/questflow/quest"
)

// Metadata keys shared across the pipeline.
const (
	// MetaSimilarityScore is a view-time annotation attached by the
	// similarity index to search results. It is never persisted.
	MetaSimilarityScore = "similarity_score"

	// MetaProvenance records how the document came to exist.
	MetaProvenance = "provenance"

	// MetaTrustedSourceCount records how many trusted excerpts informed an
	// authored document.
	MetaTrustedSourceCount = "trusted_sources_count"

	// MetaUserRequest records the feedback text an authored document
	// answers.
	MetaUserRequest = "user_request"
)

// Provenance values stored under MetaProvenance.
const (
	ProvenanceAuthored = "authored"
	ProvenanceCorpus   = "corpus"
)

// Document is a stored reference text used as grounding evidence for quest
// generation. Immutable after creation except for the transient similarity
// score annotation.
type Document struct {
	ID           string         `json:"id"`
	Category     quest.Category `json:"category"`
	Content      string         `json:"content"`
	Metadata     map[string]any `json:"metadata,omitempty"`
	QualityScore float64        `json:"quality_score"`
	CreatedAt    time.Time      `json:"created_at"`
}

// NewID allocates a stable identifier from category and creation time.
// Nanosecond resolution keeps concurrent allocations for the same category
// from colliding.
func NewID(category quest.Category, t time.Time) string {
	t = t.UTC()
	return fmt.Sprintf("%s_%s_%09d", category, t.Format("20060102_150405"), t.Nanosecond())
}

// Clone returns a deep copy of the document.
func (d Document) Clone() Document {
	out := d
	if d.Metadata != nil {
		out.Metadata = make(map[string]any, len(d.Metadata))
		for k, v := range d.Metadata {
			out.Metadata[k] = v
		}
	}
	return out
}

// SimilarityScore reads the transient search-time annotation, if present.
func (d Document) SimilarityScore() (float64, bool) {
	raw, ok := d.Metadata[MetaSimilarityScore]
	if !ok {
		return 0, false
	}
	score, ok := raw.(float64)
	return score, ok
}
