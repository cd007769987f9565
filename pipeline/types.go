package pipeline

import (
	"time"

	"github.com/sweetpotato0/questflow/quest"
)

// Method tags which branch produced a result.
type Method string

const (
	// MethodReuse grounds quest generation in existing reference documents.
	MethodReuse Method = "reuse"
	// MethodSynthesize authors a new reference document before generating.
	MethodSynthesize Method = "synthesize"
	// MethodFallback is the error path: a single category-derived quest.
	MethodFallback Method = "fallback"
)

// Result is the structured pipeline outcome that callers consume. Its field
// layout is the stable contract a transport wrapper may serialize.
type Result struct {
	Success bool          `json:"success"`
	Method  Method        `json:"method"`
	Quests  []quest.Quest `json:"quests"`

	// Reuse metadata.
	DocumentsUsed    int       `json:"documents_used,omitempty"`
	SimilarityScores []float64 `json:"similarity_scores,omitempty"`

	// Synthesize metadata.
	DocumentID         string `json:"document_id,omitempty"`
	TrustedSourceCount int    `json:"trusted_source_count,omitempty"`

	ProcessedAt time.Time `json:"processed_at"`

	// Error carries a human-readable description on the fallback path.
	Error string `json:"error,omitempty"`
}
