package similarity

import (
	"context"

	"github.com/sweetpotato0/questflow/document"
)

// Match pairs a reference document with its similarity score for one query.
// The score is also attached to the document's metadata as a view-time
// annotation so downstream consumers can report it.
type Match struct {
	Document document.Document
	Score    float64
}

// Index is the similarity-search capability consumed by the pipeline.
// A production backing may be a vector index or a managed search service;
// implementations must keep scores stable across repeated calls so the
// reuse gate stays deterministic.
type Index interface {
	// Search returns documents scoring at least threshold against the
	// query, highest score first, truncated to limit.
	Search(ctx context.Context, query string, threshold float64, limit int) ([]Match, error)

	// Index adds a document to the searchable set. Indexing the same
	// document identifier again overwrites the entry, it never duplicates.
	Index(ctx context.Context, doc document.Document) error
}
