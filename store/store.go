package store

import (
	"context"

	"github.com/sweetpotato0/questflow/document"
)

// Store is the durable persistence capability for reference documents.
// Implementations never overwrite an existing identifier's content; a save
// against a taken identifier fails with errors.ErrAlreadyExists.
type Store interface {
	// Save persists the document and returns its identifier. A document
	// without an identifier is assigned one derived from its category and
	// creation time.
	Save(ctx context.Context, doc document.Document) (string, error)

	// Get retrieves a document by identifier, or errors.ErrNotFound.
	Get(ctx context.Context, id string) (document.Document, error)
}
