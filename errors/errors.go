package errors

import "errors"

// Sentinel errors for common failure conditions across the pipeline and its
// backing stores.
var (
	// ErrNotFound indicates that a requested document was not found
	ErrNotFound = errors.New("document not found")

	// ErrAlreadyExists indicates that a document identifier is already taken
	ErrAlreadyExists = errors.New("document already exists")

	// ErrInvalidInput indicates that input validation failed
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnavailable indicates that a backing capability is not reachable
	ErrUnavailable = errors.New("backend unavailable")

	// ErrUnparsableOutput indicates that a model reply did not match the
	// expected structure
	ErrUnparsableOutput = errors.New("unparsable model output")
)
