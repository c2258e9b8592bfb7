package vector

import "errors"

var (
	// ErrNotFound is returned when a document is not found in an index.
	ErrNotFound = errors.New("document not found")

	// ErrEmbedding is returned when embedding generation fails.
	ErrEmbedding = errors.New("embedding failed")

	// ErrConnection is returned for transport-level index failures
	// (timeouts, 5xx). Callers may retry these.
	ErrConnection = errors.New("index connection failed")

	// ErrBadRequest is returned when the index rejects the call (4xx).
	// Retrying without changing the request will not help.
	ErrBadRequest = errors.New("index rejected request")
)
