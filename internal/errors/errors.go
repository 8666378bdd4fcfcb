package errors

import "errors"

// This package defines the sentinel errors used across the application.
// Services return these (usually wrapped with context via fmt.Errorf and %w)
// and the API layer maps them to HTTP status codes with errors.Is, keeping
// business logic decoupled from transport concerns.

var (
	// ErrValidation signifies that client-supplied input failed validation,
	// e.g. an empty messages list. Mapped to 400 Bad Request.
	ErrValidation = errors.New("validation failed")

	// ErrEmbedding signifies that the embedding service failed or was given
	// empty text. The request is aborted; mapped to 500. Never retried.
	ErrEmbedding = errors.New("embedding failed")

	// ErrIndexUnavailable signifies that the vector index is unreachable or
	// not initialized. Mapped to 500. Never retried.
	ErrIndexUnavailable = errors.New("vector index unavailable")

	// ErrCollectionNotFound signifies that the target collection does not
	// exist in the vector index. Mapped to 500 with a message telling the
	// operator to run the indexer setup.
	ErrCollectionNotFound = errors.New("collection not found")

	// ErrNotFound signifies that a requested resource could not be located.
	// Mapped to 404 Not Found.
	ErrNotFound = errors.New("resource not found")

	// ErrInternal is the generic fallback for unexpected server errors.
	ErrInternal = errors.New("internal server error")
)
