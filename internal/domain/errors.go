package domain

import "errors"

var (
	// ErrIndexNotReady is returned when a query arrives before the vector
	// index has been built (missing document, empty extraction, failed build).
	ErrIndexNotReady = errors.New("vector index not ready")

	// ErrEmptyQuery rejects empty or whitespace-only queries before retrieval.
	ErrEmptyQuery = errors.New("query must not be empty")

	// ErrMalformedEmbedding signals that the embedding gateway returned a
	// response without a usable vector.
	ErrMalformedEmbedding = errors.New("malformed embedding response")
)

// RetrievalError wraps an embedding-gateway or store failure during query time.
type RetrievalError struct {
	Err error
}

func (e *RetrievalError) Error() string { return "retrieval failed: " + e.Err.Error() }
func (e *RetrievalError) Unwrap() error { return e.Err }

// GenerationError wraps a generative-gateway failure.
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string { return "generation failed: " + e.Err.Error() }
func (e *GenerationError) Unwrap() error { return e.Err }
