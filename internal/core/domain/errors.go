package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
//
// Note that an empty retrieval result is NOT an error: the retriever
// returns an empty hit list with a machine-readable Reason instead.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmbeddingUnavailable indicates the embedding backend is not
	// configured or unreachable. This is fatal to any dependent
	// operation - retrieval and ingestion cannot run without vectors.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrVisionUnavailable indicates the vision-description backend is
	// not configured. Ingestion skips the figure-description stage
	// entirely when this is the case.
	ErrVisionUnavailable = errors.New("vision service unavailable")

	// ErrLLMUnavailable indicates the answer-composition backend is not
	// configured. Retrieval still works; only the composed answer is
	// disabled.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingDimensions indicates a vector does not match the
	// corpus dimensionality.
	ErrEmbeddingDimensions = errors.New("embedding dimension mismatch")
)
