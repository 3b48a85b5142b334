package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrAnalysisInProgress indicates an analysis run is already active.
	// Starting a run while one is in flight is a no-op for the caller.
	ErrAnalysisInProgress = errors.New("analysis in progress")

	// ErrEmbeddingUnavailable indicates the embedding service could not
	// be constructed or reached. Semantic scores degrade to 0.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrUnsupportedFormat indicates a file extension no extractor handles.
	ErrUnsupportedFormat = errors.New("unsupported document format")
)
