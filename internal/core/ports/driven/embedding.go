package driven

import "context"

// EmbeddingService generates fixed-length vector embeddings from text.
// This is an external pretrained inference service; the engine never
// depends on which concrete model backs it. Failures are caught by the
// semantic scorer and degrade the score to 0, never a hard fault.
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Close releases resources.
	Close() error
}
