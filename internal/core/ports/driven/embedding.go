package driven

import "context"

// EmbeddingService generates vector embeddings from text. All documents
// and queries go through the same model, lazily reached on first call.
//
// Implementations must tolerate empty or very short strings - a
// degenerate vector is acceptable, an error is not. A backend that
// cannot be reached at all is fatal to the calling operation.
//
// Implementations may include:
//   - Ollama (all-minilm, nomic-embed-text)
//   - OpenAI (text-embedding-3-small with reduced dimensions)
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts efficiently.
	// This is more efficient than calling Embed in a loop for large batches.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size. It must match the
	// corpus store's vector column (domain.EmbeddingDimensions).
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight
	// test request. Called at startup of any dependent operation.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
