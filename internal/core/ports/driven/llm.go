package driven

import "context"

// LLMService provides text completion for answer composition. This is an
// optional service - when nil, answering a question that did retrieve
// passages fails with domain.ErrLLMUnavailable.
//
// Implementations may include:
//   - Ollama (local models)
//   - Any OpenAI-compatible chat endpoint
type LLMService interface {
	// Generate produces text completion from a prompt.
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Ping validates the service is reachable.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// GenerateOptions configures text generation behaviour.
type GenerateOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic).
	Temperature float64

	// StopWords are sequences that stop generation when encountered.
	StopWords []string
}
