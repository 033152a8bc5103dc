package driving

import (
	"context"

	"github.com/floorwise/floorwise-cli/internal/core/domain"
)

// AnswerService composes a grounded answer from retrieval hits.
type AnswerService interface {
	// Answer retrieves passages for the query and asks the
	// text-completion backend to compose an answer from them.
	Answer(ctx context.Context, query string, opts domain.RetrievalOptions) (*Answer, error)
}

// Answer is a composed response with its supporting sources.
type Answer struct {
	// Text is the generated answer.
	Text string

	// Sources are the retrieval hits the answer was grounded on.
	// Empty when no reliable passages were found.
	Sources []domain.RetrievalHit

	// Debug carries the retrieval telemetry for the underlying query.
	Debug domain.RetrievalDebug
}
