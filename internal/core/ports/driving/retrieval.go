package driving

import (
	"context"

	"github.com/floorwise/floorwise-cli/internal/core/domain"
)

// RetrievalService provides hybrid retrieval to external actors.
type RetrievalService interface {
	// Retrieve runs hybrid (semantic + lexical) retrieval for the query
	// and returns ranked hits with debug telemetry. An empty hit list
	// with debug.Reason set means "no reliable answer", not an error.
	Retrieve(ctx context.Context, query string, opts domain.RetrievalOptions) ([]domain.RetrievalHit, domain.RetrievalDebug, error)
}
