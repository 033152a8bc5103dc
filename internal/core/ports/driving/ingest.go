package driving

import (
	"context"

	"github.com/floorwise/floorwise-cli/internal/core/domain"
)

// IngestService runs the document-to-chunk pipeline for manuals.
type IngestService interface {
	// Ingest processes the document at path into chunks for the given
	// manual, replacing any chunks from a previous run. It is a
	// long-running, restartable batch operation; concurrent ingestion of
	// the same manual is not supported.
	Ingest(ctx context.Context, manualID, path string) (domain.IngestReport, error)
}
