package driven

import (
	"context"

	"github.com/floorwise/floorwise-cli/internal/core/domain"
)

// PageExtractor turns a source document into ordered pages of raw text
// and embedded figures. Backed by a PDF reader; other formats can be
// added as further adapters.
type PageExtractor interface {
	// Extract reads the document at path and returns its pages in order.
	Extract(ctx context.Context, path string) ([]domain.Page, error)
}

// CommandRunner executes an external command and returns its combined
// output. It exists so adapters that shell out (e.g. to pdfimages for
// figure extraction) can be tested without the binary installed.
type CommandRunner interface {
	// Run executes the named command with arguments.
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}
