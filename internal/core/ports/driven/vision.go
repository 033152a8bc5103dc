package driven

import "context"

// VisionService turns an embedded figure into searchable text. This is an
// optional service - when nil, the ingestion pipeline skips the
// figure-description stage for the whole run.
//
// A failure describing one image is non-fatal: the pipeline logs it,
// skips that image and continues.
type VisionService interface {
	// Describe generates a text description of the given encoded image.
	Describe(ctx context.Context, imageData []byte) (string, error)

	// ModelName returns the name of the vision model being used.
	ModelName() string

	// Ping validates the service is reachable.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
