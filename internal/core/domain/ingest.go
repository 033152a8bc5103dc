package domain

// Page is one extracted page of a source document: its raw text plus any
// embedded figure images. Pages are the input to the chunking pipeline and
// are not retained after ingestion.
type Page struct {
	// Number is the 1-based page number.
	Number int

	// Text is the extracted page text.
	Text string

	// Images are the raw embedded figures found on the page.
	Images []PageImage
}

// PageImage is a raw embedded figure extracted from a page. Decoding and
// size filtering happen in the pipeline, not at extraction time.
type PageImage struct {
	// Data is the encoded image bytes (PNG or JPEG).
	Data []byte
}

// IngestReport summarises one ingestion run for a manual.
type IngestReport struct {
	// ManualID is the manual that was ingested.
	ManualID string

	// Pages is the number of pages processed.
	Pages int

	// TextChunks is the number of text chunks persisted.
	TextChunks int

	// ImageChunks is the number of figure-description chunks persisted.
	ImageChunks int

	// ImagesSkipped counts figures dropped because they were too small
	// or their description failed.
	ImagesSkipped int
}

// TotalChunks returns the number of chunks persisted by the run.
func (r IngestReport) TotalChunks() int {
	return r.TextChunks + r.ImageChunks
}
