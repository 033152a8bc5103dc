package services

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"time"

	// Figure decoding for the size gate.
	_ "image/jpeg"
	_ "image/png"

	"github.com/google/uuid"

	"github.com/floorwise/floorwise-cli/internal/chunking"
	"github.com/floorwise/floorwise-cli/internal/core/domain"
	"github.com/floorwise/floorwise-cli/internal/core/ports/driven"
	"github.com/floorwise/floorwise-cli/internal/core/ports/driving"
	"github.com/floorwise/floorwise-cli/internal/index"
	"github.com/floorwise/floorwise-cli/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// minImageDimension is the pixel floor below which embedded figures are
// skipped as decorative (icons, bullets, rules).
const minImageDimension = 100

// IngestService runs the manual ingestion pipeline: extraction, chunking,
// figure description, embedding and transactional persistence.
type IngestService struct {
	store     driven.CorpusStore
	embedder  driven.EmbeddingService
	vision    driven.VisionService
	extractor driven.PageExtractor
	chunker   *chunking.Chunker
	indexes   *index.Manager
}

// NewIngestService creates an ingestion service. vision may be nil, in
// which case the figure-description stage is skipped entirely.
func NewIngestService(
	store driven.CorpusStore,
	embedder driven.EmbeddingService,
	vision driven.VisionService,
	extractor driven.PageExtractor,
	indexes *index.Manager,
) *IngestService {
	return &IngestService{
		store:     store,
		embedder:  embedder,
		vision:    vision,
		extractor: extractor,
		chunker:   chunking.New(),
		indexes:   indexes,
	}
}

// Ingest processes the document at path into chunks for the manual,
// replacing all chunks from any previous run. Old chunks are deleted only
// after extraction succeeds, so a broken file never wipes a manual's
// existing corpus.
func (s *IngestService) Ingest(ctx context.Context, manualID, path string) (domain.IngestReport, error) {
	report := domain.IngestReport{ManualID: manualID}
	logger.Section("Manual Ingestion")

	if _, err := s.store.GetManual(ctx, manualID); err != nil {
		return report, fmt.Errorf("resolving manual %s: %w", manualID, err)
	}

	// Embeddings are produced at write time; without the backend the run
	// cannot do anything useful, so fail before touching the corpus.
	if err := s.embedder.Ping(ctx); err != nil {
		return report, fmt.Errorf("%w: %v", domain.ErrEmbeddingUnavailable, err)
	}

	pages, err := s.extractor.Extract(ctx, path)
	if err != nil {
		return report, fmt.Errorf("extracting %s: %w", path, err)
	}
	report.Pages = len(pages)
	logger.Info("Extracted %d pages from %s", len(pages), path)

	// Wholesale replacement: re-ingestion clears previous chunks even
	// when the new run yields nothing.
	if err := s.store.DeleteChunksByManual(ctx, manualID); err != nil {
		return report, fmt.Errorf("clearing previous chunks: %w", err)
	}

	now := time.Now().UTC()
	var chunks []domain.ManualChunk

	for _, page := range pages {
		for _, c := range s.chunker.Split(page.Text, page.Number) {
			chunks = append(chunks, domain.ManualChunk{
				ID:           uuid.NewString(),
				ManualID:     manualID,
				Text:         c.Text,
				PageNumber:   c.PageNumber,
				SectionTitle: c.SectionTitle,
				Type:         domain.ChunkText,
				CreatedAt:    now,
			})
			report.TextChunks++
		}

		described, skipped := s.describeFigures(ctx, page)
		for _, text := range described {
			chunks = append(chunks, domain.ManualChunk{
				ID:         uuid.NewString(),
				ManualID:   manualID,
				Text:       text,
				PageNumber: page.Number,
				Type:       domain.ChunkImageDescription,
				CreatedAt:  now,
			})
			report.ImageChunks++
		}
		report.ImagesSkipped += skipped
	}

	if len(chunks) == 0 {
		logger.Warn("No chunks produced for manual %s", manualID)
		s.indexes.Invalidate()
		return report, nil
	}

	texts := make([]string, len(chunks))
	for i := range chunks {
		texts[i] = chunks[i].Text
	}
	vectors, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return report, fmt.Errorf("embedding %d chunks: %w", len(chunks), err)
	}
	if len(vectors) != len(chunks) {
		return report, fmt.Errorf("embedding batch returned %d vectors for %d chunks", len(vectors), len(chunks))
	}
	for i := range chunks {
		if len(vectors[i]) != domain.EmbeddingDimensions {
			return report, fmt.Errorf("%w: got %d, want %d", domain.ErrEmbeddingDimensions, len(vectors[i]), domain.EmbeddingDimensions)
		}
		chunks[i].Embedding = vectors[i]
	}

	if err := s.store.InsertChunks(ctx, chunks); err != nil {
		return report, fmt.Errorf("persisting chunks: %w", err)
	}
	s.indexes.Invalidate()

	logger.Info("Ingested manual %s: %d text chunks, %d figure descriptions, %d figures skipped",
		manualID, report.TextChunks, report.ImageChunks, report.ImagesSkipped)
	return report, nil
}

// describeFigures runs the vision stage for one page: size-gates each
// embedded figure and asks the vision backend to describe those that
// pass. Failures skip the single figure, never the page.
func (s *IngestService) describeFigures(ctx context.Context, page domain.Page) (described []string, skipped int) {
	if len(page.Images) == 0 {
		return nil, 0
	}
	if s.vision == nil {
		logger.Debug("Vision backend not configured, skipping %d figures on page %d", len(page.Images), page.Number)
		return nil, len(page.Images)
	}

	for _, img := range page.Images {
		cfg, _, err := image.DecodeConfig(bytes.NewReader(img.Data))
		if err != nil {
			logger.Debug("Undecodable figure on page %d: %v", page.Number, err)
			skipped++
			continue
		}
		if cfg.Width < minImageDimension || cfg.Height < minImageDimension {
			skipped++
			continue
		}

		desc, err := s.vision.Describe(ctx, img.Data)
		if err != nil {
			logger.Warn("Describing figure on page %d failed: %v", page.Number, err)
			skipped++
			continue
		}
		described = append(described, fmt.Sprintf("[Image from page %d]: %s", page.Number, desc))
	}
	return described, skipped
}
