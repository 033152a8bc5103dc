package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/floorwise/floorwise-cli/internal/core/domain"
	"github.com/floorwise/floorwise-cli/internal/core/ports/driven"
	"github.com/floorwise/floorwise-cli/internal/core/ports/driving"
	"github.com/floorwise/floorwise-cli/internal/index"
	"github.com/floorwise/floorwise-cli/internal/logger"
)

// Ensure RetrievalService implements the interface.
var _ driving.RetrievalService = (*RetrievalService)(nil)

// minOverfetch is the floor on semantic candidate requests; small topK
// values still give the fusion stage room to re-rank.
const minOverfetch = 8

// candidate holds one document's per-path scores before fusion.
type candidate struct {
	doc domain.CorpusDocument
	sem float64
	lex float64
}

// RetrievalService orchestrates hybrid retrieval: semantic search over
// both corpora, lexical scoring over the scope's full corpus, weighted
// fusion and a confidence gate.
type RetrievalService struct {
	store    driven.CorpusStore
	embedder driven.EmbeddingService
	indexes  *index.Manager
}

// NewRetrievalService creates a retrieval service.
func NewRetrievalService(store driven.CorpusStore, embedder driven.EmbeddingService, indexes *index.Manager) *RetrievalService {
	return &RetrievalService{
		store:    store,
		embedder: embedder,
		indexes:  indexes,
	}
}

// Retrieve runs hybrid retrieval for the query.
//
// An empty hit list with debug.Reason set is the "no reliable answer"
// outcome and is not an error; errors are reserved for infrastructure
// failures (embedding backend, corpus store) that abort the request.
func (s *RetrievalService) Retrieve(ctx context.Context, query string, opts domain.RetrievalOptions) ([]domain.RetrievalHit, domain.RetrievalDebug, error) {
	logger.Section("Hybrid Retrieval")
	logger.Debug("Query: %q scope=%q", query, opts.Scope.Key())

	topK := opts.TopK
	if topK <= 0 {
		topK = domain.DefaultTopK
	}
	alpha := opts.Alpha
	if alpha <= 0 {
		alpha = domain.DefaultAlpha
	}
	minConfidence := opts.MinConfidence
	if minConfidence <= 0 {
		minConfidence = domain.DefaultMinConfidence
	}

	debug := domain.RetrievalDebug{
		Alpha:         alpha,
		MinConfidence: minConfidence,
	}

	// 1. Lexical snapshot for the scope. A failure here degrades the
	// request to semantic-only ranking rather than failing it.
	snapshot, err := s.indexes.GetOrBuild(ctx, opts.Scope)
	if err != nil {
		logger.Warn("Lexical index unavailable, degrading to semantic-only: %v", err)
		snapshot = nil
	}

	if snapshot != nil {
		debug.LexicalConsidered = snapshot.Len()
		if snapshot.Len() == 0 {
			logger.Info("Empty corpus for scope %q", opts.Scope.Key())
			debug.Reason = domain.ReasonEmptyCorpus
			return nil, debug, nil
		}
	}

	// 2. Query embedding, computed once. Embedding failure is fatal to
	// the request - a silently defaulted vector would rank garbage.
	queryVec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, debug, fmt.Errorf("embed query: %w", err)
	}

	// 3. Semantic candidates from both corpora, independently, already
	// scope-filtered by the store. Over-fetch so fusion can re-rank.
	fetchK := topK * 2
	if fetchK < minOverfetch {
		fetchK = minOverfetch
	}

	noteHits, err := s.store.NearestNotes(ctx, queryVec, fetchK, opts.Scope)
	if err != nil {
		return nil, debug, fmt.Errorf("semantic note search: %w", err)
	}
	chunkHits, err := s.store.NearestChunks(ctx, queryVec, fetchK, opts.Scope)
	if err != nil {
		return nil, debug, fmt.Errorf("semantic chunk search: %w", err)
	}
	debug.SemanticNotes = len(noteHits)
	debug.SemanticChunks = len(chunkHits)
	logger.Debug("Semantic candidates: notes=%d chunks=%d", len(noteHits), len(chunkHits))

	// 4-6. Fuse by document identity. Insertion order is preserved so
	// that exactly equal fused scores keep their retrieval order.
	var order []string
	merged := make(map[string]*candidate)
	add := func(hit driven.SemanticHit) {
		sim := clamp01(hit.Similarity)
		if c, ok := merged[hit.Document.Key]; ok {
			if sim > c.sem {
				c.sem = sim
			}
			return
		}
		merged[hit.Document.Key] = &candidate{doc: hit.Document, sem: sim}
		order = append(order, hit.Document.Key)
	}
	for _, h := range noteHits {
		add(h)
	}
	for _, h := range chunkHits {
		add(h)
	}

	if snapshot != nil {
		s.mergeLexical(snapshot, query, merged, &order)
	}

	if len(merged) == 0 {
		// Corpus known non-empty (or unknown when degraded): nothing
		// scored at all, which the gate reports as low confidence.
		logger.Info("No candidates from either path")
		debug.Reason = domain.ReasonLowConfidence
		return nil, debug, nil
	}

	hits := make([]domain.RetrievalHit, 0, len(merged))
	for _, key := range order {
		c := merged[key]
		hits = append(hits, newHit(c, alpha))
	}
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].FusedScore > hits[j].FusedScore
	})
	if len(hits) > topK {
		hits = hits[:topK]
	}

	// 8. Confidence gate, boundary inclusive: a best score exactly at
	// the threshold passes.
	if hits[0].FusedScore < minConfidence {
		logger.Info("Low retrieval confidence: best=%.3f threshold=%.3f", hits[0].FusedScore, minConfidence)
		debug.Reason = domain.ReasonLowConfidence
		return nil, debug, nil
	}

	debug.TopScores = make([]float64, len(hits))
	for i := range hits {
		debug.TopScores[i] = hits[i].FusedScore
	}
	logger.Debug("Returning %d hits, top score %.3f", len(hits), hits[0].FusedScore)

	return hits, debug, nil
}

// mergeLexical scores the snapshot corpus against the query, max-
// normalises, and folds the scores into the candidate set. Documents
// that only surface lexically join with a zero semantic component.
func (s *RetrievalService) mergeLexical(snapshot *index.Snapshot, query string, merged map[string]*candidate, order *[]string) {
	tokens := index.Tokenize(query)
	scores := snapshot.Scores(tokens)

	maxScore := 0.0
	for _, sc := range scores {
		if sc > maxScore {
			maxScore = sc
		}
	}
	if maxScore == 0 {
		// No term overlap anywhere; every lexical component stays 0.
		return
	}

	docs := snapshot.Documents()
	for i, doc := range docs {
		norm := scores[i] / maxScore
		if c, ok := merged[doc.Key]; ok {
			if norm > c.lex {
				c.lex = norm
			}
			continue
		}
		if norm == 0 {
			continue
		}
		merged[doc.Key] = &candidate{doc: doc, lex: norm}
		*order = append(*order, doc.Key)
	}
}

// newHit builds a ranked hit from a fused candidate.
func newHit(c *candidate, alpha float64) domain.RetrievalHit {
	return domain.RetrievalHit{
		Key:           c.doc.Key,
		Source:        c.doc.Source,
		Text:          c.doc.Text,
		SemanticScore: c.sem,
		LexicalScore:  c.lex,
		FusedScore:    alpha*c.sem + (1-alpha)*c.lex,
		CreatedAt:     c.doc.CreatedAt,
		MachineID:     c.doc.MachineID,
		ManualTitle:   c.doc.ManualTitle,
		PageNumber:    c.doc.PageNumber,
		SectionTitle:  c.doc.SectionTitle,
		ChunkType:     c.doc.ChunkType,
	}
}

// clamp01 converts a store similarity into the [0,1] range, guarding
// against metric quirks at either end.
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
