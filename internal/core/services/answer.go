package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/floorwise/floorwise-cli/internal/core/domain"
	"github.com/floorwise/floorwise-cli/internal/core/ports/driven"
	"github.com/floorwise/floorwise-cli/internal/core/ports/driving"
	"github.com/floorwise/floorwise-cli/internal/logger"
)

// Ensure AnswerService implements the interface.
var _ driving.AnswerService = (*AnswerService)(nil)

// noAnswerText is returned when retrieval finds no reliable passages.
const noAnswerText = "I couldn't find relevant information about that in the notes or manuals."

// AnswerService composes grounded answers: it retrieves passages for a
// query and prompts the text-completion backend with them.
type AnswerService struct {
	retriever driving.RetrievalService
	llm       driven.LLMService
}

// NewAnswerService creates an answer service.
func NewAnswerService(retriever driving.RetrievalService, llm driven.LLMService) *AnswerService {
	return &AnswerService{
		retriever: retriever,
		llm:       llm,
	}
}

// Answer retrieves passages for the query and asks the LLM to compose an
// answer strictly from them. An empty retrieval result short-circuits to
// a fixed "no information" answer without calling the backend.
func (s *AnswerService) Answer(ctx context.Context, query string, opts domain.RetrievalOptions) (*driving.Answer, error) {
	hits, debug, err := s.retriever.Retrieve(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	if len(hits) == 0 {
		logger.Debug("No passages for %q (reason=%s)", query, debug.Reason)
		return &driving.Answer{Text: noAnswerText, Debug: debug}, nil
	}

	if s.llm == nil {
		return nil, domain.ErrLLMUnavailable
	}

	prompt := buildAnswerPrompt(query, hits)
	text, err := s.llm.Generate(ctx, prompt, driven.GenerateOptions{
		Temperature: 0.2,
	})
	if err != nil {
		return nil, fmt.Errorf("composing answer: %w", err)
	}

	return &driving.Answer{
		Text:    strings.TrimSpace(text),
		Sources: hits,
		Debug:   debug,
	}, nil
}

// buildAnswerPrompt renders the retrieved passages with their provenance
// into a grounded completion prompt.
func buildAnswerPrompt(query string, hits []domain.RetrievalHit) string {
	var b strings.Builder
	b.WriteString("You are a professional mechanical engineer assisting technicians on a shop floor.\n")
	b.WriteString("Answer the question using ONLY the context below. If the context does not\n")
	b.WriteString("contain the answer, say you don't know. Be concise and practical.\n\n")
	b.WriteString("Context:\n")
	for i, hit := range hits {
		b.WriteString(fmt.Sprintf("--- Source %d (%s) ---\n", i+1, describeSource(hit)))
		b.WriteString(hit.Text)
		b.WriteString("\n\n")
	}
	b.WriteString("Question: ")
	b.WriteString(query)
	b.WriteString("\n\nAnswer:")
	return b.String()
}

// describeSource renders a hit's provenance for the prompt and for
// source listings in the CLI.
func describeSource(hit domain.RetrievalHit) string {
	if hit.Source == domain.SourceNote {
		if hit.CreatedAt.IsZero() {
			return "shop-floor note"
		}
		return fmt.Sprintf("shop-floor note, %s", hit.CreatedAt.Format("2006-01-02"))
	}
	var parts []string
	if hit.ManualTitle != "" {
		parts = append(parts, hit.ManualTitle)
	}
	if hit.PageNumber > 0 {
		parts = append(parts, fmt.Sprintf("page %d", hit.PageNumber))
	}
	if hit.SectionTitle != "" {
		parts = append(parts, hit.SectionTitle)
	}
	if len(parts) == 0 {
		return "manual"
	}
	return "manual: " + strings.Join(parts, ", ")
}

// DescribeSource exposes provenance rendering to the CLI layer.
func DescribeSource(hit domain.RetrievalHit) string { return describeSource(hit) }
