package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/floorwise/floorwise-cli/internal/core/domain"
)

func TestAnswer_ComposesFromHits(t *testing.T) {
	retriever := &mockRetriever{
		hits: []domain.RetrievalHit{
			{
				Key:         "chunk:1",
				Source:      domain.SourceManual,
				Text:        "Error E34 indicates a spindle encoder fault.",
				ManualTitle: "Lathe Operator Manual",
				PageNumber:  12,
				FusedScore:  0.8,
			},
		},
		debug: domain.RetrievalDebug{Alpha: 0.6},
	}
	llm := &mockLLMService{reply: "  E34 is a spindle encoder fault; check the encoder cable.  "}
	svc := NewAnswerService(retriever, llm)

	answer, err := svc.Answer(context.Background(), "what does E34 mean", domain.RetrievalOptions{})

	require.NoError(t, err)
	assert.Equal(t, "E34 is a spindle encoder fault; check the encoder cable.", answer.Text)
	require.Len(t, answer.Sources, 1)
	assert.Equal(t, "what does E34 mean", retriever.lastQuery)

	// The prompt must carry both the passages and the question.
	assert.Contains(t, llm.lastPrompt, "spindle encoder fault")
	assert.Contains(t, llm.lastPrompt, "Lathe Operator Manual, page 12")
	assert.Contains(t, llm.lastPrompt, "what does E34 mean")
}

func TestAnswer_NoPassagesSkipsLLM(t *testing.T) {
	retriever := &mockRetriever{
		debug: domain.RetrievalDebug{Reason: domain.ReasonLowConfidence},
	}
	llm := &mockLLMService{}
	svc := NewAnswerService(retriever, llm)

	answer, err := svc.Answer(context.Background(), "anything", domain.RetrievalOptions{})

	require.NoError(t, err)
	assert.Equal(t, noAnswerText, answer.Text)
	assert.Empty(t, answer.Sources)
	assert.Equal(t, domain.ReasonLowConfidence, answer.Debug.Reason)
	assert.Zero(t, llm.calls)
}

func TestAnswer_RetrievalErrorPropagates(t *testing.T) {
	retriever := &mockRetriever{err: errors.New("store unavailable")}
	svc := NewAnswerService(retriever, &mockLLMService{})

	_, err := svc.Answer(context.Background(), "anything", domain.RetrievalOptions{})

	require.Error(t, err)
}

func TestAnswer_LLMErrorPropagates(t *testing.T) {
	retriever := &mockRetriever{
		hits: []domain.RetrievalHit{{Key: "note:1", Source: domain.SourceNote, Text: "some note"}},
	}
	svc := NewAnswerService(retriever, &mockLLMService{generateErr: errors.New("timeout")})

	_, err := svc.Answer(context.Background(), "anything", domain.RetrievalOptions{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "composing answer")
}

func TestAnswer_NoLLMConfigured(t *testing.T) {
	retriever := &mockRetriever{
		hits: []domain.RetrievalHit{{Key: "note:1", Source: domain.SourceNote, Text: "some note"}},
	}
	svc := NewAnswerService(retriever, nil)

	_, err := svc.Answer(context.Background(), "anything", domain.RetrievalOptions{})

	require.ErrorIs(t, err, domain.ErrLLMUnavailable)
}

func TestDescribeSource(t *testing.T) {
	assert.Equal(t, "shop-floor note", DescribeSource(domain.RetrievalHit{Source: domain.SourceNote}))
	assert.Equal(t, "manual: Lathe Operator Manual, page 12, TROUBLESHOOTING", DescribeSource(domain.RetrievalHit{
		Source:       domain.SourceManual,
		ManualTitle:  "Lathe Operator Manual",
		PageNumber:   12,
		SectionTitle: "TROUBLESHOOTING",
	}))
	assert.Equal(t, "manual", DescribeSource(domain.RetrievalHit{Source: domain.SourceManual}))
}
