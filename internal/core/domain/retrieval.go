package domain

import "time"

// Default retrieval tuning values. Alpha leans semantic; the confidence
// threshold suppresses low-quality results instead of returning them.
const (
	// DefaultAlpha is the weight of the semantic component in the fused
	// score. The lexical component gets 1 - alpha.
	DefaultAlpha = 0.6

	// DefaultMinConfidence is the fused score a top-ranked hit must
	// reach (inclusive) for results to be returned at all.
	DefaultMinConfidence = 0.28

	// DefaultTopK is the number of hits returned when the caller does
	// not specify one.
	DefaultTopK = 4
)

// RetrievalOptions configures a retrieval call.
type RetrievalOptions struct {
	// TopK is the maximum number of hits to return.
	TopK int

	// Scope restricts retrieval to a machine.
	Scope Scope

	// Alpha overrides DefaultAlpha when greater than zero.
	Alpha float64

	// MinConfidence overrides DefaultMinConfidence when greater than
	// zero.
	MinConfidence float64
}

// Reason explains an empty retrieval result. Callers must treat an empty
// result with a reason as "no answer available", not as an error.
type Reason string

// Machine-readable reasons for empty results.
const (
	// ReasonEmptyCorpus means no documents exist for the requested scope.
	ReasonEmptyCorpus Reason = "EmptyCorpus"

	// ReasonLowConfidence means the best fused score fell below the
	// confidence threshold.
	ReasonLowConfidence Reason = "LowConfidence"
)

// RetrievalHit is one ranked result of a hybrid retrieval call. Hits are
// ephemeral: constructed per query and discarded once consumed.
type RetrievalHit struct {
	// Key is the corpus-wide document key ("note:<id>" or "chunk:<id>").
	Key string

	// Source identifies the corpus the hit came from.
	Source SourceType

	// Text is the document text.
	Text string

	// SemanticScore is the normalised vector similarity in [0,1].
	// Zero when the document only surfaced lexically.
	SemanticScore float64

	// LexicalScore is the max-normalised term-overlap score in [0,1].
	// Zero when the document only surfaced semantically.
	LexicalScore float64

	// FusedScore is alpha*semantic + (1-alpha)*lexical.
	FusedScore float64

	// CreatedAt is the note's creation time, for note hits.
	CreatedAt time.Time

	// MachineID is the note's scope, for note hits.
	MachineID string

	// ManualTitle, PageNumber, SectionTitle and ChunkType carry manual
	// provenance, for manual hits.
	ManualTitle  string
	PageNumber   int
	SectionTitle string
	ChunkType    ChunkType
}

// RetrievalDebug accompanies every non-empty result so that ranking
// decisions can be reproduced and observed.
type RetrievalDebug struct {
	// Alpha is the fusion weight that was applied.
	Alpha float64

	// MinConfidence is the gate threshold that was applied.
	MinConfidence float64

	// SemanticNotes is the number of note candidates from the semantic
	// path.
	SemanticNotes int

	// SemanticChunks is the number of manual-chunk candidates from the
	// semantic path.
	SemanticChunks int

	// LexicalConsidered is the number of documents scored by the
	// lexical path.
	LexicalConsidered int

	// Reason is set when the result set is empty.
	Reason Reason

	// TopScores lists the fused scores of the returned hits, in rank
	// order.
	TopScores []float64
}
