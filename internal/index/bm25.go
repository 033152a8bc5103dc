// Package index provides the in-memory lexical index: a BM25 term
// statistics model over the current document set, rebuilt wholesale and
// published as immutable snapshots.
package index

import (
	"math"
	"regexp"
	"strings"

	"github.com/floorwise/floorwise-cli/internal/core/domain"
)

// BM25 parameters (Okapi variant).
const (
	k1      = 1.5
	b       = 0.75
	epsilon = 0.25
)

// wordPattern matches word tokens. The same pattern is used for indexing
// and querying - tokenisation must be stable or scores are meaningless.
var wordPattern = regexp.MustCompile(`\w+`)

// Tokenize lowercases text and splits it into word tokens.
func Tokenize(text string) []string {
	return wordPattern.FindAllString(strings.ToLower(text), -1)
}

// Snapshot is an immutable point-in-time build of the lexical index over
// one scope's corpus. It is replaced wholesale on invalidation and safe
// for concurrent readers.
type Snapshot struct {
	docs       []domain.CorpusDocument
	termFreqs  []map[string]int
	docLens    []int
	avgDocLen  float64
	idf        map[string]float64
}

// Build constructs a snapshot from the given documents. A nil or empty
// document set yields a valid snapshot whose Scores returns no hits.
func Build(docs []domain.CorpusDocument) *Snapshot {
	s := &Snapshot{
		docs:      docs,
		termFreqs: make([]map[string]int, len(docs)),
		docLens:   make([]int, len(docs)),
		idf:       make(map[string]float64),
	}

	docFreqs := make(map[string]int)
	totalLen := 0
	for i, doc := range docs {
		tokens := Tokenize(doc.Text)
		freqs := make(map[string]int, len(tokens))
		for _, tok := range tokens {
			freqs[tok]++
		}
		for term := range freqs {
			docFreqs[term]++
		}
		s.termFreqs[i] = freqs
		s.docLens[i] = len(tokens)
		totalLen += len(tokens)
	}

	if len(docs) > 0 {
		s.avgDocLen = float64(totalLen) / float64(len(docs))
	}

	// Okapi IDF. Terms appearing in more than half the corpus get a
	// negative raw IDF; those are floored to epsilon times the average,
	// so common terms still contribute a small positive weight.
	n := float64(len(docs))
	idfSum := 0.0
	var negative []string
	for term, df := range docFreqs {
		idf := math.Log(n-float64(df)+0.5) - math.Log(float64(df)+0.5)
		s.idf[term] = idf
		idfSum += idf
		if idf < 0 {
			negative = append(negative, term)
		}
	}
	if len(docFreqs) > 0 {
		avgIDF := idfSum / float64(len(docFreqs))
		floor := epsilon * avgIDF
		for _, term := range negative {
			s.idf[term] = floor
		}
	}

	return s
}

// Scores returns one BM25 score per indexed document, parallel to the
// build order. Higher is better; the range is unbounded.
func (s *Snapshot) Scores(queryTokens []string) []float64 {
	scores := make([]float64, len(s.docs))
	if len(s.docs) == 0 {
		return scores
	}

	for i := range s.docs {
		freqs := s.termFreqs[i]
		norm := k1 * (1 - b + b*float64(s.docLens[i])/s.avgDocLen)
		var score float64
		for _, term := range queryTokens {
			f := float64(freqs[term])
			if f == 0 {
				continue
			}
			score += s.idf[term] * f * (k1 + 1) / (f + norm)
		}
		scores[i] = score
	}
	return scores
}

// Documents returns the indexed documents in build order.
func (s *Snapshot) Documents() []domain.CorpusDocument {
	return s.docs
}

// Len returns the number of indexed documents.
func (s *Snapshot) Len() int {
	return len(s.docs)
}
