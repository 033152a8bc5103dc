// Package chunking splits extracted page text into word-count-bounded,
// overlap-preserving chunks with section-aware metadata.
package chunking

import (
	"regexp"
	"strings"
)

// Default chunking policy. Tokens are approximated as whitespace-separated
// words.
const (
	// DefaultMaxWords is the target maximum words per chunk.
	DefaultMaxWords = 800

	// DefaultOverlapWords is the trailing overlap carried into the next
	// chunk.
	DefaultOverlapWords = 200

	// MinChunkWords is the minimum word count for a chunk to be kept;
	// anything shorter is discarded as noise.
	MinChunkWords = 5

	// maxHeadingLen is the length above which a first line is never
	// treated as a section heading.
	maxHeadingLen = 100
)

// Heading enumeration patterns: "3. ", "3) " and "Chapter 3".
var (
	numberedHeading = regexp.MustCompile(`^\d+[.)]\s+`)
	chapterHeading  = regexp.MustCompile(`(?i)^Chapter\s+\d+`)
)

// Chunk is a pipeline-internal text span. It is consumed immediately by
// the ingestion service to produce embeddings and persisted chunks.
type Chunk struct {
	// Text is the chunk content.
	Text string

	// PageNumber is the 1-based source page.
	PageNumber int

	// SectionTitle is the detected section heading, empty if none.
	SectionTitle string
}

// Chunker implements the text chunking policy.
type Chunker struct {
	maxWords     int
	overlapWords int
}

// Option configures the chunker.
type Option func(*Chunker)

// WithMaxWords sets the target maximum words per chunk.
func WithMaxWords(n int) Option {
	return func(c *Chunker) {
		if n > 0 {
			c.maxWords = n
		}
	}
}

// WithOverlapWords sets the trailing overlap in words.
func WithOverlapWords(n int) Option {
	return func(c *Chunker) {
		if n >= 0 {
			c.overlapWords = n
		}
	}
}

// New creates a chunker with the given options.
func New(opts ...Option) *Chunker {
	c := &Chunker{
		maxWords:     DefaultMaxWords,
		overlapWords: DefaultOverlapWords,
	}
	for _, opt := range opts {
		opt(c)
	}
	// Overlap must leave forward progress on every step.
	if c.overlapWords >= c.maxWords {
		c.overlapWords = c.maxWords / 4
	}
	return c
}

// Split chunks one page's text. A page at or below the word maximum
// yields exactly one chunk; longer pages are split with the trailing
// overlap carried forward. Chunks below MinChunkWords are discarded.
func (c *Chunker) Split(text string, pageNumber int) []Chunk {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	words := strings.Fields(text)
	if len(words) <= c.maxWords {
		if len(words) < MinChunkWords {
			return nil
		}
		return []Chunk{{
			Text:         text,
			PageNumber:   pageNumber,
			SectionTitle: DetectSectionTitle(text),
		}}
	}

	var chunks []Chunk
	start := 0
	for start < len(words) {
		end := start + c.maxWords
		if end > len(words) {
			end = len(words)
		}

		// Prefer a sentence boundary in the last 20% of the candidate
		// chunk over a hard word cut, to avoid mid-sentence truncation.
		if end < len(words) {
			candidate := strings.Join(words[start:end], " ")
			searchFrom := int(float64(len(candidate)) * 0.8)
			if cut := strings.LastIndex(candidate[searchFrom:], ". "); cut >= 0 {
				trimmed := candidate[:searchFrom+cut+1]
				end = start + len(strings.Fields(trimmed))
			}
		}

		chunkText := strings.TrimSpace(strings.Join(words[start:end], " "))
		if len(strings.Fields(chunkText)) >= MinChunkWords {
			chunks = append(chunks, Chunk{
				Text:         chunkText,
				PageNumber:   pageNumber,
				SectionTitle: DetectSectionTitle(chunkText),
			})
		}

		if end >= len(words) {
			break
		}
		// A sentence cut just past a very long token can land the window
		// end within the overlap; never move backwards or re-emit a span.
		next := end - c.overlapWords
		if next <= start {
			next = end
		}
		start = next
	}

	return chunks
}

// DetectSectionTitle classifies the first line of a text block as a
// section heading if it is short and fully upper-case, or matches a
// numbered/chapter enumeration pattern. Detection informs metadata only -
// the text itself is never discarded.
func DetectSectionTitle(text string) string {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	if len(lines) == 0 {
		return ""
	}
	first := strings.TrimSpace(lines[0])
	if first == "" || len(first) >= maxHeadingLen {
		return ""
	}
	if isUpper(first) || numberedHeading.MatchString(first) || chapterHeading.MatchString(first) {
		return first
	}
	return ""
}

// isUpper reports whether the string contains at least one letter and no
// lower-case letters, mirroring Python's str.isupper.
func isUpper(s string) bool {
	hasLetter := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
			return false
		case r >= 'A' && r <= 'Z':
			hasLetter = true
		}
	}
	return hasLetter
}
