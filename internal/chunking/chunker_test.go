package chunking

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// wordPage builds a page of n distinct words with no sentence boundaries.
func wordPage(n int) string {
	words := make([]string, n)
	for i := range words {
		words[i] = fmt.Sprintf("w%d", i)
	}
	return strings.Join(words, " ")
}

func TestSplit_EmptyPage(t *testing.T) {
	c := New()
	assert.Nil(t, c.Split("", 1))
	assert.Nil(t, c.Split("   \n  ", 1))
}

func TestSplit_ShortChunkDiscarded(t *testing.T) {
	c := New()
	assert.Nil(t, c.Split("too few words here", 1))
}

func TestSplit_ExactlyMaxWords_SingleChunk(t *testing.T) {
	c := New()
	chunks := c.Split(wordPage(DefaultMaxWords), 3)

	require.Len(t, chunks, 1)
	assert.Equal(t, 3, chunks[0].PageNumber)
	assert.Len(t, strings.Fields(chunks[0].Text), DefaultMaxWords)
}

func TestSplit_MaxPlusOne_SplitsWithOverlap(t *testing.T) {
	c := New()
	chunks := c.Split(wordPage(DefaultMaxWords+1), 1)

	require.GreaterOrEqual(t, len(chunks), 2)

	first := strings.Fields(chunks[0].Text)
	second := strings.Fields(chunks[1].Text)

	// The first chunk's trailing overlap reappears at the start of the
	// second chunk.
	tail := first[len(first)-DefaultOverlapWords:]
	require.GreaterOrEqual(t, len(second), DefaultOverlapWords)
	assert.Equal(t, tail, second[:DefaultOverlapWords])
}

func TestSplit_PrefersSentenceBoundary(t *testing.T) {
	// 900 words with a sentence break falling inside the last 20% of the
	// first candidate chunk (between words 640 and 800).
	words := make([]string, 900)
	for i := range words {
		words[i] = fmt.Sprintf("w%d", i)
	}
	words[749] += "."
	text := strings.Join(words, " ")

	c := New()
	chunks := c.Split(text, 1)

	require.GreaterOrEqual(t, len(chunks), 2)
	first := strings.Fields(chunks[0].Text)
	assert.Len(t, first, 750)
	assert.True(t, strings.HasSuffix(chunks[0].Text, "."))
}

func TestSplit_LongLeadingTokenKeepsForwardProgress(t *testing.T) {
	// A sentence boundary right after a very long unbroken token (a URL
	// or part-number string) pulls the cut back to the first word; the
	// window must still advance instead of stepping to a negative start.
	text := strings.Repeat("x", 40000) + ". " + wordPage(800)

	c := New()
	chunks := c.Split(text, 1)

	require.NotEmpty(t, chunks)
	for i := 1; i < len(chunks); i++ {
		assert.NotEqual(t, chunks[i-1].Text, chunks[i].Text)
	}
	// Every word past the long token is still covered.
	last := chunks[len(chunks)-1].Text
	assert.True(t, strings.HasSuffix(last, "w799"))
}

func TestSplit_Idempotent(t *testing.T) {
	text := wordPage(2500)
	c := New()

	a := c.Split(text, 7)
	b := c.Split(text, 7)

	require.Equal(t, len(a), len(b))
	for i := range a {
		assert.Equal(t, a[i], b[i])
	}
}

func TestDetectSectionTitle(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "uppercase heading",
			text: "TROUBLESHOOTING\nerror code E34 means the spindle drive faulted",
			want: "TROUBLESHOOTING",
		},
		{
			name: "numbered dot heading",
			text: "3. Lubrication schedule\nApply grease weekly",
			want: "3. Lubrication schedule",
		},
		{
			name: "numbered paren heading",
			text: "4) Coolant system\nDrain and refill",
			want: "4) Coolant system",
		},
		{
			name: "chapter heading",
			text: "Chapter 12\nSpindle maintenance procedures",
			want: "Chapter 12",
		},
		{
			name: "chapter heading case insensitive",
			text: "CHAPTER 2 SAFETY\nAlways wear eye protection",
			want: "CHAPTER 2 SAFETY",
		},
		{
			name: "plain sentence is not a heading",
			text: "The machine requires daily cleaning.\nMore text here",
			want: "",
		},
		{
			name: "long uppercase line is not a heading",
			text: strings.Repeat("A", 120) + "\nbody",
			want: "",
		},
		{
			name: "empty text",
			text: "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectSectionTitle(tt.text))
		})
	}
}

func TestNew_OverlapClamped(t *testing.T) {
	c := New(WithMaxWords(100), WithOverlapWords(200))
	assert.Equal(t, 25, c.overlapWords)
}
