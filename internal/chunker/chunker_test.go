package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/knowledgeintel/ragserver/internal/port"
)

func repeatSentence(n int) string {
	return strings.TrimSpace(strings.Repeat("The quick brown fox jumps over the lazy dog. ", n))
}

func TestSplit_EmptyInput(t *testing.T) {
	for _, input := range []string{"", "   ", "\n\t  \n"} {
		chunks, err := Split(input, DefaultConfig())
		require.NoError(t, err)
		assert.Nil(t, chunks)
	}
}

func TestSplit_ShortTextSingleChunk(t *testing.T) {
	chunks, err := Split("A short policy note.", DefaultConfig())
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "A short policy note.", chunks[0].Text)
	assert.Equal(t, 0, chunks[0].Index)
	assert.Equal(t, 1, chunks[0].PageHint)
}

func TestSplit_NormalizesWhitespace(t *testing.T) {
	chunks, err := Split("  leave\n\npolicy\t\tapplies   here  ", DefaultConfig())
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "leave policy applies here", chunks[0].Text)
}

func TestSplit_Deterministic(t *testing.T) {
	text := repeatSentence(80)
	first, err := Split(text, DefaultConfig())
	require.NoError(t, err)
	second, err := Split(text, DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestSplit_PrefersSentenceBoundary(t *testing.T) {
	text := repeatSentence(80)
	chunks, err := Split(text, DefaultConfig())
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)

	// Every chunk except possibly the last should end at a sentence
	// terminator, since the text has one every 46 characters.
	for _, c := range chunks[:len(chunks)-1] {
		assert.True(t, strings.HasSuffix(c.Text, "."), "chunk %d ends mid-sentence: %q", c.Index, c.Text)
	}
}

func TestSplit_MinimumChunkLength(t *testing.T) {
	text := repeatSentence(120)
	cfg := DefaultConfig()
	chunks, err := Split(text, cfg)
	require.NoError(t, err)

	for _, c := range chunks {
		assert.GreaterOrEqual(t, len(c.Text), cfg.MinChunk)
		assert.LessOrEqual(t, len(c.Text), cfg.ChunkSize)
	}
}

func TestSplit_ChunkCountBound(t *testing.T) {
	cfg := DefaultConfig()
	step := cfg.ChunkSize - cfg.Overlap

	for _, n := range []int{30, 75, 200} {
		text := repeatSentence(n)
		chunks, err := Split(text, cfg)
		require.NoError(t, err)

		bound := (len(text)+step-1)/step + 1
		assert.LessOrEqual(t, len(chunks), bound, "text length %d", len(text))
	}
}

func TestSplit_IndicesAreSequential(t *testing.T) {
	chunks, err := Split(repeatSentence(100), DefaultConfig())
	require.NoError(t, err)
	require.Greater(t, len(chunks), 2)

	for i, c := range chunks {
		assert.Equal(t, i, c.Index)
		assert.Equal(t, i+1, c.PageHint)
	}
}

func TestSplit_NoSentenceOrWordBoundary(t *testing.T) {
	// A single unbroken run of letters forces raw cuts at the window edge.
	text := strings.Repeat("x", 2500)
	cfg := Config{ChunkSize: 1000, Overlap: 200, MinChunk: 100}

	chunks, err := Split(text, cfg)
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)
	assert.Equal(t, 1000, len(chunks[0].Text))
}

func TestSplit_FixedStepIgnoresAdjustedBoundary(t *testing.T) {
	// Sentence boundaries shorten chunks, but the window still advances by
	// exactly ChunkSize-Overlap: each chunk must start at start = i*step in
	// the normalized text (modulo leading-space trimming).
	text := repeatSentence(80)
	cfg := DefaultConfig()
	step := cfg.ChunkSize - cfg.Overlap

	chunks, err := Split(text, cfg)
	require.NoError(t, err)

	for i, c := range chunks {
		windowStart := i * step
		window := text[windowStart:min(windowStart+cfg.ChunkSize, len(text))]
		assert.True(t, strings.HasPrefix(strings.TrimSpace(window), c.Text[:20]),
			"chunk %d does not start at its fixed window", i)
	}
}

func TestSplit_InvalidConfig(t *testing.T) {
	text := repeatSentence(10)

	_, err := Split(text, Config{ChunkSize: 0, Overlap: 0, MinChunk: 0})
	assert.ErrorIs(t, err, port.ErrInvalidArgument)

	_, err = Split(text, Config{ChunkSize: 100, Overlap: 100, MinChunk: 0})
	assert.ErrorIs(t, err, port.ErrInvalidArgument)

	_, err = Split(text, Config{ChunkSize: 100, Overlap: 20, MinChunk: -1})
	assert.ErrorIs(t, err, port.ErrInvalidArgument)
}
