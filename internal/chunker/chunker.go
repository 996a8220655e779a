package chunker

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/knowledgeintel/ragserver/internal/domain"
	"github.com/knowledgeintel/ragserver/internal/port"
)

// Config controls chunking behavior.
type Config struct {
	ChunkSize int // max characters per chunk
	Overlap   int // characters shared between consecutive windows
	MinChunk  int // minimum chunk length to emit
}

// DefaultConfig returns the defaults tuned for sentence-transformer style
// embedding models.
func DefaultConfig() Config {
	return Config{
		ChunkSize: 1000,
		Overlap:   200,
		MinChunk:  100,
	}
}

const (
	// Window for searching a sentence terminator backwards from the cut point.
	sentenceLookback = 100
	// Window for the word-boundary fallback.
	wordLookback = 50
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// Split breaks text into overlapping chunks that prefer sentence boundaries.
//
// The window advances by a fixed step of ChunkSize-Overlap computed from the
// configuration, not from where the previous chunk actually ended. Real
// overlap therefore varies when a boundary adjustment shortens a chunk; this
// bounds the chunk count by configuration alone and is relied upon by tests.
func Split(text string, cfg Config) ([]domain.Chunk, error) {
	if cfg.ChunkSize <= 0 {
		return nil, fmt.Errorf("%w: chunk size must be positive, got %d", port.ErrInvalidArgument, cfg.ChunkSize)
	}
	if cfg.Overlap < 0 || cfg.Overlap >= cfg.ChunkSize {
		return nil, fmt.Errorf("%w: overlap %d out of range for chunk size %d", port.ErrInvalidArgument, cfg.Overlap, cfg.ChunkSize)
	}
	if cfg.MinChunk < 0 {
		return nil, fmt.Errorf("%w: min chunk must not be negative, got %d", port.ErrInvalidArgument, cfg.MinChunk)
	}

	text = strings.TrimSpace(whitespaceRun.ReplaceAllString(text, " "))
	if text == "" {
		return nil, nil
	}

	if len(text) <= cfg.ChunkSize {
		return []domain.Chunk{{Text: text, Index: 0, PageHint: 1}}, nil
	}

	var chunks []domain.Chunk
	step := cfg.ChunkSize - cfg.Overlap

	for start := 0; start < len(text); start += step {
		end := start + cfg.ChunkSize
		if end >= len(text) {
			end = len(text)
		} else {
			end = adjustBoundary(text, start, end)
		}

		chunk := strings.TrimSpace(text[start:end])
		if len(chunk) >= cfg.MinChunk {
			idx := len(chunks)
			chunks = append(chunks, domain.Chunk{
				Text:     chunk,
				Index:    idx,
				PageHint: idx + 1,
			})
		}
	}

	return chunks, nil
}

// adjustBoundary pulls the cut point back to the last sentence terminator
// within the trailing lookback window, falling back to the last space, and
// finally to the raw window edge.
func adjustBoundary(text string, start, end int) int {
	from := end - sentenceLookback
	if from < start {
		from = start
	}
	if pos := lastSentenceEnd(text, from, end); pos != -1 {
		return pos
	}

	from = end - wordLookback
	if from < start {
		from = start
	}
	if pos := strings.LastIndexByte(text[from:end], ' '); pos != -1 {
		return from + pos + 1
	}

	return end
}

// lastSentenceEnd finds the position just past the last '.', '!' or '?' in
// [from, end) that is followed by whitespace or end of text.
func lastSentenceEnd(text string, from, end int) int {
	for pos := end - 1; pos >= from; pos-- {
		switch text[pos] {
		case '.', '!', '?':
			if pos+1 >= len(text) || text[pos+1] == ' ' {
				return pos + 1
			}
		}
	}
	return -1
}
