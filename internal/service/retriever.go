package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/knowledgeintel/ragserver/internal/domain"
	"github.com/knowledgeintel/ragserver/internal/port"
)

// Default search parameters, overridable per call.
const (
	DefaultTopK      = 5
	DefaultThreshold = 0.7
)

// Retriever performs role-aware semantic search over the document store.
type Retriever struct {
	embedder port.Embedder
	store    port.VectorStore
}

// NewRetriever creates a retriever over the given embedder and store.
func NewRetriever(embedder port.Embedder, store port.VectorStore) *Retriever {
	return &Retriever{embedder: embedder, store: store}
}

// Search embeds the query and runs a role-filtered nearest-neighbor search,
// assembling ranked context and source citations. topK and threshold fall
// back to the defaults when non-positive.
//
// An empty result set is a normal outcome, not an error. Any collaborator
// failure surfaces as ErrRetrievalFailed with no partial results.
func (r *Retriever) Search(ctx context.Context, query, role string, topK int, threshold float64) (domain.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return domain.SearchResult{}, fmt.Errorf("%w: query cannot be empty", port.ErrInvalidArgument)
	}

	callerRole, coerced := domain.ParseRole(role)
	if coerced {
		slog.Warn("unknown role, defaulting to Employee", "role", role)
	}

	if topK <= 0 {
		topK = DefaultTopK
	}
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	threshold = adaptiveThreshold(query, threshold)

	slog.Info("semantic search",
		"query", truncateForLog(query, 60),
		"role", callerRole,
		"top_k", topK,
		"threshold", threshold,
	)

	queryEmbedding, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return domain.SearchResult{}, fmt.Errorf("%w: embed query: %w", port.ErrRetrievalFailed, err)
	}
	if want := r.embedder.Dimension(); len(queryEmbedding) != want {
		return domain.SearchResult{}, fmt.Errorf("%w: query embedding has %d components, expected %d",
			port.ErrDimensionMismatch, len(queryEmbedding), want)
	}

	// RBAC is enforced by the store's role filter; rows come back already
	// restricted to the caller's visible doc types.
	rows, err := r.store.SearchSimilar(ctx, queryEmbedding, callerRole, threshold, topK)
	if err != nil {
		return domain.SearchResult{}, fmt.Errorf("%w: search store: %w", port.ErrRetrievalFailed, err)
	}

	if len(rows) == 0 {
		slog.Info("no relevant documents found", "role", callerRole)
		return domain.SearchResult{}, nil
	}

	contextBlocks := make([]string, len(rows))
	sources := make([]domain.Source, len(rows))
	for i, row := range rows {
		contextBlocks[i] = fmt.Sprintf("[Source %d: %s | Page %d]\n%s",
			i+1, row.Filename, row.PageNumber, strings.TrimSpace(row.Content))
		sources[i] = domain.Source{
			Filename:   row.Filename,
			Page:       row.PageNumber,
			Similarity: math.Round(row.Similarity*1000) / 1000,
			DocType:    row.DocType,
		}
	}

	result := domain.SearchResult{
		Context: strings.Join(contextBlocks, "\n\n"),
		Sources: sources,
		Count:   len(rows),
	}
	slog.Info("retrieved chunks", "count", result.Count, "context_chars", len(result.Context))
	return result, nil
}

// adaptiveThreshold lowers the similarity floor for short, vague queries
// ("leave policy") that otherwise under-match against verbose chunks.
func adaptiveThreshold(query string, base float64) float64 {
	wordCount := len(strings.Fields(query))
	switch {
	case wordCount <= 3:
		return math.Max(base-0.15, 0.4)
	case wordCount <= 6:
		return math.Max(base-0.05, 0.5)
	default:
		return base
	}
}

func truncateForLog(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
