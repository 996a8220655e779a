package port

import (
	"context"

	"github.com/knowledgeintel/ragserver/internal/domain"
)

// VectorStore is the persistence collaborator for document chunks.
//
// Role-based visibility is enforced inside SearchSimilar by the store's own
// role to doc_type mapping (Admin sees all, HR sees public+hr, Employee sees
// public); callers never recompute it on returned rows.
type VectorStore interface {
	// SearchSimilar returns up to count rows above the similarity threshold,
	// ranked by similarity, pre-filtered by the caller's role.
	SearchSimilar(ctx context.Context, queryEmbedding []float32, role domain.Role, threshold float64, count int) ([]domain.MatchedDocument, error)

	// InsertBatch persists one batch of records as a single transaction.
	InsertBatch(ctx context.Context, records []domain.DocumentRecord) error

	// Ping verifies store connectivity.
	Ping(ctx context.Context) error
}
