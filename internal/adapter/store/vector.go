package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/knowledgeintel/ragserver/internal/domain"
	"github.com/knowledgeintel/ragserver/internal/port"
)

var _ port.VectorStore = (*VectorStore)(nil)

// VectorStore handles pgvector operations for document chunks. It implements
// port.VectorStore.
//
// Role-based visibility lives here, in the search predicate: callers pass
// the requester's role and never re-filter returned rows.
type VectorStore struct {
	store     *PostgresStore
	dimension int
}

// NewVectorStore creates a vector store backed by the given Postgres store.
func NewVectorStore(store *PostgresStore, dimension int) *VectorStore {
	return &VectorStore{store: store, dimension: dimension}
}

// visibleDocTypes maps a role to the doc_type values it may read.
// Admin sees everything, HR sees public+hr, Employee sees public only.
func visibleDocTypes(role domain.Role) []string {
	switch role {
	case domain.RoleAdmin:
		return []string{string(domain.DocTypePublic), string(domain.DocTypeHR), string(domain.DocTypeAdmin)}
	case domain.RoleHR:
		return []string{string(domain.DocTypePublic), string(domain.DocTypeHR)}
	default:
		return []string{string(domain.DocTypePublic)}
	}
}

// SearchSimilar performs a cosine similarity search filtered by the role's
// visible doc types and the similarity threshold, ranked best-first.
func (v *VectorStore) SearchSimilar(ctx context.Context, queryEmbedding []float32, role domain.Role, threshold float64, count int) ([]domain.MatchedDocument, error) {
	vectorStr := vectorToString(queryEmbedding)
	query := `SELECT d.content, d.filename, d.page_number, d.doc_type,
	                 1 - (d.embedding <=> $1::vector) AS similarity
	          FROM documents d
	          WHERE d.doc_type = ANY($2)
	            AND 1 - (d.embedding <=> $1::vector) >= $3
	          ORDER BY d.embedding <=> $1::vector
	          LIMIT $4`

	rows, err := v.store.db.QueryContext(ctx, query,
		vectorStr, pq.Array(visibleDocTypes(role)), threshold, count,
	)
	if err != nil {
		return nil, fmt.Errorf("search similar: %w", err)
	}
	defer rows.Close()

	var results []domain.MatchedDocument
	for rows.Next() {
		var m domain.MatchedDocument
		if err := rows.Scan(&m.Content, &m.Filename, &m.PageNumber, &m.DocType, &m.Similarity); err != nil {
			return nil, fmt.Errorf("scan similar: %w", err)
		}
		results = append(results, m)
	}
	return results, rows.Err()
}

// InsertBatch persists one batch of records inside a single transaction.
// The transaction is the unit of recovery: a failed batch writes nothing.
func (v *VectorStore) InsertBatch(ctx context.Context, records []domain.DocumentRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := v.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO documents (content, embedding, filename, page_number, chunk_index, doc_type, upload_date, uploaded_by, source)
		 VALUES ($1, $2::vector, $3, $4, $5, $6, $7, $8, $9)`)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		if _, err := stmt.ExecContext(ctx,
			r.Content, vectorToString(r.Embedding), r.Filename, r.PageNumber,
			r.ChunkIndex, string(r.DocType), r.UploadDate, r.UploadedBy, r.Source,
		); err != nil {
			return fmt.Errorf("insert document: %w", err)
		}
	}

	return tx.Commit()
}

// Ping verifies connectivity of the backing Postgres store.
func (v *VectorStore) Ping(ctx context.Context) error {
	return v.store.Ping(ctx)
}

// vectorToString converts a float32 slice to pgvector string format: [0.1,0.2,0.3].
func vectorToString(v []float32) string {
	parts := make([]string, len(v))
	for i, val := range v {
		parts[i] = fmt.Sprintf("%g", val)
	}
	return "[" + strings.Join(parts, ",") + "]"
}
