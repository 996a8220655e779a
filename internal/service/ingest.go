package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/knowledgeintel/ragserver/internal/chunker"
	"github.com/knowledgeintel/ragserver/internal/domain"
	"github.com/knowledgeintel/ragserver/internal/parser"
	"github.com/knowledgeintel/ragserver/internal/port"
)

// defaultBatchSize is the number of records per insert transaction.
const defaultBatchSize = 100

// minDocumentChars rejects documents whose extracted text is too thin to be
// worth indexing.
const minDocumentChars = 100

// IngestMetadata carries document-level attributes onto every chunk record.
type IngestMetadata struct {
	Filename   string
	UploadedBy string
	UploadDate time.Time
}

// Ingestor runs the ingestion path: extract, chunk, embed, persist.
type Ingestor struct {
	embedder  port.Embedder
	store     port.VectorStore
	chunkCfg  chunker.Config
	batchSize int
}

// NewIngestor creates an ingestor over the given embedder and store.
func NewIngestor(embedder port.Embedder, store port.VectorStore, chunkCfg chunker.Config) *Ingestor {
	return &Ingestor{
		embedder:  embedder,
		store:     store,
		chunkCfg:  chunkCfg,
		batchSize: defaultBatchSize,
	}
}

// IngestPDF extracts text from a PDF, chunks and embeds it, and persists the
// result. A re-upload creates new chunk rows; nothing is updated in place.
func (s *Ingestor) IngestPDF(ctx context.Context, filename string, data []byte, docType, uploadedBy string) (domain.IngestResult, error) {
	text, err := parser.PDFText(data)
	if err != nil {
		return domain.IngestResult{}, fmt.Errorf("extract pdf text: %w", err)
	}
	if len(strings.TrimSpace(text)) < minDocumentChars {
		return domain.IngestResult{}, fmt.Errorf("%w: insufficient text content", port.ErrInvalidArgument)
	}

	chunks, err := chunker.Split(text, s.chunkCfg)
	if err != nil {
		return domain.IngestResult{}, err
	}
	if len(chunks) == 0 {
		return domain.IngestResult{}, fmt.Errorf("%w: document produced no chunks", port.ErrInvalidArgument)
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	embeddings, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return domain.IngestResult{}, fmt.Errorf("embed chunks: %w", err)
	}

	meta := IngestMetadata{
		Filename:   filename,
		UploadedBy: uploadedBy,
		UploadDate: time.Now().UTC(),
	}
	return s.Persist(ctx, chunks, embeddings, meta, docType)
}

// Persist validates and writes embedded chunks in fixed-size batches. Each
// batch is an independent transaction: a failed batch adds its record count
// to Failed and processing continues, so ingestion is partial-failure
// tolerant rather than all-or-nothing.
func (s *Ingestor) Persist(ctx context.Context, chunks []domain.Chunk, embeddings [][]float32, meta IngestMetadata, docType string) (domain.IngestResult, error) {
	if len(chunks) == 0 {
		return domain.IngestResult{}, fmt.Errorf("%w: no chunks provided", port.ErrInvalidArgument)
	}
	if len(chunks) != len(embeddings) {
		return domain.IngestResult{}, fmt.Errorf("%w: chunks (%d) and embeddings (%d) mismatch",
			port.ErrInvalidArgument, len(chunks), len(embeddings))
	}
	want := s.embedder.Dimension()
	for i, emb := range embeddings {
		if len(emb) != want {
			return domain.IngestResult{}, fmt.Errorf("%w: embedding %d has %d components, expected %d",
				port.ErrDimensionMismatch, i, len(emb), want)
		}
	}

	storedType, coerced := domain.ParseDocType(docType)
	if coerced {
		slog.Warn("unknown doc type, defaulting to public", "doc_type", docType)
	}

	filename := meta.Filename
	if filename == "" {
		filename = "unknown.pdf"
	}
	uploadedBy := meta.UploadedBy
	if uploadedBy == "" {
		uploadedBy = "system"
	}
	uploadDate := meta.UploadDate
	if uploadDate.IsZero() {
		uploadDate = time.Now().UTC()
	}

	records := make([]domain.DocumentRecord, len(chunks))
	for i, c := range chunks {
		page := c.PageHint
		if page == 0 {
			page = i + 1
		}
		records[i] = domain.DocumentRecord{
			Content:    strings.TrimSpace(c.Text),
			Embedding:  embeddings[i],
			Filename:   filename,
			PageNumber: page,
			ChunkIndex: i,
			DocType:    storedType,
			UploadDate: uploadDate,
			UploadedBy: uploadedBy,
			Source:     "upload",
		}
	}

	slog.Info("storing chunks", "count", len(records), "doc_type", storedType, "filename", filename)

	stored, failed := 0, 0
	for start := 0; start < len(records); start += s.batchSize {
		end := min(start+s.batchSize, len(records))
		batch := records[start:end]

		// Stop between batches on cancellation; committed batches stay.
		if err := ctx.Err(); err != nil {
			return s.result(stored, failed, filename, storedType),
				fmt.Errorf("ingestion cancelled after %d records: %w", stored, err)
		}

		if err := s.store.InsertBatch(ctx, batch); err != nil {
			slog.Error("batch insert failed", "batch_start", start, "size", len(batch), "error", err)
			failed += len(batch)
			continue
		}
		stored += len(batch)
	}

	slog.Info("storage complete", "stored", stored, "failed", failed)
	return s.result(stored, failed, filename, storedType), nil
}

func (s *Ingestor) result(stored, failed int, filename string, docType domain.DocType) domain.IngestResult {
	status := "success"
	if failed > 0 {
		status = "partial"
	}
	return domain.IngestResult{
		Status:   status,
		Stored:   stored,
		Failed:   failed,
		Filename: filename,
		DocType:  docType,
	}
}
