package domain

import "time"

// Chunk is a bounded substring of a source document, the unit of embedding
// and retrieval. Chunks are created during ingestion and immutable after.
type Chunk struct {
	Text           string `json:"text"`
	Index          int    `json:"index"`
	SourceDocument string `json:"source_document"`
	PageHint       int    `json:"page_hint"` // best effort; defaults to Index+1
}

// DocumentRecord is the flat row persisted per chunk in the vector store.
type DocumentRecord struct {
	Content    string    `json:"content"     db:"content"`
	Embedding  []float32 `json:"-"           db:"embedding"`
	Filename   string    `json:"filename"    db:"filename"`
	PageNumber int       `json:"page_number" db:"page_number"`
	ChunkIndex int       `json:"chunk_index" db:"chunk_index"`
	DocType    DocType   `json:"doc_type"    db:"doc_type"`
	UploadDate time.Time `json:"upload_date" db:"upload_date"`
	UploadedBy string    `json:"uploaded_by" db:"uploaded_by"`
	Source     string    `json:"source"      db:"source"`
}

// MatchedDocument is one row returned by a similarity search, already
// filtered by the store's role policy.
type MatchedDocument struct {
	Content    string  `db:"content"`
	Filename   string  `db:"filename"`
	PageNumber int     `db:"page_number"`
	DocType    DocType `db:"doc_type"`
	Similarity float64 `db:"similarity"`
}

// Source is a citation record surfaced alongside an answer.
type Source struct {
	Filename   string  `json:"filename"`
	Page       int     `json:"page"`
	Similarity float64 `json:"similarity"`
	DocType    DocType `json:"doc_type"`
}

// SearchResult is the transient outcome of one retrieval. It is rebuilt per
// query and never persisted.
type SearchResult struct {
	Context string   `json:"context"`
	Sources []Source `json:"sources"`
	Count   int      `json:"count"`
}

// IngestResult reports what a persistence run stored. Status is "success"
// only when every batch committed, otherwise "partial".
type IngestResult struct {
	Status   string  `json:"status"`
	Stored   int     `json:"chunks_stored"`
	Failed   int     `json:"chunks_failed"`
	Filename string  `json:"filename"`
	DocType  DocType `json:"doc_type"`
}

// ProviderHealth is the result of an AI provider health probe.
type ProviderHealth struct {
	Status     string `json:"status"` // healthy, unhealthy
	Model      string `json:"model"`
	Dimension  int    `json:"dimension,omitempty"`
	Configured bool   `json:"api_key_configured"`
	Error      string `json:"error,omitempty"`
	Note       string `json:"note,omitempty"`
}
