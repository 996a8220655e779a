package service

import (
	"context"
	"sync"

	"github.com/knowledgeintel/ragserver/internal/domain"
)

// fakeEmbedder implements port.Embedder for tests.
type fakeEmbedder struct {
	dim       int
	embedErr  error
	vectorLen int // override returned vector length; 0 means dim
	calls     int
}

func newFakeEmbedder(dim int) *fakeEmbedder {
	return &fakeEmbedder{dim: dim}
}

func (f *fakeEmbedder) ModelName() string { return "fake-embedder" }
func (f *fakeEmbedder) Dimension() int    { return f.dim }

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := f.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

func (f *fakeEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	f.calls++
	if f.embedErr != nil {
		return nil, f.embedErr
	}
	n := f.vectorLen
	if n == 0 {
		n = f.dim
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = make([]float32, n)
	}
	return out, nil
}

func (f *fakeEmbedder) HealthCheck(ctx context.Context) domain.ProviderHealth {
	return domain.ProviderHealth{Status: "healthy", Model: f.ModelName(), Dimension: f.dim, Configured: true}
}

// fakeVectorStore implements port.VectorStore for tests, recording search
// arguments and failing selected insert batches.
type fakeVectorStore struct {
	mu sync.Mutex

	rows      []domain.MatchedDocument
	searchErr error

	lastRole      domain.Role
	lastThreshold float64
	lastCount     int

	insertCalls int
	failBatches map[int]error // 1-based batch number -> error
	inserted    [][]domain.DocumentRecord
}

func (f *fakeVectorStore) SearchSimilar(ctx context.Context, queryEmbedding []float32, role domain.Role, threshold float64, count int) ([]domain.MatchedDocument, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastRole = role
	f.lastThreshold = threshold
	f.lastCount = count
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.rows, nil
}

func (f *fakeVectorStore) InsertBatch(ctx context.Context, records []domain.DocumentRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.insertCalls++
	if err, ok := f.failBatches[f.insertCalls]; ok {
		return err
	}
	f.inserted = append(f.inserted, records)
	return nil
}

func (f *fakeVectorStore) Ping(ctx context.Context) error { return nil }

// fakeChat implements port.ChatProvider for tests.
type fakeChat struct {
	mu sync.Mutex

	responses []string // consumed per call; "" means empty completion
	errs      []error  // parallel to responses; nil means success

	calls      int
	lastSystem string
	lastUser   string
}

func (f *fakeChat) ModelName() string { return "fake-chat" }

func (f *fakeChat) Chat(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.calls
	f.calls++
	f.lastSystem = systemPrompt
	f.lastUser = userPrompt

	var err error
	if i < len(f.errs) {
		err = f.errs[i]
	}
	if err != nil {
		return "", err
	}
	if i < len(f.responses) {
		return f.responses[i], nil
	}
	return "", nil
}

func (f *fakeChat) HealthCheck(ctx context.Context) domain.ProviderHealth {
	return domain.ProviderHealth{Status: "healthy", Model: f.ModelName(), Configured: true}
}
