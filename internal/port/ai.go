package port

import (
	"context"

	"github.com/knowledgeintel/ragserver/internal/domain"
)

// Embedder abstracts the embedding backend. Implementations fix a model name
// and a vector dimension; call sites depend only on this interface so
// providers can be swapped at process start without touching them.
type Embedder interface {
	// ModelName returns the identifier of the embedding model.
	ModelName() string

	// Dimension returns the fixed vector dimension every embedding must have.
	Dimension() int

	// Embed generates a vector embedding for a single text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts in one call,
	// order-preserving. A batch containing any invalid item fails whole.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// HealthCheck probes the provider. Depending on configuration it either
	// embeds a fixed probe string or reports configuration-only status.
	HealthCheck(ctx context.Context) domain.ProviderHealth
}

// ChatProvider abstracts the LLM backend used for answer generation.
type ChatProvider interface {
	// ModelName returns the identifier of the chat model.
	ModelName() string

	// Chat sends a system + user prompt pair and returns the completion text.
	Chat(ctx context.Context, systemPrompt, userPrompt string) (string, error)

	// HealthCheck probes the provider, live or configuration-only.
	HealthCheck(ctx context.Context) domain.ProviderHealth
}
