package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/knowledgeintel/ragserver/internal/domain"
)

const defaultOpenAIBaseURL = "https://api.openai.com/v1"

// OpenAIConfig holds the configuration for an OpenAI-compatible endpoint.
type OpenAIConfig struct {
	BaseURL   string // defaults to the OpenAI API; any compatible server works
	Model     string // e.g. text-embedding-3-small, gpt-4o-mini
	Token     string
	Dimension int // embedder only
	Probe     ProbeMode
}

// OpenAIEmbedder implements port.Embedder against an OpenAI-compatible
// embeddings endpoint.
type OpenAIEmbedder struct {
	cfg        OpenAIConfig
	httpClient *http.Client
}

// NewOpenAIEmbedder creates an OpenAI-compatible embedder.
func NewOpenAIEmbedder(cfg OpenAIConfig) *OpenAIEmbedder {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultOpenAIBaseURL
	}
	return &OpenAIEmbedder{cfg: cfg, httpClient: newHTTPClient()}
}

func (o *OpenAIEmbedder) ModelName() string { return o.cfg.Model }
func (o *OpenAIEmbedder) Dimension() int    { return o.cfg.Dimension }

// Embed generates a vector embedding for a single text.
func (o *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := o.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedBatch generates embeddings for multiple texts in one call.
func (o *OpenAIEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if err := validateTexts(texts); err != nil {
		return nil, err
	}

	payload := map[string]any{
		"model": o.cfg.Model,
		"input": texts,
	}
	body, err := postJSON(ctx, o.httpClient, o.cfg.BaseURL+"/embeddings", o.cfg.Token, payload)
	if err != nil {
		return nil, fmt.Errorf("openai embed: %w", err)
	}

	var resp struct {
		Data []struct {
			Index     int       `json:"index"`
			Embedding []float32 `json:"embedding"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("openai embed decode: %w", err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("openai embed: got %d embeddings for %d texts", len(resp.Data), len(texts))
	}

	// The API documents data as ordered, but index is authoritative.
	vectors := make([][]float32, len(texts))
	for _, d := range resp.Data {
		if d.Index < 0 || d.Index >= len(vectors) {
			return nil, fmt.Errorf("openai embed: index %d out of range", d.Index)
		}
		vectors[d.Index] = d.Embedding
	}
	for i, vec := range vectors {
		if err := checkDimension(vec, o.cfg.Dimension, i); err != nil {
			return nil, err
		}
	}

	return vectors, nil
}

// HealthCheck embeds a fixed probe string, or reports configuration-only
// status when the probe mode is config.
func (o *OpenAIEmbedder) HealthCheck(ctx context.Context) domain.ProviderHealth {
	health := domain.ProviderHealth{
		Model:      o.cfg.Model,
		Dimension:  o.cfg.Dimension,
		Configured: o.cfg.Token != "",
	}
	if o.cfg.Probe == ProbeConfig {
		health.Status = "healthy"
		health.Note = "live call skipped by probe mode"
		return health
	}

	if _, err := o.Embed(ctx, healthProbeText); err != nil {
		health.Status = "unhealthy"
		health.Error = err.Error()
		return health
	}
	health.Status = "healthy"
	return health
}

// OpenAIChat implements port.ChatProvider against an OpenAI-compatible chat
// completions endpoint.
type OpenAIChat struct {
	cfg        OpenAIConfig
	httpClient *http.Client
}

// NewOpenAIChat creates an OpenAI-compatible chat provider.
func NewOpenAIChat(cfg OpenAIConfig) *OpenAIChat {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultOpenAIBaseURL
	}
	return &OpenAIChat{cfg: cfg, httpClient: newHTTPClient()}
}

func (o *OpenAIChat) ModelName() string { return o.cfg.Model }

// Chat sends a system + user prompt pair and returns the completion text.
func (o *OpenAIChat) Chat(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	payload := map[string]any{
		"model": o.cfg.Model,
		"messages": []map[string]string{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": userPrompt},
		},
	}

	body, err := postJSON(ctx, o.httpClient, o.cfg.BaseURL+"/chat/completions", o.cfg.Token, payload)
	if err != nil {
		return "", fmt.Errorf("openai chat: %w", err)
	}

	var resp struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("openai chat decode: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

// HealthCheck sends a fixed probe prompt, or reports configuration-only
// status when the probe mode is config.
func (o *OpenAIChat) HealthCheck(ctx context.Context) domain.ProviderHealth {
	health := domain.ProviderHealth{
		Model:      o.cfg.Model,
		Configured: o.cfg.Token != "",
	}
	if o.cfg.Probe == ProbeConfig {
		health.Status = "healthy"
		health.Note = "live call skipped by probe mode"
		return health
	}

	if _, err := o.Chat(ctx, "You are a health probe.", "Say OK"); err != nil {
		health.Status = "unhealthy"
		health.Error = err.Error()
		return health
	}
	health.Status = "healthy"
	return health
}
