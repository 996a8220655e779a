package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/knowledgeintel/ragserver/internal/domain"
)

const defaultHFRouterURL = "https://router.huggingface.co/hf-inference/models"

// HuggingFaceConfig holds the configuration for the HF Inference router.
type HuggingFaceConfig struct {
	BaseURL   string // router base, defaults to the HF inference router
	Model     string // e.g. sentence-transformers/all-MiniLM-L6-v2
	Token     string
	Dimension int
	Probe     ProbeMode
}

// HuggingFaceEmbedder implements port.Embedder against the Hugging Face
// Inference router's feature-extraction task.
type HuggingFaceEmbedder struct {
	cfg        HuggingFaceConfig
	httpClient *http.Client
}

// NewHuggingFaceEmbedder creates an HF router-backed embedder.
func NewHuggingFaceEmbedder(cfg HuggingFaceConfig) *HuggingFaceEmbedder {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultHFRouterURL
	}
	return &HuggingFaceEmbedder{cfg: cfg, httpClient: newHTTPClient()}
}

func (h *HuggingFaceEmbedder) ModelName() string { return h.cfg.Model }
func (h *HuggingFaceEmbedder) Dimension() int    { return h.cfg.Dimension }

// Embed generates a vector embedding for a single text.
func (h *HuggingFaceEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := h.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedBatch generates embeddings for multiple texts in one call.
func (h *HuggingFaceEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if err := validateTexts(texts); err != nil {
		return nil, err
	}

	// The router expects an explicit feature-extraction payload.
	payload := map[string]any{
		"inputs": map[string]any{"sentences": texts},
	}
	url := h.cfg.BaseURL + "/" + h.cfg.Model
	body, err := postJSON(ctx, h.httpClient, url, h.cfg.Token, payload)
	if err != nil {
		return nil, fmt.Errorf("huggingface embed: %w", err)
	}

	var vectors [][]float32
	if err := json.Unmarshal(body, &vectors); err != nil {
		return nil, fmt.Errorf("huggingface embed decode: %w", err)
	}
	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("huggingface embed: got %d embeddings for %d texts", len(vectors), len(texts))
	}
	for i, vec := range vectors {
		if err := checkDimension(vec, h.cfg.Dimension, i); err != nil {
			return nil, err
		}
	}

	return vectors, nil
}

// HealthCheck embeds a fixed probe string, or reports configuration-only
// status when the probe mode is config.
func (h *HuggingFaceEmbedder) HealthCheck(ctx context.Context) domain.ProviderHealth {
	health := domain.ProviderHealth{
		Model:      h.cfg.Model,
		Dimension:  h.cfg.Dimension,
		Configured: h.cfg.Token != "",
	}
	if h.cfg.Probe == ProbeConfig {
		health.Status = "healthy"
		health.Note = "live call skipped by probe mode"
		return health
	}

	if _, err := h.Embed(ctx, healthProbeText); err != nil {
		health.Status = "unhealthy"
		health.Error = err.Error()
		return health
	}
	health.Status = "healthy"
	return health
}
