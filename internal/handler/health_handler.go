package handler

import (
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/knowledgeintel/ragserver/internal/port"
)

// HealthHandler aggregates collaborator health for operators.
type HealthHandler struct {
	appName  string
	store    port.VectorStore
	embedder port.Embedder
	chat     port.ChatProvider
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(appName string, store port.VectorStore, embedder port.Embedder, chat port.ChatProvider) *HealthHandler {
	return &HealthHandler{appName: appName, store: store, embedder: embedder, chat: chat}
}

// Register sets up the health route.
func (h *HealthHandler) Register(router fiber.Router) {
	router.Get("/health", h.Health)
}

// Health reports per-service status and an overall healthy/degraded verdict.
// Whether the AI probes make live calls depends on their configured probe mode.
func (h *HealthHandler) Health(c fiber.Ctx) error {
	ctx := c.Context()

	database := fiber.Map{"status": "healthy"}
	if err := h.store.Ping(ctx); err != nil {
		database = fiber.Map{"status": "unhealthy", "error": err.Error()}
	}

	embeddings := h.embedder.HealthCheck(ctx)
	llm := h.chat.HealthCheck(ctx)

	status := "healthy"
	if database["status"] != "healthy" || embeddings.Status != "healthy" || llm.Status != "healthy" {
		status = "degraded"
	}

	return c.JSON(fiber.Map{
		"status":    status,
		"app":       h.appName,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"services": fiber.Map{
			"database":   database,
			"embeddings": embeddings,
			"llm":        llm,
		},
	})
}
