package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/knowledgeintel/ragserver/internal/domain"
	"github.com/knowledgeintel/ragserver/internal/guard"
	"github.com/knowledgeintel/ragserver/internal/middleware"
	"github.com/knowledgeintel/ragserver/internal/port"
	"github.com/knowledgeintel/ragserver/internal/service"
)

// RAGHandler handles question answering over the document corpus.
type RAGHandler struct {
	retriever *service.Retriever
	generator *service.Generator
	topK      int
	threshold float64
}

// NewRAGHandler creates a new RAG handler with the configured search defaults.
func NewRAGHandler(retriever *service.Retriever, generator *service.Generator, topK int, threshold float64) *RAGHandler {
	return &RAGHandler{retriever: retriever, generator: generator, topK: topK, threshold: threshold}
}

// Register sets up query routes.
func (h *RAGHandler) Register(router fiber.Router) {
	router.Post("/query", h.Query)
}

// Query validates the question, retrieves role-visible context and generates
// a grounded answer.
func (h *RAGHandler) Query(c fiber.Ctx) error {
	var body struct {
		Query string `json:"query"`
		Role  string `json:"role"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	rawRole := body.Role
	if rawRole == "" {
		rawRole = string(middleware.GetRole(c))
	}

	check := guard.ValidateQuery(body.Query)
	if !check.Valid {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": check.Err})
	}

	result, err := h.retriever.Search(c.Context(), check.Sanitized, rawRole, h.topK, h.threshold)
	if err != nil {
		if errors.Is(err, port.ErrInvalidArgument) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	role, _ := domain.ParseRole(rawRole)
	answer := h.generator.Generate(c.Context(), check.Sanitized, result.Context, role)

	sources := result.Sources
	if sources == nil {
		sources = []domain.Source{}
	}

	return c.JSON(fiber.Map{
		"answer":  answer,
		"sources": sources,
		"count":   result.Count,
		"role":    role,
	})
}
