package handler

import (
	"errors"
	"io"

	"github.com/gofiber/fiber/v3"

	"github.com/knowledgeintel/ragserver/internal/guard"
	"github.com/knowledgeintel/ragserver/internal/middleware"
	"github.com/knowledgeintel/ragserver/internal/port"
	"github.com/knowledgeintel/ragserver/internal/service"
)

// UploadHandler handles document ingestion.
type UploadHandler struct {
	ingestor *service.Ingestor
}

// NewUploadHandler creates a new upload handler.
func NewUploadHandler(ingestor *service.Ingestor) *UploadHandler {
	return &UploadHandler{ingestor: ingestor}
}

// Register sets up upload routes.
func (h *UploadHandler) Register(router fiber.Router) {
	router.Post("/upload", h.Upload)
}

// Upload accepts a multipart PDF, extracts and chunks its text, embeds the
// chunks and persists them under the given doc type.
func (h *UploadHandler) Upload(c fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "file is required"})
	}

	check := guard.ValidateFilename(fileHeader.Filename)
	if !check.Valid {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": check.Err})
	}

	f, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "cannot read file"})
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "cannot read file"})
	}
	if len(data) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "empty file"})
	}

	docType := c.FormValue("doc_type", "public")
	uploadedBy := c.FormValue("role", string(middleware.GetRole(c)))

	result, err := h.ingestor.IngestPDF(c.Context(), check.Sanitized, data, docType, uploadedBy)
	if err != nil {
		if errors.Is(err, port.ErrInvalidArgument) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(result)
}
