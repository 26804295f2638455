package handlers

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/bellavista/concierge-backend/internal/rag"
)

// MenuHandler handles menu document ingestion
type MenuHandler struct {
	retriever *rag.Retriever
}

func NewMenuHandler(retriever *rag.Retriever) *MenuHandler {
	return &MenuHandler{retriever: retriever}
}

// IngestPayload carries extracted plain text; document-to-text
// extraction happens upstream.
type IngestPayload struct {
	Text string `json:"text"`
}

// HandleIngest replaces the indexed menu with the posted text. Accepts
// either a JSON body {"text": ...} or raw text/plain.
func (h *MenuHandler) HandleIngest(c *fiber.Ctx) error {
	var text string

	var payload IngestPayload
	if err := c.BodyParser(&payload); err == nil && payload.Text != "" {
		text = payload.Text
	} else {
		text = string(c.Body())
	}

	if strings.TrimSpace(text) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "no document text provided",
		})
	}

	count, err := h.retriever.Ingest(c.UserContext(), text)
	if err != nil {
		log.Printf("Menu ingestion failed: %v", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
		})
	}

	log.Printf("Menu ingested: %d chunks", count)
	return c.JSON(fiber.Map{
		"success": true,
		"chunks":  count,
	})
}
