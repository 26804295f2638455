package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/bellavista/concierge-backend/internal/rag"
	"github.com/bellavista/concierge-backend/internal/services"
)

// HealthHandler handles health check requests
type HealthHandler struct {
	Version      string
	retriever    *rag.Retriever
	orchestrator *services.Orchestrator
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(version string, retriever *rag.Retriever, orchestrator *services.Orchestrator) *HealthHandler {
	return &HealthHandler{
		Version:      version,
		retriever:    retriever,
		orchestrator: orchestrator,
	}
}

// Check returns the health status of the service
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	status := "healthy"
	statusCode := fiber.StatusOK
	if h.orchestrator.PersistenceDegraded() {
		status = "degraded"
		statusCode = fiber.StatusServiceUnavailable
	}

	return c.Status(statusCode).JSON(fiber.Map{
		"status":  status,
		"service": "Bella Vista Concierge",
		"version": h.Version,
		"services": fiber.Map{
			"menu_ingested":               h.retriever.Ingested(),
			"retrieval_backend_reachable": h.retriever.BackendReachable(c.UserContext()),
			"persistence":                 !h.orchestrator.PersistenceDegraded(),
		},
	})
}
