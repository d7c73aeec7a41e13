package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/smartfridge/internal/service"
)

// HealthHandler reports service status and the configured provider
type HealthHandler struct {
	ai service.AIServiceInterface
}

// NewHealthHandler creates a HealthHandler
func NewHealthHandler(ai service.AIServiceInterface) *HealthHandler {
	return &HealthHandler{ai: ai}
}

// HealthCheck returns the health status of the service. It answers 200 even
// when the model is down; llm_available (and ollama_available) tell the
// difference.
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	health := h.ai.Health(c.Request.Context())
	c.JSON(http.StatusOK, HealthResponse{
		Status:          "healthy",
		Provider:        health.Provider,
		Model:           health.Model,
		LLMAvailable:    health.Available,
		OllamaAvailable: health.Available,
	})
}
