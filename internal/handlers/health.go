package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pseudocoder/relay/internal/journal"
)

// Version is reported by the health endpoints
const Version = "0.1.0"

const serviceName = "pseudocoder-relay"

// HealthHandler handles health check endpoints
type HealthHandler struct {
	journal  *journal.Journal
	provider string
	model    string
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(j *journal.Journal, provider, model string) *HealthHandler {
	return &HealthHandler{
		journal:  j,
		provider: provider,
		model:    model,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status       string            `json:"status"`
	Service      string            `json:"service"`
	Version      string            `json:"version"`
	Provider     string            `json:"provider"`
	Model        string            `json:"model"`
	Dependencies map[string]string `json:"dependencies"`
}

// Health returns basic health status
// @Summary Liveness
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": serviceName,
		"version": Version,
	})
}

// DeepHealth returns health status with journal sink checks. The inference
// endpoint is never called here: every upstream call belongs to a user request.
// @Summary Dependency health
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /health/deep [get]
func (h *HealthHandler) DeepHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	deps, allHealthy := h.journal.Check(ctx)
	if !h.journal.Enabled() {
		deps["journal"] = "not configured"
	}
	deps["inference"] = "configured"

	status := "healthy"
	httpStatus := http.StatusOK
	if !allHealthy {
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	c.JSON(httpStatus, HealthResponse{
		Status:       status,
		Service:      serviceName,
		Version:      Version,
		Provider:     h.provider,
		Model:        h.model,
		Dependencies: deps,
	})
}
