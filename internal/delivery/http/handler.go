package http

import (
	"context"
	"net/http"

	"github.com/aislemap/backend/internal/domain"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	serviceName = "aislemap-backend"
	version     = "1.0.0"

	// maxItemsPerRequest bounds a single request; larger lists should be split by the caller
	maxItemsPerRequest = 500
)

// ItemCategorizer is the pipeline entry point used by the handlers
type ItemCategorizer interface {
	CategorizeBatch(ctx context.Context, items []string, onProgress domain.ProgressFunc) []domain.CategorizedItem
	CategorizeQuick(items []string) []domain.CategorizedItem
	CacheSize() int
}

// HealthReporter exposes the current backend health snapshot
type HealthReporter interface {
	State() domain.HealthState
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	categorizer ItemCategorizer
	health      HealthReporter
	logger      *zap.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(categorizer ItemCategorizer, health HealthReporter, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		categorizer: categorizer,
		health:      health,
		logger:      logger.Named("http"),
	}
}

// CategorizeRequest is the body of POST /api/v1/categorize
type CategorizeRequest struct {
	Items []string `json:"items" binding:"required"`
	Mode  string   `json:"mode"` // "" or "quick"
}

// CategorizeResponse is returned by POST /api/v1/categorize
type CategorizeResponse struct {
	Items []domain.CategorizedItem `json:"items"`
	Count int                      `json:"count"`
}

// HealthCheck returns the health status of the API and the inference backend
func (h *Handler) HealthCheck(c *gin.Context) {
	response := gin.H{
		"status":  "healthy",
		"service": serviceName,
		"version": version,
	}

	if h.health != nil {
		state := h.health.State()
		if !state.Available {
			// Still serving through the keyword fallback.
			response["status"] = "degraded"
		}
		response["backend"] = state
	}
	if h.categorizer != nil {
		response["cacheSize"] = h.categorizer.CacheSize()
	}

	c.JSON(http.StatusOK, response)
}

// CategorizeItems handles item categorization requests
func (h *Handler) CategorizeItems(c *gin.Context) {
	if h.categorizer == nil {
		c.JSON(http.StatusNotImplemented, gin.H{
			"error": "Categorization service not configured",
		})
		return
	}

	var req CategorizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request body: items is required",
		})
		return
	}

	if len(req.Items) > maxItemsPerRequest {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Too many items in one request",
			"limit": maxItemsPerRequest,
		})
		return
	}

	var items []domain.CategorizedItem
	switch req.Mode {
	case "":
		items = h.categorizer.CategorizeBatch(c.Request.Context(), req.Items, func(message string) {
			h.logger.Debug("progress",
				zap.String("request_id", c.GetString(requestIDKey)),
				zap.String("message", message))
		})
	case "quick":
		items = h.categorizer.CategorizeQuick(req.Items)
	default:
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Unknown mode: " + req.Mode,
		})
		return
	}

	c.JSON(http.StatusOK, CategorizeResponse{
		Items: items,
		Count: len(items),
	})
}
