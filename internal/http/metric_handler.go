package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"team-pulse/internal/suggest"
)

// MetricHandler expone el motor de sugerencia de metricas y la invalidacion
// explicita de su cache de benchmarking.
type MetricHandler struct {
	logger  *zap.Logger
	suggest *suggest.Engine
}

// NewMetricHandler crea una instancia de MetricHandler con sus dependencias.
func NewMetricHandler(logger *zap.Logger, suggestEngine *suggest.Engine) *MetricHandler {
	return &MetricHandler{logger: logger, suggest: suggestEngine}
}

// GetSuggestions maneja GET /organizations/:id/metric-suggestions.
func (h *MetricHandler) GetSuggestions(c *gin.Context) {
	orgID := c.Param("id")

	suggestions, err := h.suggest.SuggestMetrics(c.Request.Context(), orgID)
	if err != nil {
		h.logger.Error("metric suggestions failed", zap.String("org_id", orgID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not compute suggestions"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"suggestions": suggestions})
}

// InvalidateCache maneja POST /organizations/:id/cache/invalidate.
func (h *MetricHandler) InvalidateCache(c *gin.Context) {
	orgID := c.Param("id")

	if err := h.suggest.InvalidateCache(c.Request.Context(), orgID); err != nil {
		h.logger.Error("cache invalidation failed", zap.String("org_id", orgID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not invalidate cache"})
		return
	}
	c.Status(http.StatusNoContent)
}
