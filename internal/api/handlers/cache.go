package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/nexconsult/soc-api/internal/models"
	"github.com/nexconsult/soc-api/internal/services"
)

// CacheHandler handles lookup cache management requests
type CacheHandler struct {
	cacheService services.CacheServiceInterface
	logger       logrus.FieldLogger
}

// NewCacheHandler creates a new cache handler
func NewCacheHandler(cacheService services.CacheServiceInterface, logger logrus.FieldLogger) *CacheHandler {
	return &CacheHandler{
		cacheService: cacheService,
		logger:       logger,
	}
}

// GetStats handles cache statistics request
// @Summary Get cache statistics
// @Description Hit and miss counters of the export-data lookup cache
// @Tags Cache
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} models.ErrorResponse
// @Router /cache/stats [get]
func (h *CacheHandler) GetStats(c *gin.Context) {
	stats, err := h.cacheService.GetStats(c.Request.Context())
	if err != nil {
		h.logger.WithField("request_id", c.GetString("request_id")).WithError(err).Error("Failed to get cache statistics")
		c.JSON(http.StatusInternalServerError, models.NewErrorResponse(
			"CACHE_STATS_ERROR", "Internal server error", "Failed to retrieve cache statistics", c.Request.URL.Path))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"stats":     stats,
		"timestamp": time.Now(),
		"health":    h.cacheService.Health(),
	})
}

// Clear handles cache clear request
// @Summary Clear the lookup cache
// @Tags Cache
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} models.ErrorResponse
// @Router /cache/clear [delete]
func (h *CacheHandler) Clear(c *gin.Context) {
	requestID := c.GetString("request_id")

	if err := h.cacheService.Clear(c.Request.Context()); err != nil {
		h.logger.WithField("request_id", requestID).WithError(err).Error("Failed to clear cache")
		c.JSON(http.StatusInternalServerError, models.NewErrorResponse(
			"CACHE_CLEAR_ERROR", "Internal server error", "Failed to clear cache", c.Request.URL.Path))
		return
	}

	h.logger.WithField("request_id", requestID).Info("Lookup cache cleared")
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"message":   "Cache cleared successfully",
		"timestamp": time.Now(),
	})
}

// Delete evicts one cached report run
// @Summary Evict a cached report
// @Tags Cache
// @Produce json
// @Param codigo path string true "Report code"
// @Param empresa query string false "Company code used for the run"
// @Success 200 {object} map[string]interface{}
// @Router /cache/relatorio/{codigo} [delete]
func (h *CacheHandler) Delete(c *gin.Context) {
	code := strings.TrimSpace(c.Param("codigo"))
	if code == "" {
		badRequest(c, "report code is required")
		return
	}
	company := strings.TrimSpace(c.Query("empresa"))

	if err := h.cacheService.Delete(c.Request.Context(), services.ReportCacheKey(code, company)); err != nil {
		h.logger.WithError(err).Error("Failed to delete cached report")
		c.JSON(http.StatusInternalServerError, models.NewErrorResponse(
			"CACHE_DELETE_ERROR", "Internal server error", "Failed to delete from cache", c.Request.URL.Path))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"report":    code,
		"empresa":   company,
		"timestamp": time.Now(),
	})
}
