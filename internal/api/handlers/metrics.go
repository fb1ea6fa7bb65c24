package handlers

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/nexconsult/soc-api/internal/models"
	"github.com/nexconsult/soc-api/internal/services"
)

// StatsProvider reports the state of a middleware component.
type StatsProvider interface {
	GetStats() map[string]interface{}
}

// MetricsHandler handles metrics requests
type MetricsHandler struct {
	metrics   services.MetricsServiceInterface
	rateLimit StatsProvider
	logger    logrus.FieldLogger
}

// NewMetricsHandler creates a new metrics handler. rateLimit may be nil.
func NewMetricsHandler(metrics services.MetricsServiceInterface, rateLimit StatsProvider, logger logrus.FieldLogger) *MetricsHandler {
	return &MetricsHandler{
		metrics:   metrics,
		rateLimit: rateLimit,
		logger:    logger,
	}
}

// GetMetrics handles metrics request
// @Summary Get application metrics
// @Description Request counters, latency percentiles, SOC call counters, lookup cache hit rate and rate limiter state
// @Tags Metrics
// @Produce json
// @Success 200 {object} models.MetricsResponse
// @Router /metrics [get]
func (h *MetricsHandler) GetMetrics(c *gin.Context) {
	h.logger.WithField("request_id", c.GetString("request_id")).Debug("Getting application metrics")

	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	res := models.MetricsResponse{
		Metrics: h.metrics.GetMetrics(),
		System: models.SystemMetrics{
			MemoryUsage: float64(m.Alloc) / 1024 / 1024,
			Goroutines:  runtime.NumGoroutine(),
		},
		Timestamp: time.Now(),
	}
	if h.rateLimit != nil {
		res.RateLimit = h.rateLimit.GetStats()
	}
	c.JSON(http.StatusOK, res)
}
