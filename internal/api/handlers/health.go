package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/nexconsult/soc-api/internal/models"
	"github.com/nexconsult/soc-api/internal/services"
)

// Version is reported by the health endpoints
const Version = "1.0.0"

// HealthChecker reports local state and probes remote dependencies
type HealthChecker interface {
	Health() map[string]interface{}
	Ready(ctx context.Context) map[string]services.ProbeResult
}

// HealthHandler handles health check requests
type HealthHandler struct {
	checker      HealthChecker
	logger       logrus.FieldLogger
	startTime    time.Time
	probeTimeout time.Duration
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(checker HealthChecker, logger logrus.FieldLogger) *HealthHandler {
	return &HealthHandler{
		checker:      checker,
		logger:       logger,
		startTime:    time.Now(),
		probeTimeout: 10 * time.Second,
	}
}

// GetHealth handles general health check
// @Summary Health check
// @Description Local health of the API; SOC endpoints are not contacted
// @Tags Health
// @Produce json
// @Success 200 {object} models.HealthResponse
// @Failure 503 {object} models.HealthResponse
// @Router /health [get]
func (h *HealthHandler) GetHealth(c *gin.Context) {
	now := time.Now()
	response := models.HealthResponse{
		Status:    "healthy",
		Timestamp: now,
		Version:   Version,
		Services:  make(map[string]models.ServiceInfo),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
	}

	for name, raw := range h.checker.Health() {
		health, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		info := models.ServiceInfo{LastCheck: now}
		info.Status, _ = health["status"].(string)
		info.Error, _ = health["error"].(string)
		response.Services[name] = info

		switch info.Status {
		case "unhealthy":
			response.Status = "unhealthy"
		case "degraded":
			if response.Status == "healthy" {
				response.Status = "degraded"
			}
		}
	}

	status := http.StatusOK
	if response.Status == "unhealthy" {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, response)
}

// GetReadiness probes every SOC endpoint
// @Summary Readiness check
// @Description Probes every configured SOC endpoint and the cache backend concurrently
// @Tags Health
// @Produce json
// @Success 200 {object} models.HealthResponse
// @Failure 503 {object} models.HealthResponse
// @Router /health/ready [get]
func (h *HealthHandler) GetReadiness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.probeTimeout)
	defer cancel()

	now := time.Now()
	response := models.HealthResponse{
		Status:    "ready",
		Timestamp: now,
		Version:   Version,
		Services:  make(map[string]models.ServiceInfo),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
	}

	for name, probe := range h.checker.Ready(ctx) {
		response.Services[name] = models.ServiceInfo{
			Status:         probe.Status,
			LastCheck:      now,
			ResponseTimeMs: probe.Duration.Milliseconds(),
			Error:          probe.Error,
		}
		if probe.Status != "healthy" {
			response.Status = "not_ready"
		}
	}

	status := http.StatusOK
	if response.Status != "ready" {
		h.logger.WithField("request_id", c.GetString("request_id")).Warn("Readiness probe failed")
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, response)
}

// GetLiveness handles liveness probe
// @Summary Liveness check
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health/live [get]
func (h *HealthHandler) GetLiveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"alive":     true,
		"timestamp": time.Now(),
		"uptime":    time.Since(h.startTime).Round(time.Second).String(),
		"version":   Version,
	})
}
