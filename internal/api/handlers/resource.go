package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/nexconsult/soc-api/internal/services"
	"github.com/nexconsult/soc-api/internal/soc"
)

// ResourceHandler serves the CRUD routes of one SOC resource
type ResourceHandler struct {
	service services.ResourceServiceInterface
	logger  logrus.FieldLogger
}

// NewResourceHandler creates a new resource handler
func NewResourceHandler(service services.ResourceServiceInterface, logger logrus.FieldLogger) *ResourceHandler {
	return &ResourceHandler{
		service: service,
		logger:  logger.WithField("resource", service.Resource().Label),
	}
}

// Create handles record creation
// @Summary Create a SOC record
// @Description Maps the JSON payload to the SOC include operation of the resource (empresa, unidade, setor or cargo)
// @Tags Resources
// @Accept json
// @Produce json
// @Param resource path string true "empresa, unidade, setor or cargo"
// @Param payload body object true "Resource fields"
// @Success 200 {object} models.OperationResult
// @Failure 400 {object} models.OperationResult
// @Failure 502 {object} models.ErrorResponse
// @Failure 504 {object} models.ErrorResponse
// @Router /soc/{resource} [post]
func (h *ResourceHandler) Create(c *gin.Context) {
	p, ok := bindPayload(c)
	if !ok {
		return
	}
	h.run(c, "create", func(ctx context.Context) (*soc.Result, error) {
		return h.service.Create(ctx, p)
	})
}

// Update handles record updates, with the code in the body or in the path
// @Summary Update a SOC record
// @Description The path code, when present, is merged into the payload and wins over the body
// @Tags Resources
// @Accept json
// @Produce json
// @Param resource path string true "empresa, unidade, setor or cargo"
// @Param codigo path string false "Record code (local id for empresa)"
// @Param payload body object true "Resource fields"
// @Success 200 {object} models.OperationResult
// @Failure 400 {object} models.OperationResult
// @Router /soc/{resource}/{codigo} [put]
func (h *ResourceHandler) Update(c *gin.Context) {
	p, ok := bindPayload(c)
	if !ok {
		return
	}
	code := c.Param("codigo")
	h.run(c, "update", func(ctx context.Context) (*soc.Result, error) {
		return h.service.Update(ctx, code, p)
	})
}

// Delete handles record removal, with the code in the path or in the body
// @Summary Delete a SOC record
// @Tags Resources
// @Accept json
// @Produce json
// @Param resource path string true "empresa, unidade, setor or cargo"
// @Param codigo path string true "Record code"
// @Success 200 {object} models.OperationResult
// @Failure 400 {object} models.OperationResult
// @Router /soc/{resource}/{codigo} [delete]
func (h *ResourceHandler) Delete(c *gin.Context) {
	p, ok := bindPayload(c)
	if !ok {
		return
	}
	if code := strings.TrimSpace(c.Param("codigo")); code != "" {
		p = p.With("codigo", code)
	}
	h.run(c, "delete", func(ctx context.Context) (*soc.Result, error) {
		return h.service.Delete(ctx, p)
	})
}

// Query handles record lookups from query-string fields
// @Summary Query a SOC record
// @Tags Resources
// @Produce json
// @Param resource path string true "empresa, unidade, setor or cargo"
// @Param codigo query string false "Record code"
// @Param tipoBusca query string false "CODIGO, CODIGO_RH or CODIGO_SOC"
// @Success 200 {object} models.OperationResult
// @Failure 400 {object} models.OperationResult
// @Router /soc/{resource}/consultar [get]
func (h *ResourceHandler) Query(c *gin.Context) {
	p := queryPayload(c)
	h.run(c, "query", func(ctx context.Context) (*soc.Result, error) {
		return h.service.Query(ctx, p)
	})
}

func (h *ResourceHandler) run(c *gin.Context, action string, call func(context.Context) (*soc.Result, error)) {
	requestID := c.GetString("request_id")
	log := h.logger.WithFields(logrus.Fields{
		"request_id": requestID,
		"action":     action,
	})
	log.Info("Processing SOC operation")

	result, err := call(c.Request.Context())
	if err != nil {
		respondError(c, log, err)
		return
	}

	writeResult(c, log, result)
}

// writeResult answers 200 for a successful result and 400 otherwise
func writeResult(c *gin.Context, log logrus.FieldLogger, result *soc.Result) {
	if !result.Success {
		log.WithFields(logrus.Fields{
			"error_count": result.ErrorCount,
			"message":     result.Message,
		}).Warn("SOC rejected the operation")
		c.JSON(http.StatusBadRequest, result)
		return
	}
	c.JSON(http.StatusOK, result)
}
