package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/nexconsult/soc-api/internal/models"
	"github.com/nexconsult/soc-api/internal/services"
	"github.com/nexconsult/soc-api/internal/soc"
)

// HierarchyHandler serves the legacy hierarchy routes
type HierarchyHandler struct {
	service services.HierarchyServiceInterface
	logger  logrus.FieldLogger
}

// NewHierarchyHandler creates a new hierarchy handler
func NewHierarchyHandler(service services.HierarchyServiceInterface, logger logrus.FieldLogger) *HierarchyHandler {
	return &HierarchyHandler{
		service: service,
		logger:  logger.WithField("resource", "hierarchy"),
	}
}

// Include handles hierarchy inclusion
// @Summary Include a hierarchy link
// @Description Links unit, sector and role of a company
// @Tags Hierarchy
// @Accept json
// @Produce json
// @Param payload body object true "codigoEmpresa, codigoUnidade, codigoSetor, codigoCargo, ativo"
// @Success 200 {object} models.OperationResult
// @Failure 400 {object} models.OperationResult
// @Router /hierarquia/incluir [post]
func (h *HierarchyHandler) Include(c *gin.Context) {
	h.single(c, "include", h.service.Include)
}

// Update handles hierarchy changes
// @Summary Update a hierarchy link
// @Tags Hierarchy
// @Accept json
// @Produce json
// @Param payload body object true "codigoEmpresa, codigoUnidade, codigoSetor, codigoCargo, ativo"
// @Success 200 {object} models.OperationResult
// @Failure 400 {object} models.OperationResult
// @Router /hierarquia/alterar [post]
func (h *HierarchyHandler) Update(c *gin.Context) {
	h.single(c, "update", h.service.Update)
}

// Delete handles hierarchy removal
// @Summary Delete a hierarchy link
// @Tags Hierarchy
// @Accept json
// @Produce json
// @Param payload body object true "codigoEmpresa, codigoUnidade, codigoSetor, codigoCargo"
// @Success 200 {object} models.OperationResult
// @Failure 400 {object} models.OperationResult
// @Router /hierarquia/excluir [post]
func (h *HierarchyHandler) Delete(c *gin.Context) {
	h.single(c, "delete", h.service.Delete)
}

// Batch handles batch inclusion and status changes
// @Summary Send a batch of hierarchy links
// @Description Validates 1 to 100 links and sends them in one SOC call
// @Tags Hierarchy
// @Accept json
// @Produce json
// @Param request body models.BatchRequest true "Batch request"
// @Success 200 {object} models.OperationResult
// @Failure 400 {object} models.ErrorResponse
// @Router /hierarquia/lote [post]
func (h *HierarchyHandler) Batch(c *gin.Context) {
	var req models.BatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid batch request: "+err.Error())
		return
	}

	batch, err := req.ToDomain()
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	log := h.logger.WithFields(logrus.Fields{
		"request_id": c.GetString("request_id"),
		"action":     "batch",
		"kind":       batch.Kind,
		"items":      len(batch.Items),
	})
	log.Info("Processing hierarchy batch")

	result, err := h.service.Batch(c.Request.Context(), batch)
	if err != nil {
		respondError(c, log, err)
		return
	}
	writeResult(c, log, result)
}

func (h *HierarchyHandler) single(c *gin.Context, action string, call func(context.Context, soc.Payload) (*soc.Result, error)) {
	p, ok := bindPayload(c)
	if !ok {
		return
	}

	log := h.logger.WithFields(logrus.Fields{
		"request_id": c.GetString("request_id"),
		"action":     action,
	})
	log.Info("Processing hierarchy operation")

	result, err := call(c.Request.Context(), p)
	if err != nil {
		respondError(c, log, err)
		return
	}
	writeResult(c, log, result)
}
