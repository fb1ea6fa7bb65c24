package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/nexconsult/soc-api/internal/exportdata"
	"github.com/nexconsult/soc-api/internal/models"
	"github.com/nexconsult/soc-api/internal/services"
)

const msgCompanyRequired = "Codigo da empresa eh obrigatorio"

// ConsultaHandler serves the read-only export-data lookups
type ConsultaHandler struct {
	service services.LookupServiceInterface
	logger  logrus.FieldLogger
}

// NewConsultaHandler creates a new lookup handler
func NewConsultaHandler(service services.LookupServiceInterface, logger logrus.FieldLogger) *ConsultaHandler {
	return &ConsultaHandler{
		service: service,
		logger:  logger.WithField("component", "consulta"),
	}
}

// Companies lists companies
// @Summary List companies
// @Tags Lookups
// @Produce json
// @Success 200 {object} models.LookupResponse
// @Failure 502 {object} models.ErrorResponse
// @Router /consultas/empresas [get]
func (h *ConsultaHandler) Companies(c *gin.Context) {
	h.respond(c, "companies", h.service.Companies)
}

// Units lists active units
// @Summary List active units
// @Tags Lookups
// @Produce json
// @Success 200 {object} models.LookupResponse
// @Router /consultas/unidades [get]
func (h *ConsultaHandler) Units(c *gin.Context) {
	h.respond(c, "units", h.service.Units)
}

// AllSectors lists every sector
// @Summary List all sectors
// @Tags Lookups
// @Produce json
// @Success 200 {object} models.LookupResponse
// @Router /consultas/todos-setores [get]
func (h *ConsultaHandler) AllSectors(c *gin.Context) {
	h.respond(c, "all_sectors", h.service.AllSectors)
}

// HierarchyUnits lists the units present in a company hierarchy
// @Summary List hierarchy units
// @Tags Lookups
// @Produce json
// @Param empresa query string true "Company code"
// @Success 200 {object} models.LookupResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /consultas/unidades/hierarquia [get]
func (h *ConsultaHandler) HierarchyUnits(c *gin.Context) {
	company, ok := requireCompany(c, c.Query("empresa"))
	if !ok {
		return
	}
	h.respond(c, "hierarchy_units", func(ctx context.Context) ([]exportdata.Row, error) {
		return h.service.HierarchyUnits(ctx, company)
	})
}

// Sectors lists the sectors of a company hierarchy, optionally for one unit
// @Summary List hierarchy sectors
// @Tags Lookups
// @Produce json
// @Param empresa query string true "Company code"
// @Param unidade query string false "Unit code"
// @Success 200 {object} models.LookupResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /consultas/setores [get]
func (h *ConsultaHandler) Sectors(c *gin.Context) {
	company, ok := requireCompany(c, c.Query("empresa"))
	if !ok {
		return
	}
	unit := c.Query("unidade")
	h.respond(c, "sectors", func(ctx context.Context) ([]exportdata.Row, error) {
		return h.service.HierarchySectors(ctx, company, unit)
	})
}

// Roles lists the roles registered for a company
// @Summary List company roles
// @Tags Lookups
// @Produce json
// @Param empresa query string true "Company code"
// @Success 200 {object} models.LookupResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /consultas/cargos [get]
func (h *ConsultaHandler) Roles(c *gin.Context) {
	company, ok := requireCompany(c, c.Query("empresa"))
	if !ok {
		return
	}
	h.respond(c, "roles", func(ctx context.Context) ([]exportdata.Row, error) {
		return h.service.Roles(ctx, company)
	})
}

// FilteredRoles lists the roles of a company hierarchy, optionally for one unit and sector
// @Summary List hierarchy roles
// @Tags Lookups
// @Produce json
// @Param empresa query string true "Company code"
// @Param unidade query string false "Unit code"
// @Param setor query string false "Sector code"
// @Success 200 {object} models.LookupResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /consultas/cargos-filtrados [get]
func (h *ConsultaHandler) FilteredRoles(c *gin.Context) {
	company, ok := requireCompany(c, c.Query("empresa"))
	if !ok {
		return
	}
	unit, sector := c.Query("unidade"), c.Query("setor")
	h.respond(c, "filtered_roles", func(ctx context.Context) ([]exportdata.Row, error) {
		return h.service.HierarchyRoles(ctx, company, unit, sector)
	})
}

// Hierarchy returns the raw hierarchy of a company
// @Summary Company hierarchy
// @Tags Lookups
// @Produce json
// @Param codigoEmpresa path string true "Company code"
// @Success 200 {object} models.LookupResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /consultas/hierarquia/{codigoEmpresa} [get]
func (h *ConsultaHandler) Hierarchy(c *gin.Context) {
	company, ok := requireCompany(c, c.Param("codigoEmpresa"))
	if !ok {
		return
	}
	h.respond(c, "hierarchy", func(ctx context.Context) ([]exportdata.Row, error) {
		return h.service.Hierarchy(ctx, company)
	})
}

func requireCompany(c *gin.Context, company string) (string, bool) {
	company = strings.TrimSpace(company)
	if company == "" {
		c.JSON(http.StatusBadRequest, models.NewErrorResponse(
			models.ErrorCodeInvalidRequest, "Validation Error", msgCompanyRequired, c.Request.URL.Path))
		return "", false
	}
	return company, true
}

func (h *ConsultaHandler) respond(c *gin.Context, lookup string, fetch func(context.Context) ([]exportdata.Row, error)) {
	log := h.logger.WithFields(logrus.Fields{
		"request_id": c.GetString("request_id"),
		"lookup":     lookup,
	})

	rows, err := fetch(c.Request.Context())
	if err != nil {
		respondError(c, log, err)
		return
	}
	if rows == nil {
		rows = []exportdata.Row{}
	}

	c.JSON(http.StatusOK, models.LookupResponse{
		Success: true,
		Data:    rows,
		Total:   len(rows),
	})
}
