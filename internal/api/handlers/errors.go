package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/nexconsult/soc-api/internal/exportdata"
	"github.com/nexconsult/soc-api/internal/models"
	"github.com/nexconsult/soc-api/internal/soap"
	"github.com/nexconsult/soc-api/internal/soc"
)

// respondError maps a service error to its HTTP status and error body
func respondError(c *gin.Context, logger logrus.FieldLogger, err error) {
	status, code, title := classify(err)

	body := models.NewErrorResponse(code, title, err.Error(), c.Request.URL.Path)
	var vErr *soc.ValidationError
	if errors.As(err, &vErr) {
		body.Message = strings.Join(vErr.Errors, "; ")
		body.Errors = vErr.Errors
	}

	entry := logger.WithFields(logrus.Fields{
		"request_id": c.GetString("request_id"),
		"status":     status,
		"code":       code,
	}).WithError(err)
	if status >= http.StatusInternalServerError {
		entry.Error(title)
	} else {
		entry.Warn(title)
	}

	c.JSON(status, body)
}

func classify(err error) (int, string, string) {
	var (
		vErr   *soc.ValidationError
		tErr   *soap.TransportError
		apiErr *exportdata.APIError
	)

	switch {
	case errors.As(err, &vErr):
		return http.StatusBadRequest, models.ErrorCodeValidation, "Validation failed"
	case errors.Is(err, soap.ErrNotConfigured),
		errors.Is(err, soap.ErrMissingCredentials),
		errors.Is(err, soap.ErrUnknownOperation),
		errors.Is(err, exportdata.ErrNotConfigured):
		return http.StatusInternalServerError, models.ErrorCodeConfig, "SOC integration is not configured"
	case errors.As(err, &tErr) && tErr.Timeout, errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, models.ErrorCodeTimeout, "SOC did not answer in time"
	case errors.As(err, &tErr):
		return http.StatusBadGateway, models.ErrorCodeUnavailable, "SOC is unavailable"
	case errors.As(err, &apiErr):
		return http.StatusBadGateway, models.ErrorCodeLookup, "SOC report lookup failed"
	default:
		return http.StatusInternalServerError, models.ErrorCodeInternalError, "Internal server error"
	}
}

// badRequest writes a 400 for malformed input
func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, models.NewErrorResponse(
		models.ErrorCodeInvalidRequest, "Invalid request", message, c.Request.URL.Path))
}

// bindPayload reads the JSON body as a free-form payload. An empty body is
// an empty payload.
func bindPayload(c *gin.Context) (soc.Payload, bool) {
	p := soc.Payload{}
	if err := c.ShouldBindJSON(&p); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c, "request body must be a JSON object: "+err.Error())
		return nil, false
	}
	return p, true
}

// queryPayload turns the query string into a payload, keeping the first
// value of each parameter
func queryPayload(c *gin.Context) soc.Payload {
	p := soc.Payload{}
	for k, v := range c.Request.URL.Query() {
		if len(v) > 0 {
			p[k] = v[0]
		}
	}
	return p
}
