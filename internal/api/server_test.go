package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexconsult/soc-api/internal/config"
	"github.com/nexconsult/soc-api/internal/models"
	"github.com/nexconsult/soc-api/internal/services"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Default()
	cfg.Server.Environment = "production"
	log, _ := test.NewNullLogger()

	container, err := services.NewContainer(cfg, log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return NewServer(ctx, cfg, log, container)
}

func request(s *Server, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Router.ServeHTTP(w, req)
	return w
}

func errorBody(t *testing.T, w *httptest.ResponseRecorder) models.ErrorResponse {
	t.Helper()
	var res models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	return res
}

func TestHealthRoutes(t *testing.T) {
	s := newTestServer(t)

	assert.Equal(t, http.StatusOK, request(s, http.MethodGet, "/health/live", "").Code)

	w := request(s, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	var health models.HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	assert.Equal(t, "degraded", health.Status)
	assert.Equal(t, "disabled", health.Services["cache"].Status)
}

func TestMissingCredentialsIsConfigError(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/api/v1/soc/empresa", "/api/v1/soc/unidade", "/api/v1/soc/setor", "/api/v1/soc/cargo"} {
		w := request(s, http.MethodPost, path, `{"nome":"Teste"}`)
		assert.Equal(t, http.StatusInternalServerError, w.Code, path)
		assert.Equal(t, models.ErrorCodeConfig, errorBody(t, w).Code, path)
	}
}

func TestBatchTooLargeIsRejected(t *testing.T) {
	s := newTestServer(t)

	items := make([]string, 101)
	for i := range items {
		items[i] = `{"codigoUnidade":"1","codigoSetor":"2","codigoCargo":"3","ativo":true}`
	}
	body := `{"operationType":"include","hierarquias":[` + strings.Join(items, ",") + `]}`

	w := request(s, http.MethodPost, "/api/v1/hierarquia/lote", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	res := errorBody(t, w)
	assert.Equal(t, models.ErrorCodeValidation, res.Code)
	assert.Contains(t, res.Message, "got 101")
}

func TestLookupWithoutReportKey(t *testing.T) {
	s := newTestServer(t)

	w := request(s, http.MethodGet, "/api/v1/consultas/empresas", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, models.ErrorCodeConfig, errorBody(t, w).Code)

	w = request(s, http.MethodGet, "/api/v1/consultas/setores", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestNotFoundAndMethodNotAllowed(t *testing.T) {
	s := newTestServer(t)

	w := request(s, http.MethodGet, "/api/v1/unknown", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NotEmpty(t, errorBody(t, w).Message)

	w = request(s, http.MethodPatch, "/api/v1/soc/setor/1", "")
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestCacheRoutesOnlyWhenEnabled(t *testing.T) {
	s := newTestServer(t)
	assert.Equal(t, http.StatusNotFound, request(s, http.MethodGet, "/api/v1/cache/stats", "").Code)
}

func TestMetricsIncludeRateLimiter(t *testing.T) {
	s := newTestServer(t)

	request(s, http.MethodGet, "/api/v1/consultas/empresas", "")

	w := request(s, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)

	var res models.MetricsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	require.NotNil(t, res.RateLimit)
	assert.EqualValues(t, 1, res.RateLimit["active_clients"])
	assert.EqualValues(t, 300, res.RateLimit["requests_per_minute"])
}
