package models

import (
	"time"
)

// Códigos de erro padronizados
const (
	ErrorCodeInvalidRequest = "INVALID_REQUEST"
	ErrorCodeValidation     = "VALIDATION_ERROR"
	ErrorCodeOperation      = "SOC_OPERATION_FAILED"
	ErrorCodeConfig         = "SOC_CONFIG_ERROR"
	ErrorCodeTimeout        = "SOC_TIMEOUT"
	ErrorCodeUnavailable    = "SOC_UNAVAILABLE"
	ErrorCodeLookup         = "LOOKUP_ERROR"
	ErrorCodeRateLimit      = "RATE_LIMIT_EXCEEDED"
	ErrorCodeInternalError  = "INTERNAL_ERROR"
	ErrorCodeNotFound       = "NOT_FOUND"
)

// ErrorResponse representa uma resposta de erro
// @Description Estrutura de erro retornada por todos os endpoints
type ErrorResponse struct {
	Success bool   `json:"success" example:"false"`
	Error   string `json:"error" example:"Validation failed"`
	// Mensagem legível, nunca vazia
	Message string `json:"message" example:"hierarchy #2: missing codigoSetor"`
	Code    string `json:"code,omitempty" example:"VALIDATION_ERROR"`
	// Lista de erros de validação, quando houver
	Errors    []string  `json:"errors,omitempty"`
	Timestamp time.Time `json:"timestamp" example:"2025-08-25T17:25:30.468715-03:00"`
	Path      string    `json:"path" example:"/api/v1/hierarquia/lote"`
}

// LookupResponse representa a resposta das consultas de exporta dados
// @Description Lista de linhas retornadas por um relatório do SOC
type LookupResponse struct {
	Success bool `json:"success" example:"true"`
	// Linhas do relatório, com colunas em caixa alta
	Data  interface{} `json:"data"`
	Total int         `json:"total" example:"12"`
}

// OperationResult documenta o resultado normalizado de uma operação SOC
// @Description Resultado normalizado de uma chamada ao SOC
type OperationResult struct {
	Success     bool          `json:"success" example:"true"`
	Message     string        `json:"message" example:"Operation completed successfully"`
	MessageCode string        `json:"messageCode,omitempty" example:"SOC-100"`
	ErrorCount  int           `json:"errorCount" example:"0"`
	Details     []interface{} `json:"details,omitempty"`
	EntityData  interface{}   `json:"entityData,omitempty"`
	// Código atribuído pelo SOC ao registro
	VendorCode  string      `json:"vendorCode,omitempty" example:"1234"`
	RawResponse interface{} `json:"rawResponse,omitempty"`
}

// HealthResponse representa a resposta do health check
type HealthResponse struct {
	Status    string                 `json:"status" example:"healthy"`
	Timestamp time.Time              `json:"timestamp" example:"2025-08-25T17:25:30.468715-03:00"`
	Version   string                 `json:"version" example:"1.0.0"`
	Services  map[string]ServiceInfo `json:"services"`
	Uptime    string                 `json:"uptime" example:"2h30m45s"`
}

// ServiceInfo representa a saúde de uma dependência
type ServiceInfo struct {
	Status         string    `json:"status" example:"healthy"`
	LastCheck      time.Time `json:"last_check" example:"2025-08-25T17:25:30.468715-03:00"`
	ResponseTimeMs int64     `json:"response_time_ms" example:"150"`
	Error          string    `json:"error,omitempty"`
}

// MetricsResponse representa as métricas da aplicação
type MetricsResponse struct {
	Metrics   map[string]interface{} `json:"metrics"`
	RateLimit map[string]interface{} `json:"rate_limit,omitempty"`
	System    SystemMetrics          `json:"system"`
	Timestamp time.Time              `json:"timestamp" example:"2025-08-25T17:25:30.468715-03:00"`
}

// SystemMetrics representa métricas do processo
type SystemMetrics struct {
	MemoryUsage float64 `json:"memory_usage" example:"32.5"`
	Goroutines  int     `json:"goroutines" example:"12"`
}

// NewErrorResponse cria uma resposta de erro padronizada
func NewErrorResponse(code, err, message, path string) *ErrorResponse {
	if message == "" {
		message = err
	}
	return &ErrorResponse{
		Success:   false,
		Error:     err,
		Message:   message,
		Code:      code,
		Timestamp: time.Now(),
		Path:      path,
	}
}
