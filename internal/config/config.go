package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Redis      RedisConfig      `yaml:"redis"`
	Log        LogConfig        `yaml:"log"`
	Security   SecurityConfig   `yaml:"security"`
	SOC        SOCConfig        `yaml:"soc"`
	ExportData ExportDataConfig `yaml:"export_data"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port         int    `yaml:"port"`
	Environment  string `yaml:"environment"`
	ReadTimeout  int    `yaml:"read_timeout"`
	WriteTimeout int    `yaml:"write_timeout"`
	IdleTimeout  int    `yaml:"idle_timeout"`
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	Password     string        `yaml:"password"`
	DB           int           `yaml:"db"`
	PoolSize     int           `yaml:"pool_size"`
	DialTimeout  time.Duration `yaml:"dial_timeout"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// SecurityConfig holds security configuration
type SecurityConfig struct {
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	CORS      CORSConfig      `yaml:"cors"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	RequestsPerMinute int           `yaml:"requests_per_minute"`
	BurstSize         int           `yaml:"burst_size"`
	CleanupInterval   time.Duration `yaml:"cleanup_interval"`
}

// CORSConfig holds CORS configuration
type CORSConfig struct {
	AllowedOrigins   []string `yaml:"allowed_origins"`
	AllowedMethods   []string `yaml:"allowed_methods"`
	AllowedHeaders   []string `yaml:"allowed_headers"`
	AllowCredentials bool     `yaml:"allow_credentials"`
}

// SOCConfig holds the connection parameters for the SOC web services.
type SOCConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`

	// Identity block defaults attached to every outbound request.
	MainCompanyCode string `yaml:"main_company_code"`
	ResponsibleCode string `yaml:"responsible_code"`

	// DefaultCompanyCode is used by Unit and Hierarchy operations when the
	// caller does not name a company.
	DefaultCompanyCode string `yaml:"default_company_code"`
	// FallbackCompanyCode is used by Sector and Role operations when the
	// caller does not name a company.
	FallbackCompanyCode string `yaml:"fallback_company_code"`

	// AccessKey is sent as chaveAcesso in the Unit identity block when set.
	AccessKey string `yaml:"access_key"`

	Namespace         string        `yaml:"namespace"`
	Timeout           time.Duration `yaml:"timeout"`
	ExposeRawResponse bool          `yaml:"expose_raw_response"`

	Hierarchy EndpointConfig `yaml:"hierarchy"`
	Company   EndpointConfig `yaml:"company"`
	Unit      EndpointConfig `yaml:"unit"`
	Sector    EndpointConfig `yaml:"sector"`
	Role      EndpointConfig `yaml:"role"`
}

// EndpointConfig holds a single SOC web service endpoint.
type EndpointConfig struct {
	WSDL    string        `yaml:"wsdl"`
	Timeout time.Duration `yaml:"timeout"`
}

// URL returns the SOAP endpoint address derived from the WSDL location.
func (e EndpointConfig) URL() string {
	if i := strings.Index(e.WSDL, "?"); i >= 0 {
		return e.WSDL[:i]
	}
	return e.WSDL
}

// ExportDataConfig holds configuration for the SOC export-data (report) API
type ExportDataConfig struct {
	URL         string        `yaml:"url"`
	CompanyCode string        `yaml:"company_code"`
	Timeout     time.Duration `yaml:"timeout"`
	CacheTTL    time.Duration `yaml:"cache_ttl"`

	Companies ReportConfig `yaml:"companies"`
	Units     ReportConfig `yaml:"units"`
	Sectors   ReportConfig `yaml:"sectors"`
	Roles     ReportConfig `yaml:"roles"`
	Hierarchy ReportConfig `yaml:"hierarchy"`
}

// ReportConfig identifies a single export-data report
type ReportConfig struct {
	Code string `yaml:"code"`
	Key  string `yaml:"key"`
}

// Default returns the hard-coded fallback configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         4000,
			Environment:  "development",
			ReadTimeout:  30,
			WriteTimeout: 90,
			IdleTimeout:  120,
		},
		Redis: RedisConfig{
			Host:         "localhost",
			Port:         6379,
			PoolSize:     10,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Security: SecurityConfig{
			RateLimit: RateLimitConfig{
				RequestsPerMinute: 300,
				BurstSize:         30,
				CleanupInterval:   60 * time.Second,
			},
			CORS: CORSConfig{
				AllowedOrigins: []string{"*"},
				AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
				AllowedHeaders: []string{"*"},
			},
		},
		SOC: SOCConfig{
			MainCompanyCode:     "845144",
			ResponsibleCode:     "1169375",
			DefaultCompanyCode:  "845144",
			FallbackCompanyCode: "2116841",
			Namespace:           "http://services.soc.age.com/",
			Timeout:             60 * time.Second,
			ExposeRawResponse:   true,
			Hierarchy:           EndpointConfig{WSDL: "https://ws1.soc.com.br/WSSoc/HierarquiaWs?wsdl"},
			Company:             EndpointConfig{WSDL: "https://ws1.soc.com.br/WSSoc/EmpresaWs?wsdl"},
			Unit:                EndpointConfig{WSDL: "https://ws1.soc.com.br/WSSoc/services/UnidadeWs?wsdl"},
			Sector:              EndpointConfig{WSDL: "https://ws1.soc.com.br/WSSoc/services/SetorWs?wsdl"},
			Role:                EndpointConfig{WSDL: "https://ws1.soc.com.br/WSSoc/services/CargoWs?wsdl"},
		},
		ExportData: ExportDataConfig{
			URL:         "https://ws1.soc.com.br/WebSoc/exportadados",
			CompanyCode: "845144",
			Timeout:     30 * time.Second,
			Companies:   ReportConfig{Code: "199009"},
			Units:       ReportConfig{Code: "200186"},
			Sectors:     ReportConfig{Code: "207205"},
			Roles:       ReportConfig{Code: "198339"},
			Hierarchy:   ReportConfig{Code: "199686"},
		},
	}
}

// Load loads configuration from defaults, an optional YAML file named by
// CONFIG_FILE and environment variables, in that order of precedence.
func Load() (*Config, error) {
	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()

	// Per-endpoint timeouts fall back to the shared SOC timeout
	for _, ep := range []*EndpointConfig{&cfg.SOC.Hierarchy, &cfg.SOC.Company, &cfg.SOC.Unit, &cfg.SOC.Sector, &cfg.SOC.Role} {
		if ep.Timeout <= 0 {
			ep.Timeout = cfg.SOC.Timeout
		}
	}

	if cfg.Server.Port <= 0 {
		return nil, fmt.Errorf("invalid server port: %d", cfg.Server.Port)
	}

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("config file %s not found", path)
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return nil
}

func (c *Config) applyEnv() {
	c.Server.Port = getEnvAsInt("PORT", c.Server.Port)
	c.Server.Environment = getEnv("ENVIRONMENT", c.Server.Environment)
	c.Server.ReadTimeout = getEnvAsInt("READ_TIMEOUT", c.Server.ReadTimeout)
	c.Server.WriteTimeout = getEnvAsInt("WRITE_TIMEOUT", c.Server.WriteTimeout)
	c.Server.IdleTimeout = getEnvAsInt("IDLE_TIMEOUT", c.Server.IdleTimeout)

	c.Redis.Host = getEnv("REDIS_HOST", c.Redis.Host)
	c.Redis.Port = getEnvAsInt("REDIS_PORT", c.Redis.Port)
	c.Redis.Password = getEnv("REDIS_PASSWORD", c.Redis.Password)
	c.Redis.DB = getEnvAsInt("REDIS_DB", c.Redis.DB)
	c.Redis.PoolSize = getEnvAsInt("REDIS_POOL_SIZE", c.Redis.PoolSize)

	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
	c.Log.Format = getEnv("LOG_FORMAT", c.Log.Format)

	c.Security.RateLimit.RequestsPerMinute = getEnvAsInt("RATE_LIMIT_RPM", c.Security.RateLimit.RequestsPerMinute)
	c.Security.RateLimit.BurstSize = getEnvAsInt("RATE_LIMIT_BURST", c.Security.RateLimit.BurstSize)
	c.Security.RateLimit.CleanupInterval = getEnvAsDuration("RATE_LIMIT_CLEANUP", c.Security.RateLimit.CleanupInterval)
	c.Security.CORS.AllowedOrigins = getEnvAsSlice("CORS_ALLOWED_ORIGINS", c.Security.CORS.AllowedOrigins)

	c.SOC.Username = getEnv("SOC_USERNAME", c.SOC.Username)
	c.SOC.Password = getEnv("SOC_PASSWORD", c.SOC.Password)
	c.SOC.MainCompanyCode = getEnv("CODIGO_EMPRESA_PRINCIPAL", c.SOC.MainCompanyCode)
	c.SOC.ResponsibleCode = getEnv("CODIGO_RESPONSAVEL", c.SOC.ResponsibleCode)
	c.SOC.DefaultCompanyCode = getEnv("CODIGO_EMPRESA", c.SOC.DefaultCompanyCode)
	c.SOC.FallbackCompanyCode = getEnv("CODIGO_EMPRESA_FALLBACK", c.SOC.FallbackCompanyCode)
	c.SOC.AccessKey = getEnv("SOC_CHAVE_ACESSO", c.SOC.AccessKey)
	c.SOC.Namespace = getEnv("SOC_NAMESPACE", c.SOC.Namespace)
	c.SOC.Timeout = getEnvAsDuration("SOC_TIMEOUT", c.SOC.Timeout)
	c.SOC.ExposeRawResponse = getEnvAsBool("SOC_EXPOSE_RAW_RESPONSE", c.SOC.ExposeRawResponse)
	c.SOC.Hierarchy.WSDL = getEnv("HIERARQUIA_WSDL", c.SOC.Hierarchy.WSDL)
	c.SOC.Company.WSDL = getEnv("SOC_EMPRESA_WSDL", c.SOC.Company.WSDL)
	c.SOC.Unit.WSDL = getEnv("SOC_UNIDADE_WSDL", c.SOC.Unit.WSDL)
	c.SOC.Sector.WSDL = getEnv("SOC_SETOR_WSDL", c.SOC.Sector.WSDL)
	c.SOC.Role.WSDL = getEnv("SOC_CARGO_WSDL", c.SOC.Role.WSDL)

	c.ExportData.URL = getEnv("SOC_EXPORTA_DADOS_URL", c.ExportData.URL)
	c.ExportData.CompanyCode = getEnv("EXPORTA_DADOS_EMPRESA", c.ExportData.CompanyCode)
	c.ExportData.Timeout = getEnvAsDuration("EXPORTA_DADOS_TIMEOUT", c.ExportData.Timeout)
	c.ExportData.CacheTTL = getEnvAsDuration("EXPORT_CACHE_TTL", c.ExportData.CacheTTL)
	c.ExportData.Companies.Key = getEnv("CHAVE_EXPORTA_EMPRESAS", c.ExportData.Companies.Key)
	c.ExportData.Units.Key = getEnv("CHAVE_EXPORTA_UNIDADES", c.ExportData.Units.Key)
	c.ExportData.Sectors.Key = getEnv("CHAVE_EXPORTA_SETORES", c.ExportData.Sectors.Key)
	c.ExportData.Roles.Key = getEnv("CHAVE_EXPORTA_CARGOS", c.ExportData.Roles.Key)
	c.ExportData.Hierarchy.Key = getEnv("CHAVE_EXPORTA_HIERARQUIA", c.ExportData.Hierarchy.Key)
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvAsDuration accepts Go duration strings ("45s") or plain integers,
// which are read as milliseconds like the legacy SOC_TIMEOUT setting.
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if ms, err := strconv.Atoi(value); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
