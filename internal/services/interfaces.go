package services

import (
	"context"
	"time"

	"github.com/nexconsult/soc-api/internal/exportdata"
	"github.com/nexconsult/soc-api/internal/soc"
)

// ResourceServiceInterface defines the operations of one SOC resource
type ResourceServiceInterface interface {
	// Create includes a new record
	Create(ctx context.Context, p soc.Payload) (*soc.Result, error)

	// Update alters a record; a non-empty code overrides the payload code
	Update(ctx context.Context, code string, p soc.Payload) (*soc.Result, error)

	// Delete removes a record
	Delete(ctx context.Context, p soc.Payload) (*soc.Result, error)

	// Query looks a record up
	Query(ctx context.Context, p soc.Payload) (*soc.Result, error)

	// Resource describes the served resource
	Resource() *soc.Resource
}

// HierarchyServiceInterface defines the legacy hierarchy operations
type HierarchyServiceInterface interface {
	Include(ctx context.Context, p soc.Payload) (*soc.Result, error)
	Update(ctx context.Context, p soc.Payload) (*soc.Result, error)
	Delete(ctx context.Context, p soc.Payload) (*soc.Result, error)

	// Batch validates and sends up to soc.MaxBatchSize links in one call
	Batch(ctx context.Context, req soc.BatchRequest) (*soc.Result, error)
}

// LookupServiceInterface defines the read-only export-data lookups
type LookupServiceInterface interface {
	Companies(ctx context.Context) ([]exportdata.Row, error)
	Units(ctx context.Context) ([]exportdata.Row, error)
	AllSectors(ctx context.Context) ([]exportdata.Row, error)
	Roles(ctx context.Context, company string) ([]exportdata.Row, error)
	Hierarchy(ctx context.Context, company string) ([]exportdata.Row, error)
	HierarchyUnits(ctx context.Context, company string) ([]exportdata.Row, error)
	HierarchySectors(ctx context.Context, company, unit string) ([]exportdata.Row, error)
	HierarchyRoles(ctx context.Context, company, unit, sector string) ([]exportdata.Row, error)
}

// CacheServiceInterface defines the interface for cache service
type CacheServiceInterface interface {
	// Get retrieves a value from cache; a miss returns ErrCacheMiss
	Get(ctx context.Context, key string) (string, error)

	// Set stores a value in cache with TTL
	Set(ctx context.Context, key string, value string) error

	// Delete removes a value from cache
	Delete(ctx context.Context, key string) error

	// Clear removes every entry owned by this service
	Clear(ctx context.Context) error

	// GetStats returns cache statistics
	GetStats(ctx context.Context) (map[string]interface{}, error)

	// Health returns cache service health status
	Health() map[string]interface{}
}

// MetricsServiceInterface defines the interface for metrics service
type MetricsServiceInterface interface {
	// RecordRequest records an HTTP request
	RecordRequest(method, endpoint string, statusCode int, duration time.Duration)

	// RecordCall records one remote SOC operation
	RecordCall(operation string, err error, duration time.Duration)

	// RecordCacheHit records a lookup cache hit or miss
	RecordCacheHit(hit bool)

	// GetMetrics returns current metrics
	GetMetrics() map[string]interface{}
}

// Prober is a dependency checked by the readiness probe
type Prober interface {
	Name() string
	Ping(ctx context.Context) error
}
