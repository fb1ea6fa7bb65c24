package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/nexconsult/soc-api/internal/soc"
)

const latencyWindow = 1000

// MetricsService keeps in-process request, SOC call and cache counters
type MetricsService struct {
	mu sync.Mutex

	requests  int64
	errors    int64
	latencies []time.Duration
	next      int

	calls map[string]*CallStats

	cacheHits   int64
	cacheMisses int64

	startedAt time.Time
}

// CallStats aggregates the calls of one SOC operation
type CallStats struct {
	Calls    int64         `json:"calls"`
	Failures int64         `json:"failures"`
	Total    time.Duration `json:"-"`
	AvgMs    int64         `json:"avg_ms"`
}

// NewMetricsService creates an empty metrics service
func NewMetricsService() *MetricsService {
	return &MetricsService{
		latencies: make([]time.Duration, 0, latencyWindow),
		calls:     make(map[string]*CallStats),
		startedAt: time.Now(),
	}
}

// RecordRequest records an HTTP request
func (m *MetricsService) RecordRequest(method, endpoint string, statusCode int, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.requests++
	if statusCode >= 400 {
		m.errors++
	}

	if len(m.latencies) < latencyWindow {
		m.latencies = append(m.latencies, duration)
	} else {
		m.latencies[m.next] = duration
		m.next = (m.next + 1) % latencyWindow
	}
}

// RecordCall records one remote SOC operation
func (m *MetricsService) RecordCall(operation string, err error, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stats, ok := m.calls[operation]
	if !ok {
		stats = &CallStats{}
		m.calls[operation] = stats
	}
	stats.Calls++
	stats.Total += duration
	if err != nil {
		stats.Failures++
	}
	stats.AvgMs = (stats.Total / time.Duration(stats.Calls)).Milliseconds()
}

// RecordCacheHit records a lookup cache hit or miss
func (m *MetricsService) RecordCacheHit(hit bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if hit {
		m.cacheHits++
	} else {
		m.cacheMisses++
	}
}

// GetMetrics returns current metrics
func (m *MetricsService) GetMetrics() map[string]interface{} {
	m.mu.Lock()
	defer m.mu.Unlock()

	sorted := make([]time.Duration, len(m.latencies))
	copy(sorted, m.latencies)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	var sum time.Duration
	for _, d := range sorted {
		sum += d
	}
	var avg time.Duration
	if len(sorted) > 0 {
		avg = sum / time.Duration(len(sorted))
	}

	successRate := 0.0
	if m.requests > 0 {
		successRate = float64(m.requests-m.errors) / float64(m.requests) * 100
	}

	hitRate := 0.0
	if lookups := m.cacheHits + m.cacheMisses; lookups > 0 {
		hitRate = float64(m.cacheHits) / float64(lookups) * 100
	}

	calls := make(map[string]CallStats, len(m.calls))
	for op, s := range m.calls {
		calls[op] = *s
	}

	return map[string]interface{}{
		"requests": map[string]interface{}{
			"total":        m.requests,
			"success":      m.requests - m.errors,
			"errors":       m.errors,
			"success_rate": successRate,
		},
		"performance": map[string]interface{}{
			"avg_response_time_ms": avg.Milliseconds(),
			"p95_response_time_ms": percentile(sorted, 0.95).Milliseconds(),
			"p99_response_time_ms": percentile(sorted, 0.99).Milliseconds(),
		},
		"cache": map[string]interface{}{
			"hits":     m.cacheHits,
			"misses":   m.cacheMisses,
			"hit_rate": hitRate,
		},
		"soc_calls": calls,
		"uptime":    time.Since(m.startedAt).Round(time.Second).String(),
	}
}

func percentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(float64(len(sorted)-1) * p)
	return sorted[idx]
}

// instrumentedInvoker records every call made through inner
type instrumentedInvoker struct {
	inner   soc.Invoker
	metrics MetricsServiceInterface
}

// Instrument wraps inv so that each call is recorded in metrics
func Instrument(inv soc.Invoker, metrics MetricsServiceInterface) soc.Invoker {
	if metrics == nil {
		return inv
	}
	return &instrumentedInvoker{inner: inv, metrics: metrics}
}

func (i *instrumentedInvoker) Call(ctx context.Context, operation string, body *soc.Object) (map[string]any, error) {
	start := time.Now()
	resp, err := i.inner.Call(ctx, operation, body)
	i.metrics.RecordCall(operation, err, time.Since(start))
	return resp, err
}
