package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/nexconsult/soc-api/internal/config"
	"github.com/nexconsult/soc-api/internal/exportdata"
	"github.com/nexconsult/soc-api/internal/soap"
	"github.com/nexconsult/soc-api/internal/soc"
)

// Container holds all service dependencies
type Container struct {
	config      *config.Config
	logger      *logrus.Logger
	redisClient *redis.Client
	probers     []Prober

	Resources        map[soc.Kind]ResourceServiceInterface
	HierarchyService HierarchyServiceInterface
	LookupService    LookupServiceInterface
	CacheService     CacheServiceInterface
	MetricsService   MetricsServiceInterface
}

// ProbeResult is the outcome of one readiness probe
type ProbeResult struct {
	Status   string
	Duration time.Duration
	Error    string
}

// NewContainer creates a new service container
func NewContainer(cfg *config.Config, logger *logrus.Logger) (*Container, error) {
	container := &Container{
		config:    cfg,
		logger:    logger,
		Resources: make(map[soc.Kind]ResourceServiceInterface),
	}

	if cfg.ExportData.CacheTTL > 0 {
		container.initRedis()
	}

	if err := container.initServices(); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	return container, nil
}

// initRedis connects the lookup cache backend. A failed ping leaves the
// container on the in-memory cache.
func (c *Container) initRedis() {
	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", c.config.Redis.Host, c.config.Redis.Port),
		Password:     c.config.Redis.Password,
		DB:           c.config.Redis.DB,
		PoolSize:     c.config.Redis.PoolSize,
		DialTimeout:  c.config.Redis.DialTimeout,
		ReadTimeout:  c.config.Redis.ReadTimeout,
		WriteTimeout: c.config.Redis.WriteTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		c.logger.WithError(err).Warn("Redis connection failed, caching lookups in memory")
		_ = client.Close()
		return
	}

	c.redisClient = client
	c.logger.Info("Redis connection established")
}

// initServices initializes all services
func (c *Container) initServices() error {
	c.MetricsService = NewMetricsService()

	socCfg := c.config.SOC
	mapper := soc.NewMapper(soc.SettingsFromConfig(socCfg), c.logger)

	endpoints := map[soc.Kind]struct {
		name string
		ep   config.EndpointConfig
	}{
		soc.KindCompany: {"EmpresaWs", socCfg.Company},
		soc.KindUnit:    {"UnidadeWs", socCfg.Unit},
		soc.KindSector:  {"SetorWs", socCfg.Sector},
		soc.KindRole:    {"CargoWs", socCfg.Role},
	}

	for _, r := range soc.Resources() {
		e, ok := endpoints[r.Kind]
		if !ok {
			return fmt.Errorf("no endpoint configured for resource %s", r.Label)
		}
		client := soap.NewClient(soap.OptionsFromConfig(e.name, socCfg, e.ep, r.Operations.All()), c.logger)
		c.probers = append(c.probers, client)
		c.Resources[r.Kind] = soc.NewResourceService(r, mapper, Instrument(client, c.MetricsService), c.logger)
	}

	hierarchy := soap.NewClient(soap.OptionsFromConfig("HierarquiaWs", socCfg, socCfg.Hierarchy, soc.HierarchyOperations()), c.logger)
	c.probers = append(c.probers, hierarchy)
	c.HierarchyService = soc.NewHierarchyService(mapper, Instrument(hierarchy, c.MetricsService), c.logger)

	if c.config.ExportData.CacheTTL > 0 {
		c.CacheService = NewCacheService(c.redisClient, c.config.ExportData.CacheTTL, c.logger)
	}
	exportClient := exportdata.NewClient(c.config.ExportData, c.logger)
	c.LookupService = NewLookupService(c.config.ExportData, exportClient, c.CacheService, c.MetricsService, c.logger)

	c.logger.WithFields(logrus.Fields{
		"resources": len(c.Resources),
		"cache":     c.CacheService != nil,
	}).Info("Services initialized")

	return nil
}

// StartBackground starts the background routines of the container until ctx is done
func (c *Container) StartBackground(ctx context.Context) {
	if cache, ok := c.CacheService.(*CacheService); ok {
		cache.StartCleanupRoutine(ctx, time.Minute)
	}
}

// Close closes all service connections
func (c *Container) Close() error {
	if c.redisClient != nil {
		if err := c.redisClient.Close(); err != nil {
			return fmt.Errorf("failed to close Redis: %w", err)
		}
	}
	return nil
}

// Health reports the local state of the services without contacting SOC
func (c *Container) Health() map[string]interface{} {
	health := make(map[string]interface{})

	if c.CacheService != nil {
		health["cache"] = c.CacheService.Health()
	} else {
		health["cache"] = map[string]interface{}{"status": "disabled"}
	}

	status, creds := "healthy", "configured"
	if c.config.SOC.Username == "" || c.config.SOC.Password == "" {
		status, creds = "degraded", "missing"
	}
	health["soc"] = map[string]interface{}{
		"status":      status,
		"credentials": creds,
		"services":    len(c.probers),
	}

	return health
}

// Ready probes every SOC endpoint and the cache backend concurrently
func (c *Container) Ready(ctx context.Context) map[string]ProbeResult {
	probers := append([]Prober(nil), c.probers...)
	if c.redisClient != nil {
		probers = append(probers, redisProber{c.redisClient})
	}

	var (
		mu      sync.Mutex
		results = make(map[string]ProbeResult, len(probers))
	)

	g, gctx := errgroup.WithContext(ctx)
	for _, p := range probers {
		g.Go(func() error {
			start := time.Now()
			err := p.Ping(gctx)
			res := ProbeResult{Status: "healthy", Duration: time.Since(start)}
			if err != nil {
				res.Status = "unhealthy"
				res.Error = err.Error()
			}

			mu.Lock()
			results[p.Name()] = res
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// GetRedisClient returns the Redis client
func (c *Container) GetRedisClient() *redis.Client {
	return c.redisClient
}

// GetConfig returns the configuration
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetLogger returns the logger
func (c *Container) GetLogger() *logrus.Logger {
	return c.logger
}

type redisProber struct {
	client *redis.Client
}

func (r redisProber) Name() string { return "redis" }

func (r redisProber) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
