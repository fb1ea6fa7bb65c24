package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/nexconsult/soc-api/internal/api/handlers"
	"github.com/nexconsult/soc-api/internal/api/middleware"
	"github.com/nexconsult/soc-api/internal/config"
	"github.com/nexconsult/soc-api/internal/models"
	"github.com/nexconsult/soc-api/internal/services"
	"github.com/nexconsult/soc-api/internal/soc"
)

// resourcePaths maps the route segment of each SOC resource
var resourcePaths = []struct {
	path string
	kind soc.Kind
}{
	{"empresa", soc.KindCompany},
	{"unidade", soc.KindUnit},
	{"setor", soc.KindSector},
	{"cargo", soc.KindRole},
}

// Server represents the HTTP server
type Server struct {
	Router   *gin.Engine
	config   *config.Config
	logger   *logrus.Logger
	services *services.Container
}

// NewServer creates a new HTTP server. Background routines of the
// middleware stop when ctx is done.
func NewServer(ctx context.Context, cfg *config.Config, logger *logrus.Logger, services *services.Container) *Server {
	server := &Server{
		config:   cfg,
		logger:   logger,
		services: services,
	}

	server.setupRouter(ctx)
	return server
}

// setupRouter configures the router with all routes and middleware
func (s *Server) setupRouter(ctx context.Context) {
	s.Router = gin.New()

	s.Router.Use(middleware.RequestID())
	s.Router.Use(middleware.Logger(s.logger, s.services.MetricsService))
	s.Router.Use(middleware.Recovery(s.logger))
	s.Router.Use(middleware.CORS(s.config.Security.CORS))
	s.Router.Use(middleware.Security())

	rateLimiter := middleware.NewRateLimiter(ctx, s.config.Security.RateLimit)

	healthHandler := handlers.NewHealthHandler(s.services, s.logger)
	s.Router.GET("/health", healthHandler.GetHealth)
	s.Router.GET("/health/ready", healthHandler.GetReadiness)
	s.Router.GET("/health/live", healthHandler.GetLiveness)
	s.Router.GET("/metrics", handlers.NewMetricsHandler(s.services.MetricsService, rateLimiter, s.logger).GetMetrics)

	if s.config.Server.Environment != "production" {
		s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
		s.Router.GET("/", func(c *gin.Context) {
			c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
		})
	}

	v1 := s.Router.Group("/api/v1", rateLimiter.Middleware())
	{
		socGroup := v1.Group("/soc")
		for _, rp := range resourcePaths {
			svc, ok := s.services.Resources[rp.kind]
			if !ok {
				continue
			}
			h := handlers.NewResourceHandler(svc, s.logger)
			g := socGroup.Group("/" + rp.path)
			g.POST("", h.Create)
			g.PUT("", h.Update)
			g.PUT("/:codigo", h.Update)
			g.DELETE("/:codigo", h.Delete)
			g.POST("/excluir", h.Delete)
			g.GET("/consultar", h.Query)
		}

		hierarchyHandler := handlers.NewHierarchyHandler(s.services.HierarchyService, s.logger)
		hierarchy := v1.Group("/hierarquia")
		{
			hierarchy.POST("/incluir", hierarchyHandler.Include)
			hierarchy.POST("/alterar", hierarchyHandler.Update)
			hierarchy.POST("/excluir", hierarchyHandler.Delete)
			hierarchy.POST("/lote", hierarchyHandler.Batch)
		}

		consultaHandler := handlers.NewConsultaHandler(s.services.LookupService, s.logger)
		consultas := v1.Group("/consultas")
		{
			consultas.GET("/empresas", consultaHandler.Companies)
			consultas.GET("/unidades", consultaHandler.Units)
			consultas.GET("/unidades/hierarquia", consultaHandler.HierarchyUnits)
			consultas.GET("/setores", consultaHandler.Sectors)
			consultas.GET("/todos-setores", consultaHandler.AllSectors)
			consultas.GET("/cargos", consultaHandler.Roles)
			consultas.GET("/cargos-filtrados", consultaHandler.FilteredRoles)
			consultas.GET("/hierarquia/:codigoEmpresa", consultaHandler.Hierarchy)
		}

		if s.services.CacheService != nil {
			cacheHandler := handlers.NewCacheHandler(s.services.CacheService, s.logger)
			cache := v1.Group("/cache")
			{
				cache.GET("/stats", cacheHandler.GetStats)
				cache.DELETE("/clear", cacheHandler.Clear)
				cache.DELETE("/relatorio/:codigo", cacheHandler.Delete)
			}
		}
	}

	s.Router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, models.NewErrorResponse(
			models.ErrorCodeNotFound, "Not Found", "The requested resource was not found", c.Request.URL.Path))
	})

	s.Router.HandleMethodNotAllowed = true
	s.Router.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, models.NewErrorResponse(
			"METHOD_NOT_ALLOWED", "Method Not Allowed", "The requested method is not allowed for this resource", c.Request.URL.Path))
	})
}
