package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Angeloac12/siigo-cotizador/internal/logger"
	"github.com/Angeloac12/siigo-cotizador/internal/metrics"
)

// RouterOptions carries the cross-cutting pieces the router wires in.
type RouterOptions struct {
	APIKey    string
	Logger    logger.Logger
	Metrics   *metrics.Metrics
	Readiness gin.HandlerFunc
}

// SetupRouter builds the gin engine with middleware and all routes.
func SetupRouter(handler *Handler, opts RouterOptions) *gin.Engine {
	log := opts.Logger
	if log == nil {
		log = logger.NewNop()
	}

	router := gin.New()
	router.Use(CorrelationMiddleware())
	router.Use(RecoveryMiddleware(log))
	router.Use(LoggerMiddleware(log))
	if opts.Metrics != nil {
		router.Use(opts.Metrics.Middleware())
		router.GET("/metrics", gin.WrapH(opts.Metrics.Handler()))
	}

	router.GET("/health", handler.HealthCheck)
	if opts.Readiness != nil {
		router.GET("/ready", opts.Readiness)
	} else {
		router.GET("/ready", handler.HealthCheck)
	}

	v1 := router.Group("/v1")
	v1.Use(AuthMiddleware(opts.APIKey))
	{
		v1.POST("/parse", handler.Parse)

		draftRoutes := v1.Group("/drafts")
		{
			draftRoutes.POST("", handler.CreateDraft)
			draftRoutes.POST("/upload", handler.UploadDraft)
			draftRoutes.POST("/:id/parse", handler.ParseDraft)
			draftRoutes.GET("/:id", handler.GetDraft)
			draftRoutes.PUT("/:id/items", handler.ReplaceItems)
			draftRoutes.POST("/:id/match", handler.MatchDraft)
			draftRoutes.POST("/:id/commit", handler.CommitDraft)
			draftRoutes.POST("/:id/quote/preview", handler.QuotePreview)
		}

		catalogRoutes := v1.Group("/catalog")
		{
			catalogRoutes.POST("/search", handler.CatalogSearch)
			catalogRoutes.POST("/import", handler.ImportCatalog)
		}

		tenantRoutes := v1.Group("/tenant")
		{
			tenantRoutes.PUT("/config", handler.SetTenantConfig)
			tenantRoutes.DELETE("/config", handler.ClearTenantConfig)
		}
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})

	return router
}
