package api

import (
	"github.com/Conceptual-Machines/melody-api/internal/api/handlers"
	apimiddleware "github.com/Conceptual-Machines/melody-api/internal/api/middleware"
	"github.com/Conceptual-Machines/melody-api/internal/config"
	"github.com/Conceptual-Machines/melody-api/internal/metrics"
	"github.com/Conceptual-Machines/melody-api/internal/services"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Services are the domain services the routes call into.
type Services struct {
	// Melody is nil when no LLM provider is configured.
	Melody   handlers.MelodySearcher
	Tabs     services.TabIngester
	Sections handlers.SectionReader
	Metrics  *metrics.Metrics
}

func SetupRouter(db *gorm.DB, cfg *config.Config, version string, svc Services) *gin.Engine {
	router := gin.New()

	if svc.Metrics == nil {
		svc.Metrics = metrics.New(nil)
	}

	// Recovery middleware (must be first)
	router.Use(apimiddleware.RecoverWithSentry())

	// Sentry middleware for error tracking
	router.Use(apimiddleware.SentryMiddleware())

	// Request tracking and structured logging
	router.Use(apimiddleware.RequestTracking(svc.Metrics))

	// CORS middleware
	router.Use(apimiddleware.CORS())

	// Health check
	healthHandler := handlers.NewHealthHandler(db)
	router.GET("/health", healthHandler.HealthCheck)

	// Metrics endpoint
	metricsHandler := handlers.NewMetricsHandler(version, cfg.MelodyModel, svc.Metrics)
	router.GET("/api/metrics", metricsHandler.GetMetrics)

	v1 := router.Group("/api/v1")
	v1.Use(apimiddleware.Auth(cfg))
	{
		progressionHandler := handlers.NewProgressionHandler(svc.Metrics)
		v1.POST("/progressions/convert", progressionHandler.Convert)

		melodyHandler := handlers.NewMelodyHandler(svc.Melody)
		v1.POST("/melody/search", melodyHandler.Search)
		v1.POST("/melody/more", melodyHandler.MoreLikeThese)

		tabHandler := handlers.NewTabHandler(svc.Tabs, svc.Sections, svc.Metrics)
		v1.POST("/tabs", tabHandler.Ingest)
		v1.GET("/songs/:id/sections", tabHandler.Sections)
	}

	return router
}
