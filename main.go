package main

import (
	"context"
	"log"
	"time"

	"github.com/Conceptual-Machines/melody-api/internal/api"
	"github.com/Conceptual-Machines/melody-api/internal/config"
	"github.com/Conceptual-Machines/melody-api/internal/database"
	"github.com/Conceptual-Machines/melody-api/internal/llm"
	"github.com/Conceptual-Machines/melody-api/internal/metrics"
	"github.com/Conceptual-Machines/melody-api/internal/observability"
	"github.com/Conceptual-Machines/melody-api/internal/prompt"
	"github.com/Conceptual-Machines/melody-api/internal/services"
	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

const (
	sentryFlushTimeout    = 2 * time.Second
	environmentProduction = "production"
)

// releaseVersion is set via ldflags during build
var releaseVersion = "dev"

// GetVersion returns the current release version
func GetVersion() string {
	return releaseVersion
}

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal("Invalid configuration: ", err)
	}
	ctx := context.Background()

	// Initialize Sentry
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			Environment:      cfg.Environment,
			Release:          "melody-api@" + releaseVersion,           // Use embedded release version
			EnableTracing:    true,                                     // Enable tracing for spans
			TracesSampleRate: 1.0,                                      // 100% sampling for now, adjust based on volume
			EnableLogs:       true,                                     // Enable Sentry Logs feature
			Debug:            cfg.Environment != environmentProduction, // Enable debug in non-prod
			BeforeSend: func(event *sentry.Event, _ *sentry.EventHint) *sentry.Event {
				// Filter out sensitive data
				if event.Request != nil {
					event.Request.Headers = filterSensitiveHeaders(event.Request.Headers)
				}
				return event
			},
		}); err != nil {
			log.Printf("Failed to initialize Sentry: %v", err)
		} else {
			log.Printf("✅ Sentry initialized (environment: %s, release: %s)", cfg.Environment, releaseVersion)
			// Flush on shutdown
			defer sentry.Flush(sentryFlushTimeout)
		}
	} else {
		log.Println("⚠️  Sentry not configured (SENTRY_DSN not set)")
	}

	// Initialize database
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		sentry.CaptureException(err)
		log.Fatal("Failed to connect to database:", err)
	}

	// Run migrations
	if err := database.Migrate(db); err != nil {
		sentry.CaptureException(err)
		log.Fatal("Failed to run migrations:", err)
	}

	// Metrics (CloudWatch only ships in production)
	cloudwatch, err := metrics.NewClient(ctx, cfg.Environment, cfg.AWSRegion)
	if err != nil {
		log.Printf("⚠️  CloudWatch metrics disabled: %v", err)
	}
	recorder := metrics.New(cloudwatch)

	// LLM tracing
	langfuse := observability.NewLangfuse(ctx, cfg)
	defer langfuse.Flush()

	store := services.NewChordStore(db)
	svc := api.Services{
		Tabs:     services.NewTabService(store, recorder),
		Sections: store,
		Metrics:  recorder,
	}
	if melody, err := newMelodyService(ctx, cfg, langfuse, recorder); err != nil {
		log.Printf("⚠️  Melody search disabled: %v", err)
	} else {
		svc.Melody = melody
	}

	// Set Gin mode
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize router
	router := api.SetupRouter(db, cfg, GetVersion(), svc)

	log.Printf("🚀 Starting server on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		sentry.CaptureException(err)
		log.Fatal("Failed to start server:", err)
	}
}

func newMelodyService(ctx context.Context, cfg *config.Config, langfuse *observability.LangfuseClient, recorder metrics.Recorder) (*services.MelodyService, error) {
	provider, err := llm.NewProviderFactory(cfg.OpenAIAPIKey, cfg.GeminiAPIKey).GetProvider(ctx, cfg.MelodyModel, "")
	if err != nil {
		return nil, err
	}
	prompts, err := prompt.NewPromptBuilder()
	if err != nil {
		return nil, err
	}
	log.Printf("🎵 Melody search using %s (%s)", cfg.MelodyModel, provider.Name())
	return services.NewMelodyService(provider, prompts, services.MelodyOptions{
		Model:         cfg.MelodyModel,
		ReasoningMode: cfg.MelodyEffort,
		Langfuse:      langfuse,
		Metrics:       recorder,
	})
}

func filterSensitiveHeaders(headers map[string]string) map[string]string {
	filtered := make(map[string]string)
	sensitiveKeys := map[string]bool{
		"authorization": true,
		"cookie":        true,
		"x-api-key":     true,
	}

	for k, v := range headers {
		if sensitiveKeys[k] {
			filtered[k] = "[REDACTED]"
		} else {
			filtered[k] = v
		}
	}
	return filtered
}
