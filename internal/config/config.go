package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

const (
	defaultIngestConcurrency = 4
	maxIngestConcurrency     = 32
)

// Config holds the application configuration.
// Auth and user management live in the gateway; this service only trusts
// the headers it forwards.
type Config struct {
	// Environment
	Environment string
	Port        string

	// Storage
	DatabaseURL string // Postgres DSN for songs and chord sections

	// LLM
	OpenAIAPIKey string
	GeminiAPIKey string
	MelodyModel  string // model used for melody search, e.g. gpt-5-mini or gemini-2.5-flash
	MelodyEffort string // reasoning effort for OpenAI reasoning models
	AWSRegion    string // CloudWatch region, production only

	// Observability
	SentryDSN         string
	LangfusePublicKey string
	LangfuseSecretKey string
	LangfuseHost      string
	LangfuseEnabled   bool

	// Auth mode
	// - "none": No auth (self-hosted, local dev)
	// - "gateway": Trust X-User-* headers from the gateway
	AuthMode string

	// Tab ingestion
	IngestConcurrency int
}

func Load() *Config {
	return &Config{
		Environment:       getEnv("ENVIRONMENT", "development"),
		Port:              getEnv("PORT", "8080"),
		DatabaseURL:       getEnv("DATABASE_URL", ""),
		OpenAIAPIKey:      getEnv("OPENAI_API_KEY", ""),
		GeminiAPIKey:      getEnv("GEMINI_API_KEY", ""),
		MelodyModel:       getEnv("MELODY_MODEL", "gpt-5-mini"),
		MelodyEffort:      getEnv("MELODY_REASONING_EFFORT", "low"),
		AWSRegion:         getEnv("AWS_REGION", "us-east-1"),
		SentryDSN:         getEnv("SENTRY_DSN", ""),
		LangfusePublicKey: getEnv("LANGFUSE_PUBLIC_KEY", ""),
		LangfuseSecretKey: getEnv("LANGFUSE_SECRET_KEY", ""),
		LangfuseHost:      getEnv("LANGFUSE_HOST", "https://cloud.langfuse.com"),
		LangfuseEnabled:   getEnv("LANGFUSE_ENABLED", "false") == "true",
		AuthMode:          getEnv("AUTH_MODE", "none"),
		IngestConcurrency: getEnvInt("INGEST_CONCURRENCY", defaultIngestConcurrency),
	}
}

// Validate reports settings that would make the server fail later.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	switch c.AuthMode {
	case "none", "gateway":
	default:
		return fmt.Errorf("unknown AUTH_MODE %q", c.AuthMode)
	}
	if c.IngestConcurrency < 1 || c.IngestConcurrency > maxIngestConcurrency {
		return fmt.Errorf("INGEST_CONCURRENCY must be between 1 and %d, got %d", maxIngestConcurrency, c.IngestConcurrency)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

// IsGatewayMode returns true if running behind the gateway
func (c *Config) IsGatewayMode() bool {
	return c.AuthMode == "gateway"
}

// IsProduction reports whether the service runs in production.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
