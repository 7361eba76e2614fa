package config

import (
	"os"
	"strconv"
)

// Config holds all configuration for the application
type Config struct {
	// Google Cloud
	ProjectID string
	Location  string

	// Server
	Port  string
	Debug bool

	// Gemini Model
	GeminiModel string

	// Timeouts
	HTTPTimeoutSeconds     int
	ResearchTimeoutSeconds int

	// Events
	EventBufferSize int

	// Rate limiting
	RateLimitRPS   float64
	RateLimitBurst int

	// Cloud Storage
	ArtifactBucketName string
}

// Load loads configuration from environment variables
func Load() *Config {
	cfg := &Config{
		// Google Cloud
		ProjectID: getEnv("PROJECT_ID", ""),
		Location:  getEnv("LOCATION", ""),

		// Server
		Port:  getEnv("PORT", "8080"),
		Debug: getEnvBool("DEBUG", false),

		// Gemini Model
		GeminiModel: getEnv("GEMINI_MODEL", "gemini-2.5-flash"),

		// Timeouts
		HTTPTimeoutSeconds:     getEnvInt("HTTP_TIMEOUT_SECONDS", 20),
		ResearchTimeoutSeconds: getEnvInt("RESEARCH_TIMEOUT_SECONDS", 45),

		// Events
		EventBufferSize: getEnvInt("EVENT_BUFFER_SIZE", 32),

		// Rate limiting
		RateLimitRPS:   getEnvFloat("RATE_LIMIT_RPS", 10),
		RateLimitBurst: getEnvInt("RATE_LIMIT_BURST", 20),

		// Cloud Storage
		ArtifactBucketName: getEnv("ARTIFACT_BUCKET_NAME", ""),
	}

	return cfg
}

// Validate checks if required configuration is present. ProjectID is
// optional: without it the server runs on the in-memory store with
// research disabled.
func (c *Config) Validate() error {
	// Location is required alongside ProjectID for Vertex AI
	if c.ProjectID != "" && c.Location == "" {
		return &ConfigError{Field: "LOCATION", Message: "LOCATION is required when PROJECT_ID is set"}
	}

	if c.EventBufferSize < 1 {
		return &ConfigError{Field: "EVENT_BUFFER_SIZE", Message: "EVENT_BUFFER_SIZE must be at least 1"}
	}
	if c.ResearchTimeoutSeconds < 1 {
		return &ConfigError{Field: "RESEARCH_TIMEOUT_SECONDS", Message: "RESEARCH_TIMEOUT_SECONDS must be at least 1"}
	}
	if c.RateLimitRPS <= 0 {
		return &ConfigError{Field: "RATE_LIMIT_RPS", Message: "RATE_LIMIT_RPS must be positive"}
	}
	if c.RateLimitBurst < 1 {
		return &ConfigError{Field: "RATE_LIMIT_BURST", Message: "RATE_LIMIT_BURST must be at least 1"}
	}

	return nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Message
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}
