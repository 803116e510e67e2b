package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all configuration for the TikTok TTS client and server facade
type Config struct {
	// TikTok session API configuration
	SessionID  string `envconfig:"TIKTOK_SESSIONID"`   // Session credential, required for synthesis
	APIBaseURL string `envconfig:"TIKTOK_API_BASEURL"` // Upstream base URL, required for synthesis
	Speaker    string `envconfig:"TIKTOK_SPEAKER" default:"en_us_002"`

	// Request configuration
	RequestTimeout int `envconfig:"REQUEST_TIMEOUT" default:"30"`   // Per-request timeout in seconds
	ChunkByteLimit int `envconfig:"CHUNK_BYTE_LIMIT" default:"300"` // Max text bytes per upstream request

	// Resilience configuration. RETRY_MAX_ATTEMPTS=1 means a single attempt
	// (no retry); values above 1 retry transport failures per chunk.
	RetryMaxAttempts    int `envconfig:"RETRY_MAX_ATTEMPTS" default:"1"`
	RetryInitialBackoff int `envconfig:"RETRY_INITIAL_BACKOFF" default:"100"` // Initial backoff in milliseconds

	// Server configuration (tiktts-server only)
	Port           string `envconfig:"PORT" default:"8080"`
	MetricsEnabled bool   `envconfig:"METRICS_ENABLED" default:"true"`

	// Observability configuration
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`   // Log level: debug, info, warn, error
	LogPretty bool   `envconfig:"LOG_PRETTY" default:"false"` // Pretty print logs (for development)
}

// MissingError reports a required configuration value that was not set.
type MissingError struct {
	Key string
}

func (e *MissingError) Error() string {
	return fmt.Sprintf("%s environment variable is required", e.Key)
}

// Load reads configuration from environment variables.
// It first attempts to load from .env file if it exists, then from environment.
// Credentials are not checked here so that modes that never touch the network
// (like -url-only) can run without them; call Validate before issuing requests.
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return &cfg, nil
}

// LoadFromEnv loads configuration directly from environment variables
// without attempting to load .env file (useful for containerized deployments)
func LoadFromEnv() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the values required to reach the upstream service are
// present. It returns a *MissingError naming the first absent variable.
func (c *Config) Validate() error {
	if c.SessionID == "" {
		return &MissingError{Key: "TIKTOK_SESSIONID"}
	}
	if c.APIBaseURL == "" {
		return &MissingError{Key: "TIKTOK_API_BASEURL"}
	}
	return nil
}
