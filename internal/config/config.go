package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Inference providers
const (
	ProviderHosted = "hosted"
	ProviderGemini = "gemini"
)

// DefaultInferenceBaseURL is the hosted inference API the relay talks to by default.
const DefaultInferenceBaseURL = "https://api-inference.huggingface.co"

// Config holds all configuration for the relay service. It is resolved once at
// startup and never mutated afterwards.
type Config struct {
	// Server
	Port        string `yaml:"port"`
	Environment string `yaml:"environment"`

	// Inference
	Provider         string        `yaml:"provider"`
	APIKey           string        `yaml:"api_key"`
	GeminiAPIKey     string        `yaml:"gemini_api_key"`
	ModelName        string        `yaml:"model_name"`
	InferenceBaseURL string        `yaml:"inference_base_url"`
	UpstreamTimeout  time.Duration `yaml:"upstream_timeout"`

	// Exchange journal sinks, empty disables the sink
	DatabaseURL string `yaml:"database_url"`
	RedisURL    string `yaml:"redis_url"`
	NATSURL     string `yaml:"nats_url"`

	// Telemetry
	OTLPEndpoint string `yaml:"otlp_endpoint"`
}

// Load reads configuration from an optional .env file, an optional YAML file
// named by RELAY_CONFIG and finally environment variables, in increasing order
// of precedence.
func Load() (*Config, error) {
	// .env is optional and never overrides variables already set
	_ = godotenv.Load()

	cfg := defaults()
	if path := os.Getenv("RELAY_CONFIG"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Port:             "5000",
		Environment:      "development",
		Provider:         ProviderHosted,
		InferenceBaseURL: DefaultInferenceBaseURL,
		UpstreamTimeout:  60 * time.Second,
	}
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	c.Port = getEnv("PORT", c.Port)
	c.Environment = getEnv("GO_ENV", c.Environment)

	c.Provider = strings.ToLower(getEnv("INFERENCE_PROVIDER", c.Provider))
	c.APIKey = getEnv("HUGGINGFACE_API_KEY", c.APIKey)
	c.GeminiAPIKey = getEnv("GEMINI_API_KEY", c.GeminiAPIKey)
	c.ModelName = getEnv("MODEL_NAME", c.ModelName)
	c.InferenceBaseURL = getEnv("INFERENCE_BASE_URL", c.InferenceBaseURL)

	if raw := os.Getenv("UPSTREAM_TIMEOUT"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("invalid UPSTREAM_TIMEOUT %q: %w", raw, err)
		}
		c.UpstreamTimeout = d
	}

	c.DatabaseURL = getEnv("DATABASE_URL", c.DatabaseURL)
	c.RedisURL = getEnv("REDIS_URL", c.RedisURL)
	c.NATSURL = getEnv("NATS_URL", c.NATSURL)
	c.OTLPEndpoint = getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", c.OTLPEndpoint)
	return nil
}

// Validate reports configuration the relay cannot start without.
func (c *Config) Validate() error {
	var missing []string
	if c.ModelName == "" {
		missing = append(missing, "MODEL_NAME")
	}

	switch c.Provider {
	case ProviderHosted:
		if c.APIKey == "" {
			missing = append(missing, "HUGGINGFACE_API_KEY")
		}
		if c.InferenceBaseURL == "" {
			missing = append(missing, "INFERENCE_BASE_URL")
		}
	case ProviderGemini:
		if c.GeminiAPIKey == "" {
			missing = append(missing, "GEMINI_API_KEY")
		}
	default:
		return fmt.Errorf("unknown inference provider %q", c.Provider)
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	if c.UpstreamTimeout <= 0 {
		return fmt.Errorf("upstream timeout must be positive, got %s", c.UpstreamTimeout)
	}
	return nil
}

// IsProduction reports whether the relay runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
