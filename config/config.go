package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Supported generation providers
const (
	ProviderOpenAI    = "openai"
	ProviderGemini    = "gemini"
	ProviderAnthropic = "anthropic"
)

// Default models per provider
const (
	DefaultOpenAIModel    = "gpt-4o-mini"
	DefaultGeminiModel    = "gemini-2.0-flash"
	DefaultAnthropicModel = "claude-3-5-haiku-latest"
)

// DefaultAllowedOrigins are the frontends allowed to call the API cross-origin
var DefaultAllowedOrigins = []string{
	"http://localhost:8002",
	"http://localhost:8001",
	"https://hyoaru.github.io/recipe-suggester-ai",
	"https://recipe-ai.anonalyze.org",
}

// Config holds all configuration for the application
type Config struct {
	Environment Environment

	// Server configuration
	ServerHost string
	ServerPort string

	// Generation provider configuration
	LLMProvider      string
	LLMModel         string
	LLMTimeout       time.Duration
	OpenAIAPIKey     string
	OpenAIBaseURL    string
	GeminiAPIKey     string
	GeminiBaseURL    string
	AnthropicAPIKey  string
	AnthropicBaseURL string

	// Logging configuration
	LogFile          string
	LogRetentionDays int
	LogLevel         string

	// CORS configuration
	AllowedOrigins []string

	// TrustedProxies lists proxy IPs or CIDRs whose X-Forwarded-For is
	// honored. Empty means the client IP is always the peer address.
	TrustedProxies []string

	// Rate limiting. RedisURL is optional; without it limits are per process.
	RedisURL        string
	RateLimit       int
	RateLimitWindow time.Duration

	// Observability
	SentryDSN string
}

// LoadConfig creates a new Config instance with values from environment variables or secrets
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Environment:      GetEnvironment(),
		ServerHost:       getEnv("SERVER_HOST", "0.0.0.0"),
		ServerPort:       getEnv("SERVER_PORT", "8000"),
		LLMProvider:      strings.ToLower(getEnv("LLM_PROVIDER", ProviderOpenAI)),
		LLMModel:         os.Getenv("LLM_MODEL"),
		LLMTimeout:       60 * time.Second,
		OpenAIBaseURL:    os.Getenv("OPENAI_BASE_URL"),
		GeminiBaseURL:    os.Getenv("GEMINI_BASE_URL"),
		AnthropicBaseURL: os.Getenv("ANTHROPIC_BASE_URL"),
		LogFile:          getEnv("LOG_FILE", "app.log"),
		LogRetentionDays: 7,
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		AllowedOrigins:   splitList(getEnv("CORS_ALLOWED_ORIGINS", strings.Join(DefaultAllowedOrigins, ","))),
		TrustedProxies:   splitList(os.Getenv("TRUSTED_PROXIES")),
		RedisURL:         os.Getenv("REDIS_URL"),
		RateLimit:        30,
		RateLimitWindow:  time.Minute,
		SentryDSN:        os.Getenv("SENTRY_DSN"),
	}

	var err error
	if cfg.OpenAIAPIKey, err = loadAPIKey("OPENAI_API_KEY", "openai_api_key"); err != nil {
		return nil, err
	}
	if cfg.GeminiAPIKey, err = loadAPIKey("GEMINI_API_KEY", "gemini_api_key"); err != nil {
		return nil, err
	}
	if cfg.AnthropicAPIKey, err = loadAPIKey("ANTHROPIC_API_KEY", "anthropic_api_key"); err != nil {
		return nil, err
	}

	if v := os.Getenv("LLM_TIMEOUT"); v != "" {
		if cfg.LLMTimeout, err = time.ParseDuration(v); err != nil {
			return nil, fmt.Errorf("invalid LLM_TIMEOUT %q: %w", v, err)
		}
	}
	if v := os.Getenv("RATE_LIMIT_WINDOW"); v != "" {
		if cfg.RateLimitWindow, err = time.ParseDuration(v); err != nil {
			return nil, fmt.Errorf("invalid RATE_LIMIT_WINDOW %q: %w", v, err)
		}
	}
	if v := os.Getenv("RATE_LIMIT"); v != "" {
		if cfg.RateLimit, err = strconv.Atoi(v); err != nil {
			return nil, fmt.Errorf("invalid RATE_LIMIT %q: %w", v, err)
		}
	}
	if v := os.Getenv("LOG_RETENTION_DAYS"); v != "" {
		if cfg.LogRetentionDays, err = strconv.Atoi(v); err != nil {
			return nil, fmt.Errorf("invalid LOG_RETENTION_DAYS %q: %w", v, err)
		}
	}

	if cfg.LLMModel == "" {
		cfg.LLMModel = DefaultModel(cfg.LLMProvider)
	}

	// Validate the configuration
	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// DefaultModel returns the model used when LLM_MODEL is not set
func DefaultModel(provider string) string {
	switch provider {
	case ProviderGemini:
		return DefaultGeminiModel
	case ProviderAnthropic:
		return DefaultAnthropicModel
	default:
		return DefaultOpenAIModel
	}
}

// APIKey returns the credential for the configured provider
func (c *Config) APIKey() string {
	switch c.LLMProvider {
	case ProviderGemini:
		return c.GeminiAPIKey
	case ProviderAnthropic:
		return c.AnthropicAPIKey
	default:
		return c.OpenAIAPIKey
	}
}

// Addr returns the listen address for the HTTP server
func (c *Config) Addr() string {
	return c.ServerHost + ":" + c.ServerPort
}

// loadAPIKey reads a key from NAME, then the file named by NAME_FILE, then the docker secret
func loadAPIKey(envVar, secretName string) (string, error) {
	if key := os.Getenv(envVar); key != "" {
		return key, nil
	}

	if keyFile := os.Getenv(envVar + "_FILE"); keyFile != "" {
		data, err := os.ReadFile(keyFile)
		if err != nil {
			return "", fmt.Errorf("failed to read %s_FILE: %w", envVar, err)
		}
		return strings.TrimSpace(string(data)), nil
	}

	return readSecret(secretName), nil
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	secretPath := filepath.Join(secretsDir, name)
	if data, err := os.ReadFile(secretPath); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
