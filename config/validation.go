package config

import (
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects every problem found in a configuration
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, len(e))
	for i, v := range e {
		msgs[i] = v.Error()
	}
	return strings.Join(msgs, "\n")
}

// providerKeyVars names the variable that must be set for each provider
var providerKeyVars = map[string]string{
	ProviderOpenAI:    "OPENAI_API_KEY",
	ProviderGemini:    "GEMINI_API_KEY",
	ProviderAnthropic: "ANTHROPIC_API_KEY",
}

// ValidateConfig checks if the configuration can be used to start the server
func ValidateConfig(cfg *Config) error {
	var errs ValidationErrors

	if port, err := strconv.Atoi(cfg.ServerPort); err != nil || port <= 0 || port > 65535 {
		errs = append(errs, ValidationError{Field: "SERVER_PORT", Message: fmt.Sprintf("invalid port %q", cfg.ServerPort)})
	}

	keyVar, known := providerKeyVars[cfg.LLMProvider]
	if !known {
		errs = append(errs, ValidationError{
			Field:   "LLM_PROVIDER",
			Message: fmt.Sprintf("unknown provider %q (allowed: openai, gemini, anthropic)", cfg.LLMProvider),
		})
	} else if cfg.APIKey() == "" {
		errs = append(errs, ValidationError{Field: keyVar, Message: "is required for provider " + cfg.LLMProvider})
	}

	if cfg.LLMTimeout <= 0 {
		errs = append(errs, ValidationError{Field: "LLM_TIMEOUT", Message: "must be positive"})
	}
	if cfg.LogFile == "" {
		errs = append(errs, ValidationError{Field: "LOG_FILE", Message: "must not be empty"})
	}
	if cfg.LogRetentionDays < 1 {
		errs = append(errs, ValidationError{Field: "LOG_RETENTION_DAYS", Message: "must be at least 1"})
	}
	if _, err := zerolog.ParseLevel(cfg.LogLevel); err != nil {
		errs = append(errs, ValidationError{Field: "LOG_LEVEL", Message: err.Error()})
	}
	if len(cfg.AllowedOrigins) == 0 {
		errs = append(errs, ValidationError{Field: "CORS_ALLOWED_ORIGINS", Message: "must list at least one origin"})
	}
	for _, proxy := range cfg.TrustedProxies {
		if net.ParseIP(proxy) != nil {
			continue
		}
		if _, _, err := net.ParseCIDR(proxy); err != nil {
			errs = append(errs, ValidationError{Field: "TRUSTED_PROXIES", Message: fmt.Sprintf("%q is not an IP or CIDR", proxy)})
		}
	}
	if cfg.RateLimit < 0 {
		errs = append(errs, ValidationError{Field: "RATE_LIMIT", Message: "must not be negative"})
	}
	if cfg.RateLimit > 0 && cfg.RateLimitWindow <= 0 {
		errs = append(errs, ValidationError{Field: "RATE_LIMIT_WINDOW", Message: "must be positive when rate limiting is enabled"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
