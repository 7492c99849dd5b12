package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Supported LLM providers.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// Config holds all configuration for the assistant service.
type Config struct {
	// Server settings
	Port string

	// Provider selection
	Provider string

	// Gemini settings
	GeminiAPIKey string
	GeminiModel  string

	// OpenAI settings
	OpenAIAPIKey string
	OpenAIModel  string

	// LLM request settings
	Timeout    time.Duration
	MaxRetries int
	RetryDelay time.Duration

	// Conversation settings
	HistoryLimit int

	// Logging
	LogLevel  string
	LogFormat string
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Port:         getEnv("PORT", "8080"),
		Provider:     getEnv("LLM_PROVIDER", ProviderGemini),
		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		OpenAIAPIKey: os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:  getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		Timeout:      getEnvDuration("LLM_TIMEOUT", 60*time.Second),
		MaxRetries:   getEnvInt("LLM_MAX_RETRIES", 2),
		RetryDelay:   getEnvDuration("LLM_RETRY_DELAY", time.Second),
		HistoryLimit: getEnvInt("HISTORY_LIMIT", 10),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		LogFormat:    getEnv("LOG_FORMAT", "text"),
	}

	return cfg, cfg.Validate()
}

// Validate checks configuration values for consistency.
func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderGemini, ProviderOpenAI:
	default:
		return fmt.Errorf("LLM_PROVIDER must be %q or %q, got %q", ProviderGemini, ProviderOpenAI, c.Provider)
	}
	if c.HistoryLimit <= 0 {
		return fmt.Errorf("HISTORY_LIMIT must be positive, got %d", c.HistoryLimit)
	}
	if c.MaxRetries < 0 || c.MaxRetries > 10 {
		return fmt.Errorf("LLM_MAX_RETRIES must be 0-10, got %d", c.MaxRetries)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("LLM_TIMEOUT must be positive, got %v", c.Timeout)
	}
	return nil
}

// APIKey returns the key for the selected provider.
func (c *Config) APIKey() string {
	if c.Provider == ProviderOpenAI {
		return c.OpenAIAPIKey
	}
	return c.GeminiAPIKey
}

// Helper functions
func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
