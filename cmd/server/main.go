package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"hospital-assistant/internal/config"
	"hospital-assistant/internal/core"
	httpserver "hospital-assistant/internal/http"
	"hospital-assistant/internal/llm"
	"hospital-assistant/internal/logger"
)

func main() {
	// Load .env if present (for API keys); absent is fine in production.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	client, err := newLLMClient(context.Background(), cfg, log)
	if err != nil {
		log.Error("failed to initialize LLM client", "provider", cfg.Provider, "error", err)
		os.Exit(1)
	}

	router := core.NewRouter(client, log)
	generator := core.NewGenerator(client, cfg.HistoryLimit, log)
	orchestrator := core.NewOrchestrator(router, generator, log)

	srv, err := httpserver.NewServer(orchestrator, log)
	if err != nil {
		log.Error("failed to construct server", "error", err)
		os.Exit(1)
	}

	addr := ":" + cfg.Port
	log.Info("listening", "addr", addr, "provider", cfg.Provider)
	if err := http.ListenAndServe(addr, srv); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}

// newLLMClient builds the capability client for the configured provider.
func newLLMClient(ctx context.Context, cfg *config.Config, log *slog.Logger) (llm.Client, error) {
	switch cfg.Provider {
	case config.ProviderOpenAI:
		return llm.NewOpenAIClient(llm.OpenAIConfig{
			APIKey:     cfg.OpenAIAPIKey,
			Model:      cfg.OpenAIModel,
			Timeout:    cfg.Timeout,
			MaxRetries: cfg.MaxRetries,
			RetryDelay: cfg.RetryDelay,
		}, log)
	default:
		return llm.NewGeminiClient(ctx, llm.GeminiConfig{
			APIKey:     cfg.GeminiAPIKey,
			Model:      cfg.GeminiModel,
			Timeout:    cfg.Timeout,
			MaxRetries: cfg.MaxRetries,
			RetryDelay: cfg.RetryDelay,
		}, log)
	}
}
