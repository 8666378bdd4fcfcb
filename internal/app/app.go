package app

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"reelsearch/backend/internal/ai"
	"reelsearch/backend/internal/api"
	"reelsearch/backend/internal/config"
	"reelsearch/backend/internal/service"
	"reelsearch/backend/internal/vector"
)

func Run() int {
	cfg, err := config.LoadConfig()
	if err != nil {
		// slog is not yet configured, so use the default logger here.
		slog.Error("Failed to load configuration", "error", err)
		return 1
	}

	SetupLogger(cfg.LogLevel)
	logConfigSource()

	embedder, err := ai.NewOpenAIEmbedder(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.EmbeddingModel)
	if err != nil {
		slog.Error("Failed to initialize embedder", "error", err)
		return 1
	}

	// The LLM extractor is optional: without it the deterministic fallback
	// carries every request, the way it would after any LLM failure.
	var primary ai.FilterExtractor
	if llmExtractor, llmErr := ai.NewLLMExtractor(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.ChatModel); llmErr != nil {
		slog.Warn("LLM extractor unavailable, using fallback extraction only", "error", llmErr)
	} else {
		primary = llmExtractor
	}
	extractor := ai.NewExtractorChain(primary, ai.NewFallbackExtractor())

	index, err := vector.NewIndex(cfg.QdrantHost, cfg.QdrantPort, cfg.QdrantCollection)
	if err != nil {
		slog.Error("Failed to connect to vector index", "error", err)
		return 1
	}
	defer func() {
		if err := index.Close(); err != nil {
			slog.Error("Failed to close vector index connection", "error", err)
		}
	}()
	slog.Info("Connected to vector index", "host", cfg.QdrantHost, "port", cfg.QdrantPort, "collection", cfg.QdrantCollection)

	searchService := service.NewSearchService(extractor, embedder, index)
	searchHandler := api.NewSearchHandler(searchService)
	router := api.NewRouter(searchHandler)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.AppPort),
		Handler:           router,
		ReadHeaderTimeout: 20 * time.Second,
		WriteTimeout:      90 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	slog.Info("Starting server", "port", cfg.AppPort)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server failed", "error", err)
		return 1
	}

	return 0
}

func logConfigSource() {
	configFileUsed := viper.ConfigFileUsed()
	if configFileUsed != "" {
		slog.Info("Successfully loaded configuration from file.", "file", configFileUsed)
	} else {
		slog.Info("Configuration file not found. Using environment variables and defaults.")
	}
}

// SetupLogger configures the process-wide structured logger. Shared with the
// indexer CLI.
func SetupLogger(logLevel string) {
	var level slog.Level
	switch strings.ToUpper(logLevel) {
	case "DEBUG":
		level = slog.LevelDebug
	case "WARN":
		level = slog.LevelWarn
	case "ERROR":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
}
