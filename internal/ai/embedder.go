package ai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"

	app_errors "reelsearch/backend/internal/errors"
)

// openAIEmbedder implements Embedder using an OpenAI-compatible embeddings API.
type openAIEmbedder struct {
	embedder embeddings.Embedder
	logger   *slog.Logger
}

// NewOpenAIEmbedder creates an Embedder backed by the configured
// OpenAI-compatible endpoint. The credential is injected here once and never
// re-read from the environment.
func NewOpenAIEmbedder(baseURL, apiKey, embeddingModel string) (BatchEmbedder, error) {
	client, err := openai.New(
		openai.WithBaseURL(baseURL),
		openai.WithToken(apiKey),
		openai.WithEmbeddingModel(embeddingModel),
	)
	if err != nil {
		return nil, fmt.Errorf("could not create openai client: %w", err)
	}

	embedder, err := embeddings.NewEmbedder(client, embeddings.WithStripNewLines(true))
	if err != nil {
		return nil, fmt.Errorf("could not create embedder: %w", err)
	}

	return &openAIEmbedder{
		embedder: embedder,
		logger:   slog.Default().With("component", "embedder"),
	}, nil
}

func (e *openAIEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: empty query text", app_errors.ErrEmbedding)
	}

	vectors, err := e.embedder.EmbedDocuments(ctx, []string{text})
	if err != nil {
		e.logger.Error("Failed to generate query embedding", "stage", "embed", "query", truncate(text, 80), "error", err)
		return nil, fmt.Errorf("%w: %v", app_errors.ErrEmbedding, err)
	}
	if len(vectors) == 0 || len(vectors[0]) == 0 {
		return nil, fmt.Errorf("%w: embedding service returned no vector", app_errors.ErrEmbedding)
	}

	return vectors[0], nil
}

// EmbedBatch generates embeddings for many texts in one call. It is used by
// the ingest pipeline, not the request path, so it lives on the concrete type.
func (e *openAIEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("%w: no texts to embed", app_errors.ErrEmbedding)
	}

	vectors, err := e.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		e.logger.Error("Failed to generate batch embeddings", "stage", "embed", "count", len(texts), "error", err)
		return nil, fmt.Errorf("%w: %v", app_errors.ErrEmbedding, err)
	}

	return vectors, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
