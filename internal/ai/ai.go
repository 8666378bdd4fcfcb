package ai

import (
	"context"

	"reelsearch/backend/internal/model"
)

// Embedder converts a short text into a fixed-length vector via an external
// embedding service. Implementations must be safe for concurrent use.
type Embedder interface {
	// EmbedQuery returns the embedding for text. It fails when text is empty
	// or the embedding service errors; the error wraps errors.ErrEmbedding.
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// BatchEmbedder embeds many texts in one call. Used by the ingest pipeline.
type BatchEmbedder interface {
	Embedder
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// FilterExtractor turns a conversation into structured search filters.
// Strategies are composed by ExtractorChain: a network-dependent primary
// (LLM with a constrained JSON schema) and a pure, deterministic fallback.
type FilterExtractor interface {
	Extract(ctx context.Context, messages []model.ChatMessage) (*model.ConversationFilters, error)
}
