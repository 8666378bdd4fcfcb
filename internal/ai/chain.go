package ai

import (
	"context"
	"log/slog"

	"reelsearch/backend/internal/model"
)

// ExtractorChain composes a primary and a fallback extraction strategy.
// It never fails the caller: when the primary strategy errors the fallback
// runs, and the fallback itself is deterministic and error-free.
type ExtractorChain struct {
	primary  FilterExtractor
	fallback FilterExtractor
	logger   *slog.Logger
}

func NewExtractorChain(primary, fallback FilterExtractor) *ExtractorChain {
	return &ExtractorChain{
		primary:  primary,
		fallback: fallback,
		logger:   slog.Default().With("component", "extractor-chain"),
	}
}

// Extract runs the primary strategy and silently falls back on any failure.
// The failure is logged with stage context but never surfaced to the caller.
func (c *ExtractorChain) Extract(ctx context.Context, messages []model.ChatMessage) *model.ConversationFilters {
	if c.primary != nil {
		filters, err := c.primary.Extract(ctx, messages)
		if err == nil {
			return filters
		}
		c.logger.Warn("Primary filter extraction failed, using fallback",
			"stage", "extract", "messages", len(messages), "error", err)
	}

	filters, _ := c.fallback.Extract(ctx, messages)
	return filters
}
