package service

import (
	"context"
	"fmt"
	"log/slog"

	"reelsearch/backend/internal/ai"
	app_errors "reelsearch/backend/internal/errors"
	"reelsearch/backend/internal/model"
)

// maxFetch bounds the number of candidates requested from the index per
// query, regardless of the over-fetch multiplier.
const maxFetch = 50

// overFetchMultiplier compensates for post-query filtering: when any
// structured constraint is active, filtering may discard candidates, so the
// index is asked for more than the caller wants.
const overFetchMultiplier = 3

// Extractor is the conversation-to-filters contract, satisfied by
// *ai.ExtractorChain. It never fails.
type Extractor interface {
	Extract(ctx context.Context, messages []model.ChatMessage) *model.ConversationFilters
}

// Index is the nearest-neighbour query contract, satisfied by *vector.Index.
type Index interface {
	Query(ctx context.Context, vector []float32, k int) ([]model.MovieResult, error)
}

// SearchService orchestrates the search pipelines. Each request is handled
// statelessly and strictly sequentially; the only shared state is the
// read-only clients injected here.
type SearchService struct {
	extractor Extractor
	embedder  ai.Embedder
	index     Index
	logger    *slog.Logger
}

func NewSearchService(extractor Extractor, embedder ai.Embedder, index Index) *SearchService {
	return &SearchService{
		extractor: extractor,
		embedder:  embedder,
		index:     index,
		logger:    slog.Default().With("component", "search-service"),
	}
}

// Search is the plain text-search path: embed the query and pass it straight
// to the index, no filtering.
func (s *SearchService) Search(ctx context.Context, queryText string, n int) ([]model.MovieResult, error) {
	vector, err := s.embedder.EmbedQuery(ctx, queryText)
	if err != nil {
		return nil, err
	}

	results, err := s.index.Query(ctx, vector, n)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Search completed", "query", truncate(queryText, 80), "results", len(results))
	return results, nil
}

// ChatSearch is the conversational path: extract filters from the chat
// history, embed the residual query, over-fetch from the index, post-filter
// and truncate to n.
func (s *SearchService) ChatSearch(ctx context.Context, messages []model.ChatMessage, n int) ([]model.MovieResult, error) {
	if len(messages) == 0 {
		return nil, fmt.Errorf("%w: no messages provided", app_errors.ErrValidation)
	}

	filters := s.extractor.Extract(ctx, messages)
	s.logger.Debug("Extracted filters",
		"main_query", truncate(filters.MainQuery, 80),
		"min_year", filters.MinYear, "max_year", filters.MaxYear,
		"include", filters.IncludeGenres, "exclude", filters.ExcludeGenres)

	vector, err := s.embedder.EmbedQuery(ctx, filters.MainQuery)
	if err != nil {
		return nil, err
	}

	fetch := n
	if filters.HasConstraints() {
		fetch = n * overFetchMultiplier
	}
	if fetch > maxFetch {
		fetch = maxFetch
	}

	candidates, err := s.index.Query(ctx, vector, fetch)
	if err != nil {
		return nil, err
	}

	results := ApplyFilters(candidates, filters)
	if len(results) > n {
		results = results[:n]
	}

	s.logger.Info("Chat search completed",
		"messages", len(messages), "fetched", len(candidates), "kept", len(results))
	return results, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
