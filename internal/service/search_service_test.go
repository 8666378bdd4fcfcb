package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	app_errors "reelsearch/backend/internal/errors"
	"reelsearch/backend/internal/model"
	"reelsearch/backend/internal/service"
)

type fakeExtractor struct {
	filters *model.ConversationFilters
	calls   int
}

func (f *fakeExtractor) Extract(_ context.Context, _ []model.ChatMessage) *model.ConversationFilters {
	f.calls++
	return f.filters
}

type fakeEmbedder struct {
	vector   []float32
	err      error
	calls    int
	lastText string
}

func (f *fakeEmbedder) EmbedQuery(_ context.Context, text string) ([]float32, error) {
	f.calls++
	f.lastText = text
	if f.err != nil {
		return nil, f.err
	}
	return f.vector, nil
}

type fakeIndex struct {
	results []model.MovieResult
	err     error
	calls   int
	lastK   int
}

func (f *fakeIndex) Query(_ context.Context, _ []float32, k int) ([]model.MovieResult, error) {
	f.calls++
	f.lastK = k
	if f.err != nil {
		return nil, f.err
	}
	return f.results, nil
}

func nCandidates(n int) []model.MovieResult {
	results := make([]model.MovieResult, 0, n)
	for i := 0; i < n; i++ {
		results = append(results, candidate(fmt.Sprintf("%d", i+1), "2010-01-01", "Action", float64(i)*0.01))
	}
	return results
}

func setupSearchService(filters *model.ConversationFilters, results []model.MovieResult) (*service.SearchService, *fakeExtractor, *fakeEmbedder, *fakeIndex) {
	extractor := &fakeExtractor{filters: filters}
	embedder := &fakeEmbedder{vector: []float32{0.1, 0.2, 0.3}}
	index := &fakeIndex{results: results}
	return service.NewSearchService(extractor, embedder, index), extractor, embedder, index
}

func TestSearchService_Search(t *testing.T) {
	ctx := context.Background()

	t.Run("embeds the query and fetches exactly n", func(t *testing.T) {
		svc, _, embedder, index := setupSearchService(nil, nCandidates(3))

		results, err := svc.Search(ctx, "space movie", 3)
		require.NoError(t, err)

		assert.Equal(t, "space movie", embedder.lastText)
		assert.Equal(t, 3, index.lastK)
		assert.Len(t, results, 3)
	})

	t.Run("propagates embedding failures", func(t *testing.T) {
		svc, _, embedder, index := setupSearchService(nil, nil)
		embedder.err = fmt.Errorf("%w: boom", app_errors.ErrEmbedding)

		_, err := svc.Search(ctx, "space movie", 3)
		assert.ErrorIs(t, err, app_errors.ErrEmbedding)
		assert.Zero(t, index.calls)
	})

	t.Run("propagates index failures", func(t *testing.T) {
		svc, _, _, index := setupSearchService(nil, nil)
		index.err = fmt.Errorf("%w: down", app_errors.ErrIndexUnavailable)

		_, err := svc.Search(ctx, "space movie", 3)
		assert.ErrorIs(t, err, app_errors.ErrIndexUnavailable)
	})
}

func TestSearchService_ChatSearch(t *testing.T) {
	ctx := context.Background()
	messages := []model.ChatMessage{{Role: model.RoleUser, Content: "something fun"}}

	t.Run("rejects an empty conversation before any downstream call", func(t *testing.T) {
		svc, extractor, embedder, index := setupSearchService(&model.ConversationFilters{MainQuery: "x"}, nil)

		_, err := svc.ChatSearch(ctx, nil, 5)
		assert.ErrorIs(t, err, app_errors.ErrValidation)
		assert.Zero(t, extractor.calls)
		assert.Zero(t, embedder.calls)
		assert.Zero(t, index.calls)
	})

	t.Run("fetches exactly n when no constraints are active", func(t *testing.T) {
		filters := &model.ConversationFilters{MainQuery: "something fun"}
		svc, _, embedder, index := setupSearchService(filters, nCandidates(5))

		results, err := svc.ChatSearch(ctx, messages, 5)
		require.NoError(t, err)

		assert.Equal(t, "something fun", embedder.lastText)
		assert.Equal(t, 5, index.lastK)
		assert.Len(t, results, 5)
	})

	t.Run("over-fetches when constraints are active", func(t *testing.T) {
		filters := &model.ConversationFilters{MainQuery: "x", MinYear: intPtr(2000)}
		svc, _, _, index := setupSearchService(filters, nCandidates(15))

		_, err := svc.ChatSearch(ctx, messages, 5)
		require.NoError(t, err)
		assert.Equal(t, 15, index.lastK)
	})

	t.Run("over-fetch is capped at the fetch limit", func(t *testing.T) {
		filters := &model.ConversationFilters{MainQuery: "x", IncludeGenres: []string{"action"}}
		svc, _, _, index := setupSearchService(filters, nCandidates(50))

		_, err := svc.ChatSearch(ctx, messages, 20)
		require.NoError(t, err)
		assert.Equal(t, 50, index.lastK)
	})

	t.Run("truncates the filtered list to n, keeping the nearest", func(t *testing.T) {
		filters := &model.ConversationFilters{MainQuery: "x", MinYear: intPtr(2000)}
		svc, _, _, index := setupSearchService(filters, nCandidates(15))

		results, err := svc.ChatSearch(ctx, messages, 5)
		require.NoError(t, err)

		require.Len(t, results, 5)
		assert.Equal(t, []string{"1", "2", "3", "4", "5"}, resultIDs(results))
		assert.Equal(t, 15, index.lastK)
	})

	t.Run("applies the extracted filters to candidates", func(t *testing.T) {
		filters := &model.ConversationFilters{MainQuery: "x", ExcludeGenres: []string{"action"}}
		candidates := nCandidates(3)
		candidates[1].Genres = "Drama"
		svc, _, _, _ := setupSearchService(filters, candidates)

		results, err := svc.ChatSearch(ctx, messages, 5)
		require.NoError(t, err)
		assert.Equal(t, []string{"2"}, resultIDs(results))
	})

	t.Run("propagates embedding failures", func(t *testing.T) {
		filters := &model.ConversationFilters{MainQuery: "x"}
		svc, _, embedder, index := setupSearchService(filters, nil)
		embedder.err = errors.New("embedding service down")

		_, err := svc.ChatSearch(ctx, messages, 5)
		assert.Error(t, err)
		assert.Zero(t, index.calls)
	})

	t.Run("propagates index failures", func(t *testing.T) {
		filters := &model.ConversationFilters{MainQuery: "x"}
		svc, _, _, index := setupSearchService(filters, nil)
		index.err = fmt.Errorf("%w: no such collection", app_errors.ErrCollectionNotFound)

		_, err := svc.ChatSearch(ctx, messages, 5)
		assert.ErrorIs(t, err, app_errors.ErrCollectionNotFound)
	})
}
