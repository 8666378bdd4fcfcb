package ingest

import (
	"context"
	"fmt"
	"log/slog"

	"reelsearch/backend/internal/ai"
	"reelsearch/backend/internal/model"
	"reelsearch/backend/internal/repository"
)

// embedBatchSize keeps each embedding request comfortably under the API's
// token limits.
const embedBatchSize = 100

// VectorIndex is the write-side contract of the similarity index, satisfied
// by *vector.Index.
type VectorIndex interface {
	EnsureCollection(ctx context.Context, vectorSize uint64) error
	Upsert(ctx context.Context, movies []model.Movie, vectors [][]float32) error
}

// Indexer embeds the staged catalog and writes records plus vectors into the
// similarity index.
type Indexer struct {
	repo     repository.CatalogRepository
	embedder ai.BatchEmbedder
	index    VectorIndex
	logger   *slog.Logger
}

func NewIndexer(repo repository.CatalogRepository, embedder ai.BatchEmbedder, index VectorIndex) *Indexer {
	return &Indexer{
		repo:     repo,
		embedder: embedder,
		index:    index,
		logger:   slog.Default().With("component", "indexer"),
	}
}

// BuildIndex embeds every catalog record in batches and upserts them. The
// collection is created on first use, sized to the embedding dimension.
func (ix *Indexer) BuildIndex(ctx context.Context) (int, error) {
	movies, err := ix.repo.ListMovies(ctx)
	if err != nil {
		return 0, fmt.Errorf("could not load catalog: %w", err)
	}
	if len(movies) == 0 {
		return 0, fmt.Errorf("catalog is empty, run fetch first")
	}

	ix.logger.Info("Indexing catalog", "movies", len(movies))

	indexed := 0
	for start := 0; start < len(movies); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(movies) {
			end = len(movies)
		}
		batch := movies[start:end]

		texts := make([]string, len(batch))
		for i, m := range batch {
			texts[i] = embedText(m)
		}

		vectors, err := ix.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return indexed, fmt.Errorf("could not embed batch starting at %d: %w", start, err)
		}
		if len(vectors) != len(batch) {
			return indexed, fmt.Errorf("embedding count mismatch: got %d for %d texts", len(vectors), len(batch))
		}

		// The first batch reveals the vector dimension; the collection is
		// created before the first upsert.
		if start == 0 {
			if err := ix.index.EnsureCollection(ctx, uint64(len(vectors[0]))); err != nil {
				return 0, err
			}
		}

		if err := ix.index.Upsert(ctx, batch, vectors); err != nil {
			return indexed, err
		}
		indexed += len(batch)

		ix.logger.Debug("Indexed batch", "from", start, "to", end)
	}

	ix.logger.Info("Index build completed", "indexed", indexed)
	return indexed, nil
}

// embedText builds the text that represents a movie in vector space. The
// format mixes title, date, genres and plot so temporal and genre cues
// contribute to similarity alongside the overview.
func embedText(m model.Movie) string {
	return fmt.Sprintf("%s (%s) — Genres: %s. Plot: %s", m.Title, m.ReleaseDate, m.Genres, m.Overview)
}
