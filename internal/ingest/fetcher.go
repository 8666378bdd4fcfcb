package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"reelsearch/backend/internal/model"
	"reelsearch/backend/internal/repository"
	"reelsearch/backend/internal/tmdb"
)

// defaultPages covers roughly 1000 popular movies, enough for a useful index.
const defaultPages = 59

// pagePacing keeps the fetch under the TMDB rate limit of 40 requests / 10 s.
const pagePacing = 300 * time.Millisecond

// Fetcher pages through the TMDB discover endpoint and stages the catalog
// records in the local repository.
type Fetcher struct {
	tmdb   *tmdb.Client
	repo   repository.CatalogRepository
	pages  int
	pacing time.Duration
	logger *slog.Logger
}

func NewFetcher(client *tmdb.Client, repo repository.CatalogRepository) *Fetcher {
	return &Fetcher{
		tmdb:   client,
		repo:   repo,
		pages:  defaultPages,
		pacing: pagePacing,
		logger: slog.Default().With("component", "fetcher"),
	}
}

// NewFetcherWithPages overrides the page count and pacing. Used by tests and
// smaller ingest runs.
func NewFetcherWithPages(client *tmdb.Client, repo repository.CatalogRepository, pages int, pacing time.Duration) *Fetcher {
	f := NewFetcher(client, repo)
	f.pages = pages
	f.pacing = pacing
	return f
}

// Fetch downloads the genre mapping and the discover pages, de-duplicates by
// movie id and upserts everything into the catalog in one run. It returns
// the number of unique movies staged.
func (f *Fetcher) Fetch(ctx context.Context) (int, error) {
	runID := uuid.NewString()
	logger := f.logger.With("run_id", runID)

	genreMap, err := f.tmdb.GenreMap(ctx)
	if err != nil {
		return 0, err
	}
	logger.Info("Fetched genre mapping", "genres", len(genreMap))

	seen := make(map[int]bool)
	var movies []model.Movie

	for page := 1; page <= f.pages; page++ {
		results, err := f.tmdb.DiscoverMovies(ctx, page)
		if err != nil {
			return 0, err
		}

		for _, m := range results {
			if seen[m.ID] {
				continue
			}
			seen[m.ID] = true
			movies = append(movies, model.Movie{
				ID:          strconv.Itoa(m.ID),
				Title:       m.Title,
				ReleaseDate: m.ReleaseDate,
				Genres:      joinGenres(m.GenreIDs, genreMap),
				Overview:    m.Overview,
				PosterPath:  m.PosterPath,
			})
		}

		logger.Debug("Fetched discover page", "page", page, "unique_movies", len(movies))

		if page < f.pages {
			select {
			case <-time.After(f.pacing):
			case <-ctx.Done():
				return 0, ctx.Err()
			}
		}
	}

	if err := f.repo.UpsertMovies(ctx, movies, runID); err != nil {
		return 0, fmt.Errorf("could not stage catalog records: %w", err)
	}

	logger.Info("Catalog fetch completed", "movies", len(movies))
	return len(movies), nil
}

func joinGenres(ids []int, genreMap map[int]string) string {
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if name, ok := genreMap[id]; ok {
			names = append(names, name)
		} else {
			names = append(names, "Unknown")
		}
	}
	return strings.Join(names, ", ")
}
