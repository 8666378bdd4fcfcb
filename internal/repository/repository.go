package repository

import (
	"context"

	"reelsearch/backend/internal/model"
)

// CatalogRepository is the staging store for ingested movie records, written
// by the fetch step and read by the index step.
type CatalogRepository interface {
	// UpsertMovies inserts or replaces records, tagging them with the ingest
	// run that produced them.
	UpsertMovies(ctx context.Context, movies []model.Movie, runID string) error

	// ListMovies returns every catalog record, ordered by id.
	ListMovies(ctx context.Context) ([]model.Movie, error)

	// CountMovies returns the number of catalog records.
	CountMovies(ctx context.Context) (int, error)
}
