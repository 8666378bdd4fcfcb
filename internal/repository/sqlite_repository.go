package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"reelsearch/backend/internal/model"
)

type sqliteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) CatalogRepository {
	return &sqliteRepository{db: db}
}

// UpsertMovies writes all records in one transaction so a failed ingest run
// never leaves the catalog half-updated.
func (r *sqliteRepository) UpsertMovies(ctx context.Context, movies []model.Movie, runID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO movies (id, title, release_date, genres, overview, poster_path, ingest_run, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			release_date = excluded.release_date,
			genres = excluded.genres,
			overview = excluded.overview,
			poster_path = excluded.poster_path,
			ingest_run = excluded.ingest_run,
			updated_at = excluded.updated_at`)
	if err != nil {
		return fmt.Errorf("could not prepare upsert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for _, m := range movies {
		if _, err := stmt.ExecContext(ctx, m.ID, m.Title, m.ReleaseDate, m.Genres, m.Overview, m.PosterPath, runID, now); err != nil {
			return fmt.Errorf("could not upsert movie %s: %w", m.ID, err)
		}
	}

	return tx.Commit()
}

func (r *sqliteRepository) ListMovies(ctx context.Context) ([]model.Movie, error) {
	query := "SELECT id, title, release_date, genres, overview, poster_path FROM movies ORDER BY id"
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var movies []model.Movie
	for rows.Next() {
		var m model.Movie
		if err := rows.Scan(&m.ID, &m.Title, &m.ReleaseDate, &m.Genres, &m.Overview, &m.PosterPath); err != nil {
			return nil, err
		}
		movies = append(movies, m)
	}
	return movies, rows.Err()
}

func (r *sqliteRepository) CountMovies(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM movies").Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}
