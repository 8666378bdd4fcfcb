package repository_test

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reelsearch/backend/internal/model"
	"reelsearch/backend/internal/repository"
)

func sampleMovies() []model.Movie {
	return []model.Movie{
		{
			ID:          "550",
			Title:       "Fight Club",
			ReleaseDate: "1999-10-15",
			Genres:      "Drama",
			Overview:    "An insomniac office worker...",
			PosterPath:  "/fight-club.jpg",
		},
		{
			ID:          "603",
			Title:       "The Matrix",
			ReleaseDate: "1999-03-31",
			Genres:      "Action, Science Fiction",
			Overview:    "A computer hacker learns...",
			PosterPath:  "/matrix.jpg",
		},
	}
}

func TestSQLiteRepository_UpsertMovies(t *testing.T) {
	ctx := context.Background()
	movies := sampleMovies()

	t.Run("Success - all records in one transaction", func(t *testing.T) {
		db, mockDB, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mockDB.ExpectBegin()
		prep := mockDB.ExpectPrepare("INSERT INTO movies")
		for _, m := range movies {
			prep.ExpectExec().
				WithArgs(m.ID, m.Title, m.ReleaseDate, m.Genres, m.Overview, m.PosterPath, "run-1", sqlmock.AnyArg()).
				WillReturnResult(sqlmock.NewResult(1, 1))
		}
		mockDB.ExpectCommit()

		repo := repository.NewSQLiteRepository(db)
		err = repo.UpsertMovies(ctx, movies, "run-1")
		assert.NoError(t, err)
		assert.NoError(t, mockDB.ExpectationsWereMet())
	})

	t.Run("Failure - exec error rolls the transaction back", func(t *testing.T) {
		db, mockDB, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mockDB.ExpectBegin()
		prep := mockDB.ExpectPrepare("INSERT INTO movies")
		prep.ExpectExec().
			WithArgs(movies[0].ID, movies[0].Title, movies[0].ReleaseDate, movies[0].Genres, movies[0].Overview, movies[0].PosterPath, "run-1", sqlmock.AnyArg()).
			WillReturnError(errors.New("disk full"))
		mockDB.ExpectRollback()

		repo := repository.NewSQLiteRepository(db)
		err = repo.UpsertMovies(ctx, movies, "run-1")
		assert.Error(t, err)
		assert.ErrorContains(t, err, movies[0].ID)
		assert.NoError(t, mockDB.ExpectationsWereMet())
	})

	t.Run("Failure - begin error", func(t *testing.T) {
		db, mockDB, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mockDB.ExpectBegin().WillReturnError(errors.New("database locked"))

		repo := repository.NewSQLiteRepository(db)
		err = repo.UpsertMovies(ctx, movies, "run-1")
		assert.Error(t, err)
	})
}

func TestSQLiteRepository_ListMovies(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		db, mockDB, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		rows := sqlmock.NewRows([]string{"id", "title", "release_date", "genres", "overview", "poster_path"})
		for _, m := range sampleMovies() {
			rows.AddRow(m.ID, m.Title, m.ReleaseDate, m.Genres, m.Overview, m.PosterPath)
		}
		mockDB.ExpectQuery("SELECT id, title, release_date, genres, overview, poster_path FROM movies ORDER BY id").
			WillReturnRows(rows)

		repo := repository.NewSQLiteRepository(db)
		movies, err := repo.ListMovies(ctx)
		require.NoError(t, err)

		require.Len(t, movies, 2)
		assert.Equal(t, "Fight Club", movies[0].Title)
		assert.Equal(t, "Action, Science Fiction", movies[1].Genres)
	})

	t.Run("Empty catalog yields an empty slice", func(t *testing.T) {
		db, mockDB, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		rows := sqlmock.NewRows([]string{"id", "title", "release_date", "genres", "overview", "poster_path"})
		mockDB.ExpectQuery("SELECT id, title").WillReturnRows(rows)

		repo := repository.NewSQLiteRepository(db)
		movies, err := repo.ListMovies(ctx)
		require.NoError(t, err)
		assert.Empty(t, movies)
	})

	t.Run("Failure - query error", func(t *testing.T) {
		db, mockDB, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mockDB.ExpectQuery("SELECT id, title").WillReturnError(errors.New("no such table"))

		repo := repository.NewSQLiteRepository(db)
		_, err = repo.ListMovies(ctx)
		assert.Error(t, err)
	})
}

func TestSQLiteRepository_CountMovies(t *testing.T) {
	ctx := context.Background()

	db, mockDB, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mockDB.ExpectQuery(`SELECT COUNT\(\*\) FROM movies`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(42))

	repo := repository.NewSQLiteRepository(db)
	count, err := repo.CountMovies(ctx)
	require.NoError(t, err)
	assert.Equal(t, 42, count)
}
