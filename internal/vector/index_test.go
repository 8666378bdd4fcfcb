package vector

import (
	"testing"

	"github.com/qdrant/go-client/qdrant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	app_errors "reelsearch/backend/internal/errors"
)

func TestPointID(t *testing.T) {
	t.Run("numeric catalog ids map to numeric point ids", func(t *testing.T) {
		id := pointID("550")
		assert.Equal(t, uint64(550), id.GetNum())
	})

	t.Run("non-numeric ids get a deterministic UUID", func(t *testing.T) {
		first := pointID("tt0137523")
		second := pointID("tt0137523")

		require.NotEmpty(t, first.GetUuid())
		assert.Equal(t, first.GetUuid(), second.GetUuid())
	})

	t.Run("different ids get different UUIDs", func(t *testing.T) {
		assert.NotEqual(t, pointID("movie-a").GetUuid(), pointID("movie-b").GetUuid())
	})
}

func TestResultFromPoint(t *testing.T) {
	payload := qdrant.NewValueMap(map[string]interface{}{
		"id":           "550",
		"title":        "Fight Club",
		"release_date": "1999-10-15",
		"genres":       "Drama",
		"overview":     "An insomniac office worker...",
		"poster_path":  "/fight-club.jpg",
	})

	t.Run("converts similarity to distance and copies the payload", func(t *testing.T) {
		result := resultFromPoint(&qdrant.ScoredPoint{Score: 0.75, Payload: payload})

		assert.InDelta(t, 0.25, result.Distance, 1e-6)
		assert.Equal(t, "550", result.ID)
		assert.Equal(t, "Fight Club", result.Title)
		assert.Equal(t, "1999-10-15", result.ReleaseDate)
		assert.Equal(t, "Drama", result.Genres)
		assert.Equal(t, "/fight-club.jpg", result.PosterPath)
	})

	t.Run("clamps distance at zero for scores above one", func(t *testing.T) {
		result := resultFromPoint(&qdrant.ScoredPoint{Score: 1.0001, Payload: payload})
		assert.Equal(t, 0.0, result.Distance)
	})

	t.Run("tolerates missing payload fields", func(t *testing.T) {
		result := resultFromPoint(&qdrant.ScoredPoint{Score: 0.5})
		assert.Empty(t, result.ID)
		assert.Empty(t, result.Title)
	})
}

func TestClassifyIndexError(t *testing.T) {
	t.Run("NotFound maps to the missing-collection error", func(t *testing.T) {
		err := classifyIndexError(status.Error(codes.NotFound, "collection 'movies' not found"))
		assert.ErrorIs(t, err, app_errors.ErrCollectionNotFound)
	})

	t.Run("anything else maps to index-unavailable", func(t *testing.T) {
		err := classifyIndexError(status.Error(codes.Unavailable, "connection refused"))
		assert.ErrorIs(t, err, app_errors.ErrIndexUnavailable)
	})
}
