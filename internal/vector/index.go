package vector

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	app_errors "reelsearch/backend/internal/errors"
	"reelsearch/backend/internal/model"
)

// upsertBatchSize bounds the number of points sent per Upsert call.
const upsertBatchSize = 100

// Index wraps the Qdrant client for one named collection of movie vectors.
// It is safe for concurrent reads; all writes happen from the indexer CLI.
type Index struct {
	client     *qdrant.Client
	collection string
	logger     *slog.Logger
}

// NewIndex connects to Qdrant over gRPC. The connection is process-wide and
// shared by all requests.
func NewIndex(host string, port int, collection string) (*Index, error) {
	client, err := qdrant.NewClient(&qdrant.Config{
		Host: host,
		Port: port,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", app_errors.ErrIndexUnavailable, err)
	}

	return &Index{
		client:     client,
		collection: collection,
		logger:     slog.Default().With("component", "vector-index"),
	}, nil
}

func (idx *Index) Close() error {
	return idx.client.Close()
}

// Query returns the k nearest candidates, ascending by cosine distance.
// Qdrant reports cosine similarity; it is converted to the distance the API
// exposes (0 = identical) so lower always means more similar.
func (idx *Index) Query(ctx context.Context, vector []float32, k int) ([]model.MovieResult, error) {
	limit := uint64(k)
	hits, err := idx.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: idx.collection,
		Query:          qdrant.NewQuery(vector...),
		Limit:          &limit,
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		idx.logger.Error("Vector query failed", "stage", "index-query", "k", k, "error", err)
		return nil, classifyIndexError(err)
	}

	results := make([]model.MovieResult, 0, len(hits))
	for _, hit := range hits {
		results = append(results, resultFromPoint(hit))
	}
	return results, nil
}

// EnsureCollection creates the collection with cosine distance if it does not
// exist yet. Vector size must match the embedding model's output dimension.
func (idx *Index) EnsureCollection(ctx context.Context, vectorSize uint64) error {
	existing, err := idx.client.ListCollections(ctx)
	if err != nil {
		return classifyIndexError(err)
	}
	for _, name := range existing {
		if name == idx.collection {
			return nil
		}
	}

	err = idx.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: idx.collection,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     vectorSize,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return classifyIndexError(err)
	}

	idx.logger.Info("Created collection", "collection", idx.collection, "vector_size", vectorSize)
	return nil
}

// Upsert writes movie records with their vectors, keyed by movie id, in
// batches. movies and vectors must be parallel slices.
func (idx *Index) Upsert(ctx context.Context, movies []model.Movie, vectors [][]float32) error {
	if len(movies) != len(vectors) {
		return fmt.Errorf("movie/vector count mismatch: %d vs %d", len(movies), len(vectors))
	}

	for start := 0; start < len(movies); start += upsertBatchSize {
		end := start + upsertBatchSize
		if end > len(movies) {
			end = len(movies)
		}

		points := make([]*qdrant.PointStruct, 0, end-start)
		for i := start; i < end; i++ {
			points = append(points, &qdrant.PointStruct{
				Id:      pointID(movies[i].ID),
				Vectors: qdrant.NewVectors(vectors[i]...),
				Payload: qdrant.NewValueMap(map[string]interface{}{
					"id":           movies[i].ID,
					"title":        movies[i].Title,
					"release_date": movies[i].ReleaseDate,
					"genres":       movies[i].Genres,
					"overview":     movies[i].Overview,
					"poster_path":  movies[i].PosterPath,
				}),
			})
		}

		if _, err := idx.client.Upsert(ctx, &qdrant.UpsertPoints{
			CollectionName: idx.collection,
			Points:         points,
		}); err != nil {
			return classifyIndexError(err)
		}

		idx.logger.Debug("Upserted batch", "from", start, "to", end)
	}

	return nil
}

// pointID maps a catalog id to a Qdrant point id. Numeric ids (the TMDB case)
// map directly; anything else gets a deterministic UUID.
func pointID(id string) *qdrant.PointId {
	if n, err := strconv.ParseUint(id, 10, 64); err == nil {
		return qdrant.NewIDNum(n)
	}
	return qdrant.NewID(uuid.NewSHA1(uuid.NameSpaceOID, []byte(id)).String())
}

func resultFromPoint(hit *qdrant.ScoredPoint) model.MovieResult {
	payload := hit.GetPayload()

	distance := 1 - float64(hit.GetScore())
	if distance < 0 {
		distance = 0
	}

	result := model.MovieResult{Distance: distance}
	if v, ok := payload["id"]; ok {
		result.ID = v.GetStringValue()
	}
	if v, ok := payload["title"]; ok {
		result.Title = v.GetStringValue()
	}
	if v, ok := payload["release_date"]; ok {
		result.ReleaseDate = v.GetStringValue()
	}
	if v, ok := payload["genres"]; ok {
		result.Genres = v.GetStringValue()
	}
	if v, ok := payload["overview"]; ok {
		result.Overview = v.GetStringValue()
	}
	if v, ok := payload["poster_path"]; ok {
		result.PosterPath = v.GetStringValue()
	}
	return result
}

// classifyIndexError maps transport errors onto the application taxonomy so
// the API layer can produce the right operator guidance.
func classifyIndexError(err error) error {
	switch status.Code(err) {
	case codes.NotFound:
		return fmt.Errorf("%w: %v", app_errors.ErrCollectionNotFound, err)
	default:
		return fmt.Errorf("%w: %v", app_errors.ErrIndexUnavailable, err)
	}
}
