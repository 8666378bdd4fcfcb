package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
)

const defaultBaseURL = "https://api.themoviedb.org/3"

// Client is a minimal TMDB API client covering the catalog-ingestion needs:
// the genre list and the discover endpoint.
type Client struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

func NewClient(apiKey string) *Client {
	return NewClientWithBaseURL(apiKey, defaultBaseURL)
}

// NewClientWithBaseURL allows pointing the client at a test server.
func NewClientWithBaseURL(apiKey, baseURL string) *Client {
	return &Client{
		client:  &http.Client{},
		baseURL: baseURL,
		apiKey:  apiKey,
	}
}

type genreListResponse struct {
	Genres []Genre `json:"genres"`
}

// Genre is a TMDB genre entry.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// DiscoverMovie is one movie entry from the discover endpoint.
type DiscoverMovie struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	ReleaseDate string `json:"release_date"`
	Overview    string `json:"overview"`
	GenreIDs    []int  `json:"genre_ids"`
	PosterPath  string `json:"poster_path"`
}

type discoverResponse struct {
	Page       int             `json:"page"`
	Results    []DiscoverMovie `json:"results"`
	TotalPages int             `json:"total_pages"`
}

// GenreMap fetches the genre list and returns an id-to-name mapping.
func (c *Client) GenreMap(ctx context.Context) (map[int]string, error) {
	var resp genreListResponse
	if err := c.get(ctx, "/genre/movie/list", nil, &resp); err != nil {
		return nil, fmt.Errorf("could not fetch genre list: %w", err)
	}

	genreMap := make(map[int]string, len(resp.Genres))
	for _, g := range resp.Genres {
		genreMap[g.ID] = g.Name
	}
	return genreMap, nil
}

// DiscoverMovies fetches one page of movies sorted by descending popularity.
func (c *Client) DiscoverMovies(ctx context.Context, page int) ([]DiscoverMovie, error) {
	params := url.Values{
		"sort_by": {"popularity.desc"},
		"page":    {strconv.Itoa(page)},
	}
	var resp discoverResponse
	if err := c.get(ctx, "/discover/movie", params, &resp); err != nil {
		return nil, fmt.Errorf("could not fetch discover page %d: %w", page, err)
	}
	return resp.Results, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", c.apiKey)

	endpoint := c.baseURL + path + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("could not create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("api returned non-200 status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("could not decode response: %w", err)
	}
	return nil
}
