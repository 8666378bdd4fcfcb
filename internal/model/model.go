package model

// ChatMessage is a single turn in the conversation supplied by the client.
type ChatMessage struct {
	Role    string `json:"role"` // "user", "assistant" or "system"
	Content string `json:"content"`
}

// Message roles accepted in chat search requests.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// ConversationFilters is the structured constraint set extracted from a
// conversation. It is produced fresh per request and never persisted.
//
// MinYear <= MaxYear is intentionally not enforced by construction; an
// inverted range simply yields no results downstream.
type ConversationFilters struct {
	MainQuery     string   `json:"main_query"`
	MinYear       *int     `json:"min_year,omitempty"`
	MaxYear       *int     `json:"max_year,omitempty"`
	IncludeGenres []string `json:"include_genres"` // lowercase terms
	ExcludeGenres []string `json:"exclude_genres"` // lowercase terms
}

// HasConstraints reports whether any structured constraint is set. The
// orchestrator uses it to decide the over-fetch multiplier.
func (f *ConversationFilters) HasConstraints() bool {
	return f.MinYear != nil || f.MaxYear != nil ||
		len(f.IncludeGenres) > 0 || len(f.ExcludeGenres) > 0
}

// Movie is a catalog record as ingested from TMDB.
type Movie struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	ReleaseDate string `json:"release_date"` // "YYYY-MM-DD" or empty
	Genres      string `json:"genres"`       // comma-joined names or empty
	Overview    string `json:"overview"`
	PosterPath  string `json:"poster_path"`
}

// MovieResult is a similarity-search candidate: a catalog record plus its
// cosine distance to the query (lower = more similar).
type MovieResult struct {
	Movie
	Distance float64 `json:"distance"`
}
