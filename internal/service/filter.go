package service

import (
	"strconv"
	"strings"

	"reelsearch/backend/internal/model"
)

// Regional terms get a widened match: a request for Indian cinema is
// satisfied by a mention in the genre text, the title or the overview,
// because catalog genre labels rarely carry regional tags.
var (
	regionalIncludeTerms = []string{"indian", "bollywood"}
	regionalMatchTerms   = []string{"indian", "bollywood", "hindi"}
)

// ApplyFilters selects the candidates that satisfy every applicable
// constraint. The result is an order-preserving subsequence of candidates:
// similarity order from the index is never disturbed.
func ApplyFilters(candidates []model.MovieResult, filters *model.ConversationFilters) []model.MovieResult {
	kept := make([]model.MovieResult, 0, len(candidates))
	for _, c := range candidates {
		if keepCandidate(c, filters) {
			kept = append(kept, c)
		}
	}
	return kept
}

func keepCandidate(c model.MovieResult, filters *model.ConversationFilters) bool {
	year, ok := releaseYear(c.ReleaseDate)
	if !ok {
		// Records without a parsable release date cannot be bounds-checked
		// and are dropped regardless of whether bounds are set.
		return false
	}
	if filters.MinYear != nil && year < *filters.MinYear {
		return false
	}
	if filters.MaxYear != nil && year > *filters.MaxYear {
		return false
	}

	if len(filters.IncludeGenres) > 0 && !matchesIncludes(c, filters.IncludeGenres) {
		return false
	}

	// Exclusion is independent of inclusion and always wins.
	genres := strings.ToLower(c.Genres)
	for _, term := range filters.ExcludeGenres {
		if strings.Contains(genres, term) {
			return false
		}
	}

	return true
}

// releaseYear parses the year from a "YYYY-MM-DD" date, using the text before
// the first "-".
func releaseYear(releaseDate string) (int, bool) {
	if releaseDate == "" {
		return 0, false
	}
	yearText, _, _ := strings.Cut(releaseDate, "-")
	year, err := strconv.Atoi(yearText)
	if err != nil {
		return 0, false
	}
	return year, true
}

// matchesIncludes implements the genre-inclusion gate. Plain genres match by
// case-insensitive substring against the candidate's genre text. When a
// regional term is requested, the candidate is accepted on a regional match
// across genres, title and overview, or on a normal match against any other
// requested genre.
func matchesIncludes(c model.MovieResult, includes []string) bool {
	var plain []string
	regional := false
	for _, term := range includes {
		if containsTerm(regionalIncludeTerms, term) {
			regional = true
		} else {
			plain = append(plain, term)
		}
	}

	genres := strings.ToLower(c.Genres)
	for _, term := range plain {
		if strings.Contains(genres, term) {
			return true
		}
	}

	if regional {
		haystack := strings.ToLower(c.Genres + " " + c.Title + " " + c.Overview)
		for _, term := range regionalMatchTerms {
			if strings.Contains(haystack, term) {
				return true
			}
		}
	}

	return false
}

func containsTerm(set []string, term string) bool {
	for _, s := range set {
		if s == term {
			return true
		}
	}
	return false
}
