package ai

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"reelsearch/backend/internal/model"
)

// FallbackExtractor is the deterministic, rule-based extraction path used
// when the LLM path is unavailable or returns unparsable output. It is a
// pure function of the user messages: no I/O, no state.
type FallbackExtractor struct{}

func NewFallbackExtractor() *FallbackExtractor {
	return &FallbackExtractor{}
}

// Year rules. They are applied in exactly this order and each later rule may
// overwrite fields set by an earlier one; the bare-year rule only applies when
// no other rule has set a bound.
var (
	reBeforeYear = regexp.MustCompile(`(?i)\b(?:before|until|up to)\s+(\d{4})\b`)
	reAfterYear  = regexp.MustCompile(`(?i)\b(?:after|since|from)\s+(\d{4})\b`)
	reYearRange  = regexp.MustCompile(`(?i)\b(?:from|between)\s+(\d{4})\s+(?:to|and)\s+(\d{4})\b`)
	reDecade     = regexp.MustCompile(`(?i)\b(\d0)s\b`)
	reBareYear   = regexp.MustCompile(`(?i)\b(?:released\s+in|in|from)\s+(\d{4})\b`)
)

// genreVocabulary is the fixed set of recognized genre and region terms.
// Regional terms ("indian", "bollywood") get special matching downstream.
var genreVocabulary = []string{
	"action", "adventure", "animation", "bollywood", "comedy", "crime",
	"documentary", "drama", "family", "fantasy", "history", "horror",
	"indian", "music", "mystery", "romance", "science fiction", "sci-fi",
	"thriller", "war", "western",
}

// reExclusionCue matches an exclusion cue at the end of the text directly
// preceding a genre term, allowing up to two intervening words
// ("don't want any horror").
var reExclusionCue = regexp.MustCompile(`(?i)(?:\bnot|\bno|\bexcept|\bwithout|don'?t\s+want|do\s+not\s+want)\s+(?:[\w-]+\s+){0,2}$`)

// Extract derives filters from the user messages only, concatenated in order.
// The returned error is always nil; the signature matches FilterExtractor.
func (e *FallbackExtractor) Extract(_ context.Context, messages []model.ChatMessage) (*model.ConversationFilters, error) {
	var userTexts []string
	var lastUser string
	for _, msg := range messages {
		if msg.Role == model.RoleUser {
			userTexts = append(userTexts, msg.Content)
			lastUser = msg.Content
		}
	}
	text := strings.Join(userTexts, " ")

	filters := &model.ConversationFilters{
		IncludeGenres: []string{},
		ExcludeGenres: []string{},
	}

	if lastUser != "" {
		filters.MainQuery = lastUser
	} else {
		filters.MainQuery = text
	}

	extractYears(text, filters)
	extractGenres(text, filters)

	return filters, nil
}

func extractYears(text string, filters *model.ConversationFilters) {
	for _, m := range reBeforeYear.FindAllStringSubmatch(text, -1) {
		if y, err := strconv.Atoi(m[1]); err == nil {
			filters.MaxYear = &y
		}
	}
	for _, m := range reAfterYear.FindAllStringSubmatch(text, -1) {
		if y, err := strconv.Atoi(m[1]); err == nil {
			filters.MinYear = &y
		}
	}
	for _, m := range reYearRange.FindAllStringSubmatch(text, -1) {
		lo, errLo := strconv.Atoi(m[1])
		hi, errHi := strconv.Atoi(m[2])
		if errLo == nil && errHi == nil {
			filters.MinYear = &lo
			filters.MaxYear = &hi
		}
	}
	for _, m := range reDecade.FindAllStringSubmatch(text, -1) {
		if d, err := strconv.Atoi(m[1]); err == nil {
			lo := 1900 + d
			hi := lo + 9
			filters.MinYear = &lo
			filters.MaxYear = &hi
		}
	}
	// A bare "in/from/released in YYYY" only applies when nothing else set a bound.
	if filters.MinYear == nil && filters.MaxYear == nil {
		for _, m := range reBareYear.FindAllStringSubmatch(text, -1) {
			if y, err := strconv.Atoi(m[1]); err == nil {
				lo, hi := y, y
				filters.MinYear = &lo
				filters.MaxYear = &hi
			}
		}
	}
}

func extractGenres(text string, filters *model.ConversationFilters) {
	lower := strings.ToLower(text)

	for _, term := range genreVocabulary {
		re := regexp.MustCompile(`\b` + regexp.QuoteMeta(term) + `\b`)
		loc := re.FindStringIndex(lower)
		if loc == nil {
			continue
		}

		// A term is classified by its first occurrence; later matches of the
		// same term in a different context do not reclassify it.
		if isExcluded(lower, loc[0]) {
			addGenre(&filters.ExcludeGenres, filters.IncludeGenres, term)
		} else {
			addGenre(&filters.IncludeGenres, filters.ExcludeGenres, term)
		}
	}
}

// isExcluded reports whether the genre term starting at pos is preceded by an
// exclusion cue within the same sentence.
func isExcluded(text string, pos int) bool {
	start := 0
	for i := pos - 1; i >= 0; i-- {
		if text[i] == '.' || text[i] == '!' || text[i] == '?' {
			start = i + 1
			break
		}
	}
	return reExclusionCue.MatchString(text[start:pos])
}

// addGenre appends term (and its regional twin) to dst unless the term is
// already classified in either set.
func addGenre(dst *[]string, other []string, term string) {
	terms := []string{term}
	// "indian" and "bollywood" are interchangeable regional cues; capturing
	// one captures both so the regional result-filter rule always sees them.
	if term == "indian" {
		terms = append(terms, "bollywood")
	} else if term == "bollywood" {
		terms = append(terms, "indian")
	}

	for _, t := range terms {
		if contains(*dst, t) || contains(other, t) {
			continue
		}
		*dst = append(*dst, t)
	}
}

func contains(set []string, term string) bool {
	for _, s := range set {
		if s == term {
			return true
		}
	}
	return false
}
