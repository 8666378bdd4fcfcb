package interfaces

import (
	"context"

	"reelsearch/backend/internal/model"
)

// This file defines the contracts the API layer depends on. Handlers take
// these interfaces instead of concrete services, which decouples the layers
// and lets tests substitute fakes.

// SearchService is the contract for both search pipelines.
type SearchService interface {
	// Search embeds queryText and returns the n nearest movies, unfiltered.
	Search(ctx context.Context, queryText string, n int) ([]model.MovieResult, error)

	// ChatSearch extracts filters from the conversation, runs a filtered
	// similarity search and returns at most n movies.
	ChatSearch(ctx context.Context, messages []model.ChatMessage, n int) ([]model.MovieResult, error)
}
