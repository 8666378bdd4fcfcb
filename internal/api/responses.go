package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	app_errors "reelsearch/backend/internal/errors"
	"reelsearch/backend/internal/model"
)

// ErrorResponse defines the standard JSON structure for error messages.
type ErrorResponse struct {
	Error string `json:"error"`
}

// SearchResponse is the shared response schema of both search endpoints.
type SearchResponse struct {
	Results []model.MovieResult `json:"results"`
}

// respondWithError maps application errors onto HTTP status codes and a
// client-safe message. Internal detail is logged, not leaked.
func respondWithError(w http.ResponseWriter, err error) {
	var statusCode int
	var message string

	switch {
	case errors.Is(err, app_errors.ErrValidation):
		statusCode = http.StatusBadRequest
		// Validation errors carry a descriptive, user-friendly message.
		message = err.Error()
	case errors.Is(err, app_errors.ErrCollectionNotFound):
		statusCode = http.StatusInternalServerError
		message = "The movie collection does not exist. Run the indexer setup first."
	case errors.Is(err, app_errors.ErrIndexUnavailable):
		statusCode = http.StatusInternalServerError
		message = "Failed to query the vector database."
	case errors.Is(err, app_errors.ErrEmbedding):
		statusCode = http.StatusInternalServerError
		message = "Failed to generate embedding for the query."
	case errors.Is(err, app_errors.ErrNotFound):
		statusCode = http.StatusNotFound
		message = "The requested resource was not found."
	default:
		statusCode = http.StatusInternalServerError
		message = "An unexpected internal server error occurred."
	}

	slog.Warn("Responding with error", "status_code", statusCode, "client_message", message, "internal_error", err)

	respondWithJSON(w, statusCode, ErrorResponse{Error: message})
}

// respondWithJSON marshals payload and writes it with the given status code.
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		slog.Error("Failed to marshal JSON response", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := w.Write(response); err != nil {
		slog.Error("Failed to write JSON response", "error", err)
	}
}
