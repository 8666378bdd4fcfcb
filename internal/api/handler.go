package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	app_errors "reelsearch/backend/internal/errors"
	"reelsearch/backend/internal/interfaces"
	"reelsearch/backend/internal/model"
)

// defaultNResults is used when the client omits n_results.
const defaultNResults = 5

// SearchHandler handles both search endpoints.
type SearchHandler struct {
	service interfaces.SearchService
}

func NewSearchHandler(svc interfaces.SearchService) *SearchHandler {
	return &SearchHandler{service: svc}
}

// SearchRequest is the body of POST /api/search.
type SearchRequest struct {
	QueryText string `json:"query_text" validate:"required" example:"space movie with aliens"`
	NResults  int    `json:"n_results" validate:"omitempty,min=1,max=20" example:"5"`
}

// ChatSearchRequest is the body of POST /api/chat_search.
type ChatSearchRequest struct {
	Messages []model.ChatMessage `json:"messages"`
	NResults int                 `json:"n_results" validate:"omitempty,min=1,max=20" example:"5"`
}

// HandleSearch godoc
// @Summary      Text search
// @Description  Embeds the query text and returns the most similar movies from the vector index.
// @Tags         Search
// @Accept       json
// @Produce      json
// @Param        searchRequest  body      SearchRequest  true  "Search query"
// @Success      200            {object}  SearchResponse
// @Failure      400            {object}  ErrorResponse
// @Failure      500            {object}  ErrorResponse
// @Router       /search [post]
func (h *SearchHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, fmt.Errorf("%w: invalid request payload", app_errors.ErrValidation))
		return
	}
	if err := validateRequest(req); err != nil {
		respondWithError(w, err)
		return
	}
	if req.NResults == 0 {
		req.NResults = defaultNResults
	}

	results, err := h.service.Search(r.Context(), req.QueryText, req.NResults)
	if err != nil {
		respondWithError(w, err)
		return
	}
	if results == nil {
		results = []model.MovieResult{}
	}
	respondWithJSON(w, http.StatusOK, SearchResponse{Results: results})
}

// HandleChatSearch godoc
// @Summary      Conversational search
// @Description  Extracts filters from the chat history, runs a filtered similarity search and returns movie recommendations.
// @Tags         Chat Search
// @Accept       json
// @Produce      json
// @Param        chatSearchRequest  body      ChatSearchRequest  true  "Conversation history"
// @Success      200                {object}  SearchResponse
// @Failure      400                {object}  ErrorResponse
// @Failure      500                {object}  ErrorResponse
// @Router       /chat_search [post]
func (h *SearchHandler) HandleChatSearch(w http.ResponseWriter, r *http.Request) {
	var req ChatSearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, fmt.Errorf("%w: invalid request payload", app_errors.ErrValidation))
		return
	}
	if err := validateRequest(req); err != nil {
		respondWithError(w, err)
		return
	}
	if req.NResults == 0 {
		req.NResults = defaultNResults
	}

	results, err := h.service.ChatSearch(r.Context(), req.Messages, req.NResults)
	if err != nil {
		respondWithError(w, err)
		return
	}
	if results == nil {
		results = []model.MovieResult{}
	}
	respondWithJSON(w, http.StatusOK, SearchResponse{Results: results})
}
