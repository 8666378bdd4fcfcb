package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"reelsearch/backend/internal/model"
)

// LLMExtractor implements FilterExtractor with a single chat-completion call
// against an OpenAI-compatible API, asking for the filter JSON schema.
// Any failure (network, API, malformed JSON) surfaces as an error so the
// ExtractorChain can fall back to the deterministic path.
type LLMExtractor struct {
	client llms.Model
	logger *slog.Logger
}

// filtersPayload matches the JSON schema in prompts.go for unmarshaling.
type filtersPayload struct {
	MainQuery     string   `json:"main_query"`
	MinYear       *int     `json:"min_year"`
	MaxYear       *int     `json:"max_year"`
	IncludeGenres []string `json:"include_genres"`
	ExcludeGenres []string `json:"exclude_genres"`
}

// NewLLMExtractor creates the primary extraction strategy. The credential is
// injected once at construction.
func NewLLMExtractor(baseURL, apiKey, chatModel string) (*LLMExtractor, error) {
	client, err := openai.New(
		openai.WithBaseURL(baseURL),
		openai.WithToken(apiKey),
		openai.WithModel(chatModel),
	)
	if err != nil {
		return nil, fmt.Errorf("could not create openai client: %w", err)
	}
	return NewLLMExtractorWithModel(client), nil
}

// NewLLMExtractorWithModel wires an existing model client. Used by tests.
func NewLLMExtractorWithModel(client llms.Model) *LLMExtractor {
	return &LLMExtractor{
		client: client,
		logger: slog.Default().With("component", "llm-extractor"),
	}
}

func (e *LLMExtractor) Extract(ctx context.Context, messages []model.ChatMessage) (*model.ConversationFilters, error) {
	systemPrompt := fmt.Sprintf(extractionPromptTemplate, filtersSchema)
	content := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(systemPrompt)},
		},
	}
	for _, msg := range messages {
		content = append(content, llms.MessageContent{
			Role:  chatRole(msg.Role),
			Parts: []llms.ContentPart{llms.TextPart(msg.Content)},
		})
	}

	response, err := e.client.GenerateContent(ctx, content, llms.WithTemperature(0.0), llms.WithJSONMode())
	if err != nil {
		return nil, fmt.Errorf("llm call failed: %w", err)
	}
	if len(response.Choices) < 1 {
		return nil, fmt.Errorf("llm returned no choices")
	}

	// Strip markdown code fences if present, then repair common JSON issues.
	responseText := strings.TrimSpace(response.Choices[0].Content)
	responseText = strings.TrimPrefix(responseText, "```json")
	responseText = strings.TrimPrefix(responseText, "```")
	responseText = strings.TrimSuffix(responseText, "```")
	responseText = strings.TrimSpace(responseText)
	responseText = repairJSON(responseText)

	var payload filtersPayload
	if err := json.Unmarshal([]byte(responseText), &payload); err != nil {
		e.logger.Warn("Could not parse extraction response",
			"stage", "extract", "response", truncate(responseText, 200), "error", err)
		return nil, fmt.Errorf("could not parse extraction response: %w", err)
	}
	if strings.TrimSpace(payload.MainQuery) == "" {
		return nil, fmt.Errorf("extraction response has empty main_query")
	}

	filters := &model.ConversationFilters{
		MainQuery:     payload.MainQuery,
		MinYear:       payload.MinYear,
		MaxYear:       payload.MaxYear,
		IncludeGenres: normalizeGenres(payload.IncludeGenres),
		ExcludeGenres: normalizeGenres(payload.ExcludeGenres),
	}
	return filters, nil
}

func chatRole(role string) llms.ChatMessageType {
	switch role {
	case model.RoleAssistant:
		return llms.ChatMessageTypeAI
	case model.RoleSystem:
		return llms.ChatMessageTypeSystem
	default:
		return llms.ChatMessageTypeHuman
	}
}

func normalizeGenres(genres []string) []string {
	out := make([]string, 0, len(genres))
	for _, g := range genres {
		g = strings.ToLower(strings.TrimSpace(g))
		if g != "" && !contains(out, g) {
			out = append(out, g)
		}
	}
	return out
}
