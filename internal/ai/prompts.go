package ai

// filtersSchema is the exact JSON schema the model must produce. It mirrors
// model.ConversationFilters.
const filtersSchema = `{
  "type": "object",
  "properties": {
    "main_query": {
      "type": "string"
    },
    "min_year": {
      "type": ["integer", "null"]
    },
    "max_year": {
      "type": ["integer", "null"]
    },
    "include_genres": {
      "type": "array",
      "items": {"type": "string", "pattern": "^[a-z][a-z -]*$"}
    },
    "exclude_genres": {
      "type": "array",
      "items": {"type": "string", "pattern": "^[a-z][a-z -]*$"}
    }
  },
  "required": ["main_query", "include_genres", "exclude_genres"],
  "additionalProperties": false
}`

const extractionPromptTemplate = `You extract structured movie-search filters from a conversation between a user and an assistant.

Output ONLY valid JSON which complies with the schema given below. Do not include any preamble, explanation,
greeting, or acknowledgment. Start your response directly with the opening brace { and end with the closing
brace }. Your output must exactly follow this schema:

%s

Rules:
- Consider the FULL conversation, not just the latest message. Later messages refine or override earlier ones.
- "main_query" is the residual semantic search theme after removing temporal and genre constraints, phrased as a short description of the movies the user wants.
- "min_year" and "max_year" capture temporal constraints ("before 2010" sets max_year, "90s movies" sets both, a single year sets both). Omit a bound that is not constrained.
- "include_genres" and "exclude_genres" hold lowercase genre or region terms ("action", "horror", "indian", "bollywood"). A genre the user rejects ("not horror", "no romance") goes to exclude_genres.
- Genre terms must be lowercase. Never place the same term in both lists.
- The JSON must parse without errors; no trailing commas, no extra keys, and no extraneous text outside the object.

Example:
Input conversation:
  user: Suggest action movies before 2010, not horror
Output:
{
  "main_query": "action movies",
  "max_year": 2010,
  "include_genres": ["action"],
  "exclude_genres": ["horror"]
}`
