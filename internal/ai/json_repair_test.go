package ai

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRepairJSON(t *testing.T) {
	t.Run("restores missing opening quote on keys", func(t *testing.T) {
		broken := `{"main_query": "space", max_year": 2010, include_genres": []}`
		repaired := repairJSON(broken)

		assert.True(t, json.Valid([]byte(repaired)), "repaired output should be valid JSON: %s", repaired)
		assert.Equal(t, `{"main_query": "space", "max_year": 2010, "include_genres": []}`, repaired)
	})

	t.Run("leaves valid JSON untouched", func(t *testing.T) {
		valid := `{"main_query": "space", "max_year": 2010}`
		assert.Equal(t, valid, repairJSON(valid))
	})

	t.Run("preserves whitespace around keys", func(t *testing.T) {
		broken := "{\n  main_query\": \"x\"\n}"
		repaired := repairJSON(broken)
		assert.True(t, json.Valid([]byte(repaired)), "got: %s", repaired)
	})

	t.Run("does not mangle bare words inside strings", func(t *testing.T) {
		valid := `{"main_query": "movies, preferably recent"}`
		assert.Equal(t, valid, repairJSON(valid))
	})
}
