package registry

import (
	"encoding/json"
	"strings"
)

func buildIntentSchema(names []string) ([]byte, error) {
	desc := "Name of the function to call."
	if len(names) > 0 {
		desc = "Name of the function to call, one of: " + strings.Join(names, ", ") + "."
	}

	schema := map[string]any{
		"$schema": "http://json-schema.org/draft-07/schema#",
		"type":    "object",
		"properties": map[string]any{
			"function": map[string]any{
				"type":        "string",
				"minLength":   1,
				"description": desc,
			},
			"query": map[string]any{
				"type":        []string{"string", "null"},
				"description": "Argument passed to the function.",
			},
		},
		"required":             []string{"function", "query"},
		"additionalProperties": false,
	}
	return json.MarshalIndent(schema, "", "  ")
}
