package exercise

import "github.com/khalidw/harfiz/internal/llm"

// ItemSchema defines the JSON schema for LLM exercise generation responses.
var ItemSchema = &llm.Schema{
	Name:        "quiz-exercise",
	Description: "A single Arabic reading exercise with options, transliteration, and explanation",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"kind": map[string]any{
				"type":        "string",
				"enum":        []any{"identify_letter", "complete_diacritic", "complete_sentence"},
				"description": "The exercise format",
			},
			"prompt": map[string]any{
				"type":        "string",
				"description": "The instruction shown to the learner, in English. For complete_sentence, embeds the Arabic sentence with ____ marking the gap.",
			},
			"options": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "string",
				},
				"minItems":    4,
				"maxItems":    4,
				"description": "Exactly 4 candidate answers in fully vocalized Arabic script",
			},
			"answer_index": map[string]any{
				"type":        "integer",
				"minimum":     0,
				"maximum":     3,
				"description": "Zero-based position of the correct option",
			},
			"transliteration": map[string]any{
				"type":        "string",
				"description": "Latin-letter rendering of the correct option, e.g. \"kataba\"",
			},
			"explanation": map[string]any{
				"type":        "string",
				"description": "One or two English sentences saying why the correct option is right",
			},
		},
		"required":             []any{"kind", "prompt", "options", "answer_index", "transliteration", "explanation"},
		"additionalProperties": false,
	},
}
