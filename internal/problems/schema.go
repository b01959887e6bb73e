package problems

import "github.com/mathlingo/mathlingo/internal/llm"

// ProblemSchema defines the JSON schema for LLM problem generation replies.
var ProblemSchema = &llm.Schema{
	Name:        "math-problem",
	Description: "A single math practice problem with answer and worked solution",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"prompt": map[string]any{
				"type":        "string",
				"description": "The problem text shown to the learner, in plain ASCII text",
			},
			"answer": map[string]any{
				"type":        "string",
				"description": "The correct answer. Numeric or a simplified expression. For multiple_choice: the label of the correct option (A, B or C).",
			},
			"solution": map[string]any{
				"type":        "string",
				"description": "Step-by-step worked solution in markdown",
			},
			"options": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "string",
				},
				"description": "Exactly 3 options for multiple_choice problems. Empty array for every other kind.",
			},
		},
		"required":             []any{"prompt", "answer", "solution", "options"},
		"additionalProperties": false,
	},
}
