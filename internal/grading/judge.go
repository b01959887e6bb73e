package grading

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mathlingo/mathlingo/internal/llm"
	"github.com/mathlingo/mathlingo/internal/problems"
)

const judgeSystemPrompt = `You are a strict but encouraging math grader.

Rules:
- Judge only mathematical correctness. Formatting, spacing and notation differences do not matter.
- Equivalent forms are correct: 0.5 equals 1/2, x*x equals x^2.
- An answer that is partially right is still incorrect. Do not award partial credit.
- Feedback is 1-2 sentences, addressed to the learner, plain ASCII text.
- Respond ONLY with the structured object.`

// judgeSchema is the structured verdict shape.
var judgeSchema = &llm.Schema{
	Name:        "grade-verdict",
	Description: "Verdict on whether a learner's answer is mathematically correct",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"is_correct": map[string]any{
				"type":        "boolean",
				"description": "Whether the learner's answer is mathematically equivalent to the expected one",
			},
			"feedback": map[string]any{
				"type":        "string",
				"description": "1-2 sentences of feedback for the learner",
			},
		},
		"required":             []any{"is_correct", "feedback"},
		"additionalProperties": false,
	},
}

type judgeVerdict struct {
	IsCorrect bool   `json:"is_correct"`
	Feedback  string `json:"feedback"`
}

// Judge asks the LLM whether answer matches the stored problem. Any
// transport or parse failure returns an error; callers treat that as
// incorrect rather than guessing.
func Judge(ctx context.Context, provider llm.Provider, p *problems.Problem, answer string) (bool, string, error) {
	if provider == nil {
		return false, "", &llm.ErrProviderUnavailable{}
	}

	ctx = llm.WithPurpose(ctx, "grade-judge")
	resp, err := provider.Generate(ctx, llm.Request{
		System: judgeSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildJudgeMessage(p, answer)},
		},
		Schema:    judgeSchema,
		MaxTokens: 200,
	})
	if err != nil {
		return false, "", err
	}

	var v judgeVerdict
	if err := json.Unmarshal(resp.Content, &v); err != nil {
		return false, "", fmt.Errorf("decode verdict: %w", err)
	}
	return v.IsCorrect, strings.TrimSpace(v.Feedback), nil
}

func buildJudgeMessage(p *problems.Problem, answer string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Problem: %s\n", p.Prompt)
	fmt.Fprintf(&b, "Expected answer: %s\n", p.Answer)
	fmt.Fprintf(&b, "Learner's answer: %s\n", answer)

	switch p.Kind {
	case problems.KindFormulaDrawing:
		b.WriteString("\nThe learner drew the expression; their answer is a transcription of the drawing. Judge whether the transcribed expression is mathematically equivalent to the expected one.")
	case problems.KindGraphing:
		b.WriteString(`
The learner sketched a graph; their answer describes the sketch. Judge the sketch on:
- overall shape (line, parabola, curve direction)
- key points: vertex, intercepts with the axes
- whether enough points are placed to determine the graph
Minor inaccuracies in freehand drawing are acceptable if the shape and key points are right.`)
	}

	return b.String()
}
