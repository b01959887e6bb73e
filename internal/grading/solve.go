package grading

import (
	"context"
	"fmt"
	"strings"

	"github.com/mathlingo/mathlingo/internal/llm"
	"github.com/mathlingo/mathlingo/internal/reply"
)

const solveSystemPrompt = "You are a helpful math tutor. Always show clear, numbered steps and the final answer on its own line prefixed with 'ANSWER:'."

const critiqueSystemPrompt = "You are a strict math TA who never hallucinates. If unsure, give lower confidence."

// Solution is the tutor's worked solution plus a self-critique.
type Solution struct {
	// Solution is the full step-by-step markdown reply.
	Solution string `json:"solution"`

	// Answer is the value on the ANSWER: line, empty if the model did not
	// follow the format.
	Answer string `json:"answer,omitempty"`

	// Critique is the model's review of its own solution.
	Critique string `json:"critique"`

	// Confidence is the model's self-assessed confidence in [0,1].
	Confidence float64 `json:"confidence"`
}

// Solver produces worked solutions with a second-pass critique. The two
// LLM calls are sequential; the critique depends on the solution text.
type Solver struct {
	provider llm.Provider
}

// NewSolver creates a Solver.
func NewSolver(provider llm.Provider) *Solver {
	return &Solver{provider: provider}
}

// Solve asks the model to work the problem, then asks it to critique its
// own reply. A failed critique never fails the call: the defaults are
// "(no critique)" with confidence 0.5.
func (s *Solver) Solve(ctx context.Context, problem string) (*Solution, error) {
	if s.provider == nil {
		return nil, &llm.ErrProviderUnavailable{}
	}

	solveCtx := llm.WithPurpose(ctx, "solve")
	resp, err := s.provider.Generate(solveCtx, llm.Request{
		System: solveSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: "Solve the following problem.\n\n" + problem},
		},
		MaxTokens: 512,
	})
	if err != nil {
		return nil, fmt.Errorf("solve call: %w", err)
	}

	out := &Solution{
		Solution:   strings.TrimSpace(resp.Text()),
		Critique:   "(no critique)",
		Confidence: 0.5,
	}
	if answer, ok := reply.Field(out.Solution, "ANSWER"); ok {
		out.Answer = answer
	}

	s.critique(ctx, out)
	return out, nil
}

// critique runs the second pass, leaving the defaults in place when the
// call fails or the reply does not parse.
func (s *Solver) critique(ctx context.Context, out *Solution) {
	prompt := fmt.Sprintf("Here is your earlier solution in markdown:\n\n---\n%s\n---\n\nPlease critique it for correctness, clarity, and completeness. Then output a JSON object ONLY with keys: critique (string) and confidence (number 0-1).", out.Solution)

	ctx = llm.WithPurpose(ctx, "critique")
	resp, err := s.provider.Generate(ctx, llm.Request{
		System: critiqueSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: prompt},
		},
		MaxTokens: 256,
	})
	if err != nil {
		return
	}

	var parsed struct {
		Critique   string  `json:"critique"`
		Confidence float64 `json:"confidence"`
	}
	if err := reply.Unmarshal(resp.Text(), &parsed); err != nil {
		return
	}
	if parsed.Critique != "" {
		out.Critique = parsed.Critique
	}
	out.Confidence = parsed.Confidence
}
