package problems

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/mathlingo/mathlingo/internal/llm"
)

// Result is the outcome of a generation request. Problem is always
// usable: content failures are silently replaced by the fallback record.
// Degraded is set only when the LLM transport itself failed (or no
// provider is configured), so the HTTP layer can attach an advisory
// error while still returning a problem.
type Result struct {
	Problem  Public
	Degraded bool
}

// Generator produces problems and stores them for later grading.
type Generator struct {
	provider llm.Provider
	store    Store
	config   Config
}

// NewGenerator creates a Generator. provider may be nil; every request
// then yields the fallback problem flagged as degraded.
func NewGenerator(provider llm.Provider, store Store, cfg Config) *Generator {
	return &Generator{provider: provider, store: store, config: cfg}
}

// Generate runs the full pipeline: adapt difficulty, pick a kind, call
// the LLM, parse and validate the reply, store the record, and return
// the public subset. It never returns a content error to the caller.
func (g *Generator) Generate(ctx context.Context, input GenerateInput) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	difficulty := NextDifficulty(input.Difficulty, input.History)

	kind := input.Kind
	if kind == "" {
		kinds := Kinds()
		kind = kinds[rand.IntN(len(kinds))]
	}

	if g.provider == nil {
		return &Result{Problem: g.storeFallback(difficulty), Degraded: true}, nil
	}

	ctx = llm.WithPurpose(ctx, "problem-gen")
	resp, err := g.provider.Generate(ctx, llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildUserMessage(input.Topic, difficulty, kind)},
		},
		Schema:      ProblemSchema,
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	})
	if err != nil {
		// A malformed reply is a content failure handled by the fallback;
		// everything else is a transport failure and flagged as degraded.
		var invalid *llm.ErrInvalidResponse
		degraded := !errors.As(err, &invalid)
		return &Result{Problem: g.storeFallback(difficulty), Degraded: degraded}, nil
	}

	out, err := parseReply(resp.Content, kind)
	if err != nil {
		return &Result{Problem: g.storeFallback(difficulty)}, nil
	}

	p := &Problem{
		ID:         uuid.NewString(),
		Prompt:     out.Prompt,
		Answer:     out.Answer,
		Solution:   out.Solution,
		Kind:       kind,
		Options:    out.Options,
		Difficulty: difficulty,
		CreatedAt:  time.Now(),
	}

	for _, v := range g.config.Validators {
		if verr := v.Validate(p); verr != nil {
			return &Result{Problem: g.storeFallback(difficulty)}, nil
		}
	}

	g.store.Put(p.ID, p)
	return &Result{Problem: p.Public()}, nil
}

// storeFallback stores a fresh fallback record and returns its public view.
// Each call gets its own id so grading behaves exactly like a normal round.
func (g *Generator) storeFallback(difficulty int) Public {
	p := fallbackProblem(difficulty)
	p.ID = uuid.NewString()
	g.store.Put(p.ID, p)
	return p.Public()
}
