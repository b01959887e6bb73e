package grading

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mathlingo/mathlingo/internal/gamify"
	"github.com/mathlingo/mathlingo/internal/llm"
	"github.com/mathlingo/mathlingo/internal/problems"
)

// ErrNotFound indicates the problem id is absent or expired and the
// caller supplied no record of its own. It is a normal outcome, not a
// server fault.
var ErrNotFound = errors.New("problem not found or expired")

// failClosedFeedback is returned when the judge cannot be reached or its
// reply cannot be parsed. Grading never guesses in the learner's favor.
const failClosedFeedback = "Your answer could not be auto-graded right now, so it was marked incorrect. Please try again."

// Input is one answer submission.
type Input struct {
	// ProblemID keys the stored record.
	ProblemID string

	// Answer is the learner's submission. For multiple_choice it is a
	// positional label; for drawing kinds it is the extracted transcription.
	Answer string

	// Record optionally carries the full problem when the caller still
	// holds it. It is used only when the store no longer has the id.
	Record *problems.Problem
}

// Result is the verdict returned to the client. Explanation always shows
// the worked solution so an expired-and-resubmitted round still teaches.
type Result struct {
	Correct     bool   `json:"correct"`
	Feedback    string `json:"feedback,omitempty"`
	Explanation string `json:"explanation"`
	XPGained    int    `json:"xp_gained"`
}

// Grader decides correctness for submitted answers.
type Grader struct {
	provider llm.Provider
	store    problems.Store
}

// NewGrader creates a Grader. provider may be nil; answers the local
// check cannot settle are then marked incorrect.
func NewGrader(provider llm.Provider, store problems.Store) *Grader {
	return &Grader{provider: provider, store: store}
}

// Grade looks up the problem and judges the answer. The strategy depends
// on the kind: multiple choice and locally-equivalent text answers are
// settled without an LLM call; everything else goes to the judge, which
// fails closed.
func (g *Grader) Grade(ctx context.Context, in Input) (*Result, error) {
	p, ok := g.store.Get(in.ProblemID)
	if !ok {
		if in.Record == nil {
			return nil, ErrNotFound
		}
		p = in.Record
	}

	correct, feedback := g.judge(ctx, p, in.Answer)

	return &Result{
		Correct:     correct,
		Feedback:    feedback,
		Explanation: explanation(p, correct),
		XPGained:    gamify.Award(correct),
	}, nil
}

func (g *Grader) judge(ctx context.Context, p *problems.Problem, answer string) (bool, string) {
	switch p.Kind {
	case problems.KindMultipleChoice:
		// Labels compare exactly; no judge needed.
		return strings.EqualFold(strings.TrimSpace(answer), p.Answer), ""

	case problems.KindText:
		if Equivalent(answer, p.Answer) {
			return true, ""
		}
	}

	// Free-text answers that are not locally equivalent, and both drawing
	// kinds, need the LLM's opinion.
	correct, feedback, err := Judge(ctx, g.provider, p, answer)
	if err != nil {
		return false, failClosedFeedback
	}
	return correct, feedback
}

// explanation mirrors the verdict: the worked solution on success, the
// correct answer plus the solution on failure.
func explanation(p *problems.Problem, correct bool) string {
	if correct {
		return p.Solution
	}
	return fmt.Sprintf("Correct answer was %s. Review the following steps:\n\n%s", p.Answer, p.Solution)
}
