package problems

import "time"

// Kind is the modality of a problem. It determines both the generation
// prompt and the grading strategy.
type Kind string

const (
	// KindText means the learner types a free-text (usually numeric) answer.
	KindText Kind = "text"

	// KindMultipleChoice means the learner picks one of exactly 3 options,
	// answering with a positional label ("A", "B" or "C").
	KindMultipleChoice Kind = "multiple_choice"

	// KindFormulaDrawing means the learner draws an expression; the drawing
	// is transcribed to text before grading.
	KindFormulaDrawing Kind = "formula_drawing"

	// KindGraphing means the learner sketches a graph; the sketch is
	// described as text before grading.
	KindGraphing Kind = "graphing"
)

// Kinds lists the supported kinds in generation order.
func Kinds() []Kind {
	return []Kind{KindText, KindMultipleChoice, KindFormulaDrawing, KindGraphing}
}

// Valid reports whether k is a supported kind.
func (k Kind) Valid() bool {
	switch k {
	case KindText, KindMultipleChoice, KindFormulaDrawing, KindGraphing:
		return true
	}
	return false
}

// ChoiceLabels are the positional answer labels for multiple choice.
// A multiple_choice record's Answer is always one of these.
var ChoiceLabels = []string{"A", "B", "C"}

// OptionCount is the number of options on a multiple_choice record.
const OptionCount = 3

// Problem is the full generated record, including the fields withheld from
// clients. Only the grade pathway may reveal Answer and Solution.
type Problem struct {
	// ID is the opaque token used as the sole lookup key.
	ID string

	// Prompt is the question text displayed to the learner.
	Prompt string

	// Answer is the canonical correct answer. For multiple_choice it is a
	// positional label ("A", "B" or "C").
	Answer string

	// Solution is the worked explanation, shown after grading.
	Solution string

	// Kind selects the grading strategy.
	Kind Kind

	// Options holds exactly 3 choice strings when Kind is multiple_choice,
	// nil otherwise.
	Options []string

	// Difficulty is the effective difficulty the problem was generated at.
	Difficulty int

	// CreatedAt drives the 30-minute expiry.
	CreatedAt time.Time
}

// Public is the client-visible subset of a Problem. It never carries the
// answer or solution.
type Public struct {
	ID         string   `json:"id"`
	Prompt     string   `json:"prompt"`
	Difficulty int      `json:"difficulty"`
	Kind       Kind     `json:"kind"`
	Options    []string `json:"options,omitempty"`
}

// Public returns the client-visible view of the problem.
func (p *Problem) Public() Public {
	return Public{
		ID:         p.ID,
		Prompt:     p.Prompt,
		Difficulty: p.Difficulty,
		Kind:       p.Kind,
		Options:    p.Options,
	}
}

// HistoryEntry is one prior outcome, used only by the difficulty adapter.
type HistoryEntry struct {
	Correct    bool `json:"correct"`
	Difficulty int  `json:"difficulty"`
}

// GenerateInput holds all context needed to generate a problem.
type GenerateInput struct {
	// Topic is the learner's chosen topic, free text.
	Topic string

	// Difficulty is the base difficulty (1-10) before adaptation.
	Difficulty int

	// History holds recent outcomes, most-recent-last. Only the last 3
	// influence the effective difficulty.
	History []HistoryEntry

	// Kind optionally pins the problem kind. Empty means pick at random.
	Kind Kind
}

// Store is the problem store dependency of the generator. The concrete
// implementation lives in the problemstore package.
type Store interface {
	Put(id string, p *Problem)
	Get(id string) (*Problem, bool)
}
