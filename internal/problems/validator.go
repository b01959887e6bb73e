package problems

import "fmt"

// Validator checks a parsed problem before it is stored.
// Implementations should be stateless and safe for concurrent use.
type Validator interface {
	// Name returns a short identifier for this validator, used in error
	// messages and logging.
	Name() string

	// Validate returns nil if the problem passes, or a ValidationError.
	Validate(p *Problem) *ValidationError
}

// ValidationError describes why a generated problem was rejected.
type ValidationError struct {
	Validator string
	Message   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validator %q: %s", e.Validator, e.Message)
}

// StructuralValidator checks field lengths and the multiple-choice shape.
type StructuralValidator struct{}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(p *Problem) *ValidationError {
	if !p.Kind.Valid() {
		return &ValidationError{
			Validator: v.Name(),
			Message:   fmt.Sprintf("unknown kind %q", p.Kind),
		}
	}
	if len(p.Prompt) > 500 {
		return &ValidationError{
			Validator: v.Name(),
			Message:   "prompt exceeds 500 characters",
		}
	}
	if len(p.Solution) > 2000 {
		return &ValidationError{
			Validator: v.Name(),
			Message:   "solution exceeds 2000 characters",
		}
	}

	if p.Kind == KindMultipleChoice {
		if len(p.Options) != OptionCount {
			return &ValidationError{
				Validator: v.Name(),
				Message:   fmt.Sprintf("multiple_choice has %d options, want %d", len(p.Options), OptionCount),
			}
		}
		valid := false
		for _, l := range ChoiceLabels {
			if p.Answer == l {
				valid = true
				break
			}
		}
		if !valid {
			return &ValidationError{
				Validator: v.Name(),
				Message:   fmt.Sprintf("answer %q is not a choice label", p.Answer),
			}
		}
	} else if len(p.Options) != 0 {
		return &ValidationError{
			Validator: v.Name(),
			Message:   fmt.Sprintf("kind %q must not carry options", p.Kind),
		}
	}

	return nil
}
