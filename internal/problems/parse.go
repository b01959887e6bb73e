package problems

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/mathlingo/mathlingo/internal/reply"
)

// problemOutput is the raw LLM reply before validation.
type problemOutput struct {
	Prompt   string   `json:"prompt"`
	Answer   string   `json:"answer"`
	Solution string   `json:"solution"`
	Options  []string `json:"options"`
}

// parseReply turns raw model output into a validated problemOutput.
// The heavy lifting (fence stripping, brace scanning, truncation
// detection) is done by the reply package; this adds the field-level
// checks specific to problem generation.
func parseReply(raw json.RawMessage, kind Kind) (*problemOutput, error) {
	obj, err := reply.ExtractObject(string(raw))
	if err != nil {
		return nil, err
	}

	var out problemOutput
	if err := json.Unmarshal(obj, &out); err != nil {
		return nil, fmt.Errorf("decode problem reply: %w", err)
	}

	out.Prompt = strings.TrimSpace(out.Prompt)
	out.Answer = strings.TrimSpace(out.Answer)
	out.Solution = strings.TrimSpace(out.Solution)

	if out.Prompt == "" {
		return nil, fmt.Errorf("problem reply missing prompt")
	}
	if out.Answer == "" {
		return nil, fmt.Errorf("problem reply missing answer")
	}
	if out.Solution == "" {
		return nil, fmt.Errorf("problem reply missing solution")
	}

	if kind == KindMultipleChoice {
		if err := validateChoices(&out); err != nil {
			return nil, err
		}
	} else {
		out.Options = nil
	}

	return &out, nil
}

// validateChoices enforces the multiple-choice shape: exactly 3 distinct
// options and an answer that is one of the positional labels.
func validateChoices(out *problemOutput) error {
	if len(out.Options) != OptionCount {
		return fmt.Errorf("multiple_choice reply has %d options, want %d", len(out.Options), OptionCount)
	}
	for i, opt := range out.Options {
		out.Options[i] = strings.TrimSpace(opt)
		if out.Options[i] == "" {
			return fmt.Errorf("multiple_choice option %d is empty", i)
		}
	}
	for i := range out.Options {
		for j := i + 1; j < len(out.Options); j++ {
			if out.Options[i] == out.Options[j] {
				return fmt.Errorf("multiple_choice options %d and %d are duplicates", i, j)
			}
		}
	}

	label := strings.ToUpper(out.Answer)
	if !slices.Contains(ChoiceLabels, label) {
		// Models sometimes answer with the option text instead of its
		// label. Accept that and normalize back to the label.
		for i, opt := range out.Options {
			if strings.EqualFold(out.Answer, opt) {
				out.Answer = ChoiceLabels[i]
				return nil
			}
		}
		return fmt.Errorf("multiple_choice answer %q is not one of %v", out.Answer, ChoiceLabels)
	}
	out.Answer = label
	return nil
}
