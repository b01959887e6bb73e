package problems

// Config controls the behavior of the Generator.
type Config struct {
	// Validators is the ordered list of checks run on every parsed
	// problem. The first failure triggers the fallback.
	Validators []Validator

	// MaxTokens is the token budget for the generation reply.
	MaxTokens int

	// Temperature controls LLM output randomness (0.0-1.0).
	Temperature float64
}

// DefaultConfig returns a Config with the standard validator chain and
// recommended defaults.
func DefaultConfig() Config {
	return Config{
		Validators: []Validator{
			&StructuralValidator{},
		},
		MaxTokens:   300,
		Temperature: 0.7,
	}
}
