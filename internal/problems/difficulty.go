package problems

// Difficulty bounds.
const (
	MinDifficulty = 1
	MaxDifficulty = 10
)

// adaptWindow is how many recent outcomes the adapter looks at.
const adaptWindow = 3

// NextDifficulty proposes the difficulty for the next problem from the
// base difficulty and recent history. The rule is a coarse three-bucket
// one: all of the last 3 correct steps up, all incorrect steps down,
// anything else (mixed, or fewer than 3 entries) leaves the base
// unchanged. No history means no change.
func NextDifficulty(base int, history []HistoryEntry) int {
	base = ClampDifficulty(base)

	if len(history) < adaptWindow {
		return base
	}

	recent := history[len(history)-adaptWindow:]
	correct := 0
	for _, h := range recent {
		if h.Correct {
			correct++
		}
	}

	switch correct {
	case adaptWindow:
		return min(base+1, MaxDifficulty)
	case 0:
		return max(base-1, MinDifficulty)
	default:
		return base
	}
}

// ClampDifficulty forces d into the valid 1-10 range.
func ClampDifficulty(d int) int {
	if d < MinDifficulty {
		return MinDifficulty
	}
	if d > MaxDifficulty {
		return MaxDifficulty
	}
	return d
}

// DifficultyBand maps a difficulty level to the human-readable band used
// in generation prompts.
func DifficultyBand(d int) string {
	switch {
	case d <= 2:
		return "very easy - basic concepts"
	case d <= 4:
		return "easy - fundamental skills"
	case d <= 6:
		return "moderate - standard problems"
	case d <= 8:
		return "challenging - complex problems"
	default:
		return "advanced - expert level"
	}
}
