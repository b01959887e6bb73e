package problems

import "time"

// fallbackProblem returns the fixed problem substituted whenever
// generation cannot produce a valid structured result. It is shaped
// exactly like a normal record so callers never special-case failure.
func fallbackProblem(difficulty int) *Problem {
	return &Problem{
		Prompt:     "What is 2 + 2?",
		Answer:     "4",
		Solution:   "Start with 2 and count up two more: 3, then 4.\n\n2 + 2 = 4",
		Kind:       KindText,
		Difficulty: ClampDifficulty(difficulty),
		CreatedAt:  time.Now(),
	}
}
