// Package gamify holds the scoring rules: points, levels, hearts and
// streak milestones. Everything here is pure arithmetic so the grading
// and stats paths can share one source of truth.
package gamify

// PointsPerCorrect is the flat XP award for a correct answer. Difficulty
// does not scale it.
const PointsPerCorrect = 10

// MaxHearts is the number of wrong answers a session absorbs before the
// client prompts for an easier run.
const MaxHearts = 3

// XPPerLevel is how much XP advances the learner one level.
const XPPerLevel = 100

// Award returns the XP earned for one graded attempt.
func Award(correct bool) int {
	if correct {
		return PointsPerCorrect
	}
	return 0
}

// Level converts lifetime XP to a 1-based level.
func Level(xp int) int {
	if xp < 0 {
		xp = 0
	}
	return xp/XPPerLevel + 1
}

// LevelProgress reports how far into the current level the learner is,
// as XP earned since the last level boundary.
func LevelProgress(xp int) int {
	if xp < 0 {
		xp = 0
	}
	return xp % XPPerLevel
}
