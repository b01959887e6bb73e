package gamify

// BaseStreakThreshold is the shortest streak that earns a bonus.
const BaseStreakThreshold = 5

// NextStreakMilestone returns the next streak length above current that
// awards a bonus.
func NextStreakMilestone(current int) int {
	milestones := []int{5, 10, 15, 20}
	for _, m := range milestones {
		if m > current {
			return m
		}
	}
	// Beyond 20, award every 5.
	return ((current / 5) + 1) * 5
}

// IsStreakMilestone reports whether a streak of length n earns a bonus.
func IsStreakMilestone(n int) bool {
	if n < BaseStreakThreshold {
		return false
	}
	return n%BaseStreakThreshold == 0
}
