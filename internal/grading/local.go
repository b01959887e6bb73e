// Package grading checks learner answers against stored problems. The
// cheap local equivalence check runs first; only answers it cannot settle
// go to the LLM judge, which fails closed on any error.
package grading

import (
	"strconv"
	"strings"
)

// floatTolerance is the absolute tolerance for numeric comparison.
const floatTolerance = 1e-6

// Equivalent reports whether a learner answer matches the expected one
// without consulting the LLM. Both strings are trimmed and compared
// verbatim; failing that, both are parsed as floats and compared within
// a small absolute tolerance. Anything non-numeric that differs textually
// is not equivalent here and needs the judge.
func Equivalent(got, want string) bool {
	got = strings.TrimSpace(got)
	want = strings.TrimSpace(want)

	if got == want {
		return true
	}

	gf, gerr := strconv.ParseFloat(got, 64)
	wf, werr := strconv.ParseFloat(want, 64)
	if gerr != nil || werr != nil {
		return false
	}

	diff := gf - wf
	if diff < 0 {
		diff = -diff
	}
	return diff < floatTolerance
}
