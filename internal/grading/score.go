package grading

import (
	"fmt"
	"math"
	"strings"

	"nbgrade/internal/domain"
)

const (
	msgNoCases   = "The grader was unable to generate test cases for your implementation. This suggests a bug with your code, please revise your solution and try again."
	msgAllPassed = "All tests passed! Congratulations!"
)

// ComputeScore turns cases into a score in [0, 1] rounded to two decimals and
// a feedback message listing every failed case.
func ComputeScore(cases []domain.TestCase) (float64, string) {
	if len(cases) == 0 {
		return 0, msgNoCases
	}

	var failed []domain.TestCase
	for _, c := range cases {
		if c.Failed {
			failed = append(failed, c)
		}
	}

	score := 1 - float64(len(failed))/float64(len(cases))
	score = math.Round(score*100) / 100

	if len(failed) == 0 {
		return score, msgAllPassed
	}

	var b strings.Builder
	for _, c := range failed {
		fmt.Fprintf(&b, "Failed test case: %s.\nExpected: %s\nGot: %s\n\n", c.Message, c.Want, c.Got)
	}
	return score, strings.TrimRight(b.String(), "\n")
}

// GradedObjectMissing reports whether cases signal that the graded object was
// not found in the learner's code.
func GradedObjectMissing(cases []domain.TestCase) bool {
	return len(cases) == 1 && cases[0].Kind == domain.KindObjectMissing
}
