package grading

import "nbgrade/internal/domain"

// Outcome is the result of one grading step.
//
// A stopped outcome terminates the evaluation and its cases replace everything
// collected so far. A continued outcome appends its cases and moves on.
type Outcome struct {
	stop  bool
	cases []domain.TestCase
}

// Stop ends the evaluation reporting only cases.
func Stop(cases ...domain.TestCase) Outcome {
	return Outcome{stop: true, cases: cases}
}

// Continue records cases and proceeds to the next step.
func Continue(cases ...domain.TestCase) Outcome {
	return Outcome{cases: cases}
}

// Stopped reports whether the outcome ends the evaluation.
func (o Outcome) Stopped() bool {
	return o.stop
}

// Cases returns the cases carried by the outcome.
func (o Outcome) Cases() []domain.TestCase {
	return o.cases
}

// Step is one fallible stage of an exercise check.
type Step func() Outcome

// Pipeline runs steps in order and returns the collected cases.
func Pipeline(steps ...Step) []domain.TestCase {
	cases, _ := run(steps)
	return cases
}

func run(steps []Step) ([]domain.TestCase, bool) {
	cases := make([]domain.TestCase, 0, len(steps))
	for _, step := range steps {
		outcome := step()
		if outcome.stop {
			return append([]domain.TestCase(nil), outcome.cases...), true
		}
		cases = append(cases, outcome.cases...)
	}
	return cases, false
}
