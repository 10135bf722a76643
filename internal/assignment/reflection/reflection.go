// Package reflection grades the draft / reflect / revise notebook.
package reflection

import (
	"strings"

	"nbgrade/internal/domain"
	"nbgrade/internal/grading"
	"nbgrade/internal/namespace"
)

// Name identifies the assignment.
const Name = "reflection"

// Neutral inputs
const draftIn = "x"

var (
	draftText    = strings.Repeat("A", 120)
	feedbackText = strings.Repeat("B", 60)
)

// Registry returns the part table of the assignment.
func Registry() *grading.Registry {
	return grading.NewRegistry(Name,
		grading.Part{ID: "1", Object: "GenerateDraft", Factory: part1},
		grading.Part{ID: "2", Object: "ReflectOnDraft", Factory: part2},
		grading.Part{ID: "3", Object: "ReviseDraft", Factory: part3},
	)
}

// GenerateDraft(topic string) string
func part1(learner, _ namespace.Namespace) grading.GradingFunc {
	return grading.ObjectToGrade(learner, "GenerateDraft", func(sym namespace.Symbol) []domain.TestCase {
		e := grading.NewEvaluator(sym)
		var draft string
		return e.Run(
			e.ExpectCallable(1),
			e.Invoke(draftIn),
			e.ReturnsString(&draft, ""),
			e.Check(func() domain.TestCase {
				return grading.LongerThan(draft, 100,
					"GenerateDraft must return text with length > 100 (got %d)", "")
			}),
		)
	})
}

// ReflectOnDraft(draft string) string
func part2(learner, _ namespace.Namespace) grading.GradingFunc {
	return grading.ObjectToGrade(learner, "ReflectOnDraft", func(sym namespace.Symbol) []domain.TestCase {
		e := grading.NewEvaluator(sym)
		var reflection string
		return e.Run(
			e.ExpectCallable(1),
			e.Invoke(draftText),
			func() grading.Outcome {
				return grading.Continue(grading.Pass("ReflectOnDraft ran without error", "no exception", "no exception"))
			},
			e.ReturnsString(&reflection, "ReflectOnDraft returns a string"),
		)
	})
}

// ReviseDraft(draft, feedback string) string
func part3(learner, _ namespace.Namespace) grading.GradingFunc {
	return grading.ObjectToGrade(learner, "ReviseDraft", func(sym namespace.Symbol) []domain.TestCase {
		e := grading.NewEvaluator(sym)
		var revised string
		return e.Run(
			e.ExpectCallable(2),
			e.Invoke(draftText, feedbackText),
			e.ReturnsString(&revised, ""),
			e.Check(func() domain.TestCase {
				return grading.LongerThan(revised, 100,
					"ReviseDraft must return text with length > 100 (got %d)", "")
			}),
		)
	})
}
