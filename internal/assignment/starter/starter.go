// Package starter grades the template notebook, whose single part only checks
// that the learner function exists and is a function.
package starter

import (
	"nbgrade/internal/domain"
	"nbgrade/internal/grading"
	"nbgrade/internal/namespace"
)

// Name identifies the assignment.
const Name = "starter"

// Registry returns the part table of the assignment.
func Registry() *grading.Registry {
	return grading.NewRegistry(Name,
		grading.Part{ID: "", Object: "LearnerFunc", Factory: part1},
	)
}

func part1(learner, _ namespace.Namespace) grading.GradingFunc {
	return grading.ObjectToGrade(learner, "LearnerFunc", func(sym namespace.Symbol) []domain.TestCase {
		e := grading.NewEvaluator(sym)
		return e.Run(e.ExpectCallable(namespace.AnyArity))
	})
}
