// Package tooluse grades the research report notebook: a tool-using report
// generator, a reflect-and-rewrite step and an HTML conversion.
package tooluse

import (
	"sort"
	"strings"

	"nbgrade/internal/domain"
	"nbgrade/internal/grading"
	"nbgrade/internal/namespace"
)

// Name identifies the assignment.
const Name = "tooluse"

// Neutral fixtures
const (
	prompt      = "Radio observations of recurrent novae"
	dummyReport = "This is a dummy research report about recurrent novae. " +
		"It should include claims that would normally require citations."
)

var reflectionMarkers = []string{"strengths", "limitations", "suggestions", "opportunities"}

// Registry returns the part table of the assignment.
func Registry() *grading.Registry {
	return grading.NewRegistry(Name,
		grading.Part{ID: "1", Object: "GenerateResearchReportWithTools", Factory: part1},
		grading.Part{ID: "2", Object: "ReflectionAndRewrite", Factory: part2},
		grading.Part{ID: "3", Object: "ConvertReportToHTML", Factory: part3},
	)
}

// GenerateResearchReportWithTools(prompt string) string
func part1(learner, _ namespace.Namespace) grading.GradingFunc {
	return grading.ObjectToGrade(learner, "GenerateResearchReportWithTools", func(sym namespace.Symbol) []domain.TestCase {
		e := grading.NewEvaluator(sym)
		var report string
		return e.Run(
			e.ExpectCallable(1),
			e.Invoke(prompt),
			e.ReturnsString(&report, "returns a string"),
			e.Check(func() domain.TestCase {
				return grading.LongerThan(strings.TrimSpace(report), 50,
					"report text should be non-trivial (length > 50). Got %d", "length > 50")
			}),
		)
	})
}

// ReflectionAndRewrite(report string) map[string]string
// with keys "reflection" and "revised_report".
func part2(learner, _ namespace.Namespace) grading.GradingFunc {
	return grading.ObjectToGrade(learner, "ReflectionAndRewrite", func(sym namespace.Symbol) []domain.TestCase {
		e := grading.NewEvaluator(sym)
		var reflection, revised string
		required := []string{"reflection", "revised_report"}

		return e.Run(
			e.ExpectCallable(1),
			e.Invoke(dummyReport),
			e.Shape(func(out any) grading.Outcome {
				m, ok := grading.AsStringMap(out)
				if !ok {
					return grading.Stop(grading.Fail(domain.KindTypeMismatch,
						"ReflectionAndRewrite must return a map", "map[string]string", grading.TypeOf(out)))
				}
				keys := sortedKeys(m)
				for _, k := range required {
					if _, present := m[k]; !present {
						return grading.Stop(grading.Fail(domain.KindTypeMismatch,
							"map must include keys 'reflection' and 'revised_report'", required, keys))
					}
				}
				pass := grading.Pass("map with required keys", required, keys)

				r, rok := grading.AsString(m["reflection"])
				rr, rrok := grading.AsString(m["revised_report"])
				if !rok || !rrok {
					got := []string{grading.TypeOf(m["reflection"]), grading.TypeOf(m["revised_report"])}
					return grading.Stop(grading.Fail(domain.KindTypeMismatch,
						"'reflection' and 'revised_report' must be strings", "string, string", got))
				}
				reflection, revised = r, rr
				return grading.Continue(pass, grading.Pass("values are strings", "string", "string"))
			}),
			e.Check(func() domain.TestCase {
				found := grading.MarkersIn(reflection, reflectionMarkers)
				if len(found) != len(reflectionMarkers) {
					return grading.Fail(domain.KindContentViolation,
						"reflection should mention Strengths, Limitations, Suggestions, Opportunities",
						reflectionMarkers, found)
				}
				return grading.Pass("reflection includes key sections", reflectionMarkers, found)
			}),
			e.Check(func() domain.TestCase {
				return grading.LongerThan(strings.TrimSpace(revised), 50,
					"revised_report should be non-trivial (length > 50)", "revised_report length > 50")
			}),
		)
	})
}

// ConvertReportToHTML(report string) string
func part3(learner, _ namespace.Namespace) grading.GradingFunc {
	return grading.ObjectToGrade(learner, "ConvertReportToHTML", func(sym namespace.Symbol) []domain.TestCase {
		e := grading.NewEvaluator(sym)
		var html string
		return e.Run(
			e.ExpectCallable(1),
			e.Invoke(dummyReport),
			e.ReturnsString(&html, ""),
			e.Check(func() domain.TestCase {
				head := grading.Truncate(html, 80)
				if !grading.LooksLikeHTML(html) {
					return grading.Fail(domain.KindContentViolation,
						"Output should look like HTML (e.g., contain <html>, <h1>, <p>, or closing tags)",
						"HTML-like string", head)
				}
				return grading.Pass("returns HTML-like string", "HTML-like", head)
			}),
		)
	})
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
