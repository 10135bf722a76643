// Package agentic grades the multi-agent workflow notebook: a planner, a
// research agent, a writer and an editor.
package agentic

import (
	"strings"

	"nbgrade/internal/domain"
	"nbgrade/internal/grading"
	"nbgrade/internal/namespace"
)

// Name identifies the assignment.
const Name = "agentic"

// Neutral fixtures
const (
	topic              = "The ensemble Kalman filter for time series forecasting"
	taskWrite          = "Draft a concise summary (150-250 words) explaining the core idea and typical applications."
	taskEdit           = "Reflect on the draft and suggest improvements in structure, clarity, and citations."
	taskResearch       = "Find 3 key references and summarize them briefly."
	taskResearchTraced = "Summarize two seminal papers in one paragraph."
)

// minPlanSteps is the shortest acceptable plan.
const minPlanSteps = 3

// Registry returns the part table of the assignment.
func Registry() *grading.Registry {
	return grading.NewRegistry(Name,
		grading.Part{ID: "1", Object: "PlannerAgent", Factory: part1},
		grading.Part{ID: "2", Object: "ResearchAgent", Factory: part2},
		grading.Part{ID: "3", Object: "WriterAgent", Factory: textAgent("WriterAgent", taskWrite, "draft")},
		grading.Part{ID: "4", Object: "EditorAgent", Factory: textAgent("EditorAgent", taskEdit, "editor output")},
	)
}

// PlannerAgent(topic string) []string
func part1(learner, _ namespace.Namespace) grading.GradingFunc {
	return grading.ObjectToGrade(learner, "PlannerAgent", func(sym namespace.Symbol) []domain.TestCase {
		e := grading.NewEvaluator(sym)
		var steps []any
		var plan []string

		return e.Run(
			e.ExpectCallable(1),
			e.Invoke(topic),
			e.Shape(func(out any) grading.Outcome {
				items, ok := grading.AsList(out)
				if !ok {
					return grading.Stop(grading.Fail(domain.KindTypeMismatch,
						"PlannerAgent must return a list", "[]string", grading.TypeOf(out)))
				}
				steps = items
				return grading.Continue(grading.Pass("returns a list", "[]string", grading.TypeOf(out)))
			}),
			e.Shape(func(any) grading.Outcome {
				strs, ok := grading.AsStrings(steps)
				if !ok {
					return grading.Stop(grading.Fail(domain.KindTypeMismatch,
						"plan elements must be strings", "[]string", grading.TypesOf(steps)))
				}
				plan = strs
				return grading.Continue(grading.Pass("plan elements are strings", "[]string", "[]string"))
			}),
			e.Check(func() domain.TestCase {
				if len(plan) < minPlanSteps {
					return grading.Fail(domain.KindContentViolation,
						"plan should include at least 3 steps", "len(plan) >= 3", len(plan))
				}
				return grading.Pass("plan has at least 3 steps", "len(plan) >= 3", len(plan))
			}),
			e.Check(func() domain.TestCase {
				var last string
				if len(plan) > 0 {
					last = strings.ToLower(plan[len(plan)-1])
				}
				want := "mention of 'Markdown' or 'md'"
				if !grading.ContainsAny(last, "markdown", "md") {
					return grading.Fail(domain.KindContentViolation,
						"final step should mention generating a Markdown document", want, last)
				}
				return grading.Pass("final step mentions Markdown", want, last)
			}),
		)
	})
}

// ResearchAgent(task string, returnMessages bool) any
//
// The default call returns the text; with returnMessages set it returns the
// text and the message history, either as two results or a two-element []any.
func part2(learner, _ namespace.Namespace) grading.GradingFunc {
	return grading.ObjectToGrade(learner, "ResearchAgent", func(sym namespace.Symbol) []domain.TestCase {
		e := grading.NewEvaluator(sym)
		var text string

		return e.Run(
			e.ExpectCallable(2),
			e.InvokeLabeled("(default)", taskResearch, false),
			e.Shape(func(out any) grading.Outcome {
				s, ok := grading.AsString(out)
				if !ok {
					return grading.Stop(grading.Fail(domain.KindTypeMismatch,
						"ResearchAgent must return a string by default (returnMessages=false)", "string", grading.TypeOf(out)))
				}
				text = s
				return grading.Continue(grading.Pass("returns a string by default", "string", "string"))
			}),
			e.Check(func() domain.TestCase {
				return grading.LongerThan(strings.TrimSpace(text), 50,
					"output should be non-trivial (length > 50)", "output length > 50")
			}),
			e.InvokeLabeled("(returnMessages=true)", taskResearchTraced, true),
			e.Shape(func(out any) grading.Outcome {
				want := "(string, list)"
				first, second, ok := grading.AsPair(out)
				if ok {
					_, isText := grading.AsString(first)
					_, isList := grading.AsList(second)
					ok = isText && isList
				}
				if !ok {
					return grading.Stop(grading.Fail(domain.KindTypeMismatch,
						"with returnMessages=true, must return (string, messages list)", want, grading.TypeOf(out)))
				}
				return grading.Continue(grading.Pass("returns (string, messages list)", want, want))
			}),
		)
	})
}

// textAgent grades a func(task string) string whose output must be
// non-trivial; the writer and the editor share it.
func textAgent(object, task, label string) grading.WrapperFactory {
	return func(learner, _ namespace.Namespace) grading.GradingFunc {
		return grading.ObjectToGrade(learner, object, func(sym namespace.Symbol) []domain.TestCase {
			e := grading.NewEvaluator(sym)
			var out string
			return e.Run(
				e.ExpectCallable(1),
				e.Invoke(task),
				e.ReturnsString(&out, "returns a string"),
				e.Check(func() domain.TestCase {
					return grading.LongerThan(strings.TrimSpace(out), 50,
						label+" should be non-trivial (length > 50)", label+" length > 50")
				}),
			)
		})
	}
}
