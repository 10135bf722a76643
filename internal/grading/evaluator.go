package grading

import (
	"errors"
	"fmt"

	"nbgrade/internal/domain"
	"nbgrade/internal/namespace"
)

// State tracks how far the evaluation of one exercise got.
type State int

const (
	NotRun State = iota
	TypeChecked
	Invoked
	ShapeValidated
	ContentChecked
	Done
	Failed
)

func (s State) String() string {
	switch s {
	case NotRun:
		return "not_run"
	case TypeChecked:
		return "type_checked"
	case Invoked:
		return "invoked"
	case ShapeValidated:
		return "shape_validated"
	case ContentChecked:
		return "content_checked"
	case Done:
		return "done"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Evaluator runs the checks for a single graded function.
//
// Steps built from an Evaluator share its state: ExpectCallable binds the
// function, Invoke stores the latest output, and shape steps read it.
type Evaluator struct {
	sym   namespace.Symbol
	fn    *namespace.Callable
	out   any
	state State
}

// NewEvaluator prepares an evaluation of sym.
func NewEvaluator(sym namespace.Symbol) *Evaluator {
	return &Evaluator{sym: sym}
}

// Name returns the name of the graded function.
func (e *Evaluator) Name() string {
	return e.sym.Name()
}

// State returns the last state reached.
func (e *Evaluator) State() State {
	return e.state
}

// Run executes steps in order. The evaluation ends in Failed if a step
// stopped it, Done otherwise.
func (e *Evaluator) Run(steps ...Step) []domain.TestCase {
	cases, stopped := run(steps)
	if stopped {
		e.state = Failed
	} else {
		e.state = Done
	}
	return cases
}

// ExpectCallable checks that the symbol is a function of the given arity.
func (e *Evaluator) ExpectCallable(arity int) Step {
	return func() Outcome {
		fn, ok := e.sym.Callable(arity)
		if !ok {
			want := "func"
			if arity != namespace.AnyArity {
				want = fmt.Sprintf("func with %d argument(s)", arity)
			}
			return Stop(Fail(domain.KindTypeMismatch, e.Name()+" has incorrect type", want, e.sym.TypeName()))
		}
		e.fn = fn
		e.state = TypeChecked
		return Continue()
	}
}

// Invoke calls the function with fixed arguments.
func (e *Evaluator) Invoke(args ...any) Step {
	return e.InvokeLabeled("", args...)
}

// InvokeLabeled calls the function and tags a failure message with label,
// distinguishing several invocations of the same function.
func (e *Evaluator) InvokeLabeled(label string, args ...any) Step {
	return func() Outcome {
		if e.fn == nil {
			return Stop(Fail(domain.KindTypeMismatch, e.Name()+" has incorrect type", "func", e.sym.TypeName()))
		}
		out, err := e.fn.Call(args...)
		if err != nil {
			typeName := TypeOf(err)
			var invErr *namespace.InvocationError
			if errors.As(err, &invErr) {
				typeName = invErr.TypeName
			}
			if label != "" {
				typeName += " " + label
			}
			msg := fmt.Sprintf("%s raised %s: %v", e.Name(), typeName, err)
			return Stop(Fail(domain.KindInvocationFailure, msg, "no exception", err.Error()))
		}
		e.out = out
		e.state = Invoked
		return Continue()
	}
}

// Shape validates the latest output. check returns Stop on a mismatch.
func (e *Evaluator) Shape(check func(out any) Outcome) Step {
	return func() Outcome {
		outcome := check(e.out)
		if !outcome.stop {
			e.state = ShapeValidated
		}
		return outcome
	}
}

// ReturnsString requires the latest output to be a string and stores it in
// dst. A passing case is recorded only when passMsg is not empty.
func (e *Evaluator) ReturnsString(dst *string, passMsg string) Step {
	return e.Shape(func(out any) Outcome {
		s, ok := AsString(out)
		if !ok {
			return Stop(Fail(domain.KindTypeMismatch, e.Name()+" must return a string", "string", TypeOf(out)))
		}
		*dst = s
		if passMsg == "" {
			return Continue()
		}
		return Continue(Pass(passMsg, "string", TypeOf(out)))
	})
}

// Check records a content heuristic. Content violations never stop the
// evaluation; a failure of a fatal kind does.
func (e *Evaluator) Check(check func() domain.TestCase) Step {
	return func() Outcome {
		tc := check()
		if tc.Failed && tc.Kind.Fatal() {
			return Stop(tc)
		}
		e.state = ContentChecked
		return Continue(tc)
	}
}
