package grading

import (
	"fmt"
	"reflect"

	"nbgrade/internal/domain"
)

// Pass builds a passing case.
func Pass(msg string, want, got any) domain.TestCase {
	return domain.TestCase{Message: msg, Want: Describe(want), Got: Describe(got)}
}

// Fail builds a failing case of the given kind.
func Fail(kind domain.CaseKind, msg string, want, got any) domain.TestCase {
	return domain.TestCase{
		Failed:  true,
		Kind:    kind,
		Message: msg,
		Want:    Describe(want),
		Got:     Describe(got),
	}
}

// Missing builds the case reported when the graded object is absent.
func Missing(name string) domain.TestCase {
	return Fail(domain.KindObjectMissing, fmt.Sprintf("%s was not found in your code", name), "func", nil)
}

// Describe renders a want/got value for display.
func Describe(v any) string {
	switch x := v.(type) {
	case nil:
		return "<nil>"
	case string:
		return x
	case reflect.Type:
		return x.String()
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprintf("%v", x)
	}
}

// TypeOf names the dynamic type of v.
func TypeOf(v any) string {
	if v == nil {
		return "<nil>"
	}
	return reflect.TypeOf(v).String()
}
