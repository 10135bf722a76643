package domain

import (
	"fmt"
	"strings"
)

// CaseKind classifies why a test case failed.
type CaseKind int

const (
	// KindPassed marks a case that did not fail.
	KindPassed CaseKind = iota
	// KindObjectMissing marks the graded object as absent from the learner namespace.
	KindObjectMissing
	// KindTypeMismatch marks a target or return value of the wrong kind.
	KindTypeMismatch
	// KindInvocationFailure marks an error or panic raised by learner code.
	KindInvocationFailure
	// KindContentViolation marks a failed content heuristic.
	KindContentViolation
)

var caseKindNames = map[CaseKind]string{
	KindPassed:            "passed",
	KindObjectMissing:     "object_missing",
	KindTypeMismatch:      "type_mismatch",
	KindInvocationFailure: "invocation_failure",
	KindContentViolation:  "content_violation",
}

func (k CaseKind) String() string {
	if name, ok := caseKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Fatal reports whether a failure of this kind ends the evaluation of an exercise.
func (k CaseKind) Fatal() bool {
	switch k {
	case KindObjectMissing, KindTypeMismatch, KindInvocationFailure:
		return true
	default:
		return false
	}
}

// MarshalText encodes the kind by name so stored runs stay readable.
func (k CaseKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a kind written by MarshalText.
func (k *CaseKind) UnmarshalText(text []byte) error {
	name := strings.TrimSpace(string(text))
	for kind, n := range caseKindNames {
		if n == name {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown case kind %q", name)
}

// TestCase is one pass/fail verdict with diagnostic metadata.
type TestCase struct {
	Failed  bool     `json:"failed"`
	Message string   `json:"msg"`
	Want    string   `json:"want"`
	Got     string   `json:"got"`
	Kind    CaseKind `json:"kind"`
}
