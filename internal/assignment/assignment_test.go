package assignment

import (
	"errors"
	"testing"
)

func TestLookup(t *testing.T) {
	for _, name := range Names() {
		r, err := Lookup(name)
		if err != nil {
			t.Fatalf("Lookup(%q): %v", name, err)
		}
		if r.Assignment() != name {
			t.Errorf("Lookup(%q) returned registry for %q", name, r.Assignment())
		}
		if len(r.Parts()) == 0 {
			t.Errorf("Lookup(%q) returned an empty registry", name)
		}
	}

	if _, err := Lookup("nope"); !errors.Is(err, ErrUnknownAssignment) {
		t.Errorf("expected ErrUnknownAssignment, got %v", err)
	}
}

func TestNames(t *testing.T) {
	want := []string{"agentic", "reflection", "starter", "tooluse"}
	got := Names()
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("expected %v, got %v", want, got)
		}
	}
}
