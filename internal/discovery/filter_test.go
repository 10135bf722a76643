package discovery

import (
	"testing"
)

func TestFilter_FilterByName(t *testing.T) {
	filter := NewFilter()
	notebooks := []string{"alice.ipynb", "bob.ipynb", "alice-resubmit.ipynb", "carol.ipynb"}

	tests := []struct {
		name     string
		paths    []string
		pattern  string
		expected int
	}{
		{"empty pattern returns all", notebooks, "", 4},
		{"wildcard pattern matches suffix", notebooks, "*bob.ipynb", 1},
		{"wildcard pattern matches substring", notebooks, "*alice*", 2},
		{"simple contains match", notebooks, "carol", 1},
		{"question mark glob", notebooks, "bo?.ipynb", 1},
		{"no matches", notebooks, "*dave*", 0},
		{"full path with wildcard", []string{"/subs/a/alice.ipynb", "/subs/b/bob.ipynb"}, "*alice.ipynb", 1},
		{"multiple wildcards", notebooks, "*alice*resubmit*", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := filter.FilterByName(tt.paths, tt.pattern)
			if len(result) != tt.expected {
				t.Errorf("expected %d matches, got %d", tt.expected, len(result))
			}
		})
	}
}

func TestFilter_FilterByName_EdgeCases(t *testing.T) {
	filter := NewFilter()

	t.Run("empty list", func(t *testing.T) {
		result := filter.FilterByName([]string{}, "*.ipynb")
		if len(result) != 0 {
			t.Errorf("expected empty result, got %d items", len(result))
		}
	})

	t.Run("wildcard-only patterns", func(t *testing.T) {
		if matchName("alice.ipynb", "**") != true {
			t.Error("expected ** to match as a glob")
		}
		if matchName("alice.ipynb", "?") {
			t.Error("expected single ? not to match a long name")
		}
	})
}
