package discovery

import (
	"path/filepath"
	"strings"
)

// Filter filters notebook paths by file name
type Filter struct{}

// NewFilter creates a new Filter
func NewFilter() *Filter {
	return &Filter{}
}

// FilterByName keeps the paths whose base name matches pattern.
// Patterns with * or ? are globs ("*alice*.ipynb"); when the glob does not
// match, every literal fragment between wildcards must occur in the name.
// Patterns without wildcards match as substrings.
func (f *Filter) FilterByName(paths []string, pattern string) []string {
	if pattern == "" {
		return paths
	}

	var filtered []string
	for _, p := range paths {
		if matchName(filepath.Base(p), pattern) {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

func matchName(name, pattern string) bool {
	if !strings.ContainsAny(pattern, "*?") {
		return strings.Contains(name, pattern)
	}
	if ok, err := filepath.Match(pattern, name); err == nil && ok {
		return true
	}
	if !strings.Contains(pattern, "*") {
		return false
	}

	fragments := 0
	for _, part := range strings.Split(pattern, "*") {
		if part == "" {
			continue
		}
		if !strings.Contains(name, part) {
			return false
		}
		fragments++
	}
	return fragments > 0
}
