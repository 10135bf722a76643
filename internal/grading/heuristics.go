package grading

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"nbgrade/internal/domain"
)

// Length counts characters, not bytes.
func Length(s string) int {
	return utf8.RuneCountInString(s)
}

// LongerThan checks that text has strictly more than min characters.
// failMsg may contain a %d verb which receives the observed length.
func LongerThan(text string, min int, failMsg, passMsg string) domain.TestCase {
	n := Length(text)
	want := fmt.Sprintf("> %d chars", min)
	if n <= min {
		if strings.Contains(failMsg, "%d") {
			failMsg = fmt.Sprintf(failMsg, n)
		}
		return Fail(domain.KindContentViolation, failMsg, want, n)
	}
	return Pass(passMsg, want, n)
}

// MarkersIn returns the markers contained in text, ignoring case, in marker order.
func MarkersIn(text string, markers []string) []string {
	lower := strings.ToLower(text)
	found := make([]string, 0, len(markers))
	for _, m := range markers {
		if strings.Contains(lower, strings.ToLower(m)) {
			found = append(found, m)
		}
	}
	return found
}

// ContainsAny reports whether text contains one of markers, ignoring case.
func ContainsAny(text string, markers ...string) bool {
	return len(MarkersIn(text, markers)) > 0
}

// LooksLikeHTML reports whether s carries an HTML root, heading, paragraph or closing tag.
func LooksLikeHTML(s string) bool {
	return ContainsAny(s, "<html", "</", "<h1", "<p")
}

// Truncate returns at most n characters of s.
func Truncate(s string, n int) string {
	if Length(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
