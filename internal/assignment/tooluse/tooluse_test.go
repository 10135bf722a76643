package tooluse

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nbgrade/internal/domain"
	"nbgrade/internal/namespace"
)

func grade(t *testing.T, partID string, learner namespace.Namespace) []domain.TestCase {
	t.Helper()
	factory, err := Registry().Resolve(partID)
	require.NoError(t, err)
	return factory(learner, nil)()
}

func TestGenerateResearchReportWithTools(t *testing.T) {
	t.Run("non-trivial report", func(t *testing.T) {
		fn := func(p string) string { return "A report on " + p + " with citations and analysis." }
		cases := grade(t, "1", namespace.Funcs{"GenerateResearchReportWithTools": fn})
		require.Len(t, cases, 2)
		assert.False(t, cases[0].Failed)
		assert.Equal(t, "returns a string", cases[0].Message)
		assert.False(t, cases[1].Failed)
	})

	t.Run("whitespace does not count", func(t *testing.T) {
		fn := func(string) string { return "   short   " + strings.Repeat(" ", 80) }
		cases := grade(t, "1", namespace.Funcs{"GenerateResearchReportWithTools": fn})
		require.Len(t, cases, 2)
		assert.True(t, cases[1].Failed)
		assert.Equal(t, "5", cases[1].Got)
	})
}

func TestReflectionAndRewrite(t *testing.T) {
	good := func(string) map[string]string {
		return map[string]string{
			"reflection":     "Strengths: clear. Limitations: few sources. Suggestions: cite. Opportunities: expand.",
			"revised_report": strings.Repeat("r", 80),
		}
	}

	t.Run("well formed result passes all four checks", func(t *testing.T) {
		cases := grade(t, "2", namespace.Funcs{"ReflectionAndRewrite": good})
		require.Len(t, cases, 4)
		for _, c := range cases {
			assert.False(t, c.Failed, c.Message)
		}
	})

	t.Run("missing key stops", func(t *testing.T) {
		fn := func(string) map[string]any { return map[string]any{"reflection": "x"} }
		cases := grade(t, "2", namespace.Funcs{"ReflectionAndRewrite": fn})
		require.Len(t, cases, 1)
		assert.Equal(t, domain.KindTypeMismatch, cases[0].Kind)
		assert.Equal(t, "[reflection]", cases[0].Got)
	})

	t.Run("non-string values stop", func(t *testing.T) {
		fn := func(string) map[string]any { return map[string]any{"reflection": 1, "revised_report": "x"} }
		cases := grade(t, "2", namespace.Funcs{"ReflectionAndRewrite": fn})
		require.Len(t, cases, 1)
		assert.Equal(t, "[int string]", cases[0].Got)
	})

	t.Run("content violations do not stop", func(t *testing.T) {
		fn := func(string) map[string]string {
			return map[string]string{"reflection": "Strengths only", "revised_report": "tiny"}
		}
		cases := grade(t, "2", namespace.Funcs{"ReflectionAndRewrite": fn})
		require.Len(t, cases, 4)
		assert.False(t, cases[0].Failed)
		assert.False(t, cases[1].Failed)
		assert.True(t, cases[2].Failed)
		assert.Equal(t, "[strengths]", cases[2].Got)
		assert.True(t, cases[3].Failed)
	})

	t.Run("slice instead of map", func(t *testing.T) {
		fn := func(string) []string { return []string{"a"} }
		cases := grade(t, "2", namespace.Funcs{"ReflectionAndRewrite": fn})
		require.Len(t, cases, 1)
		assert.Equal(t, "ReflectionAndRewrite must return a map", cases[0].Message)
	})

	t.Run("grading twice is stable", func(t *testing.T) {
		first := grade(t, "2", namespace.Funcs{"ReflectionAndRewrite": good})
		second := grade(t, "2", namespace.Funcs{"ReflectionAndRewrite": good})
		if diff := cmp.Diff(first, second); diff != "" {
			t.Errorf("cases differ between runs (-first +second):\n%s", diff)
		}
	})
}

func TestConvertReportToHTML(t *testing.T) {
	t.Run("html passes", func(t *testing.T) {
		fn := func(string) string { return "<h1>Title</h1><p>body</p>" }
		cases := grade(t, "3", namespace.Funcs{"ConvertReportToHTML": fn})
		require.Len(t, cases, 1)
		assert.False(t, cases[0].Failed)
	})

	t.Run("plain text fails with the head echoed", func(t *testing.T) {
		fn := func(string) string { return "plain text, no markup" }
		cases := grade(t, "3", namespace.Funcs{"ConvertReportToHTML": fn})
		require.Len(t, cases, 1)
		assert.True(t, cases[0].Failed)
		assert.Equal(t, "plain text, no markup", cases[0].Got)
	})

	t.Run("echo is capped at 80 characters", func(t *testing.T) {
		fn := func(string) string { return strings.Repeat("z", 200) }
		cases := grade(t, "3", namespace.Funcs{"ConvertReportToHTML": fn})
		require.Len(t, cases, 1)
		assert.Len(t, cases[0].Got, 80)
	})

	t.Run("panic is reported by type", func(t *testing.T) {
		fn := func(string) string { panic(assert.AnError) }
		cases := grade(t, "3", namespace.Funcs{"ConvertReportToHTML": fn})
		require.Len(t, cases, 1)
		assert.Contains(t, cases[0].Message, "*errors.errorString")
	})
}
