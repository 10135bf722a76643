package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nbgrade/internal/cli"
	"nbgrade/internal/config"
	"nbgrade/internal/domain"
	"nbgrade/internal/notebook"
	"nbgrade/internal/storage"
)

func execute(t *testing.T, args ...string) (string, *config.Config, error) {
	t.Helper()
	for _, key := range []string{config.EnvAssignment, config.EnvPartID, config.EnvSubmission, config.EnvSolution, config.EnvFeedbackFile, config.EnvMySQLDSN, config.EnvLogLevel, config.EnvProcessors} {
		t.Setenv(key, "")
	}
	previous := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = previous })

	var out bytes.Buffer
	cfg := config.New()
	var flags cli.Flags
	root := &cobra.Command{Use: "nbgrade", SilenceUsage: true, SilenceErrors: true}
	NewCommands(cfg, &out).Register(root, &flags)
	root.SetArgs(args)
	root.SetOut(&out)
	err := root.Execute()
	return out.String(), cfg, err
}

func writeNotebook(t *testing.T, path string, sources ...string) {
	t.Helper()
	nb := notebook.Notebook{NBFormat: 4}
	for _, src := range sources {
		nb.Cells = append(nb.Cells, notebook.Cell{
			Type:     "code",
			Source:   notebook.Source(src),
			Metadata: notebook.CellMetadata{Tags: []string{"graded"}},
		})
	}
	data, err := json.Marshal(nb)
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, data, 0644))
}

const passingDraft = `func GenerateDraft(topic string) string { return strings.Repeat("draft ", 30) }`

func TestListCommand(t *testing.T) {
	out, _, err := execute(t, "list", "--workdir", t.TempDir())
	require.NoError(t, err)
	for _, want := range []string{"agentic (4 part(s))", "reflection (3 part(s))", "starter (1 part(s))", "tooluse (3 part(s))", "PlannerAgent", "ConvertReportToHTML"} {
		assert.Contains(t, out, want)
	}

	_, _, err = execute(t, "list", "--workdir", t.TempDir(), "nope")
	assert.Error(t, err)
}

func TestListCommand_Functions(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sub.ipynb")
	writeNotebook(t, path, `import "strings"`, passingDraft)

	out, _, err := execute(t, "list", "--workdir", dir, "--functions", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Found 1 function(s)")
	assert.Contains(t, out, "GenerateDraft (cell 1) [graded]")

	_, _, err = execute(t, "list", "--workdir", dir, "--functions")
	assert.Error(t, err)
}

func TestGradeCommand(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "assignment.yaml"), []byte("assignment: reflection\n"), 0644))
	writeNotebook(t, filepath.Join(dir, "submission.ipynb"), `import "strings"`, passingDraft)

	out, cfg, err := execute(t, "grade", "--workdir", dir, "--part", "1")
	require.NoError(t, err)
	assert.Equal(t, "reflection", cfg.Assignment)
	assert.Contains(t, out, "Grading Results")
	assert.Contains(t, out, "Feedback written to")

	data, err := os.ReadFile(filepath.Join(dir, "feedback.json"))
	require.NoError(t, err)
	var fb domain.Feedback
	require.NoError(t, json.Unmarshal(data, &fb))
	assert.Equal(t, 1.0, fb.Score)
	assert.Equal(t, "All tests passed! Congratulations!", fb.Message)

	run, err := storage.NewJSONStorage(cfg).Load()
	require.NoError(t, err)
	assert.Equal(t, "1", run.PartID)
}

func TestGradeCommand_AllParts(t *testing.T) {
	dir := t.TempDir()
	writeNotebook(t, filepath.Join(dir, "submission.ipynb"), `import "strings"`, passingDraft)

	out, _, err := execute(t, "grade", "--workdir", dir, "--assignment", "reflection", "--all", "--no-save")
	require.NoError(t, err)
	assert.Contains(t, out, "GenerateDraft")
	assert.Contains(t, out, "ReflectOnDraft was not found in your code")
	assert.NoFileExists(t, filepath.Join(dir, "feedback.json"))
	assert.NoFileExists(t, filepath.Join(dir, "storage", "last-run.json"))
}

func TestGradeCommand_NoAssignment(t *testing.T) {
	_, _, err := execute(t, "grade", "--workdir", t.TempDir())
	assert.ErrorIs(t, err, errNoAssignment)
}

func TestBatchCommand(t *testing.T) {
	dir := t.TempDir()
	subs := filepath.Join(dir, "subs")
	writeNotebook(t, filepath.Join(subs, "alice.ipynb"), `import "strings"`, passingDraft)
	writeNotebook(t, filepath.Join(subs, "bob.ipynb"), `func GenerateDraft(topic string) string { return topic }`)
	writeNotebook(t, filepath.Join(subs, "carol.ipynb"), `func Other() {}`)

	out, _, err := execute(t, "batch", subs, "--workdir", dir, "-a", "reflection", "-p", "1", "-n", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Batch Grading Statistics")
	assert.Contains(t, out, "✗ 2 submission(s) below full marks")

	data, err := os.ReadFile(filepath.Join(dir, "storage", storage.DefaultBatchFile))
	require.NoError(t, err)
	var output struct {
		Meta struct {
			Submissions int `json:"submissions"`
			FullMarks   int `json:"full_marks"`
			Errored     int `json:"errored"`
		} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(data, &output))
	assert.Equal(t, 3, output.Meta.Submissions)
	assert.Equal(t, 1, output.Meta.FullMarks)
	assert.Equal(t, 1, output.Meta.Errored)
}
