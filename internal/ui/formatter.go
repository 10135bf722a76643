package ui

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/fatih/color"

	"nbgrade/internal/config"
	"nbgrade/internal/discovery"
	"nbgrade/internal/domain"
	"nbgrade/internal/grading"
)

var (
	cyan   = color.New(color.FgCyan)
	green  = color.New(color.FgGreen)
	red    = color.New(color.FgRed)
	yellow = color.New(color.FgYellow)
	white  = color.New(color.FgWhite)
)

const (
	tableTop    = "┌─────────────────────────────────┬─────────────────────────────┐"
	tableMiddle = "├─────────────────────────────────┼─────────────────────────────┤"
	tableBottom = "└─────────────────────────────────┴─────────────────────────────┘"
)

// Formatter formats and displays output
type Formatter struct {
	config *config.Config
	out    io.Writer
}

// NewFormatter creates a new Formatter writing to out
func NewFormatter(cfg *config.Config, out io.Writer) *Formatter {
	return &Formatter{config: cfg, out: out}
}

type row struct {
	label string
	value string
	c     *color.Color
}

func (f *Formatter) printTitle(title string) {
	fmt.Fprintln(f.out)
	cyan.Fprintln(f.out, "╔═══════════════════════════════════════════════════════════════╗")
	cyan.Fprintf(f.out, "║%s║\n", center(title, 63))
	cyan.Fprintln(f.out, "╚═══════════════════════════════════════════════════════════════╝")
	fmt.Fprintln(f.out)
}

func (f *Formatter) printTable(rows []row) {
	fmt.Fprintln(f.out, tableTop)
	for i, r := range rows {
		fmt.Fprintf(f.out, "│ %-31s │ ", r.label)
		r.c.Fprintf(f.out, "%-27s", truncateCell(r.value, 27))
		fmt.Fprintln(f.out, " │")
		if i < len(rows)-1 {
			fmt.Fprintln(f.out, tableMiddle)
		}
	}
	fmt.Fprintln(f.out, tableBottom)
}

// PrintScorecard prints the summary table of a run followed by its cases
func (f *Formatter) PrintScorecard(run *domain.GradingRun) {
	f.printTitle("Grading Results")

	part := run.PartID
	if part == "" {
		part = "-"
	}
	scoreColor := green
	if run.Feedback.Score < 1 {
		scoreColor = red
	}
	f.printTable([]row{
		{"Assignment", run.Assignment, white},
		{"Part", part, white},
		{"Submission", f.relative(run.Submission), white},
		{"Test Cases", fmt.Sprintf("%d", len(run.Cases)), white},
		{"Passed", fmt.Sprintf("%d", run.Passed()), green},
		{"Failed", fmt.Sprintf("%d", run.Failed()), red},
		{"Score", fmt.Sprintf("%.2f", run.Feedback.Score), scoreColor},
		{"Duration", fmt.Sprintf("%.2fs", run.Duration.Seconds()), white},
		{"Run ID", run.ID, white},
	})

	fmt.Fprintln(f.out)
	f.PrintCases(run.Cases)
}

// PrintCases prints the cases as a tree, failed cases with their expected and observed values
func (f *Formatter) PrintCases(cases []domain.TestCase) {
	if len(cases) == 0 {
		yellow.Fprintln(f.out, "No test cases were produced")
		return
	}
	for i, c := range cases {
		last := i == len(cases)-1
		branch, stem := "├── ", "│   "
		if last {
			branch, stem = "└── ", "    "
		}
		if !c.Failed {
			fmt.Fprint(f.out, branch)
			green.Fprintf(f.out, "✓ %s\n", c.Message)
			continue
		}
		fmt.Fprint(f.out, branch)
		red.Fprintf(f.out, "✗ %s", c.Message)
		if c.Kind.Fatal() {
			yellow.Fprintf(f.out, " (%s, later checks skipped)", c.Kind)
		}
		fmt.Fprintln(f.out)
		fmt.Fprintf(f.out, "%s├── expected: ", stem)
		yellow.Fprintln(f.out, c.Want)
		fmt.Fprintf(f.out, "%s└── got:      ", stem)
		yellow.Fprintln(f.out, c.Got)
	}
}

// PrintFeedback renders the learner-facing feedback as markdown
func (f *Formatter) PrintFeedback(fb domain.Feedback) error {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return fmt.Errorf("create markdown renderer: %w", err)
	}
	rendered, err := renderer.Render(FeedbackMarkdown(fb))
	if err != nil {
		return fmt.Errorf("render feedback: %w", err)
	}
	_, err = fmt.Fprint(f.out, rendered)
	return err
}

// FeedbackMarkdown lays feedback out as a markdown document.
func FeedbackMarkdown(fb domain.Feedback) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## Score: %.0f%%\n\n", fb.Score*100)
	if fb.IsError {
		b.WriteString("**Your submission could not be graded.**\n\n")
	}
	b.WriteString("```\n")
	b.WriteString(strings.TrimRight(fb.Message, "\n"))
	b.WriteString("\n```\n")
	return b.String()
}

// PrintBatchSummary prints the statistics of a batch and the submissions that did not reach full marks
func (f *Formatter) PrintBatchSummary(output *domain.BatchOutput) {
	meta := output.Meta
	f.printTitle("Batch Grading Statistics")

	f.printTable([]row{
		{"Assignment", meta.Assignment, white},
		{"Part", meta.PartID, white},
		{"Submissions", fmt.Sprintf("%d", meta.Submissions), white},
		{"Full Marks", fmt.Sprintf("%d", meta.FullMarks), green},
		{"Errored", fmt.Sprintf("%d", meta.Errored), red},
		{"Mean Score", fmt.Sprintf("%.2f", meta.MeanScore), white},
		{"Duration", fmt.Sprintf("%.2fs", meta.DurationSeconds), white},
		{"Workers", fmt.Sprintf("%d", meta.Workers), white},
		{"Timestamp", meta.Timestamp, white},
	})

	fmt.Fprintln(f.out)
	var pending []domain.BatchEntry
	for _, e := range output.Entries {
		if e.Error != "" || e.Run == nil || e.Run.Feedback.Score < 1 {
			pending = append(pending, e)
		}
	}
	if len(pending) == 0 {
		green.Fprintln(f.out, "✓ Every submission reached full marks!")
		return
	}

	red.Fprintf(f.out, "✗ %d submission(s) below full marks\n\n", len(pending))
	for i, e := range pending {
		branch := "├── "
		if i == len(pending)-1 {
			branch = "└── "
		}
		fmt.Fprint(f.out, branch)
		switch {
		case e.Error != "":
			red.Fprintf(f.out, "%s: %s\n", f.relative(e.Submission), e.Error)
		default:
			yellow.Fprintf(f.out, "%s: %.2f (%d/%d cases passed)\n",
				f.relative(e.Submission), e.Run.Feedback.Score, e.Run.Passed(), len(e.Run.Cases))
		}
	}
}

// PrintPartList prints the parts of an assignment with the function each one grades
func (f *Formatter) PrintPartList(assignment string, parts []grading.Part) {
	cyan.Fprintf(f.out, "%s (%d part(s))\n", assignment, len(parts))
	for i, p := range parts {
		branch := "├── "
		if i == len(parts)-1 {
			branch = "└── "
		}
		id := p.ID
		if id == "" {
			id = `""`
		}
		fmt.Fprintf(f.out, "%spart %s: ", branch, id)
		yellow.Fprintln(f.out, p.Object)
	}
}

// PrintFunctionList prints the functions a notebook defines, marking those in graded cells
func (f *Formatter) PrintFunctionList(path string, functions []discovery.Function) {
	green.Fprintf(f.out, "Found %d function(s) in %s:\n", len(functions), f.relative(path))
	for i, fn := range functions {
		branch := "├── "
		if i == len(functions)-1 {
			branch = "└── "
		}
		marker := ""
		if fn.Graded {
			marker = " " + green.Sprint("[graded]")
		}
		fmt.Fprintf(f.out, "%s%s (cell %d)%s\n", branch, yellow.Sprint(fn.Name), fn.Cell, marker)
	}
}

func (f *Formatter) relative(path string) string {
	if f.config == nil || path == "" {
		return path
	}
	if rel, err := filepath.Rel(f.config.WorkDir, path); err == nil && !strings.HasPrefix(rel, "..") {
		return rel
	}
	return path
}

func center(s string, width int) string {
	n := len([]rune(s))
	if n >= width {
		return s
	}
	left := (width - n) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", width-n-left)
}

func truncateCell(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
