package ui

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"nbgrade/internal/domain"
)

// Viewer displays a grading run interactively
type Viewer interface {
	View(run *domain.GradingRun) error
}

// CaseViewer browses the test cases of a run in a TUI
type CaseViewer struct{}

// NewCaseViewer creates a new CaseViewer
func NewCaseViewer() *CaseViewer {
	return &CaseViewer{}
}

// View opens the viewer on run. It returns once the user exits.
func (cv *CaseViewer) View(run *domain.GradingRun) error {
	if len(run.Cases) == 0 {
		color.Yellow("No test cases recorded for run %s", run.ID)
		return nil
	}

	app := tview.NewApplication()
	onlyFailed := false
	var shown []int

	list := tview.NewList().
		ShowSecondaryText(false).
		SetHighlightFullLine(true)
	list.SetMainTextColor(tview.Styles.PrimaryTextColor).
		SetSelectedTextColor(tcell.ColorWhite).
		SetSelectedBackgroundColor(tcell.ColorDarkCyan)

	statsView := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(false)

	detailsView := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(true).
		SetWordWrap(true)

	detailsContainer := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(detailsView, 0, 1, false).
		AddItem(tview.NewBox(), 2, 0, false)

	rightSide := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(statsView, 3, 0, false).
		AddItem(detailsContainer, 0, 1, false)

	flex := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(list, 0, 1, true).
		AddItem(rightSide, 0, 2, false)

	headerView := tview.NewTextView().
		SetTextAlign(tview.AlignCenter).
		SetDynamicColors(true)

	updateDetails := func() {
		pos := list.GetCurrentItem()
		if pos < 0 || pos >= len(shown) {
			statsView.SetText("")
			detailsView.SetText("")
			return
		}
		idx := shown[pos]
		statsView.SetText(formatCaseStats(run, idx))
		detailsView.SetText(formatCaseDetails(run.Cases[idx]))
	}

	refresh := func() {
		shown = visibleCases(run.Cases, onlyFailed)
		list.Clear()
		for _, idx := range shown {
			list.AddItem(caseListText(run.Cases[idx], idx), "", 0, nil)
		}
		headerView.SetText(fmt.Sprintf(" Test Cases (%d total, %d failed) | ↑↓ navigate, [yellow]F[white] failed only, → details, ← back, Ctrl+C exit ",
			len(run.Cases), run.Failed()))
		updateDetails()
	}

	list.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyEnter, tcell.KeyRight:
			app.SetFocus(detailsView)
			return nil
		case tcell.KeyCtrlC:
			app.Stop()
			return nil
		case tcell.KeyRune:
			if event.Rune() == 'f' || event.Rune() == 'F' {
				onlyFailed = !onlyFailed
				refresh()
				return nil
			}
		}
		return event
	})

	detailsView.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyLeft, tcell.KeyEsc:
			app.SetFocus(list)
			return nil
		case tcell.KeyCtrlC:
			app.Stop()
			return nil
		}
		return event
	})

	list.SetChangedFunc(func(int, string, string, rune) {
		updateDetails()
	})

	refresh()

	mainLayout := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(headerView, 1, 0, false).
		AddItem(tview.NewBox(), 1, 0, false).
		AddItem(flex, 0, 1, true)

	if err := app.SetRoot(mainLayout, true).SetFocus(list).Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func visibleCases(cases []domain.TestCase, onlyFailed bool) []int {
	idx := make([]int, 0, len(cases))
	for i, c := range cases {
		if onlyFailed && !c.Failed {
			continue
		}
		idx = append(idx, i)
	}
	return idx
}

// caseListText renders a list entry using tview color tags.
func caseListText(c domain.TestCase, index int) string {
	if c.Failed {
		return fmt.Sprintf("[red]✗ [yellow]%d.[white] %s", index+1, tview.Escape(c.Message))
	}
	return fmt.Sprintf("[green]✓ [yellow]%d.[gray] %s[white]", index+1, tview.Escape(c.Message))
}

func formatCaseStats(run *domain.GradingRun, index int) string {
	part := run.PartID
	if part == "" {
		part = "-"
	}
	return fmt.Sprintf("[cyan]assignment:[white] [yellow]%s[white]  [cyan]part:[white] [yellow]%s[white]  [cyan]case:[white] [yellow]%d/%d[white]\n",
		run.Assignment, part, index+1, len(run.Cases))
}

func formatCaseDetails(c domain.TestCase) string {
	var b strings.Builder
	if c.Failed {
		fmt.Fprintf(&b, "[red]✗ %s[white]\n\n", tview.Escape(c.Message))
		fmt.Fprintf(&b, "[cyan]Kind:[white] %s\n\n", c.Kind)
	} else {
		fmt.Fprintf(&b, "[green]✓ %s[white]\n\n", tview.Escape(c.Message))
	}
	fmt.Fprintf(&b, "[yellow]Expected:[white]\n%s\n\n", tview.Escape(c.Want))
	fmt.Fprintf(&b, "[yellow]Got:[white]\n%s\n", tview.Escape(c.Got))
	return b.String()
}
