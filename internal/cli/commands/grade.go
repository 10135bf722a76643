package commands

import (
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"nbgrade/internal/assignment"
	"nbgrade/internal/feedback"
	"nbgrade/internal/grader"
	"nbgrade/internal/storage"
	"nbgrade/internal/ui"
)

var errNoAssignment = errors.New("no assignment given: use --assignment or set it in the manifest")

// GradeCommand handles the grade command
type GradeCommand struct {
	runtime   *runtime
	formatter *ui.Formatter
	out       io.Writer
}

// NewGradeCommand creates a new GradeCommand
func NewGradeCommand(rt *runtime, formatter *ui.Formatter, out io.Writer) *GradeCommand {
	return &GradeCommand{runtime: rt, formatter: formatter, out: out}
}

// Execute runs the command
func (gc *GradeCommand) Execute(cmd *cobra.Command, args []string) error {
	cfg := gc.runtime.config
	if cfg.Assignment == "" {
		return errNoAssignment
	}
	ctx := cmd.Context()

	var st storage.Storage
	if !cfg.Flags.NoSave {
		var err error
		if st, err = gc.runtime.storage(ctx); err != nil {
			return err
		}
	}

	req := grader.Request{
		Assignment:     cfg.Assignment,
		PartID:         cfg.PartID,
		SubmissionPath: cfg.GetSubmissionPath(),
		SolutionPath:   cfg.GetSolutionPath(),
	}

	if cfg.Flags.AllParts {
		registry, err := assignment.Lookup(cfg.Assignment)
		if err != nil {
			return err
		}
		g := grader.New(cfg, gc.runtime.compiler(), feedback.Discard, st, gc.runtime.logger)
		for _, part := range registry.Parts() {
			req.PartID = part.ID
			run, err := g.Grade(ctx, req)
			if err != nil {
				return fmt.Errorf("part %q: %w", part.ID, err)
			}
			gc.formatter.PrintScorecard(run)
		}
		return nil
	}

	sender := feedback.NewFileSender(cfg.GetFeedbackPath())
	run, err := grader.New(cfg, gc.runtime.compiler(), sender, st, gc.runtime.logger).Grade(ctx, req)
	if err != nil {
		return err
	}

	gc.formatter.PrintScorecard(run)
	fmt.Fprintln(gc.out)
	if err := gc.formatter.PrintFeedback(run.Feedback); err != nil {
		return err
	}
	color.New(color.FgCyan).Fprintf(gc.out, "Feedback written to %s\n", sender.Path())
	return nil
}
