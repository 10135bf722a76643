package commands

import (
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"nbgrade/internal/discovery"
	"nbgrade/internal/execution"
	"nbgrade/internal/feedback"
	"nbgrade/internal/grader"
	"nbgrade/internal/storage"
	"nbgrade/internal/ui"
)

// BatchCommand handles the batch command
type BatchCommand struct {
	runtime   *runtime
	scanner   *discovery.Scanner
	filter    *discovery.Filter
	formatter *ui.Formatter
}

// NewBatchCommand creates a new BatchCommand
func NewBatchCommand(rt *runtime, scanner *discovery.Scanner, filter *discovery.Filter, formatter *ui.Formatter) *BatchCommand {
	return &BatchCommand{
		runtime:   rt,
		scanner:   scanner,
		filter:    filter,
		formatter: formatter,
	}
}

// Execute runs the command
func (bc *BatchCommand) Execute(cmd *cobra.Command, args []string) error {
	cfg := bc.runtime.config
	if cfg.Assignment == "" {
		return errNoAssignment
	}
	ctx := cmd.Context()

	root := cfg.WorkDir
	if len(args) > 0 {
		root = args[0]
	}
	submissions, err := bc.scanner.Scan(root)
	if err != nil {
		return err
	}
	submissions = bc.filter.FilterByName(submissions, cfg.Flags.NameFilter)
	if len(submissions) == 0 {
		color.Yellow("No notebooks to grade")
		return nil
	}

	// Runs go to the MySQL history only; the last-run file belongs to grade.
	var history storage.Storage
	db, err := bc.runtime.history(ctx)
	if err != nil {
		return err
	}
	if db != nil {
		history = db
	}

	g := grader.New(cfg, bc.runtime.compiler(), feedback.Discard, history, bc.runtime.logger)
	pool := execution.NewWorkerPool(cfg, execution.NewRunner(g, bc.runtime.logger), execution.NewRoundRobinScheduler())
	pool.SetProgress(ui.NewProgressBar(len(submissions), os.Stderr))

	results, duration, execErr := pool.Execute(ctx, submissions)

	output, err := storage.NewJSONStorage(cfg).SaveBatch(results, cfg.Assignment, cfg.PartID, duration, cfg.Processors)
	if err != nil {
		return err
	}
	bc.formatter.PrintBatchSummary(output)
	return execErr
}
