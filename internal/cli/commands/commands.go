package commands

import (
	"io"

	"github.com/spf13/cobra"

	"nbgrade/internal/cli"
	"nbgrade/internal/config"
	"nbgrade/internal/discovery"
	"nbgrade/internal/ui"
)

// Commands holds all CLI commands
type Commands struct {
	Grade *GradeCommand
	Batch *BatchCommand
	List  *ListCommand
	Cases *CasesCommand

	runtime *runtime
}

// NewCommands creates all commands with dependencies; output goes to out
func NewCommands(cfg *config.Config, out io.Writer) *Commands {
	rt := newRuntime(cfg)
	scanner := discovery.NewScanner(cfg.PathsToIgnore)
	filter := discovery.NewFilter()
	formatter := ui.NewFormatter(cfg, out)

	return &Commands{
		Grade:   NewGradeCommand(rt, formatter, out),
		Batch:   NewBatchCommand(rt, scanner, filter, formatter),
		List:    NewListCommand(rt, formatter),
		Cases:   NewCasesCommand(rt, ui.NewCaseViewer()),
		runtime: rt,
	}
}

// Register registers all commands with cobra
func (c *Commands) Register(rootCmd *cobra.Command, flags *cli.Flags) {
	rootCmd.PersistentFlags().StringVarP(&flags.WorkDir, "workdir", "w", "", "Working directory holding the manifest, .env and storage (default \".\")")
	rootCmd.PersistentFlags().StringVar(&flags.Manifest, "manifest", "", "Assignment manifest (default assignment.yaml in the working directory)")
	rootCmd.PersistentFlags().StringVar(&flags.LogLevel, "log-level", "", "Log level: debug, info, warn or error")
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return c.runtime.init(flags.ToConfigFlags())
	}
	rootCmd.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		c.runtime.close()
	}

	// Grade command
	gradeCmd := &cobra.Command{
		Use:   "grade",
		Short: "Grade one part of a submission",
		Long:  "Compile the graded cells of a learner notebook, run the checks of one part, print the scorecard and write the feedback file",
		Args:  cobra.NoArgs,
		RunE:  c.Grade.Execute,
	}
	gradeCmd.Flags().StringVarP(&flags.Assignment, "assignment", "a", "", "Assignment to grade (overrides the manifest)")
	gradeCmd.Flags().StringVarP(&flags.PartID, "part", "p", "", "Part id to grade")
	gradeCmd.Flags().StringVarP(&flags.Submission, "submission", "s", "", "Learner notebook (default submission.ipynb)")
	gradeCmd.Flags().StringVar(&flags.Solution, "solution", "", "Reference solution notebook")
	gradeCmd.Flags().StringVar(&flags.FeedbackFile, "feedback-file", "", "File the feedback JSON is written to (default feedback.json)")
	gradeCmd.Flags().BoolVar(&flags.AllParts, "all", false, "Grade every part of the assignment and only print the scorecards")
	gradeCmd.Flags().BoolVar(&flags.NoSave, "no-save", false, "Do not record the run in storage")
	rootCmd.AddCommand(gradeCmd)

	// Batch command
	batchCmd := &cobra.Command{
		Use:   "batch [dir]",
		Short: "Grade every notebook in a directory",
		Long:  "Discover submission notebooks below a directory and grade them in parallel",
		Args:  cobra.MaximumNArgs(1),
		RunE:  c.Batch.Execute,
	}
	batchCmd.Flags().StringVarP(&flags.Assignment, "assignment", "a", "", "Assignment to grade (overrides the manifest)")
	batchCmd.Flags().StringVarP(&flags.PartID, "part", "p", "", "Part id to grade")
	batchCmd.Flags().StringVar(&flags.Solution, "solution", "", "Reference solution notebook")
	batchCmd.Flags().IntVarP(&flags.Processors, "processors", "n", 0, "Number of workers (default 4)")
	batchCmd.Flags().StringVarP(&flags.NameFilter, "filter", "f", "", "Filter notebooks by name pattern (supports wildcards, e.g. '*alice*')")
	rootCmd.AddCommand(batchCmd)

	// List command
	listCmd := &cobra.Command{
		Use:   "list [assignment... | notebook]",
		Short: "List assignments and parts",
		Long:  "List the parts of the given (or every) assignment, or with --functions the functions a notebook defines",
		RunE:  c.List.Execute,
	}
	listCmd.Flags().BoolVar(&flags.Functions, "functions", false, "List the functions defined in the given notebook")
	rootCmd.AddCommand(listCmd)

	// Cases command
	casesCmd := &cobra.Command{
		Use:   "cases",
		Short: "View the test cases of the last run interactively",
		Long:  "Display the test cases of the last saved grading run in an interactive viewer",
		Args:  cobra.NoArgs,
		RunE:  c.Cases.Execute,
	}
	rootCmd.AddCommand(casesCmd)
}
