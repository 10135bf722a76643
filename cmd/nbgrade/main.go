package main

import (
	"fmt"
	"os"

	"nbgrade/internal/cli"
	"nbgrade/internal/cli/commands"
	"nbgrade/internal/config"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	// Create root command
	rootCmd := &cobra.Command{
		Use:     "nbgrade",
		Short:   "Notebook autograder",
		Long:    `Grade learner notebooks: compile the graded cells, run the checks of an assignment part against the learner's functions and report a score with feedback.`,
		Version: version,
	}

	// Create initial config with defaults; flags, environment and manifest are applied before each command runs
	cfg := config.New()

	var flags cli.Flags

	cmds := commands.NewCommands(cfg, os.Stdout)
	cmds.Register(rootCmd, &flags)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
