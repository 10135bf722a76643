package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"nbgrade/internal/assignment"
	"nbgrade/internal/discovery"
	"nbgrade/internal/notebook"
	"nbgrade/internal/ui"
)

// ListCommand handles the list command
type ListCommand struct {
	runtime   *runtime
	formatter *ui.Formatter
}

// NewListCommand creates a new ListCommand
func NewListCommand(rt *runtime, formatter *ui.Formatter) *ListCommand {
	return &ListCommand{runtime: rt, formatter: formatter}
}

// Execute runs the command
func (lc *ListCommand) Execute(cmd *cobra.Command, args []string) error {
	cfg := lc.runtime.config
	if cfg.Flags.Functions {
		if len(args) != 1 {
			return fmt.Errorf("--functions takes exactly one notebook, got %d argument(s)", len(args))
		}
		nb, err := notebook.Read(args[0])
		if err != nil {
			return err
		}
		functions := discovery.NewParser(cfg.Manifest.GradedTag).FindFunctions(nb)
		lc.formatter.PrintFunctionList(args[0], functions)
		return nil
	}

	names := args
	if len(names) == 0 {
		names = assignment.Names()
	}
	for _, name := range names {
		registry, err := assignment.Lookup(name)
		if err != nil {
			return err
		}
		lc.formatter.PrintPartList(name, registry.Parts())
	}
	return nil
}
