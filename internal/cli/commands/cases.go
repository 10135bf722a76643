package commands

import (
	"github.com/spf13/cobra"

	"nbgrade/internal/ui"
)

// CasesCommand handles the cases command
type CasesCommand struct {
	runtime *runtime
	viewer  ui.Viewer
}

// NewCasesCommand creates a new CasesCommand
func NewCasesCommand(rt *runtime, viewer ui.Viewer) *CasesCommand {
	return &CasesCommand{runtime: rt, viewer: viewer}
}

// Execute runs the command
func (cc *CasesCommand) Execute(cmd *cobra.Command, args []string) error {
	st, err := cc.runtime.storage(cmd.Context())
	if err != nil {
		return err
	}
	run, err := st.Load()
	if err != nil {
		return err
	}
	return cc.viewer.View(run)
}
