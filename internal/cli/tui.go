package cli

import (
	"github.com/spf13/cobra"

	"github.com/pantrykit/pantry/internal/tui"
)

// NewTUICommand creates the tui command.
func NewTUICommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Browse the recipe box interactively",
		Long: `Open an interactive terminal UI.

Log in (or reuse the stored session), then browse, search, add and
delete recipes without leaving the screen.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(rootOpts)
			if err != nil {
				return err
			}
			if err := tui.Run(app.Session, app.Gateway, app.Recipes); err != nil {
				return WrapExitError(ExitCommandError, "tui failed", err)
			}
			return nil
		},
	}
}
