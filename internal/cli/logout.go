package cli

import (
	"github.com/spf13/cobra"
)

// NewLogoutCommand creates the logout command.
func NewLogoutCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Log out and clear the session",
		Long: `Log out from the recipe box service.

The token is revoked on the server when possible, and the local
session file is removed either way.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := &OutputFormatter{
				Format:    rootOpts.Format,
				Writer:    cmd.OutOrStdout(),
				ErrWriter: cmd.ErrOrStderr(),
				Verbose:   rootOpts.Verbose,
			}

			app, err := newApp(rootOpts)
			if err != nil {
				return err
			}

			app.Gateway.Logout(cmd.Context())
			return formatter.Success("Logged out.")
		},
	}

	return cmd
}
