package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// RegisterOptions holds flags for the register command.
type RegisterOptions struct {
	*RootOptions
	Password string
}

// NewRegisterCommand creates the register command.
func NewRegisterCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RegisterOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "register <username> <email>",
		Short: "Create an account",
		Long: `Create an account on the recipe box service.

When --password is omitted the password is prompted twice and both
entries must match.

Example:
  pantry register alice alice@example.com`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRegister(opts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Password, "password", "", "password (prompted when omitted)")

	return cmd
}

func runRegister(opts *RegisterOptions, username, email string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	password := opts.Password
	if password == "" {
		first, err := promptLine(cmd, "Password: ")
		if err != nil {
			return WrapExitError(ExitCommandError, "read password", err)
		}
		second, err := promptLine(cmd, "Confirm password: ")
		if err != nil {
			return WrapExitError(ExitCommandError, "read password", err)
		}
		if first != second {
			if ferr := formatter.Error(CodeValidation, "passwords do not match", nil); ferr != nil {
				return ferr
			}
			return NewExitError(ExitFailure, "passwords do not match")
		}
		password = first
	}
	if password == "" {
		if ferr := formatter.Error(CodeValidation, "password must not be empty", nil); ferr != nil {
			return ferr
		}
		return NewExitError(ExitFailure, "password must not be empty")
	}

	app, err := newApp(opts.RootOptions)
	if err != nil {
		return err
	}

	if err := app.Gateway.Register(cmd.Context(), username, email, password); err != nil {
		return reportError(formatter, err)
	}
	return formatter.Success(fmt.Sprintf("Account %s created. You can now log in.", username))
}
