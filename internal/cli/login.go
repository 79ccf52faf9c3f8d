package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pantrykit/pantry/internal/gateway"
)

// LoginOptions holds flags for the login command.
type LoginOptions struct {
	*RootOptions
	Password string
}

// NewLoginCommand creates the login command.
func NewLoginCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LoginOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "login <username>",
		Short: "Log in and store the session",
		Long: `Log in to the recipe box service.

On success the bearer token and admin flag are written to the session
file, and later commands use them automatically.

Example:
  pantry login alice
  pantry login alice --password s3cret`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogin(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Password, "password", "", "password (prompted when omitted)")

	return cmd
}

func runLogin(opts *LoginOptions, username string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	password := opts.Password
	if password == "" {
		var err error
		password, err = promptLine(cmd, "Password: ")
		if err != nil {
			return WrapExitError(ExitCommandError, "read password", err)
		}
	}

	app, err := newApp(opts.RootOptions)
	if err != nil {
		return err
	}

	if err := app.Gateway.Login(cmd.Context(), username, password); err != nil {
		// A 401 here means bad credentials, not an expired session.
		if gateway.IsAuthFailure(err) {
			if ferr := formatter.Error(CodeAuth, "incorrect login", nil); ferr != nil {
				return ferr
			}
			return WrapExitError(ExitFailure, "incorrect login", err)
		}
		return reportError(formatter, err)
	}

	role := "member"
	if app.Session.IsAdmin() {
		role = "admin"
	}
	return formatter.Success(fmt.Sprintf("Logged in as %s (%s).", username, role))
}

// promptLine writes a prompt to stderr and reads one line from stdin.
func promptLine(cmd *cobra.Command, prompt string) (string, error) {
	fmt.Fprint(cmd.ErrOrStderr(), prompt)
	reader := bufio.NewReader(cmd.InOrStdin())
	line, err := reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
