package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/pantrykit/pantry/internal/devserver"
)

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	*RootOptions
	Addr      string
	Database  string
	SeedAdmin string
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run a local recipe box server",
		Long: `Run a local recipe box server backed by SQLite.

The server speaks the same HTTP API the CLI talks to, which makes it
useful for local development and for trying the client end to end.

Example:
  pantry serve --db ./pantry.db
  pantry serve --db /tmp/pantry.db --addr :9000 --seed-admin admin:hunter2`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Addr, "addr", ":8081", "listen address")
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	cmd.Flags().StringVar(&opts.SeedAdmin, "seed-admin", "", "seed an admin account as user:password")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runServe(opts *ServeOptions, cmd *cobra.Command) error {
	slog.Info("opening database", "path", opts.Database)
	store, err := devserver.OpenStore(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()

	srv := devserver.NewServer(store, slog.Default())

	if opts.SeedAdmin != "" {
		user, pass, ok := strings.Cut(opts.SeedAdmin, ":")
		if !ok || user == "" || pass == "" {
			return NewExitError(ExitCommandError, "invalid --seed-admin, expected user:password")
		}
		email := user + "@localhost"
		if err := srv.SeedUser(cmd.Context(), user, email, pass, true); err != nil {
			return WrapExitError(ExitCommandError, "failed to seed admin", err)
		}
		slog.Info("admin account ready", "username", user)
	}

	httpSrv := &http.Server{
		Addr:    opts.Addr,
		Handler: srv.Router(),
	}

	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, cancel := context.WithCancel(parentCtx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case sig := <-sigChan:
			slog.Info("received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	errChan := make(chan error, 1)
	go func() {
		slog.Info("listening", "addr", opts.Addr)
		errChan <- httpSrv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			return WrapExitError(ExitCommandError, "shutdown failed", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Server stopped.")
		return nil
	case err := <-errChan:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return WrapExitError(ExitCommandError, "server failed", err)
	}
}
