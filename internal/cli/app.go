package cli

import (
	"errors"
	"log/slog"

	"github.com/pantrykit/pantry/internal/config"
	"github.com/pantrykit/pantry/internal/gateway"
	"github.com/pantrykit/pantry/internal/reconcile"
	"github.com/pantrykit/pantry/internal/session"
)

// Error codes used in JSON output.
const (
	CodeAuth       = "E_AUTH"
	CodeForbidden  = "E_FORBIDDEN"
	CodeNotFound   = "E_NOT_FOUND"
	CodeConflict   = "E_CONFLICT"
	CodeValidation = "E_VALIDATION"
	CodeTimeout    = "E_TIMEOUT"
	CodeServer     = "E_SERVER"
	CodeInternal   = "E_INTERNAL"
)

// App bundles the client-side pieces every command needs: the loaded
// config, the persistent session, the request gateway and the two
// entity collections.
type App struct {
	Config      *config.Config
	Session     *session.Store
	Gateway     *gateway.Client
	Recipes     *reconcile.Recipes
	Ingredients *reconcile.Ingredients
}

// newApp loads config and session state and wires the client stack.
func newApp(opts *RootOptions) (*App, error) {
	path := opts.Config
	if path == "" {
		var err error
		path, err = config.DefaultPath()
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "resolve config path", err)
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "load config", err)
	}
	if opts.Server != "" {
		cfg.Server = opts.Server
	}

	sess, err := session.Open(cfg.Session)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "load session", err)
	}

	gw := gateway.New(cfg.Server, sess,
		gateway.WithTimeout(cfg.RequestTimeout()),
		gateway.WithLogger(slog.Default()),
	)

	return &App{
		Config:      cfg,
		Session:     sess,
		Gateway:     gw,
		Recipes:     reconcile.NewRecipes(gw, sess),
		Ingredients: reconcile.NewIngredients(gw),
	}, nil
}

// classify maps gateway and reconciler errors onto an output code and
// a user-facing message.
func classify(err error) (code, message string) {
	switch {
	case gateway.IsTimeout(err):
		return CodeTimeout, "the server took too long to respond"
	case gateway.IsAuthFailure(err):
		return CodeAuth, "not logged in (session cleared, please log in again)"
	case gateway.IsConflict(err):
		// Prefer the server's own conflict message.
		var conflictErr *gateway.ServerError
		if errors.As(err, &conflictErr) && conflictErr.Body != "" {
			return CodeConflict, conflictErr.Body
		}
		return CodeConflict, "already exists"
	case reconcile.IsForbidden(err):
		return CodeForbidden, err.Error()
	case reconcile.IsNotFound(err):
		return CodeNotFound, err.Error()
	case reconcile.IsValidation(err):
		return CodeValidation, err.Error()
	}

	var serverErr *gateway.ServerError
	if errors.As(err, &serverErr) {
		return CodeServer, serverErr.Error()
	}
	var netErr *gateway.NetworkError
	if errors.As(err, &netErr) {
		return CodeServer, "could not reach the server: " + netErr.Err.Error()
	}
	return CodeInternal, err.Error()
}

// reportError prints err through the formatter and converts it to an
// ExitError so main exits with the right code.
func reportError(f *OutputFormatter, err error) error {
	code, message := classify(err)
	if ferr := f.Error(code, message, nil); ferr != nil {
		return ferr
	}
	return WrapExitError(ExitFailure, message, err)
}
