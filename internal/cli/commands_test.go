package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pantrykit/pantry/internal/devserver"
)

// testEnv spins up a local server and a config file pointing at it.
type testEnv struct {
	server     *httptest.Server
	configPath string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store, err := devserver.OpenStore(filepath.Join(t.TempDir(), "pantry.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	srv := devserver.NewServer(store, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, srv.SeedUser(context.Background(), "admin", "admin@example.com", "hunter2", true))
	require.NoError(t, srv.SeedUser(context.Background(), "casual", "casual@example.com", "hunter2", false))

	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)

	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	sessionPath := filepath.Join(dir, "session.yaml")
	cfg := fmt.Sprintf("server: %s\nsession: %s\ntimeout: 5\n", ts.URL, sessionPath)
	require.NoError(t, os.WriteFile(configPath, []byte(cfg), 0o644))

	return &testEnv{server: ts, configPath: configPath}
}

// run executes a pantry command against the test environment.
func (e *testEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := NewRootCommand()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append([]string{"--config", e.configPath}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestLoginCommand(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(t, "login", "admin", "--password", "hunter2")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged in as admin (admin).")
}

func TestLoginCommandBadPassword(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(t, "login", "admin", "--password", "wrong")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "E_AUTH")
}

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(t, "register", "carol", "carol@example.com", "--password", "s3cret")
	require.NoError(t, err)
	assert.Contains(t, out, "Account carol created")

	out, err = env.run(t, "register", "carol", "carol@example.com", "--password", "s3cret")
	require.Error(t, err)
	assert.Contains(t, out, "E_CONFLICT")

	out, err = env.run(t, "login", "carol", "--password", "s3cret")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged in as carol (member).")
}

func TestRecipeCommands(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.run(t, "login", "admin", "--password", "hunter2")
	require.NoError(t, err)

	out, err := env.run(t, "recipes", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No recipes found.")

	_, err = env.run(t, "recipes", "add", "Olive Oil Cake", "Mix and bake.")
	require.NoError(t, err)

	out, err = env.run(t, "recipes", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Olive Oil Cake")
	assert.Contains(t, out, "Mix and bake.")

	_, err = env.run(t, "recipes", "update", "olive oil cake", "Whisk, then bake.")
	require.NoError(t, err)

	out, err = env.run(t, "recipes", "search", "olive")
	require.NoError(t, err)
	assert.Contains(t, out, "Whisk, then bake.")

	_, err = env.run(t, "recipes", "delete", "Olive Oil Cake")
	require.NoError(t, err)

	out, err = env.run(t, "recipes", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No recipes found.")
}

func TestRecipeDeleteNeedsAdmin(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.run(t, "login", "casual", "--password", "hunter2")
	require.NoError(t, err)

	out, err := env.run(t, "recipes", "delete", "Anything")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "E_FORBIDDEN")
}

func TestRecipesListJSON(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.run(t, "login", "admin", "--password", "hunter2")
	require.NoError(t, err)
	_, err = env.run(t, "recipes", "add", "Salt Bread", "Knead, rest, bake.")
	require.NoError(t, err)

	out, err := env.run(t, "--format", "json", "recipes", "list")
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)

	items, ok := resp.Data.([]any)
	require.True(t, ok)
	require.Len(t, items, 1)
}

func TestIngredientCommands(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.run(t, "login", "casual", "--password", "hunter2")
	require.NoError(t, err)

	_, err = env.run(t, "ingredients", "add", "Flour")
	require.NoError(t, err)
	_, err = env.run(t, "ingredients", "add", "Salt")
	require.NoError(t, err)

	out, err := env.run(t, "ingredients", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "- Flour")
	assert.Contains(t, out, "- Salt")

	out, err = env.run(t, "ingredients", "search", "flo")
	require.NoError(t, err)
	assert.Contains(t, out, "- Flour")
	assert.NotContains(t, out, "- Salt")

	// No admin gate on ingredients.
	_, err = env.run(t, "ingredients", "delete", "flour")
	require.NoError(t, err)
}

func TestCommandsRequireLogin(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(t, "recipes", "list")
	require.Error(t, err)
	assert.Contains(t, out, "E_AUTH")
}

func TestLogoutCommand(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.run(t, "login", "casual", "--password", "hunter2")
	require.NoError(t, err)

	out, err := env.run(t, "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged out.")

	// The stored session is gone, so the next call is unauthenticated.
	out, err = env.run(t, "recipes", "list")
	require.Error(t, err)
	assert.Contains(t, out, "E_AUTH")
}
