package devserver

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := OpenStore(filepath.Join(t.TempDir(), "pantry.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestCreateUserRejectsDuplicates(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.CreateUser(ctx, "alice", "alice@example.com", "hash", false))

	err := store.CreateUser(ctx, "alice", "other@example.com", "hash", false)
	assert.ErrorIs(t, err, ErrExists)

	err = store.CreateUser(ctx, "bob", "alice@example.com", "hash", false)
	assert.ErrorIs(t, err, ErrExists)
}

func TestTokenLifecycle(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.CreateUser(ctx, "alice", "alice@example.com", "hash", true))
	alice, err := store.UserByUsername(ctx, "alice")
	require.NoError(t, err)

	require.NoError(t, store.InsertToken(ctx, "tok-1", alice.ID))

	user, err := store.TokenUser(ctx, "tok-1")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.True(t, user.Admin)

	require.NoError(t, store.DeleteToken(ctx, "tok-1"))

	_, err = store.TokenUser(ctx, "tok-1")
	assert.ErrorIs(t, err, ErrNotFound)

	// Revoking an already revoked token is a no-op.
	assert.NoError(t, store.DeleteToken(ctx, "tok-1"))
}

func TestRecipeCRUD(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	recipes, err := store.ListRecipes(ctx)
	require.NoError(t, err)
	assert.Empty(t, recipes)
	assert.NotNil(t, recipes)

	id, err := store.InsertRecipe(ctx, "Olive Oil Cake", "Mix and bake.")
	require.NoError(t, err)

	require.NoError(t, store.UpdateRecipeInstructions(ctx, id, "Whisk, then bake."))

	recipes, err = store.ListRecipes(ctx)
	require.NoError(t, err)
	require.Len(t, recipes, 1)
	assert.Equal(t, "Whisk, then bake.", recipes[0].Instructions)

	require.NoError(t, store.DeleteRecipe(ctx, id))

	assert.ErrorIs(t, store.UpdateRecipeInstructions(ctx, id, "x"), ErrNotFound)
	assert.ErrorIs(t, store.DeleteRecipe(ctx, id), ErrNotFound)
}

func TestIngredientCRUD(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id, err := store.InsertIngredient(ctx, "Flour")
	require.NoError(t, err)

	ingredients, err := store.ListIngredients(ctx)
	require.NoError(t, err)
	require.Len(t, ingredients, 1)
	assert.Equal(t, "Flour", ingredients[0].Name)

	require.NoError(t, store.DeleteIngredient(ctx, id))
	assert.ErrorIs(t, store.DeleteIngredient(ctx, id), ErrNotFound)
}
