package reconcile

import (
	"context"
	"strings"

	"github.com/pantrykit/pantry/internal/session"
)

type recipeCreate struct {
	Name         string `json:"name"`
	Instructions string `json:"instructions"`
}

type recipeUpdate struct {
	Instructions string `json:"instructions"`
}

type ingredientCreate struct {
	Name string `json:"name"`
}

// Recipes reconciles the /recipes collection. Deletion is gated on the
// session's admin flag locally, before any request is sent; the server
// enforces the same rule independently.
type Recipes struct {
	col  *Collection[Recipe]
	sess *session.Store
}

// NewRecipes creates the recipe reconciler on top of the gateway.
func NewRecipes(gw Caller, sess *session.Store) *Recipes {
	return &Recipes{col: newCollection[Recipe](gw, "/recipes"), sess: sess}
}

// Refresh replaces the cache with the server's recipe list.
func (r *Recipes) Refresh(ctx context.Context) ([]Recipe, error) {
	return r.col.Refresh(ctx)
}

// Items returns the cached recipes in server order.
func (r *Recipes) Items() []Recipe {
	return r.col.Items()
}

// Search filters the cached recipes locally by name substring.
func (r *Recipes) Search(term string) []Recipe {
	return r.col.Search(term)
}

// Create validates the fields locally, posts the recipe, and refreshes
// the cache before reporting success.
func (r *Recipes) Create(ctx context.Context, name, instructions string) error {
	name = strings.TrimSpace(name)
	instructions = strings.TrimSpace(instructions)
	if name == "" {
		return newValidationError("name")
	}
	if instructions == "" {
		return newValidationError("instructions")
	}
	return r.col.create(ctx, recipeCreate{Name: name, Instructions: instructions})
}

// UpdateByName resolves the name against the cache (hydrating it if
// needed) and sends only the changed instructions to the server.
func (r *Recipes) UpdateByName(ctx context.Context, name, instructions string) error {
	name = strings.TrimSpace(name)
	instructions = strings.TrimSpace(instructions)
	if name == "" {
		return newValidationError("name")
	}
	if instructions == "" {
		return newValidationError("instructions")
	}

	recipe, err := r.col.lookup(ctx, name)
	if err != nil {
		return err
	}
	return r.col.updateByID(ctx, recipe.ID, recipeUpdate{Instructions: instructions})
}

// DeleteByName removes the recipe with the given name. Non-admin
// sessions are rejected here, before the name is even resolved, so a
// forbidden delete costs zero network calls.
func (r *Recipes) DeleteByName(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return newValidationError("name")
	}
	if !r.sess.IsAdmin() {
		return newForbiddenError("deleting a recipe")
	}

	recipe, err := r.col.lookup(ctx, name)
	if err != nil {
		return err
	}
	return r.col.deleteByID(ctx, recipe.ID)
}

// Ingredients reconciles the /ingredients collection. Ingredients have
// no update operation and no admin gate.
type Ingredients struct {
	col *Collection[Ingredient]
}

// NewIngredients creates the ingredient reconciler on top of the
// gateway.
func NewIngredients(gw Caller) *Ingredients {
	return &Ingredients{col: newCollection[Ingredient](gw, "/ingredients")}
}

// Refresh replaces the cache with the server's ingredient list.
func (i *Ingredients) Refresh(ctx context.Context) ([]Ingredient, error) {
	return i.col.Refresh(ctx)
}

// Items returns the cached ingredients in server order.
func (i *Ingredients) Items() []Ingredient {
	return i.col.Items()
}

// Search filters the cached ingredients locally by name substring.
func (i *Ingredients) Search(term string) []Ingredient {
	return i.col.Search(term)
}

// Create validates the name locally, posts the ingredient, and
// refreshes the cache before reporting success.
func (i *Ingredients) Create(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return newValidationError("name")
	}
	return i.col.create(ctx, ingredientCreate{Name: name})
}

// DeleteByName resolves the name against the cache and deletes the
// first match; a miss reports NotFound without a network call.
func (i *Ingredients) DeleteByName(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return newValidationError("name")
	}

	ing, err := i.col.lookup(ctx, name)
	if err != nil {
		return err
	}
	return i.col.deleteByID(ctx, ing.ID)
}
