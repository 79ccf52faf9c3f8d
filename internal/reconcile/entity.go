// Package reconcile keeps locally cached entity lists consistent with
// the server's CRUD state and resolves human-entered names to
// server-assigned ids.
//
// The cache is replaced wholesale after every successful mutation and
// emptied on any failed refresh - it is never patched in place and
// never left stale, so the visible list can diverge from the server by
// at most one in-flight request.
package reconcile

// Entity is anything the server lists with an assigned id and a
// human-facing name. Names are the lookup key the user types; ids are
// what the API wants for update and delete.
type Entity interface {
	EntityID() int64
	EntityName() string
}

// Recipe is a named recipe with free-form instructions.
type Recipe struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Instructions string `json:"instructions"`
}

func (r Recipe) EntityID() int64    { return r.ID }
func (r Recipe) EntityName() string { return r.Name }

// Ingredient carries only a name besides its id.
type Ingredient struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func (i Ingredient) EntityID() int64    { return i.ID }
func (i Ingredient) EntityName() string { return i.Name }
