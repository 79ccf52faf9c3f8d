package reconcile

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/pantrykit/pantry/internal/gateway"
)

// Caller is the slice of the gateway the reconciler needs. Tests
// substitute a fake to count calls and script outcomes.
type Caller interface {
	Do(ctx context.Context, method, path string, body any) (*gateway.Result, error)
}

// Collection caches the server's list of one entity kind and keeps it
// consistent across mutations.
//
// Overlapping operations are permitted; the last refresh to complete
// determines the visible cache. No generation counters are kept, so a
// slow stale refresh can overwrite a newer one - an accepted limit of
// the refetch-after-mutation model.
type Collection[T Entity] struct {
	gw       Caller
	basePath string

	mu       sync.RWMutex
	items    []T
	hydrated bool
}

func newCollection[T Entity](gw Caller, basePath string) *Collection[T] {
	return &Collection[T]{gw: gw, basePath: basePath}
}

// Refresh fetches the server's list and replaces the cache with it.
// On any failure the cache becomes empty rather than keeping possibly
// stale entries, and the next lookup will hydrate again.
func (c *Collection[T]) Refresh(ctx context.Context) ([]T, error) {
	res, err := c.gw.Do(ctx, http.MethodGet, c.basePath, nil)
	if err != nil {
		c.setItems(nil, false)
		return nil, err
	}

	var items []T
	if err := res.Decode(&items); err != nil {
		c.setItems(nil, false)
		return nil, err
	}

	c.setItems(items, true)
	return c.Items(), nil
}

// Items returns a copy of the current cache in server order.
func (c *Collection[T]) Items() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

// Search filters the current cache by case-insensitive substring match
// on name. Purely local: it never touches the network, and an empty
// term returns the full cache unfiltered.
func (c *Collection[T]) Search(term string) []T {
	items := c.Items()
	term = strings.TrimSpace(term)
	if term == "" {
		return items
	}

	matched := make([]T, 0, len(items))
	for _, it := range items {
		if ContainsFold(it.EntityName(), term) {
			matched = append(matched, it)
		}
	}
	return matched
}

// lookup resolves a name to a cached entity, hydrating the cache first
// if it has never been populated. Duplicate names resolve to the first
// match in server-returned order; a miss is a NotFound error raised
// without any network call.
func (c *Collection[T]) lookup(ctx context.Context, name string) (T, error) {
	var zero T

	c.mu.RLock()
	hydrated := c.hydrated
	c.mu.RUnlock()
	if !hydrated {
		if _, err := c.Refresh(ctx); err != nil {
			return zero, fmt.Errorf("hydrate cache: %w", err)
		}
	}

	for _, it := range c.Items() {
		if EqualFold(it.EntityName(), name) {
			return it, nil
		}
	}
	return zero, newNotFoundError(name)
}

// create posts a new entity and refreshes, so the caller-visible state
// reflects the server's id assignment before success is reported.
func (c *Collection[T]) create(ctx context.Context, body any) error {
	if _, err := c.gw.Do(ctx, http.MethodPost, c.basePath, body); err != nil {
		return err
	}
	_, err := c.Refresh(ctx)
	return err
}

func (c *Collection[T]) updateByID(ctx context.Context, id int64, body any) error {
	if _, err := c.gw.Do(ctx, http.MethodPut, fmt.Sprintf("%s/%d", c.basePath, id), body); err != nil {
		return err
	}
	_, err := c.Refresh(ctx)
	return err
}

func (c *Collection[T]) deleteByID(ctx context.Context, id int64) error {
	if _, err := c.gw.Do(ctx, http.MethodDelete, fmt.Sprintf("%s/%d", c.basePath, id), nil); err != nil {
		return err
	}
	_, err := c.Refresh(ctx)
	return err
}

func (c *Collection[T]) setItems(items []T, hydrated bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = items
	c.hydrated = hydrated
}
