// Package devserver is a local stand-in for the recipe service
// backend. It implements the same HTTP surface the real service
// exposes - text login response, bearer tokens, admin-gated recipe
// deletes - so the client can be exercised end to end on a laptop.
package devserver

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaFS embed.FS

var (
	// ErrNotFound is returned when a row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrExists is returned when a uniqueness constraint is violated,
	// e.g. registering a taken username or email.
	ErrExists = errors.New("already exists")
)

// User is an account row.
type User struct {
	ID       int64
	Username string
	Email    string
	Hash     string
	Admin    bool
}

// Recipe is the wire shape of a stored recipe.
type Recipe struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Instructions string `json:"instructions"`
}

// Ingredient is the wire shape of a stored ingredient.
type Ingredient struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Store provides SQLite-backed storage for the dev server.
type Store struct {
	db *sql.DB
}

// OpenStore creates or opens the database at path. WAL mode and a
// busy timeout are applied through the DSN; the pool is capped at one
// connection because SQLite allows a single writer.
func OpenStore(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000&_foreign_keys=ON")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	schema, err := schemaFS.ReadFile("schema.sql")
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("read embedded schema: %w", err)
	}
	if _, err := db.Exec(string(schema)); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func constraintViolated(err error) bool {
	var serr sqlite3.Error
	return errors.As(err, &serr) && serr.Code == sqlite3.ErrConstraint
}

// CreateUser inserts an account. ErrExists when the username or email
// is taken.
func (s *Store) CreateUser(ctx context.Context, username, email, passwordHash string, admin bool) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (username, email, password_hash, is_admin)
		VALUES (?, ?, ?, ?)
	`, username, email, passwordHash, admin)
	if constraintViolated(err) {
		return ErrExists
	}
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// UserByUsername fetches an account by username.
func (s *Store) UserByUsername(ctx context.Context, username string) (User, error) {
	var u User
	err := s.db.QueryRowContext(ctx, `
		SELECT id, username, email, password_hash, is_admin
		FROM users WHERE username = ?
	`, username).Scan(&u.ID, &u.Username, &u.Email, &u.Hash, &u.Admin)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("query user: %w", err)
	}
	return u, nil
}

// InsertToken records an issued bearer token.
func (s *Store) InsertToken(ctx context.Context, token string, userID int64) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tokens (token, user_id, created_at) VALUES (?, ?, ?)
	`, token, userID, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("insert token: %w", err)
	}
	return nil
}

// TokenUser resolves a bearer token back to its account. ErrNotFound
// for unknown (or revoked) tokens.
func (s *Store) TokenUser(ctx context.Context, token string) (User, error) {
	var u User
	err := s.db.QueryRowContext(ctx, `
		SELECT u.id, u.username, u.email, u.password_hash, u.is_admin
		FROM tokens t JOIN users u ON u.id = t.user_id
		WHERE t.token = ?
	`, token).Scan(&u.ID, &u.Username, &u.Email, &u.Hash, &u.Admin)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("query token: %w", err)
	}
	return u, nil
}

// DeleteToken revokes a bearer token. Revoking an unknown token is a
// no-op, matching logout's best-effort contract.
func (s *Store) DeleteToken(ctx context.Context, token string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM tokens WHERE token = ?`, token); err != nil {
		return fmt.Errorf("delete token: %w", err)
	}
	return nil
}

// ListRecipes returns all recipes ordered by id.
func (s *Store) ListRecipes(ctx context.Context) ([]Recipe, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, instructions FROM recipes ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("query recipes: %w", err)
	}
	defer rows.Close()

	recipes := []Recipe{} // empty list, not null, on the wire
	for rows.Next() {
		var r Recipe
		if err := rows.Scan(&r.ID, &r.Name, &r.Instructions); err != nil {
			return nil, fmt.Errorf("scan recipe: %w", err)
		}
		recipes = append(recipes, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recipes: %w", err)
	}
	return recipes, nil
}

// InsertRecipe stores a recipe and returns its assigned id.
func (s *Store) InsertRecipe(ctx context.Context, name, instructions string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO recipes (name, instructions) VALUES (?, ?)
	`, name, instructions)
	if err != nil {
		return 0, fmt.Errorf("insert recipe: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("recipe id: %w", err)
	}
	return id, nil
}

// UpdateRecipeInstructions replaces the instructions of one recipe.
func (s *Store) UpdateRecipeInstructions(ctx context.Context, id int64, instructions string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE recipes SET instructions = ? WHERE id = ?`, instructions, id)
	if err != nil {
		return fmt.Errorf("update recipe: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update recipe: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteRecipe removes one recipe by id.
func (s *Store) DeleteRecipe(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM recipes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete recipe: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete recipe: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListIngredients returns all ingredients ordered by id.
func (s *Store) ListIngredients(ctx context.Context) ([]Ingredient, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name FROM ingredients ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("query ingredients: %w", err)
	}
	defer rows.Close()

	ingredients := []Ingredient{}
	for rows.Next() {
		var i Ingredient
		if err := rows.Scan(&i.ID, &i.Name); err != nil {
			return nil, fmt.Errorf("scan ingredient: %w", err)
		}
		ingredients = append(ingredients, i)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ingredients: %w", err)
	}
	return ingredients, nil
}

// InsertIngredient stores an ingredient and returns its assigned id.
func (s *Store) InsertIngredient(ctx context.Context, name string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `INSERT INTO ingredients (name) VALUES (?)`, name)
	if err != nil {
		return 0, fmt.Errorf("insert ingredient: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("ingredient id: %w", err)
	}
	return id, nil
}

// DeleteIngredient removes one ingredient by id.
func (s *Store) DeleteIngredient(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM ingredients WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete ingredient: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete ingredient: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
