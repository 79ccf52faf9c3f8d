package devserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type contextKey string

const userKey contextKey = "user"

// Server wires the store to the HTTP surface of the recipe service.
type Server struct {
	store  *Store
	logger *slog.Logger
}

// NewServer creates a dev server over the given store.
func NewServer(store *Store, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{store: store, logger: logger}
}

// SeedUser creates an account if it does not exist yet. Used by
// `pantry serve` to provision an admin out of the box.
func (s *Server) SeedUser(ctx context.Context, username, email, password string, admin bool) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	err = s.store.CreateUser(ctx, username, email, string(hash), admin)
	if errors.Is(err, ErrExists) {
		return nil
	}
	return err
}

// Router builds the chi router with the full endpoint table.
func (s *Server) Router() *chi.Mux {
	r := chi.NewRouter()
	r.Use(requestLogger(s.logger))
	r.Use(recovery(s.logger))

	// Unauthenticated entry points.
	r.Post("/login", s.handleLogin)
	r.Post("/register", s.handleRegister)

	// Everything else requires a live token.
	r.Group(func(r chi.Router) {
		r.Use(s.bearerAuth)

		r.Post("/logout", s.handleLogout)

		r.Route("/recipes", func(r chi.Router) {
			r.Get("/", s.handleListRecipes)
			r.Post("/", s.handleCreateRecipe)
			r.Put("/{id}", s.handleUpdateRecipe)
			r.Delete("/{id}", s.handleDeleteRecipe)
		})

		r.Route("/ingredients", func(r chi.Router) {
			r.Get("/", s.handleListIngredients)
			r.Post("/", s.handleCreateIngredient)
			r.Delete("/{id}", s.handleDeleteIngredient)
		})
	})

	return r
}

// --- middleware ---

func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r)
			logger.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", sw.status,
				"duration_ms", time.Since(start).Milliseconds(),
			)
		})
	}
}

func recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.Error("panic recovered", "error", rec, "path", r.URL.Path)
					http.Error(w, "internal server error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

func (s *Server) bearerAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(auth, "Bearer ")
		if !ok || token == "" {
			http.Error(w, "missing bearer token", http.StatusUnauthorized)
			return
		}

		user, err := s.store.TokenUser(r.Context(), token)
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}
		if err != nil {
			s.internalError(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), userKey, user)
		// The token travels so logout can revoke it.
		ctx = context.WithValue(ctx, contextKey("token"), token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func requestUser(r *http.Request) User {
	u, _ := r.Context().Value(userKey).(User)
	return u
}

// --- auth handlers ---

type credentials struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var creds credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		http.Error(w, "malformed request body", http.StatusBadRequest)
		return
	}

	user, err := s.store.UserByUsername(r.Context(), creds.Username)
	if errors.Is(err, ErrNotFound) {
		http.Error(w, "incorrect login", http.StatusUnauthorized)
		return
	}
	if err != nil {
		s.internalError(w, err)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Hash), []byte(creds.Password)) != nil {
		http.Error(w, "incorrect login", http.StatusUnauthorized)
		return
	}

	token := uuid.NewString()
	if err := s.store.InsertToken(r.Context(), token, user.ID); err != nil {
		s.internalError(w, err)
		return
	}

	// The response is deliberately plain text, space separated, just
	// as the real service answers: "<token> <isAdmin>".
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintf(w, "%s %s", token, strconv.FormatBool(user.Admin))
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var creds credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		http.Error(w, "malformed request body", http.StatusBadRequest)
		return
	}
	if creds.Username == "" || creds.Email == "" || creds.Password == "" {
		http.Error(w, "username, email and password are required", http.StatusBadRequest)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(creds.Password), bcrypt.DefaultCost)
	if err != nil {
		s.internalError(w, err)
		return
	}

	err = s.store.CreateUser(r.Context(), creds.Username, creds.Email, string(hash), false)
	if errors.Is(err, ErrExists) {
		http.Error(w, "username or email already exists", http.StatusConflict)
		return
	}
	if err != nil {
		s.internalError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	token, _ := r.Context().Value(contextKey("token")).(string)
	if err := s.store.DeleteToken(r.Context(), token); err != nil {
		s.internalError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- recipe handlers ---

type recipePayload struct {
	Name         string `json:"name"`
	Instructions string `json:"instructions"`
}

func (s *Server) handleListRecipes(w http.ResponseWriter, r *http.Request) {
	recipes, err := s.store.ListRecipes(r.Context())
	if err != nil {
		s.internalError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, recipes)
}

func (s *Server) handleCreateRecipe(w http.ResponseWriter, r *http.Request) {
	var body recipePayload
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "malformed request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(body.Name) == "" || strings.TrimSpace(body.Instructions) == "" {
		http.Error(w, "name and instructions are required", http.StatusBadRequest)
		return
	}

	id, err := s.store.InsertRecipe(r.Context(), body.Name, body.Instructions)
	if err != nil {
		s.internalError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, Recipe{ID: id, Name: body.Name, Instructions: body.Instructions})
}

func (s *Server) handleUpdateRecipe(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var body recipePayload
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "malformed request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(body.Instructions) == "" {
		http.Error(w, "instructions are required", http.StatusBadRequest)
		return
	}

	err := s.store.UpdateRecipeInstructions(r.Context(), id, body.Instructions)
	if errors.Is(err, ErrNotFound) {
		http.Error(w, "recipe not found", http.StatusNotFound)
		return
	}
	if err != nil {
		s.internalError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleDeleteRecipe(w http.ResponseWriter, r *http.Request) {
	// Recipe deletion is the one admin-gated mutation.
	if !requestUser(r).Admin {
		http.Error(w, "admin required", http.StatusForbidden)
		return
	}

	id, ok := pathID(w, r)
	if !ok {
		return
	}

	err := s.store.DeleteRecipe(r.Context(), id)
	if errors.Is(err, ErrNotFound) {
		http.Error(w, "recipe not found", http.StatusNotFound)
		return
	}
	if err != nil {
		s.internalError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- ingredient handlers ---

type ingredientPayload struct {
	Name string `json:"name"`
}

func (s *Server) handleListIngredients(w http.ResponseWriter, r *http.Request) {
	ingredients, err := s.store.ListIngredients(r.Context())
	if err != nil {
		s.internalError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, ingredients)
}

func (s *Server) handleCreateIngredient(w http.ResponseWriter, r *http.Request) {
	var body ingredientPayload
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "malformed request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(body.Name) == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}

	id, err := s.store.InsertIngredient(r.Context(), body.Name)
	if err != nil {
		s.internalError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, Ingredient{ID: id, Name: body.Name})
}

func (s *Server) handleDeleteIngredient(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	err := s.store.DeleteIngredient(r.Context(), id)
	if errors.Is(err, ErrNotFound) {
		http.Error(w, "ingredient not found", http.StatusNotFound)
		return
	}
	if err != nil {
		s.internalError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- helpers ---

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", "error", err)
	}
}

func (s *Server) internalError(w http.ResponseWriter, err error) {
	s.logger.Error("internal error", "error", err)
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
