package gateway

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates against POST /login and stores the resulting
// session. The endpoint answers 200 with a plain-text body of the form
// "<token> <isAdmin>" - space separated, not JSON - so the payload is
// read as text here rather than decoded.
//
// A 401 surfaces as an AuthError, which for this one endpoint means
// "incorrect login" rather than "session expired"; callers own that
// distinction in their messaging.
func (c *Client) Login(ctx context.Context, username, password string) error {
	res, err := c.Do(ctx, http.MethodPost, "/login", loginRequest{
		Username: username,
		Password: password,
	})
	if err != nil {
		return err
	}
	if res.Kind != KindText {
		return fmt.Errorf("unexpected login response shape (status %d)", res.Status)
	}

	fields := strings.Fields(res.Text)
	if len(fields) == 0 {
		return fmt.Errorf("malformed login response %q", res.Text)
	}
	// Only the literal "true" grants admin; anything else fails closed.
	admin := len(fields) > 1 && fields[1] == "true"
	return c.sess.Set(fields[0], admin)
}

// Register creates an account via POST /register. A 201 is success; a
// 409 (username or email taken) comes back as a ServerError matched by
// IsConflict.
func (c *Client) Register(ctx context.Context, username, email, password string) error {
	_, err := c.Do(ctx, http.MethodPost, "/register", registerRequest{
		Username: username,
		Email:    email,
		Password: password,
	})
	return err
}

// Logout posts to /logout best-effort and clears the local session
// regardless of what the server said. The call's own failure is
// logged at debug level and otherwise dropped - the local teardown is
// what matters.
func (c *Client) Logout(ctx context.Context) error {
	if _, err := c.Do(ctx, http.MethodPost, "/logout", nil); err != nil {
		c.logger.Debug("logout call failed", "error", err)
	}
	return c.sess.Clear()
}
