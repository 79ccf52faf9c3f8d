package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pantrykit/pantry/internal/session"
)

func TestLoginStoresTokenAndAdminFlag(t *testing.T) {
	client, sess := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "alice", req["username"])
		assert.Equal(t, "pw1", req["password"])
		w.Write([]byte("tok123 true"))
	})

	err := client.Login(context.Background(), "alice", "pw1")

	require.NoError(t, err)
	assert.Equal(t, "tok123", sess.Token())
	assert.True(t, sess.IsAdmin())
}

func TestLoginNonAdmin(t *testing.T) {
	client, sess := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("tok456 false"))
	})

	require.NoError(t, client.Login(context.Background(), "bob", "pw2"))

	assert.Equal(t, "tok456", sess.Token())
	assert.False(t, sess.IsAdmin())
}

func TestLoginAdminFlagFailsClosed(t *testing.T) {
	// Anything but the literal "true" is non-admin.
	for _, flag := range []string{"TRUE", "1", "yes", ""} {
		client, sess := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("tok789 " + flag))
		})

		require.NoError(t, client.Login(context.Background(), "eve", "pw"))
		assert.False(t, sess.IsAdmin(), "flag %q must not grant admin", flag)
	}
}

func TestLoginIncorrectCredentials(t *testing.T) {
	client, sess := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	err := client.Login(context.Background(), "alice", "wrong")

	require.Error(t, err)
	assert.True(t, IsAuthFailure(err))
	assert.False(t, sess.Authenticated())
}

func TestLoginMalformedResponse(t *testing.T) {
	client, sess := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("   "))
	})

	err := client.Login(context.Background(), "alice", "pw1")

	require.Error(t, err)
	assert.False(t, sess.Authenticated())
}

func TestRegisterSuccess(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "alice", req["username"])
		assert.Equal(t, "alice@example.com", req["email"])
		w.WriteHeader(http.StatusCreated)
	})

	err := client.Register(context.Background(), "alice", "alice@example.com", "pw1")

	require.NoError(t, err)
}

func TestRegisterConflict(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte("username taken"))
	})

	err := client.Register(context.Background(), "alice", "alice@example.com", "pw1")

	require.Error(t, err)
	assert.True(t, IsConflict(err))
}

func TestLogoutClearsSessionEvenWhenCallFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close() // the logout POST will fail at the transport level

	sess := session.New()
	require.NoError(t, sess.Set("tok123", true))
	client := New(url, sess)

	err := client.Logout(context.Background())

	require.NoError(t, err)
	assert.False(t, sess.Authenticated())
}

func TestLogoutClearsSessionOnSuccess(t *testing.T) {
	client, sess := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	require.NoError(t, sess.Set("tok123", false))

	require.NoError(t, client.Logout(context.Background()))

	assert.False(t, sess.Authenticated())
}
