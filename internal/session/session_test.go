package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetAndRead(t *testing.T) {
	s := New()

	require.NoError(t, s.Set("tok123", true))

	assert.Equal(t, "tok123", s.Token())
	assert.True(t, s.IsAdmin())
	assert.True(t, s.Authenticated())
}

func TestSetRejectsEmptyToken(t *testing.T) {
	s := New()

	err := s.Set("", true)

	require.Error(t, err)
	assert.False(t, s.Authenticated())
}

func TestIsAdminFalseWhenUnauthenticated(t *testing.T) {
	s := New()
	assert.False(t, s.IsAdmin())
}

func TestClearIsIdempotent(t *testing.T) {
	s := New()
	require.NoError(t, s.Set("tok123", true))

	require.NoError(t, s.Clear())
	require.NoError(t, s.Clear()) // second clear must be a no-op

	assert.Empty(t, s.Token())
	assert.False(t, s.IsAdmin())
	assert.False(t, s.Authenticated())
}

func TestOpenMissingFileIsEmptySession(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.yaml")

	s, err := Open(path)

	require.NoError(t, err)
	assert.False(t, s.Authenticated())
	assert.False(t, s.IsAdmin())
}

func TestRoundTripThroughFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.yaml")

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Set("tok123", true))

	// A second store reading the same file sees the session.
	reopened, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, "tok123", reopened.Token())
	assert.True(t, reopened.IsAdmin())
}

func TestFileUsesStorageKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.yaml")

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Set("tok123", false))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "auth-token: tok123")
	assert.Contains(t, string(data), `is-admin: "false"`)
}

func TestAdminFlagFailsClosed(t *testing.T) {
	tests := []struct {
		name  string
		admin string
		want  bool
	}{
		{"canonical true", "true", true},
		{"uppercase", "TRUE", false},
		{"numeric", "1", false},
		{"garbage", "yes", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "session.yaml")
			content := "auth-token: tok123\nis-admin: \"" + tt.admin + "\"\n"
			require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

			s, err := Open(path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, s.IsAdmin())
		})
	}
}

func TestClearRemovesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.yaml")

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Set("tok123", false))
	require.NoError(t, s.Clear())

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestOpenMalformedFileErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{not yaml: ["), 0o600))

	_, err := Open(path)
	require.Error(t, err)
}
