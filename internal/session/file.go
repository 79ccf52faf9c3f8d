package session

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// sessionFile is the on-disk shape. The keys match the storage keys
// the service's web frontend uses, and the admin flag is kept as a
// string so that only the exact value "true" grants the privilege.
type sessionFile struct {
	Token string `yaml:"auth-token"`
	Admin string `yaml:"is-admin"`
}

// Open returns a store backed by the session file at path. A missing
// file yields an empty (unauthenticated) session; an unreadable or
// malformed file is an error so that a corrupt session is never
// silently treated as authenticated.
func Open(path string) (*Store, error) {
	s := &Store{path: path}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session file: %w", err)
	}

	var f sessionFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse session file %s: %w", path, err)
	}

	s.token = f.Token
	s.admin = f.Admin == "true" // fail closed on anything else
	return s, nil
}

func writeFile(path, token string, admin bool) error {
	f := sessionFile{Token: token, Admin: "false"}
	if admin {
		f.Admin = "true"
	}

	data, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("encode session file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create session directory: %w", err)
	}
	// 0600: the file holds a live credential.
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	return nil
}

func removeFile(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}
