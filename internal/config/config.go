// Package config loads the pantry configuration file and validates it
// against an embedded CUE schema before any value is used.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"
)

//go:embed schema.cue
var schemaCUE string

// DefaultServer is where the recipe service listens during local
// development.
const DefaultServer = "http://localhost:8081"

// Config holds the settings the CLI needs to reach the service.
type Config struct {
	Server  string `yaml:"server"`
	Session string `yaml:"session"`
	Timeout int    `yaml:"timeout"` // seconds
}

// RequestTimeout returns the per-call deadline as a duration.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	cfg := &Config{
		Server:  DefaultServer,
		Timeout: 5,
	}
	if home, err := os.UserHomeDir(); err == nil {
		cfg.Session = filepath.Join(home, ".pantry", "session.yaml")
	}
	return cfg
}

// DefaultPath returns ~/.pantry/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".pantry", "config.yaml"), nil
}

// Load reads and validates the config file at path. A missing file is
// not an error - it yields the defaults - but a file that exists and
// fails schema validation is, so a typo never silently points the CLI
// at the wrong server.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if raw == nil {
		raw = map[string]any{} // empty file, all defaults
	}
	if err := validate(raw); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// validate unifies the raw document with the #Config schema.
func validate(raw map[string]any) error {
	cctx := cuecontext.New()

	schema := cctx.CompileString(schemaCUE)
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	def := schema.LookupPath(cue.ParsePath("#Config"))
	if !def.Exists() {
		return fmt.Errorf("schema missing #Config definition")
	}

	doc := cctx.Encode(raw)
	if err := doc.Err(); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	if err := def.Unify(doc).Validate(cue.Concrete(false)); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
