package config

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is intentionally small and YAML-friendly.
type Config struct {
	// Addr is the listen address.
	Addr string `yaml:"addr"`

	// DataRoot is the directory holding the documents (one file per
	// document). Required.
	DataRoot string `yaml:"data_root"`

	// StateDir stores thumbnails and other derived state.
	// Default: <data_root>/.inkwell
	StateDir string `yaml:"state_dir"`

	// UsersFile is the credential ledger, auto-created empty on first boot.
	// Default: users.yml next to the data root.
	UsersFile string `yaml:"users_file"`

	// RequireSignin gates reading (index and document views) behind a
	// session, the same as mutations. When false, anyone may browse and
	// read; only mutations need a session.
	RequireSignin bool `yaml:"require_signin"`

	// SessionTTL bounds how long a signin lasts.
	SessionTTL Duration `yaml:"session_ttl"`

	// LogLevel is debug, info, warn, or error.
	LogLevel string `yaml:"log_level"`
}

// Duration lets YAML carry values like "24h".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// Default returns the configuration used when no file or flag says otherwise.
func Default() Config {
	return Config{
		Addr:          ":4567",
		RequireSignin: true,
		SessionTTL:    Duration(24 * time.Hour),
		LogLevel:      "info",
	}
}

// Load reads a YAML config file over the defaults. An empty path returns the
// defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Normalize fills derived defaults and makes paths absolute. INKWELL_ENV=test
// reroutes the data root to a test/data sibling so test runs never touch real
// documents.
func (c Config) Normalize() (Config, error) {
	if c.DataRoot == "" {
		return c, errors.New("config: data_root is required")
	}
	if os.Getenv("INKWELL_ENV") == "test" {
		c.DataRoot = filepath.Join(filepath.Dir(filepath.Clean(c.DataRoot)), "test", "data")
	}
	abs, err := filepath.Abs(c.DataRoot)
	if err != nil {
		return c, err
	}
	c.DataRoot = abs
	if c.StateDir == "" {
		c.StateDir = filepath.Join(c.DataRoot, ".inkwell")
	}
	if c.UsersFile == "" {
		c.UsersFile = filepath.Join(filepath.Dir(c.DataRoot), "users.yml")
	}
	if c.SessionTTL <= 0 {
		c.SessionTTL = Duration(24 * time.Hour)
	}
	return c, nil
}
