// Package config resolves where snippets live and how they are searched
// and printed.
//
// Values are layered, later sources winning:
//   - built-in defaults
//   - the TOML config file (SNIBBETS_CONFIG, else
//     $XDG_CONFIG_HOME/snibbets/config.toml)
//   - a .env file in the working directory (never overriding set variables)
//   - SNIBBETS_PATH, SNIBBETS_BACKEND, SNIBBETS_OUTPUT
//
// Command-line flags are applied on top by the caller. Nothing here writes
// preferences back.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// DefaultSource is the snippet folder used when nothing else is set.
const DefaultSource = "~/Dropbox/notes/snippets"

// Config holds the resolved settings for one invocation.
type Config struct {
	// Source is the snippet folder. Load returns it absolute.
	Source string `toml:"source"`

	// Backend selects the file locator implementation
	Backend Backend `toml:"backend"`

	// Output is the default output format
	Output Output `toml:"output"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Source:  DefaultSource,
		Backend: BackendScan,
		Output:  OutputRaw,
	}
}

// DefaultConfigDir returns the default config directory path
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "snibbets")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "snibbets")
}

// DefaultConfigPath returns SNIBBETS_CONFIG or config.toml in
// DefaultConfigDir.
func DefaultConfigPath() string {
	if path := os.Getenv("SNIBBETS_CONFIG"); path != "" {
		return path
	}
	return filepath.Join(DefaultConfigDir(), "config.toml")
}

// Load resolves the configuration from all sources.
func Load() (Config, error) {
	// .env is optional
	_ = godotenv.Load()

	cfg := Default()
	if err := cfg.MergeFile(DefaultConfigPath()); err != nil {
		return Config{}, err
	}
	if err := cfg.MergeEnv(); err != nil {
		return Config{}, err
	}

	source, err := ExpandPath(cfg.Source)
	if err != nil {
		return Config{}, err
	}
	cfg.Source = source
	return cfg, nil
}

// MergeFile overlays the keys set in a TOML file. A missing file is not an
// error.
func (c *Config) MergeFile(path string) error {
	var file Config
	meta, err := toml.DecodeFile(path, &file)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("%s: unknown key %q", path, undecoded[0].String())
	}

	if meta.IsDefined("source") && strings.TrimSpace(file.Source) != "" {
		c.Source = file.Source
	}
	if meta.IsDefined("backend") {
		c.Backend = file.Backend
	}
	if meta.IsDefined("output") {
		c.Output = file.Output
	}
	return nil
}

// MergeEnv overlays environment variables:
//   - SNIBBETS_PATH: snippet folder
//   - SNIBBETS_BACKEND: scan, grep or spotlight
//   - SNIBBETS_OUTPUT: raw, json or launchbar
func (c *Config) MergeEnv() error {
	if path := strings.TrimSpace(os.Getenv("SNIBBETS_PATH")); path != "" {
		c.Source = path
	}

	if name := os.Getenv("SNIBBETS_BACKEND"); name != "" {
		backend, err := ParseBackend(name)
		if err != nil {
			return fmt.Errorf("SNIBBETS_BACKEND: %w", err)
		}
		c.Backend = backend
	}

	if name := os.Getenv("SNIBBETS_OUTPUT"); name != "" {
		output, err := ParseOutput(name)
		if err != nil {
			return fmt.Errorf("SNIBBETS_OUTPUT: %w", err)
		}
		c.Output = output
	}
	return nil
}

// ExpandPath expands a leading ~ and makes path absolute.
func ExpandPath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("expanding %s: %w", path, err)
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", path, err)
	}
	return abs, nil
}

// String returns a human-readable description of the configuration.
func (c Config) String() string {
	return fmt.Sprintf("source=%s backend=%s output=%s", c.Source, c.Backend, c.Output)
}
