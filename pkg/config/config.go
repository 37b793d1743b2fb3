package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vanderheijden86/drill/pkg/loader"
)

// FileName is the per-directory config file looked up by Discover.
const FileName = ".drill.yaml"

// Config represents a drill configuration file (.drill.yaml)
type Config struct {
	// UseButtonLabel enables the "use this value" button on branch rows.
	// Empty disables it (default).
	UseButtonLabel string `yaml:"use_button_label,omitempty" json:"use_button_label,omitempty"`

	// Sources lists option files (JSON, YAML, SQLite) or "-" for stdin.
	// Relative paths are resolved against the config file's directory.
	Sources []string `yaml:"sources,omitempty" json:"sources,omitempty"`

	// SQLiteQuery overrides the query used for SQLite sources
	SQLiteQuery string `yaml:"sqlite_query,omitempty" json:"sqlite_query,omitempty"`

	// Placeholder is shown as the label while nothing is selected
	Placeholder string `yaml:"placeholder,omitempty" json:"placeholder,omitempty"`

	// Watch rebuilds the picker when a source file changes
	Watch bool `yaml:"watch,omitempty" json:"watch,omitempty"`

	// LogFile receives structured logs; empty discards them
	LogFile string `yaml:"log_file,omitempty" json:"log_file,omitempty"`

	// path is where the config was loaded from (empty for defaults)
	path string
}

// DefaultPlaceholder is the label shown before anything is selected.
const DefaultPlaceholder = "Select…"

// Default returns a config with every field at its default.
func Default() Config {
	return Config{
		Placeholder: DefaultPlaceholder,
	}
}

// Load reads a config file. Missing fields keep their defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.Placeholder == "" {
		cfg.Placeholder = DefaultPlaceholder
	}

	cfg.path = path
	cfg.resolveSources(filepath.Dir(path))

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Path returns the file the config came from, or "" for defaults.
func (c Config) Path() string {
	return c.path
}

// Validate checks the configuration for errors
func (c *Config) Validate() error {
	seen := make(map[string]bool)
	for i, src := range c.Sources {
		if strings.TrimSpace(src) == "" {
			return fmt.Errorf("sources[%d]: path is required", i)
		}
		if seen[src] {
			return fmt.Errorf("sources[%d]: duplicate source %q", i, src)
		}
		seen[src] = true

		if _, err := loader.DetectFormat(src); err != nil {
			return fmt.Errorf("sources[%d]: %w", i, err)
		}
	}
	if len(c.UseButtonLabel) > 32 {
		return fmt.Errorf("use_button_label: %d characters, at most 32 allowed", len(c.UseButtonLabel))
	}
	return nil
}

// LoaderOptions returns the loader settings implied by the config.
func (c Config) LoaderOptions() loader.Options {
	return loader.Options{SQLiteQuery: c.SQLiteQuery}
}

func (c *Config) resolveSources(base string) {
	for i, src := range c.Sources {
		src = expandHome(src)
		if src != loader.Stdin && !filepath.IsAbs(src) {
			src = filepath.Join(base, src)
		}
		c.Sources[i] = src
	}
}

// expandHome replaces a leading ~ with the user's home directory.
func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
