package config

import (
	"os"
	"path/filepath"
)

// Discover finds the config that applies to the current directory: the
// nearest .drill.yaml walking up from the working directory, then the user
// config file. ok is false when neither exists.
func Discover() (path string, ok bool) {
	if dir, err := os.Getwd(); err == nil {
		if p, found := findConfigUpwards(dir); found {
			return p, true
		}
	}
	if p := UserConfigPath(); p != "" {
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p, true
		}
	}
	return "", false
}

// LoadDiscovered loads the discovered config, or returns defaults when there
// is none.
func LoadDiscovered() (Config, error) {
	path, ok := Discover()
	if !ok {
		return Default(), nil
	}
	return Load(path)
}

// UserConfigPath returns $XDG_CONFIG_HOME/drill/config.yaml (or the platform
// equivalent), or "" if it cannot be determined.
func UserConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "drill", "config.yaml")
}

// findConfigUpwards walks up from dir looking for a .drill.yaml file.
func findConfigUpwards(dir string) (string, bool) {
	home, _ := os.UserHomeDir()

	for {
		candidate := filepath.Join(dir, FileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break // Reached filesystem root
		}
		// Don't go above home directory
		if home != "" && dir == home {
			break
		}
		dir = parent
	}
	return "", false
}
