// Package paths resolves studylog's application-private directories.
//
// The journal itself lives wherever the user points it; only the
// application's own files are placed here:
//
//   - Config (XDG_CONFIG_HOME): config.json, save directory and remote URL
//   - State (XDG_STATE_HOME): logs/, transient log files
//
// Resolution order:
//  1. If ~/.studylog/ exists → flat layout (all paths under ~/.studylog/)
//  2. If XDG env vars are set → XDG layout with config and state separated
//  3. Fresh install, no XDG vars → default to ~/.studylog/
//
// STUDYLOG_CONFIG, when set, overrides the config file location only.
package paths

import (
	"os"
	"path/filepath"
	"sync"
)

// ConfigEnvVar overrides the location of config.json.
const ConfigEnvVar = "STUDYLOG_CONFIG"

var (
	mu       sync.Mutex
	resolved *resolvedPaths
)

type resolvedPaths struct {
	configDir string
	stateDir  string
	legacy    bool
}

// resolve computes the path layout once and caches it.
func resolve() (*resolvedPaths, error) {
	mu.Lock()
	defer mu.Unlock()

	if resolved != nil {
		return resolved, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	flatDir := filepath.Join(home, ".studylog")

	if info, err := os.Stat(flatDir); err == nil && info.IsDir() {
		resolved = &resolvedPaths{
			configDir: flatDir,
			stateDir:  flatDir,
			legacy:    true,
		}
		return resolved, nil
	}

	xdgConfig := os.Getenv("XDG_CONFIG_HOME")
	xdgState := os.Getenv("XDG_STATE_HOME")

	if xdgConfig != "" || xdgState != "" {
		if xdgConfig == "" {
			xdgConfig = filepath.Join(home, ".config")
		}
		if xdgState == "" {
			xdgState = filepath.Join(home, ".local", "state")
		}
		resolved = &resolvedPaths{
			configDir: filepath.Join(xdgConfig, "studylog"),
			stateDir:  filepath.Join(xdgState, "studylog"),
		}
		return resolved, nil
	}

	resolved = &resolvedPaths{
		configDir: flatDir,
		stateDir:  flatDir,
		legacy:    true,
	}
	return resolved, nil
}

// ConfigDir returns the directory for configuration files (config.json).
func ConfigDir() (string, error) {
	r, err := resolve()
	if err != nil {
		return "", err
	}
	return r.configDir, nil
}

// StateDir returns the directory for runtime state and logs.
func StateDir() (string, error) {
	r, err := resolve()
	if err != nil {
		return "", err
	}
	return r.stateDir, nil
}

// ConfigFilePath returns the full path to config.json, honouring STUDYLOG_CONFIG.
func ConfigFilePath() (string, error) {
	if override := os.Getenv(ConfigEnvVar); override != "" {
		return filepath.Abs(override)
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// LogsDir returns the directory for log files.
func LogsDir() (string, error) {
	dir, err := StateDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "logs"), nil
}

// IsLegacyLayout returns true if using the ~/.studylog/ flat layout.
func IsLegacyLayout() bool {
	r, err := resolve()
	if err != nil {
		return true // assume flat on error
	}
	return r.legacy
}

// Reset clears the cached path resolution. This is intended for testing only.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	resolved = nil
}
