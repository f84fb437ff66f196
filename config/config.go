// Package config persists the journal location and remote URL, and reads the
// optional per-journal settings file stored inside the journal itself.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/zhubert/studylog/logger"
	"github.com/zhubert/studylog/paths"
)

// ErrWriteFailed is matched by every error returned from Store.Save.
var ErrWriteFailed = errors.New("config write failed")

// ConfigError reports a failure to persist configuration.
type ConfigError struct {
	Op   string
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *ConfigError) Unwrap() []error {
	return []error{ErrWriteFailed, e.Err}
}

// Config is the process-wide repository configuration.
type Config struct {
	SavePath   string `json:"savePath"`   // Absolute journal directory, empty until configured
	GitRepoURL string `json:"gitRepoUrl"` // Remote for origin, empty means local only
}

// IsConfigured reports whether a journal directory has been chosen.
func (c Config) IsConfigured() bool {
	return c.SavePath != ""
}

// HasRemote reports whether a remote URL is configured.
func (c Config) HasRemote() bool {
	return c.GitRepoURL != ""
}

// Store owns the config file. It never caches: every Load re-reads disk.
type Store struct {
	mu       sync.Mutex
	filePath string
}

// NewStore returns a Store backed by paths.ConfigFilePath().
func NewStore() (*Store, error) {
	path, err := paths.ConfigFilePath()
	if err != nil {
		return nil, err
	}
	return &Store{filePath: path}, nil
}

// NewStoreAt returns a Store backed by the given file.
func NewStoreAt(path string) *Store {
	return &Store{filePath: path}
}

// Path returns the config file location.
func (s *Store) Path() string {
	return s.filePath
}

// Load reads the config from disk. Any read or parse failure yields the zero
// Config; the failure is logged, never returned.
func (s *Store) Load() Config {
	s.mu.Lock()
	defer s.mu.Unlock()

	var cfg Config
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.WithComponent("config").Warn("failed to read config, using defaults", "path", s.filePath, "error", err)
		}
		return Config{}
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		logger.WithComponent("config").Warn("failed to parse config, using defaults", "path", s.filePath, "error", err)
		return Config{}
	}

	return cfg
}

// Save normalizes cfg and writes it atomically: the new contents go to a
// temp file in the same directory which is then renamed over the old file.
// The normalized config is returned.
func (s *Store) Save(cfg Config) (Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg, err := normalize(cfg)
	if err != nil {
		return Config{}, &ConfigError{Op: "save", Path: s.filePath, Err: err}
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return Config{}, &ConfigError{Op: "save", Path: s.filePath, Err: err}
	}

	if err := writeFileAtomic(s.filePath, data, 0644); err != nil {
		return Config{}, &ConfigError{Op: "save", Path: s.filePath, Err: err}
	}

	logger.WithComponent("config").Info("config saved", "path", s.filePath, "savePath", cfg.SavePath, "hasRemote", cfg.HasRemote())
	return cfg, nil
}

func normalize(cfg Config) (Config, error) {
	cfg.SavePath = strings.TrimSpace(cfg.SavePath)
	cfg.GitRepoURL = strings.TrimSpace(cfg.GitRepoURL)

	if cfg.SavePath != "" {
		abs, err := filepath.Abs(cfg.SavePath)
		if err != nil {
			return cfg, fmt.Errorf("resolve save path: %w", err)
		}
		cfg.SavePath = abs
	}
	return cfg, nil
}

func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
