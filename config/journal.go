package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/zhubert/studylog/logger"
)

// JournalSettingsFile lives at the root of the journal and is committed with it.
const JournalSettingsFile = ".studylog.yaml"

// Defaults applied when the settings file or one of its fields is absent.
const (
	DefaultAuthorName    = "Study Log"
	DefaultAuthorEmail   = "studylog@localhost"
	DefaultBranch        = "main"
	DefaultRemoteTimeout = 30 * time.Second
)

// JournalSettings controls how the working copy is committed and synced.
type JournalSettings struct {
	AuthorName    string        `yaml:"author_name"`
	AuthorEmail   string        `yaml:"author_email"`
	Branch        string        `yaml:"branch"`
	RemoteTimeout time.Duration `yaml:"remote_timeout"`
}

// DefaultJournalSettings returns the settings used when nothing is configured.
func DefaultJournalSettings() JournalSettings {
	return JournalSettings{
		AuthorName:    DefaultAuthorName,
		AuthorEmail:   DefaultAuthorEmail,
		Branch:        DefaultBranch,
		RemoteTimeout: DefaultRemoteTimeout,
	}
}

// LoadJournalSettings reads .studylog.yaml from the journal directory.
// A missing file yields the defaults; a malformed one yields the defaults and
// a logged warning. Fields left empty are filled from the defaults.
func LoadJournalSettings(savePath string) JournalSettings {
	settings := DefaultJournalSettings()
	if savePath == "" {
		return settings
	}

	fp := filepath.Join(savePath, JournalSettingsFile)
	data, err := os.ReadFile(fp)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.WithComponent("config").Warn("failed to read journal settings", "path", fp, "error", err)
		}
		return settings
	}

	var loaded JournalSettings
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		logger.WithComponent("config").Warn("failed to parse journal settings, using defaults", "path", fp, "error", err)
		return settings
	}

	if v := strings.TrimSpace(loaded.AuthorName); v != "" {
		settings.AuthorName = v
	}
	if v := strings.TrimSpace(loaded.AuthorEmail); v != "" {
		settings.AuthorEmail = v
	}
	if v := strings.TrimSpace(loaded.Branch); v != "" {
		settings.Branch = v
	}
	if loaded.RemoteTimeout > 0 {
		settings.RemoteTimeout = loaded.RemoteTimeout
	}

	return settings
}

// WriteJournalSettings writes settings to .studylog.yaml in the journal directory.
func WriteJournalSettings(savePath string, settings JournalSettings) error {
	if err := os.MkdirAll(savePath, 0755); err != nil {
		return fmt.Errorf("creating journal directory: %w", err)
	}

	data, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("marshalling journal settings: %w", err)
	}

	if err := os.WriteFile(filepath.Join(savePath, JournalSettingsFile), data, 0644); err != nil {
		return fmt.Errorf("writing journal settings: %w", err)
	}
	return nil
}
