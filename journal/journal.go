// Package journal saves study sessions into the journal working copy and
// lists them back. It is the only package that combines the config store,
// the record codec, the directory layout and the git synchronizer.
package journal

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/zhubert/studylog/config"
	"github.com/zhubert/studylog/git"
	"github.com/zhubert/studylog/layout"
	"github.com/zhubert/studylog/logger"
	"github.com/zhubert/studylog/record"
)

// ErrNotConfigured is returned when no journal directory has been chosen.
var ErrNotConfigured = errors.New("save path is not configured")

// ErrInvalidRecord wraps record validation failures.
var ErrInvalidRecord = errors.New("invalid session record")

// Steps that are not git steps but can still abort a save.
const (
	StepLayout = "layout"
	StepWrite  = "write"
)

// FatalSaveError is a required step that failed. Nothing after it ran.
type FatalSaveError struct {
	Step string
	Err  error
}

func (e *FatalSaveError) Error() string {
	return fmt.Sprintf("save failed at %s: %v", e.Step, e.Err)
}

func (e *FatalSaveError) Unwrap() error {
	return e.Err
}

// SyncWarning is a best-effort step that failed during an otherwise
// successful operation.
type SyncWarning struct {
	Step git.Step
	Err  error
}

func (w *SyncWarning) Error() string {
	return fmt.Sprintf("%s: %v", w.Step, w.Err)
}

func (w *SyncWarning) Unwrap() error {
	return w.Err
}

// SaveResult is the outcome of a successful save.
type SaveResult struct {
	Path     string
	ID       string
	Warnings []*SyncWarning
}

// WarningText joins the warnings into one line, or returns "" when there are none.
func (r *SaveResult) WarningText() string {
	return joinWarnings(r.Warnings)
}

func joinWarnings(warnings []*SyncWarning) string {
	stepErrs := make([]*git.StepError, 0, len(warnings))
	for _, w := range warnings {
		stepErrs = append(stepErrs, &git.StepError{Step: w.Step, Err: w.Err})
	}
	return git.Describe(stepErrs)
}

func toWarnings(report *git.Report) []*SyncWarning {
	var warnings []*SyncWarning
	for _, w := range report.Warnings() {
		warnings = append(warnings, &SyncWarning{Step: w.Step, Err: w.Err})
	}
	return warnings
}

// Service implements the journal operations. Configuration is re-read from
// the store at the start of every call.
type Service struct {
	store *config.Store
	sync  *git.Synchronizer
	now   func() time.Time
}

// NewService returns a Service reading configuration from store and syncing
// through sync.
func NewService(store *config.Store, sync *git.Synchronizer) *Service {
	return &Service{store: store, sync: sync, now: time.Now}
}

func (s *Service) target(cfg config.Config) git.Target {
	settings := config.LoadJournalSettings(cfg.SavePath)
	return git.Target{
		Dir:           cfg.SavePath,
		RemoteURL:     cfg.GitRepoURL,
		AuthorName:    settings.AuthorName,
		AuthorEmail:   settings.AuthorEmail,
		Branch:        settings.Branch,
		RemoteTimeout: settings.RemoteTimeout,
	}
}

func fatal(err error) error {
	var stepErr *git.StepError
	if errors.As(err, &stepErr) {
		return &FatalSaveError{Step: string(stepErr.Step), Err: stepErr.Err}
	}
	return &FatalSaveError{Step: "unknown", Err: err}
}

// SaveSession writes rec as a new document in the journal and commits it.
// When a remote is configured the commit is pushed; push and other
// best-effort failures come back as warnings on a successful result.
//
// A record without an ID gets a fresh UUID; one without a start time gets
// the current time. The start time is converted to local time and truncated
// to the second, so the file name and header use the local wall clock.
func (s *Service) SaveSession(ctx context.Context, rec record.SessionRecord) (*SaveResult, error) {
	cfg := s.store.Load()
	if !cfg.IsConfigured() {
		return nil, ErrNotConfigured
	}
	if err := rec.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRecord, err)
	}

	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.StartedAt.IsZero() {
		rec.StartedAt = s.now()
	}
	rec.StartedAt = rec.StartedAt.Local().Truncate(time.Second)

	log := logger.WithSession(rec.ID).With("component", "journal")
	log.Info("saving session", "topic", rec.Topic, "duration", rec.DurationMinutes, "journal", cfg.SavePath)

	target := s.target(cfg)
	prepared := s.sync.Prepare(ctx, target)
	if err := prepared.Err(); err != nil {
		log.Error("failed to prepare working copy", "error", err)
		return nil, fatal(err)
	}
	warnings := toWarnings(prepared)

	path, err := layout.NewRecordPath(cfg.SavePath, rec.Topic, rec.StartedAt)
	if err != nil {
		log.Error("failed to create record directory", "error", err)
		return nil, &FatalSaveError{Step: StepLayout, Err: err}
	}
	if _, err := os.Stat(path); err == nil {
		log.Warn("replacing existing record with the same name", "path", path)
	}
	if err := os.WriteFile(path, []byte(record.Render(rec)), 0644); err != nil {
		log.Error("failed to write record", "path", path, "error", err)
		return nil, &FatalSaveError{Step: StepWrite, Err: err}
	}

	published := s.sync.Publish(ctx, target, rec.CommitMessage())
	if err := published.Err(); err != nil {
		log.Error("failed to commit record", "path", path, "error", err)
		return nil, fatal(err)
	}
	warnings = append(warnings, toWarnings(published)...)

	log.Info("session saved", "path", path, "warnings", len(warnings))
	return &SaveResult{Path: path, ID: rec.ID, Warnings: warnings}, nil
}

// ListSessions returns a summary of every record in the journal, newest
// first. It never fails: an unconfigured or missing journal gives an empty
// list, and unreadable files are skipped. Records without a readable date
// sort last.
func (s *Service) ListSessions(ctx context.Context) []record.HistorySummary {
	summaries := []record.HistorySummary{}
	log := logger.WithComponent("journal")

	cfg := s.store.Load()
	if !cfg.IsConfigured() {
		return summaries
	}

	files, err := layout.ListAllRecords(cfg.SavePath)
	if err != nil {
		if layout.IsNotAccessible(err) {
			log.Debug("journal directory not available", "journal", cfg.SavePath, "error", err)
			return summaries
		}
		log.Warn("journal walk incomplete, listing partial history", "journal", cfg.SavePath, "error", err)
	}

	for _, file := range files {
		if ctx.Err() != nil {
			log.Warn("listing cancelled", "error", ctx.Err())
			break
		}
		data, err := os.ReadFile(file)
		if err != nil {
			log.Warn("skipping unreadable record", "path", file, "error", err)
			continue
		}
		id, err := filepath.Rel(cfg.SavePath, file)
		if err != nil {
			id = file
		}
		summaries = append(summaries, record.Parse(string(data)).Summary(filepath.ToSlash(id)))
	}

	slices.SortStableFunc(summaries, func(a, b record.HistorySummary) int {
		return b.Date.Compare(a.Date)
	})
	return summaries
}

// UpdateConfig saves cfg and, when a journal directory is set, prepares it
// and probes the remote. The returned warnings never mean the config was not
// saved; only the error does.
func (s *Service) UpdateConfig(ctx context.Context, cfg config.Config) (config.Config, []*SyncWarning, error) {
	saved, err := s.store.Save(cfg)
	if err != nil {
		return config.Config{}, nil, err
	}
	if !saved.IsConfigured() {
		return saved, nil, nil
	}

	report := s.sync.Probe(ctx, s.target(saved))
	warnings := toWarnings(report)
	if err := report.Err(); err != nil {
		// The settings are persisted even if the directory cannot be set up yet.
		var stepErr *git.StepError
		if errors.As(err, &stepErr) {
			warnings = append(warnings, &SyncWarning{Step: stepErr.Step, Err: stepErr.Err})
		}
	}
	if len(warnings) > 0 {
		logger.WithComponent("journal").Warn("config saved with warnings", "journal", saved.SavePath, "warnings", joinWarnings(warnings))
	}
	return saved, warnings, nil
}

// Status reports where the working copy stands relative to its remote.
func (s *Service) Status(ctx context.Context) git.State {
	cfg := s.store.Load()
	if !cfg.IsConfigured() {
		return git.Unconfigured
	}
	return s.sync.State(ctx, s.target(cfg))
}

// Config returns the current configuration.
func (s *Service) Config() config.Config {
	return s.store.Load()
}

// ConfigPath returns where the configuration is stored.
func (s *Service) ConfigPath() string {
	return s.store.Path()
}
