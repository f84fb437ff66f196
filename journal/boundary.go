package journal

import (
	"context"
	"errors"
	"time"

	"github.com/zhubert/studylog/config"
	"github.com/zhubert/studylog/record"
)

// The request/response surface used by front ends. Every failure is folded
// into the response; none of these methods return an error.

// notConfiguredMessage is the text front ends show before a journal
// directory has been chosen.
const notConfiguredMessage = "Save path is not configured."

// SaveConfigResult answers SaveConfig. Error alongside Success=true is a
// sync warning: the configuration was saved.
type SaveConfigResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// LogInput is a finished session as submitted by a front end.
type LogInput struct {
	Topic           string    `json:"topic"`
	DurationMinutes int       `json:"durationMinutes"`
	Acquisition     string    `json:"acquisition"`
	Debt            string    `json:"debt"`
	NextAction      string    `json:"nextAction"`
	StartedAt       time.Time `json:"startedAt"` // zero means now
}

// SaveLogResult answers SaveLog. Error alongside Success=true is a sync
// warning: the record was written and committed locally.
type SaveLogResult struct {
	Success bool   `json:"success"`
	Path    string `json:"path,omitempty"`
	Error   string `json:"error,omitempty"`
}

// GetConfig returns the saved configuration, or the empty one.
func (s *Service) GetConfig() config.Config {
	return s.Config()
}

// SaveConfig persists cfg and checks the journal and remote it names.
func (s *Service) SaveConfig(ctx context.Context, cfg config.Config) SaveConfigResult {
	_, warnings, err := s.UpdateConfig(ctx, cfg)
	if err != nil {
		return SaveConfigResult{Success: false, Error: err.Error()}
	}
	return SaveConfigResult{Success: true, Error: joinWarnings(warnings)}
}

// SaveLog saves one session.
func (s *Service) SaveLog(ctx context.Context, in LogInput) SaveLogResult {
	res, err := s.SaveSession(ctx, record.SessionRecord{
		Topic:           in.Topic,
		StartedAt:       in.StartedAt,
		DurationMinutes: in.DurationMinutes,
		Acquisition:     in.Acquisition,
		Debt:            in.Debt,
		NextAction:      in.NextAction,
	})
	if errors.Is(err, ErrNotConfigured) {
		return SaveLogResult{Success: false, Error: notConfiguredMessage}
	}
	if err != nil {
		return SaveLogResult{Success: false, Error: err.Error()}
	}
	return SaveLogResult{Success: true, Path: res.Path, Error: res.WarningText()}
}

// GetLogs returns the session history, newest first.
func (s *Service) GetLogs(ctx context.Context) []record.HistorySummary {
	return s.ListSessions(ctx)
}
