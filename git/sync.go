package git

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/zhubert/studylog/logger"
)

// Step names one stage of the working-copy pipeline.
type Step string

const (
	StepEnsureDirectory  Step = "ensure-directory"
	StepEnsureRepository Step = "ensure-repository"
	StepEnsureIdentity   Step = "ensure-identity"
	StepEnsureBranch     Step = "ensure-branch"
	StepEnsureRemote     Step = "ensure-remote"
	StepProbeRemote      Step = "probe-remote"
	StepCommit           Step = "commit"
	StepPush             Step = "push"
)

// Outcome is how a step ended.
type Outcome int

const (
	Completed Outcome = iota
	// Warned marks a best-effort step that failed; the pipeline continued.
	Warned
	// Failed marks a required step that failed; the pipeline stopped.
	Failed
	// Skipped marks a step that did not apply, e.g. push without a remote.
	Skipped
)

func (o Outcome) String() string {
	switch o {
	case Completed:
		return "completed"
	case Warned:
		return "warned"
	case Failed:
		return "failed"
	case Skipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// StepError ties a failure to the step that produced it.
type StepError struct {
	Step Step
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// StepResult records one executed (or skipped) step.
type StepResult struct {
	Step     Step
	Outcome  Outcome
	Err      error
	Duration time.Duration
}

// Report is the ordered record of a pipeline run.
type Report struct {
	Results []StepResult
}

// Err returns the required-step failure that stopped the pipeline, if any.
func (r *Report) Err() error {
	for _, res := range r.Results {
		if res.Outcome == Failed {
			return &StepError{Step: res.Step, Err: res.Err}
		}
	}
	return nil
}

// Warnings returns every best-effort failure in step order.
func (r *Report) Warnings() []*StepError {
	var warnings []*StepError
	for _, res := range r.Results {
		if res.Outcome == Warned {
			warnings = append(warnings, &StepError{Step: res.Step, Err: res.Err})
		}
	}
	return warnings
}

// Outcome returns how step ended, and false if it never ran.
func (r *Report) Outcome(step Step) (Outcome, bool) {
	for _, res := range r.Results {
		if res.Step == step {
			return res.Outcome, true
		}
	}
	return 0, false
}

// errSkip is returned by a step's run func when the step does not apply.
var errSkip = errors.New("skip")

type pipelineStep struct {
	name     Step
	required bool
	run      func(ctx context.Context) error
}

// run executes steps in order. A best-effort failure is recorded as Warned
// and the pipeline continues; a required failure is recorded as Failed and
// ends the run.
func run(ctx context.Context, dir string, steps []pipelineStep) *Report {
	log := logger.WithComponent("git").With("repo", dir)
	report := &Report{}

	for _, step := range steps {
		start := time.Now()
		err := step.run(ctx)
		res := StepResult{Step: step.name, Duration: time.Since(start)}

		switch {
		case err == nil:
			res.Outcome = Completed
			log.Debug("step completed", "step", step.name, "duration", res.Duration)
		case errors.Is(err, errSkip):
			res.Outcome = Skipped
			log.Debug("step skipped", "step", step.name)
		case step.required:
			res.Outcome = Failed
			res.Err = err
			log.Error("required step failed", "step", step.name, "error", err)
		default:
			res.Outcome = Warned
			res.Err = err
			log.Warn("best-effort step failed", "step", step.name, "error", err)
		}

		report.Results = append(report.Results, res)
		if res.Outcome == Failed {
			break
		}
	}

	return report
}

// Target describes one journal working copy and how to sync it.
type Target struct {
	Dir           string
	RemoteURL     string // empty means local only
	AuthorName    string
	AuthorEmail   string
	Branch        string
	RemoteTimeout time.Duration
}

// Synchronizer drives a working copy through the save pipeline.
type Synchronizer struct {
	git *GitService
}

// NewSynchronizer returns a Synchronizer using git.
func NewSynchronizer(git *GitService) *Synchronizer {
	return &Synchronizer{git: git}
}

func (s *Synchronizer) prepareSteps(t Target) []pipelineStep {
	return []pipelineStep{
		{
			name:     StepEnsureDirectory,
			required: true,
			run: func(ctx context.Context) error {
				return os.MkdirAll(t.Dir, 0755)
			},
		},
		{
			name:     StepEnsureRepository,
			required: true,
			run: func(ctx context.Context) error {
				if s.git.IsRepository(ctx, t.Dir) {
					return nil
				}
				return s.git.InitRepository(ctx, t.Dir)
			},
		},
		{
			name: StepEnsureIdentity,
			run: func(ctx context.Context) error {
				return s.git.SetIdentity(ctx, t.Dir, t.AuthorName, t.AuthorEmail)
			},
		},
		{
			name: StepEnsureBranch,
			run: func(ctx context.Context) error {
				return s.git.NormalizeBranch(ctx, t.Dir, t.Branch)
			},
		},
		{
			name: StepEnsureRemote,
			run: func(ctx context.Context) error {
				if t.RemoteURL == "" {
					return errSkip
				}
				return s.git.EnsureRemoteOrigin(ctx, t.Dir, t.RemoteURL)
			},
		},
	}
}

// Prepare makes t.Dir a working copy with the journal identity, branch and
// origin. Only directory and repository creation are required.
func (s *Synchronizer) Prepare(ctx context.Context, t Target) *Report {
	return run(ctx, t.Dir, s.prepareSteps(t))
}

// Probe runs Prepare followed by a reachability check of the remote. A remote
// that is reachable but has no branch yet counts as success.
func (s *Synchronizer) Probe(ctx context.Context, t Target) *Report {
	steps := append(s.prepareSteps(t), pipelineStep{
		name: StepProbeRemote,
		run: func(ctx context.Context) error {
			if t.RemoteURL == "" {
				return errSkip
			}
			err := s.git.ProbeRemote(ctx, t.Dir, t.Branch, t.RemoteTimeout)
			if RemoteErrorKindOf(err) == RemoteRefMissing {
				logger.WithComponent("git").Info("remote has no branch yet", "repo", t.Dir, "branch", t.Branch)
				return nil
			}
			return err
		},
	})
	return run(ctx, t.Dir, steps)
}

// Publish commits everything in the working copy with message and pushes it
// when a remote is configured. A clean working copy is not an error. The
// commit is required; the push is best-effort and never undoes the commit.
func (s *Synchronizer) Publish(ctx context.Context, t Target, message string) *Report {
	return run(ctx, t.Dir, []pipelineStep{
		{
			name:     StepCommit,
			required: true,
			run: func(ctx context.Context) error {
				err := s.git.CommitAll(ctx, t.Dir, message)
				if errors.Is(err, ErrNothingToCommit) {
					return nil
				}
				return err
			},
		},
		{
			name: StepPush,
			run: func(ctx context.Context) error {
				if t.RemoteURL == "" {
					return errSkip
				}
				return s.git.Push(ctx, t.Dir, t.Branch, t.RemoteTimeout)
			},
		},
	})
}

// State is where a working copy stands relative to its remote.
type State int

const (
	// Unconfigured: the directory is not a repository of its own.
	Unconfigured State = iota
	// Initialized: a repository without origin.
	Initialized
	// RemoteLinked: origin exists but the branch is not tracked or has
	// commits the remote has not seen.
	RemoteLinked
	// Synced: the branch tracks origin and nothing local is unpushed.
	Synced
	// Diverged: local and origin each have commits the other lacks, as of
	// the last fetch. Pushing will be rejected until they are reconciled.
	Diverged
)

func (st State) String() string {
	switch st {
	case Unconfigured:
		return "unconfigured"
	case Initialized:
		return "initialized"
	case RemoteLinked:
		return "remote-linked"
	case Synced:
		return "synced"
	case Diverged:
		return "diverged"
	default:
		return "unknown"
	}
}

// State inspects the working copy using local refs only; it never touches
// the network, so Synced reflects the last push or fetch.
func (s *Synchronizer) State(ctx context.Context, t Target) State {
	if !s.git.IsRepository(ctx, t.Dir) {
		return Unconfigured
	}
	if !s.git.HasRemoteOrigin(ctx, t.Dir) {
		return Initialized
	}
	if !s.git.HasTrackingBranch(ctx, t.Dir, t.Branch) {
		return RemoteLinked
	}
	div, err := s.git.GetBranchDivergence(ctx, t.Dir, t.Branch, "origin/"+t.Branch)
	if err != nil {
		return RemoteLinked
	}
	if div.IsDiverged() {
		return Diverged
	}
	if div.Ahead > 0 {
		return RemoteLinked
	}
	return Synced
}

// Describe renders a report's warnings as one line, for user-facing messages.
func Describe(warnings []*StepError) string {
	parts := make([]string, 0, len(warnings))
	for _, w := range warnings {
		parts = append(parts, w.Error())
	}
	return strings.Join(parts, "; ")
}
