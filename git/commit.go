package git

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/zhubert/studylog/logger"
)

// ErrNothingToCommit is returned by CommitAll when the working copy is clean
// after staging.
var ErrNothingToCommit = errors.New("nothing to commit")

// HasChanges reports whether the working copy has staged, unstaged or
// untracked changes.
func (s *GitService) HasChanges(ctx context.Context, dir string) (bool, error) {
	output, err := s.executor.Output(ctx, dir, "git", "status", "--porcelain")
	if err != nil {
		return false, fmt.Errorf("git status failed: %w", err)
	}
	return strings.TrimSpace(string(output)) != "", nil
}

// CommitAll stages all changes and commits them with the given message.
// A clean working copy yields ErrNothingToCommit without creating a commit.
func (s *GitService) CommitAll(ctx context.Context, dir, message string) error {
	log := logger.WithComponent("git")

	if output, err := s.executor.CombinedOutput(ctx, dir, "git", "add", "-A"); err != nil {
		return fmt.Errorf("git add failed: %s - %w", strings.TrimSpace(string(output)), err)
	}

	changed, err := s.HasChanges(ctx, dir)
	if err != nil {
		return err
	}
	if !changed {
		log.Debug("no changes to commit", "repo", dir)
		return ErrNothingToCommit
	}

	if output, err := s.executor.CombinedOutput(ctx, dir, "git", "commit", "-m", message); err != nil {
		return fmt.Errorf("git commit failed: %s - %w", strings.TrimSpace(string(output)), err)
	}

	log.Info("committed changes", "repo", dir, "message", message)
	return nil
}
