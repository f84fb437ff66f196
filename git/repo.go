package git

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/zhubert/studylog/logger"
)

// IsRepository reports whether dir is the top level of its own working copy.
// A directory nested inside some other repository does not count: committing
// there would write the journal into the outer project.
func (s *GitService) IsRepository(ctx context.Context, dir string) bool {
	output, err := s.executor.Output(ctx, dir, "git", "rev-parse", "--show-toplevel")
	if err != nil {
		return false
	}
	return samePath(strings.TrimSpace(string(output)), dir)
}

// InitRepository runs git init in dir.
func (s *GitService) InitRepository(ctx context.Context, dir string) error {
	if output, err := s.executor.CombinedOutput(ctx, dir, "git", "init"); err != nil {
		return fmt.Errorf("git init failed: %s - %w", strings.TrimSpace(string(output)), err)
	}
	logger.WithComponent("git").Info("initialized repository", "repo", dir)
	return nil
}

// SetIdentity sets the commit author for this working copy only.
func (s *GitService) SetIdentity(ctx context.Context, dir, name, email string) error {
	if output, err := s.executor.CombinedOutput(ctx, dir, "git", "config", "user.name", name); err != nil {
		return fmt.Errorf("git config user.name failed: %s - %w", strings.TrimSpace(string(output)), err)
	}
	if output, err := s.executor.CombinedOutput(ctx, dir, "git", "config", "user.email", email); err != nil {
		return fmt.Errorf("git config user.email failed: %s - %w", strings.TrimSpace(string(output)), err)
	}
	return nil
}

// HasCommits reports whether HEAD points at a commit.
func (s *GitService) HasCommits(ctx context.Context, dir string) bool {
	_, _, err := s.executor.Run(ctx, dir, "git", "rev-parse", "--verify", "--quiet", "HEAD")
	return err == nil
}

// NormalizeBranch makes branch the current branch name. A repository with
// commits is renamed with git branch -M; an unborn HEAD is repointed with
// git symbolic-ref so the first commit lands on branch.
func (s *GitService) NormalizeBranch(ctx context.Context, dir, branch string) error {
	if current, err := s.GetCurrentBranch(ctx, dir); err == nil && current == branch {
		return nil
	}

	output, err := s.executor.CombinedOutput(ctx, dir, "git", "branch", "-M", branch)
	if err == nil {
		logger.WithComponent("git").Info("renamed branch", "branch", branch, "repo", dir)
		return nil
	}
	if s.HasCommits(ctx, dir) {
		return fmt.Errorf("git branch -M failed: %s - %w", strings.TrimSpace(string(output)), err)
	}

	if output, err := s.executor.CombinedOutput(ctx, dir, "git", "symbolic-ref", "HEAD", "refs/heads/"+branch); err != nil {
		return fmt.Errorf("git symbolic-ref failed: %s - %w", strings.TrimSpace(string(output)), err)
	}
	logger.WithComponent("git").Info("pointed unborn HEAD at branch", "branch", branch, "repo", dir)
	return nil
}

// samePath returns true if a and b refer to the same filesystem entry,
// resolving symlinks (e.g. /tmp on macOS) and case-insensitive filesystems.
func samePath(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	if filepath.Clean(a) == filepath.Clean(b) {
		return true
	}
	infoA, errA := os.Stat(a)
	infoB, errB := os.Stat(b)
	if errA != nil || errB != nil {
		return false
	}
	return os.SameFile(infoA, infoB)
}
