package git

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// BranchDivergence represents the divergence between local and remote branches.
type BranchDivergence struct {
	Behind int // Number of commits local is behind remote
	Ahead  int // Number of commits local is ahead of remote
}

// IsDiverged returns true if the branches have diverged (both ahead and behind).
func (d *BranchDivergence) IsDiverged() bool {
	return d.Behind > 0 && d.Ahead > 0
}

// GetCurrentBranch returns the branch HEAD points at, including an unborn
// branch in a repository without commits. Detached HEAD is an error.
func (s *GitService) GetCurrentBranch(ctx context.Context, dir string) (string, error) {
	output, err := s.executor.Output(ctx, dir, "git", "symbolic-ref", "--short", "HEAD")
	if err != nil {
		return "", fmt.Errorf("failed to get current branch: %w", err)
	}

	branch := strings.TrimSpace(string(output))
	if branch == "" {
		return "", fmt.Errorf("HEAD is detached (not on a branch)")
	}
	return branch, nil
}

// HasTrackingBranch checks if the given branch has an upstream tracking branch configured.
// Uses git config to check for branch.<name>.remote which is set when tracking is configured.
func (s *GitService) HasTrackingBranch(ctx context.Context, dir, branch string) bool {
	_, err := s.executor.Output(ctx, dir, "git", "config", "--get", fmt.Sprintf("branch.%s.remote", branch))
	return err == nil
}

// GetBranchDivergence returns how many commits the local branch is behind and ahead
// of the remote branch. Uses git rev-list --count --left-right which outputs "behind\tahead".
// Only local refs are consulted; nothing is fetched.
func (s *GitService) GetBranchDivergence(ctx context.Context, dir, localBranch, remoteBranch string) (*BranchDivergence, error) {
	output, err := s.executor.Output(ctx, dir, "git", "rev-list", "--count", "--left-right",
		fmt.Sprintf("%s...%s", remoteBranch, localBranch))
	if err != nil {
		return nil, fmt.Errorf("failed to get branch divergence: %w", err)
	}

	parts := strings.Fields(strings.TrimSpace(string(output)))
	if len(parts) != 2 {
		return nil, fmt.Errorf("unexpected rev-list output format: %q", string(output))
	}

	behind, err := strconv.Atoi(parts[0])
	if err != nil {
		return nil, fmt.Errorf("failed to parse behind count: %w", err)
	}

	ahead, err := strconv.Atoi(parts[1])
	if err != nil {
		return nil, fmt.Errorf("failed to parse ahead count: %w", err)
	}

	return &BranchDivergence{Behind: behind, Ahead: ahead}, nil
}
