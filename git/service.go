package git

import (
	pexec "github.com/zhubert/studylog/exec"
)

// GitService provides git operations with explicit dependency injection.
// Each GitService instance holds its own executor, enabling proper testing
// and avoiding global state.
type GitService struct {
	executor pexec.CommandExecutor
}

// NewGitService creates a new GitService backed by the real git binary.
// Credential prompts are disabled so a network step can fail but never hang
// waiting for input.
func NewGitService() *GitService {
	return &GitService{executor: pexec.NewRealExecutor("GIT_TERMINAL_PROMPT=0")}
}

// NewGitServiceWithExecutor creates a new GitService with a custom executor.
// This is primarily used for testing where a mock executor is needed.
func NewGitServiceWithExecutor(exec pexec.CommandExecutor) *GitService {
	return &GitService{executor: exec}
}
