package git

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	pexec "github.com/zhubert/studylog/exec"
	"github.com/zhubert/studylog/logger"
)

// RemoteErrorKind classifies why a network operation against origin failed.
type RemoteErrorKind int

const (
	// RemoteUnknown is any failure not matched by a more specific kind.
	RemoteUnknown RemoteErrorKind = iota
	// RemoteRefMissing means the remote was reached but has no such branch yet,
	// the normal state of a freshly created empty repository.
	RemoteRefMissing
	// AuthFailed means the remote rejected or could not obtain credentials.
	AuthFailed
	// NetworkUnreachable means the host could not be resolved or connected to.
	NetworkUnreachable
	// RemoteNotFound means the host answered but the repository does not exist.
	RemoteNotFound
	// RemoteRejected means a push was refused, usually because histories diverged.
	RemoteRejected
	// RemoteTimeout means the operation did not finish within its deadline.
	RemoteTimeout
)

func (k RemoteErrorKind) String() string {
	switch k {
	case RemoteRefMissing:
		return "remote ref missing"
	case AuthFailed:
		return "authentication failed"
	case NetworkUnreachable:
		return "network unreachable"
	case RemoteNotFound:
		return "remote repository not found"
	case RemoteRejected:
		return "rejected by remote"
	case RemoteTimeout:
		return "timed out"
	default:
		return "remote error"
	}
}

// RemoteError is a classified failure of fetch, ls-remote or push.
type RemoteError struct {
	Kind   RemoteErrorKind
	Op     string
	Output string
	Err    error
}

func (e *RemoteError) Error() string {
	if e.Output != "" {
		return fmt.Sprintf("git %s: %s: %s", e.Op, e.Kind, e.Output)
	}
	return fmt.Sprintf("git %s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

// RemoteErrorKindOf returns the kind of the RemoteError in err's chain, or
// RemoteUnknown if there is none.
func RemoteErrorKindOf(err error) RemoteErrorKind {
	var remoteErr *RemoteError
	if errors.As(err, &remoteErr) {
		return remoteErr.Kind
	}
	return RemoteUnknown
}

// lsRemoteNoMatch is the exit status of git ls-remote --exit-code when the
// remote answered but has no matching ref.
const lsRemoteNoMatch = 2

// Message fragments git prints for each failure class. Only classifyOutput
// reads them.
var outputKinds = []struct {
	kind      RemoteErrorKind
	fragments []string
}{
	{RemoteRefMissing, []string{"couldn't find remote ref"}},
	{AuthFailed, []string{
		"authentication failed", "permission denied", "could not read username",
		"could not read password", "terminal prompts disabled", "invalid username or password",
		"the requested url returned error: 401", "the requested url returned error: 403",
		"host key verification failed",
	}},
	{RemoteNotFound, []string{
		"repository not found", "does not appear to be a git repository",
		"the requested url returned error: 404", "not found",
	}},
	{NetworkUnreachable, []string{
		"could not resolve host", "could not resolve hostname", "connection refused",
		"connection timed out", "network is unreachable", "no route to host",
		"failed to connect", "unable to access", "connection reset",
	}},
	{RemoteRejected, []string{"[rejected]", "non-fast-forward", "fetch first", "failed to push some refs"}},
}

func classifyOutput(output string) RemoteErrorKind {
	lower := strings.ToLower(output)
	for _, entry := range outputKinds {
		for _, fragment := range entry.fragments {
			if strings.Contains(lower, fragment) {
				return entry.kind
			}
		}
	}
	return RemoteUnknown
}

func newRemoteError(ctx context.Context, op string, output []byte, err error) *RemoteError {
	out := strings.TrimSpace(string(output))
	kind := classifyOutput(out)
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		kind = RemoteTimeout
	}
	return &RemoteError{Kind: kind, Op: op, Output: out, Err: err}
}

// HasRemoteOrigin checks if the repository has a remote named "origin"
func (s *GitService) HasRemoteOrigin(ctx context.Context, dir string) bool {
	_, _, err := s.executor.Run(ctx, dir, "git", "remote", "get-url", "origin")
	return err == nil
}

// GetRemoteOriginURL returns the URL of the "origin" remote.
func (s *GitService) GetRemoteOriginURL(ctx context.Context, dir string) (string, error) {
	output, err := s.executor.Output(ctx, dir, "git", "remote", "get-url", "origin")
	if err != nil {
		return "", fmt.Errorf("failed to get remote origin URL: %w", err)
	}
	return strings.TrimSpace(string(output)), nil
}

// EnsureRemoteOrigin adds origin pointing at url, or corrects its URL if it
// drifted. An origin already at url is left alone.
func (s *GitService) EnsureRemoteOrigin(ctx context.Context, dir, url string) error {
	log := logger.WithComponent("git")

	current, err := s.GetRemoteOriginURL(ctx, dir)
	if err != nil {
		if output, err := s.executor.CombinedOutput(ctx, dir, "git", "remote", "add", "origin", url); err != nil {
			return fmt.Errorf("git remote add failed: %s - %w", strings.TrimSpace(string(output)), err)
		}
		log.Info("added origin", "repo", dir, "url", url)
		return nil
	}

	if current == url {
		return nil
	}

	if output, err := s.executor.CombinedOutput(ctx, dir, "git", "remote", "set-url", "origin", url); err != nil {
		return fmt.Errorf("git remote set-url failed: %s - %w", strings.TrimSpace(string(output)), err)
	}
	log.Info("updated origin URL", "repo", dir, "from", current, "to", url)
	return nil
}

// ProbeRemote does a shallow fetch of branch from origin to check that the
// remote is reachable and readable. A failure is returned as a *RemoteError.
// When the fetch fails, git ls-remote --exit-code tells a reachable remote
// without the branch (RemoteRefMissing) apart from real failures.
func (s *GitService) ProbeRemote(ctx context.Context, dir, branch string, timeout time.Duration) error {
	fetchCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	output, err := s.executor.CombinedOutput(fetchCtx, dir, "git", "fetch", "--depth=1", "origin", branch)
	if err == nil {
		return nil
	}
	fetchErr := newRemoteError(fetchCtx, "fetch", output, err)
	if fetchErr.Kind == RemoteTimeout {
		return fetchErr
	}

	lsCtx, lsCancel := context.WithTimeout(ctx, timeout)
	defer lsCancel()

	lsOutput, lsErr := s.executor.CombinedOutput(lsCtx, dir, "git", "ls-remote", "--exit-code", "origin", "refs/heads/"+branch)
	switch {
	case lsErr == nil:
		// The branch exists, so the fetch itself failed.
		return fetchErr
	case pexec.ExitCode(lsErr) == lsRemoteNoMatch:
		return &RemoteError{Kind: RemoteRefMissing, Op: "fetch", Output: fetchErr.Output, Err: err}
	default:
		lsRemoteErr := newRemoteError(lsCtx, "ls-remote", lsOutput, lsErr)
		if fetchErr.Kind == RemoteUnknown {
			fetchErr.Kind = lsRemoteErr.Kind
		}
		return fetchErr
	}
}

// Push pushes branch to origin and sets it as the upstream.
func (s *GitService) Push(ctx context.Context, dir, branch string, timeout time.Duration) error {
	pushCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	output, err := s.executor.CombinedOutput(pushCtx, dir, "git", "push", "-u", "origin", branch)
	if err != nil {
		return newRemoteError(pushCtx, "push", output, err)
	}

	logger.WithComponent("git").Info("pushed branch", "repo", dir, "branch", branch)
	return nil
}
