package exec

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"testing"
	"time"
)

var ctx = context.Background()

func TestRealExecutor_Run(t *testing.T) {
	executor := NewRealExecutor()

	stdout, stderr, err := executor.Run(ctx, "", "echo", "hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(stdout) != "hello\n" {
		t.Errorf("expected 'hello\\n', got %q", string(stdout))
	}
	if len(stderr) != 0 {
		t.Errorf("expected empty stderr, got %q", string(stderr))
	}
}

func TestRealExecutor_Env(t *testing.T) {
	executor := NewRealExecutor("STUDYLOG_EXEC_TEST=present")

	output, err := executor.Output(ctx, "", "sh", "-c", "echo $STUDYLOG_EXEC_TEST")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(string(output)) != "present" {
		t.Errorf("expected env var to be passed through, got %q", string(output))
	}
}

func TestRealExecutor_CombinedOutput(t *testing.T) {
	executor := NewRealExecutor()

	output, err := executor.CombinedOutput(ctx, "", "sh", "-c", "echo out; echo err 1>&2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(string(output), "out") || !strings.Contains(string(output), "err") {
		t.Errorf("expected both streams, got %q", string(output))
	}
}

func TestRealExecutor_CancelledCommandReturnsPromptly(t *testing.T) {
	executor := NewRealExecutor()

	run := map[string]func(context.Context) error{
		"Run": func(ctx context.Context) error {
			_, _, err := executor.Run(ctx, "", "sh", "-c", "sleep 5; echo done")
			return err
		},
		"Output": func(ctx context.Context) error {
			_, err := executor.Output(ctx, "", "sh", "-c", "sleep 5; echo done")
			return err
		},
		"CombinedOutput": func(ctx context.Context) error {
			_, err := executor.CombinedOutput(ctx, "", "sh", "-c", "sleep 5; echo done")
			return err
		},
	}

	for name, fn := range run {
		t.Run(name, func(t *testing.T) {
			ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
			defer cancel()

			start := time.Now()
			err := fn(ctx)
			elapsed := time.Since(start)

			if err == nil {
				t.Fatal("expected an error from a cancelled command")
			}
			if elapsed > 4*time.Second {
				t.Errorf("cancelled command took %v, want well under the 5s sleep", elapsed)
			}
		})
	}
}

func TestExitCode(t *testing.T) {
	_, _, realErr := NewRealExecutor().Run(ctx, "", "sh", "-c", "exit 2")

	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: -1},
		{name: "plain error", err: errors.New("boom"), want: -1},
		{name: "mock exit error", err: &ExitError{Code: 128}, want: 128},
		{name: "wrapped exit error", err: fmt.Errorf("git fetch: %w", &ExitError{Code: 2}), want: 2},
		{name: "real process", err: realErr, want: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode() = %d, want %d", got, tt.want)
			}
		})
	}

	var exitErr *exec.ExitError
	if !errors.As(realErr, &exitErr) {
		t.Errorf("real failure should be an *exec.ExitError, got %T", realErr)
	}
}

func TestExitError_Message(t *testing.T) {
	err := &ExitError{Code: 128, Stderr: "fatal: couldn't find remote ref main"}
	if !strings.Contains(err.Error(), "128") || !strings.Contains(err.Error(), "remote ref") {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestMockExecutor_Run(t *testing.T) {
	mock := NewMockExecutor(nil)
	mock.AddExactMatch("git", []string{"status"}, MockResponse{
		Stdout: []byte("On branch main"),
	})

	stdout, stderr, err := mock.Run(ctx, "/some/dir", "git", "status")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(stdout) != "On branch main" {
		t.Errorf("expected 'On branch main', got %q", string(stdout))
	}
	if len(stderr) != 0 {
		t.Errorf("expected empty stderr, got %q", string(stderr))
	}

	calls := mock.GetCalls()
	if len(calls) != 1 {
		t.Fatalf("expected 1 call, got %d", len(calls))
	}
	if calls[0].Dir != "/some/dir" || calls[0].Name != "git" {
		t.Errorf("unexpected call %+v", calls[0])
	}
}

func TestMockExecutor_PrefixMatch(t *testing.T) {
	mock := NewMockExecutor(nil)
	mock.AddPrefixMatch("git", []string{"rev-parse"}, MockResponse{
		Stdout: []byte("abc123"),
	})

	stdout, _, err := mock.Run(ctx, "", "git", "rev-parse", "--verify", "HEAD")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(stdout) != "abc123" {
		t.Errorf("expected 'abc123', got %q", string(stdout))
	}

	stdout, _, err = mock.Run(ctx, "", "git", "status")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(stdout) != "" {
		t.Errorf("expected empty response for unmatched command, got %q", string(stdout))
	}
}

func TestMockExecutor_Error(t *testing.T) {
	mock := NewMockExecutor(nil)

	expectedErr := &ExitError{Code: 128}
	mock.AddExactMatch("git", []string{"push"}, MockResponse{
		Stderr: []byte("Permission denied (publickey)."),
		Err:    expectedErr,
	})

	output, err := mock.CombinedOutput(ctx, "", "git", "push")
	if err != expectedErr {
		t.Errorf("expected error %v, got %v", expectedErr, err)
	}
	if string(output) != "Permission denied (publickey)." {
		t.Errorf("unexpected output %q", string(output))
	}
}

func TestMockExecutor_CombinedOutputDoesNotAliasStdout(t *testing.T) {
	mock := NewMockExecutor(nil)
	stdout := make([]byte, 3, 16)
	copy(stdout, "out")
	mock.AddExactMatch("cmd", []string{"test"}, MockResponse{
		Stdout: stdout,
		Stderr: []byte("err"),
	})

	output, err := mock.CombinedOutput(ctx, "", "cmd", "test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(output) != "outerr" {
		t.Errorf("expected 'outerr', got %q", string(output))
	}

	again, _ := mock.Output(ctx, "", "cmd", "test")
	if string(again) != "out" {
		t.Errorf("stdout was modified by CombinedOutput: %q", string(again))
	}
}

func TestMockExecutor_Fallback(t *testing.T) {
	mock := NewMockExecutor(NewRealExecutor())
	mock.AddPrefixMatch("git", []string{}, MockResponse{
		Stdout: []byte("mocked"),
	})

	stdout, _, err := mock.Run(ctx, "", "git", "status")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(stdout) != "mocked" {
		t.Errorf("expected 'mocked', got %q", string(stdout))
	}

	stdout, _, err = mock.Run(ctx, "", "echo", "hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(stdout) != "hello\n" {
		t.Errorf("expected 'hello\\n', got %q", string(stdout))
	}
}

func TestMockExecutor_RuleOrder(t *testing.T) {
	mock := NewMockExecutor(nil)
	mock.AddExactMatch("git", []string{"push", "origin", "main"}, MockResponse{
		Stdout: []byte("specific"),
	})
	mock.AddPrefixMatch("git", []string{"push"}, MockResponse{
		Stdout: []byte("general"),
	})

	stdout, _ := mock.Output(ctx, "", "git", "push", "origin", "main")
	if string(stdout) != "specific" {
		t.Errorf("expected first registered rule to win, got %q", string(stdout))
	}

	stdout, _ = mock.Output(ctx, "", "git", "push", "-u", "origin", "main")
	if string(stdout) != "general" {
		t.Errorf("expected prefix rule, got %q", string(stdout))
	}

	mock.ClearCalls()
	if len(mock.GetCalls()) != 0 {
		t.Error("expected no calls after ClearCalls")
	}
}
