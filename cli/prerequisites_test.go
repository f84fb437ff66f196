package cli

import (
	"context"
	"errors"
	"strings"
	"testing"

	pexec "github.com/zhubert/studylog/exec"
)

func fakeLookPath(found ...string) func(string) (string, error) {
	return func(name string) (string, error) {
		for _, f := range found {
			if f == name {
				return "/usr/bin/" + name, nil
			}
		}
		return "", errors.New("executable file not found in $PATH")
	}
}

func TestDefaultTools(t *testing.T) {
	tools := DefaultTools()

	var sawGit bool
	for _, tool := range tools {
		switch tool.Name {
		case "git":
			sawGit = true
			if !tool.Required {
				t.Error("git should be required")
			}
		default:
			if tool.Required {
				t.Errorf("%s should be optional", tool.Name)
			}
		}
	}
	if !sawGit {
		t.Error("git missing from default tools")
	}
}

func TestCheck_FoundWithVersion(t *testing.T) {
	mock := pexec.NewMockExecutor(nil)
	mock.AddExactMatch("git", []string{"--version"}, pexec.MockResponse{
		Stdout: []byte("git version 2.43.0\n"),
	})
	c := NewCheckerWith(mock, fakeLookPath("git"))

	res := c.Check(context.Background(), DefaultTools()[0])

	if !res.Found || res.Err != nil {
		t.Fatalf("expected git found, got %+v", res)
	}
	if res.Path != "/usr/bin/git" {
		t.Errorf("Path = %q", res.Path)
	}
	if res.Version != "git version 2.43.0" {
		t.Errorf("Version = %q", res.Version)
	}
}

func TestCheck_VersionOnStderr(t *testing.T) {
	mock := pexec.NewMockExecutor(nil)
	mock.AddExactMatch("ssh", []string{"-V"}, pexec.MockResponse{
		Stderr: []byte("OpenSSH_9.6p1, OpenSSL 3.0.13\n"),
	})
	c := NewCheckerWith(mock, fakeLookPath("ssh"))

	res := c.Check(context.Background(), Tool{Name: "ssh", VersionArgs: []string{"-V"}})
	if res.Version != "OpenSSH_9.6p1, OpenSSL 3.0.13" {
		t.Errorf("Version = %q", res.Version)
	}
}

func TestCheck_VersionFailureIsNotFatal(t *testing.T) {
	mock := pexec.NewMockExecutor(nil)
	mock.AddPrefixMatch("git", nil, pexec.MockResponse{Err: &pexec.ExitError{Code: 129}})
	c := NewCheckerWith(mock, fakeLookPath("git"))

	res := c.Check(context.Background(), DefaultTools()[0])
	if !res.Found {
		t.Error("tool should still be found")
	}
	if res.Version != "" {
		t.Errorf("Version = %q, want empty", res.Version)
	}
}

func TestCheck_NotFound(t *testing.T) {
	mock := pexec.NewMockExecutor(nil)
	c := NewCheckerWith(mock, fakeLookPath())

	res := c.Check(context.Background(), DefaultTools()[0])
	if res.Found {
		t.Error("Found should be false")
	}
	if res.Err == nil || !strings.Contains(res.Err.Error(), "git") {
		t.Errorf("Err = %v", res.Err)
	}
	if len(mock.GetCalls()) != 0 {
		t.Error("a missing tool must not be executed")
	}
}

func TestCheck_RealPath(t *testing.T) {
	res := NewChecker().Check(context.Background(), Tool{Name: "definitely-not-a-real-command-12345"})
	if res.Found {
		t.Error("nonexistent command reported as found")
	}
}

func TestMissingRequired(t *testing.T) {
	c := NewCheckerWith(pexec.NewMockExecutor(nil), fakeLookPath())
	results := c.CheckAll(context.Background(), DefaultTools())

	err := MissingRequired(results)
	if err == nil {
		t.Fatal("expected an error when git is missing")
	}
	if !strings.Contains(err.Error(), "git") || !strings.Contains(err.Error(), "https://git-scm.com/downloads") {
		t.Errorf("error should name git and where to get it: %v", err)
	}
	if strings.Contains(err.Error(), "ssh") {
		t.Errorf("optional tools must not be reported: %v", err)
	}
}

func TestMissingRequired_OnlyOptionalMissing(t *testing.T) {
	c := NewCheckerWith(pexec.NewMockExecutor(nil), fakeLookPath("git"))
	if err := MissingRequired(c.CheckAll(context.Background(), DefaultTools())); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestFormatResults(t *testing.T) {
	results := []Result{
		{Tool: Tool{Name: "git", Required: true}, Found: true, Version: "git version 2.43.0"},
		{Tool: Tool{Name: "missing-required", Required: true}},
		{Tool: Tool{Name: "missing-optional"}},
	}

	output := FormatResults(results)

	for _, want := range []string{"Prerequisites", "✓ git (git version 2.43.0)", "✗ missing-required [REQUIRED]", "○ missing-optional [optional]"} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q:\n%s", want, output)
		}
	}
}
