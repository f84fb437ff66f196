// Package cli checks the external tools studylog shells out to.
package cli

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	pexec "github.com/zhubert/studylog/exec"
)

// versionTimeout bounds each "--version" probe.
const versionTimeout = 5 * time.Second

// Tool is an external command the journal depends on.
type Tool struct {
	Name        string   // Command name looked up in PATH
	Required    bool     // Saving is impossible without it
	Purpose     string   // Human-readable description
	InstallURL  string   // Where to get it
	VersionArgs []string // Arguments that print a version line
}

// DefaultTools returns the tools studylog uses. Only git is required; ssh is
// needed for SSH remote URLs.
func DefaultTools() []Tool {
	return []Tool{
		{
			Name:        "git",
			Required:    true,
			Purpose:     "version control for the journal",
			InstallURL:  "https://git-scm.com/downloads",
			VersionArgs: []string{"--version"},
		},
		{
			Name:        "ssh",
			Required:    false,
			Purpose:     "only needed for git@ remote URLs",
			InstallURL:  "https://www.openssh.com",
			VersionArgs: []string{"-V"},
		},
	}
}

// Result is the outcome of checking one tool.
type Result struct {
	Tool    Tool
	Found   bool
	Path    string
	Version string
	Err     error
}

// Checker looks tools up in PATH and asks them for their version.
type Checker struct {
	executor pexec.CommandExecutor
	lookPath func(string) (string, error)
}

// NewChecker returns a Checker using the real PATH and executor.
func NewChecker() *Checker {
	return &Checker{executor: pexec.NewRealExecutor(), lookPath: exec.LookPath}
}

// NewCheckerWith returns a Checker with injected lookup and executor.
func NewCheckerWith(executor pexec.CommandExecutor, lookPath func(string) (string, error)) *Checker {
	return &Checker{executor: executor, lookPath: lookPath}
}

// Check reports whether tool is available and, if so, its version.
func (c *Checker) Check(ctx context.Context, tool Tool) Result {
	res := Result{Tool: tool}

	path, err := c.lookPath(tool.Name)
	if err != nil {
		res.Err = fmt.Errorf("%s not found in PATH", tool.Name)
		return res
	}
	res.Found = true
	res.Path = path
	res.Version = c.version(ctx, tool)
	return res
}

// CheckAll checks every tool in order.
func (c *Checker) CheckAll(ctx context.Context, tools []Tool) []Result {
	results := make([]Result, len(tools))
	for i, tool := range tools {
		results[i] = c.Check(ctx, tool)
	}
	return results
}

// version returns the first output line of the version command, or "".
// Some tools (ssh) print their version on stderr, so combined output is read.
func (c *Checker) version(ctx context.Context, tool Tool) string {
	if len(tool.VersionArgs) == 0 {
		return ""
	}
	ctx, cancel := context.WithTimeout(ctx, versionTimeout)
	defer cancel()

	output, err := c.executor.CombinedOutput(ctx, "", tool.Name, tool.VersionArgs...)
	if err != nil {
		return ""
	}
	line, _, _ := strings.Cut(strings.TrimSpace(string(output)), "\n")
	line = strings.TrimSpace(line)
	if len(line) > 100 {
		line = line[:100] + "..."
	}
	return line
}

// MissingRequired returns an error naming every required tool that was not
// found, or nil.
func MissingRequired(results []Result) error {
	var missing []string
	for _, r := range results {
		if r.Tool.Required && !r.Found {
			missing = append(missing, fmt.Sprintf("  - %s (%s)\n    Install: %s",
				r.Tool.Name, r.Tool.Purpose, r.Tool.InstallURL))
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required tools:\n%s", strings.Join(missing, "\n"))
	}
	return nil
}

// FormatResults renders results as plain text, one tool per line.
func FormatResults(results []Result) string {
	var sb strings.Builder

	sb.WriteString("Prerequisites:\n")
	for _, r := range results {
		status := "✓"
		if !r.Found {
			if r.Tool.Required {
				status = "✗"
			} else {
				status = "○"
			}
		}

		fmt.Fprintf(&sb, "  %s %s", status, r.Tool.Name)
		switch {
		case r.Found && r.Version != "":
			fmt.Fprintf(&sb, " (%s)", r.Version)
		case !r.Found && r.Tool.Required:
			sb.WriteString(" [REQUIRED]")
		case !r.Found:
			sb.WriteString(" [optional]")
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
