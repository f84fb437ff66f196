package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/zhubert/studylog/cli"
	"github.com/zhubert/studylog/journal"
	"github.com/zhubert/studylog/logger"
)

// app carries the services and output settings shared by all commands.
type app struct {
	journal *journal.Service
	checker *cli.Checker
	styled  bool // render with lipgloss; false when stdout is not a terminal
	asJSON  bool
}

var (
	styleSuccess = lipgloss.NewStyle().Foreground(lipgloss.Color("#8ec07c")).Bold(true)
	styleWarning = lipgloss.NewStyle().Foreground(lipgloss.Color("#fabd2f"))
	styleError   = lipgloss.NewStyle().Foreground(lipgloss.Color("#fb4934")).Bold(true)
	styleDim     = lipgloss.NewStyle().Foreground(lipgloss.Color("#928374"))
	styleHeader  = lipgloss.NewStyle().Foreground(lipgloss.Color("#fe8019")).Bold(true)
)

func (a *app) paint(style lipgloss.Style, text string) string {
	if !a.styled {
		return text
	}
	return style.Render(text)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newRootCmd(a *app) *cobra.Command {
	var debug bool

	root := &cobra.Command{
		Use:           "studylog",
		Short:         "Study session journal backed by git",
		Long:          "studylog writes each finished study session as a Markdown note into a\ngit working copy and pushes it to an optional remote.",
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.SetDebug(debug)
		},
	}

	root.PersistentFlags().BoolVar(&debug, "debug", false, "Write debug-level entries to the log file")
	root.PersistentFlags().BoolVar(&a.asJSON, "json", false, "Print machine-readable JSON")

	root.AddCommand(
		newConfigCmd(a),
		newSaveCmd(a),
		newListCmd(a),
		newStatusCmd(a),
		newDoctorCmd(a),
	)

	return root
}

func (a *app) warn(w io.Writer, message string) {
	if message != "" {
		fmt.Fprintln(w, a.paint(styleWarning, "! "+message))
	}
}
