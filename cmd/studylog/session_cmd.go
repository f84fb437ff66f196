package main

import (
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/zhubert/studylog/journal"
)

func newSaveCmd(a *app) *cobra.Command {
	var (
		in      journal.LogInput
		started string
	)

	cmd := &cobra.Command{
		Use:   "save",
		Short: "Record a finished study session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			if started != "" {
				t, err := time.Parse(time.RFC3339, started)
				if err != nil {
					return fmt.Errorf("--started must be RFC 3339, e.g. 2026-10-18T09:30:00+02:00: %w", err)
				}
				in.StartedAt = t.Local()
			}

			res := a.journal.SaveLog(cmd.Context(), in)
			if a.asJSON {
				if err := printJSON(out, res); err != nil {
					return err
				}
			}
			if !res.Success {
				return errors.New(res.Error)
			}
			if !a.asJSON {
				fmt.Fprintf(out, "%s %s\n", a.paint(styleSuccess, "✓ Saved"), res.Path)
				a.warn(out, res.Error)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&in.Topic, "topic", "", "What you studied")
	cmd.Flags().IntVar(&in.DurationMinutes, "minutes", 0, "Session length in minutes")
	cmd.Flags().StringVar(&in.Acquisition, "acquisition", "", "What you learned")
	cmd.Flags().StringVar(&in.Debt, "debt", "", "What is still unclear")
	cmd.Flags().StringVar(&in.NextAction, "next", "", "What to do next")
	cmd.Flags().StringVar(&started, "started", "", "Start time in RFC 3339 (default now)")
	_ = cmd.MarkFlagRequired("topic")
	_ = cmd.MarkFlagRequired("minutes")

	return cmd
}

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List recorded sessions, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			logs := a.journal.GetLogs(cmd.Context())
			if a.asJSON {
				return printJSON(out, logs)
			}

			if len(logs) == 0 {
				fmt.Fprintln(out, a.paint(styleDim, "No sessions recorded yet."))
				return nil
			}

			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "DATE\tMIN\tTOPIC\tACQUISITION")
			for _, s := range logs {
				date := "-"
				if !s.Date.IsZero() {
					date = s.Date.Format("2006-01-02 15:04")
				}
				fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", date, s.DurationMinutes, s.Topic, preview(s.Acquisition, 40))
			}
			return tw.Flush()
		},
	}
}

// preview returns the first line of text, cut to max runes. Widths too
// narrow for an ellipsis are cut without one.
func preview(text string, max int) string {
	const ellipsis = "..."

	line, _, _ := strings.Cut(text, "\n")
	runes := []rune(strings.TrimSpace(line))
	switch {
	case max <= 0:
		return ""
	case len(runes) <= max:
		return string(runes)
	case max <= len(ellipsis):
		return string(runes[:max])
	default:
		return string(runes[:max-len(ellipsis)]) + ellipsis
	}
}
