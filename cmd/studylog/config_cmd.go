package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/zhubert/studylog/config"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change the journal location and remote",
	}

	cmd.AddCommand(
		newConfigShowCmd(a),
		newConfigSetCmd(a),
	)

	return cmd
}

func newConfigShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the current configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			cfg := a.journal.GetConfig()
			if a.asJSON {
				return printJSON(out, cfg)
			}

			savePath := cfg.SavePath
			if savePath == "" {
				savePath = a.paint(styleDim, "(not configured)")
			}
			remote := cfg.GitRepoURL
			if remote == "" {
				remote = a.paint(styleDim, "(local only)")
			}
			fmt.Fprintf(out, "%s %s\n", a.paint(styleHeader, "Journal:"), savePath)
			fmt.Fprintf(out, "%s  %s\n", a.paint(styleHeader, "Remote:"), remote)

			if cfg.IsConfigured() {
				s := config.LoadJournalSettings(cfg.SavePath)
				fmt.Fprintf(out, "%s  %s <%s>\n", a.paint(styleHeader, "Author:"), s.AuthorName, s.AuthorEmail)
				fmt.Fprintf(out, "%s  %s\n", a.paint(styleHeader, "Branch:"), s.Branch)
				fmt.Fprintf(out, "%s %s\n", a.paint(styleHeader, "Timeout:"), s.RemoteTimeout)
			}
			return nil
		},
	}
}

func newConfigSetCmd(a *app) *cobra.Command {
	var (
		savePath, remote        string
		authorName, authorEmail string
		branch                  string
		timeout                 time.Duration
	)

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Choose the journal directory and optional git remote",
		Long: `Saves the journal directory and remote, then prepares the directory as a
git working copy and checks that the remote is reachable. An unreachable
remote is reported as a warning; the configuration is still saved.

Author, branch and timeout flags are written to .studylog.yaml inside the
journal and committed with it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			flags := cmd.Flags()

			cfg := a.journal.GetConfig()
			if flags.Changed("path") {
				cfg.SavePath = savePath
			}
			if flags.Changed("remote") {
				cfg.GitRepoURL = remote
			}

			if flags.Changed("author-name") || flags.Changed("author-email") || flags.Changed("branch") || flags.Changed("remote-timeout") {
				if cfg.SavePath == "" {
					return errors.New("--path is required before journal settings can be written")
				}
				settings := config.LoadJournalSettings(cfg.SavePath)
				if flags.Changed("author-name") {
					settings.AuthorName = authorName
				}
				if flags.Changed("author-email") {
					settings.AuthorEmail = authorEmail
				}
				if flags.Changed("branch") {
					settings.Branch = branch
				}
				if flags.Changed("remote-timeout") {
					settings.RemoteTimeout = timeout
				}
				if err := config.WriteJournalSettings(cfg.SavePath, settings); err != nil {
					return err
				}
			}

			res := a.journal.SaveConfig(cmd.Context(), cfg)
			if a.asJSON {
				if err := printJSON(out, res); err != nil {
					return err
				}
			}
			if !res.Success {
				return errors.New(res.Error)
			}
			if !a.asJSON {
				fmt.Fprintln(out, a.paint(styleSuccess, "✓ Configuration saved"))
				a.warn(out, res.Error)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&savePath, "path", "", "Journal directory")
	cmd.Flags().StringVar(&remote, "remote", "", "Git remote URL for origin (empty for local only)")
	cmd.Flags().StringVar(&authorName, "author-name", "", "Commit author name")
	cmd.Flags().StringVar(&authorEmail, "author-email", "", "Commit author email")
	cmd.Flags().StringVar(&branch, "branch", "", "Primary branch name")
	cmd.Flags().DurationVar(&timeout, "remote-timeout", 0, "Timeout for fetch and push, e.g. 30s")

	return cmd
}
