package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zhubert/studylog/cli"
	"github.com/zhubert/studylog/git"
	"github.com/zhubert/studylog/logger"
)

type statusOutput struct {
	State      string `json:"state"`
	SavePath   string `json:"savePath"`
	GitRepoURL string `json:"gitRepoUrl"`
}

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether the journal is initialized and in sync with its remote",
		Long: `Reports one of:
  unconfigured   no journal directory, or it is not a git repository yet
  initialized    a repository without a remote
  remote-linked  a remote is set but the latest commits have not been pushed
  synced         everything committed has been pushed
  diverged       the remote has commits this journal lacks and vice versa

Only local state is inspected; nothing is fetched, so remote commits show
up after the next save or a manual git fetch.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			cfg := a.journal.GetConfig()
			state := a.journal.Status(cmd.Context())

			if a.asJSON {
				return printJSON(out, statusOutput{State: state.String(), SavePath: cfg.SavePath, GitRepoURL: cfg.GitRepoURL})
			}

			style := styleWarning
			switch state {
			case git.Synced, git.Initialized:
				style = styleSuccess
			case git.Unconfigured:
				style = styleDim
			case git.Diverged:
				style = styleError
			}
			fmt.Fprintln(out, a.paint(style, state.String()))
			return nil
		},
	}
}

// doctorOutput is the --json form of doctor.
type doctorOutput struct {
	Tools      []toolStatus `json:"tools"`
	ConfigPath string       `json:"configPath"`
	LogPath    string       `json:"logPath"`
	Cleared    int          `json:"clearedLogs,omitempty"`
}

type toolStatus struct {
	Name     string `json:"name"`
	Required bool   `json:"required"`
	Found    bool   `json:"found"`
	Path     string `json:"path,omitempty"`
	Version  string `json:"version,omitempty"`
}

func newDoctorCmd(a *app) *cobra.Command {
	var clearLogs bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check that the tools studylog needs are installed",
		Long: `Checks for git and ssh and prints where studylog keeps its configuration
and log file. With --clear-logs the log file is emptied first.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			cleared := 0
			if clearLogs {
				n, err := logger.ClearLogs()
				if err != nil {
					return fmt.Errorf("clearing logs: %w", err)
				}
				cleared = n
			}

			results := a.checker.CheckAll(cmd.Context(), cli.DefaultTools())
			configPath := a.journal.ConfigPath()
			logPath := logger.Path()
			if logPath == "" {
				// Nothing has been logged yet; show where the first entry will go.
				logPath, _ = logger.DefaultLogPath()
			}

			if a.asJSON {
				res := doctorOutput{
					Tools:      make([]toolStatus, 0, len(results)),
					ConfigPath: configPath,
					LogPath:    logPath,
					Cleared:    cleared,
				}
				for _, r := range results {
					res.Tools = append(res.Tools, toolStatus{r.Tool.Name, r.Tool.Required, r.Found, r.Path, r.Version})
				}
				if err := printJSON(out, res); err != nil {
					return err
				}
			} else {
				text := cli.FormatResults(results)
				if cli.MissingRequired(results) != nil {
					text = a.paint(styleError, text)
				}
				fmt.Fprint(out, text)

				fmt.Fprintf(out, "\n%s %s\n", a.paint(styleHeader, "Config:"), configPath)
				fmt.Fprintf(out, "%s    %s\n", a.paint(styleHeader, "Log:"), logPath)
				if clearLogs {
					fmt.Fprintln(out, a.paint(styleSuccess, fmt.Sprintf("✓ Cleared %d log file(s)", cleared)))
				}
			}

			return cli.MissingRequired(results)
		},
	}

	cmd.Flags().BoolVar(&clearLogs, "clear-logs", false, "Empty the log file before checking")

	return cmd
}
