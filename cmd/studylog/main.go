package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/mattn/go-isatty"

	"github.com/zhubert/studylog/cli"
	"github.com/zhubert/studylog/config"
	"github.com/zhubert/studylog/git"
	"github.com/zhubert/studylog/journal"
	"github.com/zhubert/studylog/logger"
)

var version = "dev" // set via ldflags at build time

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	defer logger.Close()

	store, err := config.NewStore()
	if err != nil {
		return fmt.Errorf("locating config file: %w", err)
	}

	a := &app{
		journal: journal.NewService(store, git.NewSynchronizer(git.NewGitService())),
		checker: cli.NewChecker(),
		styled:  isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return newRootCmd(a).ExecuteContext(ctx)
}
