package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"matchday/internal/config"
	"matchday/internal/ui"
	"matchday/internal/util/logx"
	"matchday/internal/version"
)

func main() {
	logx.SetLevelFromEnv()

	// Setup cancellation on SIGINT/SIGTERM
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	cancel()
	os.Exit(code)
}

// run is main without the process exit; it returns the exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cfg, err := config.LoadWithUsage(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintln(stderr, "config error:", err)
		return 1
	}

	if cfg.ShowVersion {
		fmt.Fprintln(stdout, "matchday", version.String())
		return 0
	}
	if l, ok := logx.ParseLevel(cfg.LogLevel); ok {
		logx.SetLevel(l)
	}

	logx.Infof("starting matchday %s: %s", version.String(), cfg.String())
	if cfg.Headless() {
		// no TUI to corrupt, so an explicit level also echoes diagnostics
		if cfg.LogLevel != "" {
			logx.SetStderr(true)
		}
		if err := ui.RunHeadless(ctx, cfg, ui.NewBackend(cfg), stdout); err != nil {
			fmt.Fprintln(stderr, "matchday:", err)
			return 1
		}
		return 0
	}
	if err := ui.Run(ctx, cfg); err != nil {
		logx.Errorf("matchday exited with error: %v", err)
		fmt.Fprintln(stderr, "matchday:", err)
		return 1
	}
	return 0
}
