package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"go.uber.org/zap"

	"github.com/hamed0406/tcpping/internal/config"
	"github.com/hamed0406/tcpping/internal/logging"
	"github.com/hamed0406/tcpping/internal/probe"
	"github.com/hamed0406/tcpping/internal/report"
	"github.com/hamed0406/tcpping/internal/resolve"
	"github.com/hamed0406/tcpping/internal/scheduler"
)

// Exit codes: 0 for a completed run regardless of loss, 1 when the target
// does not resolve, 2 for bad configuration.
const (
	exitOK         = 0
	exitResolution = 1
	exitConfig     = 2
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cfg, err := config.Parse(args, os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		fmt.Fprintln(os.Stderr, "tcpping:", err)
		return exitConfig
	}

	logger, err := logging.NewLogger(cfg.LogDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, "tcpping:", err)
		return exitConfig
	}
	defer logger.Sync()

	// Interrupt stops probing; whatever completed is still reported.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	addrs, err := resolve.New().Addresses(ctx, cfg.Target)
	if err != nil {
		fmt.Fprintln(os.Stderr, "tcpping:", err)
		logger.Error("resolution_failed", zap.String("target", cfg.Target), zap.Error(err))
		return exitResolution
	}

	rep := report.New(os.Stdout)
	rep.Banner(cfg.Target, cfg.Port, addrs, cfg.Count)
	logger.Info("run_start",
		zap.String("target", cfg.Target),
		zap.Int("port", cfg.Port),
		zap.Int("count", cfg.Count),
		zap.Duration("interval", cfg.Interval),
		zap.Duration("timeout", cfg.Timeout),
		zap.Int("addresses", len(addrs)),
	)

	var sink scheduler.Sink = rep
	if cfg.Quiet {
		sink = scheduler.SinkFunc(func(probe.Outcome) {})
	}

	sch := scheduler.New(logger, probe.NewTCPProber(cfg.Port, cfg.Timeout), sink, cfg.Count, cfg.Interval)
	results, runErr := sch.Run(ctx, addrs)
	if runErr != nil {
		// Per-address worker failures; siblings already finished normally.
		logger.Warn("probe_worker_errors", zap.Error(runErr))
	}

	rep.Summary(addrs, results, ctx.Err() != nil)
	logger.Info("run_done", zap.Bool("interrupted", ctx.Err() != nil))
	return exitOK
}
