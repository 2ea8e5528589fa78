package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/gittles17/newshooks/internal/app"
	"github.com/gittles17/newshooks/internal/config"
	"github.com/gittles17/newshooks/internal/logging"
)

// Exit code contract: 0 when the run completed or legitimately found
// nothing to persist, 1 on any unrecoverable failure. Schedulers alert on
// non-zero.
func main() {
	cronMode := flag.Bool("cron", false, "run on the configured cron schedule instead of once")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logging.New("info").Error("configuration invalid", "error", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Logging.Level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("application startup failed", "error", err)
		os.Exit(1)
	}
	defer application.Close()

	if *cronMode {
		if err := application.RunScheduled(ctx); err != nil {
			logger.Error("scheduler stopped with error", "error", err)
			application.Close()
			os.Exit(1)
		}
		return
	}

	report, err := application.Run(ctx)
	if err != nil {
		logger.Error("run failed", "error", err)
		application.Close()
		os.Exit(1)
	}

	logger.Info("run finished",
		"outcome", string(report.Outcome),
		"candidates", report.Candidates,
		"classified", report.Classified,
		"inserted", report.Stats.Inserted,
		"skipped", report.Stats.Skipped,
		"failed", report.Stats.Failed)
}
