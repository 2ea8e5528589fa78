package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/gittles17/newshooks/internal/config"
	"github.com/gittles17/newshooks/internal/infrastructure/feeds"
	"github.com/gittles17/newshooks/internal/infrastructure/llm"
	"github.com/gittles17/newshooks/internal/infrastructure/scheduler"
	"github.com/gittles17/newshooks/internal/infrastructure/storage"
	"github.com/gittles17/newshooks/internal/logging"
	"github.com/gittles17/newshooks/internal/source"
	"github.com/gittles17/newshooks/internal/usecase"
)

// Application wires configuration to use cases and owns the process-scoped
// resources (the database pool).
type Application struct {
	cfg      config.Config
	logger   *slog.Logger
	db       *sql.DB
	pipeline *usecase.Pipeline
}

// New builds a runnable application instance. Opening the database pool
// here keeps connectivity a fail-fast condition, before any fetching.
func New(ctx context.Context, cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	db, err := storage.Open(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect storage: %w", err)
	}
	repository := storage.NewPostgresRepository(db, baseLogger.With("component", "storage"))

	registry := source.NewRegistry()
	registry.Register(feeds.NewRSS(nil, baseLogger.With("component", "source.rss")))
	registry.Register(feeds.NewSearch(cfg.Search, nil, baseLogger.With("component", "source.search")))
	registry.Register(feeds.NewNewsletter(nil, baseLogger.With("component", "source.newsletter")))

	enricher := feeds.NewEnricher(nil, baseLogger.With("component", "source.body"))
	articleSource := feeds.NewStrategySource(registry, cfg.Sources, enricher, baseLogger.With("component", "source"))

	classifier := llm.NewClassifier(cfg.Classifier, nil, baseLogger.With("component", "classifier"))

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Source:     articleSource,
		Classifier: classifier,
		Repository: repository,
		Retention:  cfg.Store.Retention(),
		WriteMode:  cfg.Store.WriteMode,
		Logger:     baseLogger.With("component", "pipeline"),
	})

	return &Application{cfg: cfg, logger: baseLogger, db: db, pipeline: pipeline}, nil
}

// Run performs a single pipeline execution.
func (a *Application) Run(ctx context.Context) (usecase.RunReport, error) {
	now := time.Now().In(a.cfg.Schedule.Location())
	return a.pipeline.Run(ctx, now)
}

// RunScheduled executes the pipeline on the configured cron expression
// until ctx is cancelled.
func (a *Application) RunScheduled(ctx context.Context) error {
	if a.cfg.Schedule.CronExpression == "" {
		return fmt.Errorf("schedule mode requires schedule.cronExpression")
	}

	driver := scheduler.NewCronScheduler(a.cfg.Schedule.CronExpression, a.cfg.Schedule.Location())
	sched := usecase.NewScheduler(driver, a.pipeline, a.logger.With("component", "scheduler"))
	if err := sched.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}
	a.logger.Info("scheduler started", "cron", a.cfg.Schedule.CronExpression)

	<-ctx.Done()

	stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return sched.Stop(stopCtx)
}

// Close releases the database pool.
func (a *Application) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}
