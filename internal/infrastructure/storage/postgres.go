package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"

	"github.com/gittles17/newshooks/internal/config"
	"github.com/gittles17/newshooks/internal/domain"
	"github.com/gittles17/newshooks/internal/ports"
)

const (
	hooksTable  = "news_hooks"
	pingTimeout = 5 * time.Second
)

var hookColumns = []string{
	"headline", "outlet", "date", "url", "summary", "relevance",
	"angle_title", "angle_narrative", "glossi_takeaway", "source",
}

// Open builds the process-scoped connection pool with bounded size and a
// fail-fast ping. Callers own closing it on exit.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	maxConns := cfg.MaxOpenConns
	if maxConns <= 0 {
		maxConns = 10
	}
	db.SetMaxOpenConns(maxConns)
	db.SetMaxIdleConns(maxConns / 2)
	db.SetConnMaxIdleTime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return db, nil
}

// PostgresRepository persists news hooks into Postgres. The pool is
// injected so the writer stays testable against a stand-in store.
type PostgresRepository struct {
	db      *sql.DB
	builder sq.StatementBuilderType
	logger  *slog.Logger
}

var _ ports.HookRepository = (*PostgresRepository)(nil)

// NewPostgresRepository wires an open pool.
func NewPostgresRepository(db *sql.DB, logger *slog.Logger) *PostgresRepository {
	return &PostgresRepository{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
		logger:  logger,
	}
}

// Init creates the table if needed and evolves the schema idempotently;
// the source and glossi_takeaway columns were added after the first
// deployments and may be absent on older databases.
func (r *PostgresRepository) Init(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS news_hooks (
		id SERIAL PRIMARY KEY,
		headline TEXT NOT NULL,
		outlet TEXT NOT NULL DEFAULT '',
		date VARCHAR(10) NOT NULL,
		url TEXT NOT NULL,
		summary TEXT NOT NULL DEFAULT '',
		relevance TEXT NOT NULL DEFAULT '',
		angle_title TEXT,
		angle_narrative TEXT,
		fetched_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	ALTER TABLE news_hooks ADD COLUMN IF NOT EXISTS source TEXT NOT NULL DEFAULT '';
	ALTER TABLE news_hooks ADD COLUMN IF NOT EXISTS glossi_takeaway TEXT;

	CREATE INDEX IF NOT EXISTS idx_news_hooks_url ON news_hooks(url);
	CREATE INDEX IF NOT EXISTS idx_news_hooks_fetched_at ON news_hooks(fetched_at);
	`

	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}

// Prune deletes rows fetched before the cutoff.
func (r *PostgresRepository) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	query, args, err := r.builder.
		Delete(hooksTable).
		Where(sq.Lt{"fetched_at": cutoff}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build prune: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("prune rows: %w", err)
	}

	removed, _ := result.RowsAffected()
	if removed > 0 {
		r.logger.Info("pruned aged rows", "removed", removed)
	}
	return removed, nil
}

// ReplaceAll deletes every existing row, then inserts all hooks. The table
// is a point-in-time cache under this discipline, not an accumulating log.
func (r *PostgresRepository) ReplaceAll(ctx context.Context, hooks []domain.NewsHook) (ports.WriteStats, error) {
	var stats ports.WriteStats

	query, args, err := r.builder.Delete(hooksTable).ToSql()
	if err != nil {
		return stats, fmt.Errorf("build delete: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return stats, fmt.Errorf("clear table: %w", err)
	}

	for _, hook := range hooks {
		if err := r.insert(ctx, hook); err != nil {
			stats.Failed++
			r.logger.Warn("row insert failed", "url", hook.URL, "error", err)
			continue
		}
		stats.Inserted++
	}

	return stats, nil
}

// InsertMissing inserts hooks not already present by URL or headline;
// matches count as skipped. History accumulates across runs under this
// discipline.
func (r *PostgresRepository) InsertMissing(ctx context.Context, hooks []domain.NewsHook) (ports.WriteStats, error) {
	var stats ports.WriteStats

	for _, hook := range hooks {
		exists, err := r.exists(ctx, hook.URL, hook.Headline)
		if err != nil {
			stats.Failed++
			r.logger.Warn("duplicate check failed", "url", hook.URL, "error", err)
			continue
		}
		if exists {
			stats.Skipped++
			r.logger.Debug("duplicate hook skipped", "url", hook.URL)
			continue
		}

		if err := r.insert(ctx, hook); err != nil {
			stats.Failed++
			r.logger.Warn("row insert failed", "url", hook.URL, "error", err)
			continue
		}
		stats.Inserted++
	}

	return stats, nil
}

func (r *PostgresRepository) exists(ctx context.Context, url, headline string) (bool, error) {
	query, args, err := r.builder.
		Select("1").
		From(hooksTable).
		Where(sq.Or{sq.Eq{"url": url}, sq.Eq{"headline": headline}}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build exists: %w", err)
	}

	var one int
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query exists: %w", err)
	}
	return true, nil
}

func (r *PostgresRepository) insert(ctx context.Context, hook domain.NewsHook) error {
	query, args, err := r.buildInsert(hook)
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert row: %w", err)
	}
	return nil
}

func (r *PostgresRepository) buildInsert(hook domain.NewsHook) (string, []any, error) {
	return r.builder.
		Insert(hooksTable).
		Columns(hookColumns...).
		Values(
			hook.Headline,
			hook.Outlet,
			hook.Date,
			hook.URL,
			hook.Summary,
			hook.Relevance,
			nullable(hook.AngleTitle),
			nullable(hook.AngleNarrative),
			nullable(hook.Takeaway),
			hook.Source,
		).
		ToSql()
}

func nullable(value string) any {
	if value == "" {
		return nil
	}
	return value
}
