package ports

import (
	"context"
	"time"

	"github.com/gittles17/newshooks/internal/domain"
)

// ArticleSource pulls fresh candidate articles from upstream providers.
type ArticleSource interface {
	Fetch(ctx context.Context, now time.Time) ([]domain.CandidateArticle, error)
}

// Classifier judges candidates against the product narrative and returns
// the relevant subset as raw classifier items. A zero-length result with a
// nil error is a valid outcome (nothing relevant, or output rejected).
type Classifier interface {
	Classify(ctx context.Context, candidates []domain.CandidateArticle) ([]domain.ClassifierItem, error)
}

// WriteStats reports the per-row outcome of one store write.
type WriteStats struct {
	Inserted int
	Skipped  int
	Failed   int
}

// HookRepository persists news hooks. It exclusively owns writes to the
// underlying table.
type HookRepository interface {
	// Init creates the table and evolves the schema idempotently.
	Init(ctx context.Context) error
	// Prune deletes rows fetched before the cutoff and returns the number
	// removed. The caller derives the cutoff from the run clock.
	Prune(ctx context.Context, cutoff time.Time) (int64, error)
	// ReplaceAll deletes every existing row, then inserts all hooks.
	ReplaceAll(ctx context.Context, hooks []domain.NewsHook) (WriteStats, error)
	// InsertMissing inserts hooks whose URL or headline is not already
	// present; matches are counted as skipped.
	InsertMissing(ctx context.Context, hooks []domain.NewsHook) (WriteStats, error)
}

// Scheduler controls when pipeline runs execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
