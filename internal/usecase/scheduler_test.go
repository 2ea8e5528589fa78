package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/gittles17/newshooks/internal/config"
	"github.com/gittles17/newshooks/internal/domain"
	"github.com/gittles17/newshooks/internal/ports"
)

type fakeDriver struct {
	job     func(time.Time)
	stopped bool
}

func (f *fakeDriver) Start(ctx context.Context, job func(time.Time)) error {
	f.job = job
	return nil
}

func (f *fakeDriver) Stop(ctx context.Context) error {
	f.stopped = true
	return nil
}

func TestSchedulerRunsPipelineOnTrigger(t *testing.T) {
	t.Parallel()

	src := &fakeSource{candidates: []domain.CandidateArticle{{URL: "https://a.com/1", Title: "x", Source: "tech-rss"}}}
	cls := &fakeClassifier{items: []domain.ClassifierItem{{Title: "x", URL: "https://a.com/1", Date: "2026-02-12"}}}
	repo := &fakeRepository{stats: ports.WriteStats{Inserted: 1}}

	driver := &fakeDriver{}
	sched := NewScheduler(driver, pipelineWith(src, cls, repo, config.WriteReplace), testLogger())

	if err := sched.Start(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if driver.job == nil {
		t.Fatal("expected a job registered with the driver")
	}

	driver.job(time.Date(2026, time.February, 13, 8, 0, 0, 0, time.UTC))
	if len(repo.replaced) != 1 {
		t.Fatalf("expected the trigger to run the pipeline, got %d hooks", len(repo.replaced))
	}

	if err := sched.Stop(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !driver.stopped {
		t.Fatal("expected the driver to be stopped")
	}
}
