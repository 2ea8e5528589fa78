package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gittles17/newshooks/internal/config"
	"github.com/gittles17/newshooks/internal/domain"
	"github.com/gittles17/newshooks/internal/normalize"
	"github.com/gittles17/newshooks/internal/ports"
)

// Outcome is the terminal state of a pipeline run. Empty and Done both map
// to a successful process exit; failures surface as errors instead.
type Outcome string

const (
	// OutcomeDone means relevant hooks were written.
	OutcomeDone Outcome = "done"
	// OutcomeEmpty means the run ended early with nothing to persist:
	// zero candidates fetched, or zero relevant results after
	// classification and the degenerate-output gate.
	OutcomeEmpty Outcome = "empty"
)

// RunReport summarizes one pipeline run for the operator log.
type RunReport struct {
	Outcome    Outcome
	Candidates int
	Deduped    int
	Classified int
	Stats      ports.WriteStats
}

// PipelineDeps wires all driven adapters into the orchestration pipeline.
type PipelineDeps struct {
	Source     ports.ArticleSource
	Classifier ports.Classifier
	Repository ports.HookRepository
	Retention  time.Duration
	WriteMode  string
	Logger     *slog.Logger
}

// Pipeline implements the single-pass ingestion workflow: fetch, dedupe,
// classify, normalize, write. Stages are strictly sequential.
type Pipeline struct {
	source     ports.ArticleSource
	classifier ports.Classifier
	repository ports.HookRepository
	retention  time.Duration
	writeMode  string
	logger     *slog.Logger
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	return &Pipeline{
		source:     deps.Source,
		classifier: deps.Classifier,
		repository: deps.Repository,
		retention:  deps.Retention,
		writeMode:  deps.WriteMode,
		logger:     deps.Logger,
	}
}

// Run executes one pipeline pass. Recoverable conditions (a dead feed, a
// malformed model response, a single bad row) are absorbed along the way;
// only unrecoverable failures return an error.
func (p *Pipeline) Run(ctx context.Context, now time.Time) (RunReport, error) {
	report := RunReport{Outcome: OutcomeEmpty}

	if err := p.repository.Init(ctx); err != nil {
		return report, fmt.Errorf("init storage: %w", err)
	}
	if _, err := p.repository.Prune(ctx, now.Add(-p.retention)); err != nil {
		return report, fmt.Errorf("prune storage: %w", err)
	}

	candidates, err := p.source.Fetch(ctx, now)
	if err != nil {
		return report, fmt.Errorf("fetch candidates: %w", err)
	}
	report.Candidates = len(candidates)
	if len(candidates) == 0 {
		p.logger.Info("no candidates fetched, nothing to persist")
		return report, nil
	}

	deduped := normalize.Dedupe(candidates)
	report.Deduped = len(deduped)
	p.logger.Info("candidates deduplicated", "fetched", len(candidates), "unique", len(deduped))

	items, err := p.classifier.Classify(ctx, deduped)
	if err != nil {
		return report, fmt.Errorf("classify candidates: %w", err)
	}
	report.Classified = len(items)
	if len(items) == 0 {
		p.logger.Info("classifier returned no relevant articles, nothing to persist")
		return report, nil
	}

	hooks := p.normalizeItems(items, deduped, now)
	if len(hooks) == 0 {
		p.logger.Info("no classifier items survived normalization, nothing to persist")
		return report, nil
	}

	var stats ports.WriteStats
	switch p.writeMode {
	case config.WriteMerge:
		stats, err = p.repository.InsertMissing(ctx, hooks)
	default:
		stats, err = p.repository.ReplaceAll(ctx, hooks)
	}
	if err != nil {
		return report, fmt.Errorf("write hooks: %w", err)
	}

	report.Stats = stats
	report.Outcome = OutcomeDone
	p.logger.Info("run complete",
		"mode", p.writeMode,
		"inserted", stats.Inserted,
		"skipped", stats.Skipped,
		"failed", stats.Failed)
	return report, nil
}

// normalizeItems turns raw classifier items into persistable hooks and
// re-attaches the producing source by canonical URL.
func (p *Pipeline) normalizeItems(items []domain.ClassifierItem, candidates []domain.CandidateArticle, now time.Time) []domain.NewsHook {
	sourceByURL := make(map[string]string, len(candidates))
	for _, c := range candidates {
		sourceByURL[c.URL] = c.Source
	}

	hooks := make([]domain.NewsHook, 0, len(items))
	for _, item := range items {
		article := normalize.Item(item, now)
		if !normalize.ValidURL(article.URL) {
			p.logger.Warn("classifier item without valid url dropped", "title", item.Title)
			continue
		}
		article.Source = sourceByURL[article.URL]
		hooks = append(hooks, article.Hook())
	}
	return hooks
}
