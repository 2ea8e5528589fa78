package feeds

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gittles17/newshooks/internal/config"
	"github.com/gittles17/newshooks/internal/domain"
	"github.com/gittles17/newshooks/internal/normalize"
	"github.com/gittles17/newshooks/internal/ports"
	"github.com/gittles17/newshooks/internal/source"
)

// StrategySource implements ArticleSource over the registered fetch
// strategies. One source failing leaves its contribution empty; only an
// unresolvable strategy (a config error) is fatal.
type StrategySource struct {
	registry *source.Registry
	sources  []config.SourceConfig
	enricher *Enricher
	logger   *slog.Logger
}

var _ ports.ArticleSource = (*StrategySource)(nil)

// NewStrategySource wires the strategy registry with config-defined sources.
func NewStrategySource(reg *source.Registry, sources []config.SourceConfig, enricher *Enricher, logger *slog.Logger) *StrategySource {
	return &StrategySource{
		registry: reg,
		sources:  sources,
		enricher: enricher,
		logger:   logger,
	}
}

// Fetch executes every configured source and concatenates candidates. All
// URLs leave here canonical and validated; records without a usable URL
// are dropped.
func (s *StrategySource) Fetch(ctx context.Context, now time.Time) ([]domain.CandidateArticle, error) {
	var all []domain.CandidateArticle

	for _, src := range s.sources {
		strategy, err := s.registry.Resolve(src.Strategy)
		if err != nil {
			return nil, fmt.Errorf("source %s: %w", src.Name, err)
		}

		req := source.Request{
			Now:     now,
			Source:  src.Name,
			Window:  src.Window(),
			Max:     src.MaxItems,
			Feeds:   src.Feeds,
			Queries: src.Queries,
			Outlets: src.Outlets,
			URL:     src.URL,
		}

		results, err := strategy.Fetch(ctx, req)
		if err != nil {
			s.logger.Warn("source fetch failed", "source", src.Name, "strategy", src.Strategy, "error", err)
			continue
		}

		kept := make([]domain.CandidateArticle, 0, len(results))
		dropped := 0
		for _, c := range results {
			c.URL = normalize.CanonicalURL(c.URL)
			if !normalize.ValidURL(c.URL) {
				dropped++
				continue
			}
			if c.Outlet == "" {
				c.Outlet = normalize.Hostname(c.URL)
			}
			if c.Source == "" {
				c.Source = src.Name
			}
			kept = append(kept, c)
		}

		if src.FetchBody && s.enricher != nil {
			s.enricher.Enrich(ctx, kept)
		}

		s.logger.Info("source done", "source", src.Name, "candidates", len(kept), "dropped", dropped)
		all = append(all, kept...)
	}

	return all, nil
}
