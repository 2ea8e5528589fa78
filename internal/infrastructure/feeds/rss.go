package feeds

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/gittles17/newshooks/internal/domain"
	"github.com/gittles17/newshooks/internal/source"
)

const (
	userAgent      = "newshooks/1.0 (+https://github.com/gittles17/newshooks)"
	feedTimeout    = 10 * time.Second
	defaultFeedMax = 10
)

// RSS fetches candidate articles from a static outlet -> feed URL mapping.
// Feeds are fetched concurrently; a single feed's failure is logged and
// never aborts the fetch.
type RSS struct {
	client *http.Client
	logger *slog.Logger
}

var _ source.Strategy = (*RSS)(nil)

// NewRSS wires an HTTP client; the default carries the feed timeout.
func NewRSS(client *http.Client, logger *slog.Logger) *RSS {
	if client == nil {
		client = &http.Client{Timeout: feedTimeout}
	}
	return &RSS{client: client, logger: logger}
}

// Name identifies the strategy inside the registry.
func (s *RSS) Name() string {
	return "rss"
}

// Fetch pulls every configured feed and keeps items published within the
// trailing window, capped per feed.
func (s *RSS) Fetch(ctx context.Context, req source.Request) ([]domain.CandidateArticle, error) {
	if len(req.Feeds) == 0 {
		return nil, fmt.Errorf("no feeds configured for source %s", req.Source)
	}

	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		all []domain.CandidateArticle
	)

	for outlet, feedURL := range req.Feeds {
		wg.Add(1)
		go func(outlet, feedURL string) {
			defer wg.Done()

			items, err := s.fetchFeed(ctx, req, outlet, feedURL)
			if err != nil {
				s.logger.Warn("feed fetch failed", "outlet", outlet, "url", feedURL, "error", err)
				return
			}

			mu.Lock()
			all = append(all, items...)
			mu.Unlock()
			s.logger.Debug("feed fetched", "outlet", outlet, "kept", len(items))
		}(outlet, feedURL)
	}
	wg.Wait()

	return all, nil
}

func (s *RSS) fetchFeed(ctx context.Context, req source.Request, outlet, feedURL string) ([]domain.CandidateArticle, error) {
	parser := gofeed.NewParser()
	parser.Client = s.client
	parser.UserAgent = userAgent

	feed, err := parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	max := req.Max
	if max <= 0 {
		max = defaultFeedMax
	}
	cutoff := req.Now.Add(-req.Window)

	var kept []domain.CandidateArticle
	for _, item := range feed.Items {
		if len(kept) >= max {
			break
		}

		published := item.PublishedParsed
		if published == nil {
			published = item.UpdatedParsed
		}
		if published != nil && published.Before(cutoff) {
			continue
		}

		kept = append(kept, domain.CandidateArticle{
			URL:         strings.TrimSpace(item.Link),
			Title:       strings.TrimSpace(item.Title),
			Snippet:     cleanText(item.Description),
			Outlet:      outlet,
			Source:      req.Source,
			PublishedAt: published,
		})
	}

	return kept, nil
}
