package feeds

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gittles17/newshooks/internal/source"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func rssFeed(items []string) string {
	return fmt.Sprintf(
		`<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel><title>test</title>%s</channel></rss>`,
		strings.Join(items, ""),
	)
}

func rssItem(title, link string, published time.Time) string {
	return fmt.Sprintf(
		`<item><title>%s</title><link>%s</link><description>desc for %s</description><pubDate>%s</pubDate></item>`,
		title, link, title, published.Format(time.RFC1123Z),
	)
}

func TestRSSFetch(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.February, 13, 9, 0, 0, 0, time.UTC)

	var items []string
	for i := 0; i < 8; i++ {
		items = append(items, rssItem(
			fmt.Sprintf("fresh %d", i),
			fmt.Sprintf("https://outlet.com/fresh/%d", i),
			now.Add(-time.Duration(i)*24*time.Hour),
		))
	}
	for i := 0; i < 4; i++ {
		items = append(items, rssItem(
			fmt.Sprintf("stale %d", i),
			fmt.Sprintf("https://outlet.com/stale/%d", i),
			now.Add(-time.Duration(20+i)*24*time.Hour),
		))
	}

	good := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		io.WriteString(w, rssFeed(items))
	}))
	defer good.Close()

	stuck := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer stuck.Close()

	empty := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, rssFeed(nil))
	}))
	defer empty.Close()

	strategy := NewRSS(&http.Client{Timeout: 500 * time.Millisecond}, testLogger())
	got, err := strategy.Fetch(context.Background(), source.Request{
		Now:    now,
		Source: "tech-rss",
		Window: 7 * 24 * time.Hour,
		Feeds: map[string]string{
			"outlet.com": good.URL,
			"stuck.com":  stuck.URL,
			"empty.com":  empty.URL,
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(got) != 8 {
		t.Fatalf("expected 8 candidates from the good feed, got %d", len(got))
	}
	for _, c := range got {
		if strings.HasPrefix(c.Title, "stale") {
			t.Fatalf("stale item slipped through the window: %q", c.Title)
		}
		if c.Outlet != "outlet.com" {
			t.Fatalf("unexpected outlet: %q", c.Outlet)
		}
		if c.Source != "tech-rss" {
			t.Fatalf("unexpected source: %q", c.Source)
		}
		if c.PublishedAt == nil {
			t.Fatalf("expected published time on %q", c.Title)
		}
	}
}

func TestRSSFetchCapsPerFeed(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.February, 13, 9, 0, 0, 0, time.UTC)

	var items []string
	for i := 0; i < 6; i++ {
		items = append(items, rssItem(
			fmt.Sprintf("n%d", i),
			fmt.Sprintf("https://outlet.com/n/%d", i),
			now.Add(-time.Hour),
		))
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, rssFeed(items))
	}))
	defer srv.Close()

	strategy := NewRSS(nil, testLogger())
	got, err := strategy.Fetch(context.Background(), source.Request{
		Now:    now,
		Source: "tech-rss",
		Window: 7 * 24 * time.Hour,
		Max:    3,
		Feeds:  map[string]string{"outlet.com": srv.URL},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected per-feed cap of 3, got %d", len(got))
	}
}

func TestRSSFetchNoFeeds(t *testing.T) {
	t.Parallel()

	strategy := NewRSS(nil, testLogger())
	if _, err := strategy.Fetch(context.Background(), source.Request{Source: "tech-rss"}); err == nil {
		t.Fatal("expected error for source without feeds")
	}
}
