package feeds

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/gittles17/newshooks/internal/domain"
)

const (
	bodyTimeout     = 15 * time.Second
	bodyConcurrency = 4
	minParagraphLen = 30
	maxBodyLen      = 5000
)

// paragraphSelectors are tried in order; the first that yields paragraphs
// wins. Generic article markup covers most news outlets.
var paragraphSelectors = []string{
	"article p",
	".article-body p",
	".article-content p",
	".post-content p",
	".entry-content p",
	"main p",
	"p",
}

// Enricher fetches article pages and extracts paragraph-level text so the
// classifier can judge more than the feed snippet. Strictly best-effort:
// any failure leaves the candidate's body empty.
type Enricher struct {
	client *http.Client
	logger *slog.Logger
}

// NewEnricher wires an HTTP client; the default carries the page timeout.
func NewEnricher(client *http.Client, logger *slog.Logger) *Enricher {
	if client == nil {
		client = &http.Client{Timeout: bodyTimeout}
	}
	return &Enricher{client: client, logger: logger}
}

// Enrich fills Body for each candidate, fetching pages with bounded
// concurrency.
func (e *Enricher) Enrich(ctx context.Context, candidates []domain.CandidateArticle) {
	var wg sync.WaitGroup
	sem := make(chan struct{}, bodyConcurrency)

	for i := range candidates {
		wg.Add(1)
		sem <- struct{}{}
		go func(c *domain.CandidateArticle) {
			defer wg.Done()
			defer func() { <-sem }()

			body, err := e.fetchBody(ctx, c.URL)
			if err != nil {
				e.logger.Debug("body fetch failed", "url", c.URL, "error", err)
				return
			}
			c.Body = body
		}(&candidates[i])
	}
	wg.Wait()
}

func (e *Enricher) fetchBody(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("page returned %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("parse page: %w", err)
	}

	return extractParagraphs(doc), nil
}

func extractParagraphs(doc *goquery.Document) string {
	var paragraphs []string
	for _, selector := range paragraphSelectors {
		doc.Find(selector).Each(func(i int, sel *goquery.Selection) {
			text := strings.TrimSpace(sel.Text())
			if len(text) >= minParagraphLen {
				paragraphs = append(paragraphs, text)
			}
		})
		if len(paragraphs) > 0 {
			break
		}
	}

	joined := strings.Join(paragraphs, "\n\n")
	if len(joined) > maxBodyLen {
		cut := joined[:maxBodyLen]
		if idx := strings.LastIndex(cut, "\n\n"); idx > maxBodyLen/2 {
			cut = cut[:idx]
		}
		joined = cut
	}
	return joined
}
