package feeds

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/gittles17/newshooks/internal/domain"
	"github.com/gittles17/newshooks/internal/normalize"
	"github.com/gittles17/newshooks/internal/source"
)

const (
	newsletterTimeout      = 10 * time.Second
	newsletterSnippetLimit = 500
	latestPath             = "latest"
)

// Newsletter scrapes one newsletter-archive page for the run day, falling
// back to the "latest" endpoint when the dated page is unavailable.
//
// The extractor is a narrow parser, not a general one. It expects each
// story as an anchor wrapping a heading (h2/h3) with the description in the
// anchor's remaining text or a nested container:
//
//	<a href="https://outlet.com/story?utm_source=...">
//	  <h3>Story headline (3 minute read)</h3>
//	  <div>One-paragraph description.</div>
//	</a>
//
// Blocks whose heading marks sponsored content are discarded.
type Newsletter struct {
	client *http.Client
	logger *slog.Logger
}

var _ source.Strategy = (*Newsletter)(nil)

// NewNewsletter wires an HTTP client; the default carries the page timeout.
func NewNewsletter(client *http.Client, logger *slog.Logger) *Newsletter {
	if client == nil {
		client = &http.Client{Timeout: newsletterTimeout}
	}
	return &Newsletter{client: client, logger: logger}
}

// Name identifies the strategy inside the registry.
func (s *Newsletter) Name() string {
	return "newsletter"
}

// Fetch loads today's archive page and extracts its article blocks.
func (s *Newsletter) Fetch(ctx context.Context, req source.Request) ([]domain.CandidateArticle, error) {
	base := strings.TrimRight(req.URL, "/")
	dayURL := base + "/" + req.Now.Format("2006-01-02")

	doc, err := s.fetchDocument(ctx, dayURL)
	if err != nil {
		s.logger.Warn("dated newsletter page unavailable, trying latest", "url", dayURL, "error", err)
		doc, err = s.fetchDocument(ctx, base+"/"+latestPath)
		if err != nil {
			return nil, fmt.Errorf("newsletter page: %w", err)
		}
	}

	return s.extract(doc, base, req), nil
}

func (s *Newsletter) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("User-Agent", userAgent)

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("page returned %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}

	return doc, nil
}

func (s *Newsletter) extract(doc *goquery.Document, base string, req source.Request) []domain.CandidateArticle {
	var items []domain.CandidateArticle

	doc.Find("a").Each(func(i int, sel *goquery.Selection) {
		heading := sel.Find("h2, h3").First()
		if heading.Length() == 0 {
			return
		}

		title := cleanText(heading.Text())
		if title == "" || isSponsored(title) {
			return
		}

		href, ok := sel.Attr("href")
		if !ok {
			return
		}
		target := normalize.CanonicalURL(resolveHref(base, href))
		if target == "" {
			return
		}

		desc := ""
		if container := sel.Find("div, p, span").FilterFunction(func(_ int, c *goquery.Selection) bool {
			return c.Find("h2, h3").Length() == 0
		}).First(); container.Length() > 0 {
			desc = cleanText(container.Text())
		}
		if desc == "" {
			desc = strings.TrimSpace(strings.TrimPrefix(cleanText(sel.Text()), title))
		}

		items = append(items, domain.CandidateArticle{
			URL:     target,
			Title:   title,
			Snippet: excerpt(desc, newsletterSnippetLimit),
			Source:  req.Source,
		})
	})

	s.logger.Debug("newsletter extracted", "blocks", len(items))
	return items
}

// isSponsored flags blocks whose title marks paid placement.
func isSponsored(title string) bool {
	lower := strings.ToLower(title)
	return strings.Contains(lower, "sponsor") || strings.Contains(lower, "(partner)")
}

func resolveHref(base, href string) string {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(href, "mailto:") {
		return ""
	}

	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if ref.IsAbs() {
		return href
	}

	baseURL, err := url.Parse(base)
	if err != nil {
		return ""
	}
	return baseURL.ResolveReference(ref).String()
}
