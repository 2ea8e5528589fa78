package feeds

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gittles17/newshooks/internal/config"
	"github.com/gittles17/newshooks/internal/domain"
	"github.com/gittles17/newshooks/internal/source"
)

const (
	searchTimeout      = 15 * time.Second
	defaultSearchMax   = 5
	searchSnippetLimit = 400
)

// Search issues fixed topical queries against a keyword news-search API,
// each constrained to an outlet allow-list and a trailing time window.
type Search struct {
	endpoint string
	apiKey   string
	client   *http.Client
	logger   *slog.Logger
}

var _ source.Strategy = (*Search)(nil)

// NewSearch builds the strategy from configuration.
func NewSearch(cfg config.SearchConfig, client *http.Client, logger *slog.Logger) *Search {
	if client == nil {
		client = &http.Client{Timeout: searchTimeout}
	}
	return &Search{
		endpoint: cfg.Endpoint,
		apiKey:   cfg.APIKey,
		client:   client,
		logger:   logger,
	}
}

// Name identifies the strategy inside the registry.
func (s *Search) Name() string {
	return "search"
}

// Fetch runs every configured query; a single query's failure is logged
// and skipped, never fatal.
func (s *Search) Fetch(ctx context.Context, req source.Request) ([]domain.CandidateArticle, error) {
	if len(req.Queries) == 0 {
		return nil, fmt.Errorf("no queries configured for source %s", req.Source)
	}

	var all []domain.CandidateArticle
	for _, query := range req.Queries {
		items, err := s.search(ctx, req, query)
		if err != nil {
			s.logger.Warn("search query failed", "query", query, "error", err)
			continue
		}
		all = append(all, items...)
		s.logger.Debug("search query done", "query", query, "results", len(items))
	}

	return all, nil
}

type searchResult struct {
	Title         string `json:"title"`
	URL           string `json:"url"`
	Content       string `json:"content"`
	PublishedDate string `json:"published_date"`
}

func (s *Search) search(ctx context.Context, req source.Request, query string) ([]domain.CandidateArticle, error) {
	max := req.Max
	if max <= 0 {
		max = defaultSearchMax
	}

	endpoint, err := url.Parse(s.endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid search endpoint: %w", err)
	}

	params := endpoint.Query()
	params.Set("q", query)
	params.Set("topic", "news")
	params.Set("days", strconv.Itoa(int(req.Window/(24*time.Hour))))
	params.Set("max_results", strconv.Itoa(max))
	if len(req.Outlets) > 0 {
		params.Set("include_domains", strings.Join(req.Outlets, ","))
	}
	endpoint.RawQuery = params.Encode()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+s.apiKey)
	httpReq.Header.Set("User-Agent", userAgent)

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("search API %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	var payload struct {
		Results []searchResult `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	items := make([]domain.CandidateArticle, 0, len(payload.Results))
	for _, r := range payload.Results {
		items = append(items, domain.CandidateArticle{
			URL:         strings.TrimSpace(r.URL),
			Title:       strings.TrimSpace(r.Title),
			Snippet:     excerpt(cleanText(r.Content), searchSnippetLimit),
			Source:      req.Source,
			PublishedAt: parseSearchDate(r.PublishedDate),
		})
	}

	return items, nil
}

func parseSearchDate(value string) *time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if parsed, err := time.Parse(layout, value); err == nil {
			return &parsed
		}
	}
	return nil
}
