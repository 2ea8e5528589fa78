package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gittles17/newshooks/internal/config"
	"github.com/gittles17/newshooks/internal/domain"
	"github.com/gittles17/newshooks/internal/extract"
	"github.com/gittles17/newshooks/internal/ports"
)

const (
	completionTimeout = 90 * time.Second
	rawLogLimit       = 400
)

// degenerateMarkers flag fabricated placeholder content. A hit anywhere in
// a batch rejects the whole batch; this is a correctness gate, not a
// best-effort filter.
var (
	summaryMarkers  = []string{"would be"}
	headlineMarkers = []string{"example", "placeholder"}
)

// Classifier sends candidate batches to an OpenAI-compatible chat
// completions endpoint and parses the structured verdict.
type Classifier struct {
	endpoint  string
	model     string
	apiKey    string
	mode      string
	maxBatch  int
	maxPicks  int
	maxTokens int
	client    *http.Client
	logger    *slog.Logger
}

var _ ports.Classifier = (*Classifier)(nil)

// NewClassifier builds a client from configuration.
func NewClassifier(cfg config.ClassifierConfig, client *http.Client, logger *slog.Logger) *Classifier {
	if client == nil {
		client = &http.Client{Timeout: completionTimeout}
	}
	return &Classifier{
		endpoint:  cfg.Endpoint,
		model:     cfg.Model,
		apiKey:    cfg.APIKey,
		mode:      cfg.Mode,
		maxBatch:  cfg.MaxBatch,
		maxPicks:  cfg.MaxPicks,
		maxTokens: cfg.MaxTokens,
		client:    client,
		logger:    logger,
	}
}

// Classify makes one blocking completion call for the batch. Malformed
// output and detected placeholder content both yield zero items with a nil
// error; only transport and endpoint failures surface as errors.
func (c *Classifier) Classify(ctx context.Context, candidates []domain.CandidateArticle) ([]domain.ClassifierItem, error) {
	if len(candidates) == 0 {
		return nil, nil
	}
	if c.maxBatch > 0 && len(candidates) > c.maxBatch {
		c.logger.Info("capping classifier batch", "candidates", len(candidates), "cap", c.maxBatch)
		candidates = candidates[:c.maxBatch]
	}

	content, err := c.complete(ctx, buildPrompt(c.mode, c.maxPicks, candidates))
	if err != nil {
		return nil, fmt.Errorf("completion call: %w", err)
	}

	raw, err := extract.Object(content)
	if err != nil {
		c.logger.Warn("classifier output not parseable, treating as zero results",
			"error", err, "raw", logExcerpt(content))
		return nil, nil
	}

	var payload struct {
		Articles []domain.ClassifierItem `json:"articles"`
		News     []domain.ClassifierItem `json:"news"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		c.logger.Warn("classifier JSON has unexpected shape, treating as zero results",
			"error", err, "raw", logExcerpt(content))
		return nil, nil
	}

	items := payload.Articles
	if len(items) == 0 {
		items = payload.News
	}

	if marker := degenerateMarker(items); marker != "" {
		c.logger.Error("placeholder content detected, rejecting whole batch",
			"marker", marker, "items", len(items))
		return nil, nil
	}

	return items, nil
}

func (c *Classifier) complete(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(map[string]any{
		"model":      c.model,
		"max_tokens": c.maxTokens,
		"messages": []map[string]string{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("endpoint %s: %s", resp.Status, strings.TrimSpace(string(payload)))
	}

	var completion struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("response carried no choices")
	}

	return completion.Choices[0].Message.Content, nil
}

// degenerateMarker returns the first placeholder marker found in the batch,
// or "" when the batch is clean.
func degenerateMarker(items []domain.ClassifierItem) string {
	for _, item := range items {
		summary := strings.ToLower(item.Summary)
		for _, marker := range summaryMarkers {
			if strings.Contains(summary, marker) {
				return marker
			}
		}
		headline := strings.ToLower(item.Title)
		for _, marker := range headlineMarkers {
			if strings.Contains(headline, marker) {
				return marker
			}
		}
	}
	return ""
}

func logExcerpt(text string) string {
	runes := []rune(text)
	if len(runes) <= rawLogLimit {
		return text
	}
	return string(runes[:rawLogLimit]) + "…"
}
