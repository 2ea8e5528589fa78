package source

import (
	"context"
	"fmt"
	"time"

	"github.com/gittles17/newshooks/internal/domain"
)

// Request carries all parameters required to execute one fetch.
type Request struct {
	Now     time.Time
	Source  string            // configured source name
	Window  time.Duration     // trailing publication window
	Max     int               // per-feed or per-query cap
	Feeds   map[string]string // outlet domain -> feed URL (rss)
	Queries []string          // topical queries (search)
	Outlets []string          // outlet allow-list (search)
	URL     string            // newsletter archive base
}

// Strategy captures a single fetch implementation (RSS, search, newsletter).
type Strategy interface {
	Name() string
	Fetch(ctx context.Context, req Request) ([]domain.CandidateArticle, error)
}

// Registry keeps a mapping from strategy names to their implementations.
type Registry struct {
	strategies map[string]Strategy
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{strategies: map[string]Strategy{}}
}

// Register adds or replaces a strategy implementation.
func (r *Registry) Register(strategy Strategy) {
	if r.strategies == nil {
		r.strategies = map[string]Strategy{}
	}
	r.strategies[strategy.Name()] = strategy
}

// Resolve returns a strategy by name or an error if it is absent.
func (r *Registry) Resolve(name string) (Strategy, error) {
	if strategy, ok := r.strategies[name]; ok {
		return strategy, nil
	}
	return nil, fmt.Errorf("fetch strategy %s is not registered", name)
}
