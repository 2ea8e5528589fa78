package domain

import "time"

// CandidateArticle is a raw, unclassified news item produced by a fetch
// strategy. URL is canonical (tracking parameters stripped) and acts as the
// identity key for deduplication.
type CandidateArticle struct {
	URL         string
	Title       string
	Snippet     string
	Outlet      string // bare hostname, www. stripped
	Source      string // name of the configured source that produced it
	PublishedAt *time.Time
	Body        string // optional full-text excerpt, empty when not fetched
}

// ClassifierItem is a single item exactly as returned by the relevance
// classifier, before any normalization. Date may be empty, a sentinel such
// as "recent", or free-form text.
type ClassifierItem struct {
	Title          string `json:"title"`
	URL            string `json:"url"`
	Outlet         string `json:"outlet"`
	Date           string `json:"date"`
	Summary        string `json:"summary"`
	Relevance      string `json:"relevance"`
	AngleTitle     string `json:"angle_title"`
	AngleNarrative string `json:"angle_narrative"`
	Takeaway       string `json:"takeaway"`
}

// ClassifiedArticle is a candidate enriched with the classifier's relevance
// judgment after normalization. Outlet carries the canonical display name
// and Date is always a YYYY-MM-DD string.
type ClassifiedArticle struct {
	Title          string
	URL            string
	Outlet         string
	Date           string
	Summary        string
	Relevance      string
	AngleTitle     string
	AngleNarrative string
	Takeaway       string
	Source         string
}

// NewsHook is the durable row persisted for the dashboard.
type NewsHook struct {
	ID             int64
	Headline       string
	Outlet         string
	Date           string
	URL            string
	Summary        string
	Relevance      string
	AngleTitle     string
	AngleNarrative string
	Takeaway       string
	Source         string
	FetchedAt      time.Time
}

// Hook converts a classified article into its persisted form. FetchedAt is
// assigned by the store at insert time.
func (a ClassifiedArticle) Hook() NewsHook {
	return NewsHook{
		Headline:       a.Title,
		Outlet:         a.Outlet,
		Date:           a.Date,
		URL:            a.URL,
		Summary:        a.Summary,
		Relevance:      a.Relevance,
		AngleTitle:     a.AngleTitle,
		AngleNarrative: a.AngleNarrative,
		Takeaway:       a.Takeaway,
		Source:         a.Source,
	}
}
