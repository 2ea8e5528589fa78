package normalize

import (
	"strings"
	"time"

	"github.com/gittles17/newshooks/internal/domain"
)

const canonicalDateLayout = "2006-01-02"

// dateSentinels are non-date tokens models emit when the publication date
// is unknown.
var dateSentinels = map[string]struct{}{
	"":          {},
	"recent":    {},
	"today":     {},
	"yesterday": {},
	"unknown":   {},
	"n/a":       {},
}

// dateLayouts are tried in order when the value is not already canonical.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	time.RFC1123Z,
	time.RFC1123,
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"2 Jan 2006",
	"2006/01/02",
	"01/02/2006",
}

// Date coerces a classifier-supplied date into YYYY-MM-DD. Empty values,
// sentinel tokens, and unparsable text all collapse to today. Never fails.
func Date(raw string, today time.Time) string {
	value := strings.TrimSpace(raw)
	if _, sentinel := dateSentinels[strings.ToLower(value)]; sentinel {
		return today.Format(canonicalDateLayout)
	}

	if parsed, err := time.Parse(canonicalDateLayout, value); err == nil {
		return parsed.Format(canonicalDateLayout)
	}

	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed.Format(canonicalDateLayout)
		}
	}

	return today.Format(canonicalDateLayout)
}

// Item assembles a ClassifiedArticle from a raw classifier item: the outlet
// field goes through the display-name table and the date is coerced to
// canonical form.
func Item(raw domain.ClassifierItem, today time.Time) domain.ClassifiedArticle {
	return domain.ClassifiedArticle{
		Title:          strings.TrimSpace(raw.Title),
		URL:            CanonicalURL(raw.URL),
		Outlet:         Outlet(strings.TrimSpace(raw.Outlet)),
		Date:           Date(raw.Date, today),
		Summary:        strings.TrimSpace(raw.Summary),
		Relevance:      strings.TrimSpace(raw.Relevance),
		AngleTitle:     strings.TrimSpace(raw.AngleTitle),
		AngleNarrative: strings.TrimSpace(raw.AngleNarrative),
		Takeaway:       strings.TrimSpace(raw.Takeaway),
	}
}
