package normalize

import (
	"net/url"
	"strings"

	"github.com/gittles17/newshooks/internal/domain"
)

// trackingParams are query parameters that carry attribution rather than
// identity; they are stripped before a URL is used as a dedup key.
var trackingParams = map[string]struct{}{
	"ref":           {},
	"source":        {},
	"fbclid":        {},
	"gclid":         {},
	"mc_cid":        {},
	"mc_eid":        {},
	"igshid":        {},
	"cmpid":         {},
	"smid":          {},
	"partner":       {},
	"sponsored":     {},
	"guccounter":    {},
	"guce_referrer": {},
}

// CanonicalURL strips known tracking query parameters (including every
// utm_* parameter) and any trailing "?" or "&" left behind. Surviving
// parameters keep their original order and escaping so the canonical form
// matches the published URL. Inputs that do not parse are returned trimmed
// but otherwise untouched.
func CanonicalURL(raw string) string {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil {
		return strings.TrimRight(raw, "?&")
	}

	u.RawQuery = stripTracking(u.RawQuery)
	u.Fragment = ""

	return strings.TrimRight(u.String(), "?&")
}

func stripTracking(rawQuery string) string {
	if rawQuery == "" {
		return ""
	}

	segments := strings.Split(rawQuery, "&")
	kept := segments[:0]
	for _, segment := range segments {
		if segment == "" {
			continue
		}
		key := segment
		if idx := strings.IndexByte(segment, '='); idx >= 0 {
			key = segment[:idx]
		}
		if decoded, err := url.QueryUnescape(key); err == nil {
			key = decoded
		}
		if _, tracked := trackingParams[key]; tracked || strings.HasPrefix(strings.ToLower(key), "utm_") {
			continue
		}
		kept = append(kept, segment)
	}
	return strings.Join(kept, "&")
}

// ValidURL reports whether raw is a non-empty absolute http(s) URL.
// Candidates failing this check are dropped upstream, never stored.
func ValidURL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Hostname extracts the bare hostname of a URL with any leading "www."
// removed; it returns "" for unparsable input.
func Hostname(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
}

// Dedupe collapses candidates sharing a canonical URL. The last candidate
// seen for a URL wins; first-seen order is preserved otherwise.
func Dedupe(candidates []domain.CandidateArticle) []domain.CandidateArticle {
	order := make([]string, 0, len(candidates))
	byURL := make(map[string]domain.CandidateArticle, len(candidates))

	for _, c := range candidates {
		key := CanonicalURL(c.URL)
		if _, seen := byURL[key]; !seen {
			order = append(order, key)
		}
		c.URL = key
		byURL[key] = c
	}

	out := make([]domain.CandidateArticle, 0, len(order))
	for _, key := range order {
		out = append(out, byURL[key])
	}
	return out
}
