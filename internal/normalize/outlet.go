package normalize

import "strings"

// outletNames maps bare outlet domains to their display names.
var outletNames = map[string]string{
	"techcrunch.com":        "TechCrunch",
	"theverge.com":          "The Verge",
	"venturebeat.com":       "VentureBeat",
	"wired.com":             "Wired",
	"arstechnica.com":       "Ars Technica",
	"theinformation.com":    "The Information",
	"businessinsider.com":   "Business Insider",
	"forbes.com":            "Forbes",
	"fastcompany.com":       "Fast Company",
	"adweek.com":            "Adweek",
	"adage.com":             "Ad Age",
	"marketingdive.com":     "Marketing Dive",
	"retaildive.com":        "Retail Dive",
	"modernretail.co":       "Modern Retail",
	"digiday.com":           "Digiday",
	"axios.com":             "Axios",
	"bloomberg.com":         "Bloomberg",
	"reuters.com":           "Reuters",
	"cnbc.com":              "CNBC",
	"nytimes.com":           "The New York Times",
	"wsj.com":               "The Wall Street Journal",
	"engadget.com":          "Engadget",
	"zdnet.com":             "ZDNET",
	"tldr.tech":             "TLDR",
	"producthunt.com":       "Product Hunt",
	"retailtouchpoints.com": "Retail TouchPoints",
}

// Outlet maps a raw source identifier to a canonical display name. Lookup is
// case-insensitive and ignores a leading "www."; unknown identifiers are
// returned unchanged, preserving the caller's casing. Total and idempotent.
func Outlet(raw string) string {
	key := strings.TrimSpace(strings.ToLower(raw))
	key = strings.TrimPrefix(key, "www.")
	if name, ok := outletNames[key]; ok {
		return name
	}
	return raw
}
