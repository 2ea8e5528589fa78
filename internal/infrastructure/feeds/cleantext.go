package feeds

import (
	"html"
	"strings"
)

// cleanText strips HTML tags, decodes entities, and collapses whitespace.
// Feed descriptions and scraped blocks routinely arrive with markup baked in.
func cleanText(raw string) string {
	var b strings.Builder
	inTag := false
	for _, r := range raw {
		switch {
		case r == '<':
			inTag = true
			b.WriteByte(' ')
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}

	text := html.UnescapeString(b.String())
	return strings.Join(strings.Fields(text), " ")
}

// excerpt caps text at limit runes, cutting on a word boundary when one is
// close enough.
func excerpt(text string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	cut := string(runes[:limit])
	if idx := strings.LastIndex(cut, " "); idx > limit/2 {
		cut = cut[:idx]
	}
	return strings.TrimSpace(cut)
}
