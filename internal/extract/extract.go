// Package extract pulls a JSON object out of free-form model output. It is
// deliberately narrow: arbitrary text in, the first top-level object out,
// or an explicit error.
package extract

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Object strips Markdown code fences if present, then returns the first
// top-level JSON object found by brace matching. The result is validated
// as JSON before being returned.
func Object(text string) (json.RawMessage, error) {
	text = stripFences(text)

	start := strings.IndexByte(text, '{')
	if start < 0 {
		return nil, fmt.Errorf("extract: no JSON object in text")
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		ch := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				raw := json.RawMessage(text[start : i+1])
				if !json.Valid(raw) {
					return nil, fmt.Errorf("extract: matched braces but invalid JSON")
				}
				return raw, nil
			}
		}
	}

	return nil, fmt.Errorf("extract: unbalanced braces in text")
}

func stripFences(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}

	text = strings.TrimPrefix(text, "```")
	// Drop a language tag like "json" on the opening fence.
	if idx := strings.IndexByte(text, '\n'); idx >= 0 {
		text = text[idx+1:]
	}
	if idx := strings.LastIndex(text, "```"); idx >= 0 {
		text = text[:idx]
	}
	return strings.TrimSpace(text)
}
