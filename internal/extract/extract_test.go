package extract

import (
	"encoding/json"
	"testing"
)

func TestObject(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "bare object",
			in:   `{"articles": []}`,
			want: `{"articles": []}`,
		},
		{
			name: "fenced with language tag",
			in:   "```json\n{\"articles\": [{\"title\": \"x\"}]}\n```",
			want: `{"articles": [{"title": "x"}]}`,
		},
		{
			name: "fenced without language tag",
			in:   "```\n{\"news\": []}\n```",
			want: `{"news": []}`,
		},
		{
			name: "surrounded by prose",
			in:   "Here are the picks:\n{\"articles\": []}\nLet me know if you need more.",
			want: `{"articles": []}`,
		},
		{
			name: "nested objects",
			in:   `{"a": {"b": {"c": 1}}}`,
			want: `{"a": {"b": {"c": 1}}}`,
		},
		{
			name: "braces inside strings",
			in:   `{"title": "curly } brace { soup", "n": 1}`,
			want: `{"title": "curly } brace { soup", "n": 1}`,
		},
		{
			name: "escaped quote inside string",
			in:   `{"title": "he said \"}\"", "n": 2}`,
			want: `{"title": "he said \"}\"", "n": 2}`,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := Object(tc.in)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if string(got) != tc.want {
				t.Fatalf("got %s, want %s", got, tc.want)
			}
			var decoded map[string]any
			if err := json.Unmarshal(got, &decoded); err != nil {
				t.Fatalf("result does not decode: %v", err)
			}
		})
	}
}

func TestObjectErrors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   string
	}{
		{"no object", "there is nothing relevant today"},
		{"empty", ""},
		{"unbalanced", `{"articles": [`},
		{"invalid json", `{"articles": [,]}`},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if _, err := Object(tc.in); err == nil {
				t.Fatalf("expected error for %q", tc.in)
			}
		})
	}
}
