package web

import (
	"encoding/json"
	"errors"
	"html/template"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ecc24clmk/clmk-site/internal/locale"
)

var errOddDict = errors.New("dict expects string keys and values in pairs")

// Funcs returns the helpers available to every template.
func Funcs() template.FuncMap {
	return template.FuncMap{
		// pick selects one side of a French/English pair.
		"pick":  locale.Pick,
		"other": locale.Other,
		"locales": func() []string {
			return locale.Supported
		},
		// setting reads a key of the shared settings map, with a fallback.
		"setting": func(site map[string]string, key, fallback string) string {
			if v := strings.TrimSpace(site[key]); v != "" {
				return v
			}

			return fallback
		},
		// fieldError returns the message of field, empty when valid.
		"fieldError": func(errs map[string]string, field string) string {
			return errs[field]
		},
		"date": func(t time.Time, l string) string {
			if t.IsZero() {
				return ""
			}

			if l == locale.English {
				return t.Format("January 2, 2006")
			}

			return t.Format("02/01/2006")
		},
		"datetimeLocal": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}

			return t.Format("2006-01-02T15:04")
		},
		"truncate": truncate,
		"json": func(v any) (template.JS, error) {
			b, err := json.Marshal(v)
			if err != nil {
				return "", err
			}

			return template.JS(b), nil //nolint:gosec // marshalled JSON is escaped by encoding/json
		},
		"add": func(a, b int) int {
			return a + b
		},
		"dict": dict,
	}
}

// dict builds a map from alternating keys and values, for passing several
// values to a partial.
func dict(pairs ...any) (map[string]any, error) {
	if len(pairs)%2 != 0 {
		return nil, errOddDict
	}

	m := make(map[string]any, len(pairs)/2)

	for i := 0; i < len(pairs); i += 2 {
		k, ok := pairs[i].(string)
		if !ok {
			return nil, errOddDict
		}

		m[k] = pairs[i+1]
	}

	return m, nil
}

// truncate shortens s to at most n runes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}

	r := []rune(s)

	return strings.TrimSpace(string(r[:n])) + "…"
}
