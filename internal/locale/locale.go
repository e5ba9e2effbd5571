// Package locale holds the languages the site is published in and the
// helpers used to pick one side of a French/English field pair.
package locale

import "strings"

const (
	// French is the primary language of the site.
	French = "fr"
	// English is the secondary language of the site.
	English = "en"

	// Default is used when a visitor never chose a language.
	Default = French
)

// Supported lists every selectable locale in menu order.
var Supported = []string{French, English} //nolint:gochecknoglobals

// IsSupported reports whether l is a selectable locale.
func IsSupported(l string) bool {
	for _, s := range Supported {
		if s == l {
			return true
		}
	}

	return false
}

// Pick returns the value matching l. An empty value falls back to the other
// language so a half translated record still renders something.
func Pick(l, fr, en string) string {
	primary, secondary := fr, en
	if l == English {
		primary, secondary = en, fr
	}

	if strings.TrimSpace(primary) != "" {
		return primary
	}

	return secondary
}

// Other returns the locale that is not l.
func Other(l string) string {
	if l == English {
		return French
	}

	return English
}
