// Package formula resolves model-formula expressions against the raw column
// names of a loaded dataset. Raw CSV headers drift in case, spacing, units
// and punctuation; every header and every formula variable is reduced to a
// canonical token so they can be matched regardless of that drift.
package formula

import (
	"regexp"
	"strings"
)

var (
	nonCanonical = regexp.MustCompile(`[^a-z0-9_]+`)
	multiScore   = regexp.MustCompile(`_+`)
)

// Normalize maps a raw identifier to its canonical form: lowercase,
// apostrophes dropped, '%' spelled out, and every other run of
// non-alphanumeric characters collapsed to a single underscore.
// It is total and idempotent; Normalize(Normalize(x)) == Normalize(x).
func Normalize(raw string) string {
	s := strings.ToLower(raw)
	s = strings.ReplaceAll(s, "'", "")
	s = strings.ReplaceAll(s, "%", "percent")
	s = nonCanonical.ReplaceAllString(s, "_")
	s = multiScore.ReplaceAllString(s, "_")
	return strings.Trim(s, "_")
}
