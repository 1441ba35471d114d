// Package normalize turns raw scraped text into typed values.
package normalize

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/dom/riot-collector/internal/domain"
	"golang.org/x/net/html"
)

var (
	numericPattern = regexp.MustCompile(`^[-+]?\d+(\.\d+)?([eE][-+]?\d+)?$`)
	spacePattern   = regexp.MustCompile(`\s+`)
)

// ConvertString types a raw cell. Numeric text becomes a number, blank
// text becomes null, anything else is returned trimmed.
func ConvertString(raw string) domain.Value {
	s := strings.TrimSpace(raw)
	if s == "" {
		return domain.Null()
	}
	if numericPattern.MatchString(s) {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return domain.Number(f)
		}
	}
	return domain.String(s)
}

// RemoveSpaces collapses every whitespace run to a single space.
func RemoveSpaces(s string) string {
	return spacePattern.ReplaceAllString(s, " ")
}

// Clean trims s and collapses its whitespace.
func Clean(s string) string {
	return RemoveSpaces(strings.TrimSpace(s))
}

// StripMarkup drops every tag from an HTML fragment and returns the
// remaining text with whitespace collapsed.
func StripMarkup(fragment string) string {
	z := html.NewTokenizer(strings.NewReader(fragment))
	var b strings.Builder
	for {
		switch z.Next() {
		case html.ErrorToken:
			return Clean(b.String())
		case html.TextToken:
			b.Write(z.Text())
		default:
			b.WriteByte(' ')
		}
	}
}

// SplitList splits a comma-separated cell into trimmed, non-empty parts.
func SplitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// StatKey turns a stat label such as "Magic Damage:" into "magic_damage".
func StatKey(label string) string {
	label = strings.ToLower(strings.ReplaceAll(label, ":", ""))
	return strings.Join(strings.Fields(label), "_")
}
