package normalize

import (
	"regexp"
	"strings"

	"github.com/dom/riot-collector/internal/domain"
)

const unicodeMinus = "−"

var (
	letters       = regexp.MustCompile(`[A-Za-z]`)
	parenthetical = regexp.MustCompile(`\(.*`)
	percentSuffix = regexp.MustCompile(`%.*`)
	unitMarkers   = strings.NewReplacer("'", "", "°", "", "º", "", "*", "")
)

// CleanStat strips units, scaling asides, percent suffixes and footnote
// markers from ability stat text, leaving the numbers and separators.
func CleanStat(display string) string {
	s := strings.ReplaceAll(display, "TO", "-")
	s = letters.ReplaceAllString(s, "")
	s = unitMarkers.Replace(s)
	s = parenthetical.ReplaceAllString(s, "")
	s = percentSuffix.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// ParseRanks parses a declared ability parameter. Any hyphen or minus in
// the cleaned text ("10 - 20", "-10") hands the values to bot when set.
// Otherwise "/" separates per-rank values and anything else is a single
// value.
func ParseRanks(display, bot string) domain.Value {
	cleaned := CleanStat(display)
	bot = strings.TrimSpace(bot)
	if bot != "" && isRange(cleaned) {
		return splitBot(bot)
	}
	if v := ConvertString(cleaned); v.Kind() != domain.KindString {
		return v
	}

	if isRange(cleaned) {
		src := strings.ReplaceAll(cleaned, "/", "")
		return splitValues(strings.ReplaceAll(src, unicodeMinus, "-"), "-")
	}

	if strings.Contains(cleaned, "/") {
		return splitValues(cleaned, "/")
	}
	return ConvertString(cleaned)
}

// ParseStatBlock parses a labeled stat from an ability's free-form list.
// The result is always a list; bot, when set, is a ";" separated list.
func ParseStatBlock(display, bot string) domain.Value {
	if bot = strings.TrimSpace(bot); bot != "" {
		return splitValues(bot, ";")
	}

	cleaned := CleanStat(display)
	if cleaned == "" {
		return domain.Null()
	}
	if v := ConvertString(cleaned); v.Kind() == domain.KindNumber {
		return domain.List(v)
	}
	if strings.Contains(cleaned, "/") {
		return splitValues(cleaned, "/")
	}
	return splitValues(strings.ReplaceAll(cleaned, unicodeMinus, "-"), "-")
}

// splitBot splits a bot value list on ";", or on "-" when it has none.
func splitBot(bot string) domain.Value {
	if strings.Contains(bot, ";") {
		return splitValues(bot, ";")
	}
	return splitValues(bot, "-")
}

func isRange(s string) bool {
	return strings.Contains(s, "-") || strings.Contains(s, unicodeMinus)
}

func splitValues(s, sep string) domain.Value {
	parts := strings.Split(s, sep)
	items := make([]domain.Value, len(parts))
	for i, p := range parts {
		items[i] = ConvertString(p)
	}
	return domain.List(items...)
}
