package pdf

import (
	"regexp"
	"strings"
)

// placeholder replaces pricing text when an export is generated without
// prices.
const placeholder = "Available"

// notAvailablePatterns match strings that already state unavailability.
// Redaction must not overwrite an explicit non-price statement.
var notAvailablePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)not\s+available`),
	regexp.MustCompile(`(?i)n/a`),
	regexp.MustCompile(`(?i)unavailable`),
	regexp.MustCompile(`(?i)no\s+price`),
	regexp.MustCompile(`(?i)price\s+not\s+available`),
	regexp.MustCompile(`(?i)contact\s+for\s+pricing`),
	regexp.MustCompile(`(?i)pricing\s+upon\s+request`),
}

// currencyPattern matches currency-like text: a 1-3 letter code (optionally
// with $) followed by a number, a currency symbol with a number, a number with
// a currency code, or a "N per month/year" phrase.
var currencyPattern = regexp.MustCompile(
	`(?i)\b[A-Z]{1,3}\$?\s*\d+(\.\d+)?\b` +
		`|[$€£¥]\s*\d+(\.\d+)?` +
		`|\d+(\.\d+)?\s*(usd|eur|gbp|jpy|cad|aud)\b` +
		`|\d+(\.\d+)?\s*(per|/)\s*(month|mo|year|yr)\b`)

// redactPricing replaces pricing text with the placeholder, line by line, and
// collapses runs of consecutive placeholders left behind. It is idempotent:
// the placeholder itself never matches the currency pattern.
func redactPricing(s string) string {
	if s == "" {
		return s
	}

	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = redactLine(line)
	}

	out := lines[:0]
	for _, line := range lines {
		if line == placeholder && len(out) > 0 && out[len(out)-1] == placeholder {
			continue
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

func redactLine(line string) string {
	for _, p := range notAvailablePatterns {
		if p.MatchString(line) {
			return line
		}
	}
	if currencyPattern.MatchString(line) {
		return placeholder
	}
	return line
}
