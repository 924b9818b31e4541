// Package format renders numbers and prices the way French visitors read them.
package format

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var french = message.NewPrinter(language.French)

// Number renders value with French grouping and a decimal comma, keeping at
// most two fraction digits.
func Number(value float64) string {
	return french.Sprint(number.Decimal(value, number.MaxFractionDigits(2)))
}

// Price renders an amount in euros, e.g. "1 250 €" or "12,5 €".
func Price(value float64) string {
	return Number(value) + " €"
}

// Kilometers renders a distance, e.g. "3 200 km".
func Kilometers(value float64) string {
	return Number(value) + " km"
}

// Initials returns up to two uppercase initials of name.
func Initials(name string) string {
	var out []rune
	for _, part := range strings.Fields(name) {
		for _, r := range part {
			out = append(out, r)
			break
		}
		if len(out) == 2 {
			break
		}
	}
	return strings.ToUpper(string(out))
}

// Truncate shortens text to at most limit runes, ending with an ellipsis.
func Truncate(text string, limit int) string {
	runes := []rune(strings.TrimSpace(text))
	if limit <= 0 || len(runes) <= limit {
		return string(runes)
	}
	return strings.TrimSpace(string(runes[:limit-1])) + "…"
}
