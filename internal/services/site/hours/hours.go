// Package hours models the shop's weekly opening hours.
package hours

import (
	"strings"
)

// Closed is shown instead of a time range on closed days.
const Closed = "Fermé"

// Entry is one day of the week.
type Entry struct {
	Day      string
	Hours    string
	IsClosed bool
}

// Range is a run of consecutive days sharing the same hours.
type Range struct {
	Label    string
	Hours    string
	IsClosed bool
}

var dayLabels = map[string]string{
	"lundi":    "Lundi",
	"mardi":    "Mardi",
	"mercredi": "Mercredi",
	"jeudi":    "Jeudi",
	"vendredi": "Vendredi",
	"samedi":   "Samedi",
	"dimanche": "Dimanche",
}

// Defaults returns the hours shown while none are stored.
func Defaults() []Entry {
	return []Entry{
		{Day: "Lundi", Hours: "9h00 - 18h00"},
		{Day: "Mardi", Hours: "9h00 - 18h00"},
		{Day: "Mercredi", Hours: "9h00 - 18h00"},
		{Day: "Jeudi", Hours: "9h00 - 18h00"},
		{Day: "Vendredi", Hours: "9h00 - 18h00"},
		{Day: "Samedi", Hours: "10h00 - 16h00"},
		{Day: "Dimanche", Hours: Closed, IsClosed: true},
	}
}

// New builds an entry from stored fields. day is the option value, e.g.
// "lundi".
func New(day, openTime, closeTime string, closed bool) Entry {
	label, ok := dayLabels[strings.ToLower(strings.TrimSpace(day))]
	if !ok {
		label = strings.TrimSpace(day)
	}
	if closed {
		return Entry{Day: label, Hours: Closed, IsClosed: true}
	}
	openTime = strings.TrimSpace(openTime)
	closeTime = strings.TrimSpace(closeTime)
	switch {
	case openTime != "" && closeTime != "":
		return Entry{Day: label, Hours: openTime + " - " + closeTime}
	case openTime != "":
		return Entry{Day: label, Hours: openTime}
	default:
		return Entry{Day: label, Hours: closeTime}
	}
}

// OrDefaults returns entries, or the defaults when entries is empty.
func OrDefaults(entries []Entry) []Entry {
	if len(entries) == 0 {
		return Defaults()
	}
	return entries
}

// ShortDay returns the three-letter form of the day, e.g. "Lun".
func (e Entry) ShortDay() string {
	runes := []rune(e.Day)
	if len(runes) <= 3 {
		return e.Day
	}
	return string(runes[:3])
}

// CompactHours returns the hours without spaces around the dash.
func (e Entry) CompactHours() string {
	if e.IsClosed {
		return Closed
	}
	return strings.ReplaceAll(e.Hours, " - ", "-")
}

// Group merges consecutive days with identical hours, e.g.
// "Lundi - Vendredi 9h00 - 18h00".
func Group(entries []Entry) []Range {
	var ranges []Range
	start := 0
	for i := 1; i <= len(entries); i++ {
		if i < len(entries) && entries[i].Hours == entries[start].Hours && entries[i].IsClosed == entries[start].IsClosed {
			continue
		}
		label := entries[start].Day
		if i-1 > start {
			label += " - " + entries[i-1].Day
		}
		ranges = append(ranges, Range{Label: label, Hours: entries[start].Hours, IsClosed: entries[start].IsClosed})
		start = i
	}
	return ranges
}
