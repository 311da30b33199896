package transform

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var (
	leadingInt   = regexp.MustCompile(`^[-+]?\d+`)
	leadingFloat = regexp.MustCompile(`^[-+]?(\d+\.?\d*|\.\d+)([eE][-+]?\d+)?`)
	nonNumeric   = regexp.MustCompile(`[^0-9.-]+`)

	usPrinter = message.NewPrinter(language.AmericanEnglish)
)

// dateLayouts are tried in order. Only the calendar date is used downstream.
var dateLayouts = []string{
	"2006-1-2",
	time.RFC3339,
	"2006-1-2T15:04:05",
	"2006-1-2 15:04:05",
	"2006-1-2 15:04",
	"2006/1/2",
	"1/2/2006",
	"1/2/2006 15:04",
	"1/2/2006 15:04:05",
	"1/2/2006 3:04 PM",
	"1/2/2006 3:04:05 PM",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"2 Jan 2006",
	"Mon Jan 2 2006",
	"Mon, 02 Jan 2006 15:04:05 MST",
}

// ParseInt parses the leading integer of s: "200 days" is 200, "12.7" is 12.
func ParseInt(s string) (int, bool) {
	m := leadingInt.FindString(strings.TrimSpace(s))
	if m == "" {
		return 0, false
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return n, true
}

// ParseFloat parses the leading decimal number of s.
func ParseFloat(s string) (float64, bool) {
	m := leadingFloat.FindString(strings.TrimSpace(s))
	if m == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// ParseDate parses s with the first matching layout.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatDate renders s as an en-US short date (M/D/YYYY), or returns s unchanged.
func FormatDate(s string) string {
	t, ok := ParseDate(s)
	if !ok {
		return s
	}
	return t.Format("1/2/2006")
}

// FormatCurrency strips everything but digits, dots and minus signs and renders
// the amount as "$1,234.5". ok is false when nothing numeric is left.
func FormatCurrency(s string) (string, bool) {
	amount, ok := ParseFloat(nonNumeric.ReplaceAllString(s, ""))
	if !ok {
		return "", false
	}
	return "$" + usPrinter.Sprint(number.Decimal(amount, number.MaxFractionDigits(3))), true
}

// FormatRatio renders a 0..1 ratio as a percentage with one decimal place.
func FormatRatio(s string) (string, bool) {
	ratio, ok := ParseFloat(s)
	if !ok {
		return "", false
	}
	return strconv.FormatFloat(ratio*100, 'f', 1, 64) + "%", true
}
