// Package period canonicalizes payroll period strings. The canonical token
// ("FEB-2026") is the grouping key shared by payrolls, transactions and
// processing logs, so every free-form period coming in over the API is pushed
// through Normalize before it touches storage.
package period

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var canonicalRegex = regexp.MustCompile(`^[A-Z]{3}-\d{4}$`)

var monthAbbrevs = [12]string{
	"JAN", "FEB", "MAR", "APR", "MAY", "JUN",
	"JUL", "AUG", "SEP", "OCT", "NOV", "DEC",
}

var monthByName = map[string]time.Month{
	"JAN": time.January, "JANUARY": time.January,
	"FEB": time.February, "FEBRUARY": time.February,
	"MAR": time.March, "MARCH": time.March,
	"APR": time.April, "APRIL": time.April,
	"MAY": time.May,
	"JUN": time.June, "JUNE": time.June,
	"JUL": time.July, "JULY": time.July,
	"AUG": time.August, "AUGUST": time.August,
	"SEP": time.September, "SEPT": time.September, "SEPTEMBER": time.September,
	"OCT": time.October, "OCTOBER": time.October,
	"NOV": time.November, "NOVEMBER": time.November,
	"DEC": time.December, "DECEMBER": time.December,
}

var yearRegex = regexp.MustCompile(`^\d{4}$`)

// Normalize converts a free-form period string into the canonical MMM-YYYY
// token. Accepted shapes:
//
//	"FEB-2026"            already canonical, returned unchanged
//	"2026-02"             numeric year-month
//	"Feb 2026", "feb-2026", "February 2026"
//
// Anything else falls back to uppercasing the input with whitespace collapsed
// to hyphens. The fallback is not a validated canonical form; callers that
// care should check Valid on the result. Normalize is idempotent.
func Normalize(raw string) string {
	s := strings.TrimSpace(raw)
	if canonicalRegex.MatchString(s) {
		return s
	}

	// YYYY-MM
	if len(s) == 7 && s[4] == '-' {
		year, errY := strconv.Atoi(s[:4])
		month, errM := strconv.Atoi(s[5:])
		if errY == nil && errM == nil && month >= 1 && month <= 12 && year >= 1000 {
			return fmt.Sprintf("%s-%04d", monthAbbrevs[month-1], year)
		}
	}

	// <Month|MMM>[ -]<YYYY> in any case
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == '-' || r == '\t'
	})
	if len(parts) == 2 && yearRegex.MatchString(parts[1]) {
		if month, ok := monthByName[strings.ToUpper(parts[0])]; ok {
			return fmt.Sprintf("%s-%s", monthAbbrevs[month-1], parts[1])
		}
	}

	// Best-effort fallback: uppercase, whitespace runs become hyphens.
	return strings.ToUpper(strings.Join(strings.Fields(s), "-"))
}

// Valid reports whether token is a canonical period with a known month.
func Valid(token string) bool {
	if !canonicalRegex.MatchString(token) {
		return false
	}
	_, ok := monthByName[token[:3]]
	return ok
}

// Parse returns the month and year encoded in a canonical token.
func Parse(token string) (time.Month, int, error) {
	if !canonicalRegex.MatchString(token) {
		return 0, 0, fmt.Errorf("period %q is not in MMM-YYYY form", token)
	}
	month, ok := monthByName[token[:3]]
	if !ok {
		return 0, 0, fmt.Errorf("period %q has unknown month", token)
	}
	year, err := strconv.Atoi(token[4:])
	if err != nil {
		return 0, 0, fmt.Errorf("period %q has invalid year: %w", token, err)
	}
	return month, year, nil
}

// LastDay returns the last calendar day of the period at midnight UTC.
func LastDay(token string) (time.Time, error) {
	month, year, err := Parse(token)
	if err != nil {
		return time.Time{}, err
	}
	firstOfNext := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
	return firstOfNext.AddDate(0, 0, -1), nil
}
