package memory

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/habiliai/memorymap/errors"
)

// Dates are extracted from free text by an ordered list of patterns; the
// first pattern that yields a valid calendar date wins. No attempt is made
// to disambiguate multiple candidate dates in the same text, and ambiguous
// numeric forms such as "5/10/2025" are always read month-first regardless
// of locale. That is a deliberate, documented arbitrariness.

type datePattern struct {
	re    *regexp.Regexp
	parse func(match []string) (time.Time, bool)
}

const monthAlternation = `January|February|March|April|May|June|July|August|September|October|November|December|Jan|Feb|Mar|Apr|Jun|Jul|Aug|Sept|Sep|Oct|Nov|Dec`

var datePatterns = []datePattern{
	{
		// 2025-10-08
		re: regexp.MustCompile(`\b(\d{4})-(\d{2})-(\d{2})\b`),
		parse: func(m []string) (time.Time, bool) {
			return makeDate(atoi(m[1]), atoi(m[2]), atoi(m[3]))
		},
	},
	{
		// October 8, 2025
		re: regexp.MustCompile(`(?i)\b(` + monthAlternation + `)\.?\s+(\d{1,2}),?\s+(\d{4})\b`),
		parse: func(m []string) (time.Time, bool) {
			month, ok := parseMonth(m[1])
			if !ok {
				return time.Time{}, false
			}
			return makeDate(atoi(m[3]), int(month), atoi(m[2]))
		},
	},
	{
		// 8 October 2025
		re: regexp.MustCompile(`(?i)\b(\d{1,2})\s+(` + monthAlternation + `)\.?\s+(\d{4})\b`),
		parse: func(m []string) (time.Time, bool) {
			month, ok := parseMonth(m[2])
			if !ok {
				return time.Time{}, false
			}
			return makeDate(atoi(m[3]), int(month), atoi(m[1]))
		},
	},
	{
		// 10/08/2025, month first
		re: regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})/(\d{4})\b`),
		parse: func(m []string) (time.Time, bool) {
			return makeDate(atoi(m[3]), atoi(m[1]), atoi(m[2]))
		},
	},
	{
		// October 8, assumed current year
		re: regexp.MustCompile(`(?i)\b(` + monthAlternation + `)\.?\s+(\d{1,2})\b`),
		parse: func(m []string) (time.Time, bool) {
			month, ok := parseMonth(m[1])
			if !ok {
				return time.Time{}, false
			}
			return makeDate(time.Now().Year(), int(month), atoi(m[2]))
		},
	},
}

// ExtractDate returns the first calendar date found in text, or fallback
// when no pattern matches. It never fails: malformed or empty text just
// yields the fallback, which may itself be nil.
func ExtractDate(text string, fallback *time.Time) *time.Time {
	if text != "" {
		for _, p := range datePatterns {
			m := p.re.FindStringSubmatch(text)
			if m == nil {
				continue
			}
			if t, ok := p.parse(m); ok {
				return &t
			}
		}
	}
	return fallback
}

// ParseDateInput parses a human-entered date string using the same pattern
// set as ExtractDate. Empty input means "no bound". Unlike extraction,
// unparseable input is an error: a user who typed a date range must be
// told it was not understood, not silently ignored.
func ParseDateInput(input string) (*time.Time, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, nil
	}

	for _, p := range datePatterns {
		m := p.re.FindStringSubmatch(input)
		if m == nil {
			continue
		}
		if t, ok := p.parse(m); ok {
			return &t, nil
		}
	}

	return nil, errors.Wrapf(errors.ErrInvalidDateRange, "unrecognized date %q", input)
}

// ParseDateRange parses optional start/end date strings into a DateRange.
func ParseDateRange(startDate, endDate string) (DateRange, error) {
	start, err := ParseDateInput(startDate)
	if err != nil {
		return DateRange{}, err
	}
	end, err := ParseDateInput(endDate)
	if err != nil {
		return DateRange{}, err
	}
	return DateRange{Start: start, End: end}, nil
}

func parseMonth(name string) (time.Month, bool) {
	name = strings.ToLower(name)
	if len(name) > 3 {
		// "sept" and full names all key off the first three letters
		name = name[:3]
	}
	months := map[string]time.Month{
		"jan": time.January, "feb": time.February, "mar": time.March,
		"apr": time.April, "may": time.May, "jun": time.June,
		"jul": time.July, "aug": time.August, "sep": time.September,
		"oct": time.October, "nov": time.November, "dec": time.December,
	}
	m, ok := months[name]
	return m, ok
}

func makeDate(year, month, day int) (time.Time, bool) {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// Reject dates time.Date would normalize, e.g. February 30
	if t.Day() != day || t.Month() != time.Month(month) {
		return time.Time{}, false
	}
	return t, true
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
