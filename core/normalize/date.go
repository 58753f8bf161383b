package normalize

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

var (
	// isoDate matches an embedded YYYY-M-D date; month and day need no padding.
	isoDate = regexp.MustCompile(`(\d{4})-(\d{1,2})-(\d{1,2})`)
	// dayMonthDate matches D.M or D/M with an optional .YY/.YYYY year. Day first.
	dayMonthDate = regexp.MustCompile(`\b(\d{1,2})[./](\d{1,2})(?:[./](\d{4}|\d{2}))?\b`)
)

// DateKind tags which pattern a date fragment matched.
type DateKind int

const (
	DateUnparsed DateKind = iota
	DateISO
	DateDayMonth
)

func (k DateKind) String() string {
	switch k {
	case DateISO:
		return "iso"
	case DateDayMonth:
		return "day-month"
	default:
		return "unparsed"
	}
}

// DateMatch is the outcome of matching a raw date fragment.
// Year is 0 for a day/month match that carried no year.
type DateMatch struct {
	Kind  DateKind
	Year  int
	Month int
	Day   int
	// Text is the cleaned input, returned as-is for unparsed fragments.
	Text string
}

// HasYear reports whether the fragment supplied its own year.
func (m DateMatch) HasYear() bool {
	return m.Year != 0
}

// ParseDate classifies a raw date fragment. ISO dates win over day/month
// fragments found elsewhere in the same text.
func ParseDate(raw string) DateMatch {
	s := replaceNBSP(raw)

	if m := isoDate.FindStringSubmatch(s); m != nil {
		return DateMatch{Kind: DateISO, Year: atoi(m[1]), Month: atoi(m[2]), Day: atoi(m[3]), Text: s}
	}

	if m := dayMonthDate.FindStringSubmatch(s); m != nil {
		match := DateMatch{Kind: DateDayMonth, Day: atoi(m[1]), Month: atoi(m[2]), Text: s}
		if m[3] != "" {
			match.Year = atoi(m[3])
			if match.Year < 100 {
				match.Year += 2000
			}
		}
		return match
	}

	return DateMatch{Kind: DateUnparsed, Text: s}
}

// DateNormalizer renders date fragments as YYYY-MM-DD, filling missing years
// from the surrounding timeline section.
type DateNormalizer struct {
	now func() time.Time
}

// NewDateNormalizer creates a DateNormalizer. A nil clock means time.Now.
func NewDateNormalizer(now func() time.Time) *DateNormalizer {
	if now == nil {
		now = time.Now
	}
	return &DateNormalizer{now: now}
}

// Normalize converts raw into YYYY-MM-DD using contextYear when the text has
// no year. A date inferred that way which would lie in the future is moved
// back one year. Unrecognized text is returned trimmed; empty input gives "".
func (n *DateNormalizer) Normalize(raw string, contextYear int) string {
	m := ParseDate(raw)

	switch m.Kind {
	case DateISO:
		return formatDate(m.Year, m.Month, m.Day)
	case DateDayMonth:
		if m.HasYear() {
			return formatDate(m.Year, m.Month, m.Day)
		}
		return formatDate(n.guardFuture(contextYear, m.Month, m.Day), m.Month, m.Day)
	default:
		return m.Text
	}
}

// guardFuture returns year, or year-1 when (year, month, day) is after now.
func (n *DateNormalizer) guardFuture(year, month, day int) int {
	now := n.now()
	candidate := time.Date(year, time.Month(month), day, 0, 0, 0, 0, now.Location())
	if candidate.After(now) {
		return year - 1
	}
	return year
}

func formatDate(year, month, day int) string {
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
}

// atoi parses a regexp digit group; the patterns guarantee it is numeric.
func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
