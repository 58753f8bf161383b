// Package resolve walks the ordered timeline and assigns every event the
// year established by the most recent divider above it.
package resolve

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/gaurav-prasanna/brokercsv/core"
)

// currentPeriod is the divider label for the running month.
const currentPeriod = "this month"

// trailingYear matches a run of exactly four digits at the end of a label.
var trailingYear = regexp.MustCompile(`(?:^|\D)(\d{4})\s*$`)

// Entry pairs an event node with the year its date fragments belong to.
type Entry struct {
	Node core.TimelineNode
	Year int
}

// Resolve folds over nodes in order and returns one Entry per event node,
// preserving source order. Dividers only affect the events after them;
// events before the first divider get now's year. Nodes that are neither
// dividers nor events are skipped.
func Resolve(nodes []core.TimelineNode, now time.Time) []Entry {
	entries := make([]Entry, 0, len(nodes))
	year := now.Year()

	for _, node := range nodes {
		switch {
		case node.IsDivider():
			year = DividerYear(node.DividerLabel(), now)
		case node.IsEvent():
			entries = append(entries, Entry{Node: node, Year: year})
		}
	}
	return entries
}

// DividerYear returns the year a divider label stands for: now's year for the
// current-period label or for labels without a trailing year.
func DividerYear(label string, now time.Time) int {
	if IsCurrentPeriod(label) {
		return now.Year()
	}

	m := trailingYear.FindStringSubmatch(label)
	if m == nil {
		return now.Year()
	}
	year, err := strconv.Atoi(m[1])
	if err != nil {
		return now.Year()
	}
	return year
}

// IsCurrentPeriod reports whether label is the "This month" sentinel,
// ignoring case and extra whitespace.
func IsCurrentPeriod(label string) bool {
	return strings.EqualFold(strings.Join(strings.Fields(label), " "), currentPeriod)
}
