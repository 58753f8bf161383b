// Package record builds normalized records from resolved timeline events.
package record

import (
	"regexp"
	"strings"

	"github.com/gaurav-prasanna/brokercsv/core"
	"github.com/gaurav-prasanna/brokercsv/core/normalize"
)

// savingPhrase matches automated savings transactions in the subtitle.
var savingPhrase = regexp.MustCompile(`(?i)(saving\s+executed|saveback|round\s+up)`)

// Extractor turns (event, year) pairs into records.
type Extractor struct {
	dates *normalize.DateNormalizer
}

// New creates an Extractor that resolves dates with the given normalizer.
func New(dates *normalize.DateNormalizer) *Extractor {
	if dates == nil {
		dates = normalize.NewDateNormalizer(nil)
	}
	return &Extractor{dates: dates}
}

// Extract reads the raw fields of an event node and normalizes them.
// Empty fields never cause an error; degenerate records are filtered later.
func (e *Extractor) Extract(node core.TimelineNode, year int) core.Record {
	subtitle := node.Subtitle()

	return core.Record{
		Date:     e.dates.Normalize(subtitle, year),
		Title:    strings.TrimSpace(node.Title()),
		Amount:   normalize.NormalizeAmount(node.Amount()),
		Canceled: node.Canceled(),
		Saving:   IsSaving(subtitle),
	}
}

// IsSaving reports whether a subtitle marks a saving plan execution,
// a saveback or a round-up.
func IsSaving(subtitle string) bool {
	return savingPhrase.MatchString(subtitle)
}
