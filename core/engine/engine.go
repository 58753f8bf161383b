// Package engine runs the normalization pipeline over a collected timeline:
// resolve year context → extract records → assemble the export batch.
//
// The engine is synchronous and performs no I/O. A partially loaded timeline
// simply yields a shorter batch.
package engine

import (
	"fmt"
	"time"

	"github.com/gaurav-prasanna/brokercsv/core"
	"github.com/gaurav-prasanna/brokercsv/core/batch"
	"github.com/gaurav-prasanna/brokercsv/core/normalize"
	"github.com/gaurav-prasanna/brokercsv/core/record"
	"github.com/gaurav-prasanna/brokercsv/core/resolve"
)

// Options configures an Engine.
type Options struct {
	// Now is the clock used for year defaults and the future-date guard.
	// Defaults to time.Now.
	Now func() time.Time
	// BOM prefixes the CSV output with a UTF-8 byte order mark.
	BOM bool
}

// Stats counts what a run saw.
type Stats struct {
	Nodes    int
	Dividers int
	Events   int
	Dropped  int
}

// Result is the outcome of one run.
type Result struct {
	Outcome batch.Outcome
	// Records are the kept records in source order.
	Records []core.Record
	// CSV is the canonical export; nil unless Outcome is OutcomeOK.
	CSV   []byte
	Stats Stats
}

// Engine converts timeline nodes into an export batch.
type Engine struct {
	now  func() time.Time
	bom  bool
	rows *record.Extractor
}

// New creates an Engine.
func New(opts Options) *Engine {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Engine{
		now:  now,
		bom:  opts.BOM,
		rows: record.New(normalize.NewDateNormalizer(now)),
	}
}

// Run processes nodes in order. Bad fields never fail the run; the only
// error is a serialization failure.
func (e *Engine) Run(nodes []core.TimelineNode) (*Result, error) {
	entries := resolve.Resolve(nodes, e.now())

	stats := Stats{Nodes: len(nodes), Events: len(entries)}
	for _, n := range nodes {
		if n.IsDivider() {
			stats.Dividers++
		}
	}

	records := make([]core.Record, 0, len(entries))
	for _, entry := range entries {
		records = append(records, e.rows.Extract(entry.Node, entry.Year))
	}

	kept, outcome := batch.Assemble(records)
	stats.Dropped = len(records) - len(kept)

	result := &Result{Outcome: outcome, Records: kept, Stats: stats}
	if outcome != batch.OutcomeOK {
		return result, nil
	}

	data, err := batch.Serialize(kept, batch.Options{BOM: e.bom})
	if err != nil {
		return nil, fmt.Errorf("serializing batch: %w", err)
	}
	result.CSV = data
	return result, nil
}
