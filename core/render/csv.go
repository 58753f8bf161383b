// Package render provides output renderers for transaction batches.
// CSV is the canonical format; the others present the same five columns
// for reading rather than importing.
package render

import (
	"github.com/gaurav-prasanna/brokercsv/core"
	"github.com/gaurav-prasanna/brokercsv/core/batch"
)

// CSVRenderer writes the canonical delimited export.
type CSVRenderer struct {
	opts batch.Options
}

// NewCSVRenderer creates a CSVRenderer. With bom set the output starts with
// a UTF-8 byte order mark.
func NewCSVRenderer(bom bool) *CSVRenderer {
	return &CSVRenderer{opts: batch.Options{BOM: bom}}
}

// Render serializes records with the fixed header row.
func (r *CSVRenderer) Render(records []core.Record) ([]byte, error) {
	return batch.Serialize(records, r.opts)
}

// Extension returns the file extension for CSV output.
func (r *CSVRenderer) Extension() string {
	return ".csv"
}
