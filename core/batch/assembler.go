// Package batch filters extracted records and serializes them to the
// canonical delimited export format.
package batch

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/gaurav-prasanna/brokercsv/core"
)

// utf8BOM helps spreadsheet applications recognize UTF-8 input.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Outcome tells the caller which terminal condition a run ended in.
type Outcome int

const (
	// OutcomeOK means at least one record was kept.
	OutcomeOK Outcome = iota
	// OutcomeNoNodes means there was nothing to process.
	OutcomeNoNodes
	// OutcomeNoRecords means events were present but every record was degenerate.
	OutcomeNoRecords
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeNoNodes:
		return "no_nodes"
	case OutcomeNoRecords:
		return "no_records"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Options configures serialization.
type Options struct {
	// BOM prefixes the output with a UTF-8 byte order mark.
	BOM bool
}

// Assemble drops degenerate records, keeping source order.
func Assemble(records []core.Record) ([]core.Record, Outcome) {
	if len(records) == 0 {
		return nil, OutcomeNoNodes
	}

	kept := make([]core.Record, 0, len(records))
	for _, r := range records {
		if r.IsDegenerate() {
			continue
		}
		kept = append(kept, r)
	}

	if len(kept) == 0 {
		return nil, OutcomeNoRecords
	}
	return kept, OutcomeOK
}

// Encode writes the header row and one row per record to w.
// Fields are trimmed; fields containing the delimiter, a quote or a line
// break are quoted with inner quotes doubled.
func Encode(w io.Writer, records []core.Record, opts Options) error {
	if opts.BOM {
		if _, err := w.Write(utf8BOM); err != nil {
			return fmt.Errorf("writing BOM: %w", err)
		}
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(core.Header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, r := range records {
		if err := cw.Write(trimFields(r.Fields())); err != nil {
			return fmt.Errorf("writing record %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// Serialize renders records to an in-memory CSV blob.
func Serialize(records []core.Record, opts Options) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, records, opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func trimFields(fields []string) []string {
	for i, f := range fields {
		fields[i] = strings.TrimSpace(f)
	}
	return fields
}
