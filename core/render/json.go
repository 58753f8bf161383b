// Package render: JSON renderer.
// Wraps the batch in a small envelope so consumers know the column set.
package render

import (
	"encoding/json"
	"fmt"

	"github.com/gaurav-prasanna/brokercsv/core"
)

// JSONRenderer produces an indented JSON document.
type JSONRenderer struct{}

// NewJSONRenderer creates a JSONRenderer.
func NewJSONRenderer() *JSONRenderer {
	return &JSONRenderer{}
}

type jsonBatch struct {
	Columns []string      `json:"columns"`
	Count   int           `json:"count"`
	Records []core.Record `json:"records"`
}

// Render marshals records in source order.
func (r *JSONRenderer) Render(records []core.Record) ([]byte, error) {
	if records == nil {
		records = []core.Record{}
	}

	data, err := json.MarshalIndent(jsonBatch{
		Columns: core.Header,
		Count:   len(records),
		Records: records,
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling JSON: %w", err)
	}
	return data, nil
}

// Extension returns the file extension for JSON output.
func (r *JSONRenderer) Extension() string {
	return ".json"
}
