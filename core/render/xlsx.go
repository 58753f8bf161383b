// Package render: XLSX renderer.
package render

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/gaurav-prasanna/brokercsv/core"
)

const xlsxSheet = "Transactions"

// XLSXRenderer renders records into a single-sheet workbook. Amounts are
// stored as numbers so spreadsheets can sum them.
type XLSXRenderer struct{}

// NewXLSXRenderer creates an XLSXRenderer.
func NewXLSXRenderer() *XLSXRenderer {
	return &XLSXRenderer{}
}

// Render writes the header row at A1 and one row per record below it.
func (r *XLSXRenderer) Render(records []core.Record) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", xlsxSheet); err != nil {
		return nil, fmt.Errorf("naming sheet: %w", err)
	}

	header := make([]interface{}, len(core.Header))
	for i, h := range core.Header {
		header[i] = h
	}
	if err := f.SetSheetRow(xlsxSheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("writing header: %w", err)
	}

	for i, rec := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := []interface{}{rec.Date, rec.Title, amountCell(rec.Amount), core.YesNo(rec.Canceled), core.YesNo(rec.Saving)}
		if err := f.SetSheetRow(xlsxSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("writing record %d: %w", i, err)
		}
	}

	if err := f.SetPanes(xlsxSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return nil, fmt.Errorf("freezing header: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("writing workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// Extension returns the file extension for XLSX output.
func (r *XLSXRenderer) Extension() string {
	return ".xlsx"
}

// amountCell keeps unparseable or empty amounts as text.
func amountCell(amount string) interface{} {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return amount
	}
	return d.InexactFloat64()
}
