// Package render: PDF renderer.
// Lays the batch out as a striped table using gofpdf's core fonts.
package render

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"github.com/gaurav-prasanna/brokercsv/core"
)

// Column widths in mm for an A4 page with 15mm margins.
var pdfColumns = []float64{24, 86, 26, 18, 26}

// PDFRenderer renders records as a PDF table.
type PDFRenderer struct {
	// Title is printed above the table.
	Title string
}

// NewPDFRenderer creates a PDFRenderer.
func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{Title: "Transactions"}
}

// Render writes the header row and one row per record.
func (r *PDFRenderer) Render(records []core.Record) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 15)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	header := func() {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetFillColor(230, 230, 230)
		for i, h := range core.Header {
			pdf.CellFormat(pdfColumns[i], 7, tr(h), "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.SetHeaderFunc(func() {
		if pdf.PageNo() > 1 {
			header()
		}
	})

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, tr(r.Title), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "I", 9)
	pdf.SetTextColor(100, 100, 100)
	pdf.CellFormat(0, 6, fmt.Sprintf("%d records", len(records)), "", 1, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(2)
	header()

	pdf.SetFont("Helvetica", "", 9)
	for n, rec := range records {
		pdf.SetFillColor(247, 247, 247)
		fill := n%2 == 1
		for i, f := range rec.Fields() {
			align := "L"
			if i == 2 {
				align = "R"
			}
			pdf.CellFormat(pdfColumns[i], 6, tr(truncate(pdf, f, pdfColumns[i]-2)), "1", 0, align, fill, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("writing PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// Extension returns the file extension for PDF output.
func (r *PDFRenderer) Extension() string {
	return ".pdf"
}

// truncate shortens s with an ellipsis until it fits width.
func truncate(pdf *gofpdf.Fpdf, s string, width float64) string {
	if pdf.GetStringWidth(s) <= width {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && pdf.GetStringWidth(string(runes)+"...") > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "..."
}
