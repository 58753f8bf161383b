// Package render: Markdown renderer.
// Builds an HTML table and lets html-to-markdown produce the pipe table.
package render

import (
	"fmt"
	"html"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"

	"github.com/gaurav-prasanna/brokercsv/core"
)

// MarkdownRenderer renders records as a Markdown table.
type MarkdownRenderer struct {
	conv *converter.Converter
}

// NewMarkdownRenderer creates a MarkdownRenderer.
func NewMarkdownRenderer() *MarkdownRenderer {
	return &MarkdownRenderer{
		conv: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
				table.NewTablePlugin(),
			),
		),
	}
}

// Render converts records into a heading and a table.
func (r *MarkdownRenderer) Render(records []core.Record) ([]byte, error) {
	md, err := r.conv.ConvertString(tableHTML(records))
	if err != nil {
		return nil, fmt.Errorf("converting table to markdown: %w", err)
	}
	return []byte(md + "\n"), nil
}

// Extension returns the file extension for Markdown output.
func (r *MarkdownRenderer) Extension() string {
	return ".md"
}

func tableHTML(records []core.Record) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<h1>Transactions</h1><p>%d records</p><table><thead><tr>", len(records))
	for _, h := range core.Header {
		b.WriteString("<th>" + html.EscapeString(h) + "</th>")
	}
	b.WriteString("</tr></thead><tbody>")
	for _, rec := range records {
		b.WriteString("<tr>")
		for _, f := range rec.Fields() {
			b.WriteString("<td>" + html.EscapeString(strings.TrimSpace(f)) + "</td>")
		}
		b.WriteString("</tr>")
	}
	b.WriteString("</tbody></table>")
	return b.String()
}
