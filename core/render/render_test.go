package render

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/gaurav-prasanna/brokercsv/core"
)

var sample = []core.Record{
	{Date: "2024-01-15", Title: "Coffee Shop", Amount: "-4.2"},
	{Date: "2023-12-31", Title: "Savings Plan", Amount: "100", Saving: true},
	{Date: "", Title: "Refund", Amount: "", Canceled: true},
}

func TestRenderers_ImplementInterface(t *testing.T) {
	renderers := []core.Renderer{
		NewCSVRenderer(false),
		NewJSONRenderer(),
		NewMarkdownRenderer(),
		NewPDFRenderer(),
		NewXLSXRenderer(),
	}
	exts := make([]string, 0, len(renderers))
	for _, r := range renderers {
		exts = append(exts, r.Extension())
	}
	assert.Equal(t, []string{".csv", ".json", ".md", ".pdf", ".xlsx"}, exts)
}

func TestCSVRenderer_Render(t *testing.T) {
	data, err := NewCSVRenderer(false).Render(sample)
	require.NoError(t, err)

	want := "date,title,amount,canceled,saving/saveback/roundUp\n" +
		"2024-01-15,Coffee Shop,-4.2,no,no\n" +
		"2023-12-31,Savings Plan,100,no,yes\n" +
		",Refund,,yes,no\n"
	assert.Equal(t, want, string(data))
}

func TestCSVRenderer_RenderBOM(t *testing.T) {
	data, err := NewCSVRenderer(true).Render(sample[:1])
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}))
}

func TestJSONRenderer_Render(t *testing.T) {
	data, err := NewJSONRenderer().Render(sample)
	require.NoError(t, err)

	var got jsonBatch
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, core.Header, got.Columns)
	assert.Equal(t, 3, got.Count)
	assert.Equal(t, sample, got.Records)
}

func TestJSONRenderer_RenderEmpty(t *testing.T) {
	data, err := NewJSONRenderer().Render(nil)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"records": []`)
}

func TestMarkdownRenderer_Render(t *testing.T) {
	data, err := NewMarkdownRenderer().Render(sample)
	require.NoError(t, err)

	md := string(data)
	assert.True(t, strings.HasPrefix(md, "# Transactions"))
	assert.Contains(t, md, "3 records")
	assert.Contains(t, md, "Coffee Shop")
	assert.Contains(t, md, "2023-12-31")
	assert.Contains(t, md, "|")
	assert.NotContains(t, md, "<td>")
}

func TestPDFRenderer_Render(t *testing.T) {
	data, err := NewPDFRenderer().Render(sample)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

func TestPDFRenderer_RenderManyPages(t *testing.T) {
	records := make([]core.Record, 0, 200)
	for i := 0; i < 200; i++ {
		records = append(records, core.Record{Date: "2024-01-01", Title: strings.Repeat("Long merchant name ", 6), Amount: "-1"})
	}
	data, err := NewPDFRenderer().Render(records)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

func TestXLSXRenderer_Render(t *testing.T) {
	data, err := NewXLSXRenderer().Render(sample)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(xlsxSheet)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, core.Header, rows[0])
	assert.Equal(t, []string{"2024-01-15", "Coffee Shop", "-4.2", "no", "no"}, rows[1])
	assert.Equal(t, "yes", rows[2][4])
	assert.Equal(t, "Refund", rows[3][1])
}

func TestAmountCell(t *testing.T) {
	assert.Equal(t, -1234.56, amountCell("-1234.56"))
	assert.Equal(t, "", amountCell(""))
}
