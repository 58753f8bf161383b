package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaurav-prasanna/brokercsv/core/batch"
	"github.com/gaurav-prasanna/brokercsv/internal/config"
)

const nodeDump = `[
  {"divider": true, "label": "January 2024"},
  {"event": true, "title": "Coffee", "subtitle": "3/1", "amount": "-5,00 €"},
  {"event": true, "title": "Refund", "subtitle": "10/1/24", "amount": "+100.00"}
]`

const timelineHTML = `<ol>
  <li class="timelineMonthDivider">January 2024</li>
  <li><div class="timelineV2Event">
    <h2 class="timelineV2Event__title">Coffee</h2>
    <p class="timelineV2Event__subtitle">3/1</p>
    <div class="timelineV2Event__price"><p>-5,00 €</p></div>
  </div></li>
</ol>`

func resetFlags(t *testing.T) {
	t.Helper()
	reset := func() {
		flagFile, flagNodes, flagDumpNodes, flagCookie = "", "", "", ""
		flagBrowser, flagStdout, flagBOM, flagHeadless = false, false, false, false
		flagCSV, flagJSON, flagMarkdown, flagPDF, flagXLSX = false, false, false, false, false
		flagOutputDir, flagGCSBucket, flagGCSPrefix, flagUserDataDir = "", "", "", ""
	}
	reset()
	t.Cleanup(reset)
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Output.Dir = t.TempDir()
	return cfg
}

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestValidateFlags(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		set     func()
		wantErr string
	}{
		{name: "url", args: []string{"https://broker.example/timeline"}},
		{name: "file", set: func() { flagFile = "page.html" }},
		{name: "nodes with format", set: func() { flagNodes = "-"; flagXLSX = true }},
		{name: "browser url", args: []string{"https://broker.example"}, set: func() { flagBrowser = true }},
		{name: "no source", wantErr: "a source is required"},
		{name: "two sources", args: []string{"https://broker.example"}, set: func() { flagFile = "x.html" }, wantErr: "only one source"},
		{name: "bad url", args: []string{"broker.example"}, wantErr: "invalid URL"},
		{name: "browser without url", set: func() { flagFile = "x.html"; flagBrowser = true }, wantErr: "--browser requires a URL"},
		{name: "cookie with browser", args: []string{"https://broker.example"}, set: func() { flagBrowser = true; flagCookie = "a=b" }, wantErr: "--cookie"},
		{name: "two formats", set: func() { flagFile = "x.html"; flagPDF = true; flagJSON = true }, wantErr: "only one output format"},
		{name: "stdout and gcs", set: func() { flagFile = "x.html"; flagStdout = true; flagGCSBucket = "b" }, wantErr: "mutually exclusive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetFlags(t)
			if tt.set != nil {
				tt.set()
			}

			_, err := validateFlags(tt.args)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestApplyExportFlags(t *testing.T) {
	resetFlags(t)
	c := &cobra.Command{}
	registerExportFlags(c)
	require.NoError(t, c.ParseFlags([]string{"--markdown", "--bom", "--output_dir", "out", "--headless"}))

	cfg := &config.Config{Output: config.OutputConfig{Format: "csv", Dir: "keep"}}
	cfg.Browser.UserDataDir = "profile"
	applyExportFlags(c, cfg)

	assert.Equal(t, "markdown", cfg.Output.Format)
	assert.True(t, cfg.Output.BOM)
	assert.Equal(t, "out", cfg.Output.Dir)
	assert.True(t, cfg.Browser.Headless)
	// Flags left unset keep the configured value.
	assert.Equal(t, "profile", cfg.Browser.UserDataDir)
}

func TestSelectRenderer(t *testing.T) {
	for format, ext := range map[string]string{
		"csv": ".csv", "json": ".json", "markdown": ".md", "pdf": ".pdf", "xlsx": ".xlsx", "": ".csv",
	} {
		r, err := selectRenderer(config.OutputConfig{Format: format})
		require.NoError(t, err, format)
		assert.Equal(t, ext, r.Extension())
	}

	_, err := selectRenderer(config.OutputConfig{Format: "docx"})
	assert.Error(t, err)
}

func TestOutcomeError(t *testing.T) {
	assert.NoError(t, outcomeError(batch.OutcomeOK))
	assert.ErrorIs(t, outcomeError(batch.OutcomeNoNodes), ErrNoEvents)
	assert.ErrorIs(t, outcomeError(batch.OutcomeNoRecords), ErrNoRecords)
	assert.Error(t, outcomeError(batch.Outcome(42)))
}

func TestExport_NodesToStdout(t *testing.T) {
	resetFlags(t)
	flagStdout = true
	cfg := testConfig(t)
	src := source{Nodes: "-"}

	var out bytes.Buffer
	err := export(context.Background(), cfg, src, strings.NewReader(nodeDump), &out)
	require.NoError(t, err)

	want := "date,title,amount,canceled,saving/saveback/roundUp\n" +
		"2024-01-03,Coffee,-5,no,no\n" +
		"2024-01-10,Refund,100,no,no\n"
	assert.Equal(t, want, out.String())
}

func TestExport_FileWritesTimestampedExport(t *testing.T) {
	resetFlags(t)
	cfg := testConfig(t)
	dump := filepath.Join(t.TempDir(), "nodes.json")
	flagDumpNodes = dump
	src := source{File: writeTemp(t, "timeline.html", timelineHTML)}

	var out bytes.Buffer
	require.NoError(t, export(context.Background(), cfg, src, nil, &out))
	assert.Contains(t, out.String(), "✓ Written:")
	assert.Contains(t, out.String(), "(1 records)")

	matches, err := filepath.Glob(filepath.Join(cfg.Output.Dir, "transactions_*.csv"))
	require.NoError(t, err)
	require.Len(t, matches, 1)

	data, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	assert.Contains(t, string(data), "2024-01-03,Coffee,-5,no,no")

	assert.FileExists(t, dump)
}

func TestExport_NoEvents(t *testing.T) {
	resetFlags(t)
	cfg := testConfig(t)
	src := source{File: writeTemp(t, "login.html", `<p>Please log in</p>`)}

	err := export(context.Background(), cfg, src, nil, &bytes.Buffer{})
	assert.ErrorIs(t, err, ErrNoEvents)
}

func TestExport_NoRecords(t *testing.T) {
	resetFlags(t)
	cfg := testConfig(t)
	src := source{Nodes: "-"}

	err := export(context.Background(), cfg, src, strings.NewReader(`[{"event": true}]`), &bytes.Buffer{})
	assert.ErrorIs(t, err, ErrNoRecords)
}

func TestExport_MissingFile(t *testing.T) {
	resetFlags(t)
	cfg := testConfig(t)

	err := export(context.Background(), cfg, source{File: filepath.Join(t.TempDir(), "absent.html")}, nil, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "opening")
}
