// Package cmd: export command.
// This is the main command that orchestrates the pipeline:
// load nodes → resolve/normalize (engine) → render → write.
//
// Nodes come from exactly one source: a URL (HTTP or a live browser),
// a saved HTML file, or a JSON node dump.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/brokercsv/core"
	"github.com/gaurav-prasanna/brokercsv/core/batch"
	"github.com/gaurav-prasanna/brokercsv/core/engine"
	"github.com/gaurav-prasanna/brokercsv/core/extract"
	"github.com/gaurav-prasanna/brokercsv/core/fetch"
	"github.com/gaurav-prasanna/brokercsv/core/output"
	"github.com/gaurav-prasanna/brokercsv/core/render"
	"github.com/gaurav-prasanna/brokercsv/crawl"
	"github.com/gaurav-prasanna/brokercsv/internal/config"
	"github.com/gaurav-prasanna/brokercsv/internal/logger"
)

var (
	// ErrNoEvents means the page held no recognizable timeline entries.
	ErrNoEvents = errors.New("found 0 events. If this page uses a different view, scroll the list first and try again")
	// ErrNoRecords means entries were found but none produced any data.
	ErrNoRecords = errors.New("elements found, but no data extracted. The class names may have changed")
)

// Flag variables.
var (
	flagFile      string
	flagNodes     string
	flagDumpNodes string
	flagBrowser   bool
	flagCookie    string

	flagCSV      bool
	flagJSON     bool
	flagMarkdown bool
	flagPDF      bool
	flagXLSX     bool

	flagBOM         bool
	flagStdout      bool
	flagOutputDir   string
	flagGCSBucket   string
	flagGCSPrefix   string
	flagHeadless    bool
	flagUserDataDir string
)

var exportCmd = &cobra.Command{
	Use:   "export [url]",
	Short: "Export a transaction timeline",
	Long: `Export loads a transaction timeline, fills in missing years from the month
dividers, normalizes dates and amounts, and writes the result to
transactions_YYYYMMDD_HHMMSS.<ext> in the output directory.

Examples:
  brokercsv export https://app.example-broker.com/timeline --browser --user_data_dir ~/.brokercsv
  brokercsv export --file saved-timeline.html --xlsx --output_dir ./out
  brokercsv export --nodes nodes.json --stdout
  brokercsv export --file saved-timeline.html --gcs_bucket my-exports --gcs_prefix broker`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
	registerExportFlags(exportCmd)
}

func registerExportFlags(c *cobra.Command) {
	// Sources.
	c.Flags().StringVar(&flagFile, "file", "", "Read a saved timeline page (\"-\" for stdin)")
	c.Flags().StringVar(&flagNodes, "nodes", "", "Read a JSON node dump (\"-\" for stdin)")
	c.Flags().BoolVar(&flagBrowser, "browser", false, "Load the URL in Chrome and scroll until the timeline is complete")
	c.Flags().StringVar(&flagCookie, "cookie", "", "Cookie header for plain HTTP fetches")
	c.Flags().StringVar(&flagDumpNodes, "dump_nodes", "", "Also write the extracted nodes as JSON to this path")

	// Output format flags (mutually exclusive).
	c.Flags().BoolVar(&flagCSV, "csv", false, "Output CSV (default)")
	c.Flags().BoolVar(&flagJSON, "json", false, "Output JSON")
	c.Flags().BoolVar(&flagMarkdown, "markdown", false, "Output a Markdown table")
	c.Flags().BoolVar(&flagPDF, "pdf", false, "Output PDF")
	c.Flags().BoolVar(&flagXLSX, "xlsx", false, "Output an Excel workbook")

	// Delivery.
	c.Flags().BoolVar(&flagBOM, "bom", false, "Prefix CSV output with a UTF-8 byte order mark")
	c.Flags().BoolVar(&flagStdout, "stdout", false, "Write the export to stdout instead of a file")
	c.Flags().StringVar(&flagOutputDir, "output_dir", "", "Output directory (default: current directory)")
	c.Flags().StringVar(&flagGCSBucket, "gcs_bucket", "", "Also upload the export to this Cloud Storage bucket")
	c.Flags().StringVar(&flagGCSPrefix, "gcs_prefix", "", "Object prefix inside the bucket")

	// Browser.
	c.Flags().BoolVar(&flagHeadless, "headless", false, "Run Chrome without a window")
	c.Flags().StringVar(&flagUserDataDir, "user_data_dir", "", "Chrome profile directory (keeps you logged in)")
}

// source says where timeline nodes come from.
type source struct {
	URL     string
	File    string
	Nodes   string
	Browser bool
	Cookie  string
}

func runExport(cmd *cobra.Command, args []string) error {
	src, err := validateFlags(args)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format).With().
		Str("run_id", uuid.NewString()).
		Logger()
	ctx := logger.WithContext(cmd.Context(), log)

	return export(ctx, cfg, src, cmd.InOrStdin(), cmd.OutOrStdout())
}

// export runs one source through the pipeline and delivers the result.
func export(ctx context.Context, cfg *config.Config, src source, stdin io.Reader, stdout io.Writer) error {
	log := logger.FromContext(ctx)

	nodes, err := loadNodes(ctx, cfg, src, stdin)
	if err != nil {
		return err
	}

	if flagDumpNodes != "" {
		if err := dumpNodes(flagDumpNodes, nodes); err != nil {
			return err
		}
	}

	result, err := engine.New(engine.Options{BOM: cfg.Output.BOM}).Run(nodes)
	if err != nil {
		return err
	}
	log.Info().
		Int("nodes", result.Stats.Nodes).
		Int("dividers", result.Stats.Dividers).
		Int("events", result.Stats.Events).
		Int("dropped", result.Stats.Dropped).
		Str("outcome", result.Outcome.String()).
		Msg("timeline processed")

	if err := outcomeError(result.Outcome); err != nil {
		return err
	}

	renderer, err := selectRenderer(cfg.Output)
	if err != nil {
		return err
	}
	data, err := renderer.Render(result.Records)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}

	if flagStdout {
		_, err := stdout.Write(data)
		return err
	}

	writer, err := output.New(cfg.Output.Dir)
	if err != nil {
		return fmt.Errorf("initializing output writer: %w", err)
	}
	if cfg.Output.GCSBucket != "" {
		uploader, err := output.NewGCSUploader(ctx, cfg.Output.GCSBucket, cfg.Output.GCSPrefix)
		if err != nil {
			return fmt.Errorf("initializing uploader: %w", err)
		}
		defer uploader.Close()
		writer.Uploader = uploader
	}

	delivery, err := writer.Write(ctx, data, renderer.Extension())
	if delivery != nil {
		fmt.Fprintf(stdout, "✓ Written: %s (%d records)\n", delivery.Path, len(result.Records))
	}
	if err != nil {
		return err
	}
	if delivery.Object != "" {
		fmt.Fprintf(stdout, "✓ Uploaded: %s\n", delivery.Object)
	}
	return nil
}

// loadNodes reads timeline nodes from the selected source.
func loadNodes(ctx context.Context, cfg *config.Config, src source, stdin io.Reader) ([]core.TimelineNode, error) {
	log := logger.FromContext(ctx)

	if src.Nodes != "" {
		r, closeFn, err := openInput(src.Nodes, stdin)
		if err != nil {
			return nil, err
		}
		defer closeFn()
		return core.DecodeNodes(r)
	}

	var html string
	switch {
	case src.File != "":
		r, closeFn, err := openInput(src.File, stdin)
		if err != nil {
			return nil, err
		}
		defer closeFn()
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", src.File, err)
		}
		html = string(data)

	case src.Browser:
		log.Info().Str("url", src.URL).Msg("opening browser")
		snap, err := crawl.NewBrowser(browserOptions(cfg.Browser)).Snapshot(ctx, src.URL)
		if err != nil {
			return nil, err
		}
		html = snap

	default:
		log.Info().Str("url", src.URL).Msg("fetching page")
		result, err := fetch.New(fetch.WithCookie(src.Cookie)).Fetch(ctx, src.URL)
		if err != nil {
			return nil, fmt.Errorf("fetch: %w", err)
		}
		html = result.HTML
	}

	nodes, err := extract.New().Nodes(html)
	if err != nil {
		return nil, fmt.Errorf("extract: %w", err)
	}
	return nodes, nil
}

func browserOptions(b config.BrowserConfig) crawl.Options {
	return crawl.Options{
		Headless:     b.Headless,
		UserDataDir:  b.UserDataDir,
		PollInterval: b.PollInterval,
		StablePolls:  b.StablePolls,
		MaxRounds:    b.MaxRounds,
		Timeout:      b.Timeout,
	}
}

// openInput opens path, or returns stdin for "-".
func openInput(path string, stdin io.Reader) (io.Reader, func(), error) {
	if path == "-" {
		return stdin, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening %s: %w", path, err)
	}
	return f, func() { f.Close() }, nil
}

func dumpNodes(path string, nodes []core.TimelineNode) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating node dump: %w", err)
	}
	if err := core.EncodeNodes(f, nodes); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// outcomeError maps the degenerate outcomes to their user-facing errors.
func outcomeError(o batch.Outcome) error {
	switch o {
	case batch.OutcomeOK:
		return nil
	case batch.OutcomeNoNodes:
		return ErrNoEvents
	case batch.OutcomeNoRecords:
		return ErrNoRecords
	default:
		return fmt.Errorf("unexpected outcome %s", o)
	}
}

// validateFlags checks that exactly one source and at most one output
// format are chosen.
func validateFlags(args []string) (source, error) {
	src := source{File: flagFile, Nodes: flagNodes, Browser: flagBrowser, Cookie: flagCookie}
	if len(args) > 0 {
		src.URL = args[0]
	}

	sources := 0
	for _, set := range []bool{src.URL != "", src.File != "", src.Nodes != ""} {
		if set {
			sources++
		}
	}
	if sources == 0 {
		return src, fmt.Errorf("a source is required: <url>, --file or --nodes")
	}
	if sources > 1 {
		return src, fmt.Errorf("only one source allowed per run: <url>, --file or --nodes")
	}

	if src.URL != "" {
		parsed, err := url.Parse(src.URL)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return src, fmt.Errorf("invalid URL: %s (must include scheme, e.g. https://example.com)", src.URL)
		}
	}
	if src.Browser && src.URL == "" {
		return src, fmt.Errorf("--browser requires a URL")
	}
	if src.Cookie != "" && (src.URL == "" || src.Browser) {
		return src, fmt.Errorf("--cookie only applies to plain HTTP fetches of a URL")
	}

	formatCount := 0
	for _, set := range []bool{flagCSV, flagJSON, flagMarkdown, flagPDF, flagXLSX} {
		if set {
			formatCount++
		}
	}
	if formatCount > 1 {
		return src, fmt.Errorf("only one output format allowed per run (got %d)", formatCount)
	}
	if flagStdout && flagGCSBucket != "" {
		return src, fmt.Errorf("--stdout and --gcs_bucket are mutually exclusive")
	}

	return src, nil
}

// formatFromFlags returns the format chosen by flag, or "" for none.
func formatFromFlags() string {
	switch {
	case flagCSV:
		return "csv"
	case flagJSON:
		return "json"
	case flagMarkdown:
		return "markdown"
	case flagPDF:
		return "pdf"
	case flagXLSX:
		return "xlsx"
	default:
		return ""
	}
}

// applyExportFlags copies explicitly set export flags over cfg.
func applyExportFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if format := formatFromFlags(); format != "" {
		cfg.Output.Format = format
	}
	if flags.Changed("bom") {
		cfg.Output.BOM = flagBOM
	}
	if flags.Changed("output_dir") {
		cfg.Output.Dir = flagOutputDir
	}
	if flags.Changed("gcs_bucket") {
		cfg.Output.GCSBucket = flagGCSBucket
	}
	if flags.Changed("gcs_prefix") {
		cfg.Output.GCSPrefix = flagGCSPrefix
	}
	if flags.Changed("headless") {
		cfg.Browser.Headless = flagHeadless
	}
	if flags.Changed("user_data_dir") {
		cfg.Browser.UserDataDir = flagUserDataDir
	}
}

// selectRenderer creates the Renderer for the configured format.
func selectRenderer(out config.OutputConfig) (core.Renderer, error) {
	switch out.Format {
	case "csv", "":
		return render.NewCSVRenderer(out.BOM), nil
	case "json":
		return render.NewJSONRenderer(), nil
	case "markdown":
		return render.NewMarkdownRenderer(), nil
	case "pdf":
		return render.NewPDFRenderer(), nil
	case "xlsx":
		return render.NewXLSXRenderer(), nil
	default:
		return nil, fmt.Errorf("unknown output format %q", out.Format)
	}
}
