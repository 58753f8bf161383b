// Package cmd implements the CLI commands for brokercsv using Cobra.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/brokercsv/internal/config"
)

// Persistent flag variables.
var (
	flagConfig    string
	flagLogLevel  string
	flagLogFormat string
)

var rootCmd = &cobra.Command{
	Use:   "brokercsv",
	Short: "Export a broker transaction timeline to CSV",
	Long: `brokercsv reads a broker's transaction timeline (a live page, a saved HTML
file or a node dump), normalizes dates and amounts, and writes a five-column
export: date, title, amount, canceled, saving/saveback/roundUp.

Usage:
  brokercsv export <url> [flags]
  brokercsv export --file timeline.html [flags]`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "YAML config file")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log_level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagLogFormat, "log_format", "", "Log format: console or json")
}

// Execute runs the root command. Ctrl-C cancels the running export.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "brokercsv:", err)
		os.Exit(1)
	}
}

// loadConfig reads the config file and environment, then applies every
// flag the user set explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("log_level") {
		cfg.Logging.Level = flagLogLevel
	}
	if flags.Changed("log_format") {
		cfg.Logging.Format = flagLogFormat
	}
	applyExportFlags(cmd, cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid flags: %w", err)
	}
	return cfg, nil
}
