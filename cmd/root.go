package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	cfgpkg "github.com/KaramelBytes/insights-cli/internal/config"
	"github.com/KaramelBytes/insights-cli/internal/logger"
	"github.com/KaramelBytes/insights-cli/internal/output"
	"github.com/KaramelBytes/insights-cli/internal/parser"
)

var (
	// Global flags
	cfgFile string
	debug   bool

	// Loaded configuration
	cfg *cfgpkg.Global
)

var rootCmd = &cobra.Command{
	Use:   "insights",
	Short: "Insights: profile, chart and summarise tabular data",
	Long: `Insights loads CSV, XLSX and XLS files, profiles them, renders configurable
charts and answers a few keyword questions, either from the command line or
through a local web dashboard (insights serve).`,
	SilenceUsage: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	cobra.OnInitialize(loadConfig)
	if err := rootCmd.Execute(); err != nil {
		output.Fail(os.Stderr, "Error: %v", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.insights/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: fall back to built-in defaults
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		c = cfgpkg.Default()
	}
	cfg = c
	level := cfg.LogLevel
	if debug {
		level = "debug"
	}
	logger.Init(os.Stderr, level)
}

// currentConfig returns the loaded configuration or the defaults when
// loadConfig has not run.
func currentConfig() *cfgpkg.Global {
	if cfg == nil {
		return cfgpkg.Default()
	}
	return cfg
}

// parseOptions builds reader options from config and an optional
// --delimiter override.
func parseOptions(c *cfgpkg.Global, delimiter, sheet string) (parser.Options, error) {
	opt := parser.DefaultOptions()
	opt.Delimiter = c.Delimiter()
	opt.Sheet = sheet
	switch delimiter {
	case "":
	case ",":
		opt.Delimiter = ','
	case "\t", "tab":
		opt.Delimiter = '\t'
	case ";":
		opt.Delimiter = ';'
	case "|", "pipe":
		opt.Delimiter = '|'
	default:
		return opt, fmt.Errorf("unsupported --delimiter: %s (use ',' | ';' | 'tab' | 'pipe')", delimiter)
	}
	return opt, nil
}
