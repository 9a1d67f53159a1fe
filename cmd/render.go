package cmd

import (
	"bytes"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/insights-cli/internal/charts"
	"github.com/KaramelBytes/insights-cli/internal/output"
	"github.com/KaramelBytes/insights-cli/internal/parser"
	"github.com/KaramelBytes/insights-cli/internal/session"
	"github.com/KaramelBytes/insights-cli/internal/utils"
)

var (
	rnLayoutPath string
	rnOutputPath string
	rnSaveLayout string
	rnDelimiter  string
	rnSheet      string
)

var renderCmd = &cobra.Command{
	Use:   "render <file>",
	Short: "Render the charts of a YAML layout into one HTML page",
	Long: `Render loads a dataset, applies the chart list from --layout (YAML, as
exported by the dashboard) and writes every chart to a single HTML page.
Without --layout a single default chart is rendered. --save-layout writes
the rendered chart list back out as YAML for later runs or the dashboard.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := currentConfig()
		popt, err := parseOptions(c, rnDelimiter, rnSheet)
		if err != nil {
			return err
		}
		f, err := parser.ParseFile(args[0], popt)
		if err != nil {
			return err
		}
		ws := session.NewWorkspace()
		ws.Load(f)
		if rnLayoutPath != "" {
			l, err := charts.LoadLayout(rnLayoutPath)
			if err != nil {
				return err
			}
			if err := ws.ApplyLayout(l); err != nil {
				return err
			}
		} else if _, _, err := ws.AddChart(); err != nil {
			return err
		}

		frame, configs, err := ws.Charts()
		if err != nil {
			return err
		}
		var buf bytes.Buffer
		r := charts.NewRenderer(c.ChartHeight, c.DoughnutHole)
		if err := r.WritePage(&buf, frame, configs); err != nil {
			return err
		}
		if err := utils.SafeWriteFile(rnOutputPath, buf.Bytes()); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		if rnSaveLayout != "" {
			if err := (&charts.Layout{Charts: configs}).Save(rnSaveLayout); err != nil {
				return fmt.Errorf("save layout: %w", err)
			}
			output.Success(cmd.OutOrStdout(), "Saved layout to %s", rnSaveLayout)
		}
		slog.Debug("charts rendered", "file", frame.Name, "charts", len(configs), "output", rnOutputPath)
		output.Success(cmd.OutOrStdout(), "Rendered %d chart(s) to %s", len(configs), rnOutputPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(renderCmd)
	renderCmd.Flags().StringVarP(&rnLayoutPath, "layout", "l", "", "YAML chart layout")
	renderCmd.Flags().StringVarP(&rnOutputPath, "output", "o", "charts.html", "HTML output path")
	renderCmd.Flags().StringVar(&rnSaveLayout, "save-layout", "", "also write the chart list as a YAML layout")
	renderCmd.Flags().StringVar(&rnDelimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab' | 'pipe' (default from config)")
	renderCmd.Flags().StringVar(&rnSheet, "sheet", "", "XLSX/XLS: sheet name (default first sheet)")
}
