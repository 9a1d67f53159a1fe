package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/insights-cli/internal/output"
	"github.com/KaramelBytes/insights-cli/internal/parser"
	"github.com/KaramelBytes/insights-cli/internal/query"
)

var askDelimiter string

var askCmd = &cobra.Command{
	Use:   "ask <file> <question...>",
	Short: "Ask a keyword question about a dataset",
	Example: `  insights ask cars.csv "Which car brand has the highest average price?"
  insights ask cars.csv which make has the most cars`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		popt, err := parseOptions(currentConfig(), askDelimiter, "")
		if err != nil {
			return err
		}
		f, err := parser.ParseFile(args[0], popt)
		if err != nil {
			return err
		}
		ans, err := query.Match(f, strings.Join(args[1:], " "))
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if ans.Rule == query.RuleFallback {
			output.Warn(out, "%s", ans.Text)
			return nil
		}
		fmt.Fprintln(out, ans.Text)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(askCmd)
	askCmd.Flags().StringVar(&askDelimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab' | 'pipe' (default from config)")
}
