package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/insights-cli/internal/analysis"
	"github.com/KaramelBytes/insights-cli/internal/output"
	"github.com/KaramelBytes/insights-cli/internal/parser"
	"github.com/KaramelBytes/insights-cli/internal/utils"
)

var (
	prOutputPath  string
	prOutputDir   string
	prFormat      string
	prDelimiter   string
	prSheet       string
	prPreviewRows int
	prTopValues   int
	prQuiet       bool
)

var profileCmd = &cobra.Command{
	Use:   "profile <files...>",
	Short: "Profile CSV/XLSX/XLS files and print a summary report",
	Long: `Profile one or more datasets (globs allowed). By default the report is
printed as tables; --output writes a single Markdown report and --output-dir
writes one <name>.summary.md per input file.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := expandInputs(args)
		if err != nil {
			return err
		}
		if prOutputPath != "" && len(files) > 1 {
			return fmt.Errorf("--output takes a single input, got %d files (use --output-dir)", len(files))
		}
		switch prFormat {
		case "table", "markdown", "json":
		default:
			return fmt.Errorf("unsupported --format: %s (use table | markdown | json)", prFormat)
		}
		c := currentConfig()
		popt, err := parseOptions(c, prDelimiter, prSheet)
		if err != nil {
			return err
		}
		ropt := analysis.Options{PreviewRows: c.PreviewRows, TopValues: c.TopValues}
		if cmd.Flags().Changed("preview-rows") {
			ropt.PreviewRows = prPreviewRows
		}
		if cmd.Flags().Changed("top-values") {
			ropt.TopValues = prTopValues
		}

		out := cmd.OutOrStdout()
		total := len(files)
		for i, path := range files {
			if total > 1 && !prQuiet {
				fmt.Fprintf(cmd.ErrOrStderr(), "[%d/%d] Processing %s...\n", i+1, total, filepath.Base(path))
			}
			f, err := parser.ParseFile(path, popt)
			if err != nil {
				return err
			}
			rep := analysis.BuildReport(f, ropt)

			switch {
			case prOutputPath != "":
				if err := utils.SafeWriteFile(prOutputPath, []byte(rep.Markdown())); err != nil {
					return fmt.Errorf("write output: %w", err)
				}
				output.Success(out, "Wrote profile to %s", prOutputPath)
			case prOutputDir != "":
				dest, err := summaryPath(prOutputDir, path)
				if err != nil {
					return err
				}
				if err := utils.SafeWriteFile(dest, []byte(rep.Markdown())); err != nil {
					return fmt.Errorf("write output: %w", err)
				}
				if !prQuiet {
					output.Success(out, "Wrote profile to %s", dest)
				}
			case prFormat == "markdown":
				fmt.Fprintln(out, rep.Markdown())
			case prFormat == "json":
				b, err := utils.PrettyJSON(rep)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, string(b))
			default:
				if err := printReport(out, rep); err != nil {
					return err
				}
			}
		}
		return nil
	},
}

// expandInputs resolves globs, keeps literal paths that exist, and drops
// duplicates. The result is sorted.
func expandInputs(args []string) ([]string, error) {
	var files []string
	seen := map[string]struct{}{}
	for _, arg := range args {
		matches, _ := filepath.Glob(arg)
		if len(matches) == 0 {
			if _, err := os.Stat(arg); err != nil {
				return nil, fmt.Errorf("input %s: %w", arg, err)
			}
			matches = []string{arg}
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}
	sort.Strings(files)
	return files, nil
}

// summaryPath picks <dir>/<base>.summary.md, adding __2, __3, ... when
// earlier inputs with the same base name already wrote there.
func summaryPath(dir, input string) (string, error) {
	base := filepath.Base(input)
	safe := strings.TrimSuffix(base, filepath.Ext(base))
	dest := filepath.Join(dir, safe+".summary.md")
	for idx := 2; ; idx++ {
		_, err := os.Stat(dest)
		if os.IsNotExist(err) {
			return dest, nil
		}
		if err != nil {
			return "", fmt.Errorf("stat %s: %w", dest, err)
		}
		dest = filepath.Join(dir, fmt.Sprintf("%s__%d.summary.md", safe, idx))
	}
}

func printReport(w io.Writer, rep *analysis.Report) error {
	p := rep.Profile
	output.Heading(w, "Dataset Overview")
	overview := output.NewTable(w, "File", "Rows", "Columns", "Missing Values", "Duplicate Rows")
	overview.AddRow(p.Name, strconv.Itoa(p.Rows), strconv.Itoa(p.Columns), strconv.Itoa(p.Missing), strconv.Itoa(p.Duplicates))
	if err := overview.Render(); err != nil {
		return err
	}

	output.Heading(w, "Column Types")
	types := output.NewTable(w, "Kind", "Columns")
	types.AddRow("Numeric", joinOrNone(p.Numeric))
	types.AddRow("Categorical", joinOrNone(p.Categorical))
	if err := types.Render(); err != nil {
		return err
	}

	if !rep.Describe.Empty() {
		output.Heading(w, "Numeric Statistics")
		stats := output.NewTable(w, append([]string{""}, rep.Describe.Columns...)...)
		for i, name := range rep.Describe.Stats {
			row := []string{name}
			for _, v := range rep.Describe.Values[i] {
				row = append(row, analysis.FormatStat(v))
			}
			stats.AddRow(row...)
		}
		if err := stats.Render(); err != nil {
			return err
		}
	}

	if len(rep.Frequencies) > 0 {
		output.Heading(w, "Category Frequencies")
		freq := output.NewTable(w, "Column", "Category", "Count")
		for _, fr := range rep.Frequencies {
			freq.AddRow(fr.Column, fr.Category, strconv.Itoa(fr.Count))
		}
		if err := freq.Render(); err != nil {
			return err
		}
	}

	if len(rep.Preview) > 0 {
		output.Heading(w, fmt.Sprintf("Preview (first %d rows)", len(rep.Preview)))
		prev := output.NewTable(w, rep.Header...)
		prev.AddRows(rep.Preview)
		if err := prev.Render(); err != nil {
			return err
		}
	}
	return nil
}

func joinOrNone(names []string) string {
	if len(names) == 0 {
		return "None"
	}
	return strings.Join(names, ", ")
}

func init() {
	rootCmd.AddCommand(profileCmd)
	profileCmd.Flags().StringVarP(&prOutputPath, "output", "o", "", "write the Markdown report to this path")
	profileCmd.Flags().StringVar(&prOutputDir, "output-dir", "", "write one <name>.summary.md per input into this directory")
	profileCmd.Flags().StringVar(&prFormat, "format", "table", "stdout format: table | markdown | json")
	profileCmd.Flags().StringVar(&prDelimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab' | 'pipe' (default from config)")
	profileCmd.Flags().StringVar(&prSheet, "sheet", "", "XLSX/XLS: sheet name (default first sheet)")
	profileCmd.Flags().IntVar(&prPreviewRows, "preview-rows", 200, "number of leading rows to include (0 disables the preview)")
	profileCmd.Flags().IntVar(&prTopValues, "top-values", 5, "frequent values listed per categorical column")
	profileCmd.Flags().BoolVarP(&prQuiet, "quiet", "q", false, "suppress progress output")
}
