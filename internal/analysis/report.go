package analysis

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/KaramelBytes/insights-cli/internal/dataset"
)

// Options controls report building.
type Options struct {
	// PreviewRows is how many leading rows to include; 0 disables the preview.
	PreviewRows int
	// TopValues is how many frequent values to list per categorical column.
	TopValues int
}

// DefaultOptions returns the dashboard defaults.
func DefaultOptions() Options {
	return Options{
		PreviewRows: 200,
		TopValues:   5,
	}
}

// Report bundles everything the summary views show for one dataset.
type Report struct {
	Profile     Profile        `json:"profile"`
	Header      []string       `json:"header"`
	Preview     [][]string     `json:"preview"`
	Describe    DescribeTable  `json:"describe"`
	Frequencies []FrequencyRow `json:"frequencies"`
}

// BuildReport profiles and summarises f.
func BuildReport(f *dataset.Frame, opt Options) *Report {
	top := opt.TopValues
	if top <= 0 {
		top = 5
	}
	return &Report{
		Profile:     ProfileFrame(f),
		Header:      f.ColumnNames(),
		Preview:     f.Head(opt.PreviewRows),
		Describe:    Describe(f),
		Frequencies: TopFrequencies(f, top),
	}
}

// Markdown renders a compact report suitable for standalone docs.
func (r *Report) Markdown() string {
	var b strings.Builder
	p := r.Profile
	b.WriteString("[DATASET SUMMARY]\n")
	if p.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", p.Name))
	}
	b.WriteString(fmt.Sprintf("Rows: %d\n", p.Rows))
	b.WriteString(fmt.Sprintf("Columns: %d\n", p.Columns))
	b.WriteString(fmt.Sprintf("Missing Values: %d\n", p.Missing))
	b.WriteString(fmt.Sprintf("Duplicate Rows: %d\n\n", p.Duplicates))

	b.WriteString("[COLUMN TYPES]\n")
	b.WriteString(fmt.Sprintf("Categorical Columns: %s\n", joinOrNone(p.Categorical)))
	b.WriteString(fmt.Sprintf("Numeric Columns: %s\n", joinOrNone(p.Numeric)))

	if !r.Describe.Empty() {
		b.WriteString("\n[NUMERIC STATISTICS]\n")
		header := append([]string{"stat"}, r.Describe.Columns...)
		writeRow(&b, header)
		writeSep(&b, len(header))
		for i, stat := range r.Describe.Stats {
			row := []string{stat}
			for _, v := range r.Describe.Values[i] {
				row = append(row, FormatStat(v))
			}
			writeRow(&b, row)
		}
	}

	if len(r.Frequencies) > 0 {
		b.WriteString("\n[CATEGORY FREQUENCIES]\n")
		writeRow(&b, []string{"Column", "Category", "Count"})
		writeSep(&b, 3)
		for _, fr := range r.Frequencies {
			writeRow(&b, []string{fr.Column, fr.Category, strconv.Itoa(fr.Count)})
		}
	}

	if len(r.Preview) > 0 {
		b.WriteString("\n[HEAD AND SAMPLE ROWS]\n")
		writeRow(&b, r.Header)
		writeSep(&b, len(r.Header))
		for _, row := range r.Preview {
			cells := make([]string, len(row))
			for i, val := range row {
				if len(val) > 80 {
					val = val[:77] + "..."
				}
				cells[i] = val
			}
			writeRow(&b, cells)
		}
	}
	return b.String()
}

// FormatStat prints a rounded statistic, NaN for undefined values.
func FormatStat(v Stat) string {
	f := float64(v)
	if math.IsNaN(f) {
		return "NaN"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func joinOrNone(names []string) string {
	if len(names) == 0 {
		return "None"
	}
	return strings.Join(names, ", ")
}

func writeRow(b *strings.Builder, cells []string) {
	b.WriteString("| ")
	for i, c := range cells {
		if i > 0 {
			b.WriteString(" | ")
		}
		b.WriteString(safeVal(safeName(c)))
	}
	b.WriteString(" |\n")
}

func writeSep(b *strings.Builder, n int) {
	b.WriteString("|")
	for i := 0; i < n; i++ {
		b.WriteString(" --- |")
	}
	b.WriteString("\n")
}

func safeName(s string) string {
	if strings.TrimSpace(s) == "" {
		return " "
	}
	return s
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
