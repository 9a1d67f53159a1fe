// Package output renders CLI tables and coloured status lines.
package output

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

var (
	heading = color.New(color.FgCyan, color.Bold)
	success = color.New(color.FgGreen)
	warning = color.New(color.FgYellow)
	failure = color.New(color.FgRed)
)

// Table buffers rows and renders them left aligned without borders.
type Table struct {
	w      io.Writer
	header []string
	rows   [][]string
}

func NewTable(w io.Writer, header ...string) *Table {
	return &Table{w: w, header: header}
}

// AddRow adds a row to the table
func (t *Table) AddRow(row ...string) {
	t.rows = append(t.rows, row)
}

// AddRows adds multiple rows to the table
func (t *Table) AddRows(rows [][]string) {
	t.rows = append(t.rows, rows...)
}

// Render outputs the table
func (t *Table) Render() error {
	table := tablewriter.NewTable(t.w,
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoWrap: tw.WrapNone},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
			Header: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoFormat: tw.Off},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
		}),
		tablewriter.WithRendition(tw.Rendition{Borders: tw.BorderNone}),
	)
	table.Header(t.header)
	if err := table.Bulk(t.rows); err != nil {
		return fmt.Errorf("table rows: %w", err)
	}
	return table.Render()
}

// Heading prints a bold section title.
func Heading(w io.Writer, title string) {
	heading.Fprintf(w, "\n%s\n", title)
}

// Success prints a "✓" status line.
func Success(w io.Writer, format string, a ...any) {
	success.Fprintf(w, "✓ "+format+"\n", a...)
}

// Warn prints a "⚠" status line.
func Warn(w io.Writer, format string, a ...any) {
	warning.Fprintf(w, "⚠ "+format+"\n", a...)
}

// Fail prints a "✗" status line.
func Fail(w io.Writer, format string, a ...any) {
	failure.Fprintf(w, "✗ "+format+"\n", a...)
}
