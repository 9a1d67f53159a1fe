// Package dataset holds the in-memory tabular structure produced by ingestion.
package dataset

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Kind is the inferred storage type of a column.
type Kind int

const (
	KindNumeric Kind = iota
	KindCategorical
)

func (k Kind) String() string {
	switch k {
	case KindNumeric:
		return "numeric"
	case KindCategorical:
		return "categorical"
	default:
		return "unknown"
	}
}

// ErrTooManyFields is returned when a data row is wider than the header.
var ErrTooManyFields = errors.New("row has more fields than header")

// Column is one named, typed sequence of cells. Numeric columns keep both the
// parsed value and the source text.
type Column struct {
	Name string
	Kind Kind
	text []string
	nums []float64
	null []bool
}

// Len returns the number of cells in the column.
func (c *Column) Len() int { return len(c.text) }

// IsNull reports whether cell i is missing.
func (c *Column) IsNull(i int) bool { return c.null[i] }

// Text returns the raw cell text ("" for nulls).
func (c *Column) Text(i int) string {
	if c.null[i] {
		return ""
	}
	return c.text[i]
}

// Float returns the numeric value of cell i. ok is false for nulls and for
// categorical columns.
func (c *Column) Float(i int) (v float64, ok bool) {
	if c.Kind != KindNumeric || c.null[i] {
		return 0, false
	}
	return c.nums[i], true
}

// Label renders cell i as a category label. Numeric cells are printed in
// their shortest form so 2019 and 2019.0 share a label.
func (c *Column) Label(i int) string {
	if c.null[i] {
		return ""
	}
	if c.Kind == KindNumeric {
		return strconv.FormatFloat(c.nums[i], 'f', -1, 64)
	}
	return c.text[i]
}

// Frame is an immutable, ordered collection of uniquely named columns.
type Frame struct {
	ID   string
	Name string

	cols  []*Column
	index map[string]int
	rows  int
}

// New builds a Frame from a header and string rows. Header names are made
// unique, short rows are padded with nulls and column kinds are inferred.
func New(name string, header []string, rows [][]string) (*Frame, error) {
	names := UniqueNames(header)
	ncol := len(names)
	cols := make([]*Column, ncol)
	for j, n := range names {
		cols[j] = &Column{
			Name: n,
			text: make([]string, len(rows)),
			null: make([]bool, len(rows)),
		}
	}
	for i, rec := range rows {
		if len(rec) > ncol {
			return nil, fmt.Errorf("row %d: %w (%d > %d)", i+1, ErrTooManyFields, len(rec), ncol)
		}
		for j := 0; j < ncol; j++ {
			var v string
			if j < len(rec) {
				v = rec[j]
			}
			cols[j].text[i] = v
			cols[j].null[i] = j >= len(rec) || IsNA(v)
		}
	}
	f := &Frame{
		ID:    uuid.NewString(),
		Name:  name,
		cols:  cols,
		index: make(map[string]int, ncol),
		rows:  len(rows),
	}
	for j, c := range cols {
		inferKind(c)
		f.index[c.Name] = j
	}
	return f, nil
}

// inferKind marks a column numeric when every non-null cell parses as a
// number. A column with no values at all is numeric, like an all-NaN float
// column.
func inferKind(c *Column) {
	nums := make([]float64, len(c.text))
	for i, v := range c.text {
		if c.null[i] {
			continue
		}
		x, ok := parseNumber(v)
		if !ok {
			c.Kind = KindCategorical
			return
		}
		nums[i] = x
	}
	c.Kind = KindNumeric
	c.nums = nums
}

func parseNumber(s string) (float64, bool) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Rows returns the number of data rows.
func (f *Frame) Rows() int { return f.rows }

// NumCols returns the number of columns.
func (f *Frame) NumCols() int { return len(f.cols) }

// Columns returns the columns in order.
func (f *Frame) Columns() []*Column { return f.cols }

// Column looks a column up by exact name.
func (f *Frame) Column(name string) (*Column, bool) {
	j, ok := f.index[name]
	if !ok {
		return nil, false
	}
	return f.cols[j], true
}

// HasColumn reports whether name is a column of f.
func (f *Frame) HasColumn(name string) bool {
	_, ok := f.index[name]
	return ok
}

// ColumnNames returns all column names in order.
func (f *Frame) ColumnNames() []string {
	out := make([]string, len(f.cols))
	for j, c := range f.cols {
		out[j] = c.Name
	}
	return out
}

// NumericColumns returns the names of numeric columns in order.
func (f *Frame) NumericColumns() []string { return f.namesOfKind(KindNumeric) }

// CategoricalColumns returns the names of non-numeric columns in order.
func (f *Frame) CategoricalColumns() []string { return f.namesOfKind(KindCategorical) }

func (f *Frame) namesOfKind(k Kind) []string {
	out := []string{}
	for _, c := range f.cols {
		if c.Kind == k {
			out = append(out, c.Name)
		}
	}
	return out
}

// Head returns up to n rows of raw cell text.
func (f *Frame) Head(n int) [][]string {
	if n < 0 || n > f.rows {
		n = f.rows
	}
	out := make([][]string, n)
	for i := 0; i < n; i++ {
		row := make([]string, len(f.cols))
		for j, c := range f.cols {
			row[j] = c.Text(i)
		}
		out[i] = row
	}
	return out
}
