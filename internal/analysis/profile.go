package analysis

import (
	"strconv"
	"strings"

	"github.com/KaramelBytes/insights-cli/internal/dataset"
)

// Profile holds dataset-level metrics and the numeric/categorical split.
type Profile struct {
	Name        string   `json:"name"`
	Rows        int      `json:"rows"`
	Columns     int      `json:"columns"`
	Missing     int      `json:"missing"`
	Duplicates  int      `json:"duplicates"`
	Numeric     []string `json:"numeric"`
	Categorical []string `json:"categorical"`
}

// ProfileFrame computes the Profile of f.
func ProfileFrame(f *dataset.Frame) Profile {
	p := Profile{
		Name:        f.Name,
		Rows:        f.Rows(),
		Columns:     f.NumCols(),
		Numeric:     f.NumericColumns(),
		Categorical: f.CategoricalColumns(),
	}
	for _, c := range f.Columns() {
		for i := 0; i < c.Len(); i++ {
			if c.IsNull(i) {
				p.Missing++
			}
		}
	}
	p.Duplicates = duplicateRows(f)
	return p
}

// duplicateRows counts rows equal to some earlier row. Numeric cells compare
// by value and nulls compare equal to each other.
func duplicateRows(f *dataset.Frame) int {
	cols := f.Columns()
	seen := make(map[string]struct{}, f.Rows())
	dups := 0
	var b strings.Builder
	for i := 0; i < f.Rows(); i++ {
		b.Reset()
		for _, c := range cols {
			switch v, ok := c.Float(i); {
			case c.IsNull(i):
				b.WriteByte(0)
			case ok:
				b.WriteByte('n')
				b.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
			default:
				b.WriteByte('s')
				b.WriteString(c.Text(i))
			}
			b.WriteByte(0x1f)
		}
		key := b.String()
		if _, ok := seen[key]; ok {
			dups++
			continue
		}
		seen[key] = struct{}{}
	}
	return dups
}
