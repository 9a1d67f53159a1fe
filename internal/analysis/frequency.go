package analysis

import (
	"sort"

	"github.com/KaramelBytes/insights-cli/internal/dataset"
)

// FrequencyRow is one of the most frequent values of a categorical column.
type FrequencyRow struct {
	Column   string `json:"column"`
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// TopFrequencies collects the n most frequent values of every categorical
// column, ordered by column name and then by descending count.
func TopFrequencies(f *dataset.Frame, n int) []FrequencyRow {
	rows := []FrequencyRow{}
	for _, name := range f.CategoricalColumns() {
		col, _ := f.Column(name)
		vc := ValueCounts(col)
		if n >= 0 && len(vc) > n {
			vc = vc[:n]
		}
		for _, kv := range vc {
			rows = append(rows, FrequencyRow{Column: name, Category: kv.Value, Count: kv.Count})
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Column != rows[j].Column {
			return rows[i].Column < rows[j].Column
		}
		return rows[i].Count > rows[j].Count
	})
	return rows
}
