package analysis

import (
	"sort"

	"github.com/KaramelBytes/insights-cli/internal/dataset"
)

// CategoryCount is one distinct value and how often it occurs.
type CategoryCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// ValueCounts counts the distinct non-null values of c, most frequent first.
// Ties keep first-seen order.
func ValueCounts(c *dataset.Column) []CategoryCount {
	idx := map[string]int{}
	var out []CategoryCount
	for i := 0; i < c.Len(); i++ {
		if c.IsNull(i) {
			continue
		}
		v := c.Label(i)
		if j, ok := idx[v]; ok {
			out[j].Count++
			continue
		}
		idx[v] = len(out)
		out = append(out, CategoryCount{Value: v, Count: 1})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

// Mode returns the most frequent non-null value of c.
func Mode(c *dataset.Column) (CategoryCount, bool) {
	vc := ValueCounts(c)
	if len(vc) == 0 {
		return CategoryCount{}, false
	}
	return vc[0], true
}
