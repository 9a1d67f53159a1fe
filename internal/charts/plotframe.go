package charts

import (
	"fmt"
	"math"
	"sort"

	"github.com/KaramelBytes/insights-cli/internal/analysis"
	"github.com/KaramelBytes/insights-cli/internal/dataset"
)

// OtherLabel names the entry that collects categories beyond TopN.
const OtherLabel = "Other"

// PlotFrame is the (label, value) sequence a single chart draws.
type PlotFrame struct {
	Category   string
	ValueLabel string
	Labels     []string
	Values     []float64
}

// Len returns the number of points.
func (p PlotFrame) Len() int { return len(p.Labels) }

// BuildPlotFrame derives the data for cfg from f. Aggregated Bar/Line charts
// reduce the value column per category in ascending category order; all
// other charts count category frequencies, most frequent first.
func BuildPlotFrame(f *dataset.Frame, cfg Config) (PlotFrame, error) {
	col, ok := f.Column(cfg.Category)
	if !ok {
		return PlotFrame{}, fmt.Errorf("chart category %q: %w", cfg.Category, analysis.ErrUnknownColumn)
	}
	var (
		groups []analysis.GroupValue
		agg    analysis.Aggregation
		label  string
	)
	if cfg.Aggregated() {
		var err error
		groups, err = analysis.GroupAggregate(f, cfg.Category, cfg.Value, cfg.Aggregation)
		if err != nil {
			return PlotFrame{}, err
		}
		agg = cfg.Aggregation
		label = cfg.Value
	} else {
		for _, vc := range analysis.ValueCounts(col) {
			n := vc.Count
			groups = append(groups, analysis.GroupValue{Key: vc.Value, Value: float64(n), Sum: float64(n), N: n})
		}
		agg = analysis.AggCount
		label = "count"
	}
	groups = foldTopN(groups, cfg.TopN, agg)

	pf := PlotFrame{
		Category:   cfg.Category,
		ValueLabel: label,
		Labels:     make([]string, len(groups)),
		Values:     make([]float64, len(groups)),
	}
	for i, g := range groups {
		pf.Labels[i] = g.Key
		pf.Values[i] = g.Value
	}
	return pf, nil
}

// foldTopN keeps the n largest groups in their current order and merges the
// rest into a trailing OtherLabel group reduced with agg. NaN values rank
// last. When a kept category is itself named OtherLabel the bucket becomes
// "Other (2)", "Other (3)" and so on.
func foldTopN(groups []analysis.GroupValue, n int, agg analysis.Aggregation) []analysis.GroupValue {
	if n <= 0 || len(groups) <= n {
		return groups
	}
	rank := make([]int, len(groups))
	for i := range rank {
		rank[i] = i
	}
	sort.SliceStable(rank, func(a, b int) bool {
		va, vb := groups[rank[a]].Value, groups[rank[b]].Value
		if math.IsNaN(vb) {
			return !math.IsNaN(va)
		}
		return va > vb
	})
	keep := make([]bool, len(groups))
	for _, i := range rank[:n] {
		keep[i] = true
	}
	out := make([]analysis.GroupValue, 0, n+1)
	kept := make(map[string]bool, n)
	var other analysis.GroupValue
	for i, g := range groups {
		if keep[i] {
			out = append(out, g)
			kept[g.Key] = true
			continue
		}
		other.Sum += g.Sum
		other.N += g.N
	}
	other.Key = OtherLabel
	for k := 2; kept[other.Key]; k++ {
		other.Key = fmt.Sprintf("%s (%d)", OtherLabel, k)
	}
	other.Value = agg.Reduce(other.Sum, other.N)
	return append(out, other)
}
