package analysis

import (
	"math"
	"sort"
	"strconv"

	"github.com/KaramelBytes/insights-cli/internal/dataset"
	"github.com/shopspring/decimal"
)

// DescribeStats lists the rows of a DescribeTable in order.
var DescribeStats = []string{"count", "mean", "std", "min", "25%", "50%", "75%", "max"}

// Stat is a statistic value that encodes NaN as JSON null.
type Stat float64

func (s Stat) MarshalJSON() ([]byte, error) {
	f := float64(s)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(f, 'f', -1, 64)), nil
}

// NumericSummary is the descriptive statistics of one numeric column.
type NumericSummary struct {
	Column string
	Count  int
	Mean   float64
	Std    float64
	Min    float64
	Q1     float64
	Median float64
	Q3     float64
	Max    float64
}

func (s NumericSummary) values() []float64 {
	return []float64{float64(s.Count), s.Mean, s.Std, s.Min, s.Q1, s.Median, s.Q3, s.Max}
}

// DescribeTable has one row per statistic and one column per numeric field.
type DescribeTable struct {
	Columns []string `json:"columns"`
	Stats   []string `json:"stats"`
	Values  [][]Stat `json:"values"` // Values[stat][column]
}

// Empty reports whether the table has no numeric columns.
func (d DescribeTable) Empty() bool { return len(d.Columns) == 0 }

// DescribeColumn computes count, mean, sample std, min, quartiles and max
// over the non-null values of c. Undefined statistics are NaN.
func DescribeColumn(c *dataset.Column) NumericSummary {
	s := NumericSummary{Column: c.Name}
	var vals []float64
	var mean, m2 float64
	for i := 0; i < c.Len(); i++ {
		x, ok := c.Float(i)
		if !ok {
			continue
		}
		vals = append(vals, x)
		// Welford update
		delta := x - mean
		mean += delta / float64(len(vals))
		m2 += delta * (x - mean)
	}
	s.Count = len(vals)
	nan := math.NaN()
	if s.Count == 0 {
		s.Mean, s.Std, s.Min, s.Q1, s.Median, s.Q3, s.Max = nan, nan, nan, nan, nan, nan, nan
		return s
	}
	s.Mean = mean
	s.Std = nan
	if s.Count > 1 {
		s.Std = math.Sqrt(m2 / float64(s.Count-1))
	}
	sort.Float64s(vals)
	s.Min = vals[0]
	s.Max = vals[len(vals)-1]
	s.Q1 = quantile(vals, 0.25)
	s.Median = quantile(vals, 0.5)
	s.Q3 = quantile(vals, 0.75)
	return s
}

// Describe builds the rounded statistics table for every numeric column.
func Describe(f *dataset.Frame) DescribeTable {
	t := DescribeTable{Columns: f.NumericColumns(), Stats: DescribeStats}
	t.Values = make([][]Stat, len(DescribeStats))
	for r := range t.Values {
		t.Values[r] = make([]Stat, len(t.Columns))
	}
	for j, name := range t.Columns {
		col, _ := f.Column(name)
		for r, v := range DescribeColumn(col).values() {
			t.Values[r][j] = Stat(round2(v))
		}
	}
	return t
}

// round2 scales by 100 in float64, rounds half to even and scales back, so
// ties are decided on the scaled binary value (1.015 -> 1.01, 0.125 -> 0.12).
func round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	r, _ := decimal.NewFromFloat(v * 100).RoundBank(0).Div(decimal.NewFromInt(100)).Float64()
	return r
}

// quantile interpolates linearly between closest ranks of sorted.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}
