package analysis

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/KaramelBytes/insights-cli/internal/dataset"
)

// Aggregation is the reduction applied per distinct category value.
type Aggregation int

const (
	AggNone Aggregation = iota
	AggSum
	AggMean
	AggCount
)

var aggNames = map[Aggregation]string{
	AggNone:  "",
	AggSum:   "Sum",
	AggMean:  "Mean",
	AggCount: "Count",
}

func (a Aggregation) String() string { return aggNames[a] }

// ParseAggregation maps "Sum", "Mean" or "Count" (any case) to an
// Aggregation. The empty string is AggNone.
func ParseAggregation(s string) (Aggregation, error) {
	for a, n := range aggNames {
		if strings.EqualFold(strings.TrimSpace(s), n) {
			return a, nil
		}
	}
	return AggNone, fmt.Errorf("unknown aggregation %q (use Sum, Mean or Count)", s)
}

func (a Aggregation) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

func (a *Aggregation) UnmarshalText(b []byte) error {
	v, err := ParseAggregation(string(b))
	if err != nil {
		return err
	}
	*a = v
	return nil
}

var (
	ErrUnknownColumn = errors.New("unknown column")
	ErrNotNumeric    = errors.New("column is not numeric")
)

// GroupValue is one group of a grouped reduction. Sum and N are kept so
// groups can be merged after the fact.
type GroupValue struct {
	Key   string
	Value float64
	Sum   float64
	N     int
}

// Reduce computes the aggregation over a group's running sum and non-null
// count.
func (a Aggregation) Reduce(sum float64, n int) float64 {
	switch a {
	case AggMean:
		if n == 0 {
			return math.NaN()
		}
		return sum / float64(n)
	case AggCount:
		return float64(n)
	default:
		return sum
	}
}

// GroupAggregate groups rows of f by the non-null values of column by and
// reduces column value with agg. Groups come back in ascending key order,
// numeric keys compared as numbers.
func GroupAggregate(f *dataset.Frame, by, value string, agg Aggregation) ([]GroupValue, error) {
	keyCol, ok := f.Column(by)
	if !ok {
		return nil, fmt.Errorf("group by %q: %w", by, ErrUnknownColumn)
	}
	valCol, ok := f.Column(value)
	if !ok {
		return nil, fmt.Errorf("aggregate %q: %w", value, ErrUnknownColumn)
	}
	if agg != AggCount && valCol.Kind != dataset.KindNumeric {
		return nil, fmt.Errorf("%s of %q: %w", agg, value, ErrNotNumeric)
	}

	type acc struct {
		key string
		num float64
		sum float64
		n   int
	}
	idx := map[string]int{}
	var groups []*acc
	for i := 0; i < f.Rows(); i++ {
		if keyCol.IsNull(i) {
			continue
		}
		k := keyCol.Label(i)
		j, ok := idx[k]
		if !ok {
			j = len(groups)
			idx[k] = j
			g := &acc{key: k}
			g.num, _ = keyCol.Float(i)
			groups = append(groups, g)
		}
		if valCol.IsNull(i) {
			continue
		}
		g := groups[j]
		g.n++
		if x, ok := valCol.Float(i); ok {
			g.sum += x
		}
	}
	numericKeys := keyCol.Kind == dataset.KindNumeric
	sort.SliceStable(groups, func(i, j int) bool {
		if numericKeys {
			return groups[i].num < groups[j].num
		}
		return groups[i].key < groups[j].key
	})
	out := make([]GroupValue, len(groups))
	for i, g := range groups {
		out[i] = GroupValue{Key: g.key, Value: agg.Reduce(g.sum, g.n), Sum: g.sum, N: g.n}
	}
	return out, nil
}
