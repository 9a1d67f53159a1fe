// Package charts holds chart configurations, the per-session configuration
// store and the renderer that turns them into echarts pages.
package charts

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/insights-cli/internal/analysis"
)

// ChartType is the closed set of supported chart kinds.
type ChartType int

const (
	ChartBar ChartType = iota
	ChartLine
	ChartPie
	ChartDoughnut
)

// ChartTypes lists every chart type in selector order.
var ChartTypes = []ChartType{ChartBar, ChartLine, ChartPie, ChartDoughnut}

func (t ChartType) String() string {
	switch t {
	case ChartBar:
		return "Bar"
	case ChartLine:
		return "Line"
	case ChartPie:
		return "Pie"
	case ChartDoughnut:
		return "Doughnut"
	default:
		return fmt.Sprintf("ChartType(%d)", int(t))
	}
}

// UsesAggregation reports whether aggregation settings apply to t.
func (t ChartType) UsesAggregation() bool {
	return t == ChartBar || t == ChartLine
}

// ParseChartType maps a chart type name (any case) to a ChartType.
func ParseChartType(s string) (ChartType, error) {
	for _, t := range ChartTypes {
		if strings.EqualFold(strings.TrimSpace(s), t.String()) {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown chart type %q (use Bar, Line, Pie or Doughnut)", s)
}

func (t ChartType) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

func (t *ChartType) UnmarshalText(b []byte) error {
	v, err := ParseChartType(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

const (
	DefaultTopN = 15
	MinTopN     = 5
	MaxTopN     = 30
)

// Config is one user-editable chart definition.
type Config struct {
	ChartType      ChartType            `json:"chart_type" yaml:"chart_type"`
	Category       string               `json:"category" yaml:"category" validate:"required"`
	Value          string               `json:"value,omitempty" yaml:"value,omitempty"`
	UseAggregation bool                 `json:"use_aggregation" yaml:"use_aggregation"`
	Aggregation    analysis.Aggregation `json:"aggregation,omitempty" yaml:"aggregation,omitempty"`
	TopN           int                  `json:"top_n" yaml:"top_n" validate:"min=5,max=30"`
	ColorScheme    ColorScheme          `json:"color_scheme" yaml:"color_scheme"`
}

// Aggregated reports whether the config reduces a value column per category
// instead of counting category frequencies.
func (c Config) Aggregated() bool {
	return c.ChartType.UsesAggregation() && c.UseAggregation && c.Value != "" && c.Aggregation != analysis.AggNone
}
