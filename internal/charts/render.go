package charts

import (
	"fmt"
	"io"
	"math"

	gecharts "github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/KaramelBytes/insights-cli/internal/dataset"
)

const (
	DefaultHeight = 500
	DefaultHole   = 0.45
	outerRadius   = 75.0
)

// Renderer turns chart configs into echarts components.
type Renderer struct {
	Height int     // px
	Hole   float64 // doughnut inner radius as a fraction of the outer one
}

// NewRenderer returns a Renderer, substituting defaults for non-positive
// values.
func NewRenderer(height int, hole float64) *Renderer {
	if height <= 0 {
		height = DefaultHeight
	}
	if hole <= 0 || hole >= 1 {
		hole = DefaultHole
	}
	return &Renderer{Height: height, Hole: hole}
}

// Chart renders the config at position index (0-based) of the store.
func (r *Renderer) Chart(f *dataset.Frame, index int, cfg Config) (components.Charter, error) {
	pf, err := BuildPlotFrame(f, cfg)
	if err != nil {
		return nil, fmt.Errorf("chart %d: %w", index+1, err)
	}
	palette, err := Palette(cfg.ColorScheme)
	if err != nil {
		return nil, fmt.Errorf("chart %d: %w", index+1, err)
	}
	title := opts.Title{Title: fmt.Sprintf("Chart %d", index+1), Subtitle: subtitle(cfg)}
	switch cfg.ChartType {
	case ChartBar:
		return r.bar(pf, title, palette), nil
	case ChartLine:
		return r.line(pf, title, palette), nil
	case ChartPie:
		return r.pie(pf, title, palette, 0), nil
	case ChartDoughnut:
		return r.pie(pf, title, palette, r.Hole), nil
	default:
		return nil, fmt.Errorf("chart %d: unsupported chart type %v", index+1, cfg.ChartType)
	}
}

// Charts renders every config in order.
func (r *Renderer) Charts(f *dataset.Frame, configs []Config) ([]components.Charter, error) {
	out := make([]components.Charter, 0, len(configs))
	for i, cfg := range configs {
		c, err := r.Chart(f, i, cfg)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// WritePage renders all configs into one HTML page on w.
func (r *Renderer) WritePage(w io.Writer, f *dataset.Frame, configs []Config) error {
	cs, err := r.Charts(f, configs)
	if err != nil {
		return err
	}
	page := components.NewPage()
	page.PageTitle = fmt.Sprintf("Charts - %s", f.Name)
	page.AddCharts(cs...)
	return page.Render(w)
}

func subtitle(cfg Config) string {
	if cfg.Aggregated() {
		return fmt.Sprintf("%s of %s by %s", cfg.Aggregation, cfg.Value, cfg.Category)
	}
	return fmt.Sprintf("%s (count)", cfg.Category)
}

func (r *Renderer) initOpts() opts.Initialization {
	return opts.Initialization{Width: "100%", Height: fmt.Sprintf("%dpx", r.Height)}
}

func (r *Renderer) bar(pf PlotFrame, title opts.Title, palette []string) *gecharts.Bar {
	bar := gecharts.NewBar()
	bar.SetGlobalOptions(
		gecharts.WithInitializationOpts(r.initOpts()),
		gecharts.WithTitleOpts(title),
		gecharts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		gecharts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
		gecharts.WithXAxisOpts(opts.XAxis{Name: pf.Category, Type: "category"}),
		gecharts.WithYAxisOpts(opts.YAxis{Name: pf.ValueLabel, Type: "value"}),
	)
	data := make([]opts.BarData, pf.Len())
	for i := range pf.Labels {
		data[i] = opts.BarData{
			Name:      pf.Labels[i],
			Value:     pointValue(pf.Values[i]),
			ItemStyle: &opts.ItemStyle{Color: palette[i%len(palette)]},
		}
	}
	bar.SetXAxis(pf.Labels).AddSeries(pf.ValueLabel, data)
	return bar
}

func (r *Renderer) line(pf PlotFrame, title opts.Title, palette []string) *gecharts.Line {
	line := gecharts.NewLine()
	line.SetGlobalOptions(
		gecharts.WithInitializationOpts(r.initOpts()),
		gecharts.WithTitleOpts(title),
		gecharts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		gecharts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
		gecharts.WithXAxisOpts(opts.XAxis{Name: pf.Category, Type: "category"}),
		gecharts.WithYAxisOpts(opts.YAxis{Name: pf.ValueLabel, Type: "value"}),
	)
	data := make([]opts.LineData, pf.Len())
	for i := range pf.Labels {
		data[i] = opts.LineData{Name: pf.Labels[i], Value: pointValue(pf.Values[i])}
	}
	line.SetXAxis(pf.Labels).AddSeries(pf.ValueLabel, data,
		gecharts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(true)}),
		gecharts.WithItemStyleOpts(opts.ItemStyle{Color: palette[0]}),
	)
	return line
}

func (r *Renderer) pie(pf PlotFrame, title opts.Title, palette []string, hole float64) *gecharts.Pie {
	pie := gecharts.NewPie()
	pie.SetGlobalOptions(
		gecharts.WithInitializationOpts(r.initOpts()),
		gecharts.WithTitleOpts(title),
		gecharts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "item"}),
		gecharts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Orient: "vertical", Right: "0"}),
	)
	data := make([]opts.PieData, pf.Len())
	for i := range pf.Labels {
		data[i] = opts.PieData{
			Name:      pf.Labels[i],
			Value:     pointValue(pf.Values[i]),
			ItemStyle: &opts.ItemStyle{Color: palette[i%len(palette)]},
		}
	}
	pie.AddSeries(pf.ValueLabel, data,
		gecharts.WithPieChartOpts(opts.PieChart{Radius: pieRadius(hole)}),
		gecharts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Formatter: "{b}: {d}%"}),
	)
	return pie
}

// pieRadius is a plain radius for a pie and an [inner, outer] pair for a
// doughnut.
func pieRadius(hole float64) interface{} {
	outer := fmt.Sprintf("%g%%", outerRadius)
	if hole <= 0 {
		return outer
	}
	return []string{fmt.Sprintf("%.4g%%", hole*outerRadius), outer}
}

// pointValue maps NaN and Inf to a gap; echarts cannot encode them.
func pointValue(v float64) interface{} {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return v
}
