package charts

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/insights-cli/internal/analysis"
	"github.com/KaramelBytes/insights-cli/internal/dataset"
)

func carsFrame(t *testing.T) *dataset.Frame {
	t.Helper()
	f, err := dataset.New("cars.csv",
		[]string{"make", "price", "year", "color"},
		[][]string{
			{"A", "10", "2019", "red"},
			{"B", "20", "2020", "blue"},
			{"A", "30", "2019", "red"},
			{"C", "", "2021", "green"},
			{"B", "40", "2020", "red"},
		})
	require.NoError(t, err)
	return f
}

func TestStoreAddDefaults(t *testing.T) {
	f := carsFrame(t)
	s := NewStore()
	cfg := s.Add(f)

	assert.Equal(t, ChartBar, cfg.ChartType)
	assert.Equal(t, "make", cfg.Category)
	assert.Empty(t, cfg.Value)
	assert.False(t, cfg.UseAggregation)
	assert.Equal(t, DefaultTopN, cfg.TopN)
	assert.Equal(t, SchemePlotly, cfg.ColorScheme)
	assert.Equal(t, 1, s.Len())
}

func TestStoreSetAggregationDefaults(t *testing.T) {
	f := carsFrame(t)
	s := NewStore()
	s.Add(f)

	cfg, err := s.Set(f, 0, FieldUseAggregation, "true")
	require.NoError(t, err)
	assert.Equal(t, "price", cfg.Value)
	assert.Equal(t, analysis.AggSum, cfg.Aggregation)

	cfg, err = s.Set(f, 0, FieldAggregation, "Mean")
	require.NoError(t, err)
	assert.Equal(t, analysis.AggMean, cfg.Aggregation)

	// Pie never aggregates.
	cfg, err = s.Set(f, 0, FieldChartType, "Pie")
	require.NoError(t, err)
	assert.Empty(t, cfg.Value)
	assert.Equal(t, analysis.AggNone, cfg.Aggregation)

	got, err := s.Get(0)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestStoreSetRejectsInvalid(t *testing.T) {
	f := carsFrame(t)
	s := NewStore()
	s.Add(f)
	before := s.List()[0]

	tests := []struct {
		name  string
		field Field
		value string
		key   string
	}{
		{"top_n below range", FieldTopN, "4", "top_n"},
		{"top_n above range", FieldTopN, "31", "top_n"},
		{"top_n not a number", FieldTopN, "many", "top_n"},
		{"unknown category", FieldCategory, "nope", "category"},
		{"unknown scheme", FieldColorScheme, "Viridis", "color_scheme"},
		{"unknown chart type", FieldChartType, "Scatter", "chart_type"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Set(f, 0, tt.field, tt.value)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Errors, tt.key)
			assert.Equal(t, before, s.List()[0], "failed Set must not change the store")
		})
	}
}

func TestStoreValueMustBeNumeric(t *testing.T) {
	f := carsFrame(t)
	s := NewStore()
	s.Add(f)
	_, err := s.Update(f, 0, Config{
		ChartType:      ChartBar,
		Category:       "make",
		Value:          "color",
		UseAggregation: true,
		Aggregation:    analysis.AggSum,
		TopN:           10,
	})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Errors["value"], "not numeric")
}

func TestStoreIndexOutOfRange(t *testing.T) {
	f := carsFrame(t)
	s := NewStore()
	_, err := s.Set(f, 0, FieldTopN, "10")
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	s.Add(f)
	_, err = s.Update(f, -1, DefaultConfig(f))
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestStoreListIsCopy(t *testing.T) {
	f := carsFrame(t)
	s := NewStore()
	s.Add(f)
	l := s.List()
	l[0].Category = "price"
	assert.Equal(t, "make", s.List()[0].Category)
}

func TestBuildPlotFrameAggregated(t *testing.T) {
	f := carsFrame(t)
	cfg := Config{ChartType: ChartBar, Category: "make", Value: "price", UseAggregation: true, Aggregation: analysis.AggSum, TopN: 15}

	pf, err := BuildPlotFrame(f, cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, pf.Labels)
	assert.Equal(t, []float64{40, 60, 0}, pf.Values)

	cfg.Aggregation = analysis.AggMean
	pf, err = BuildPlotFrame(f, cfg)
	require.NoError(t, err)
	assert.Equal(t, []float64{20, 30}, pf.Values[:2])
	assert.True(t, math.IsNaN(pf.Values[2]))

	cfg.Aggregation = analysis.AggCount
	pf, err = BuildPlotFrame(f, cfg)
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 2, 0}, pf.Values)
}

func TestBuildPlotFrameNumericCategoryOrder(t *testing.T) {
	f, err := dataset.New("t.csv", []string{"year", "price"}, [][]string{
		{"10", "1"}, {"9", "2"}, {"100", "3"},
	})
	require.NoError(t, err)
	cfg := Config{ChartType: ChartLine, Category: "year", Value: "price", UseAggregation: true, Aggregation: analysis.AggSum, TopN: 15}
	pf, err := BuildPlotFrame(f, cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"9", "10", "100"}, pf.Labels)
}

func TestBuildPlotFrameFrequency(t *testing.T) {
	f := carsFrame(t)
	// Aggregation settings are ignored for pies.
	cfg := Config{ChartType: ChartPie, Category: "make", Value: "price", UseAggregation: true, Aggregation: analysis.AggSum, TopN: 15}
	pf, err := BuildPlotFrame(f, cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, pf.Labels)
	assert.Equal(t, []float64{2, 2, 1}, pf.Values)
	assert.Equal(t, "count", pf.ValueLabel)
}

func TestBuildPlotFrameTopN(t *testing.T) {
	var rows [][]string
	for _, c := range []string{"a", "b", "a", "c", "f", "d", "f", "e", "a", "c", "f", "g", "f"} {
		rows = append(rows, []string{c})
	}
	f, err := dataset.New("t.csv", []string{"k"}, rows)
	require.NoError(t, err)

	pf, err := BuildPlotFrame(f, Config{ChartType: ChartBar, Category: "k", TopN: 5})
	require.NoError(t, err)
	assert.Equal(t, []string{"f", "a", "c", "b", "d", OtherLabel}, pf.Labels)
	assert.Equal(t, []float64{4, 3, 2, 1, 1, 2}, pf.Values)
}

func TestBuildPlotFrameTopNRealOtherCategory(t *testing.T) {
	var rows [][]string
	for _, c := range []string{"Other", "a", "b", "Other", "c", "a", "b", "c", "Other", "d", "e", "f"} {
		rows = append(rows, []string{c})
	}
	f, err := dataset.New("t.csv", []string{"k"}, rows)
	require.NoError(t, err)

	pf, err := BuildPlotFrame(f, Config{ChartType: ChartPie, Category: "k", TopN: 5})
	require.NoError(t, err)
	assert.Equal(t, []string{"Other", "a", "b", "c", "d", "Other (2)"}, pf.Labels)
	assert.Equal(t, []float64{3, 2, 2, 2, 1, 2}, pf.Values)
}

func TestFoldTopNMean(t *testing.T) {
	groups := []analysis.GroupValue{
		{Key: "a", Value: 5, Sum: 10, N: 2},
		{Key: "b", Value: 1, Sum: 1, N: 1},
		{Key: "c", Value: math.NaN(), Sum: 0, N: 0},
		{Key: "d", Value: 4, Sum: 4, N: 1},
		{Key: "e", Value: 3, Sum: 9, N: 3},
	}
	out := foldTopN(groups, 2, analysis.AggMean)
	require.Len(t, out, 3)
	assert.Equal(t, "a", out[0].Key)
	assert.Equal(t, "d", out[1].Key)
	assert.Equal(t, OtherLabel, out[2].Key)
	assert.Equal(t, 4, out[2].N)
	assert.InDelta(t, 2.5, out[2].Value, 1e-9)

	assert.Len(t, foldTopN(groups, 5, analysis.AggMean), 5)
}

func TestPalette(t *testing.T) {
	p, err := Palette(SchemePlotly)
	require.NoError(t, err)
	assert.Equal(t, "#636EFA", p[0])
	p[0] = "changed"
	again, _ := Palette(SchemePlotly)
	assert.Equal(t, "#636EFA", again[0])

	_, err = Palette(ColorScheme(99))
	assert.ErrorIs(t, err, ErrUnknownScheme)
	_, err = ParseColorScheme("viridis")
	assert.ErrorIs(t, err, ErrUnknownScheme)

	cs, err := ParseColorScheme("dark2")
	require.NoError(t, err)
	assert.Equal(t, SchemeDark2, cs)
}

func TestPieRadius(t *testing.T) {
	assert.Equal(t, "75%", pieRadius(0))
	assert.Equal(t, []string{"33.75%", "75%"}, pieRadius(0.45))
}

func TestWritePage(t *testing.T) {
	f := carsFrame(t)
	s := NewStore()
	s.Add(f)
	s.Add(f)
	_, err := s.Set(f, 1, FieldChartType, "Doughnut")
	require.NoError(t, err)
	_, err = s.Set(f, 1, FieldCategory, "color")
	require.NoError(t, err)

	var buf bytes.Buffer
	r := NewRenderer(0, 0)
	assert.Equal(t, DefaultHeight, r.Height)
	assert.Equal(t, DefaultHole, r.Hole)
	require.NoError(t, r.WritePage(&buf, f, s.List()))

	html := buf.String()
	assert.Contains(t, html, "Chart 1")
	assert.Contains(t, html, "Chart 2")
	assert.Contains(t, html, "500px")
}

func TestRenderUnknownCategory(t *testing.T) {
	f := carsFrame(t)
	_, err := NewRenderer(0, 0).Chart(f, 2, Config{ChartType: ChartBar, Category: "missing", TopN: 15})
	assert.ErrorIs(t, err, analysis.ErrUnknownColumn)
	assert.Contains(t, err.Error(), "chart 3")
}

func TestLayoutApply(t *testing.T) {
	f := carsFrame(t)
	path := filepath.Join(t.TempDir(), "charts.yaml")
	yml := `charts:
  - chart_type: pie
    category: color
    color_scheme: Set2
  - chart_type: Bar
    category: make
    use_aggregation: true
    aggregation: mean
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o644))

	l, err := LoadLayout(path)
	require.NoError(t, err)
	s := NewStore()
	require.NoError(t, l.Apply(f, s))

	got := s.List()
	require.Len(t, got, 2)
	assert.Equal(t, ChartPie, got[0].ChartType)
	assert.Equal(t, SchemeSet2, got[0].ColorScheme)
	assert.Equal(t, DefaultTopN, got[0].TopN)
	assert.Equal(t, "price", got[1].Value)
	assert.Equal(t, analysis.AggMean, got[1].Aggregation)

	out := filepath.Join(t.TempDir(), "saved.yaml")
	require.NoError(t, (&Layout{Charts: got}).Save(out))
	b, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(b), "chart_type: Pie")
	assert.Contains(t, string(b), "aggregation: Mean")
}

func TestLayoutApplyReportsPosition(t *testing.T) {
	f := carsFrame(t)
	l := &Layout{Charts: []Config{
		DefaultConfig(f),
		{ChartType: ChartBar, Category: "make", TopN: 2},
	}}
	err := l.Apply(f, NewStore())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "layout chart 2")
}
