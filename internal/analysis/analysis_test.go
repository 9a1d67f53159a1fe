package analysis

import (
	"encoding/json"
	"errors"
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/KaramelBytes/insights-cli/internal/dataset"
)

func mustFrame(t *testing.T, header []string, rows [][]string) *dataset.Frame {
	t.Helper()
	f, err := dataset.New("test.csv", header, rows)
	if err != nil {
		t.Fatalf("dataset.New: %v", err)
	}
	return f
}

func TestProfileFrame_DuplicatesAndMissing(t *testing.T) {
	rows := [][]string{
		{"A", "1", "x"},
		{"B", "2", "y"},
		{"C", "3", "z"},
		{"D", "4", "w"},
		{"B", "2.0", "y"}, // same as row 2 once typed
		{"E", "6", "v"},
		{"", "7", "u"},
		{"F", "", "t"},
		{"G", "9", "NA"},
		{"H", "10", "s"},
	}
	f := mustFrame(t, []string{"make", "price", "code"}, rows)
	p := ProfileFrame(f)
	if p.Rows != 10 || p.Columns != 3 {
		t.Fatalf("shape = %dx%d", p.Rows, p.Columns)
	}
	if p.Duplicates != 1 {
		t.Fatalf("duplicates = %d, want 1", p.Duplicates)
	}
	if p.Missing != 3 {
		t.Fatalf("missing = %d, want 3", p.Missing)
	}
	if !reflect.DeepEqual(p.Numeric, []string{"price"}) || !reflect.DeepEqual(p.Categorical, []string{"make", "code"}) {
		t.Fatalf("split = %q / %q", p.Numeric, p.Categorical)
	}
}

func TestProfileFrame_NullRowsAreDuplicates(t *testing.T) {
	f := mustFrame(t, []string{"a", "b"}, [][]string{{"", ""}, {"NaN", "null"}})
	if got := ProfileFrame(f).Duplicates; got != 1 {
		t.Fatalf("duplicates = %d, want 1", got)
	}
}

func TestGroupAggregate(t *testing.T) {
	f := mustFrame(t, []string{"make", "price"}, [][]string{{"A", "10"}, {"A", "20"}, {"B", "30"}})
	tests := []struct {
		agg  Aggregation
		want map[string]float64
	}{
		{AggSum, map[string]float64{"A": 30, "B": 30}},
		{AggMean, map[string]float64{"A": 15, "B": 30}},
		{AggCount, map[string]float64{"A": 2, "B": 1}},
	}
	for _, tt := range tests {
		groups, err := GroupAggregate(f, "make", "price", tt.agg)
		if err != nil {
			t.Fatalf("%s: %v", tt.agg, err)
		}
		if len(groups) != 2 || groups[0].Key != "A" || groups[1].Key != "B" {
			t.Fatalf("%s: groups = %+v", tt.agg, groups)
		}
		for _, g := range groups {
			if g.Value != tt.want[g.Key] {
				t.Fatalf("%s[%s] = %v, want %v", tt.agg, g.Key, g.Value, tt.want[g.Key])
			}
		}
	}
}

func TestGroupAggregate_OrderingAndNulls(t *testing.T) {
	f := mustFrame(t, []string{"year", "price"}, [][]string{
		{"2020", "1"}, {"9", "2"}, {"", "5"}, {"100", ""}, {"9", "4"},
	})
	groups, err := GroupAggregate(f, "year", "price", AggMean)
	if err != nil {
		t.Fatalf("GroupAggregate: %v", err)
	}
	var keys []string
	for _, g := range groups {
		keys = append(keys, g.Key)
	}
	if !reflect.DeepEqual(keys, []string{"9", "100", "2020"}) {
		t.Fatalf("keys = %q, want numeric order", keys)
	}
	if groups[0].Value != 3 {
		t.Fatalf("mean(9) = %v", groups[0].Value)
	}
	if !math.IsNaN(groups[1].Value) || groups[1].N != 0 {
		t.Fatalf("mean of all-null group should be NaN, got %+v", groups[1])
	}
}

func TestGroupAggregate_Errors(t *testing.T) {
	f := mustFrame(t, []string{"make", "model"}, [][]string{{"A", "x"}})
	if _, err := GroupAggregate(f, "nope", "model", AggCount); !errors.Is(err, ErrUnknownColumn) {
		t.Fatalf("err = %v, want ErrUnknownColumn", err)
	}
	if _, err := GroupAggregate(f, "make", "model", AggSum); !errors.Is(err, ErrNotNumeric) {
		t.Fatalf("err = %v, want ErrNotNumeric", err)
	}
	if _, err := GroupAggregate(f, "make", "model", AggCount); err != nil {
		t.Fatalf("count over text should work: %v", err)
	}
}

func TestParseAggregation(t *testing.T) {
	for in, want := range map[string]Aggregation{"Sum": AggSum, "mean": AggMean, "COUNT": AggCount, "": AggNone} {
		got, err := ParseAggregation(in)
		if err != nil || got != want {
			t.Fatalf("ParseAggregation(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseAggregation("median"); err == nil {
		t.Fatalf("expected error for median")
	}
}

func TestValueCounts_TiesKeepFirstSeen(t *testing.T) {
	f := mustFrame(t, []string{"c"}, [][]string{{"b"}, {"a"}, {"c"}, {"a"}, {"b"}, {""}})
	col, _ := f.Column("c")
	got := ValueCounts(col)
	want := []CategoryCount{{"b", 2}, {"a", 2}, {"c", 1}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ValueCounts = %+v, want %+v", got, want)
	}
	total := 0
	for _, kv := range got {
		total += kv.Count
	}
	if total != 5 {
		t.Fatalf("total = %d, want non-null count 5", total)
	}
}

func TestDescribe(t *testing.T) {
	f := mustFrame(t, []string{"name", "v", "one"}, [][]string{
		{"a", "1", "7"}, {"b", "2", ""}, {"c", "3", ""}, {"d", "4", ""}, {"e", "10", ""},
	})
	d := Describe(f)
	if !reflect.DeepEqual(d.Columns, []string{"v", "one"}) {
		t.Fatalf("columns = %q", d.Columns)
	}
	want := []float64{5, 4, 3.54, 1, 2, 3, 4, 10}
	for i, w := range want {
		if got := float64(d.Values[i][0]); got != w {
			t.Fatalf("%s = %v, want %v", d.Stats[i], got, w)
		}
	}
	if float64(d.Values[0][1]) != 1 || !math.IsNaN(float64(d.Values[2][1])) {
		t.Fatalf("single value column: count=%v std=%v", d.Values[0][1], d.Values[2][1])
	}

	b, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(b), "null") {
		t.Fatalf("NaN should marshal as null: %s", b)
	}
}

func TestRound2(t *testing.T) {
	tests := map[float64]float64{
		1.234: 1.23,
		1.235: 1.24,
		1.245: 1.25,
		1.015: 1.01,
		2.675: 2.68,
		0.125: 0.12,
		0.375: 0.38,
		-2.5:  -2.5,
		3:     3,
	}
	for in, want := range tests {
		if got := round2(in); got != want {
			t.Errorf("round2(%v) = %v, want %v", in, got, want)
		}
	}
}

func TestTopFrequencies_Ordering(t *testing.T) {
	var rows [][]string
	// Y: q x4, r x2 ; X: m x5, n x3
	ys := []string{"q", "q", "q", "q", "r", "r", "", "", ""}
	xs := []string{"n", "m", "m", "n", "m", "n", "m", "m", ""}
	for i := range ys {
		rows = append(rows, []string{ys[i], xs[i]})
	}
	f := mustFrame(t, []string{"Y", "X"}, rows)
	got := TopFrequencies(f, 5)
	want := []FrequencyRow{
		{"X", "m", 5}, {"X", "n", 3},
		{"Y", "q", 4}, {"Y", "r", 2},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("TopFrequencies = %+v, want %+v", got, want)
	}
}

func TestTopFrequencies_LimitsPerColumn(t *testing.T) {
	var rows [][]string
	for _, v := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		rows = append(rows, []string{v})
	}
	f := mustFrame(t, []string{"c"}, rows)
	if got := TopFrequencies(f, 5); len(got) != 5 || got[0].Category != "a" {
		t.Fatalf("TopFrequencies = %+v", got)
	}
	if got := TopFrequencies(mustFrame(t, []string{"n"}, [][]string{{"1"}}), 5); len(got) != 0 {
		t.Fatalf("numeric-only frame should give empty table, got %+v", got)
	}
}

func TestBuildReportMarkdown(t *testing.T) {
	f := mustFrame(t, []string{"make", "price"}, [][]string{{"A", "10"}, {"A", "20"}, {"B", "30"}})
	opt := DefaultOptions()
	opt.PreviewRows = 2
	rep := BuildReport(f, opt)
	if len(rep.Preview) != 2 {
		t.Fatalf("preview rows = %d", len(rep.Preview))
	}
	md := rep.Markdown()
	for _, want := range []string{
		"[DATASET SUMMARY]", "File: test.csv", "Rows: 3", "Duplicate Rows: 0",
		"Categorical Columns: make", "Numeric Columns: price",
		"[NUMERIC STATISTICS]", "| mean | 20 |",
		"[CATEGORY FREQUENCIES]", "| make | A | 2 |",
		"[HEAD AND SAMPLE ROWS]",
	} {
		if !strings.Contains(md, want) {
			t.Fatalf("markdown missing %q:\n%s", want, md)
		}
	}
}
