// Package query answers a fixed set of keyword questions about a dataset.
package query

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/KaramelBytes/insights-cli/internal/analysis"
	"github.com/KaramelBytes/insights-cli/internal/dataset"
)

// Rule identifies which keyword rule produced an answer.
type Rule string

const (
	RuleHighestAveragePrice Rule = "highest_average_price"
	RuleMostCars            Rule = "most_cars"
	RuleFallback            Rule = "fallback"
)

const (
	makeColumn  = "make"
	priceColumn = "price"

	// FallbackMessage is shown for questions no rule understands.
	FallbackMessage = "This query needs AI-based understanding (can be added later)."
)

// ErrNoAnswer is returned when a rule matches but the data holds nothing to
// answer with, e.g. every make is missing.
var ErrNoAnswer = errors.New("no data to answer the question")

// Answer is the outcome of Match. Subject and Value are empty for the
// fallback rule.
type Answer struct {
	Rule    Rule           `json:"rule"`
	Subject string         `json:"subject,omitempty"`
	Value   *analysis.Stat `json:"value,omitempty"`
	Text    string         `json:"text"`
}

// Match evaluates text against the rules in order, case-insensitively.
func Match(f *dataset.Frame, text string) (Answer, error) {
	q := strings.ToLower(text)
	hasMake := f.HasColumn(makeColumn)
	switch {
	case hasMake && strings.Contains(q, "highest") && strings.Contains(q, "price"):
		return highestAveragePrice(f)
	case hasMake && strings.Contains(q, "most") && strings.Contains(q, "cars"):
		return mostCars(f)
	default:
		return Answer{Rule: RuleFallback, Text: FallbackMessage}, nil
	}
}

// highestAveragePrice picks the make with the largest mean price. Groups
// arrive in ascending make order so the first maximum wins ties; makes
// without any price rank last.
func highestAveragePrice(f *dataset.Frame) (Answer, error) {
	groups, err := analysis.GroupAggregate(f, makeColumn, priceColumn, analysis.AggMean)
	if err != nil {
		return Answer{}, fmt.Errorf("average price by make: %w", err)
	}
	if len(groups) == 0 {
		return Answer{}, ErrNoAnswer
	}
	best := 0
	for i, g := range groups {
		cur := groups[best].Value
		if !math.IsNaN(g.Value) && (math.IsNaN(cur) || g.Value > cur) {
			best = i
		}
	}
	v := analysis.Stat(groups[best].Value)
	return Answer{
		Rule:    RuleHighestAveragePrice,
		Subject: groups[best].Key,
		Value:   &v,
		Text:    fmt.Sprintf("Best brand by average price: %s", groups[best].Key),
	}, nil
}

func mostCars(f *dataset.Frame) (Answer, error) {
	col, _ := f.Column(makeColumn)
	top, ok := analysis.Mode(col)
	if !ok {
		return Answer{}, ErrNoAnswer
	}
	v := analysis.Stat(top.Count)
	return Answer{
		Rule:    RuleMostCars,
		Subject: top.Value,
		Value:   &v,
		Text:    fmt.Sprintf("Brand with most cars: %s", top.Value),
	}, nil
}
