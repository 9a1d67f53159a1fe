package charts

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/KaramelBytes/insights-cli/internal/analysis"
	"github.com/KaramelBytes/insights-cli/internal/dataset"
)

// ErrIndexOutOfRange is returned for a chart index the store does not hold.
var ErrIndexOutOfRange = errors.New("chart index out of range")

// Field names one editable attribute of a Config.
type Field string

const (
	FieldChartType      Field = "chart_type"
	FieldCategory       Field = "category"
	FieldValue          Field = "value"
	FieldUseAggregation Field = "use_aggregation"
	FieldAggregation    Field = "aggregation"
	FieldTopN           Field = "top_n"
	FieldColorScheme    Field = "color_scheme"
)

// Fields lists every editable field in form order.
var Fields = []Field{
	FieldChartType, FieldCategory, FieldValue, FieldUseAggregation,
	FieldAggregation, FieldTopN, FieldColorScheme,
}

// ParseField validates a field name.
func ParseField(s string) (Field, error) {
	for _, f := range Fields {
		if string(f) == strings.TrimSpace(s) {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown chart field %q", s)
}

// DefaultConfig is the config a new chart starts with: a Bar chart over the
// first column, frequency counted, top 15 in the Plotly palette.
func DefaultConfig(f *dataset.Frame) Config {
	cfg := Config{ChartType: ChartBar, TopN: DefaultTopN, ColorScheme: SchemePlotly}
	if names := f.ColumnNames(); len(names) > 0 {
		cfg.Category = names[0]
	}
	return cfg
}

// Store is the ordered, append-only list of chart configs for one dataset.
// It is not safe for concurrent use; session.Workspace serialises access.
type Store struct {
	configs  []Config
	validate *validator.Validate
}

func NewStore() *Store {
	return &Store{validate: newValidate()}
}

// Len returns the number of configs.
func (s *Store) Len() int { return len(s.configs) }

// List returns a copy of the configs in store order.
func (s *Store) List() []Config {
	return append([]Config(nil), s.configs...)
}

// Get returns the config at index.
func (s *Store) Get(index int) (Config, error) {
	if index < 0 || index >= len(s.configs) {
		return Config{}, fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}
	return s.configs[index], nil
}

// Reset drops every config.
func (s *Store) Reset() { s.configs = nil }

// Add appends the default config for f and returns it.
func (s *Store) Add(f *dataset.Frame) Config {
	cfg := DefaultConfig(f)
	s.configs = append(s.configs, cfg)
	return cfg
}

// Append validates cfg against f and appends it.
func (s *Store) Append(f *dataset.Frame, cfg Config) (Config, error) {
	cfg = normalize(f, cfg)
	if err := s.check(f, cfg); err != nil {
		return Config{}, err
	}
	s.configs = append(s.configs, cfg)
	return cfg, nil
}

// Update replaces the config at index after validation.
func (s *Store) Update(f *dataset.Frame, index int, cfg Config) (Config, error) {
	if _, err := s.Get(index); err != nil {
		return Config{}, err
	}
	cfg = normalize(f, cfg)
	if err := s.check(f, cfg); err != nil {
		return Config{}, err
	}
	s.configs[index] = cfg
	return cfg, nil
}

// Set changes one field of the config at index. value is parsed according
// to the field.
func (s *Store) Set(f *dataset.Frame, index int, field Field, value string) (Config, error) {
	cfg, err := s.Get(index)
	if err != nil {
		return Config{}, err
	}
	if err := ApplyField(&cfg, field, value); err != nil {
		return Config{}, &ValidationError{Errors: map[string]string{string(field): err.Error()}}
	}
	return s.Update(f, index, cfg)
}

// ApplyField parses value into the named field of cfg without validating
// the result.
func ApplyField(cfg *Config, field Field, value string) error {
	switch field {
	case FieldChartType:
		t, err := ParseChartType(value)
		if err != nil {
			return err
		}
		cfg.ChartType = t
	case FieldCategory:
		cfg.Category = value
	case FieldValue:
		cfg.Value = value
	case FieldUseAggregation:
		b, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("not a boolean: %q", value)
		}
		cfg.UseAggregation = b
	case FieldAggregation:
		a, err := analysis.ParseAggregation(value)
		if err != nil {
			return err
		}
		cfg.Aggregation = a
	case FieldTopN:
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("not an integer: %q", value)
		}
		cfg.TopN = n
	case FieldColorScheme:
		cs, err := ParseColorScheme(value)
		if err != nil {
			return err
		}
		cfg.ColorScheme = cs
	default:
		return fmt.Errorf("unknown chart field %q", field)
	}
	return nil
}

// normalize clears aggregation settings that do not apply and fills the
// defaults revealed when aggregation is switched on.
func normalize(f *dataset.Frame, cfg Config) Config {
	if !cfg.ChartType.UsesAggregation() || !cfg.UseAggregation {
		cfg.Value = ""
		cfg.Aggregation = analysis.AggNone
		return cfg
	}
	if cfg.Value == "" {
		if nums := f.NumericColumns(); len(nums) > 0 {
			cfg.Value = nums[0]
		}
	}
	if cfg.Aggregation == analysis.AggNone {
		cfg.Aggregation = analysis.AggSum
	}
	return cfg
}

func (s *Store) check(f *dataset.Frame, cfg Config) error {
	verr := &ValidationError{Errors: map[string]string{}}
	if err := s.validate.Struct(cfg); err != nil {
		var ve validator.ValidationErrors
		if !errors.As(err, &ve) {
			return err
		}
		verr = fromValidator(ve)
	}
	if cfg.Category != "" && !f.HasColumn(cfg.Category) {
		verr.Errors[string(FieldCategory)] = fmt.Sprintf("no column %q", cfg.Category)
	}
	if cfg.Value != "" {
		col, ok := f.Column(cfg.Value)
		switch {
		case !ok:
			verr.Errors[string(FieldValue)] = fmt.Sprintf("no column %q", cfg.Value)
		case col.Kind != dataset.KindNumeric:
			verr.Errors[string(FieldValue)] = fmt.Sprintf("column %q is not numeric", cfg.Value)
		}
	}
	if _, ok := schemeNames[cfg.ColorScheme]; !ok {
		verr.Errors[string(FieldColorScheme)] = ErrUnknownScheme.Error()
	}
	if cfg.ChartType < ChartBar || cfg.ChartType > ChartDoughnut {
		verr.Errors[string(FieldChartType)] = "is invalid"
	}
	if len(verr.Errors) > 0 {
		return verr
	}
	return nil
}
