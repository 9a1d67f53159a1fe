package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"unicode/utf8"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	// HTTP dashboard
	Addr        string `mapstructure:"addr" yaml:"addr"`
	MaxUploadMB int    `mapstructure:"max_upload_mb" yaml:"max_upload_mb"`

	// Ingestion and reporting
	CSVDelimiter string `mapstructure:"csv_delimiter" yaml:"csv_delimiter"`
	PreviewRows  int    `mapstructure:"preview_rows" yaml:"preview_rows"`
	TopValues    int    `mapstructure:"top_values" yaml:"top_values"`

	// Chart rendering
	ChartHeight  int     `mapstructure:"chart_height" yaml:"chart_height"`
	DoughnutHole float64 `mapstructure:"doughnut_hole" yaml:"doughnut_hole"`

	LogLevel string `mapstructure:"log_level" yaml:"log_level"`
}

// Keys lists the settable configuration keys in display order.
var Keys = []string{
	"addr", "max_upload_mb", "csv_delimiter", "preview_rows", "top_values",
	"chart_height", "doughnut_hole", "log_level",
}

const envPrefix = "INSIGHTS"

// Default returns the built-in configuration.
func Default() *Global {
	return &Global{
		Addr:         ":8080",
		MaxUploadMB:  200,
		CSVDelimiter: ",",
		PreviewRows:  200,
		TopValues:    5,
		ChartHeight:  500,
		DoughnutHole: 0.45,
		LogLevel:     "info",
	}
}

// DefaultPath returns ~/.insights/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".insights", "config.yaml"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.insights/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: env (INSIGHTS_*, including a local .env) > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	d := Default()
	v.SetDefault("addr", d.Addr)
	v.SetDefault("max_upload_mb", d.MaxUploadMB)
	v.SetDefault("csv_delimiter", d.CSVDelimiter)
	v.SetDefault("preview_rows", d.PreviewRows)
	v.SetDefault("top_values", d.TopValues)
	v.SetDefault("chart_height", d.ChartHeight)
	v.SetDefault("doughnut_hole", d.DoughnutHole)
	v.SetDefault("log_level", d.LogLevel)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		path, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(filepath.Dir(path))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Delimiter returns the CSV delimiter as a rune.
func (c *Global) Delimiter() rune {
	r, _ := utf8.DecodeRuneInString(c.CSVDelimiter)
	return r
}

// Validate checks value ranges.
func (c *Global) Validate() error {
	if utf8.RuneCountInString(c.CSVDelimiter) != 1 {
		return fmt.Errorf("csv_delimiter must be a single character, got %q", c.CSVDelimiter)
	}
	if c.MaxUploadMB <= 0 {
		return fmt.Errorf("max_upload_mb must be positive, got %d", c.MaxUploadMB)
	}
	if c.PreviewRows < 0 || c.TopValues < 0 {
		return errors.New("preview_rows and top_values must not be negative")
	}
	if c.ChartHeight <= 0 {
		return fmt.Errorf("chart_height must be positive, got %d", c.ChartHeight)
	}
	if c.DoughnutHole <= 0 || c.DoughnutHole >= 1 {
		return fmt.Errorf("doughnut_hole must be in (0, 1), got %g", c.DoughnutHole)
	}
	return nil
}

// Get returns the string form of key.
func (c *Global) Get(key string) (string, error) {
	switch key {
	case "addr":
		return c.Addr, nil
	case "max_upload_mb":
		return strconv.Itoa(c.MaxUploadMB), nil
	case "csv_delimiter":
		return c.CSVDelimiter, nil
	case "preview_rows":
		return strconv.Itoa(c.PreviewRows), nil
	case "top_values":
		return strconv.Itoa(c.TopValues), nil
	case "chart_height":
		return strconv.Itoa(c.ChartHeight), nil
	case "doughnut_hole":
		return strconv.FormatFloat(c.DoughnutHole, 'g', -1, 64), nil
	case "log_level":
		return c.LogLevel, nil
	default:
		return "", fmt.Errorf("unknown key: %s", key)
	}
}

// Set parses val into key and re-validates the configuration. On error c is
// left unchanged.
func (c *Global) Set(key, val string) error {
	next := *c
	switch key {
	case "addr":
		next.Addr = val
	case "csv_delimiter":
		next.CSVDelimiter = val
	case "log_level":
		next.LogLevel = val
	case "max_upload_mb", "preview_rows", "top_values", "chart_height":
		i, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("invalid int for %s: %w", key, err)
		}
		switch key {
		case "max_upload_mb":
			next.MaxUploadMB = i
		case "preview_rows":
			next.PreviewRows = i
		case "top_values":
			next.TopValues = i
		default:
			next.ChartHeight = i
		}
	case "doughnut_hole":
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return fmt.Errorf("invalid float for doughnut_hole: %w", err)
		}
		next.DoughnutHole = f
	default:
		return fmt.Errorf("unknown key: %s", key)
	}
	if err := next.Validate(); err != nil {
		return err
	}
	*c = next
	return nil
}
