package parser

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/insights-cli/internal/dataset"
)

// Format is the closed set of upload formats.
type Format int

const (
	FormatCSV Format = iota
	FormatXLSX
	FormatXLS
)

func (f Format) String() string {
	switch f {
	case FormatCSV:
		return "csv"
	case FormatXLSX:
		return "xlsx"
	case FormatXLS:
		return "xls"
	default:
		return "unknown"
	}
}

// Options controls how uploads are read.
type Options struct {
	// Delimiter for CSV. Defaults to ','.
	Delimiter rune
	// Sheet selects a workbook sheet by name; empty means the first sheet.
	Sheet string
}

// DefaultOptions returns the reader defaults.
func DefaultOptions() Options {
	return Options{Delimiter: ','}
}

// ErrEmpty indicates the input has no header row to build columns from.
var ErrEmpty = errors.New("no columns to parse from file")

// DetectFormat picks a reader by case-sensitive file suffix. Anything that is
// not .xlsx or .xls is read as CSV; content is never sniffed.
func DetectFormat(name string) Format {
	switch {
	case strings.HasSuffix(name, ".xlsx"):
		return FormatXLSX
	case strings.HasSuffix(name, ".xls"):
		return FormatXLS
	default:
		return FormatCSV
	}
}

// Parse reads an uploaded file into a Frame. Any failure yields an
// *IngestError and no partial frame.
func Parse(name string, r io.Reader, opt Options) (*dataset.Frame, error) {
	base := filepath.Base(name)
	format := DetectFormat(base)
	var (
		header []string
		rows   [][]string
		err    error
	)
	switch format {
	case FormatCSV:
		header, rows, err = readCSV(r, opt)
	case FormatXLSX:
		header, rows, err = readXLSX(r, opt)
	case FormatXLS:
		header, rows, err = readXLS(r, opt)
	}
	if err != nil {
		return nil, &IngestError{Name: base, Format: format, Err: err}
	}
	f, err := dataset.New(base, header, rows)
	if err != nil {
		return nil, &IngestError{Name: base, Format: format, Err: err}
	}
	return f, nil
}

// ParseFile opens path and parses it with Parse.
func ParseFile(path string, opt Options) (*dataset.Frame, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer fh.Close()
	return Parse(path, fh, opt)
}
