package parser

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"
)

func readXLSX(r io.Reader, opt Options) ([]string, [][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheet := opt.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, nil, ErrEmpty
		}
		sheet = sheets[0]
	}
	formatted, err := f.GetRows(sheet)
	if err != nil {
		return nil, nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	raw, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(formatted) == 0 {
		return nil, nil, ErrEmpty
	}

	// Number formats are dropped so "1,234" stays numeric; date and boolean
	// cells keep their display text.
	grid := make([][]string, len(formatted))
	for i, row := range formatted {
		out := make([]string, len(row))
		for j, disp := range row {
			out[j] = disp
			if i < len(raw) && j < len(raw[i]) && !keepDisplay(disp) {
				out[j] = raw[i][j]
			}
		}
		grid[i] = out
	}
	return splitHeader(grid)
}

func keepDisplay(s string) bool {
	switch s {
	case "TRUE", "FALSE":
		return true
	}
	_, ok := parseTimeMaybe(s)
	return ok
}

// splitHeader takes the first grid row as header and widens it to the
// widest row so no data cell is dropped.
func splitHeader(grid [][]string) ([]string, [][]string, error) {
	if len(grid) == 0 {
		return nil, nil, ErrEmpty
	}
	width := 0
	for _, row := range grid {
		if len(row) > width {
			width = len(row)
		}
	}
	if width == 0 {
		return nil, nil, ErrEmpty
	}
	header := make([]string, width)
	copy(header, grid[0])
	return header, grid[1:], nil
}

func parseTimeMaybe(s string) (time.Time, bool) {
	layouts := []string{
		time.RFC3339, "2006-01-02", "2006/01/02", "02/01/2006", "01/02/2006",
		"2006-01-02 15:04", "2006-01-02 15:04:05", "1/2/2006 15:04", "1/2/2006 15:04:05",
		"01-02-06", "1/2/06 15:04", "1/2/06",
	}
	for _, l := range layouts {
		if t, err := time.Parse(l, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
