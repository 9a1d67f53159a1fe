package parser

import (
	"bytes"
	"fmt"
	"io"

	"github.com/extrame/xls"
)

func readXLS(r io.Reader, opt Options) (header []string, rows [][]string, err error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, fmt.Errorf("read xls: %w", err)
	}
	// The BIFF reader panics on some malformed workbooks.
	defer func() {
		if rec := recover(); rec != nil {
			header, rows, err = nil, nil, fmt.Errorf("open xls: %v", rec)
		}
	}()
	wb, err := xls.OpenReader(bytes.NewReader(b), "utf-8")
	if err != nil {
		return nil, nil, fmt.Errorf("open xls: %w", err)
	}

	var sheet *xls.WorkSheet
	if opt.Sheet != "" {
		for i := 0; i < wb.NumSheets(); i++ {
			if s := wb.GetSheet(i); s != nil && s.Name == opt.Sheet {
				sheet = s
				break
			}
		}
		if sheet == nil {
			return nil, nil, fmt.Errorf("sheet %q not found", opt.Sheet)
		}
	} else {
		sheet = wb.GetSheet(0)
	}
	if sheet == nil {
		return nil, nil, ErrEmpty
	}

	grid := make([][]string, 0, int(sheet.MaxRow)+1)
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			grid = append(grid, nil)
			continue
		}
		cells := make([]string, row.LastCol())
		for j := range cells {
			cells[j] = row.Col(j)
		}
		grid = append(grid, cells)
	}
	return splitHeader(grid)
}
