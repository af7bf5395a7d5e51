package tabular

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// XLSXOptions configures ReadXLSX.
type XLSXOptions struct {
	SheetName  string // if set, overrides SheetIndex
	SheetIndex int    // default 0
}

// ReadXLSX reads one sheet of a workbook. Cells are returned unformatted, so
// dates come back as Excel serial numbers and prices with a decimal point.
func ReadXLSX(path string, opts XLSXOptions) (*Frame, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("xlsx: open %s: %w", path, err)
	}
	defer f.Close()

	sheet, err := sheetName(f, opts)
	if err != nil {
		return nil, err
	}

	rows, err := f.Rows(sheet)
	if err != nil {
		return nil, fmt.Errorf("xlsx: read rows from sheet %s: %w", sheet, err)
	}
	defer rows.Close()

	var (
		header []string
		data   [][]string
	)
	for rows.Next() {
		record, err := rows.Columns(excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, fmt.Errorf("xlsx: read row from %s: %w", path, err)
		}
		if header == nil {
			if len(record) == 0 {
				continue
			}
			header = make([]string, len(record))
			for i, h := range record {
				header[i] = strings.TrimSpace(h)
			}
			continue
		}
		data = append(data, record)
	}
	if err := rows.Error(); err != nil {
		return nil, fmt.Errorf("xlsx: iterate rows in %s: %w", path, err)
	}
	if header == nil {
		return nil, fmt.Errorf("xlsx: %s has no header row", path)
	}

	return NewFrame(dedupeHeader(header), data), nil
}

func sheetName(f *excelize.File, opts XLSXOptions) (string, error) {
	sheets := f.GetSheetList()
	if opts.SheetName != "" {
		for _, s := range sheets {
			if s == opts.SheetName {
				return s, nil
			}
		}
		return "", fmt.Errorf("xlsx: sheet %q not found", opts.SheetName)
	}
	if opts.SheetIndex < 0 || opts.SheetIndex >= len(sheets) {
		return "", fmt.Errorf("xlsx: sheet index %d out of range (file has %d sheets)", opts.SheetIndex, len(sheets))
	}
	return sheets[opts.SheetIndex], nil
}
