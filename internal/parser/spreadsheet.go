package parser

import (
	"bytes"
	"fmt"

	xls "github.com/extrame/xls"
	excelize "github.com/xuri/excelize/v2"
)

// extractXLSX parses every sheet independently and keeps the one with the
// most data rows. Sheets that fail to parse are skipped.
func extractXLSX(raw []byte) (*Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEmptyOrUnparsable, err)
	}
	defer f.Close()

	var best *Table
	bestRows := 0
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil || len(rows) < 2 {
			continue
		}
		t := &Table{
			Source:  fmt.Sprintf("Excel (%s)", sheet),
			Headers: rows[0],
			Rows:    rows[1:],
		}
		if n := t.DataRows(); n > bestRows {
			best = t
			bestRows = n
		}
	}
	if best == nil {
		return nil, fmt.Errorf("%w: no readable sheets found in Excel file", ErrEmptyOrUnparsable)
	}
	return best, nil
}

// extractXLS reads legacy BIFF workbooks. Charset is guessed the hard way:
// these files rarely declare one correctly, so a few likely candidates are
// tried in order.
func extractXLS(raw []byte) (*Table, error) {
	var wb *xls.WorkBook
	var lastErr error
	for _, cs := range []string{"utf-8", "windows-1252", "windows-1251"} {
		w, err := xls.OpenReader(bytes.NewReader(raw), cs)
		if err == nil && w != nil {
			wb = w
			break
		}
		lastErr = err
	}
	if wb == nil {
		if lastErr == nil {
			lastErr = fmt.Errorf("failed to open workbook")
		}
		return nil, fmt.Errorf("%w: %v", ErrEmptyOrUnparsable, lastErr)
	}

	var best *Table
	bestRows := 0
	for i := 0; i < wb.NumSheets(); i++ {
		sheet := wb.GetSheet(i)
		if sheet == nil {
			continue
		}
		rows := readXLSSheet(sheet)
		if len(rows) < 2 {
			continue
		}
		t := &Table{
			Source:  fmt.Sprintf("Excel (%s)", sheet.Name),
			Headers: rows[0],
			Rows:    rows[1:],
		}
		if n := t.DataRows(); n > bestRows {
			best = t
			bestRows = n
		}
	}
	if best == nil {
		return nil, fmt.Errorf("%w: no readable sheets found in Excel file", ErrEmptyOrUnparsable)
	}
	return best, nil
}

// readXLSSheet fixes the table width itself instead of trusting per-row
// LastCol, then reads every cell up to that width.
func readXLSSheet(sheet *xls.WorkSheet) [][]string {
	const probeMax = 256
	maxCols := 0
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			continue
		}
		for j := 0; j < probeMax; j++ {
			if row.Col(j) != "" && j+1 > maxCols {
				maxCols = j + 1
			}
		}
	}
	if maxCols == 0 {
		return nil
	}

	rows := make([][]string, 0, int(sheet.MaxRow)+1)
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		cols := make([]string, maxCols)
		if row != nil {
			for j := 0; j < maxCols; j++ {
				cols[j] = row.Col(j)
			}
		}
		rows = append(rows, cols)
	}
	return rows
}
