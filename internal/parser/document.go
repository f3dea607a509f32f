package parser

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

// extraction is one method's outcome; failures stay inspectable instead of
// being silently discarded.
type extraction struct {
	Table *Table
	Err   error
}

// extractPDF runs the independent table-extraction methods. Each method is
// panic-guarded so a malformed PDF crashing one library path never blocks
// the others. The orchestrator scores every candidate and keeps the one
// with the highest downstream confidence.
func extractPDF(raw []byte) []extraction {
	return []extraction{
		runMethod("PDF (layout)", raw, pdfLayoutTable),
		runMethod("PDF (rows)", raw, pdfRowTable),
	}
}

func runMethod(name string, raw []byte, fn func([]byte) (*Table, error)) (ex extraction) {
	defer func() {
		if rec := recover(); rec != nil {
			ex = extraction{Err: fmt.Errorf("%s: extraction panicked: %v", name, rec)}
		}
	}()
	t, err := fn(raw)
	if err != nil {
		return extraction{Err: fmt.Errorf("%s: %w", name, err)}
	}
	if t == nil || len(t.Headers) == 0 || len(t.Rows) == 0 {
		return extraction{Err: fmt.Errorf("%s: %w: no table with data rows found", name, ErrEmptyOrUnparsable)}
	}
	t.Source = name
	return extraction{Table: t}
}

// pdfLayoutTable reconstructs tables from positioned text: glyph runs are
// grouped into lines by Y coordinate and split into cells on horizontal
// gaps. Pages whose tables share the header's width are concatenated.
func pdfLayoutTable(raw []byte) (*Table, error) {
	r, err := pdf.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return nil, err
	}

	var all [][]string
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		content := page.Content()
		pageRows := linesToCells(groupByLine(content.Text))
		all = appendCompatible(all, pageRows)
	}
	return tableFromRows(all)
}

// pdfRowTable uses the library's own row grouping as an independent second
// method, splitting each row into cells on X gaps.
func pdfRowTable(raw []byte) (*Table, error) {
	r, err := pdf.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return nil, err
	}

	var all [][]string
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			continue
		}
		var pageRows [][]string
		for _, row := range rows {
			texts := make([]pdf.Text, len(row.Content))
			copy(texts, row.Content)
			cells := splitCells(texts)
			if len(cells) > 0 {
				pageRows = append(pageRows, cells)
			}
		}
		all = appendCompatible(all, pageRows)
	}
	return tableFromRows(all)
}

// groupByLine buckets positioned text items into lines by Y coordinate.
// PDF Y grows upward, so lines are ordered top of page first.
func groupByLine(items []pdf.Text) [][]pdf.Text {
	if len(items) == 0 {
		return nil
	}
	sorted := make([]pdf.Text, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Y != sorted[j].Y {
			return sorted[i].Y > sorted[j].Y
		}
		return sorted[i].X < sorted[j].X
	})

	var lines [][]pdf.Text
	var cur []pdf.Text
	curY := 0.0
	for _, it := range sorted {
		if strings.TrimSpace(it.S) == "" && it.S != " " {
			continue
		}
		tol := it.FontSize * 0.6
		if tol <= 0 {
			tol = 3
		}
		if len(cur) == 0 || curY-it.Y <= tol {
			if len(cur) == 0 {
				curY = it.Y
			}
			cur = append(cur, it)
			continue
		}
		lines = append(lines, cur)
		cur = []pdf.Text{it}
		curY = it.Y
	}
	if len(cur) > 0 {
		lines = append(lines, cur)
	}
	return lines
}

func linesToCells(lines [][]pdf.Text) [][]string {
	var rows [][]string
	for _, line := range lines {
		cells := splitCells(line)
		if len(cells) > 0 {
			rows = append(rows, cells)
		}
	}
	return rows
}

// splitCells walks a line left to right and starts a new cell wherever the
// horizontal gap exceeds roughly two character widths.
func splitCells(line []pdf.Text) []string {
	sort.SliceStable(line, func(i, j int) bool { return line[i].X < line[j].X })

	var cells []string
	var b strings.Builder
	prevEnd := 0.0
	for i, it := range line {
		gap := it.X - prevEnd
		fontSize := it.FontSize
		if fontSize <= 0 {
			fontSize = 10
		}
		if i > 0 && gap > fontSize*1.2 {
			cells = append(cells, strings.TrimSpace(b.String()))
			b.Reset()
		} else if i > 0 && gap > fontSize*0.15 {
			b.WriteByte(' ')
		}
		b.WriteString(it.S)
		end := it.X + it.W
		if it.W <= 0 {
			end = it.X + float64(len([]rune(it.S)))*fontSize*0.5
		}
		if end > prevEnd {
			prevEnd = end
		}
	}
	if s := strings.TrimSpace(b.String()); s != "" || len(cells) > 0 {
		cells = append(cells, s)
	}

	// drop trailing empties
	for len(cells) > 0 && cells[len(cells)-1] == "" {
		cells = cells[:len(cells)-1]
	}
	return cells
}

// appendCompatible concatenates a page's rows onto the accumulated table,
// keeping only rows that match the established header width. A repeated
// header row on a later page is dropped.
func appendCompatible(all, pageRows [][]string) [][]string {
	if len(pageRows) == 0 {
		return all
	}
	if len(all) == 0 {
		width := modalWidth(pageRows)
		for _, row := range pageRows {
			if len(row) == width {
				all = append(all, row)
			}
		}
		return all
	}
	width := len(all[0])
	for _, row := range pageRows {
		if len(row) != width {
			continue
		}
		if sameRow(row, all[0]) {
			continue
		}
		all = append(all, row)
	}
	return all
}

func modalWidth(rows [][]string) int {
	counts := map[int]int{}
	for _, r := range rows {
		if len(r) > 1 {
			counts[len(r)]++
		}
	}
	best, bestN := 0, 0
	for w, n := range counts {
		if n > bestN || (n == bestN && w > best) {
			best, bestN = w, n
		}
	}
	return best
}

func sameRow(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func tableFromRows(rows [][]string) (*Table, error) {
	if len(rows) < 2 || len(rows[0]) < 2 {
		return nil, fmt.Errorf("%w: no table with data rows found", ErrEmptyOrUnparsable)
	}
	return &Table{Headers: rows[0], Rows: rows[1:]}, nil
}
