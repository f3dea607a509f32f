package parser

import (
	"fmt"
	"strings"
)

// Table is one candidate tabular extraction: a header row plus data rows,
// tagged with the extractor/method that produced it. Tables live only for
// the duration of a single parse call.
type Table struct {
	Source  string
	Headers []string
	Rows    [][]string
}

// DataRows counts rows that contain at least one non-blank cell.
func (t *Table) DataRows() int {
	n := 0
	for _, row := range t.Rows {
		if !rowEmpty(row) {
			n++
		}
	}
	return n
}

// cleanColumn normalizes a raw header label: trim, lower-case, collapse
// internal whitespace to underscores.
func cleanColumn(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.Join(strings.Fields(s), "_")
}

// normalize cleans headers, de-duplicates columns (first occurrence wins)
// and drops fully empty rows. Blank headers get a positional name so the
// column survives mapping diagnostics.
func (t *Table) normalize() *Table {
	cleaned := make([]string, 0, len(t.Headers))
	keep := make([]int, 0, len(t.Headers))
	seen := make(map[string]bool, len(t.Headers))
	for i, h := range t.Headers {
		c := cleanColumn(h)
		if c == "" {
			c = fmt.Sprintf("column_%d", i+1)
		}
		if seen[c] {
			continue
		}
		seen[c] = true
		cleaned = append(cleaned, c)
		keep = append(keep, i)
	}

	rows := make([][]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		if rowEmpty(row) {
			continue
		}
		out := make([]string, len(keep))
		for j, idx := range keep {
			if idx < len(row) {
				out[j] = strings.TrimSpace(row[idx])
			}
		}
		rows = append(rows, out)
	}

	return &Table{Source: t.Source, Headers: cleaned, Rows: rows}
}

// records converts the table into per-row maps, renaming mapped columns to
// their canonical field names. Unmapped columns keep their cleaned name.
func (t *Table) records(m Mapping) []map[string]string {
	out := make([]map[string]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		rec := make(map[string]string, len(t.Headers))
		for i, col := range t.Headers {
			key := col
			if field, ok := m.Columns[col]; ok {
				key = field
			}
			var v string
			if i < len(row) {
				v = row[i]
			}
			rec[key] = v
		}
		out = append(out, rec)
	}
	return out
}

// columnIndex finds the position of a cleaned column name.
func (t *Table) columnIndex(col string) int {
	for i, h := range t.Headers {
		if h == col {
			return i
		}
	}
	return -1
}

// columnFor finds the source column mapped to a canonical field.
func (m Mapping) columnFor(field string) (string, bool) {
	for col, f := range m.Columns {
		if f == field {
			return col, true
		}
	}
	return "", false
}

func rowEmpty(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
