package parser

import (
	"fmt"
	"strings"
)

// extractText handles free-form text files: the first line picks the
// delimiter candidate that yields the most columns, and rows that do not
// split into exactly the header's column count are dropped silently.
func extractText(raw []byte) (*Table, error) {
	text := strings.TrimSpace(decodeText(raw))
	if text == "" {
		return nil, fmt.Errorf("%w: file is empty", ErrEmptyOrUnparsable)
	}

	lines := strings.Split(text, "\n")
	var bestDelim string
	maxColumns := 0
	for _, delim := range []string{"\t", "|", ",", ";"} {
		if !strings.Contains(lines[0], delim) {
			continue
		}
		if n := len(strings.Split(lines[0], delim)); n > maxColumns {
			bestDelim = delim
			maxColumns = n
		}
	}
	if bestDelim == "" || maxColumns <= 1 {
		return nil, fmt.Errorf("%w: no tabular data found in text file", ErrEmptyOrUnparsable)
	}

	headers := strings.Split(lines[0], bestDelim)
	var rows [][]string
	for _, line := range lines[1:] {
		if !strings.Contains(line, bestDelim) {
			continue
		}
		row := strings.Split(line, bestDelim)
		if len(row) == len(headers) {
			rows = append(rows, row)
		}
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no tabular data found in text file", ErrEmptyOrUnparsable)
	}
	return &Table{Source: "Text File", Headers: headers, Rows: rows}, nil
}
