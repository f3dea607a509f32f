package parser

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

var delimiters = []rune{',', ';', '\t', '|'}

// decodeText converts raw bytes to UTF-8, auto-detecting the source
// encoding and falling back to UTF-8 when detection is inconclusive.
func decodeText(raw []byte) string {
	cs := "utf-8"
	sample := raw
	if len(sample) > 2048 {
		sample = sample[:2048]
	}
	if len(sample) > 0 {
		if det, err := chardet.NewTextDetector().DetectBest(sample); err == nil && det != nil {
			cs = strings.ToLower(det.Charset)
		}
	}

	var cm *charmap.Charmap
	switch cs {
	case "windows-1251", "cp1251":
		cm = charmap.Windows1251
	case "windows-1252", "cp1252":
		cm = charmap.Windows1252
	case "iso-8859-1", "latin1":
		cm = charmap.ISO8859_1
	case "koi8-r":
		cm = charmap.KOI8R
	default:
		return string(raw)
	}

	decoded, err := io.ReadAll(transform.NewReader(strings.NewReader(string(raw)), cm.NewDecoder()))
	if err != nil {
		return string(raw)
	}
	return string(decoded)
}

// extractDelimited races the candidate delimiters over the decoded text and
// keeps the parse yielding the most columns. Delimiters that fail to parse
// are skipped, not fatal.
func extractDelimited(raw []byte) (*Table, error) {
	text := decodeText(raw)
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: file is empty", ErrEmptyOrUnparsable)
	}

	var best *Table
	bestCols := 0
	for _, delim := range delimiters {
		t, err := parseDelimited(text, delim)
		if err != nil || t == nil {
			continue
		}
		if len(t.Headers) > bestCols {
			best = t
			bestCols = len(t.Headers)
		}
	}

	if best == nil || bestCols == 0 || len(best.Rows) == 0 {
		return nil, fmt.Errorf("%w: could not parse delimited file or file is empty", ErrEmptyOrUnparsable)
	}
	return best, nil
}

func parseDelimited(text string, delim rune) (*Table, error) {
	cr := csv.NewReader(strings.NewReader(text))
	cr.Comma = delim
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	var rows [][]string
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, rec)
	}
	if len(rows) < 2 {
		return nil, nil
	}
	return &Table{Source: delimiterSource(delim), Headers: rows[0], Rows: rows[1:]}, nil
}

// delimiterSource labels the table with the delimiter that actually won the
// race, so provenance in the result metadata stays truthful for .tsv and
// pipe/semicolon files parsed through the same extractor.
func delimiterSource(delim rune) string {
	switch delim {
	case ',':
		return "CSV"
	case '\t':
		return "TSV"
	default:
		return fmt.Sprintf("Delimited (%c)", delim)
	}
}
