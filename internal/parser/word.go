package parser

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// WordprocessingML table structures, namespace-agnostic on purpose: only
// the local element names matter for table extraction.
type docxDocument struct {
	Body docxBody `xml:"body"`
}

type docxBody struct {
	Tables []docxTable `xml:"tbl"`
}

type docxTable struct {
	Rows []docxTableRow `xml:"tr"`
}

type docxTableRow struct {
	Cells []docxTableCell `xml:"tc"`
}

type docxTableCell struct {
	Paragraphs []docxParagraph `xml:"p"`
}

type docxParagraph struct {
	Runs []docxRun `xml:"r"`
}

type docxRun struct {
	Text []docxText `xml:"t"`
}

type docxText struct {
	Content string `xml:",chardata"`
}

// extractDOCX opens the OOXML container and returns the first table that
// has a header plus at least one data row. Remaining tables are ignored.
func extractDOCX(raw []byte) (*Table, error) {
	zr, err := zip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return nil, fmt.Errorf("%w: not a Word document: %v", ErrEmptyOrUnparsable, err)
	}

	var docXML []byte
	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrEmptyOrUnparsable, err)
		}
		docXML, err = io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrEmptyOrUnparsable, err)
		}
		break
	}
	if docXML == nil {
		return nil, fmt.Errorf("%w: word/document.xml missing", ErrEmptyOrUnparsable)
	}

	var doc docxDocument
	if err := xml.Unmarshal(docXML, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEmptyOrUnparsable, err)
	}

	for _, table := range doc.Body.Tables {
		if len(table.Rows) < 2 {
			continue
		}
		headers := docxRowCells(table.Rows[0])
		var rows [][]string
		for _, tr := range table.Rows[1:] {
			rows = append(rows, docxRowCells(tr))
		}
		return &Table{Source: "Word Document", Headers: headers, Rows: rows}, nil
	}
	return nil, fmt.Errorf("%w: no tables found in Word document", ErrEmptyOrUnparsable)
}

func docxRowCells(tr docxTableRow) []string {
	cells := make([]string, 0, len(tr.Cells))
	for _, tc := range tr.Cells {
		var b strings.Builder
		for _, p := range tc.Paragraphs {
			for _, r := range p.Runs {
				for _, t := range r.Text {
					b.WriteString(t.Content)
				}
			}
			b.WriteByte(' ')
		}
		cells = append(cells, strings.TrimSpace(b.String()))
	}
	return cells
}
