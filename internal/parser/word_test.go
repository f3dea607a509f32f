package parser

import (
	"archive/zip"
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildDocx(t *testing.T, documentXML string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(documentXML))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func docxTableXML(rows [][]string) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`)
	b.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body><w:tbl>`)
	for _, row := range rows {
		b.WriteString(`<w:tr>`)
		for _, cell := range row {
			b.WriteString(`<w:tc><w:p><w:r><w:t>`)
			b.WriteString(cell)
			b.WriteString(`</w:t></w:r></w:p></w:tc>`)
		}
		b.WriteString(`</w:tr>`)
	}
	b.WriteString(`</w:tbl></w:body></w:document>`)
	return b.String()
}

func TestExtractDOCX_Table(t *testing.T) {
	raw := buildDocx(t, docxTableXML([][]string{
		{"Item Name", "Stock", "Price"},
		{"N95 Masks", "500", "2.50"},
		{"Gloves", "400", "0.35"},
	}))

	tbl, err := extractDOCX(raw)
	require.NoError(t, err)
	assert.Equal(t, "Word Document", tbl.Source)
	assert.Equal(t, []string{"Item Name", "Stock", "Price"}, tbl.Headers)
	require.Len(t, tbl.Rows, 2)
	assert.Equal(t, []string{"N95 Masks", "500", "2.50"}, tbl.Rows[0])
}

func TestExtractDOCX_MultiRunCell(t *testing.T) {
	xml := `<?xml version="1.0"?>` +
		`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body><w:tbl>` +
		`<w:tr><w:tc><w:p><w:r><w:t>Item</w:t></w:r><w:r><w:t> Name</w:t></w:r></w:p></w:tc>` +
		`<w:tc><w:p><w:r><w:t>Stock</w:t></w:r></w:p></w:tc></w:tr>` +
		`<w:tr><w:tc><w:p><w:r><w:t>Gloves</w:t></w:r></w:p></w:tc>` +
		`<w:tc><w:p><w:r><w:t>400</w:t></w:r></w:p></w:tc></w:tr>` +
		`</w:tbl></w:body></w:document>`

	tbl, err := extractDOCX(buildDocx(t, xml))
	require.NoError(t, err)
	assert.Equal(t, "Item Name", tbl.Headers[0])
}

func TestExtractDOCX_SkipsHeaderOnlyTable(t *testing.T) {
	xml := `<?xml version="1.0"?>` +
		`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
		`<w:tbl><w:tr><w:tc><w:p><w:r><w:t>lonely header</w:t></w:r></w:p></w:tc></w:tr></w:tbl>` +
		`<w:tbl>` +
		`<w:tr><w:tc><w:p><w:r><w:t>Item</w:t></w:r></w:p></w:tc><w:tc><w:p><w:r><w:t>Stock</w:t></w:r></w:p></w:tc></w:tr>` +
		`<w:tr><w:tc><w:p><w:r><w:t>Gloves</w:t></w:r></w:p></w:tc><w:tc><w:p><w:r><w:t>400</w:t></w:r></w:p></w:tc></w:tr>` +
		`</w:tbl></w:body></w:document>`

	tbl, err := extractDOCX(buildDocx(t, xml))
	require.NoError(t, err)
	assert.Equal(t, []string{"Item", "Stock"}, tbl.Headers)
}

func TestExtractDOCX_NoTables(t *testing.T) {
	xml := `<?xml version="1.0"?>` +
		`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
		`<w:p><w:r><w:t>just a paragraph</w:t></w:r></w:p></w:body></w:document>`

	_, err := extractDOCX(buildDocx(t, xml))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmptyOrUnparsable)
}

func TestExtractDOCX_NotAZip(t *testing.T) {
	_, err := extractDOCX([]byte("plainly not a zip archive"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmptyOrUnparsable)
}

func TestExtractDOCX_MissingDocumentXML(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/styles.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte("<styles/>"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	_, err = extractDOCX(buf.Bytes())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmptyOrUnparsable)
}
