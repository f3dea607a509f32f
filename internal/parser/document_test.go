package parser

import (
	"testing"

	"github.com/ledongthuc/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func glyph(s string, x, y float64) pdf.Text {
	return pdf.Text{S: s, X: x, Y: y, W: float64(len(s)) * 5, FontSize: 10}
}

func TestSplitCells_GapStartsNewCell(t *testing.T) {
	// gaps over ~1.2 font sizes separate cells, smaller gaps join words
	line := []pdf.Text{
		glyph("Item", 10, 700),
		glyph("Name", 36, 700),  // 2pt gap: same cell, space-joined
		glyph("Stock", 120, 700), // wide gap: new cell
		glyph("Price", 220, 700),
	}
	assert.Equal(t, []string{"Item Name", "Stock", "Price"}, splitCells(line))
}

func TestSplitCells_UnsortedInput(t *testing.T) {
	line := []pdf.Text{
		glyph("Price", 220, 700),
		glyph("Item", 10, 700),
		glyph("Stock", 120, 700),
	}
	assert.Equal(t, []string{"Item", "Stock", "Price"}, splitCells(line))
}

func TestSplitCells_Empty(t *testing.T) {
	assert.Empty(t, splitCells(nil))
}

func TestGroupByLine_YClustering(t *testing.T) {
	items := []pdf.Text{
		glyph("Stock", 120, 700.2), // same visual line as Item, slight Y jitter
		glyph("Item", 10, 700),
		glyph("Gloves", 10, 680),
		glyph("400", 120, 680),
	}

	lines := groupByLine(items)
	require.Len(t, lines, 2)
	assert.Equal(t, []string{"Item", "Stock"}, linesToCells(lines)[0])
	assert.Equal(t, []string{"Gloves", "400"}, linesToCells(lines)[1])
}

func TestGroupByLine_TopOfPageFirst(t *testing.T) {
	items := []pdf.Text{
		glyph("low", 10, 100),
		glyph("high", 10, 700),
	}

	lines := groupByLine(items)
	require.Len(t, lines, 2)
	assert.Equal(t, "high", lines[0][0].S)
	assert.Equal(t, "low", lines[1][0].S)
}

func TestAppendCompatible_DropsRaggedAndRepeatedHeader(t *testing.T) {
	page1 := [][]string{
		{"Item", "Stock"},
		{"Gloves", "400"},
		{"page footer"}, // wrong width
	}
	page2 := [][]string{
		{"Item", "Stock"}, // repeated header
		{"Masks", "500"},
	}

	all := appendCompatible(nil, page1)
	all = appendCompatible(all, page2)
	assert.Equal(t, [][]string{
		{"Item", "Stock"},
		{"Gloves", "400"},
		{"Masks", "500"},
	}, all)
}

func TestModalWidth(t *testing.T) {
	rows := [][]string{
		{"a", "b", "c"},
		{"1", "2", "3"},
		{"page 1 of 2"},
		{"x", "y"},
	}
	assert.Equal(t, 3, modalWidth(rows))
}

func TestTableFromRows_TooSmall(t *testing.T) {
	_, err := tableFromRows([][]string{{"Item", "Stock"}})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmptyOrUnparsable)

	_, err = tableFromRows([][]string{{"only"}, {"one"}})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmptyOrUnparsable)
}

func TestRunMethod_PanicGuard(t *testing.T) {
	ex := runMethod("PDF (layout)", nil, func([]byte) (*Table, error) {
		panic("library blew up")
	})
	require.Error(t, ex.Err)
	assert.Contains(t, ex.Err.Error(), "extraction panicked")
}
