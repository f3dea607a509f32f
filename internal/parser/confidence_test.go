package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func invTable(headers []string, rows ...[]string) *Table {
	return (&Table{Source: "test", Headers: headers, Rows: rows}).normalize()
}

func TestConfidence_ZeroWithoutItemName(t *testing.T) {
	dict, _ := DictionaryFor(SchemaInventory)

	// a rich mapping without the mandatory field still scores exactly 0
	tbl := invTable(
		[]string{"current_stock", "cost_per_unit", "category", "supplier"},
		[]string{"500", "2.50", "PPE", "MedSupply Co"},
	)
	m := MapFields(tbl.Headers, dict)
	require.False(t, m.Has(ItemNameField))

	assert.Zero(t, Confidence(m, dict, tbl))
}

func TestConfidence_MonotonicInMappedFields(t *testing.T) {
	dict, _ := DictionaryFor(SchemaInventory)

	small := invTable([]string{"item_name"}, []string{"N95 Masks"})
	big := invTable([]string{"item_name", "current_stock"}, []string{"N95 Masks", "500"})
	bigger := invTable(
		[]string{"item_name", "current_stock", "cost_per_unit"},
		[]string{"N95 Masks", "500", "2.50"},
	)

	c1 := Confidence(MapFields(small.Headers, dict), dict, small)
	c2 := Confidence(MapFields(big.Headers, dict), dict, big)
	c3 := Confidence(MapFields(bigger.Headers, dict), dict, bigger)

	assert.Greater(t, c2, c1, "mapping current_stock must raise confidence")
	assert.Greater(t, c3, c2, "mapping cost_per_unit must raise confidence")
}

func TestConfidence_FullExactMappingIsExcellent(t *testing.T) {
	dict, _ := DictionaryFor(SchemaInventory)

	tbl := invTable(
		[]string{"item_name", "category", "current_stock", "min_stock_level",
			"max_stock_level", "cost_per_unit", "supplier", "expiration_risk"},
		[]string{"N95 Masks", "PPE", "500", "100", "1000", "2.50", "MedSupply Co", "Low"},
		[]string{"Syringes", "General", "3200", "500", "8000", "0.08", "MedEquip Ltd", "Low"},
	)
	m := MapFields(tbl.Headers, dict)
	require.Len(t, m.Scores, len(dict.Fields))

	c := Confidence(m, dict, tbl)
	assert.GreaterOrEqual(t, c, float64(excellentThreshold))
	assert.LessOrEqual(t, c, 100.0)
}

func TestConfidence_MissingCriticalDataPenalized(t *testing.T) {
	dict, _ := DictionaryFor(SchemaInventory)

	clean := invTable(
		[]string{"item_name", "current_stock"},
		[]string{"N95 Masks", "500"},
		[]string{"Gloves", "400"},
	)
	holey := invTable(
		[]string{"item_name", "current_stock"},
		[]string{"N95 Masks", "500"},
		[]string{"Gloves", ""},
	)
	m := MapFields(clean.Headers, dict)

	assert.Greater(t, Confidence(m, dict, clean), Confidence(m, dict, holey))
}

func TestConfidence_SingleFieldNullsCannotZeroScore(t *testing.T) {
	dict, _ := DictionaryFor(SchemaInventory)

	allNull := invTable(
		[]string{"item_name", "current_stock"},
		[]string{"N95 Masks", ""},
		[]string{"Gloves", ""},
	)
	m := MapFields(allNull.Headers, dict)

	// every stock cell is blank; the penalty is capped at half the score
	assert.Greater(t, Confidence(m, dict, allNull), 0.0)
}

func TestConfidence_Deterministic(t *testing.T) {
	dict, _ := DictionaryFor(SchemaInventory)
	tbl := invTable(
		[]string{"item_name", "current_stock", "cost_per_unit"},
		[]string{"N95 Masks", "500", "2.5"},
	)
	m := MapFields(tbl.Headers, dict)

	first := Confidence(m, dict, tbl)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Confidence(m, dict, tbl))
	}
}
