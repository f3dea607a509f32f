package records

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInventoryFromRow_Full(t *testing.T) {
	rec, err := InventoryFromRow(map[string]string{
		"item_name":       "N95 Masks",
		"category":        "PPE",
		"current_stock":   "500",
		"min_stock_level": "100",
		"max_stock_level": "1000",
		"cost_per_unit":   "2.50",
		"supplier":        "MedSupply Co",
		"expiration_risk": "low",
	})
	require.NoError(t, err)
	assert.Equal(t, Inventory{
		ItemName:       "N95 Masks",
		Category:       "PPE",
		CurrentStock:   500,
		MinStockLevel:  100,
		MaxStockLevel:  1000,
		CostPerUnit:    2.5,
		Supplier:       "MedSupply Co",
		ExpirationRisk: "Low",
	}, rec)
}

func TestInventoryFromRow_Defaults(t *testing.T) {
	rec, err := InventoryFromRow(map[string]string{
		"item_name":     "Gloves",
		"current_stock": "400",
		"cost_per_unit": "0.35",
	})
	require.NoError(t, err)
	assert.Equal(t, "General", rec.Category)
	assert.Equal(t, 50, rec.MinStockLevel)
	assert.Equal(t, 1000, rec.MaxStockLevel)
	assert.Equal(t, "Low", rec.ExpirationRisk)
	assert.Empty(t, rec.Supplier)
}

func TestInventoryFromRow_MessyNumerics(t *testing.T) {
	rec, err := InventoryFromRow(map[string]string{
		"item_name":     "Syringes",
		"current_stock": "3 200",
		"cost_per_unit": "$0,08",
	})
	require.NoError(t, err)
	assert.Equal(t, 3200, rec.CurrentStock)
	assert.InDelta(t, 0.08, rec.CostPerUnit, 1e-9)
}

func TestInventoryFromRow_Errors(t *testing.T) {
	tests := []struct {
		name string
		row  map[string]string
		want string
	}{
		{
			"missing name",
			map[string]string{"current_stock": "10", "cost_per_unit": "1"},
			"item_name: required",
		},
		{
			"bad stock",
			map[string]string{"item_name": "x", "current_stock": "many", "cost_per_unit": "1"},
			"current_stock",
		},
		{
			"negative stock",
			map[string]string{"item_name": "x", "current_stock": "-5", "cost_per_unit": "1"},
			"current_stock: must be non-negative",
		},
		{
			"fractional stock",
			map[string]string{"item_name": "x", "current_stock": "2.5", "cost_per_unit": "1"},
			"current_stock",
		},
		{
			"bad cost",
			map[string]string{"item_name": "x", "current_stock": "10", "cost_per_unit": "free"},
			"cost_per_unit",
		},
		{
			"negative cost",
			map[string]string{"item_name": "x", "current_stock": "10", "cost_per_unit": "(2)"},
			"cost_per_unit: must be non-negative",
		},
		{
			"bad risk",
			map[string]string{"item_name": "x", "current_stock": "10", "cost_per_unit": "1", "expiration_risk": "sometimes"},
			"expiration_risk",
		},
		{
			"bad min level",
			map[string]string{"item_name": "x", "current_stock": "10", "cost_per_unit": "1", "min_stock_level": "few"},
			"min_stock_level",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := InventoryFromRow(tt.row)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestUsageFromRow_Full(t *testing.T) {
	rec, err := UsageFromRow(map[string]string{
		"item_name":       "Acetaminophen",
		"quantity_used":   "120",
		"usage_date":      "2024-02-01",
		"department":      "ER",
		"patient_id":      "P-1042",
		"prescription_id": "RX-77",
	})
	require.NoError(t, err)
	assert.Equal(t, Usage{
		ItemName:       "Acetaminophen",
		QuantityUsed:   120,
		UsageDate:      "2024-02-01",
		Department:     "ER",
		PatientID:      "P-1042",
		PrescriptionID: "RX-77",
	}, rec)
}

func TestUsageFromRow_DateLayouts(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2024-02-01", "2024-02-01"},
		{"2024/02/01", "2024-02-01"},
		{"02/01/2024", "2024-02-01"},
		{"01.02.2024", "2024-02-01"},
		{"2024-02-01 08:30:00", "2024-02-01"},
		{"2024-02-01T08:30:00Z", "2024-02-01"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			rec, err := UsageFromRow(map[string]string{
				"item_name":     "Gauze",
				"quantity_used": "5",
				"usage_date":    tt.in,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.want, rec.UsageDate)
		})
	}
}

func TestUsageFromRow_Errors(t *testing.T) {
	base := func() map[string]string {
		return map[string]string{
			"item_name":     "Gauze",
			"quantity_used": "5",
			"usage_date":    "2024-02-01",
		}
	}

	row := base()
	row["item_name"] = " "
	_, err := UsageFromRow(row)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "item_name: required")

	row = base()
	row["quantity_used"] = "some"
	_, err = UsageFromRow(row)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quantity_used")

	row = base()
	row["usage_date"] = "yesterday"
	_, err = UsageFromRow(row)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "usage_date")

	row = base()
	delete(row, "usage_date")
	_, err = UsageFromRow(row)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "usage_date: required")
}
