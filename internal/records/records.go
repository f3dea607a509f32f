// Package records holds the typed import records that normalized parser
// rows are converted into at the mapping boundary. Defaults and range
// checks live here, not at call sites.
package records

import (
	"fmt"
	"strings"
	"time"

	"medinv-service/internal/utils"
)

// Inventory is one validated inventory row.
type Inventory struct {
	ItemName       string  `json:"item_name"`
	Category       string  `json:"category"`
	CurrentStock   int     `json:"current_stock"`
	MinStockLevel  int     `json:"min_stock_level"`
	MaxStockLevel  int     `json:"max_stock_level"`
	CostPerUnit    float64 `json:"cost_per_unit"`
	Supplier       string  `json:"supplier,omitempty"`
	ExpirationRisk string  `json:"expiration_risk"`
}

// Usage is one validated usage row.
type Usage struct {
	ItemName       string `json:"item_name"`
	QuantityUsed   int    `json:"quantity_used"`
	UsageDate      string `json:"usage_date"`
	Department     string `json:"department,omitempty"`
	PatientID      string `json:"patient_id,omitempty"`
	PrescriptionID string `json:"prescription_id,omitempty"`
	Notes          string `json:"notes,omitempty"`
}

const (
	defaultMinStock = 50
	defaultMaxStock = 1000
)

// InventoryFromRow converts a normalized parser row into a typed record,
// applying defaults for optional fields and rejecting out-of-range values.
func InventoryFromRow(row map[string]string) (Inventory, error) {
	rec := Inventory{
		ItemName:       strings.TrimSpace(row["item_name"]),
		Category:       strings.TrimSpace(row["category"]),
		Supplier:       strings.TrimSpace(row["supplier"]),
		MinStockLevel:  defaultMinStock,
		MaxStockLevel:  defaultMaxStock,
	}
	if rec.ItemName == "" {
		return rec, fmt.Errorf("item_name: required")
	}
	if rec.Category == "" {
		rec.Category = "General"
	}

	stock, ok := utils.ParseInt(row["current_stock"])
	if !ok {
		return rec, fmt.Errorf("current_stock: %q is not a whole number", row["current_stock"])
	}
	if stock < 0 {
		return rec, fmt.Errorf("current_stock: must be non-negative")
	}
	rec.CurrentStock = stock

	if v := strings.TrimSpace(row["min_stock_level"]); v != "" {
		n, ok := utils.ParseInt(v)
		if !ok || n < 0 {
			return rec, fmt.Errorf("min_stock_level: %q is not a non-negative whole number", v)
		}
		rec.MinStockLevel = n
	}
	if v := strings.TrimSpace(row["max_stock_level"]); v != "" {
		n, ok := utils.ParseInt(v)
		if !ok || n < 0 {
			return rec, fmt.Errorf("max_stock_level: %q is not a non-negative whole number", v)
		}
		rec.MaxStockLevel = n
	}

	cost, ok := utils.ParseFloat(row["cost_per_unit"])
	if !ok {
		return rec, fmt.Errorf("cost_per_unit: %q is not a number", row["cost_per_unit"])
	}
	if cost < 0 {
		return rec, fmt.Errorf("cost_per_unit: must be non-negative")
	}
	rec.CostPerUnit = cost

	risk, err := normalizeRisk(row["expiration_risk"])
	if err != nil {
		return rec, err
	}
	rec.ExpirationRisk = risk

	return rec, nil
}

// UsageFromRow converts a normalized parser row into a typed usage record.
func UsageFromRow(row map[string]string) (Usage, error) {
	rec := Usage{
		ItemName:       strings.TrimSpace(row["item_name"]),
		Department:     strings.TrimSpace(row["department"]),
		PatientID:      strings.TrimSpace(row["patient_id"]),
		PrescriptionID: strings.TrimSpace(row["prescription_id"]),
		Notes:          strings.TrimSpace(row["notes"]),
	}
	if rec.ItemName == "" {
		return rec, fmt.Errorf("item_name: required")
	}

	qty, ok := utils.ParseInt(row["quantity_used"])
	if !ok {
		return rec, fmt.Errorf("quantity_used: %q is not a whole number", row["quantity_used"])
	}
	if qty < 0 {
		return rec, fmt.Errorf("quantity_used: must be non-negative")
	}
	rec.QuantityUsed = qty

	date, err := normalizeDate(row["usage_date"])
	if err != nil {
		return rec, err
	}
	rec.UsageDate = date

	return rec, nil
}

func normalizeRisk(s string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return "Low", nil
	case "low":
		return "Low", nil
	case "medium", "med":
		return "Medium", nil
	case "high":
		return "High", nil
	default:
		return "", fmt.Errorf("expiration_risk: %q is not Low, Medium or High", s)
	}
}

var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"02.01.2006",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

func normalizeDate(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("usage_date: required")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02"), nil
		}
	}
	return "", fmt.Errorf("usage_date: %q is not a recognized date", s)
}
