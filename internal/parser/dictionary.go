package parser

import "fmt"

// Schema selects which canonical dictionary incoming columns are mapped onto.
type Schema string

const (
	SchemaInventory Schema = "inventory"
	SchemaUsage     Schema = "usage"
)

// ItemNameField is the one field a parse cannot do without.
const ItemNameField = "item_name"

// FieldDef is a canonical field together with the lowercase synonym tokens
// used to recognize it in source headers. Importance feeds the confidence
// score; Critical marks fields whose missing values penalize completeness.
type FieldDef struct {
	Name       string
	Synonyms   []string
	Importance int
	Numeric    bool
	Critical   bool
}

// Dictionary is immutable configuration: one per schema, loaded at startup,
// never mutated at runtime.
type Dictionary struct {
	Schema Schema
	Fields []FieldDef
}

var inventoryDictionary = &Dictionary{
	Schema: SchemaInventory,
	Fields: []FieldDef{
		{
			Name: "item_name",
			Synonyms: []string{
				"item", "name", "product", "description", "item_name", "product_name",
				"material", "supply", "equipment", "drug", "medication", "device",
			},
			Importance: 40,
			Critical:   true,
		},
		{
			Name:       "category",
			Synonyms:   []string{"category", "type", "class", "group", "section", "dept", "department"},
			Importance: 8,
		},
		{
			Name: "current_stock",
			Synonyms: []string{
				"stock", "quantity", "qty", "current", "on_hand", "available", "count",
				"inventory", "balance", "units", "current_stock",
			},
			Importance: 25,
			Numeric:    true,
			Critical:   true,
		},
		{
			Name:       "min_stock_level",
			Synonyms:   []string{"min", "minimum", "min_stock", "reorder_point", "low_level", "threshold"},
			Importance: 5,
			Numeric:    true,
		},
		{
			Name:       "max_stock_level",
			Synonyms:   []string{"max", "maximum", "max_stock", "capacity", "limit", "ceiling"},
			Importance: 3,
			Numeric:    true,
		},
		{
			Name:       "cost_per_unit",
			Synonyms:   []string{"cost", "price", "unit_cost", "unit_price", "value", "rate", "amount"},
			Importance: 15,
			Numeric:    true,
			Critical:   true,
		},
		{
			Name: "supplier",
			Synonyms: []string{
				"supplier", "vendor", "manufacturer", "provider", "source", "company",
				"supplier_name", "vendor_name", "manufacturer_name",
			},
			Importance: 3,
		},
		{
			Name:       "expiration_risk",
			Synonyms:   []string{"expiration", "expiry", "shelf_life", "risk", "perishable", "expires"},
			Importance: 1,
		},
	},
}

var usageDictionary = &Dictionary{
	Schema: SchemaUsage,
	Fields: []FieldDef{
		{
			Name:       "item_name",
			Synonyms:   []string{"item", "name", "product", "description", "material", "supply", "drug"},
			Importance: 40,
			Critical:   true,
		},
		{
			Name: "quantity_used",
			Synonyms: []string{
				"quantity", "qty", "used", "consumed", "dispensed", "administered",
				"amount", "count", "units",
			},
			Importance: 30,
			Numeric:    true,
			Critical:   true,
		},
		{
			Name:       "usage_date",
			Synonyms:   []string{"date", "timestamp", "time", "when", "usage_date", "dispensed_date"},
			Importance: 15,
			Critical:   true,
		},
		{
			Name:       "department",
			Synonyms:   []string{"department", "dept", "unit", "ward", "section", "division"},
			Importance: 7,
		},
		{
			Name:       "patient_id",
			Synonyms:   []string{"patient", "patient_id", "id", "mrn", "record_number"},
			Importance: 5,
		},
		{
			Name:       "prescription_id",
			Synonyms:   []string{"prescription", "rx", "order", "prescription_id", "order_id"},
			Importance: 3,
		},
	},
}

// DictionaryFor returns the canonical dictionary for a schema.
func DictionaryFor(schema Schema) (*Dictionary, error) {
	switch schema {
	case SchemaInventory:
		return inventoryDictionary, nil
	case SchemaUsage:
		return usageDictionary, nil
	default:
		return nil, fmt.Errorf("unknown schema %q (want inventory or usage)", schema)
	}
}

// Lookup returns the definition of a canonical field.
func (d *Dictionary) Lookup(name string) (FieldDef, bool) {
	for _, f := range d.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldDef{}, false
}

// TotalImportance is the denominator of the confidence base fraction.
func (d *Dictionary) TotalImportance() int {
	total := 0
	for _, f := range d.Fields {
		total += f.Importance
	}
	return total
}

// CriticalFields lists fields whose absence or missing values should weigh
// on the quality assessment.
func (d *Dictionary) CriticalFields() []string {
	var out []string
	for _, f := range d.Fields {
		if f.Critical {
			out = append(out, f.Name)
		}
	}
	return out
}
