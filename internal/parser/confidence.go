package parser

import (
	"strings"

	"medinv-service/internal/utils"
)

// Confidence computes the 0-100 trust score for an inferred mapping over a
// normalized table. Deterministic and side-effect free: downstream review
// flags branch on this value.
//
// The weights and bonus constants are hand-tuned policy. The properties that
// must hold: item_name unmapped gates to exactly 0; adding a mapped field at
// equal match quality never lowers the score; missing data in critical
// fields only ever lowers it.
func Confidence(m Mapping, dict *Dictionary, t *Table) float64 {
	if !m.Has(ItemNameField) {
		return 0
	}

	// weighted base fraction over mapped fields
	achieved := 0.0
	for field, score := range m.Scores {
		def, ok := dict.Lookup(field)
		if !ok {
			continue
		}
		// 70..100 match score becomes a 0.85..1.0 quality multiplier
		quality := (float64(score)-matchThreshold)/30*0.15 + 0.85
		achieved += float64(def.Importance) * quality
	}
	base := achieved / float64(dict.TotalImportance())

	// completeness penalty over critical fields present in the table,
	// capped so one field's nulls cannot zero the score
	completeness := 1.0
	if len(t.Rows) > 0 {
		for _, field := range dict.CriticalFields() {
			col, ok := m.columnFor(field)
			if !ok {
				continue
			}
			completeness *= 1 - nullRatio(t, col)*0.5
		}
	}

	bonus := 0.0
	if len(m.Scores) == len(dict.Fields) {
		bonus += 0.08 // every canonical field mapped
	}
	avg := m.AverageScore()
	if len(m.Scores) > 0 && avg >= 95 {
		bonus += 0.05
	}
	if len(m.Scores) >= 6 {
		bonus += 0.03
	}
	if numericFieldsClean(m, dict, t) {
		bonus += 0.02
	}

	confidence := (base + bonus) * completeness

	// near-perfect inputs should land in the excellent band
	if len(m.Scores) >= 7 && avg >= 90 && completeness >= 0.95 {
		if confidence < 0.95 {
			confidence = 0.95
		}
	}

	if confidence > 1 {
		confidence = 1
	}
	return confidence * 100
}

// nullRatio is the blank-cell fraction of one column.
func nullRatio(t *Table, col string) float64 {
	idx := t.columnIndex(col)
	if idx < 0 || len(t.Rows) == 0 {
		return 0
	}
	nulls := 0
	for _, row := range t.Rows {
		if idx >= len(row) || strings.TrimSpace(row[idx]) == "" {
			nulls++
		}
	}
	return float64(nulls) / float64(len(t.Rows))
}

// numericFieldsClean reports whether every mapped numeric field parses as a
// number in every row. Fires only when at least one numeric field is mapped.
func numericFieldsClean(m Mapping, dict *Dictionary, t *Table) bool {
	checked := 0
	for field := range m.Scores {
		def, ok := dict.Lookup(field)
		if !ok || !def.Numeric {
			continue
		}
		col, ok := m.columnFor(field)
		if !ok {
			continue
		}
		idx := t.columnIndex(col)
		if idx < 0 {
			continue
		}
		checked++
		for _, row := range t.Rows {
			if idx >= len(row) {
				return false
			}
			if _, ok := utils.ParseFloat(row[idx]); !ok {
				return false
			}
		}
	}
	return checked > 0
}
