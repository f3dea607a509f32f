package parser

import "strings"

// matchThreshold is the minimum similarity for a column to claim a field.
const matchThreshold = 70

// Mapping assigns cleaned source columns to canonical fields. A column maps
// to at most one field and a field is claimed by at most one column. Scores
// records, per claimed field, the match score that produced the assignment.
type Mapping struct {
	Columns map[string]string `json:"columns"`
	Scores  map[string]int    `json:"scores"`
}

// Has reports whether a canonical field was claimed.
func (m Mapping) Has(field string) bool {
	_, ok := m.Scores[field]
	return ok
}

// Fields returns the set of claimed canonical fields.
func (m Mapping) Fields() []string {
	out := make([]string, 0, len(m.Scores))
	for f := range m.Scores {
		out = append(out, f)
	}
	return out
}

// AverageScore is the mean match score over all claimed fields, or 0 when
// nothing mapped.
func (m Mapping) AverageScore() float64 {
	if len(m.Scores) == 0 {
		return 0
	}
	sum := 0
	for _, s := range m.Scores {
		sum += s
	}
	return float64(sum) / float64(len(m.Scores))
}

// MapFields runs the greedy column-major assignment: columns are visited in
// their original order and the first column that clears the threshold for a
// field claims it. Later columns competing for the same field stay unmapped
// even if their nominal score is higher; this keeps the mapping stable and
// cheap but makes it sensitive to column order.
//
// Per (column, field) pair the score is 100 when any synonym is a literal
// substring of the column name, otherwise the best Damerau-Levenshtein ratio
// over the field's synonyms.
func MapFields(columns []string, dict *Dictionary) Mapping {
	m := Mapping{
		Columns: make(map[string]string),
		Scores:  make(map[string]int),
	}

	for _, column := range columns {
		bestField := ""
		bestScore := 0

		for _, field := range dict.Fields {
			if m.Has(field.Name) {
				continue
			}
			for _, syn := range field.Synonyms {
				score := 0
				if strings.Contains(column, syn) {
					score = 100
				} else {
					score = ratio(column, syn)
				}
				if score > bestScore && score >= matchThreshold {
					bestField = field.Name
					bestScore = score
				}
			}
		}

		if bestField != "" {
			m.Columns[column] = bestField
			m.Scores[bestField] = bestScore
		}
	}

	return m
}
