package parser

import (
	"fmt"
	"math"
	"strings"
)

// Confidence bands. Thresholds are policy, kept in one place.
const (
	excellentThreshold = 95
	goodThreshold      = 85
	fairThreshold      = 70
)

// Assessment is the human-readable quality verdict attached to a successful
// parse. Color is informational only.
type Assessment struct {
	ConfidenceLevel          string   `json:"confidence_level"`
	Description              string   `json:"description"`
	Interpretation           string   `json:"interpretation"`
	Color                    string   `json:"color"`
	NeedsHumanReview         bool     `json:"needs_human_review"`
	ReviewReason             string   `json:"review_reason,omitempty"`
	LabelingAccuracyEstimate float64  `json:"labeling_accuracy_estimate"`
	CriticalFieldsMapped     string   `json:"critical_fields_mapped"`
	Issues                   []string `json:"issues"`
	Recommendations          []string `json:"recommendations"`
}

// headerTokens that suggest a column carries data we should have mapped.
var importantHeaderTokens = []string{"item", "name", "stock", "quantity", "price", "cost"}

// Assess translates a confidence score and mapping into a discrete quality
// tier with issues and actionable recommendations.
func Assess(confidence float64, m Mapping, dict *Dictionary, t *Table) Assessment {
	var a Assessment
	switch {
	case confidence >= excellentThreshold:
		a.ConfidenceLevel = "excellent"
		a.Description = "Excellent data quality"
		a.Interpretation = "Data parsed with very high accuracy. Field mappings are reliable and data appears complete."
		a.Color = "green"
	case confidence >= goodThreshold:
		a.ConfidenceLevel = "good"
		a.Description = "Good data quality"
		a.Interpretation = "Data parsed successfully with minor uncertainties. Most field mappings are reliable."
		a.Color = "blue"
	case confidence >= fairThreshold:
		a.ConfidenceLevel = "fair"
		a.Description = "Fair data quality"
		a.Interpretation = "Data parsed with some uncertainties. Recommend reviewing field mappings for accuracy."
		a.Color = "yellow"
		a.NeedsHumanReview = true
		a.ReviewReason = "Medium confidence score indicates potential mapping issues"
	default:
		a.ConfidenceLevel = "poor"
		a.Description = "Poor data quality"
		a.Interpretation = "Data parsing encountered significant issues. Manual review strongly recommended."
		a.Color = "red"
		a.NeedsHumanReview = true
		a.ReviewReason = "Low confidence score indicates likely mapping errors"
	}

	critical := dict.CriticalFields()
	criticalMapped := 0
	for _, f := range critical {
		if m.Has(f) {
			criticalMapped++
		}
	}
	a.CriticalFieldsMapped = fmt.Sprintf("%d/%d", criticalMapped, len(critical))

	if len(m.Scores) > 0 {
		a.LabelingAccuracyEstimate = math.Round(math.Min(m.AverageScore()*1.02, 100)*10) / 10
	} else {
		a.LabelingAccuracyEstimate = 75.0
	}

	a.Issues = detectIssues(confidence, m, t)
	a.Recommendations = recommendations(confidence, m, dict)
	return a
}

func detectIssues(confidence float64, m Mapping, t *Table) []string {
	issues := []string{}
	if confidence < goodThreshold {
		issues = append(issues, "Some field mappings may be incorrect")
	}
	if len(m.Scores) < 5 {
		issues = append(issues, "Limited field coverage detected")
	}

	if len(t.Rows) > 0 && len(t.Headers) > 0 {
		nulls := 0
		for _, row := range t.Rows {
			for i := range t.Headers {
				if i >= len(row) || strings.TrimSpace(row[i]) == "" {
					nulls++
				}
			}
		}
		pct := float64(nulls) / float64(len(t.Rows)*len(t.Headers)) * 100
		if pct > 10 {
			issues = append(issues, fmt.Sprintf("High percentage of missing data (%.1f%%)", pct))
		}
	}

	unmapped := 0
	for _, col := range t.Headers {
		if _, ok := m.Columns[col]; ok {
			continue
		}
		for _, token := range importantHeaderTokens {
			if strings.Contains(col, token) {
				unmapped++
				break
			}
		}
	}
	if unmapped > 0 {
		issues = append(issues, fmt.Sprintf("%d potentially important columns not mapped", unmapped))
	}
	return issues
}

func recommendations(confidence float64, m Mapping, dict *Dictionary) []string {
	recs := []string{}
	if confidence < fairThreshold {
		recs = append(recs, "Manually verify all field mappings before importing")
		recs = append(recs, "Consider reformatting the source file with clearer column headers")
	}
	if confidence < goodThreshold {
		recs = append(recs, "Review the field mapping results below")
		recs = append(recs, "Spot-check a few records to ensure data accuracy")
	}
	if len(m.Scores) < 6 {
		recs = append(recs, "Consider adding more columns to improve data completeness")
	}
	if _, ok := dict.Lookup("current_stock"); ok && !m.Has("current_stock") {
		recs = append(recs, "Ensure stock quantity information is included")
	}
	if _, ok := dict.Lookup("quantity_used"); ok && !m.Has("quantity_used") {
		recs = append(recs, "Ensure usage quantity information is included")
	}
	if _, ok := dict.Lookup("cost_per_unit"); ok && !m.Has("cost_per_unit") {
		recs = append(recs, "Include unit cost information if available")
	}
	if len(recs) == 0 {
		recs = append(recs, "Data looks good! Ready to import.")
	}
	return recs
}
