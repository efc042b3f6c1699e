// internal/matching/weights/conditions.go
package weights

import (
	"strings"

	"carehome-workers/internal/models"
)

const (
	highFallCount       = 3
	multiConditionCount = 3
	lowWeeklyBudget     = 1000.0
)

var trivialConditions = map[string]struct{}{
	"":              {},
	"none":          {},
	"no_conditions": {},
	"other":         {},
}

func hasHighFallRisk(p models.ClientProfile) bool {
	if p.Safety.FallsLast12Months >= highFallCount {
		return true
	}
	switch tokenize(p.Safety.FallHistory) {
	case models.FallHistoryHighRisk, "high":
		return true
	}
	return false
}

func hasCognitiveDiagnosis(p models.ClientProfile) bool {
	for _, values := range [][]string{p.Medical.Conditions, p.Medical.CareTypes} {
		for _, v := range values {
			if models.IsCognitiveNeed(v) {
				return true
			}
		}
	}
	return false
}

func hasMultipleConditions(p models.ClientProfile) bool {
	seen := make(map[string]struct{}, len(p.Medical.Conditions))
	for _, c := range p.Medical.Conditions {
		k := tokenize(c)
		if _, trivial := trivialConditions[k]; trivial {
			continue
		}
		seen[k] = struct{}{}
	}
	return len(seen) >= multiConditionCount
}

func hasLowBudget(p models.ClientProfile) bool {
	if tokenize(p.Location.BudgetBand) == "low" {
		return true
	}
	b := p.Location.WeeklyBudget
	return b > 0 && b < lowWeeklyBudget
}

func isUrgent(p models.ClientProfile) bool {
	return tokenize(p.Location.Timeline) == models.TimelineUrgent
}

// tokenize normalises questionnaire answers such as "High Risk" or
// "high-risk" to "high_risk".
func tokenize(s string) string {
	k := models.NormalizeKey(s)
	k = strings.ReplaceAll(k, "-", "_")
	return strings.Join(strings.Fields(k), "_")
}
