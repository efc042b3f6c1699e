// internal/matching/selection/objectives.go
package selection

import "carehome-workers/internal/models"

// objective is one category a shortlist slot can be won in.
type objective struct {
	category  models.SelectionCategory
	label     string
	reasoning string
	// runnerUpReasoning is used when the category leader already holds an
	// earlier slot and the next best candidate takes this one.
	runnerUpReasoning string
	score             func(models.MatchResult) float64
}

const (
	medicalWeight = 0.19
	safetyWeight  = 0.16
)

var (
	bestOverall = objective{
		category:          models.CategoryBestOverall,
		label:             "Best Overall Match",
		reasoning:         "Highest overall match score",
		runnerUpReasoning: "Next highest overall match score",
		score:             func(m models.MatchResult) float64 { return m.NormalizedPercent },
	}
	medicalSafety = objective{
		category:          models.CategoryMedicalSafety,
		label:             "Best Medical & Safety",
		reasoning:         "Strongest combined medical and safety profile",
		runnerUpReasoning: "Next strongest combined medical and safety profile",
		score: func(m models.MatchResult) float64 {
			return m.CategoryScores.Medical*medicalWeight + m.CategoryScores.Safety*safetyWeight
		},
	}
	additionalOption = objective{
		category:  models.CategoryAdditionalOptions,
		label:     "Additional Option",
		reasoning: "Strong overall match adding provider or area variety",
	}
)

var priorityObjectives = map[models.PriorityCategory]objective{
	models.PriorityQuality: {
		category:          models.CategoryQuality,
		label:             "Highest Quality",
		reasoning:         "Highest regulatory and staff quality",
		runnerUpReasoning: "Next highest regulatory and staff quality",
		score: func(m models.MatchResult) float64 {
			return 0.5*m.CategoryScores.Regulatory + 0.5*m.CategoryScores.Staff
		},
	},
	models.PriorityCost: {
		category:          models.CategoryValue,
		label:             "Best Value",
		reasoning:         "Strongest financial stability",
		runnerUpReasoning: "Next strongest financial stability",
		score:             func(m models.MatchResult) float64 { return m.CategoryScores.Financial },
	},
	models.PriorityLocation: {
		category:          models.CategoryLocationSocial,
		label:             "Best Location & Social",
		reasoning:         "Best location & social activities",
		runnerUpReasoning: "Next best location & social activities",
		score: func(m models.MatchResult) float64 {
			return 0.5*m.CategoryScores.Location + 0.5*m.CategoryScores.Social
		},
	},
	models.PriorityComfort: {
		category:          models.CategoryComfort,
		label:             "Most Comfortable",
		reasoning:         "Richest additional services",
		runnerUpReasoning: "Next richest additional services",
		score:             func(m models.MatchResult) float64 { return m.CategoryScores.Services },
	},
}

// objectivesFor returns the fixed objectives followed by one per declared
// priority, in the client's order. Unknown and repeated priorities are
// skipped; at most MaxPriorities are honoured.
func objectivesFor(profile models.ClientProfile) []objective {
	out := []objective{bestOverall, medicalSafety}
	seen := make(map[models.PriorityCategory]struct{}, models.MaxPriorities)

	for _, raw := range profile.Priorities {
		if len(seen) == models.MaxPriorities {
			break
		}
		p, ok := models.ParsePriority(string(raw))
		if !ok {
			continue
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, priorityObjectives[p])
	}
	return out
}
