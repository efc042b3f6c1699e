// internal/workers/carehome/calculate-match-score/models.go
package calculatematchscore

import "carehome-workers/internal/models"

type Input struct {
	ClientID      string                     `json:"clientId"`
	ClientProfile *models.ClientProfile      `json:"clientProfile,omitempty"`
	Candidates    []models.CandidateFacility `json:"candidates"`
	Weights       *models.ScoringWeights     `json:"weights,omitempty"`

	AppliedConditions []string `json:"appliedConditions,omitempty"`
}

type Output struct {
	ScoredCandidates  []models.ScoredCandidate `json:"scoredCandidates"`
	Weights           models.ScoringWeights    `json:"weights"`
	AppliedConditions []string                 `json:"appliedConditions"`
	TopMatchPercent   float64                  `json:"topMatchPercent"`
}
