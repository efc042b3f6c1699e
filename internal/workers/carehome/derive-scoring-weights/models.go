// internal/workers/carehome/derive-scoring-weights/models.go
package derivescoringweights

import "carehome-workers/internal/models"

type Input struct {
	ClientProfile *models.ClientProfile `json:"clientProfile"`
}

type Output struct {
	Weights           models.ScoringWeights `json:"weights"`
	AppliedConditions []string              `json:"appliedConditions"`
}
