// internal/workers/carehome/select-top-facilities/models.go
package selecttopfacilities

import "carehome-workers/internal/models"

type Input struct {
	ClientProfile    *models.ClientProfile    `json:"clientProfile"`
	ScoredCandidates []models.ScoredCandidate `json:"scoredCandidates"`
}

type Output struct {
	Selection    models.SelectionResult `json:"selection"`
	MatchResults []models.MatchResult   `json:"matchResults"`
	ShortlistIDs []string               `json:"shortlistIds"`
}
