// internal/matching/scorers/financial.go
package scorers

import (
	"carehome-workers/internal/matching/safenum"
	"carehome-workers/internal/models"
)

// FinancialMax is the point ceiling for the financial domain.
const FinancialMax = 20.0

const defaultBankruptcyRisk = 50.0

// Financial scores the operator's financial stability.
func Financial(_ models.CandidateFacility, _ models.ClientProfile, e models.EnrichmentBundle) float64 {
	var t tally
	f := e.Financial

	risk := safenum.Clamp(safenum.Float(f.BankruptcyRisk, defaultBankruptcyRisk), 0, 100)
	t.add((100-risk)/100*10, 10)
	t.add(countSteps(f.DirectorChanges24Months, []float64{3, 2, 1}, 1.5), 3)
	t.add(countSteps(f.OwnershipChanges36Months, []float64{2, 1}, 1), 2)
	t.add(countSteps(f.OverdueFilings, []float64{5, 3, 1}, 2.5), 5)

	return t.score()
}
