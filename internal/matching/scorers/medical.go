// internal/matching/scorers/medical.go
package scorers

import "carehome-workers/internal/models"

// MedicalMax is the point ceiling for the medical domain.
const MedicalMax = 30.0

// Medical scores how well the facility's clinical capability covers the
// client's needs.
func Medical(c models.CandidateFacility, p models.ClientProfile, _ models.EnrichmentBundle) float64 {
	var t tally

	t.add(specialistMatch(c, p), 10)
	t.add(nursingLevel(c, p), 8)
	t.add(matchShare(p.Medical.EquipmentNeeds, c.Equipment, 7, 7), 7)

	protocol := 0.0
	if c.Has24hNursing {
		protocol += 3
	}
	if c.EmergencyResponsePlan {
		protocol += 2
	}
	t.add(protocol, 5)

	return t.score()
}

// specialistMatch credits cognitive needs to a dementia-registered home even
// when its specialism list does not name them.
func specialistMatch(c models.CandidateFacility, p models.ClientProfile) float64 {
	offered := c.Specialisms
	if c.OffersDementiaCare() {
		offered = offered[:len(offered):len(offered)]
		for _, need := range p.Medical.SpecialistNeeds {
			if models.IsCognitiveNeed(need) {
				offered = append(offered, need)
			}
		}
	}
	return matchShare(p.Medical.SpecialistNeeds, offered, 10, 10)
}

func nursingLevel(c models.CandidateFacility, p models.ClientProfile) float64 {
	if p.Medical.NeedsNursing() {
		if c.OffersNursing() {
			return 8
		}
		return 0
	}
	if c.OffersResidential() {
		return 8
	}
	return 6
}
