// internal/models/facility.go
package models

import "strings"

// CandidateFacility is a care home considered for a client. ID is required;
// candidates without one are rejected before scoring.
type CandidateFacility struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	ProviderID     string   `json:"providerId"`
	Latitude       *float64 `json:"latitude,omitempty"`
	Longitude      *float64 `json:"longitude,omitempty"`
	LocalAuthority string   `json:"localAuthority"`
	Postcode       string   `json:"postcode"`

	CareTypes             []string `json:"careTypes"`
	RegisteredNursing     bool     `json:"registeredNursing"`
	RegisteredDementia    bool     `json:"registeredDementia"`
	Has24hNursing         bool     `json:"has24hNursing"`
	EmergencyResponsePlan bool     `json:"emergencyResponsePlan"`

	HasParking              bool     `json:"hasParking"`
	TransportDistanceMeters *float64 `json:"transportDistanceMeters,omitempty"`
	Specialisms             []string `json:"specialisms"`
	Equipment               []string `json:"equipment"`
	Therapies               []string `json:"therapies"`
	MentalHealthServices    []string `json:"mentalHealthServices"`
	SpecialistPrograms      []string `json:"specialistPrograms"`
	CommunityPrograms       []string `json:"communityPrograms"`
	ActivitiesPerWeek       *float64 `json:"activitiesPerWeek,omitempty"`

	Enrichment *EnrichmentBundle `json:"enrichment,omitempty"`
}

// HasCoordinates reports whether the facility carries a location.
func (f CandidateFacility) HasCoordinates() bool {
	return f.Latitude != nil && f.Longitude != nil
}

// OffersNursing reports whether the facility is registered for nursing care.
func (f CandidateFacility) OffersNursing() bool {
	return f.RegisteredNursing || ContainsFold(f.CareTypes, CareTypeNursing)
}

// OffersDementiaCare reports whether the facility is registered for, or
// declares, dementia care.
func (f CandidateFacility) OffersDementiaCare() bool {
	return f.RegisteredDementia || ContainsFold(f.CareTypes, CareTypeDementia)
}

// OffersResidential reports whether the facility provides residential care.
// Facilities that declare no care types are treated as residential homes.
func (f CandidateFacility) OffersResidential() bool {
	return len(f.CareTypes) == 0 || ContainsFold(f.CareTypes, CareTypeResidential)
}

// ProviderKey is the normalised provider identifier used to detect provider
// duplication. Facilities without a provider count as their own provider.
func (f CandidateFacility) ProviderKey() string {
	if k := NormalizeKey(f.ProviderID); k != "" {
		return k
	}
	return "facility:" + NormalizeKey(f.ID)
}

// LocalityKey is the normalised administrative area, falling back to the
// postcode outward code.
func (f CandidateFacility) LocalityKey() string {
	if k := NormalizeKey(f.LocalAuthority); k != "" {
		return k
	}
	return OutwardCode(f.Postcode)
}

// OutwardCode returns the district part of a UK-style postcode ("SW1A 1AA" ->
// "sw1a"). Postcodes without a space drop the three-character inward code.
func OutwardCode(postcode string) string {
	p := NormalizeKey(postcode)
	if p == "" {
		return ""
	}
	if i := strings.IndexByte(p, ' '); i > 0 {
		return p[:i]
	}
	if len(p) > 4 {
		return p[:len(p)-3]
	}
	return p
}

// EnrichmentOrEmpty returns the facility's enrichment bundle, or an empty one
// when none was gathered.
func (f CandidateFacility) EnrichmentOrEmpty() EnrichmentBundle {
	if f.Enrichment == nil {
		return EnrichmentBundle{}
	}
	return *f.Enrichment
}
