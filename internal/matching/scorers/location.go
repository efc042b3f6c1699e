// internal/matching/scorers/location.go
package scorers

import (
	"math"

	"carehome-workers/internal/common/geo"
	"carehome-workers/internal/models"
)

// LocationMax is the point ceiling for the location domain.
const LocationMax = 15.0

const neutralDistancePoints = 5.0

// Location scores distance from the client's preferred location, public
// transport access and parking.
func Location(c models.CandidateFacility, p models.ClientProfile, _ models.EnrichmentBundle) float64 {
	var t tally

	t.add(distancePoints(c, p), 10)
	t.add(transportPoints(c.TransportDistanceMeters), 3)

	if c.HasParking {
		t.add(2, 2)
	} else {
		t.add(0, 2)
	}

	return t.score()
}

func distancePoints(c models.CandidateFacility, p models.ClientProfile) float64 {
	if !c.HasCoordinates() || !p.Location.HasCoordinates() {
		return neutralDistancePoints
	}
	clat, clon := *c.Latitude, *c.Longitude
	plat, plon := *p.Location.Latitude, *p.Location.Longitude
	if !geo.ValidCoordinates(clat, clon) || !geo.ValidCoordinates(plat, plon) {
		return neutralDistancePoints
	}

	d := geo.HaversineKm(plat, plon, clat, clon)
	limit := p.Location.EffectiveMaxDistanceKm()

	switch {
	case d <= limit*0.25:
		return 10
	case d <= limit*0.5:
		return 8
	case d <= limit:
		return 6
	default:
		return math.Max(0, 6-6*(d-limit)/limit)
	}
}

func transportPoints(meters *float64) float64 {
	if meters == nil {
		return 1.5
	}
	switch m := *meters; {
	case m < 0:
		return 1.5
	case m <= 400:
		return 3
	case m <= 800:
		return 2
	case m <= 1500:
		return 1
	}
	return 0
}
