// internal/workers/carehome/search-candidate-facilities/query.go
package searchcandidatefacilities

import (
	"fmt"
	"strings"

	"carehome-workers/internal/models"
)

// buildQuery filters by distance when the profile carries coordinates and
// otherwise by locality; care-type fit only boosts relevance.
func buildQuery(p models.ClientProfile, size int, radiusFactor float64) map[string]interface{} {
	filter := []interface{}{}
	should := []interface{}{}

	for _, ct := range p.Medical.CareTypes {
		if k := models.NormalizeKey(ct); k != "" {
			should = append(should, map[string]interface{}{
				"term": map[string]interface{}{"careTypes": k},
			})
		}
	}
	if p.Medical.NeedsNursing() {
		should = append(should, map[string]interface{}{
			"term": map[string]interface{}{"registeredNursing": map[string]interface{}{"value": true, "boost": 2}},
		})
	}

	query := map[string]interface{}{"size": size}

	if p.Location.HasCoordinates() {
		radius := p.Location.EffectiveMaxDistanceKm() * radiusFactor
		point := map[string]interface{}{"lat": *p.Location.Latitude, "lon": *p.Location.Longitude}

		filter = append(filter, map[string]interface{}{
			"geo_distance": map[string]interface{}{
				"distance": formatKm(radius),
				"location": point,
			},
		})
		query["sort"] = []interface{}{
			"_score",
			map[string]interface{}{
				"_geo_distance": map[string]interface{}{
					"location": point,
					"order":    "asc",
					"unit":     "km",
				},
			},
		}
	} else if loc := strings.TrimSpace(p.Location.Locality); loc != "" {
		filter = append(filter, map[string]interface{}{
			"match": map[string]interface{}{"localAuthority": loc},
		})
	}

	boolQuery := map[string]interface{}{"filter": filter}
	if len(should) > 0 {
		boolQuery["should"] = should
	}
	query["query"] = map[string]interface{}{"bool": boolQuery}

	return query
}

func formatKm(km float64) string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", km), "0"), ".") + "km"
}
