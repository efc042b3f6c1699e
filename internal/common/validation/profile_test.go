// internal/common/validation/profile_test.go
package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validProfile() map[string]interface{} {
	return map[string]interface{}{
		"clientId": "client-1",
		"medical": map[string]interface{}{
			"conditions":      []interface{}{"dementia"},
			"requiresNursing": true,
		},
		"safety": map[string]interface{}{"fallHistory": "high_risk", "fallsLast12Months": 3},
		"location": map[string]interface{}{
			"latitude": 51.5, "longitude": -0.12, "maxDistanceKm": 10, "weeklyBudget": 1200,
		},
		"priorities": []interface{}{"quality", "teleportation"},
		"contact":    map[string]interface{}{"email": "family@example.org", "phone": "+44 7700 900123"},
	}
}

func TestValidateClientProfile_Valid(t *testing.T) {
	res, err := ValidateClientProfile(validProfile())
	require.NoError(t, err)
	assert.True(t, res.Valid, res.Summary())
	assert.Empty(t, res.Errors)
}

func TestValidateClientProfile_Violations(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p map[string]interface{})
		field  string
	}{
		{
			name:   "missing client id",
			mutate: func(p map[string]interface{}) { delete(p, "clientId") },
			field:  "(root)",
		},
		{
			name:   "empty client id",
			mutate: func(p map[string]interface{}) { p["clientId"] = "" },
			field:  "clientId",
		},
		{
			name: "latitude out of range",
			mutate: func(p map[string]interface{}) {
				p["location"].(map[string]interface{})["latitude"] = 123.0
			},
			field: "location.latitude",
		},
		{
			name: "negative falls",
			mutate: func(p map[string]interface{}) {
				p["safety"].(map[string]interface{})["fallsLast12Months"] = -1
			},
			field: "safety.fallsLast12Months",
		},
		{
			name: "bad email",
			mutate: func(p map[string]interface{}) {
				p["contact"].(map[string]interface{})["email"] = "not-an-email"
			},
			field: "contact.email",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validProfile()
			tt.mutate(p)

			res, err := ValidateClientProfile(p)
			require.NoError(t, err)
			assert.False(t, res.Valid)

			fields := make([]string, 0, len(res.Errors))
			for _, e := range res.Errors {
				fields = append(fields, e.Field)
			}
			assert.Contains(t, fields, tt.field)
			assert.NotEmpty(t, res.Summary())
		})
	}
}

func TestValidateClientProfile_NullCoordinatesAllowed(t *testing.T) {
	p := validProfile()
	loc := p["location"].(map[string]interface{})
	loc["latitude"] = nil
	loc["longitude"] = nil

	res, err := ValidateClientProfile(p)
	require.NoError(t, err)
	assert.True(t, res.Valid, res.Summary())
}
