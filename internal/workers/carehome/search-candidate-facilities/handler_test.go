// internal/workers/carehome/search-candidate-facilities/handler_test.go
package searchcandidatefacilities

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	apperrors "carehome-workers/internal/common/errors"
	"carehome-workers/internal/common/logger"
	"carehome-workers/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

type fakeCluster struct {
	status   int
	response string
	lastBody map[string]interface{}
	lastPath string
}

func (f *fakeCluster) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")

	if r.URL.Path == "/" {
		_, _ = io.WriteString(w, `{"version":{"number":"8.11.0","build_flavor":"default"},"tagline":"You Know, for Search"}`)
		return
	}

	f.lastPath = r.URL.Path
	if raw, _ := io.ReadAll(r.Body); len(raw) > 0 {
		_ = json.Unmarshal(raw, &f.lastBody)
	}
	w.WriteHeader(f.status)
	_, _ = io.WriteString(w, f.response)
}

func setupHandler(t *testing.T, cluster *fakeCluster) *Handler {
	srv := httptest.NewServer(cluster)
	t.Cleanup(srv.Close)

	es, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)

	cfg := LoadConfig()
	cfg.Timeout = 5 * time.Second
	return NewHandler(cfg, es, logger.NewTestLogger(t))
}

func profileNear(lat, lon float64) *models.ClientProfile {
	return &models.ClientProfile{
		ClientID: "client-1",
		Medical:  models.MedicalNeeds{CareTypes: []string{"Nursing"}},
		Location: models.LocationPreferences{Latitude: &lat, Longitude: &lon, MaxDistanceKm: 10},
	}
}

const twoHits = `{
  "took": 4,
  "hits": {
    "total": {"value": 2},
    "hits": [
      {"_id": "fac-1", "_source": {"id": "fac-1", "name": "Oak House", "providerId": "p1", "location": {"lat": 51.51, "lon": -0.12}}},
      {"_id": "fac-2", "_source": {"name": "Elm Court", "providerId": "p2", "latitude": 51.6, "longitude": -0.2}}
    ]
  }
}`

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_GeoSearch(t *testing.T) {
	cluster := &fakeCluster{status: http.StatusOK, response: twoHits}
	h := setupHandler(t, cluster)

	out, err := h.Execute(context.Background(), &Input{ClientProfile: profileNear(51.5, -0.12)})
	require.NoError(t, err)

	assert.Equal(t, "/care_facilities/_search", cluster.lastPath)
	require.Equal(t, 2, out.CandidateCount)
	assert.Equal(t, int64(2), out.TotalHits)

	assert.Equal(t, "fac-1", out.Candidates[0].ID)
	require.True(t, out.Candidates[0].HasCoordinates())
	assert.Equal(t, 51.51, *out.Candidates[0].Latitude)

	// id falls back to the document id; explicit coordinates win over location
	assert.Equal(t, "fac-2", out.Candidates[1].ID)
	assert.Equal(t, 51.6, *out.Candidates[1].Latitude)

	q := cluster.lastBody["query"].(map[string]interface{})["bool"].(map[string]interface{})
	geo := q["filter"].([]interface{})[0].(map[string]interface{})["geo_distance"].(map[string]interface{})
	assert.Equal(t, "20km", geo["distance"])
	assert.Len(t, q["should"], 2)
	assert.Equal(t, float64(50), cluster.lastBody["size"])
}

func TestHandler_Execute_SizeCappedByInput(t *testing.T) {
	cluster := &fakeCluster{status: http.StatusOK, response: `{"hits":{"hits":[]}}`}
	h := setupHandler(t, cluster)

	out, err := h.Execute(context.Background(), &Input{ClientProfile: profileNear(51.5, -0.12), MaxCandidates: 10})
	require.NoError(t, err)

	assert.Equal(t, float64(10), cluster.lastBody["size"])
	assert.Empty(t, out.Candidates)
	assert.NotNil(t, out.Candidates)
}

func TestBuildQuery_LocalityFallback(t *testing.T) {
	p := models.ClientProfile{Location: models.LocationPreferences{Locality: " Leeds "}}

	q := buildQuery(p, 25, 2)
	boolQ := q["query"].(map[string]interface{})["bool"].(map[string]interface{})

	assert.Equal(t, []interface{}{
		map[string]interface{}{"match": map[string]interface{}{"localAuthority": "Leeds"}},
	}, boolQ["filter"])
	assert.NotContains(t, boolQ, "should")
	assert.NotContains(t, q, "sort")
}

func TestFormatKm(t *testing.T) {
	assert.Equal(t, "30km", formatKm(30))
	assert.Equal(t, "12.5km", formatKm(12.5))
	assert.Equal(t, "0.33km", formatKm(1.0/3))
}

// ==========================
// Error Handling Tests
// ==========================

func TestHandler_Execute_Errors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		response string
		code     apperrors.ErrorCode
	}{
		{name: "missing index", status: http.StatusNotFound, response: `{"error":{"type":"index_not_found_exception"}}`, code: apperrors.ErrCodeIndexNotFound},
		{name: "server error", status: http.StatusInternalServerError, response: `{}`, code: apperrors.ErrCodeFacilitySearchFailed},
		{name: "garbage body", status: http.StatusOK, response: `not json`, code: apperrors.ErrCodeFacilitySearchFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := setupHandler(t, &fakeCluster{status: tt.status, response: tt.response})

			ctx := context.Background()
			_, err := h.Execute(ctx, &Input{ClientProfile: profileNear(51.5, -0.12)})
			require.Error(t, err)
			assert.Equal(t, tt.code, h.classify(ctx, err).Code)
		})
	}
}

func TestHandler_Execute_MissingProfile(t *testing.T) {
	h := setupHandler(t, &fakeCluster{status: http.StatusOK})

	_, err := h.Execute(context.Background(), &Input{})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeInvalidInput, h.classify(context.Background(), err).Code)
}

func TestHandler_Classify_Timeout(t *testing.T) {
	h := setupHandler(t, &fakeCluster{status: http.StatusOK})

	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	<-ctx.Done()

	assert.Equal(t, apperrors.ErrCodeSearchTimeout, h.classify(ctx, ErrSearchQueryFailed).Code)
}
