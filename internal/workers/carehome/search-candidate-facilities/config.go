// internal/workers/carehome/search-candidate-facilities/config.go
package searchcandidatefacilities

import "time"

type Config struct {
	Index         string
	MaxCandidates int
	// RadiusFactor widens the search beyond the client's maximum distance so
	// slightly-too-far homes can still be scored with a distance penalty.
	RadiusFactor float64
	Timeout      time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Index:         "care_facilities",
		MaxCandidates: 50,
		RadiusFactor:  2,
		Timeout:       10 * time.Second,
	}
}
