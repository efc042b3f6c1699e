// internal/workers/carehome/select-top-facilities/config.go
package selecttopfacilities

import "time"

type Config struct {
	Timeout time.Duration
	// PersistShortlist stores each selection in shortlist_sessions.
	PersistShortlist bool
}

func LoadConfig() *Config {
	return &Config{
		Timeout:          10 * time.Second,
		PersistShortlist: true,
	}
}
