// internal/workers/carehome/derive-scoring-weights/config.go
package derivescoringweights

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 5 * time.Second,
	}
}
