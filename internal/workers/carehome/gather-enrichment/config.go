// internal/workers/carehome/gather-enrichment/config.go
package gatherenrichment

import "time"

type Config struct {
	PoolSize       int
	PerCallTimeout time.Duration
	Timeout        time.Duration
}

func LoadConfig() *Config {
	return &Config{
		PoolSize:       8,
		PerCallTimeout: 2 * time.Second,
		Timeout:        30 * time.Second,
	}
}
