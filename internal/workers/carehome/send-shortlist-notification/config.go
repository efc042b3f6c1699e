// internal/workers/carehome/send-shortlist-notification/config.go
package sendshortlistnotification

import "time"

type Config struct {
	Timeout      time.Duration
	EmailEnabled bool
	FromEmail    string
	SMSEnabled   bool
	SenderID     string
}

func LoadConfig() *Config {
	return &Config{
		Timeout:      15 * time.Second,
		EmailEnabled: true,
		FromEmail:    "shortlists@example.com",
		SMSEnabled:   false,
		SenderID:     "CareMatch",
	}
}
