// internal/workers/carehome/send-shortlist-notification/models.go
package sendshortlistnotification

import "carehome-workers/internal/models"

type Input struct {
	ClientID  string                 `json:"clientId"`
	Contact   *models.ContactDetails `json:"contact,omitempty"`
	Selection models.SelectionResult `json:"selection"`
}

type Output struct {
	NotificationID string   `json:"notificationId"`
	EmailMessageID string   `json:"emailMessageId,omitempty"`
	SMSMessageID   string   `json:"smsMessageId,omitempty"`
	Channels       []string `json:"channels"`
	Skipped        bool     `json:"skipped"`
	SkipReason     string   `json:"skipReason,omitempty"`
}
