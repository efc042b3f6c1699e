// internal/workers/carehome/send-shortlist-notification/message.go
package sendshortlistnotification

import (
	"fmt"
	"strings"

	"carehome-workers/internal/models"
)

const (
	emailSubject    = "Your care home shortlist is ready"
	noMatchesText   = "We could not find any care homes matching your needs this time. An advisor will be in touch to talk through the options."
	smsMaxListed    = 3
	smsMaxRunes     = 320
	unnamedFacility = "Unnamed care home"
)

func facilityName(r models.Recommendation) string {
	if name := strings.TrimSpace(r.Facility.Name); name != "" {
		return name
	}
	return unnamedFacility
}

// emailBody lists every recommendation with its rank and label.
func emailBody(contactName string, sel models.SelectionResult) string {
	var b strings.Builder

	if contactName != "" {
		fmt.Fprintf(&b, "Dear %s,\n\n", contactName)
	} else {
		b.WriteString("Hello,\n\n")
	}

	if len(sel.Recommendations) == 0 {
		b.WriteString(noMatchesText)
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString("Your care home shortlist is ready:\n\n")
	for _, r := range sel.Recommendations {
		fmt.Fprintf(&b, "%d. %s (%s)\n", r.Rank, facilityName(r), r.Label)
	}
	if sel.SessionID != "" {
		fmt.Fprintf(&b, "\nReference: %s\n", sel.SessionID)
	}
	return b.String()
}

// smsBody names the top few homes and stays within two SMS segments.
func smsBody(sel models.SelectionResult) string {
	if len(sel.Recommendations) == 0 {
		return noMatchesText
	}

	names := make([]string, 0, smsMaxListed)
	for i, r := range sel.Recommendations {
		if i == smsMaxListed {
			break
		}
		names = append(names, facilityName(r))
	}

	msg := fmt.Sprintf("Your care home shortlist is ready: %s", strings.Join(names, ", "))
	if extra := len(sel.Recommendations) - len(names); extra > 0 {
		msg += fmt.Sprintf(" and %d more", extra)
	}
	msg += ". Check your email for details."

	if r := []rune(msg); len(r) > smsMaxRunes {
		msg = string(r[:smsMaxRunes])
	}
	return msg
}
