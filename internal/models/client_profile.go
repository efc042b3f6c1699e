// internal/models/client_profile.go
package models

import "strings"

// PriorityCategory is one of the client's declared selection priorities.
type PriorityCategory string

const (
	PriorityQuality  PriorityCategory = "quality"
	PriorityCost     PriorityCategory = "cost"
	PriorityLocation PriorityCategory = "location"
	PriorityComfort  PriorityCategory = "comfort"
)

// MaxPriorities bounds how many declared priorities selection looks at.
const MaxPriorities = 4

// Fall history levels recorded in the safety section of the questionnaire.
const (
	FallHistoryNone       = "none"
	FallHistoryLowRisk    = "low_risk"
	FallHistoryMediumRisk = "medium_risk"
	FallHistoryHighRisk   = "high_risk"
)

// Social dispositions.
const (
	DispositionVerySocial       = "very_social"
	DispositionModeratelySocial = "moderately_social"
	DispositionPrefersQuiet     = "prefers_quiet"
)

// Placement timelines.
const (
	TimelineUrgent      = "urgent"
	TimelineWithinMonth = "within_month"
	TimelineFlexible    = "flexible"
)

// Care types shared by profiles and facilities.
const (
	CareTypeResidential = "residential"
	CareTypeNursing     = "nursing"
	CareTypeDementia    = "dementia"
	CareTypeRespite     = "respite"
)

var cognitiveMarkers = []string{"dementia", "alzheimer", "cognitive"}

// IsCognitiveNeed reports whether a condition, care type or specialist need
// names dementia, Alzheimer's or a cognitive impairment.
func IsCognitiveNeed(s string) bool {
	k := NormalizeKey(s)
	for _, marker := range cognitiveMarkers {
		if strings.Contains(k, marker) {
			return true
		}
	}
	return false
}

// DefaultMaxDistanceKm applies when the client did not declare a distance.
const DefaultMaxDistanceKm = 15.0

type ClientProfile struct {
	ClientID   string              `json:"clientId"`
	Medical    MedicalNeeds        `json:"medical"`
	Safety     SafetyHistory       `json:"safety"`
	Location   LocationPreferences `json:"location"`
	Social     SocialPreferences   `json:"social"`
	Funding    Funding             `json:"funding"`
	Priorities []PriorityCategory  `json:"priorities"`
	Contact    ContactDetails      `json:"contact"`
}

type MedicalNeeds struct {
	Conditions      []string `json:"conditions"`
	CareTypes       []string `json:"careTypes"`
	RequiresNursing bool     `json:"requiresNursing"`
	SpecialistNeeds []string `json:"specialistNeeds"`
	EquipmentNeeds  []string `json:"equipmentNeeds"`
}

type SafetyHistory struct {
	FallHistory       string `json:"fallHistory"`
	FallsLast12Months int    `json:"fallsLast12Months"`
	Wandering         bool   `json:"wandering"`
}

type LocationPreferences struct {
	Latitude      *float64 `json:"latitude,omitempty"`
	Longitude     *float64 `json:"longitude,omitempty"`
	MaxDistanceKm float64  `json:"maxDistanceKm"`
	Locality      string   `json:"locality"`
	WeeklyBudget  float64  `json:"weeklyBudget"`
	BudgetBand    string   `json:"budgetBand"`
	Timeline      string   `json:"timeline"`
}

type SocialPreferences struct {
	Disposition string   `json:"disposition"`
	Interests   []string `json:"interests"`
}

type Funding struct {
	Source string `json:"source"`
}

type ContactDetails struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// HasCoordinates reports whether upstream geocoding produced a location.
func (l LocationPreferences) HasCoordinates() bool {
	return l.Latitude != nil && l.Longitude != nil
}

// EffectiveMaxDistanceKm returns the declared maximum distance or the default.
func (l LocationPreferences) EffectiveMaxDistanceKm() float64 {
	if l.MaxDistanceKm <= 0 {
		return DefaultMaxDistanceKm
	}
	return l.MaxDistanceKm
}

// NeedsNursing reports whether the client requires registered nursing care.
func (m MedicalNeeds) NeedsNursing() bool {
	return m.RequiresNursing || ContainsFold(m.CareTypes, CareTypeNursing)
}

// ParsePriority normalises a raw priority identifier. The second result is
// false for identifiers outside the fixed enumeration.
func ParsePriority(raw string) (PriorityCategory, bool) {
	switch PriorityCategory(NormalizeKey(raw)) {
	case PriorityQuality:
		return PriorityQuality, true
	case PriorityCost:
		return PriorityCost, true
	case PriorityLocation:
		return PriorityLocation, true
	case PriorityComfort:
		return PriorityComfort, true
	}
	return "", false
}

// NormalizeKey lower-cases and trims an identifier for comparison.
func NormalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ContainsFold reports whether values holds target, ignoring case and
// surrounding whitespace.
func ContainsFold(values []string, target string) bool {
	t := NormalizeKey(target)
	if t == "" {
		return false
	}
	for _, v := range values {
		if NormalizeKey(v) == t {
			return true
		}
	}
	return false
}

// CountMatches returns how many of wanted appear in offered.
func CountMatches(wanted, offered []string) int {
	if len(wanted) == 0 || len(offered) == 0 {
		return 0
	}
	have := make(map[string]struct{}, len(offered))
	for _, o := range offered {
		if k := NormalizeKey(o); k != "" {
			have[k] = struct{}{}
		}
	}
	seen := make(map[string]struct{}, len(wanted))
	n := 0
	for _, w := range wanted {
		k := NormalizeKey(w)
		if k == "" {
			continue
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		if _, ok := have[k]; ok {
			n++
		}
	}
	return n
}

// DistinctNonEmpty returns the number of distinct non-blank values.
func DistinctNonEmpty(values []string) int {
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		if k := NormalizeKey(v); k != "" {
			seen[k] = struct{}{}
		}
	}
	return len(seen)
}
