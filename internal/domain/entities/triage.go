package entities

import "strings"

// Severity is the urgency band assigned to reported symptoms
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityModerate Severity = "moderate"
	SeverityHigh     Severity = "high"
	SeverityUrgent   Severity = "urgent"
)

// Severities lists the closed severity enumeration in ascending order.
var Severities = []Severity{SeverityLow, SeverityModerate, SeverityHigh, SeverityUrgent}

// Valid reports whether s belongs to the severity enumeration
func (s Severity) Valid() bool {
	switch s {
	case SeverityLow, SeverityModerate, SeverityHigh, SeverityUrgent:
		return true
	}
	return false
}

// UrgencyLevel maps the severity onto the 1-4 urgency scale.
func (s Severity) UrgencyLevel() int {
	switch s {
	case SeverityLow:
		return 1
	case SeverityHigh:
		return 3
	case SeverityUrgent:
		return 4
	default:
		return 2
	}
}

// FacilityType is the recommended venue for care
type FacilityType string

const (
	FacilityEmergency    FacilityType = "emergency"
	FacilityHospital     FacilityType = "hospital"
	FacilityHealthCenter FacilityType = "health-center"
	FacilityClinic       FacilityType = "clinic"
	FacilityPharmacy     FacilityType = "pharmacy"
)

// FacilityTypes lists the closed facility enumeration.
var FacilityTypes = []FacilityType{FacilityEmergency, FacilityHospital, FacilityHealthCenter, FacilityClinic, FacilityPharmacy}

// Valid reports whether f belongs to the facility enumeration
func (f FacilityType) Valid() bool {
	switch f {
	case FacilityEmergency, FacilityHospital, FacilityHealthCenter, FacilityClinic, FacilityPharmacy:
		return true
	}
	return false
}

// ConsultationType is the recommended care pathway
type ConsultationType string

const (
	ConsultationEmergency        ConsultationType = "emergency"
	ConsultationInPerson         ConsultationType = "in-person"
	ConsultationTeleconsultation ConsultationType = "teleconsultation"
	ConsultationSelfCare         ConsultationType = "self-care"
)

// ConsultationTypes lists the closed consultation enumeration.
var ConsultationTypes = []ConsultationType{ConsultationEmergency, ConsultationInPerson, ConsultationTeleconsultation, ConsultationSelfCare}

// Valid reports whether c belongs to the consultation enumeration
func (c ConsultationType) Valid() bool {
	switch c {
	case ConsultationEmergency, ConsultationInPerson, ConsultationTeleconsultation, ConsultationSelfCare:
		return true
	}
	return false
}

// CanonicalLabel lowercases, trims and dashes a model-produced category label
// so that "Health Center" or "health_center" match "health-center".
func CanonicalLabel(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.NewReplacer("_", "-", " ", "-").Replace(s)
	return s
}

// Coordinates represents a caller-supplied geolocation
type Coordinates struct {
	Latitude  float64 `json:"latitude" validate:"latitude"`
	Longitude float64 `json:"longitude" validate:"longitude"`
}

// TriageRequest is a patient's symptom description
type TriageRequest struct {
	Symptoms string       `validate:"required"`
	Location *Coordinates `validate:"omitempty"`
	// AuthToken is forwarded to the doctor / health-center lookup service.
	AuthToken string
}

// TriageResult is the response shape consumed by the patient frontend.
// The label and color fields are derived from the categorical fields and
// are always recomputed after parsing.
type TriageResult struct {
	Severity              Severity         `json:"severity"`
	SeverityLabel         string           `json:"severity_label"`
	SeverityColor         string           `json:"severity_color"`
	Summary               string           `json:"summary"`
	Recommendations       []string         `json:"recommendations"`
	Specialties           []string         `json:"specialties"`
	UrgencyLevel          int              `json:"urgency_level"`
	FacilityType          FacilityType     `json:"facility_type"`
	FacilityTypeLabel     string           `json:"facility_type_label"`
	ConsultationType      ConsultationType `json:"consultation_type"`
	ConsultationTypeLabel string           `json:"consultation_type_label"`
	Doctors               []Doctor         `json:"doctors"`
	HealthCenters         []HealthCenter   `json:"health_centers"`
	Fallback              bool             `json:"fallback,omitempty"`
	Message               string           `json:"message,omitempty"`
	RawResponse           string           `json:"raw_response,omitempty"`
}

// TriageOutcome wraps a triage result with the variant that produced it.
type TriageOutcome struct {
	Variant OutcomeVariant
	Reason  DegradedReason
	Result  TriageResult
	Err     error
}

// Degraded reports whether the result is a fallback
func (o TriageOutcome) Degraded() bool {
	return o.Variant == OutcomeDegraded
}
