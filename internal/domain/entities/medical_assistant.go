package entities

// ConfidenceLevel is the model's self-reported confidence
type ConfidenceLevel string

const (
	ConfidenceLow    ConfidenceLevel = "low"
	ConfidenceMedium ConfidenceLevel = "medium"
	ConfidenceHigh   ConfidenceLevel = "high"
)

// Valid reports whether c belongs to the confidence enumeration
func (c ConfidenceLevel) Valid() bool {
	switch c {
	case ConfidenceLow, ConfidenceMedium, ConfidenceHigh:
		return true
	}
	return false
}

// MedicalAssistantRequest is a clinician's case description
type MedicalAssistantRequest struct {
	Symptoms        string
	PatientInfo     string
	MedicalHistory  string
	CurrentFindings string
}

// MedicalAssistantResult is the structured decision-support answer shown to doctors
type MedicalAssistantResult struct {
	DifferentialDiagnosis []string        `json:"differential_diagnosis"`
	RecommendedTests      []string        `json:"recommended_tests"`
	TreatmentSuggestions  []string        `json:"treatment_suggestions"`
	RedFlags              []string        `json:"red_flags"`
	Precautions           []string        `json:"precautions"`
	FollowUp              string          `json:"follow_up"`
	ConfidenceLevel       ConfidenceLevel `json:"confidence_level"`
	ConfidenceLabel       string          `json:"confidence_label"`
	Explanation           string          `json:"explanation"`
	Disclaimer            string          `json:"disclaimer"`
	Fallback              bool            `json:"fallback,omitempty"`
	Message               string          `json:"message,omitempty"`
	RawResponse           string          `json:"raw_response,omitempty"`
}

// MedicalAssistantOutcome wraps a medical-assistant result with its variant.
type MedicalAssistantOutcome struct {
	Variant OutcomeVariant
	Reason  DegradedReason
	Result  MedicalAssistantResult
	Err     error
}

// Degraded reports whether the result is a fallback
func (o MedicalAssistantOutcome) Degraded() bool {
	return o.Variant == OutcomeDegraded
}
