package services

import "github.com/santekene/ai-service/internal/domain/entities"

// SeverityDisplay is the label and color tag shown for a severity
type SeverityDisplay struct {
	Label string
	Color string
}

var severityDisplays = map[entities.Severity]SeverityDisplay{
	entities.SeverityLow:      {Label: "Faible", Color: "green"},
	entities.SeverityModerate: {Label: "Modéré", Color: "yellow"},
	entities.SeverityHigh:     {Label: "Élevé", Color: "orange"},
	entities.SeverityUrgent:   {Label: "Urgent", Color: "red"},
}

var facilityLabels = map[entities.FacilityType]string{
	entities.FacilityEmergency:    "Service des urgences",
	entities.FacilityHospital:     "Hôpital",
	entities.FacilityHealthCenter: "Centre de santé",
	entities.FacilityClinic:       "Clinique",
	entities.FacilityPharmacy:     "Pharmacie",
}

var consultationLabels = map[entities.ConsultationType]string{
	entities.ConsultationEmergency:        "Consultation d'urgence",
	entities.ConsultationInPerson:         "Consultation en présentiel",
	entities.ConsultationTeleconsultation: "Téléconsultation",
	entities.ConsultationSelfCare:         "Soins à domicile",
}

var confidenceLabels = map[entities.ConfidenceLevel]string{
	entities.ConfidenceLow:    "Confiance faible",
	entities.ConfidenceMedium: "Confiance moyenne",
	entities.ConfidenceHigh:   "Confiance élevée",
}

// SeverityPresentation returns the display entry for s, or the moderate one.
func SeverityPresentation(s entities.Severity) SeverityDisplay {
	if d, ok := severityDisplays[s]; ok {
		return d
	}
	return severityDisplays[entities.SeverityModerate]
}

// FacilityLabel returns the display label for f, or the health-center one.
func FacilityLabel(f entities.FacilityType) string {
	if label, ok := facilityLabels[f]; ok {
		return label
	}
	return facilityLabels[entities.FacilityHealthCenter]
}

// ConsultationLabel returns the display label for c, or the in-person one.
func ConsultationLabel(c entities.ConsultationType) string {
	if label, ok := consultationLabels[c]; ok {
		return label
	}
	return consultationLabels[entities.ConsultationInPerson]
}

// ConfidenceLabel returns the display label for c, or the medium one.
func ConfidenceLabel(c entities.ConfidenceLevel) string {
	if label, ok := confidenceLabels[c]; ok {
		return label
	}
	return confidenceLabels[entities.ConfidenceMedium]
}

// EnrichTriage overwrites the derived display fields from the categorical ones.
func EnrichTriage(result *entities.TriageResult) {
	display := SeverityPresentation(result.Severity)
	result.SeverityLabel = display.Label
	result.SeverityColor = display.Color
	result.FacilityTypeLabel = FacilityLabel(result.FacilityType)
	result.ConsultationTypeLabel = ConsultationLabel(result.ConsultationType)
}

// EnrichMedicalAssistant overwrites the confidence label.
func EnrichMedicalAssistant(result *entities.MedicalAssistantResult) {
	result.ConfidenceLabel = ConfidenceLabel(result.ConfidenceLevel)
}
