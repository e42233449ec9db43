package services

import "github.com/santekene/ai-service/internal/domain/entities"

var degradedMessages = map[entities.DegradedReason]string{
	entities.ReasonProviderError: "Service d'analyse IA temporairement indisponible. Veuillez réessayer plus tard.",
	entities.ReasonParseError:    "La réponse de l'IA n'a pas pu être analysée. Des recommandations générales vous sont proposées.",
	entities.ReasonMissingInput:  "Les symptômes sont requis pour l'analyse.",
}

// DegradedMessage returns the user-facing message for a fallback reason
func DegradedMessage(reason entities.DegradedReason) string {
	if msg, ok := degradedMessages[reason]; ok {
		return msg
	}
	return degradedMessages[entities.ReasonProviderError]
}

// triageFallback builds the fixed triage payload served when no model
// result is usable. raw is echoed only for parse failures.
func triageFallback(reason entities.DegradedReason, raw string) entities.TriageResult {
	result := entities.TriageResult{
		Severity: entities.SeverityModerate,
		Summary:  "L'analyse automatique de vos symptômes n'a pas pu être finalisée. Un professionnel de santé pourra évaluer votre situation.",
		Recommendations: []string{
			"Consultez un médecin généraliste pour évaluer vos symptômes.",
			"En cas d'aggravation ou de signe de danger, rendez-vous immédiatement aux urgences les plus proches.",
		},
		Specialties:      []string{defaultSpecialty},
		UrgencyLevel:     entities.SeverityModerate.UrgencyLevel(),
		FacilityType:     entities.FacilityHealthCenter,
		ConsultationType: entities.ConsultationInPerson,
		Doctors:          []entities.Doctor{},
		HealthCenters:    []entities.HealthCenter{},
		Fallback:         true,
		Message:          DegradedMessage(reason),
	}
	if reason == entities.ReasonParseError {
		result.RawResponse = raw
	}
	return result
}

func medicalAssistantFallback(reason entities.DegradedReason, raw string) entities.MedicalAssistantResult {
	result := entities.MedicalAssistantResult{
		DifferentialDiagnosis: []string{},
		RecommendedTests:      []string{"Examen clinique complet"},
		TreatmentSuggestions:  []string{},
		RedFlags:              []string{},
		Precautions:           []string{"Réévaluer le patient en cas d'aggravation des symptômes."},
		FollowUp:              defaultFollowUp,
		ConfidenceLevel:       entities.ConfidenceLow,
		Explanation:           "L'assistant IA n'a pas pu produire d'analyse pour ce cas.",
		Disclaimer:            medicalDisclaimer,
		Fallback:              true,
		Message:               DegradedMessage(reason),
	}
	if reason == entities.ReasonParseError {
		result.RawResponse = raw
	}
	return result
}
