package services

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/xeipuuv/gojsonschema"

	"github.com/santekene/ai-service/internal/domain/entities"
	"github.com/santekene/ai-service/internal/infrastructure/observability"
)

const (
	defaultTriageSummary  = "Analyse des symptômes effectuée. Consultez un professionnel de santé pour un diagnostic précis."
	defaultSpecialty      = "Médecine générale"
	defaultFollowUp       = "Réévaluation clinique recommandée selon l'évolution des symptômes."
	defaultExplanation    = "Analyse fondée sur les informations cliniques fournies."
	medicalDisclaimer     = "Ces suggestions sont une aide à la décision et ne remplacent pas le jugement clinique du médecin. Le diagnostic et la prescription relèvent de la responsabilité du praticien."
	defaultRecommendation = "Consultez un médecin pour un examen approfondi."
)

// Both schemas only describe the expected shape; violations are logged and the
// document is still normalized field by field.
const triageSchemaJSON = `{
  "type": "object",
  "required": ["severity", "summary", "recommendations", "specialties", "urgency_level", "facility_type", "consultation_type"],
  "properties": {
    "severity": {"enum": ["low", "moderate", "high", "urgent"]},
    "summary": {"type": "string"},
    "recommendations": {"type": "array", "items": {"type": "string"}},
    "specialties": {"type": "array", "items": {"type": "string"}},
    "urgency_level": {"type": "integer", "minimum": 1, "maximum": 4},
    "facility_type": {"enum": ["emergency", "hospital", "health-center", "clinic", "pharmacy"]},
    "consultation_type": {"enum": ["emergency", "in-person", "teleconsultation", "self-care"]}
  }
}`

const medicalAssistantSchemaJSON = `{
  "type": "object",
  "required": ["differential_diagnosis", "recommended_tests", "treatment_suggestions", "red_flags", "confidence_level", "explanation"],
  "properties": {
    "differential_diagnosis": {"type": "array", "items": {"type": "string"}},
    "recommended_tests": {"type": "array", "items": {"type": "string"}},
    "treatment_suggestions": {"type": "array", "items": {"type": "string"}},
    "red_flags": {"type": "array", "items": {"type": "string"}},
    "precautions": {"type": "array", "items": {"type": "string"}},
    "follow_up": {"type": "string"},
    "confidence_level": {"enum": ["low", "medium", "high"]},
    "explanation": {"type": "string"},
    "disclaimer": {"type": "string"}
  }
}`

var (
	triageSchema           = mustSchema(triageSchemaJSON)
	medicalAssistantSchema = mustSchema(medicalAssistantSchemaJSON)
)

func mustSchema(source string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(source))
	if err != nil {
		panic(err)
	}
	return schema
}

var severityAliases = map[string]entities.Severity{
	"faible":   entities.SeverityLow,
	"bas":      entities.SeverityLow,
	"basse":    entities.SeverityLow,
	"mild":     entities.SeverityLow,
	"modéré":   entities.SeverityModerate,
	"modérée":  entities.SeverityModerate,
	"modere":   entities.SeverityModerate,
	"moyen":    entities.SeverityModerate,
	"moyenne":  entities.SeverityModerate,
	"medium":   entities.SeverityModerate,
	"élevé":    entities.SeverityHigh,
	"élevée":   entities.SeverityHigh,
	"eleve":    entities.SeverityHigh,
	"severe":   entities.SeverityHigh,
	"sévère":   entities.SeverityHigh,
	"critique": entities.SeverityUrgent,
	"critical": entities.SeverityUrgent,
	"urgence":  entities.SeverityUrgent,
}

var facilityAliases = map[string]entities.FacilityType{
	"urgences":        entities.FacilityEmergency,
	"emergency-room":  entities.FacilityEmergency,
	"hôpital":         entities.FacilityHospital,
	"hopital":         entities.FacilityHospital,
	"centre-de-santé": entities.FacilityHealthCenter,
	"centre-de-sante": entities.FacilityHealthCenter,
	"health-centre":   entities.FacilityHealthCenter,
	"healthcenter":    entities.FacilityHealthCenter,
	"cscom":           entities.FacilityHealthCenter,
	"clinique":        entities.FacilityClinic,
	"pharmacie":       entities.FacilityPharmacy,
}

var consultationAliases = map[string]entities.ConsultationType{
	"urgence":          entities.ConsultationEmergency,
	"urgent":           entities.ConsultationEmergency,
	"inperson":         entities.ConsultationInPerson,
	"présentiel":       entities.ConsultationInPerson,
	"presentiel":       entities.ConsultationInPerson,
	"téléconsultation": entities.ConsultationTeleconsultation,
	"telemedicine":     entities.ConsultationTeleconsultation,
	"télémédecine":     entities.ConsultationTeleconsultation,
	"selfcare":         entities.ConsultationSelfCare,
	"soins-à-domicile": entities.ConsultationSelfCare,
	"home-care":        entities.ConsultationSelfCare,
}

var confidenceAliases = map[string]entities.ConfidenceLevel{
	"faible":   entities.ConfidenceLow,
	"moyenne":  entities.ConfidenceMedium,
	"moyen":    entities.ConfidenceMedium,
	"moderate": entities.ConfidenceMedium,
	"élevée":   entities.ConfidenceHigh,
	"elevee":   entities.ConfidenceHigh,
	"haute":    entities.ConfidenceHigh,
}

var errNotAnObject = errors.New("model output is not a JSON object")

// StripCodeFences removes a surrounding markdown code fence (``` or ```json)
// from model output.
func StripCodeFences(text string) string {
	s := strings.TrimSpace(text)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	s = s[3:]
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		if tag := strings.TrimSpace(s[:i]); !strings.ContainsAny(tag, "{[\" ") {
			s = s[i+1:]
		}
	} else {
		s = strings.TrimPrefix(s, "json")
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// NormalizeTriage parses model output into a TriageResult. The boolean is
// false when the output was not JSON, in which case the parse fallback
// (carrying the raw text) is returned.
func NormalizeTriage(ctx context.Context, raw string) (entities.TriageResult, bool) {
	doc, err := decodeObject(StripCodeFences(raw))
	if err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Msg("triage output is not valid JSON")
		return triageFallback(entities.ReasonParseError, raw), false
	}
	logSchemaViolations(ctx, "triage", schemaViolations(triageSchema, doc))

	result := entities.TriageResult{
		Severity:         parseSeverity(doc["severity"]),
		Summary:          stringValue(doc["summary"]),
		Recommendations:  stringList(doc["recommendations"]),
		Specialties:      lo.Uniq(stringList(doc["specialties"])),
		FacilityType:     parseFacilityType(doc["facility_type"]),
		ConsultationType: parseConsultationType(doc["consultation_type"]),
		Doctors:          []entities.Doctor{},
		HealthCenters:    []entities.HealthCenter{},
	}

	if result.Summary == "" {
		result.Summary = defaultTriageSummary
	}
	if len(result.Recommendations) == 0 {
		result.Recommendations = []string{defaultRecommendation}
	}
	if len(result.Specialties) == 0 {
		result.Specialties = []string{defaultSpecialty}
	}
	if level, ok := intValue(doc["urgency_level"]); ok && level >= 1 && level <= 4 {
		result.UrgencyLevel = level
	} else {
		result.UrgencyLevel = result.Severity.UrgencyLevel()
	}

	return result, true
}

// NormalizeMedicalAssistant parses model output into a MedicalAssistantResult,
// with the same fallback contract as NormalizeTriage.
func NormalizeMedicalAssistant(ctx context.Context, raw string) (entities.MedicalAssistantResult, bool) {
	doc, err := decodeObject(StripCodeFences(raw))
	if err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Msg("medical assistant output is not valid JSON")
		return medicalAssistantFallback(entities.ReasonParseError, raw), false
	}
	logSchemaViolations(ctx, "medical_assistant", schemaViolations(medicalAssistantSchema, doc))

	result := entities.MedicalAssistantResult{
		DifferentialDiagnosis: stringList(doc["differential_diagnosis"]),
		RecommendedTests:      stringList(doc["recommended_tests"]),
		TreatmentSuggestions:  stringList(doc["treatment_suggestions"]),
		RedFlags:              stringList(doc["red_flags"]),
		Precautions:           stringList(doc["precautions"]),
		FollowUp:              stringValue(doc["follow_up"]),
		ConfidenceLevel:       parseConfidence(doc["confidence_level"]),
		Explanation:           stringValue(doc["explanation"]),
		Disclaimer:            stringValue(doc["disclaimer"]),
	}

	if result.FollowUp == "" {
		result.FollowUp = defaultFollowUp
	}
	if result.Explanation == "" {
		result.Explanation = defaultExplanation
	}
	if result.Disclaimer == "" {
		result.Disclaimer = medicalDisclaimer
	}

	return result, true
}

func decodeObject(text string) (map[string]interface{}, error) {
	var doc map[string]interface{}
	if err := json.Unmarshal([]byte(text), &doc); err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, errNotAnObject
	}
	return doc, nil
}

func schemaViolations(schema *gojsonschema.Schema, doc map[string]interface{}) []string {
	result, err := schema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return []string{err.Error()}
	}
	if result.Valid() {
		return nil
	}
	return lo.Map(result.Errors(), func(e gojsonschema.ResultError, _ int) string {
		return e.String()
	})
}

func logSchemaViolations(ctx context.Context, operation string, violations []string) {
	if len(violations) == 0 {
		return
	}
	observability.LoggerFromContext(ctx).Info().
		Str("operation", operation).
		Strs("violations", violations).
		Msg("model output deviates from schema, applying defaults")
}

func parseSeverity(v interface{}) entities.Severity {
	label := entities.CanonicalLabel(stringValue(v))
	if s := entities.Severity(label); s.Valid() {
		return s
	}
	if s, ok := severityAliases[label]; ok {
		return s
	}
	return entities.SeverityModerate
}

func parseFacilityType(v interface{}) entities.FacilityType {
	label := entities.CanonicalLabel(stringValue(v))
	if f := entities.FacilityType(label); f.Valid() {
		return f
	}
	if f, ok := facilityAliases[label]; ok {
		return f
	}
	return entities.FacilityHealthCenter
}

func parseConsultationType(v interface{}) entities.ConsultationType {
	label := entities.CanonicalLabel(stringValue(v))
	if c := entities.ConsultationType(label); c.Valid() {
		return c
	}
	if c, ok := consultationAliases[label]; ok {
		return c
	}
	return entities.ConsultationInPerson
}

func parseConfidence(v interface{}) entities.ConfidenceLevel {
	label := entities.CanonicalLabel(stringValue(v))
	if c := entities.ConfidenceLevel(label); c.Valid() {
		return c
	}
	if c, ok := confidenceAliases[label]; ok {
		return c
	}
	return entities.ConfidenceMedium
}

func stringValue(v interface{}) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	}
	return ""
}

// stringList accepts a JSON array of strings or a single string, and always
// returns a non-nil slice. Non-string array items are dropped.
func stringList(v interface{}) []string {
	out := []string{}
	switch t := v.(type) {
	case []interface{}:
		for _, item := range t {
			s, ok := item.(string)
			if !ok {
				continue
			}
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	case string:
		if s := strings.TrimSpace(t); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func intValue(v interface{}) (int, bool) {
	switch t := v.(type) {
	case float64:
		if t != math.Trunc(t) {
			return 0, false
		}
		return int(t), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			return 0, false
		}
		return n, true
	}
	return 0, false
}
