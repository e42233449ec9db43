package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/santekene/ai-service/internal/domain/entities"
)

const wellFormedTriage = `{
  "severity": "high",
  "summary": "Fièvre élevée avec frissons depuis trois jours, évocatrice d'un accès palustre.",
  "recommendations": ["Faire un test de diagnostic rapide du paludisme", "Bien s'hydrater"],
  "specialties": ["Médecine générale", "Infectiologie"],
  "urgency_level": 3,
  "facility_type": "hospital",
  "consultation_type": "in-person"
}`

func TestStripCodeFences(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "no fence", input: `  {"a":1}  `, want: `{"a":1}`},
		{name: "json fence", input: "```json\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "bare fence", input: "```\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "upper-case tag", input: "```JSON\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "single line", input: "```json{\"a\":1}```", want: `{"a":1}`},
		{name: "content on fence line", input: "```{\"a\":1}\n```", want: `{"a":1}`},
		{name: "surrounding whitespace", input: "\n\n```json\n{\"a\":1}\n```\n", want: `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripCodeFences(tt.input))
		})
	}
}

func TestNormalizeTriageWellFormed(t *testing.T) {
	result, ok := NormalizeTriage(context.Background(), wellFormedTriage)
	require.True(t, ok)

	assert.Equal(t, entities.SeverityHigh, result.Severity)
	assert.Equal(t, 3, result.UrgencyLevel)
	assert.Equal(t, entities.FacilityHospital, result.FacilityType)
	assert.Equal(t, entities.ConsultationInPerson, result.ConsultationType)
	assert.Equal(t, []string{"Médecine générale", "Infectiologie"}, result.Specialties)
	assert.Len(t, result.Recommendations, 2)
	assert.False(t, result.Fallback)
	assert.Empty(t, result.RawResponse)
	assert.NotNil(t, result.Doctors)
	assert.NotNil(t, result.HealthCenters)
}

func TestNormalizeTriageFencedEqualsUnfenced(t *testing.T) {
	plain, ok := NormalizeTriage(context.Background(), wellFormedTriage)
	require.True(t, ok)

	fenced, ok := NormalizeTriage(context.Background(), "```json\n"+wellFormedTriage+"\n```")
	require.True(t, ok)

	assert.Equal(t, plain, fenced)
}

func TestNormalizeTriageMalformed(t *testing.T) {
	raw := "Je pense qu'il s'agit d'une grippe. Sévérité : modérée."
	result, ok := NormalizeTriage(context.Background(), raw)
	require.False(t, ok)

	assert.Equal(t, entities.SeverityModerate, result.Severity)
	assert.Equal(t, 2, result.UrgencyLevel)
	assert.Equal(t, entities.FacilityHealthCenter, result.FacilityType)
	assert.Equal(t, entities.ConsultationInPerson, result.ConsultationType)
	assert.Equal(t, []string{defaultSpecialty}, result.Specialties)
	assert.True(t, result.Fallback)
	assert.Equal(t, raw, result.RawResponse)
	assert.Equal(t, DegradedMessage(entities.ReasonParseError), result.Message)
}

func TestNormalizeTriageNonObject(t *testing.T) {
	for _, raw := range []string{"null", `["low"]`, `"urgent"`, ""} {
		_, ok := NormalizeTriage(context.Background(), raw)
		assert.False(t, ok, raw)
	}
}

func TestNormalizeTriageCoercesInvalidValues(t *testing.T) {
	raw := `{
	  "severity": "catastrophic",
	  "summary": "  ",
	  "urgency_level": 9,
	  "facility_type": "spa",
	  "consultation_type": "carrier pigeon"
	}`
	result, ok := NormalizeTriage(context.Background(), raw)
	require.True(t, ok)

	assert.Equal(t, entities.SeverityModerate, result.Severity)
	assert.Equal(t, 2, result.UrgencyLevel)
	assert.Equal(t, entities.FacilityHealthCenter, result.FacilityType)
	assert.Equal(t, entities.ConsultationInPerson, result.ConsultationType)
	assert.Equal(t, defaultTriageSummary, result.Summary)
	assert.Equal(t, []string{defaultRecommendation}, result.Recommendations)
	assert.Equal(t, []string{defaultSpecialty}, result.Specialties)
	assert.False(t, result.Fallback)
}

func TestNormalizeTriageUrgencyDerivedFromSeverity(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{raw: `{"severity":"low"}`, want: 1},
		{raw: `{"severity":"moderate","urgency_level":0}`, want: 2},
		{raw: `{"severity":"high","urgency_level":"x"}`, want: 3},
		{raw: `{"severity":"urgent","urgency_level":2.5}`, want: 4},
		{raw: `{"severity":"urgent","urgency_level":"3"}`, want: 3},
	}
	for _, tt := range tests {
		result, ok := NormalizeTriage(context.Background(), tt.raw)
		require.True(t, ok)
		assert.Equal(t, tt.want, result.UrgencyLevel, tt.raw)
	}
}

func TestNormalizeTriageAcceptsLabelVariants(t *testing.T) {
	raw := `{
	  "severity": "Élevé",
	  "facility_type": "Health Center",
	  "consultation_type": "Téléconsultation",
	  "recommendations": "Se reposer",
	  "specialties": ["Cardiologie", "Cardiologie", ""]
	}`
	result, ok := NormalizeTriage(context.Background(), raw)
	require.True(t, ok)

	assert.Equal(t, entities.SeverityHigh, result.Severity)
	assert.Equal(t, entities.FacilityHealthCenter, result.FacilityType)
	assert.Equal(t, entities.ConsultationTeleconsultation, result.ConsultationType)
	assert.Equal(t, []string{"Se reposer"}, result.Recommendations)
	assert.Equal(t, []string{"Cardiologie"}, result.Specialties)
}

func TestNormalizeTriageDropsNonStringListItems(t *testing.T) {
	raw := `{"severity":"low","summary":42,"specialties":[1, null, {"name":"Cardiologie"}, " Pédiatrie "],"recommendations":[true, 3.5]}`
	result, ok := NormalizeTriage(context.Background(), raw)
	require.True(t, ok)

	assert.Equal(t, "42", result.Summary)
	assert.Equal(t, []string{"Pédiatrie"}, result.Specialties)
	assert.Equal(t, []string{defaultRecommendation}, result.Recommendations)
}

func TestNormalizeTriageNumericSpecialtiesFallBackToDefault(t *testing.T) {
	result, ok := NormalizeTriage(context.Background(), `{"severity":"low","specialties":[1, 2]}`)
	require.True(t, ok)

	assert.Equal(t, []string{defaultSpecialty}, result.Specialties)
}

func TestNormalizeTriageIgnoresModelDerivedFields(t *testing.T) {
	raw := `{"severity":"low","severity_label":"Catastrophique","severity_color":"black","fallback":true}`
	result, ok := NormalizeTriage(context.Background(), raw)
	require.True(t, ok)

	assert.Empty(t, result.SeverityLabel)
	assert.Empty(t, result.SeverityColor)
	assert.False(t, result.Fallback)
}

func TestSchemaViolations(t *testing.T) {
	doc, err := decodeObject(wellFormedTriage)
	require.NoError(t, err)
	assert.Empty(t, schemaViolations(triageSchema, doc))

	doc, err = decodeObject(`{"severity":"catastrophic","urgency_level":7}`)
	require.NoError(t, err)
	violations := schemaViolations(triageSchema, doc)
	assert.NotEmpty(t, violations)
}

func TestNormalizeMedicalAssistant(t *testing.T) {
	raw := "```json\n" + `{
	  "differential_diagnosis": ["Paludisme simple", "Fièvre typhoïde"],
	  "recommended_tests": ["TDR paludisme", "NFS"],
	  "treatment_suggestions": ["Artéméther-luméfantrine selon le poids"],
	  "red_flags": ["Troubles de la conscience"],
	  "confidence_level": "HIGH",
	  "explanation": "Tableau fébrile typique en zone d'endémie."
	}` + "\n```"

	result, ok := NormalizeMedicalAssistant(context.Background(), raw)
	require.True(t, ok)

	assert.Equal(t, []string{"Paludisme simple", "Fièvre typhoïde"}, result.DifferentialDiagnosis)
	assert.Equal(t, entities.ConfidenceHigh, result.ConfidenceLevel)
	assert.Equal(t, medicalDisclaimer, result.Disclaimer)
	assert.Equal(t, defaultFollowUp, result.FollowUp)
	assert.NotNil(t, result.Precautions)
	assert.Empty(t, result.Precautions)
}

func TestNormalizeMedicalAssistantDefaults(t *testing.T) {
	result, ok := NormalizeMedicalAssistant(context.Background(), `{"confidence_level":"certain"}`)
	require.True(t, ok)

	assert.Equal(t, entities.ConfidenceMedium, result.ConfidenceLevel)
	assert.NotNil(t, result.DifferentialDiagnosis)
	assert.NotNil(t, result.RecommendedTests)
	assert.NotNil(t, result.TreatmentSuggestions)
	assert.NotNil(t, result.RedFlags)
	assert.Equal(t, defaultExplanation, result.Explanation)
}

func TestNormalizeMedicalAssistantMalformed(t *testing.T) {
	result, ok := NormalizeMedicalAssistant(context.Background(), "{not json")
	require.False(t, ok)

	assert.True(t, result.Fallback)
	assert.Equal(t, entities.ConfidenceLow, result.ConfidenceLevel)
	assert.Equal(t, "{not json", result.RawResponse)
	assert.Equal(t, medicalDisclaimer, result.Disclaimer)
}
