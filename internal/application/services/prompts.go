package services

import (
	"fmt"
	"strings"

	"github.com/santekene/ai-service/internal/domain/entities"
	"github.com/santekene/ai-service/internal/domain/providers"
)

// Prompt is a system instruction plus the user message it applies to.
type Prompt struct {
	System string
	User   string
}

// generation parameters per use case
type generationParams struct {
	Temperature float32
	MaxTokens   int
}

var (
	triageParams           = generationParams{Temperature: 0.2, MaxTokens: 800}
	medicalAssistantParams = generationParams{Temperature: 0.3, MaxTokens: 2000}
)

func (p Prompt) completionRequest(params generationParams) providers.CompletionRequest {
	return providers.CompletionRequest{
		SystemPrompt: p.System,
		UserPrompt:   p.User,
		Temperature:  params.Temperature,
		MaxTokens:    params.MaxTokens,
		JSONMode:     true,
	}
}

const (
	notProvided       = "Non renseigné"
	evaluationPending = "Évaluation en cours"
)

const triageSystemPrompt = `Tu es un assistant médical de triage pour la plateforme Santé Kènè au Mali.
Ta tâche est d'analyser les symptômes décrits par un patient, d'évaluer leur gravité et d'orienter le patient vers le bon type de soins.
Tu ne poses pas de diagnostic définitif et tu réponds toujours en français.

Réponds UNIQUEMENT avec un objet JSON valide, sans texte avant ni après, de la forme suivante :
{
  "severity": "low" | "moderate" | "high" | "urgent",
  "summary": "résumé clair des symptômes et de l'évaluation (2 à 3 phrases)",
  "recommendations": ["conseil 1", "conseil 2", "conseil 3"],
  "specialties": ["spécialité médicale 1", "spécialité médicale 2"],
  "urgency_level": 1 | 2 | 3 | 4,
  "facility_type": "emergency" | "hospital" | "health-center" | "clinic" | "pharmacy",
  "consultation_type": "emergency" | "in-person" | "teleconsultation" | "self-care"
}

Règles de classification :
- severity "low" (urgency_level 1) : symptômes bénins, sans signe de gravité ; soins à domicile ou pharmacie.
- severity "moderate" (urgency_level 2) : consultation recommandée dans les jours qui viennent ; centre de santé ou téléconsultation.
- severity "high" (urgency_level 3) : consultation rapide nécessaire dans les 24 heures ; hôpital ou clinique.
- severity "urgent" (urgency_level 4) : signes de danger vital (douleur thoracique, difficulté respiratoire, perte de connaissance, saignement important, convulsions) ; service des urgences immédiatement.
- facility_type doit correspondre au niveau de gravité : "emergency" pour urgent, "hospital" ou "clinic" pour high, "health-center" pour moderate, "pharmacy" ou "health-center" pour low.
- consultation_type : "emergency" pour urgent, "in-person" pour high ou moderate, "teleconsultation" si un avis à distance suffit, "self-care" pour les symptômes bénins.
- specialties : noms de spécialités en français (ex : "Médecine générale", "Cardiologie", "Pédiatrie", "Gynécologie").
- En cas de doute, choisis le niveau de gravité le plus élevé.`

const medicalAssistantSystemPrompt = `Tu es un assistant d'aide à la décision clinique destiné aux médecins de la plateforme Santé Kènè au Mali.
Tu analyses un cas clinique et proposes des pistes diagnostiques et thérapeutiques, en tenant compte du contexte local (paludisme, maladies infectieuses tropicales, disponibilité des examens).
Tes propositions ne remplacent jamais le jugement clinique du médecin. Tu réponds toujours en français.

Réponds UNIQUEMENT avec un objet JSON valide, sans texte avant ni après, de la forme suivante :
{
  "differential_diagnosis": ["diagnostic le plus probable", "diagnostic 2", "diagnostic 3"],
  "recommended_tests": ["examen 1", "examen 2"],
  "treatment_suggestions": ["piste thérapeutique 1", "piste thérapeutique 2"],
  "red_flags": ["signe d'alerte 1", "signe d'alerte 2"],
  "precautions": ["précaution 1", "précaution 2"],
  "follow_up": "modalités de suivi recommandées",
  "confidence_level": "low" | "medium" | "high",
  "explanation": "raisonnement clinique résumé",
  "disclaimer": "rappel que ces suggestions ne remplacent pas le jugement clinique"
}

Règles :
- Classe les diagnostics différentiels du plus probable au moins probable.
- confidence_level "low" si les informations sont insuffisantes, "medium" si plusieurs hypothèses restent plausibles, "high" si le tableau clinique est typique.
- Ne propose pas de posologie précise sans préciser qu'elle doit être adaptée au patient.`

// BuildTriagePrompt assembles the triage instruction with the patient's
// symptom text inserted verbatim.
func BuildTriagePrompt(symptoms string) Prompt {
	return Prompt{
		System: triageSystemPrompt,
		User:   fmt.Sprintf("Symptômes décrits par le patient :\n%s", symptoms),
	}
}

// BuildMedicalAssistantPrompt assembles the clinical decision-support instruction.
// Empty optional fields are replaced with placeholder text.
func BuildMedicalAssistantPrompt(req entities.MedicalAssistantRequest) Prompt {
	var b strings.Builder
	fmt.Fprintf(&b, "Symptômes : %s\n", req.Symptoms)
	fmt.Fprintf(&b, "Informations patient : %s\n", orDefault(req.PatientInfo, notProvided))
	fmt.Fprintf(&b, "Antécédents médicaux : %s\n", orDefault(req.MedicalHistory, notProvided))
	fmt.Fprintf(&b, "Examen clinique actuel : %s", orDefault(req.CurrentFindings, evaluationPending))

	return Prompt{
		System: medicalAssistantSystemPrompt,
		User:   b.String(),
	}
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
