package evaluation

import (
	"time"

	"github.com/santekene/ai-service/internal/domain/entities"
)

// GoldenCase is a labeled symptom description with the expected triage.
type GoldenCase struct {
	ID                  string                  `json:"id"`
	Symptoms            string                  `json:"symptoms"`
	ExpectedSeverity    entities.Severity       `json:"expected_severity"`
	ExpectedFacilities  []entities.FacilityType `json:"expected_facility_types"`
	ExpectedSpecialties []string                `json:"expected_specialties"`
	Difficulty          string                  `json:"difficulty"` // easy, medium, hard
}

// CaseResult holds the evaluation outcome for a single case.
type CaseResult struct {
	CaseID           string
	Severity         entities.Severity
	SeverityExact    bool
	SeverityDistance int
	FacilityMatch    bool
	SpecialtyRecall  float64
	Degraded         bool
	Latency          time.Duration
}

// Summary holds aggregate metrics across all golden cases.
type Summary struct {
	TotalCases         int                                    `json:"total_cases"`
	SeverityAccuracy   float64                                `json:"severity_accuracy"`
	WithinOneAccuracy  float64                                `json:"within_one_accuracy"`
	UnderTriageRate    float64                                `json:"under_triage_rate"`
	FacilityAccuracy   float64                                `json:"facility_accuracy"`
	AvgSpecialtyRecall float64                                `json:"avg_specialty_recall"`
	DegradedRate       float64                                `json:"degraded_rate"`
	AvgLatency         time.Duration                          `json:"avg_latency"`
	BySeverity         map[entities.Severity]*SeveritySummary `json:"by_severity"`
	Failures           []string                               `json:"failures,omitempty"`
}

// SeveritySummary groups results by expected severity.
type SeveritySummary struct {
	Count    int     `json:"count"`
	Accuracy float64 `json:"accuracy"`
}

