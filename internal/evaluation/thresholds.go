package evaluation

import "fmt"

// Thresholds are the minimum quality bars a model must clear.
type Thresholds struct {
	MinSeverityAccuracy  float64
	MinWithinOneAccuracy float64
	MaxUnderTriageRate   float64
	MaxDegradedRate      float64
}

// DefaultThresholds returns the bars used before switching provider or model.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MinSeverityAccuracy:  0.6,
		MinWithinOneAccuracy: 0.9,
		MaxUnderTriageRate:   0.1,
		MaxDegradedRate:      0.05,
	}
}

// Check lists every threshold the summary violates.
func (t Thresholds) Check(s *Summary) []string {
	var violations []string
	if s.TotalCases == 0 {
		return []string{"no case was evaluated"}
	}
	if s.SeverityAccuracy < t.MinSeverityAccuracy {
		violations = append(violations, fmt.Sprintf("severity accuracy %.2f < %.2f", s.SeverityAccuracy, t.MinSeverityAccuracy))
	}
	if s.WithinOneAccuracy < t.MinWithinOneAccuracy {
		violations = append(violations, fmt.Sprintf("within-one accuracy %.2f < %.2f", s.WithinOneAccuracy, t.MinWithinOneAccuracy))
	}
	if s.UnderTriageRate > t.MaxUnderTriageRate {
		violations = append(violations, fmt.Sprintf("under-triage rate %.2f > %.2f", s.UnderTriageRate, t.MaxUnderTriageRate))
	}
	if s.DegradedRate > t.MaxDegradedRate {
		violations = append(violations, fmt.Sprintf("degraded rate %.2f > %.2f", s.DegradedRate, t.MaxDegradedRate))
	}
	return violations
}
