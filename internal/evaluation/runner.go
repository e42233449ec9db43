package evaluation

import (
	"context"
	"fmt"
	"time"

	"github.com/santekene/ai-service/internal/domain/entities"
	"github.com/santekene/ai-service/internal/infrastructure/observability"
)

const specialtyRecallK = 3

// Triager is the part of the triage service the runner exercises.
type Triager interface {
	Triage(ctx context.Context, req entities.TriageRequest) (entities.TriageOutcome, error)
}

// Runner runs evaluation across a set of golden cases.
type Runner struct {
	triager Triager
}

func NewRunner(triager Triager) *Runner {
	return &Runner{triager: triager}
}

// Run triages every case in order. Cases the service rejects are recorded as
// failures and left out of the averages.
func (r *Runner) Run(ctx context.Context, cases []GoldenCase) (*Summary, error) {
	summary := &Summary{
		BySeverity: make(map[entities.Severity]*SeveritySummary),
	}
	logger := observability.LoggerFromContext(ctx)

	for _, gc := range cases {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		start := time.Now()
		outcome, err := r.triager.Triage(ctx, entities.TriageRequest{Symptoms: gc.Symptoms})
		duration := time.Since(start)
		if err != nil {
			summary.Failures = append(summary.Failures, fmt.Sprintf("%s: %v", gc.ID, err))
			continue
		}

		result := CaseResult{
			CaseID:           gc.ID,
			Severity:         outcome.Result.Severity,
			SeverityExact:    outcome.Result.Severity == gc.ExpectedSeverity,
			SeverityDistance: SeverityDistance(gc.ExpectedSeverity, outcome.Result.Severity),
			FacilityMatch:    FacilityMatches(gc.ExpectedFacilities, outcome.Result.FacilityType),
			SpecialtyRecall:  RecallAtK(gc.ExpectedSpecialties, outcome.Result.Specialties, specialtyRecallK),
			Degraded:         outcome.Degraded(),
			Latency:          duration,
		}
		if UnderTriaged(gc.ExpectedSeverity, outcome.Result.Severity) {
			summary.UnderTriageRate++
		}

		logger.Debug().
			Str("case", gc.ID).
			Str("expected", string(gc.ExpectedSeverity)).
			Str("actual", string(result.Severity)).
			Bool("degraded", result.Degraded).
			Dur("latency", duration).
			Msg("evaluated case")

		r.updateSummary(summary, gc, result)
	}

	r.finalizeSummary(summary)
	return summary, nil
}

func (r *Runner) updateSummary(s *Summary, gc GoldenCase, res CaseResult) {
	s.TotalCases++
	if res.SeverityExact {
		s.SeverityAccuracy++
	}
	if res.SeverityDistance <= 1 {
		s.WithinOneAccuracy++
	}
	if res.FacilityMatch {
		s.FacilityAccuracy++
	}
	if res.Degraded {
		s.DegradedRate++
	}
	s.AvgSpecialtyRecall += res.SpecialtyRecall
	s.AvgLatency += res.Latency

	if _, ok := s.BySeverity[gc.ExpectedSeverity]; !ok {
		s.BySeverity[gc.ExpectedSeverity] = &SeveritySummary{}
	}
	bs := s.BySeverity[gc.ExpectedSeverity]
	bs.Count++
	if res.SeverityExact {
		bs.Accuracy++
	}
}

func (r *Runner) finalizeSummary(s *Summary) {
	if s.TotalCases > 0 {
		n := float64(s.TotalCases)
		s.SeverityAccuracy /= n
		s.WithinOneAccuracy /= n
		s.UnderTriageRate /= n
		s.FacilityAccuracy /= n
		s.DegradedRate /= n
		s.AvgSpecialtyRecall /= n
		s.AvgLatency /= time.Duration(s.TotalCases)
	}

	for _, bs := range s.BySeverity {
		if bs.Count > 0 {
			bs.Accuracy /= float64(bs.Count)
		}
	}
}
