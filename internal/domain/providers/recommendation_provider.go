package providers

import (
	"context"

	"github.com/santekene/ai-service/internal/domain/entities"
)

// RecommendationProvider looks up practitioners and facilities in the
// platform's main backend.
type RecommendationProvider interface {
	// RecommendedDoctors returns doctors whose specialty matches one of specialties
	RecommendedDoctors(ctx context.Context, specialties []string, authToken string) ([]entities.Doctor, error)

	// RecommendedHealthCenters returns the facilities closest to the given point
	RecommendedHealthCenters(ctx context.Context, location entities.Coordinates, limit int, authToken string) ([]entities.HealthCenter, error)
}
