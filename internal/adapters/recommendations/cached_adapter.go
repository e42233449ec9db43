package recommendations

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/santekene/ai-service/internal/domain/entities"
	"github.com/santekene/ai-service/internal/domain/providers"
	"github.com/santekene/ai-service/internal/infrastructure/observability"
)

const defaultTTLSeconds = 300

// CachedAdapter wraps a RecommendationProvider with a read-through cache.
// Lookup results do not depend on the caller, so the auth token is not part
// of the key.
type CachedAdapter struct {
	provider   providers.RecommendationProvider
	cache      providers.CacheProvider
	ttlSeconds int
}

// NewCachedAdapter creates a cache-wrapped recommendation provider
func NewCachedAdapter(provider providers.RecommendationProvider, cache providers.CacheProvider, ttlSeconds int) providers.RecommendationProvider {
	if ttlSeconds <= 0 {
		ttlSeconds = defaultTTLSeconds
	}
	return &CachedAdapter{
		provider:   provider,
		cache:      cache,
		ttlSeconds: ttlSeconds,
	}
}

func doctorsCacheKey(specialties []string) string {
	keys := lo.Uniq(lo.Map(specialties, func(s string, _ int) string {
		return strings.ToLower(strings.TrimSpace(s))
	}))
	sort.Strings(keys)
	return fmt.Sprintf("ai:doctors:%s", strings.Join(keys, "|"))
}

// Coordinates are rounded to ~100 m so nearby callers share an entry.
func healthCentersCacheKey(location entities.Coordinates, limit int) string {
	return fmt.Sprintf("ai:healthcenters:%.3f:%.3f:%d", location.Latitude, location.Longitude, limit)
}

// RecommendedDoctors returns cached doctors, falling back to the wrapped provider
func (a *CachedAdapter) RecommendedDoctors(ctx context.Context, specialties []string, authToken string) ([]entities.Doctor, error) {
	cacheKey := doctorsCacheKey(specialties)
	logger := observability.LoggerFromContext(ctx)

	if cached, err := a.cache.Get(ctx, cacheKey); err == nil {
		var doctors []entities.Doctor
		if err := json.Unmarshal(cached, &doctors); err == nil {
			return doctors, nil
		}
		logger.Warn().Err(err).Str("key", cacheKey).Msg("failed to unmarshal cached doctors")
	}

	doctors, err := a.provider.RecommendedDoctors(ctx, specialties, authToken)
	if err != nil {
		return nil, err
	}

	a.store(cacheKey, doctors)
	return doctors, nil
}

// RecommendedHealthCenters returns cached health centers, falling back to the wrapped provider
func (a *CachedAdapter) RecommendedHealthCenters(ctx context.Context, location entities.Coordinates, limit int, authToken string) ([]entities.HealthCenter, error) {
	cacheKey := healthCentersCacheKey(location, limit)
	logger := observability.LoggerFromContext(ctx)

	if cached, err := a.cache.Get(ctx, cacheKey); err == nil {
		var centers []entities.HealthCenter
		if err := json.Unmarshal(cached, &centers); err == nil {
			return centers, nil
		}
		logger.Warn().Err(err).Str("key", cacheKey).Msg("failed to unmarshal cached health centers")
	}

	centers, err := a.provider.RecommendedHealthCenters(ctx, location, limit, authToken)
	if err != nil {
		return nil, err
	}

	a.store(cacheKey, centers)
	return centers, nil
}

// store updates the cache off the request path
func (a *CachedAdapter) store(key string, value interface{}) {
	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		data, err := json.Marshal(value)
		if err != nil {
			return
		}
		if err := a.cache.Set(bgCtx, key, data, a.ttlSeconds); err != nil {
			observability.GetLogger().Warn().Err(err).Str("key", key).Msg("failed to cache recommendations")
		}
	}()
}
