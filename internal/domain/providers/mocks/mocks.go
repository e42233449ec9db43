// Package mocks provides testify mocks for the provider interfaces.
package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"github.com/santekene/ai-service/internal/domain/entities"
	"github.com/santekene/ai-service/internal/domain/providers"
)

// MockLLMProvider is a mock of providers.LLMProvider
type MockLLMProvider struct {
	mock.Mock
}

func (m *MockLLMProvider) Name() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockLLMProvider) Model() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockLLMProvider) Complete(ctx context.Context, req providers.CompletionRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *MockLLMProvider) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockTranscriber is a mock of providers.Transcriber
type MockTranscriber struct {
	mock.Mock
}

func (m *MockTranscriber) Transcribe(ctx context.Context, filename string, audio io.Reader) (string, error) {
	args := m.Called(ctx, filename, audio)
	return args.String(0), args.Error(1)
}

// MockRecommendationProvider is a mock of providers.RecommendationProvider
type MockRecommendationProvider struct {
	mock.Mock
}

func (m *MockRecommendationProvider) RecommendedDoctors(ctx context.Context, specialties []string, authToken string) ([]entities.Doctor, error) {
	args := m.Called(ctx, specialties, authToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.Doctor), args.Error(1)
}

func (m *MockRecommendationProvider) RecommendedHealthCenters(ctx context.Context, location entities.Coordinates, limit int, authToken string) ([]entities.HealthCenter, error) {
	args := m.Called(ctx, location, limit, authToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.HealthCenter), args.Error(1)
}

// MockCacheProvider is a mock of providers.CacheProvider
type MockCacheProvider struct {
	mock.Mock
}

func (m *MockCacheProvider) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockCacheProvider) Set(ctx context.Context, key string, value []byte, expirationSeconds int) error {
	args := m.Called(ctx, key, value, expirationSeconds)
	return args.Error(0)
}

func (m *MockCacheProvider) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

var (
	_ providers.LLMProvider            = (*MockLLMProvider)(nil)
	_ providers.Transcriber            = (*MockTranscriber)(nil)
	_ providers.RecommendationProvider = (*MockRecommendationProvider)(nil)
	_ providers.CacheProvider          = (*MockCacheProvider)(nil)
)
