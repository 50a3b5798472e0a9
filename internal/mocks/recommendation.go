package mocks

import (
	"context"

	"github.com/pageza/mealmatch/backend/internal/matching"
	"github.com/stretchr/testify/mock"
)

// MockRecommender is a mock implementation of service.Recommender
type MockRecommender struct {
	mock.Mock
}

func (m *MockRecommender) Recommend(ctx context.Context, userID, category string, limit int) ([]matching.Recommendation, error) {
	args := m.Called(ctx, userID, category, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]matching.Recommendation), args.Error(1)
}

// MockRecommendationService is a mock implementation of service.IRecommendationService
type MockRecommendationService struct {
	mock.Mock
}

func (m *MockRecommendationService) Recommend(ctx context.Context, userID, category string, limit int) ([]matching.Recommendation, error) {
	args := m.Called(ctx, userID, category, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]matching.Recommendation), args.Error(1)
}

func (m *MockRecommendationService) InvalidateUser(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}
