package mocks

import (
	"context"
	"time"

	"github.com/pageza/mealmatch/backend/internal/matching"
	"github.com/stretchr/testify/mock"
)

// MockProfileSource is a mock implementation of matching.ProfileSource
type MockProfileSource struct {
	mock.Mock
}

func (m *MockProfileSource) GetUserProfile(ctx context.Context, userID string) (*matching.UserProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*matching.UserProfile), args.Error(1)
}

func (m *MockProfileSource) GetDailyIntake(ctx context.Context, userID string, day time.Time) (matching.Intake, error) {
	args := m.Called(ctx, userID, day)
	return args.Get(0).(matching.Intake), args.Error(1)
}
