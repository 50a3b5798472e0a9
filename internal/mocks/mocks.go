package mocks

import (
	"context"

	"github.com/pageza/mealmatch/backend/internal/matching"
	"github.com/stretchr/testify/mock"
)

// MockArtifactStore is a mock implementation of matching.ArtifactStore
type MockArtifactStore struct {
	mock.Mock
}

func (m *MockArtifactStore) Save(ctx context.Context, artifact *matching.ModelArtifact) error {
	args := m.Called(ctx, artifact)
	return args.Error(0)
}

func (m *MockArtifactStore) Load(ctx context.Context) (*matching.ModelArtifact, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*matching.ModelArtifact), args.Error(1)
}
