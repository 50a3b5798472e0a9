package mocks

import (
	"context"

	"github.com/pageza/mealmatch/backend/internal/matching"
	"github.com/stretchr/testify/mock"
)

// MockCatalogSupplier is a mock implementation of matching.CatalogSupplier
type MockCatalogSupplier struct {
	mock.Mock
}

// GetCatalog mocks the GetCatalog method
func (m *MockCatalogSupplier) GetCatalog(ctx context.Context) ([]matching.Recipe, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]matching.Recipe), args.Error(1)
}
