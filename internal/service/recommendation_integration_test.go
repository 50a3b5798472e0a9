//go:build integration

package service

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pageza/mealmatch/backend/internal/mocks"
	"github.com/pageza/mealmatch/backend/internal/testdb"
)

func TestRecommendationCacheWithRedis(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: testdb.SetupRedis(t)})
	t.Cleanup(func() { _ = client.Close() })
	ctx := context.Background()

	engine := new(mocks.MockRecommender)
	engine.On("Recommend", mock.Anything, "u1", "", 10).Return(sampleRecs, nil)
	svc := NewRecommendationService(engine, client, time.Minute, nil)

	_, err := svc.Recommend(ctx, "u1", "", 10)
	require.NoError(t, err)
	recs, err := svc.Recommend(ctx, "u1", "", 10)
	require.NoError(t, err)
	assert.Equal(t, sampleRecs, recs)
	engine.AssertNumberOfCalls(t, "Recommend", 1)

	// A profile change invalidates the user's entries
	require.NoError(t, svc.InvalidateUser(ctx, "u1"))
	_, err = svc.Recommend(ctx, "u1", "", 10)
	require.NoError(t, err)
	engine.AssertNumberOfCalls(t, "Recommend", 2)

	// So does a retrain reported by another process
	NewRecommendationService(new(mocks.MockRecommender), client, time.Minute, nil).CatalogChanged(ctx)
	_, err = svc.Recommend(ctx, "u1", "", 10)
	require.NoError(t, err)
	engine.AssertNumberOfCalls(t, "Recommend", 3)
}
