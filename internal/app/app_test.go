package app

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pageza/mealmatch/backend/config"
	"github.com/pageza/mealmatch/backend/internal/model"
)

func sqliteConfig(path string) *config.Config {
	return &config.Config{
		Environment:       config.Test,
		DBDriver:          "sqlite",
		SQLitePath:        path,
		JWTSecret:         "test-secret",
		ArtifactStore:     "postgres",
		SearchMaxLimit:    20,
		RecommendationTTL: time.Minute,
		RateLimitWindow:   time.Hour,
		RateLimitRequests: 5,
	}
}

func TestNewWiresEngineAndRestoresModel(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "mealmatch.db")
	a, err := New(ctx, sqliteConfig(path), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(a.Close)

	assert.Nil(t, a.Redis)
	assert.False(t, a.Engine.Status().IsTrained)

	for _, r := range []*model.Recipe{
		{Name: "Rice bowl", Ingredients: model.JSONBStringArray{"rice", "egg"}},
		{Name: "Bean stew", Ingredients: model.JSONBStringArray{"beans", "tomato"}},
	} {
		_, err := a.Recipes.CreateRecipe(ctx, r)
		require.NoError(t, err)
	}
	_, err = a.Engine.Train(ctx)
	require.NoError(t, err)

	deps := a.APIDependencies()
	require.NotNil(t, deps.TrainLimiter)
	require.NoError(t, deps.DBPing(ctx))

	// A second process over the same database picks up the persisted artifact.
	restored, err := New(ctx, sqliteConfig(path), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(restored.Close)
	status := restored.Engine.Status()
	assert.True(t, status.IsTrained)
	assert.Equal(t, 2, status.RecipesCount)

	cold, err := New(ctx, &config.Config{DBDriver: "sqlite", SQLitePath: path, ArtifactStore: "none"}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(cold.Close)
	assert.False(t, cold.Engine.Status().IsTrained)
}

func TestNewRejectsUnknownStore(t *testing.T) {
	cfg := sqliteConfig(":memory:")
	cfg.ArtifactStore = "ftp"

	_, err := New(context.Background(), cfg, zap.NewNop())
	assert.Error(t, err)
}

func TestRecommendationCacheSharedAcrossProcesses(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	path := filepath.Join(t.TempDir(), "mealmatch.db")
	cfg := func() *config.Config {
		c := sqliteConfig(path)
		c.RedisURL = "redis://" + mr.Addr()
		return c
	}

	serving, err := New(ctx, cfg(), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(serving.Close)
	require.NotNil(t, serving.Redis)

	for _, r := range []*model.Recipe{
		{Name: "Rice bowl", Ingredients: model.JSONBStringArray{"rice", "egg"}},
		{Name: "Bean stew", Ingredients: model.JSONBStringArray{"beans", "tomato"}},
	} {
		_, err := serving.Recipes.CreateRecipe(ctx, r)
		require.NoError(t, err)
	}
	_, err = serving.Engine.Train(ctx)
	require.NoError(t, err)

	userID := uuid.New()
	_, err = serving.Profiles.UpsertHealthProfile(ctx, &model.HealthProfile{UserID: userID, Goal: "maintenance", DailyCalorieTarget: 2000})
	require.NoError(t, err)

	recs, err := serving.Recommendations.Recommend(ctx, userID.String(), "", 10)
	require.NoError(t, err)
	assert.Len(t, recs, 2)

	// A separate process adds a recipe and retrains.
	trainer, err := New(ctx, cfg(), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(trainer.Close)
	_, err = trainer.Recipes.CreateRecipe(ctx, &model.Recipe{Name: "Egg fried rice", Ingredients: model.JSONBStringArray{"egg", "rice", "scallion"}})
	require.NoError(t, err)
	_, err = trainer.Engine.Retrain(ctx)
	require.NoError(t, err)

	recs, err = serving.Recommendations.Recommend(ctx, userID.String(), "", 10)
	require.NoError(t, err)
	assert.Len(t, recs, 3)

	restarted, err := New(ctx, cfg(), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(restarted.Close)
	recs, err = restarted.Recommendations.Recommend(ctx, userID.String(), "", 10)
	require.NoError(t, err)
	assert.Len(t, recs, 3)
}
