package api

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pageza/mealmatch/backend/internal/matching"
	"github.com/pageza/mealmatch/backend/internal/middleware"
	"github.com/pageza/mealmatch/backend/internal/mocks"
	"github.com/pageza/mealmatch/backend/internal/model"
	"github.com/pageza/mealmatch/backend/internal/testhelpers"
	"github.com/pageza/mealmatch/backend/internal/types"
)

func TestProfileLifecycle(t *testing.T) {
	env := setupTestEnv(t)
	_, token := env.token(t)

	missing := env.do(t, http.MethodGet, "/api/v1/profile", token, nil)
	assert.Equal(t, http.StatusNotFound, missing.Code)

	put := env.do(t, http.MethodPut, "/api/v1/profile", token, types.HealthProfileRequest{
		Goal:               "weight_loss",
		DailyCalorieTarget: 1800,
		DailyProteinTarget: 120,
		Restrictions:       matching.DietaryFlags{Vegetarian: true},
	})
	require.Equal(t, http.StatusOK, put.Code, put.Body.String())

	got := env.do(t, http.MethodGet, "/api/v1/profile", token, nil)
	require.Equal(t, http.StatusOK, got.Code)
	profile := decode[struct {
		Profile model.HealthProfile `json:"profile"`
	}](t, got).Profile
	assert.Equal(t, "weight_loss", profile.Goal)
	assert.True(t, profile.Restrictions.Vegetarian)

	bad := env.do(t, http.MethodPut, "/api/v1/profile", token, types.HealthProfileRequest{Goal: "bulk"})
	assert.Equal(t, http.StatusBadRequest, bad.Code)
}

func TestLogMeal(t *testing.T) {
	env := setupTestEnv(t)
	_, token := env.token(t)

	w := env.do(t, http.MethodPost, "/api/v1/meals", token, gin.H{
		"category": "Breakfast",
		"calories": 350,
		"protein":  18,
		"eaten_at": time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC),
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	meal := decode[struct {
		Meal model.MealLog `json:"meal"`
	}](t, w).Meal
	assert.Equal(t, "breakfast", meal.Category)

	w = env.do(t, http.MethodPost, "/api/v1/meals", token, gin.H{"calories": 100})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRecommendationsRespectRestrictions(t *testing.T) {
	env := setupTestEnv(t)
	userID, token := env.token(t)
	testhelpers.CreateTestProfile(t, env.db, 2000, func(p *model.HealthProfile) {
		p.UserID = userID
		p.Restrictions.Vegan = true
	})

	vegan := model.DietaryFlags{Vegan: true, Vegetarian: true}
	light := testhelpers.CreateTestRecipe(t, env.db, "Salad", []string{"lettuce", "tomato"},
		testhelpers.WithNutrition(500, 10), testhelpers.WithDietary(vegan), testhelpers.WithCategory("lunch"))
	hearty := testhelpers.CreateTestRecipe(t, env.db, "Tofu feast", []string{"tofu", "rice"},
		testhelpers.WithNutrition(1900, 80), testhelpers.WithDietary(vegan), testhelpers.WithCategory("dinner"))
	testhelpers.CreateTestRecipe(t, env.db, "Steak", []string{"beef"}, testhelpers.WithNutrition(1900, 90))

	w := env.do(t, http.MethodGet, "/api/v1/recommendations", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode[types.RecommendationResponse](t, w)
	require.Equal(t, 2, resp.Count)
	assert.Equal(t, hearty.ID.String(), resp.Recommendations[0].RecipeID)
	assert.Equal(t, light.ID.String(), resp.Recommendations[1].RecipeID)
	assert.NotEmpty(t, resp.Recommendations[0].Rationale)

	w = env.do(t, http.MethodGet, "/api/v1/recommendations?category=LUNCH&limit=5", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp = decode[types.RecommendationResponse](t, w)
	require.Equal(t, 1, resp.Count)
	assert.Equal(t, light.ID.String(), resp.Recommendations[0].RecipeID)

	w = env.do(t, http.MethodGet, "/api/v1/recommendations?limit=abc", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRecommendationsUnknownProfile(t *testing.T) {
	env := setupTestEnv(t)
	_, token := env.token(t)

	w := env.do(t, http.MethodGet, "/api/v1/recommendations", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, middleware.CodeNotFound, decode[middleware.ErrorResponse](t, w).Error)
}

func TestProfileChangesInvalidateRecommendations(t *testing.T) {
	cache := new(mocks.MockRecommendationService)
	env := setupTestEnv(t, func(d *Dependencies) { d.Recommendations = cache })
	userID, token := env.token(t)

	// Invalidation failures only cost freshness.
	cache.On("InvalidateUser", mock.Anything, userID.String()).Return(errors.New("redis down")).Twice()

	w := env.do(t, http.MethodPut, "/api/v1/profile", token, types.HealthProfileRequest{DailyCalorieTarget: 2000})
	assert.Equal(t, http.StatusOK, w.Code)
	w = env.do(t, http.MethodPost, "/api/v1/meals", token, gin.H{"category": "lunch", "calories": 500})
	assert.Equal(t, http.StatusCreated, w.Code)

	cache.AssertExpectations(t)
}
