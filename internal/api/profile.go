package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/mealmatch/backend/internal/logger"
	"github.com/pageza/mealmatch/backend/internal/model"
	"github.com/pageza/mealmatch/backend/internal/service"
	"github.com/pageza/mealmatch/backend/internal/types"
)

// ProfileHandler serves health profiles and the meal log
type ProfileHandler struct {
	profiles        service.IProfileService
	recommendations service.IRecommendationService
}

func NewProfileHandler(profiles service.IProfileService, recommendations service.IRecommendationService) *ProfileHandler {
	return &ProfileHandler{
		profiles:        profiles,
		recommendations: recommendations,
	}
}

// RegisterRoutes mounts the routes; every route requires auth
func (h *ProfileHandler) RegisterRoutes(router *gin.RouterGroup, auth gin.HandlerFunc) {
	profile := router.Group("/profile", auth)
	{
		profile.GET("", h.GetProfile)
		profile.PUT("", h.UpdateProfile)
	}
	router.POST("/meals", auth, h.LogMeal)
}

// invalidate drops cached recommendations; failures only cost freshness
func (h *ProfileHandler) invalidate(c *gin.Context, userID string) {
	if err := h.recommendations.InvalidateUser(c.Request.Context(), userID); err != nil {
		logger.FromContext(c.Request.Context()).Warn("failed to invalidate recommendations", zap.Error(err))
	}
}

func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	profile, err := h.profiles.GetHealthProfile(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": profile})
}

func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req types.HealthProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	profile, err := h.profiles.UpsertHealthProfile(c.Request.Context(), &model.HealthProfile{
		UserID:              userID,
		Goal:                req.Goal,
		DailyCalorieTarget:  req.DailyCalorieTarget,
		DailyProteinTarget:  req.DailyProteinTarget,
		DailyCarbsTarget:    req.DailyCarbsTarget,
		DailyFatTarget:      req.DailyFatTarget,
		Restrictions:        model.DietaryFlags(req.Restrictions),
		PreferredCuisine:    req.PreferredCuisine,
		FavoriteIngredients: model.JSONBStringArray(req.FavoriteIngredients),
		DislikedIngredients: model.JSONBStringArray(req.DislikedIngredients),
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	h.invalidate(c, userID.String())
	c.JSON(http.StatusOK, gin.H{"profile": profile})
}

func (h *ProfileHandler) LogMeal(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req types.MealLogRequest
	if !bindJSON(c, &req) {
		return
	}

	meal := &model.MealLog{
		UserID:   userID,
		RecipeID: req.RecipeID,
		Category: req.Category,
		Calories: req.Calories,
		Protein:  req.Protein,
	}
	if req.EatenAt != nil {
		meal.EatenAt = *req.EatenAt
	}

	logged, err := h.profiles.LogMeal(c.Request.Context(), meal)
	if err != nil {
		_ = c.Error(err)
		return
	}

	h.invalidate(c, userID.String())
	c.JSON(http.StatusCreated, gin.H{"meal": logged})
}
