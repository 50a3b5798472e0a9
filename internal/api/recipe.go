package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/mealmatch/backend/internal/logger"
	"github.com/pageza/mealmatch/backend/internal/matching"
	"github.com/pageza/mealmatch/backend/internal/service"
	"github.com/pageza/mealmatch/backend/internal/types"
)

// RecipeHandler serves catalog mutations. Every accepted mutation retrains
// the lexical model before the response is written.
type RecipeHandler struct {
	recipes   service.IRecipeService
	retrainer service.Retrainer
}

func NewRecipeHandler(recipes service.IRecipeService, retrainer service.Retrainer) *RecipeHandler {
	return &RecipeHandler{
		recipes:   recipes,
		retrainer: retrainer,
	}
}

// RegisterRoutes mounts the routes; auth guards the mutations
func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup, auth gin.HandlerFunc) {
	recipes := router.Group("/recipes")
	{
		recipes.GET("/:id", h.GetRecipe)
		recipes.GET("/:id/ratings", h.ListRatings)
		recipes.POST("", auth, h.CreateRecipe)
		recipes.POST("/:id/ratings", auth, h.RateRecipe)
		recipes.GET("/:id/ratings/me", auth, h.GetMyRating)
	}
}

// retrain runs the mutation hook; a failed retrain keeps the previous model
func (h *RecipeHandler) retrain(ctx context.Context) bool {
	result, err := h.retrainer.Retrain(ctx)
	if err != nil {
		logger.FromContext(ctx).Warn("model not retrained after catalog change", zap.Error(err))
		return false
	}
	return result.Trained
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req types.CreateRecipeRequest
	if !bindJSON(c, &req) {
		return
	}

	recipe := req.ToModel(userID)

	created, err := h.recipes.CreateRecipe(c.Request.Context(), recipe)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"recipe":          created,
		"model_retrained": h.retrain(c.Request.Context()),
	})
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, ok := recipeIDParam(c)
	if !ok {
		return
	}
	recipe, err := h.recipes.GetRecipe(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipe": recipe})
}

func (h *RecipeHandler) RateRecipe(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	recipeID, ok := recipeIDParam(c)
	if !ok {
		return
	}

	var req types.RateRecipeRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Rating == nil {
		_ = c.Error(&matching.ValidationError{Field: "rating", Message: "rating is required"})
		return
	}

	agg, err := h.recipes.RecordRating(c.Request.Context(), userID, recipeID, *req.Rating, req.Comment)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, types.RatingResponse{
		RecipeID:       recipeID.String(),
		RatingAverage:  agg.Average,
		RatingCount:    agg.Count,
		ModelRetrained: h.retrain(c.Request.Context()),
	})
}

func (h *RecipeHandler) ListRatings(c *gin.Context) {
	id, ok := recipeIDParam(c)
	if !ok {
		return
	}
	ratings, err := h.recipes.GetRecipeRatings(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ratings": ratings, "count": len(ratings)})
}

func (h *RecipeHandler) GetMyRating(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	recipeID, ok := recipeIDParam(c)
	if !ok {
		return
	}
	rating, err := h.recipes.GetUserRating(c.Request.Context(), userID, recipeID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rating": rating})
}
