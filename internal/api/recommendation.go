package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pageza/mealmatch/backend/internal/matching"
	"github.com/pageza/mealmatch/backend/internal/service"
	"github.com/pageza/mealmatch/backend/internal/types"
)

// DefaultRecommendationLimit applies when ?limit is absent
const DefaultRecommendationLimit = 10

// RecommendationHandler serves profile recommendations
type RecommendationHandler struct {
	recommendations service.IRecommendationService
}

func NewRecommendationHandler(recommendations service.IRecommendationService) *RecommendationHandler {
	return &RecommendationHandler{recommendations: recommendations}
}

func (h *RecommendationHandler) RegisterRoutes(router *gin.RouterGroup, auth gin.HandlerFunc) {
	router.GET("/recommendations", auth, h.GetRecommendations)
}

// GetRecommendations ranks the catalog for the authenticated user
func (h *RecommendationHandler) GetRecommendations(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	limit := DefaultRecommendationLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			_ = c.Error(&matching.ValidationError{Field: "limit", Message: "limit must be an integer"})
			return
		}
		limit = n
	}

	recs, err := h.recommendations.Recommend(c.Request.Context(), userID.String(), c.Query("category"), limit)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, types.RecommendationResponse{Recommendations: recs, Count: len(recs)})
}
