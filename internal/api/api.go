package api

import (
	"github.com/gin-gonic/gin"

	"github.com/pageza/mealmatch/backend/internal/matching"
	"github.com/pageza/mealmatch/backend/internal/middleware"
	"github.com/pageza/mealmatch/backend/internal/service"
)

// Dependencies are the collaborators the HTTP surface is wired to
type Dependencies struct {
	Engine          *matching.Engine
	Recipes         service.IRecipeService
	Profiles        service.IProfileService
	Recommendations service.IRecommendationService
	Tokens          middleware.TokenValidator
	TrainLimiter    *middleware.RateLimiter
	DBPing          Pinger
}

// SetupAPI registers every route on the router
func SetupAPI(router *gin.Engine, deps Dependencies) {
	auth := middleware.AuthMiddleware(deps.Tokens)

	NewHealthHandler(deps.DBPing, deps.Engine).RegisterRoutes(router)

	v1 := router.Group("/api/v1")
	{
		trainGuards := []gin.HandlerFunc{auth}
		if deps.TrainLimiter != nil {
			trainGuards = append(trainGuards, deps.TrainLimiter.RateLimitMiddleware())
		}

		NewSearchHandler(deps.Engine).RegisterRoutes(v1)
		NewTrainingHandler(deps.Engine).RegisterRoutes(v1, trainGuards...)
		NewRecipeHandler(deps.Recipes, deps.Engine).RegisterRoutes(v1, auth)
		NewProfileHandler(deps.Profiles, deps.Recommendations).RegisterRoutes(v1, auth)
		NewRecommendationHandler(deps.Recommendations).RegisterRoutes(v1, auth)
	}
}
