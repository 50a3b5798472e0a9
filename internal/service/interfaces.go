package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/pageza/mealmatch/backend/internal/matching"
	"github.com/pageza/mealmatch/backend/internal/model"
	"github.com/pageza/mealmatch/backend/internal/types"
)

// IRecipeService defines the interface for catalog operations
type IRecipeService interface {
	matching.CatalogSupplier
	CreateRecipe(ctx context.Context, recipe *model.Recipe) (*model.Recipe, error)
	GetRecipe(ctx context.Context, id uuid.UUID) (*model.Recipe, error)
	RecordRating(ctx context.Context, userID, recipeID uuid.UUID, rating float64, comment string) (matching.RatingAggregate, error)
	GetRecipeRatings(ctx context.Context, recipeID uuid.UUID) ([]model.RecipeRating, error)
	GetUserRating(ctx context.Context, userID, recipeID uuid.UUID) (*model.RecipeRating, error)
}

// IProfileService defines the interface for health profile operations
type IProfileService interface {
	matching.ProfileSource
	GetHealthProfile(ctx context.Context, userID uuid.UUID) (*model.HealthProfile, error)
	UpsertHealthProfile(ctx context.Context, profile *model.HealthProfile) (*model.HealthProfile, error)
	LogMeal(ctx context.Context, meal *model.MealLog) (*model.MealLog, error)
}

// ITokenService defines the interface for token operations
type ITokenService interface {
	GenerateToken(userID uuid.UUID, username string) (string, error)
	ValidateToken(token string) (*types.TokenClaims, error)
}

// IRecommendationService defines the interface for cached recommendations
type IRecommendationService interface {
	Recommend(ctx context.Context, userID, category string, limit int) ([]matching.Recommendation, error)
	InvalidateUser(ctx context.Context, userID string) error
}

// Recommender is the part of the matching engine the recommendation cache wraps.
type Recommender interface {
	Recommend(ctx context.Context, userID, category string, limit int) ([]matching.Recommendation, error)
}

// Retrainer is notified after every catalog mutation.
type Retrainer interface {
	Retrain(ctx context.Context) (matching.TrainResult, error)
}

// Clock returns the current time.
type Clock func() time.Time
