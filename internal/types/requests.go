package types

import (
	"time"

	"github.com/google/uuid"

	"github.com/pageza/mealmatch/backend/internal/matching"
	"github.com/pageza/mealmatch/backend/internal/model"
)

// SearchRequest represents the request body for an ingredient search
type SearchRequest struct {
	Ingredients []string `json:"ingredients" binding:"required"`
	Limit       *int     `json:"limit"`
	MinMatch    *int     `json:"min_match"`
}

// CreateRecipeRequest represents the request body for creating a recipe
type CreateRecipeRequest struct {
	Name         string                `json:"name" binding:"required"`
	Description  string                `json:"description"`
	Category     string                `json:"category"`
	Cuisine      string                `json:"cuisine"`
	Ingredients  []string              `json:"ingredients" binding:"required"`
	Instructions []string              `json:"instructions"`
	Calories     float64               `json:"calories"`
	Protein      float64               `json:"protein"`
	Carbs        float64               `json:"carbs"`
	Fat          float64               `json:"fat"`
	Dietary      matching.DietaryFlags `json:"dietary"`
}

// ToModel builds the catalog row owned by userID
func (r CreateRecipeRequest) ToModel(userID uuid.UUID) *model.Recipe {
	return &model.Recipe{
		Name:         r.Name,
		Description:  r.Description,
		Category:     r.Category,
		Cuisine:      r.Cuisine,
		Ingredients:  model.JSONBStringArray(r.Ingredients),
		Instructions: model.JSONBStringArray(r.Instructions),
		Macros: model.Macros{
			Calories: r.Calories,
			Protein:  r.Protein,
			Carbs:    r.Carbs,
			Fat:      r.Fat,
		},
		Dietary: model.DietaryFlags(r.Dietary),
		UserID:  userID,
	}
}

// RateRecipeRequest represents the request body for rating a recipe
type RateRecipeRequest struct {
	Rating  *float64 `json:"rating"`
	Comment string   `json:"comment"`
}

// HealthProfileRequest represents the request body for saving a health profile
type HealthProfileRequest struct {
	Goal                string                `json:"goal"`
	DailyCalorieTarget  float64               `json:"daily_calorie_target"`
	DailyProteinTarget  float64               `json:"daily_protein_target"`
	DailyCarbsTarget    float64               `json:"daily_carbs_target"`
	DailyFatTarget      float64               `json:"daily_fat_target"`
	Restrictions        matching.DietaryFlags `json:"restrictions"`
	PreferredCuisine    string                `json:"preferred_cuisine"`
	FavoriteIngredients []string              `json:"favorite_ingredients"`
	DislikedIngredients []string              `json:"disliked_ingredients"`
}

// MealLogRequest represents the request body for logging a meal
type MealLogRequest struct {
	RecipeID *uuid.UUID `json:"recipe_id"`
	Category string     `json:"category" binding:"required"`
	Calories float64    `json:"calories"`
	Protein  float64    `json:"protein"`
	EatenAt  *time.Time `json:"eaten_at"`
}
