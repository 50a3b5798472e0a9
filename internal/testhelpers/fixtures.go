package testhelpers

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pageza/mealmatch/backend/internal/model"
)

// RecipeOption customizes a fixture recipe
type RecipeOption func(*model.Recipe)

// WithNutrition sets calories and protein
func WithNutrition(calories, protein float64) RecipeOption {
	return func(r *model.Recipe) {
		r.Macros.Calories = calories
		r.Macros.Protein = protein
	}
}

// WithCategory sets the meal category
func WithCategory(category string) RecipeOption {
	return func(r *model.Recipe) { r.Category = category }
}

// WithCuisine sets the cuisine tag
func WithCuisine(cuisine string) RecipeOption {
	return func(r *model.Recipe) { r.Cuisine = cuisine }
}

// WithDietary sets the dietary flags
func WithDietary(flags model.DietaryFlags) RecipeOption {
	return func(r *model.Recipe) { r.Dietary = flags }
}

// WithRating sets the stored rating aggregate
func WithRating(average float64, count int) RecipeOption {
	return func(r *model.Recipe) {
		r.RatingAverage = average
		r.RatingCount = count
	}
}

// CreateTestRecipe inserts a recipe with the given ingredients
func CreateTestRecipe(t *testing.T, db *gorm.DB, name string, ingredients []string, opts ...RecipeOption) *model.Recipe {
	t.Helper()
	r := &model.Recipe{
		Name:        name,
		Category:    "dinner",
		Ingredients: model.JSONBStringArray(ingredients),
		UserID:      uuid.New(),
	}
	for _, opt := range opts {
		opt(r)
	}
	require.NoError(t, db.Create(r).Error)
	return r
}

// CreateTestProfile inserts a maintenance profile with the given calorie target
func CreateTestProfile(t *testing.T, db *gorm.DB, calorieTarget float64, mutate ...func(*model.HealthProfile)) *model.HealthProfile {
	t.Helper()
	p := &model.HealthProfile{
		UserID:             uuid.New(),
		Goal:               "maintenance",
		DailyCalorieTarget: calorieTarget,
	}
	for _, m := range mutate {
		m(p)
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

// CreateTestMeal logs a meal for a user
func CreateTestMeal(t *testing.T, db *gorm.DB, userID uuid.UUID, category string, calories, protein float64, eatenAt time.Time) *model.MealLog {
	t.Helper()
	m := &model.MealLog{
		UserID:   userID,
		Category: category,
		Calories: calories,
		Protein:  protein,
		EatenAt:  eatenAt.UTC(),
	}
	require.NoError(t, db.Create(m).Error)
	return m
}
