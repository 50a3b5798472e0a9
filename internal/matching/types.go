package matching

import (
	"context"
	"math"
	"time"
)

// DietaryFlags are the dietary properties of a recipe, or the restrictions of a user.
type DietaryFlags struct {
	Vegetarian bool `json:"vegetarian"`
	Vegan      bool `json:"vegan"`
	GlutenFree bool `json:"gluten_free"`
	DairyFree  bool `json:"dairy_free"`
	NutFree    bool `json:"nut_free"`
	Halal      bool `json:"halal"`
	Kosher     bool `json:"kosher"`
}

// Satisfies reports whether a recipe with flags f meets every active restriction.
func (f DietaryFlags) Satisfies(restrictions DietaryFlags) bool {
	return (!restrictions.Vegetarian || f.Vegetarian) &&
		(!restrictions.Vegan || f.Vegan) &&
		(!restrictions.GlutenFree || f.GlutenFree) &&
		(!restrictions.DairyFree || f.DairyFree) &&
		(!restrictions.NutFree || f.NutFree) &&
		(!restrictions.Halal || f.Halal) &&
		(!restrictions.Kosher || f.Kosher)
}

// Nutrition facts per serving.
type Nutrition struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

// RatingAggregate is the running mean of a recipe's ratings.
// Average is meaningless when Count is zero.
type RatingAggregate struct {
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

// Normalized returns the average scaled into [0,1], or 0 for an unrated recipe.
func (r RatingAggregate) Normalized() float64 {
	if r.Count == 0 {
		return 0
	}
	return r.Average / MaxRating
}

// Recipe is the catalog view consumed by the engine.
type Recipe struct {
	ID          string
	Name        string
	Category    string
	Cuisine     string
	Ingredients []string
	Nutrition   Nutrition
	Dietary     DietaryFlags
	Rating      RatingAggregate
}

// Goal is a user's dietary goal.
type Goal string

const (
	GoalWeightLoss  Goal = "weight_loss"
	GoalMuscleGain  Goal = "muscle_gain"
	GoalMaintenance Goal = "maintenance"
	GoalWeightGain  Goal = "weight_gain"
)

// DailyTargets are a user's daily macro goals. Zero means unset.
type DailyTargets struct {
	Calories float64
	Protein  float64
	Carbs    float64
	Fat      float64
}

// UserProfile is the read-only profile used by the profile scorer.
type UserProfile struct {
	UserID              string
	Targets             DailyTargets
	Goal                Goal
	Restrictions        DietaryFlags
	PreferredCuisine    string
	FavoriteIngredients []string
	DislikedIngredients []string
	// RecentCategories holds one entry per meal eaten within the trailing window.
	RecentCategories []string
}

// Intake is what a user has consumed so far on a given day.
type Intake struct {
	Calories float64
	Protein  float64
}

// CatalogSupplier yields a read-only snapshot of the recipe catalog.
type CatalogSupplier interface {
	GetCatalog(ctx context.Context) ([]Recipe, error)
}

// ProfileSource resolves users. GetUserProfile returns a NotFoundError for unknown users.
type ProfileSource interface {
	GetUserProfile(ctx context.Context, userID string) (*UserProfile, error)
	GetDailyIntake(ctx context.Context, userID string, day time.Time) (Intake, error)
}

// ArtifactStore persists published artifacts. Load returns ErrNoArtifact when empty.
type ArtifactStore interface {
	Save(ctx context.Context, artifact *ModelArtifact) error
	Load(ctx context.Context) (*ModelArtifact, error)
}

const (
	MinRating = 1.0
	MaxRating = 5.0
)

// ValidateRating checks a submitted rating value.
func ValidateRating(rating float64) error {
	if math.IsNaN(rating) || rating < MinRating || rating > MaxRating {
		return invalid("rating", "rating must be in [1,5], got %.1f", rating)
	}
	return nil
}
