package model

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pageza/mealmatch/backend/internal/matching"
)

// HealthProfile holds a user's goals, targets and food preferences.
type HealthProfile struct {
	UserID              uuid.UUID        `gorm:"type:uuid;primaryKey" json:"user_id"`
	CreatedAt           time.Time        `json:"created_at"`
	UpdatedAt           time.Time        `json:"updated_at"`
	Goal                string           `gorm:"size:20;not null;default:'maintenance'" json:"goal"`
	DailyCalorieTarget  float64          `gorm:"type:float;not null;default:0" json:"daily_calorie_target"`
	DailyProteinTarget  float64          `gorm:"type:float;not null;default:0" json:"daily_protein_target"`
	DailyCarbsTarget    float64          `gorm:"type:float;not null;default:0" json:"daily_carbs_target"`
	DailyFatTarget      float64          `gorm:"type:float;not null;default:0" json:"daily_fat_target"`
	Restrictions        DietaryFlags     `gorm:"embedded;embeddedPrefix:requires_" json:"restrictions"`
	PreferredCuisine    string           `gorm:"size:50" json:"preferred_cuisine"`
	FavoriteIngredients JSONBStringArray `gorm:"type:jsonb;not null;default:'[]'" json:"favorite_ingredients"`
	DislikedIngredients JSONBStringArray `gorm:"type:jsonb;not null;default:'[]'" json:"disliked_ingredients"`
}

// ToMatching converts the profile; recent categories come from the meal log.
func (p *HealthProfile) ToMatching(recentCategories []string) *matching.UserProfile {
	return &matching.UserProfile{
		UserID: p.UserID.String(),
		Targets: matching.DailyTargets{
			Calories: p.DailyCalorieTarget,
			Protein:  p.DailyProteinTarget,
			Carbs:    p.DailyCarbsTarget,
			Fat:      p.DailyFatTarget,
		},
		Goal:                matching.Goal(strings.ToLower(p.Goal)),
		Restrictions:        p.Restrictions.toMatching(),
		PreferredCuisine:    p.PreferredCuisine,
		FavoriteIngredients: []string(p.FavoriteIngredients),
		DislikedIngredients: []string(p.DislikedIngredients),
		RecentCategories:    recentCategories,
	}
}
