package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RecipeRating is a single user's rating of a recipe. A user holds at most one
// rating per recipe; rating again replaces the value.
type RecipeRating struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	RecipeID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_recipe_ratings_recipe_user" json:"recipe_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_recipe_ratings_recipe_user" json:"user_id"`
	Rating    float64   `gorm:"type:float;not null" json:"rating"`
	Comment   string    `gorm:"type:text" json:"comment,omitempty"`
}

func (RecipeRating) TableName() string {
	return "recipe_ratings"
}

func (r *RecipeRating) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
