package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MealLog records one meal a user ate.
type MealLog struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time  `json:"created_at"`
	UserID    uuid.UUID  `gorm:"type:uuid;not null;index:idx_meal_logs_user_eaten" json:"user_id"`
	RecipeID  *uuid.UUID `gorm:"type:uuid" json:"recipe_id,omitempty"`
	Category  string     `gorm:"size:50;not null" json:"category"`
	Calories  float64    `gorm:"type:float;not null;default:0" json:"calories"`
	Protein   float64    `gorm:"type:float;not null;default:0" json:"protein"`
	EatenAt   time.Time  `gorm:"not null;index:idx_meal_logs_user_eaten" json:"eaten_at"`
}

func (m *MealLog) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
