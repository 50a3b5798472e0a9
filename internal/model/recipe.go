package model

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/mealmatch/backend/internal/matching"
)

// JSONBStringArray is a custom type for handling string arrays in JSONB
type JSONBStringArray []string

// Value implements the driver.Valuer interface
func (a JSONBStringArray) Value() (driver.Value, error) {
	if len(a) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface
func (a *JSONBStringArray) Scan(value interface{}) error {
	if value == nil {
		*a = JSONBStringArray{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("unsupported JSONBStringArray source %T", value)
	}

	return json.Unmarshal(bytes, a)
}

// DietaryFlags are stored as one boolean column each.
type DietaryFlags struct {
	Vegetarian bool `gorm:"not null;default:false" json:"vegetarian"`
	Vegan      bool `gorm:"not null;default:false" json:"vegan"`
	GlutenFree bool `gorm:"not null;default:false" json:"gluten_free"`
	DairyFree  bool `gorm:"not null;default:false" json:"dairy_free"`
	NutFree    bool `gorm:"not null;default:false" json:"nut_free"`
	Halal      bool `gorm:"not null;default:false" json:"halal"`
	Kosher     bool `gorm:"not null;default:false" json:"kosher"`
}

func (f DietaryFlags) toMatching() matching.DietaryFlags {
	return matching.DietaryFlags(f)
}

type Recipe struct {
	ID            uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
	DeletedAt     gorm.DeletedAt   `gorm:"index" json:"-"`
	Name          string           `gorm:"size:255;not null" json:"name"`
	Description   string           `gorm:"type:text" json:"description"`
	Category      string           `gorm:"size:50;index" json:"category"`
	Cuisine       string           `gorm:"size:50" json:"cuisine"`
	Ingredients   JSONBStringArray `gorm:"type:jsonb;not null;default:'[]'" json:"ingredients"`
	Instructions  JSONBStringArray `gorm:"type:jsonb;not null;default:'[]'" json:"instructions"`
	Macros        Macros           `gorm:"embedded" json:"macros"`
	Dietary       DietaryFlags     `gorm:"embedded" json:"dietary"`
	RatingAverage float64          `gorm:"type:float;not null;default:0" json:"rating_average"`
	RatingCount   int              `gorm:"not null;default:0" json:"rating_count"`
	UserID        uuid.UUID        `gorm:"type:uuid" json:"user_id"`
}

// BeforeCreate assigns an id when the caller did not.
func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// ToMatching converts the row into the engine's catalog view.
func (r *Recipe) ToMatching() matching.Recipe {
	return matching.Recipe{
		ID:          r.ID.String(),
		Name:        r.Name,
		Category:    r.Category,
		Cuisine:     r.Cuisine,
		Ingredients: []string(r.Ingredients),
		Nutrition:   r.Macros.toMatching(),
		Dietary:     r.Dietary.toMatching(),
		Rating: matching.RatingAggregate{
			Average: r.RatingAverage,
			Count:   r.RatingCount,
		},
	}
}
