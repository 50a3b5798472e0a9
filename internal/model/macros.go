package model

import "github.com/pageza/mealmatch/backend/internal/matching"

// Macros represents nutrition information for a recipe.
type Macros struct {
	Calories float64 `gorm:"type:float;not null;default:0" json:"calories"`
	Protein  float64 `gorm:"type:float;not null;default:0" json:"protein"`
	Fat      float64 `gorm:"type:float;not null;default:0" json:"fat"`
	Carbs    float64 `gorm:"type:float;not null;default:0" json:"carbs"`
}

func (m Macros) toMatching() matching.Nutrition {
	return matching.Nutrition{
		Calories: m.Calories,
		Protein:  m.Protein,
		Carbs:    m.Carbs,
		Fat:      m.Fat,
	}
}
