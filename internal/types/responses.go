package types

import (
	"github.com/pageza/mealmatch/backend/internal/matching"
)

// SearchResponse is returned by the ingredient search endpoint
type SearchResponse struct {
	Results []matching.SearchResult `json:"results"`
	Count   int                     `json:"count"`
}

// RecommendationResponse is returned by the recommendations endpoint
type RecommendationResponse struct {
	Recommendations []matching.Recommendation `json:"recommendations"`
	Count           int                       `json:"count"`
}

// RatingResponse reports the recipe's aggregate after a rating
type RatingResponse struct {
	RecipeID       string  `json:"recipe_id"`
	RatingAverage  float64 `json:"rating_average"`
	RatingCount    int     `json:"rating_count"`
	ModelRetrained bool    `json:"model_retrained"`
}
