package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/mealmatch/backend/internal/matching"
	"github.com/pageza/mealmatch/backend/internal/model"
)

// RecipeService owns the recipe catalog and its rating aggregates
type RecipeService struct {
	db *gorm.DB
}

// Ensure RecipeService implements IRecipeService
var _ IRecipeService = (*RecipeService)(nil)

// NewRecipeService creates a new RecipeService instance
func NewRecipeService(db *gorm.DB) *RecipeService {
	return &RecipeService{
		db: db,
	}
}

// GetCatalog returns a snapshot of every recipe, ordered by id
func (s *RecipeService) GetCatalog(ctx context.Context) ([]matching.Recipe, error) {
	var recipes []model.Recipe
	if err := s.db.WithContext(ctx).Order("id").Find(&recipes).Error; err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}

	catalog := make([]matching.Recipe, len(recipes))
	for i := range recipes {
		catalog[i] = recipes[i].ToMatching()
	}
	return catalog, nil
}

// CreateRecipe validates and stores a new recipe
func (s *RecipeService) CreateRecipe(ctx context.Context, recipe *model.Recipe) (*model.Recipe, error) {
	if err := validateRecipe(recipe); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Create(recipe).Error; err != nil {
		return nil, fmt.Errorf("failed to create recipe: %w", err)
	}
	return recipe, nil
}

func validateRecipe(r *model.Recipe) error {
	if strings.TrimSpace(r.Name) == "" {
		return &matching.ValidationError{Field: "name", Message: "name is required"}
	}
	if len(matching.TokenizeAll(r.Ingredients)) == 0 {
		return &matching.ValidationError{Field: "ingredients", Message: "at least one ingredient is required"}
	}
	m := r.Macros
	if m.Calories < 0 || m.Protein < 0 || m.Carbs < 0 || m.Fat < 0 {
		return &matching.ValidationError{Field: "macros", Message: "nutrition facts must not be negative"}
	}
	return nil
}

// GetRecipe retrieves a recipe by ID
func (s *RecipeService) GetRecipe(ctx context.Context, id uuid.UUID) (*model.Recipe, error) {
	return getRecipe(s.db.WithContext(ctx), id)
}

func getRecipe(tx *gorm.DB, id uuid.UUID) (*model.Recipe, error) {
	var recipe model.Recipe
	if err := tx.First(&recipe, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &matching.NotFoundError{Resource: "recipe", ID: id.String()}
		}
		return nil, fmt.Errorf("failed to get recipe: %w", err)
	}
	return &recipe, nil
}

// RecordRating stores a user's rating and updates the recipe's running mean in
// the same transaction. Rating again replaces the previous value without
// changing the count. Invalid ratings are rejected before storage is touched.
func (s *RecipeService) RecordRating(ctx context.Context, userID, recipeID uuid.UUID, rating float64, comment string) (matching.RatingAggregate, error) {
	if err := matching.ValidateRating(rating); err != nil {
		return matching.RatingAggregate{}, err
	}

	var agg matching.RatingAggregate
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := getRecipe(tx, recipeID); err != nil {
			return err
		}

		var existing model.RecipeRating
		err := tx.Where("recipe_id = ? AND user_id = ?", recipeID, userID).First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := tx.Create(&model.RecipeRating{
				RecipeID: recipeID,
				UserID:   userID,
				Rating:   rating,
				Comment:  comment,
			}).Error; err != nil {
				return fmt.Errorf("failed to create rating: %w", err)
			}
			if err := tx.Model(&model.Recipe{}).Where("id = ?", recipeID).Updates(map[string]interface{}{
				"rating_average": gorm.Expr("(rating_average * rating_count + CAST(? AS DOUBLE PRECISION)) / (rating_count + 1)", rating),
				"rating_count":   gorm.Expr("rating_count + 1"),
			}).Error; err != nil {
				return fmt.Errorf("failed to update rating aggregate: %w", err)
			}
		case err != nil:
			return fmt.Errorf("failed to get rating: %w", err)
		default:
			delta := rating - existing.Rating
			if err := tx.Model(&existing).Updates(map[string]interface{}{
				"rating":  rating,
				"comment": comment,
			}).Error; err != nil {
				return fmt.Errorf("failed to update rating: %w", err)
			}
			if err := tx.Model(&model.Recipe{}).Where("id = ? AND rating_count > 0", recipeID).Update(
				"rating_average", gorm.Expr("rating_average + CAST(? AS DOUBLE PRECISION) / rating_count", delta),
			).Error; err != nil {
				return fmt.Errorf("failed to update rating aggregate: %w", err)
			}
		}

		updated, err := getRecipe(tx, recipeID)
		if err != nil {
			return err
		}
		agg = matching.RatingAggregate{Average: updated.RatingAverage, Count: updated.RatingCount}
		return nil
	})
	if err != nil {
		return matching.RatingAggregate{}, err
	}
	return agg, nil
}

// GetRecipeRatings lists the ratings of a recipe, newest first
func (s *RecipeService) GetRecipeRatings(ctx context.Context, recipeID uuid.UUID) ([]model.RecipeRating, error) {
	if _, err := s.GetRecipe(ctx, recipeID); err != nil {
		return nil, err
	}
	var ratings []model.RecipeRating
	if err := s.db.WithContext(ctx).Where("recipe_id = ?", recipeID).Order("updated_at DESC").Find(&ratings).Error; err != nil {
		return nil, fmt.Errorf("failed to list ratings: %w", err)
	}
	return ratings, nil
}

// GetUserRating returns the rating a user gave a recipe
func (s *RecipeService) GetUserRating(ctx context.Context, userID, recipeID uuid.UUID) (*model.RecipeRating, error) {
	var rating model.RecipeRating
	err := s.db.WithContext(ctx).Where("recipe_id = ? AND user_id = ?", recipeID, userID).First(&rating).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &matching.NotFoundError{Resource: "rating", ID: recipeID.String()}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get rating: %w", err)
	}
	return &rating, nil
}
