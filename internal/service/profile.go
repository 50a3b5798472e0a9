package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/mealmatch/backend/internal/matching"
	"github.com/pageza/mealmatch/backend/internal/model"
)

// DefaultHistoryWindow is how far back meal logs count toward category history.
const DefaultHistoryWindow = 14 * 24 * time.Hour

var validGoals = map[matching.Goal]bool{
	matching.GoalWeightLoss:  true,
	matching.GoalMuscleGain:  true,
	matching.GoalMaintenance: true,
	matching.GoalWeightGain:  true,
}

// ProfileService handles health profiles and meal logs
type ProfileService struct {
	db            *gorm.DB
	historyWindow time.Duration
	now           Clock
}

// Ensure ProfileService implements IProfileService
var _ IProfileService = (*ProfileService)(nil)

// NewProfileService creates a new ProfileService instance
func NewProfileService(db *gorm.DB) *ProfileService {
	return &ProfileService{
		db:            db,
		historyWindow: DefaultHistoryWindow,
		now:           time.Now,
	}
}

// WithClock replaces the wall clock, for tests
func (s *ProfileService) WithClock(now Clock) *ProfileService {
	s.now = now
	return s
}

// GetHealthProfile returns the stored profile of a user
func (s *ProfileService) GetHealthProfile(ctx context.Context, userID uuid.UUID) (*model.HealthProfile, error) {
	var profile model.HealthProfile
	if err := s.db.WithContext(ctx).First(&profile, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &matching.NotFoundError{Resource: "user", ID: userID.String()}
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &profile, nil
}

// GetUserProfile resolves the scoring view of a user, including recent meal categories
func (s *ProfileService) GetUserProfile(ctx context.Context, userID string) (*matching.UserProfile, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, &matching.NotFoundError{Resource: "user", ID: userID}
	}
	profile, err := s.GetHealthProfile(ctx, id)
	if err != nil {
		return nil, err
	}

	var categories []string
	since := s.now().UTC().Add(-s.historyWindow)
	if err := s.db.WithContext(ctx).Model(&model.MealLog{}).
		Where("user_id = ? AND eaten_at >= ?", id, since).
		Order("eaten_at").
		Pluck("category", &categories).Error; err != nil {
		return nil, fmt.Errorf("failed to get meal history: %w", err)
	}

	return profile.ToMatching(categories), nil
}

// GetDailyIntake sums what the user logged on the UTC day containing day
func (s *ProfileService) GetDailyIntake(ctx context.Context, userID string, day time.Time) (matching.Intake, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return matching.Intake{}, &matching.NotFoundError{Resource: "user", ID: userID}
	}

	d := day.UTC()
	start := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	var totals struct {
		Calories float64
		Protein  float64
	}
	if err := s.db.WithContext(ctx).Model(&model.MealLog{}).
		Select("COALESCE(SUM(calories), 0) AS calories, COALESCE(SUM(protein), 0) AS protein").
		Where("user_id = ? AND eaten_at >= ? AND eaten_at < ?", id, start, start.Add(24*time.Hour)).
		Scan(&totals).Error; err != nil {
		return matching.Intake{}, fmt.Errorf("failed to sum intake: %w", err)
	}
	return matching.Intake{Calories: totals.Calories, Protein: totals.Protein}, nil
}

// UpsertHealthProfile creates or replaces a user's profile
func (s *ProfileService) UpsertHealthProfile(ctx context.Context, profile *model.HealthProfile) (*model.HealthProfile, error) {
	profile.Goal = strings.ToLower(strings.TrimSpace(profile.Goal))
	if profile.Goal == "" {
		profile.Goal = string(matching.GoalMaintenance)
	}
	if !validGoals[matching.Goal(profile.Goal)] {
		return nil, &matching.ValidationError{Field: "goal", Message: fmt.Sprintf("unknown goal %q", profile.Goal)}
	}
	if profile.DailyCalorieTarget < 0 || profile.DailyProteinTarget < 0 || profile.DailyCarbsTarget < 0 || profile.DailyFatTarget < 0 {
		return nil, &matching.ValidationError{Field: "targets", Message: "daily targets must not be negative"}
	}

	if err := s.db.WithContext(ctx).Save(profile).Error; err != nil {
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}
	return profile, nil
}

// LogMeal records a meal for a user
func (s *ProfileService) LogMeal(ctx context.Context, meal *model.MealLog) (*model.MealLog, error) {
	meal.Category = strings.ToLower(strings.TrimSpace(meal.Category))
	if meal.Category == "" {
		return nil, &matching.ValidationError{Field: "category", Message: "category is required"}
	}
	if meal.Calories < 0 || meal.Protein < 0 {
		return nil, &matching.ValidationError{Field: "nutrition", Message: "nutrition facts must not be negative"}
	}
	if meal.EatenAt.IsZero() {
		meal.EatenAt = s.now()
	}
	meal.EatenAt = meal.EatenAt.UTC()

	if err := s.db.WithContext(ctx).Create(meal).Error; err != nil {
		return nil, fmt.Errorf("failed to log meal: %w", err)
	}
	return meal, nil
}
