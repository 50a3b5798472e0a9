package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/mealmatch/backend/internal/matching"
	"github.com/pageza/mealmatch/backend/internal/model"
	"github.com/pageza/mealmatch/backend/internal/testhelpers"
)

var fixedNow = time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)

func TestGetUserProfileIncludesRecentCategories(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := NewProfileService(db).WithClock(func() time.Time { return fixedNow })
	p := testhelpers.CreateTestProfile(t, db, 2000, func(p *model.HealthProfile) {
		p.Goal = "Weight_Loss"
		p.DailyProteinTarget = 120
		p.Restrictions.Vegan = true
		p.PreferredCuisine = "thai"
		p.FavoriteIngredients = model.JSONBStringArray{"tofu"}
	})

	testhelpers.CreateTestMeal(t, db, p.UserID, "breakfast", 300, 10, fixedNow.Add(-2*time.Hour))
	testhelpers.CreateTestMeal(t, db, p.UserID, "breakfast", 300, 10, fixedNow.Add(-26*time.Hour))
	testhelpers.CreateTestMeal(t, db, p.UserID, "dinner", 700, 40, fixedNow.Add(-20*24*time.Hour))
	testhelpers.CreateTestMeal(t, db, uuid.New(), "lunch", 500, 20, fixedNow.Add(-time.Hour))

	profile, err := svc.GetUserProfile(context.Background(), p.UserID.String())
	require.NoError(t, err)
	assert.Equal(t, p.UserID.String(), profile.UserID)
	assert.Equal(t, matching.GoalWeightLoss, profile.Goal)
	assert.Equal(t, 2000.0, profile.Targets.Calories)
	assert.Equal(t, 120.0, profile.Targets.Protein)
	assert.True(t, profile.Restrictions.Vegan)
	assert.Equal(t, "thai", profile.PreferredCuisine)
	assert.Equal(t, []string{"tofu"}, profile.FavoriteIngredients)
	assert.Equal(t, []string{"breakfast", "breakfast"}, profile.RecentCategories)
}

func TestGetUserProfileUnknownUser(t *testing.T) {
	svc := NewProfileService(testhelpers.SetupTestDatabase(t))

	_, err := svc.GetUserProfile(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, matching.ErrNotFound)

	_, err = svc.GetUserProfile(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, matching.ErrNotFound)
}

func TestGetDailyIntakeSumsOneDay(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := NewProfileService(db)
	user := uuid.New()
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	testhelpers.CreateTestMeal(t, db, user, "breakfast", 400, 20, day.Add(8*time.Hour))
	testhelpers.CreateTestMeal(t, db, user, "lunch", 650, 35, day.Add(13*time.Hour))
	testhelpers.CreateTestMeal(t, db, user, "dinner", 900, 50, day.Add(-2*time.Hour))
	testhelpers.CreateTestMeal(t, db, user, "snack", 150, 5, day.Add(24*time.Hour))

	intake, err := svc.GetDailyIntake(context.Background(), user.String(), day.Add(15*time.Hour))
	require.NoError(t, err)
	assert.InDelta(t, 1050.0, intake.Calories, 1e-9)
	assert.InDelta(t, 55.0, intake.Protein, 1e-9)

	empty, err := svc.GetDailyIntake(context.Background(), uuid.NewString(), day)
	require.NoError(t, err)
	assert.Equal(t, matching.Intake{}, empty)
}

func TestUpsertHealthProfile(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := NewProfileService(db)
	ctx := context.Background()
	user := uuid.New()

	saved, err := svc.UpsertHealthProfile(ctx, &model.HealthProfile{UserID: user, DailyCalorieTarget: 1800})
	require.NoError(t, err)
	assert.Equal(t, "maintenance", saved.Goal)

	_, err = svc.UpsertHealthProfile(ctx, &model.HealthProfile{UserID: user, Goal: " Muscle_Gain ", DailyCalorieTarget: 2600})
	require.NoError(t, err)

	stored, err := svc.GetHealthProfile(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, "muscle_gain", stored.Goal)
	assert.Equal(t, 2600.0, stored.DailyCalorieTarget)

	_, err = svc.UpsertHealthProfile(ctx, &model.HealthProfile{UserID: user, Goal: "bulk"})
	assert.ErrorIs(t, err, matching.ErrInvalidInput)

	_, err = svc.UpsertHealthProfile(ctx, &model.HealthProfile{UserID: user, DailyProteinTarget: -5})
	assert.ErrorIs(t, err, matching.ErrInvalidInput)
}

func TestLogMeal(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := NewProfileService(db).WithClock(func() time.Time { return fixedNow })
	ctx := context.Background()
	user := uuid.New()

	meal, err := svc.LogMeal(ctx, &model.MealLog{UserID: user, Category: " Lunch ", Calories: 500, Protein: 30})
	require.NoError(t, err)
	assert.Equal(t, "lunch", meal.Category)
	assert.Equal(t, fixedNow, meal.EatenAt)

	_, err = svc.LogMeal(ctx, &model.MealLog{UserID: user})
	assert.ErrorIs(t, err, matching.ErrInvalidInput)

	_, err = svc.LogMeal(ctx, &model.MealLog{UserID: user, Category: "snack", Calories: -10})
	assert.ErrorIs(t, err, matching.ErrInvalidInput)

	intake, err := svc.GetDailyIntake(ctx, user.String(), fixedNow)
	require.NoError(t, err)
	assert.Equal(t, 500.0, intake.Calories)
}
