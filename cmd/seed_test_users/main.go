package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pageza/mealmatch/backend/config"
	"github.com/pageza/mealmatch/backend/internal/app"
	"github.com/pageza/mealmatch/backend/internal/logger"
	"github.com/pageza/mealmatch/backend/internal/model"
)

type testUser struct {
	username string
	profile  model.HealthProfile
	meals    []string
}

// testUsers covers every goal and a few dietary restrictions
func testUsers() []testUser {
	return []testUser{
		{
			username: "johndoe",
			profile: model.HealthProfile{
				Goal:               "weight_loss",
				DailyCalorieTarget: 1800,
				DailyProteinTarget: 120,
				PreferredCuisine:   "mediterranean",
			},
			meals: []string{"lunch", "lunch", "dinner"},
		},
		{
			username: "janesmith",
			profile: model.HealthProfile{
				Goal:                "maintenance",
				DailyCalorieTarget:  2000,
				DailyProteinTarget:  80,
				Restrictions:        model.DietaryFlags{Vegetarian: true, Vegan: true},
				FavoriteIngredients: model.JSONBStringArray{"tofu", "lentils"},
			},
			meals: []string{"breakfast", "dinner"},
		},
		{
			username: "bobwilson",
			profile: model.HealthProfile{
				Goal:                "muscle_gain",
				DailyCalorieTarget:  2800,
				DailyProteinTarget:  180,
				DislikedIngredients: model.JSONBStringArray{"mushroom"},
			},
			meals: []string{"dinner", "dinner", "snack"},
		},
		{
			username: "alicecooper",
			profile: model.HealthProfile{
				Goal:               "weight_gain",
				DailyCalorieTarget: 3000,
				Restrictions:       model.DietaryFlags{GlutenFree: true, NutFree: true},
			},
		},
	}
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	zl, err := logger.NewLogger(cfg.Environment.String(), cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	ctx := context.Background()
	a, err := app.New(ctx, cfg, zl)
	if err != nil {
		zl.Fatal("failed to initialize application", zap.Error(err))
	}
	defer a.Close()

	now := time.Now().UTC()
	for _, u := range testUsers() {
		userID := uuid.New()
		profile := u.profile
		profile.UserID = userID
		if _, err := a.Profiles.UpsertHealthProfile(ctx, &profile); err != nil {
			zl.Error("failed to create profile", zap.String("username", u.username), zap.Error(err))
			continue
		}

		for i, category := range u.meals {
			meal := &model.MealLog{
				UserID:   userID,
				Category: category,
				EatenAt:  now.Add(-time.Duration(i+1) * 24 * time.Hour),
			}
			if _, err := a.Profiles.LogMeal(ctx, meal); err != nil {
				zl.Warn("failed to log meal", zap.String("username", u.username), zap.Error(err))
			}
		}

		token, err := a.Tokens.GenerateToken(userID, u.username)
		if err != nil {
			zl.Error("failed to issue token", zap.String("username", u.username), zap.Error(err))
			continue
		}
		fmt.Printf("%s\t%s\t%s\n", u.username, userID, token)
	}
}
