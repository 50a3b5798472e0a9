// Package app wires configuration into the database, caches, services and
// the matching engine shared by every command.
package app

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pageza/mealmatch/backend/config"
	"github.com/pageza/mealmatch/backend/internal/api"
	"github.com/pageza/mealmatch/backend/internal/database"
	"github.com/pageza/mealmatch/backend/internal/matching"
	"github.com/pageza/mealmatch/backend/internal/metrics"
	"github.com/pageza/mealmatch/backend/internal/middleware"
	"github.com/pageza/mealmatch/backend/internal/service"
	"github.com/pageza/mealmatch/backend/internal/storage"
)

// App holds the long-lived collaborators of a process
type App struct {
	Config          *config.Config
	Logger          *zap.Logger
	DB              *gorm.DB
	Redis           *redis.Client
	Engine          *matching.Engine
	Recipes         *service.RecipeService
	Profiles        *service.ProfileService
	Recommendations *service.RecommendationService
	Tokens          *service.TokenService
}

// New connects to the database, runs migrations, connects Redis when
// configured and restores the last persisted model.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	db, err := database.New(cfg, logger)
	if err != nil {
		return nil, err
	}
	if err := database.RunMigrations(db, cfg.MigrationsDir, logger); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	var rdb *redis.Client
	if cfg.RedisEnabled() {
		rdb, err = database.NewRedisClient(cfg, logger)
		if err != nil {
			// Recommendations and rate limiting degrade to uncached / in-process.
			logger.Warn("redis unavailable, continuing without cache", zap.Error(err))
			rdb = nil
		}
	}

	store, err := storage.New(ctx, cfg, db, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to configure artifact store: %w", err)
	}

	recipes := service.NewRecipeService(db)
	profiles := service.NewProfileService(db)

	var recs *service.RecommendationService
	opts := []matching.Option{
		matching.WithLogger(logger.Named("matching")),
		matching.WithMaxLimit(cfg.SearchMaxLimit),
		matching.WithChangeListener(func(ctx context.Context) { recs.CatalogChanged(ctx) }),
	}
	if store != nil {
		opts = append(opts, matching.WithArtifactStore(store))
	}
	engine := matching.NewEngine(recipes, profiles, opts...)
	recs = service.NewRecommendationService(engine, rdb, cfg.RecommendationTTL, logger)
	metrics.RegisterMatchingMetrics()

	if err := engine.Load(ctx); err != nil {
		logger.Warn("failed to restore model, serving untrained until next training", zap.Error(err))
	}

	return &App{
		Config:          cfg,
		Logger:          logger,
		DB:              db,
		Redis:           rdb,
		Engine:          engine,
		Recipes:         recipes,
		Profiles:        profiles,
		Recommendations: recs,
		Tokens:          service.NewTokenService(cfg.JWTSecret),
	}, nil
}

// APIDependencies returns the collaborators of the HTTP surface
func (a *App) APIDependencies() api.Dependencies {
	return api.Dependencies{
		Engine:          a.Engine,
		Recipes:         a.Recipes,
		Profiles:        a.Profiles,
		Recommendations: a.Recommendations,
		Tokens:          a.Tokens,
		TrainLimiter:    middleware.NewModelTrainingRateLimiter(a.Redis, a.Config.RateLimitWindow, a.Config.RateLimitRequests),
		DBPing: func(ctx context.Context) error {
			return database.HealthCheck(ctx, a.DB)
		},
	}
}

// Close releases the database and Redis connections
func (a *App) Close() {
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			a.Logger.Warn("failed to close redis", zap.Error(err))
		}
	}
	if sqlDB, err := a.DB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			a.Logger.Warn("failed to close database", zap.Error(err))
		}
	}
}
