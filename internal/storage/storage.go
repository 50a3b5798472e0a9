// Package storage persists trained lexical models so a restarted service can
// serve search before its first retrain.
package storage

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pageza/mealmatch/backend/config"
	"github.com/pageza/mealmatch/backend/internal/matching"
)

// New builds the artifact store selected by ARTIFACT_STORE. It returns nil
// when persistence is disabled.
func New(ctx context.Context, cfg *config.Config, db *gorm.DB, logger *zap.Logger) (matching.ArtifactStore, error) {
	switch cfg.ArtifactStore {
	case "", "none":
		return nil, nil
	case "postgres":
		return NewBreakerStore(NewPostgresStore(db), DefaultBreakerSettings("artifact-postgres"), logger), nil
	case "s3":
		s3cfg, err := config.NewS3Config(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to configure s3 artifact store: %w", err)
		}
		return NewBreakerStore(NewS3StoreFromConfig(s3cfg), DefaultBreakerSettings("artifact-s3"), logger), nil
	default:
		return nil, fmt.Errorf("unknown artifact store %q", cfg.ArtifactStore)
	}
}
