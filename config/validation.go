package config

import (
	"fmt"
	"strconv"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects every violation found in one pass
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, len(e))
	for i, v := range e {
		msgs[i] = v.Error()
	}
	return strings.Join(msgs, "\n")
}

var (
	validDrivers        = map[string]bool{"postgres": true, "sqlite": true}
	validArtifactStores = map[string]bool{"none": true, "s3": true, "postgres": true}
)

// ValidateConfig checks if the configuration meets the requirements for the current environment
func ValidateConfig(cfg *Config) error {
	var errs ValidationErrors
	add := func(field, format string, args ...any) {
		errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	if port, err := strconv.Atoi(cfg.ServerPort); err != nil || port < 1 || port > 65535 {
		add("SERVER_PORT", "must be a port number, got %q", cfg.ServerPort)
	}

	if !validDrivers[cfg.DBDriver] {
		add("DB_DRIVER", "must be postgres or sqlite, got %q", cfg.DBDriver)
	}
	if cfg.DBDriver == "postgres" {
		for field, value := range map[string]string{"DB_HOST": cfg.DBHost, "DB_USER": cfg.DBUser, "DB_NAME": cfg.DBName} {
			if value == "" {
				add(field, "is required for the postgres driver")
			}
		}
		if cfg.DBPassword == "" {
			add("db_password", "secret is required")
		}
	}
	if cfg.DBDriver == "sqlite" && cfg.SQLitePath == "" {
		add("SQLITE_PATH", "is required for the sqlite driver")
	}

	if cfg.JWTSecret == "" {
		add("jwt_secret", "secret is required")
	}

	if !validArtifactStores[cfg.ArtifactStore] {
		add("ARTIFACT_STORE", "must be none, s3 or postgres, got %q", cfg.ArtifactStore)
	}
	if cfg.ArtifactStore == "s3" {
		if cfg.S3Bucket == "" {
			add("S3_BUCKET_NAME", "is required for the s3 artifact store")
		}
		if cfg.S3Key == "" {
			add("S3_ARTIFACT_KEY", "is required for the s3 artifact store")
		}
	}

	if cfg.SearchMaxLimit < 1 {
		add("SEARCH_MAX_LIMIT", "must be at least 1, got %d", cfg.SearchMaxLimit)
	}
	if cfg.RateLimitRequests < 1 {
		add("RATE_LIMIT_REQUESTS", "must be at least 1, got %d", cfg.RateLimitRequests)
	}
	if cfg.RateLimitWindow <= 0 {
		add("RATE_LIMIT_WINDOW", "must be positive")
	}
	if cfg.RecommendationTTL <= 0 {
		add("RECOMMENDATION_CACHE_TTL", "must be positive")
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
