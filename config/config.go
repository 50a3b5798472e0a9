package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Environment Environment

	// Server configuration
	ServerPort  string
	ServerHost  string
	CORSOrigins []string
	LogLevel    string

	// Database configuration
	DBDriver      string
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	DBSSLMode     string
	SQLitePath    string
	MigrationsDir string

	// Redis configuration
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisURL      string

	// JWT configuration
	JWTSecret string

	// Model artifact persistence: none, s3 or postgres
	ArtifactStore string
	S3Bucket      string
	S3Key         string
	S3Endpoint    string
	AWSRegion     string

	// Matching configuration
	SearchMaxLimit    int
	RecommendationTTL time.Duration
	RateLimitWindow   time.Duration
	RateLimitRequests int
}

// RedisEnabled reports whether a Redis server is configured
func (c *Config) RedisEnabled() bool {
	return c.RedisURL != "" || c.RedisHost != ""
}

// LoadConfig creates a new Config instance with values from environment variables or secrets
func LoadConfig() (*Config, error) {
	env := GetEnvironment()
	cfg := &Config{Environment: env}

	// Load configuration based on environment
	switch env {
	case CI:
		if err := loadCIConfig(cfg); err != nil {
			return nil, fmt.Errorf("failed to load CI configuration: %w", err)
		}
	case Development, Test:
		if err := loadDevConfig(cfg); err != nil {
			return nil, fmt.Errorf("failed to load development configuration: %w", err)
		}
	case Production:
		if err := loadProdConfig(cfg); err != nil {
			return nil, fmt.Errorf("failed to load production configuration: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown environment: %s", env)
	}

	// Validate the configuration
	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// loadCommon reads the non-secret settings shared by every environment
func loadCommon(cfg *Config, defaults map[string]string) error {
	get := func(key string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		return defaults[key]
	}

	cfg.ServerPort = get("SERVER_PORT")
	cfg.ServerHost = get("SERVER_HOST")
	cfg.LogLevel = get("LOG_LEVEL")
	cfg.CORSOrigins = splitList(get("CORS_ORIGINS"))
	cfg.DBDriver = strings.ToLower(get("DB_DRIVER"))
	cfg.DBHost = get("DB_HOST")
	cfg.DBPort = get("DB_PORT")
	cfg.DBUser = get("DB_USER")
	cfg.DBName = get("DB_NAME")
	cfg.DBSSLMode = get("DB_SSL_MODE")
	cfg.SQLitePath = get("SQLITE_PATH")
	cfg.MigrationsDir = get("MIGRATIONS_DIR")
	cfg.RedisHost = get("REDIS_HOST")
	cfg.RedisPort = get("REDIS_PORT")
	cfg.RedisDB = 0 // This is a constant, not a secret
	cfg.ArtifactStore = strings.ToLower(get("ARTIFACT_STORE"))
	cfg.S3Bucket = get("S3_BUCKET_NAME")
	cfg.S3Key = get("S3_ARTIFACT_KEY")
	cfg.S3Endpoint = get("S3_ENDPOINT")
	cfg.AWSRegion = get("AWS_REGION")

	var err error
	if cfg.SearchMaxLimit, err = strconv.Atoi(get("SEARCH_MAX_LIMIT")); err != nil {
		return fmt.Errorf("invalid SEARCH_MAX_LIMIT: %w", err)
	}
	if cfg.RateLimitRequests, err = strconv.Atoi(get("RATE_LIMIT_REQUESTS")); err != nil {
		return fmt.Errorf("invalid RATE_LIMIT_REQUESTS: %w", err)
	}
	if cfg.RecommendationTTL, err = time.ParseDuration(get("RECOMMENDATION_CACHE_TTL")); err != nil {
		return fmt.Errorf("invalid RECOMMENDATION_CACHE_TTL: %w", err)
	}
	if cfg.RateLimitWindow, err = time.ParseDuration(get("RATE_LIMIT_WINDOW")); err != nil {
		return fmt.Errorf("invalid RATE_LIMIT_WINDOW: %w", err)
	}
	return nil
}

func baseDefaults() map[string]string {
	return map[string]string{
		"SERVER_PORT":              "8080",
		"SERVER_HOST":              "0.0.0.0",
		"LOG_LEVEL":                "info",
		"CORS_ORIGINS":             "http://localhost:5173",
		"DB_DRIVER":                "postgres",
		"DB_PORT":                  "5432",
		"DB_SSL_MODE":              "disable",
		"SQLITE_PATH":              "mealmatch.db",
		"MIGRATIONS_DIR":           "migrations",
		"REDIS_PORT":               "6379",
		"ARTIFACT_STORE":           "none",
		"S3_ARTIFACT_KEY":          "models/lexical-artifact.json",
		"SEARCH_MAX_LIMIT":         "50",
		"RATE_LIMIT_REQUESTS":      "20",
		"RECOMMENDATION_CACHE_TTL": "30m",
		"RATE_LIMIT_WINDOW":        "1h",
	}
}

// loadCIConfig loads configuration for CI environment using ONLY GitHub Actions secrets
func loadCIConfig(cfg *Config) error {
	if err := loadCommon(cfg, baseDefaults()); err != nil {
		return err
	}

	// GitHub Actions secrets - use environment variables directly
	cfg.DBPassword = os.Getenv("TEST_DB_PASSWORD")
	if cfg.DBPassword == "" {
		return fmt.Errorf("TEST_DB_PASSWORD environment variable is required in CI environment")
	}
	cfg.JWTSecret = os.Getenv("TEST_JWT_SECRET")
	cfg.RedisPassword = os.Getenv("TEST_REDIS_PASSWORD")
	cfg.RedisURL = os.Getenv("TEST_REDIS_URL")

	return nil
}

// loadDevConfig loads configuration for development and test environments.
// A .env file is honoured when present; env vars win over Docker secrets,
// which win over local defaults.
func loadDevConfig(cfg *Config) error {
	_ = godotenv.Load()

	defaults := baseDefaults()
	defaults["LOG_LEVEL"] = "debug"
	defaults["DB_HOST"] = "localhost"
	defaults["DB_USER"] = "postgres"
	defaults["DB_NAME"] = "mealmatch"
	defaults["REDIS_HOST"] = "localhost"
	if err := loadCommon(cfg, defaults); err != nil {
		return err
	}

	cfg.DBPassword = envOrSecret("DB_PASSWORD", "db_password", "postgres")
	cfg.JWTSecret = envOrSecret("JWT_SECRET", "jwt_secret", "your-secret-key")
	cfg.RedisPassword = envOrSecret("REDIS_PASSWORD", "redis_password", "")
	cfg.RedisURL = envOrSecret("REDIS_URL", "redis_url", "")

	return nil
}

// loadProdConfig loads configuration for production; credentials come ONLY from Docker secrets
func loadProdConfig(cfg *Config) error {
	if err := loadCommon(cfg, baseDefaults()); err != nil {
		return err
	}

	if v := readSecret("db_host"); v != "" {
		cfg.DBHost = v
	}
	if v := readSecret("db_user"); v != "" {
		cfg.DBUser = v
	}
	if v := readSecret("db_name"); v != "" {
		cfg.DBName = v
	}
	cfg.DBPassword = readSecret("db_password")
	cfg.RedisPassword = readSecret("redis_password")
	cfg.JWTSecret = readSecret("jwt_secret")
	cfg.RedisURL = readSecret("redis_url")

	return nil
}

func envOrSecret(envKey, secretName, fallback string) string {
	if v := os.Getenv(envKey); v != "" {
		return v
	}
	if v := readSecret(secretName); v != "" {
		return v
	}
	return fallback
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	secretPath := filepath.Join(secretsDir, name)
	if data, err := os.ReadFile(secretPath); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
