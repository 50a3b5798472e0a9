package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/pageza/mealmatch/backend/internal/matching"
	"github.com/pageza/mealmatch/backend/internal/metrics"
)

// DefaultRecommendationTTL is how long cached recommendations are served.
const DefaultRecommendationTTL = 30 * time.Minute

const (
	recommendationKeyPrefix = "mealmatch:recs"
	generationKey           = recommendationKeyPrefix + ":generation"
)

// RecommendationService caches engine recommendations in Redis. Keys carry a
// catalog generation and a per-user version, both kept in Redis so every
// process sharing the cache sees the same invalidations. Without Redis every
// call hits the engine.
type RecommendationService struct {
	engine Recommender
	redis  *redis.Client
	ttl    time.Duration
	logger *zap.Logger
	now    Clock
}

// Ensure RecommendationService implements IRecommendationService
var _ IRecommendationService = (*RecommendationService)(nil)

// NewRecommendationService creates a new RecommendationService. redisClient may be nil.
func NewRecommendationService(engine Recommender, redisClient *redis.Client, ttl time.Duration, logger *zap.Logger) *RecommendationService {
	if ttl <= 0 {
		ttl = DefaultRecommendationTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecommendationService{
		engine: engine,
		redis:  redisClient,
		ttl:    ttl,
		logger: logger.Named("recommendations"),
		now:    time.Now,
	}
}

// Recommend returns cached recommendations or computes and caches them
func (s *RecommendationService) Recommend(ctx context.Context, userID, category string, limit int) ([]matching.Recommendation, error) {
	if s.redis == nil {
		return s.engine.Recommend(ctx, userID, category, limit)
	}

	key, err := s.cacheKey(ctx, userID, category, limit)
	if err != nil {
		metrics.RecommendCacheTotal.WithLabelValues("error").Inc()
		s.logger.Warn("recommendation cache unavailable", zap.Error(err))
		return s.engine.Recommend(ctx, userID, category, limit)
	}

	data, err := s.redis.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var recs []matching.Recommendation
		if jsonErr := json.Unmarshal(data, &recs); jsonErr == nil {
			metrics.RecommendCacheTotal.WithLabelValues("hit").Inc()
			return recs, nil
		}
		s.logger.Warn("discarding undecodable cache entry", zap.String("key", key))
	case errors.Is(err, redis.Nil):
	default:
		metrics.RecommendCacheTotal.WithLabelValues("error").Inc()
		s.logger.Warn("recommendation cache read failed", zap.Error(err))
	}

	metrics.RecommendCacheTotal.WithLabelValues("miss").Inc()
	recs, err := s.engine.Recommend(ctx, userID, category, limit)
	if err != nil {
		return nil, err
	}

	if encoded, err := json.Marshal(recs); err == nil {
		if err := s.redis.Set(ctx, key, encoded, s.ttl).Err(); err != nil {
			s.logger.Warn("recommendation cache write failed", zap.Error(err))
		}
	}
	return recs, nil
}

// InvalidateUser bumps the user's cache version after a profile or meal log change
func (s *RecommendationService) InvalidateUser(ctx context.Context, userID string) error {
	if s.redis == nil {
		return nil
	}
	if err := s.redis.Incr(ctx, userVersionKey(userID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate recommendations: %w", err)
	}
	return nil
}

// CatalogChanged bumps the shared catalog generation. The engine calls it on
// every retrain and publication.
func (s *RecommendationService) CatalogChanged(ctx context.Context) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Incr(ctx, generationKey).Err(); err != nil {
		s.logger.Warn("failed to bump catalog generation", zap.Error(err))
	}
}

func userVersionKey(userID string) string {
	return fmt.Sprintf("%s:user:%s:version", recommendationKeyPrefix, userID)
}

func (s *RecommendationService) cacheKey(ctx context.Context, userID, category string, limit int) (string, error) {
	counters, err := s.redis.MGet(ctx, generationKey, userVersionKey(userID)).Result()
	if err != nil {
		return "", err
	}
	generation, err := counterValue(counters[0])
	if err != nil {
		return "", err
	}
	version, err := counterValue(counters[1])
	if err != nil {
		return "", err
	}
	day := s.now().UTC().Format("2006-01-02")
	return fmt.Sprintf("%s:%d:%s:%d:%s:%s:%d",
		recommendationKeyPrefix,
		generation,
		userID,
		version,
		day,
		strings.ToLower(strings.TrimSpace(category)),
		limit,
	), nil
}

// counterValue reads an INCR counter from an MGET reply; a missing key is 0.
func counterValue(v interface{}) (int64, error) {
	if v == nil {
		return 0, nil
	}
	str, ok := v.(string)
	if !ok {
		return 0, fmt.Errorf("unexpected counter type %T", v)
	}
	n, err := strconv.ParseInt(str, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid counter %q: %w", str, err)
	}
	return n, nil
}
