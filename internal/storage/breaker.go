package storage

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"github.com/pageza/mealmatch/backend/internal/matching"
)

// BreakerStore guards an artifact store with a circuit breaker so a failing
// backend stops being called on every retrain.
type BreakerStore struct {
	next matching.ArtifactStore
	cb   *gobreaker.CircuitBreaker[*matching.ModelArtifact]
}

// Ensure BreakerStore implements matching.ArtifactStore
var _ matching.ArtifactStore = (*BreakerStore)(nil)

// BreakerSettings configures NewBreakerStore
type BreakerSettings struct {
	Name             string
	FailureThreshold uint32
	OpenTimeout      time.Duration
}

// DefaultBreakerSettings trips after three consecutive failures for 30 seconds
func DefaultBreakerSettings(name string) BreakerSettings {
	return BreakerSettings{Name: name, FailureThreshold: 3, OpenTimeout: 30 * time.Second}
}

// NewBreakerStore wraps next with a circuit breaker
func NewBreakerStore(next matching.ArtifactStore, settings BreakerSettings, logger *zap.Logger) *BreakerStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	threshold := settings.FailureThreshold
	if threshold == 0 {
		threshold = 1
	}

	cb := gobreaker.NewCircuitBreaker[*matching.ModelArtifact](gobreaker.Settings{
		Name:        settings.Name,
		MaxRequests: 1,
		Timeout:     settings.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		// An empty store is a normal answer, not a backend failure.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, matching.ErrNoArtifact)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("artifact store circuit breaker changed state",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})

	return &BreakerStore{next: next, cb: cb}
}

// Save delegates to the wrapped store unless the breaker is open
func (s *BreakerStore) Save(ctx context.Context, artifact *matching.ModelArtifact) error {
	_, err := s.cb.Execute(func() (*matching.ModelArtifact, error) {
		return nil, s.next.Save(ctx, artifact)
	})
	return err
}

// Load delegates to the wrapped store unless the breaker is open
func (s *BreakerStore) Load(ctx context.Context) (*matching.ModelArtifact, error) {
	return s.cb.Execute(func() (*matching.ModelArtifact, error) {
		return s.next.Load(ctx)
	})
}

// State reports the breaker state, for status output
func (s *BreakerStore) State() string {
	return s.cb.State().String()
}
