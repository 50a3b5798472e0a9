package matching

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/pageza/mealmatch/backend/internal/metrics"
)

// DefaultMaxLimit caps the number of results a single call may ask for.
const DefaultMaxLimit = 50

// Engine owns the currently served ModelArtifact and answers search and
// recommendation queries. It is safe for concurrent use. Readers load the
// artifact once per call; a retrain builds a new artifact off to the side and
// publishes it with a single atomic swap, so the last completed swap wins.
type Engine struct {
	catalog  CatalogSupplier
	profiles ProfileSource
	store    ArtifactStore
	builder  *Builder
	logger   *zap.Logger
	maxLimit int
	now      func() time.Time
	onChange func(context.Context)

	current    atomic.Pointer[ModelArtifact]
	generation atomic.Int64
	persistMu  sync.Mutex
}

// Option configures an Engine.
type Option func(*Engine)

// WithArtifactStore persists every published artifact and allows Load at startup.
func WithArtifactStore(store ArtifactStore) Option {
	return func(e *Engine) { e.store = store }
}

// WithLogger sets the engine logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithMaxLimit overrides DefaultMaxLimit.
func WithMaxLimit(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxLimit = n
		}
	}
}

// WithClock overrides the wall clock used for training timestamps and intake lookups.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
		e.builder.now = now
	}
}

// WithChangeListener registers fn to run whenever the generation advances.
// Shared caches use it to invalidate across processes.
func WithChangeListener(fn func(ctx context.Context)) Option {
	return func(e *Engine) { e.onChange = fn }
}

// NewEngine creates an engine with no published artifact.
func NewEngine(catalog CatalogSupplier, profiles ProfileSource, opts ...Option) *Engine {
	e := &Engine{
		catalog:  catalog,
		profiles: profiles,
		builder:  NewBuilder(),
		logger:   zap.NewNop(),
		maxLimit: DefaultMaxLimit,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.Named("matching")
	return e
}

// TrainResult summarizes a training pass.
type TrainResult struct {
	Trained        bool      `json:"trained"`
	CorpusSize     int       `json:"corpus_size"`
	VocabularySize int       `json:"vocabulary_size"`
	TrainedAt      time.Time `json:"trained_at"`
}

// ModelStatus describes the served artifact.
type ModelStatus struct {
	IsTrained      bool       `json:"is_trained"`
	RecipesCount   int        `json:"recipes_count"`
	VocabularySize int        `json:"vocabulary_size"`
	TrainedAt      *time.Time `json:"trained_at,omitempty"`
	Version        int        `json:"version,omitempty"`
}

// SearchResult is one ranked hit of an ingredient search. IngredientCount is
// the recipe's distinct ingredient tokens, the denominator of MatchCount.
type SearchResult struct {
	RecipeID        string  `json:"recipe_id"`
	Name            string  `json:"name,omitempty"`
	Score           float64 `json:"score"`
	MatchCount      int     `json:"match_count"`
	Similarity      float64 `json:"similarity"`
	RatingAverage   float64 `json:"rating_average"`
	RatingCount     int     `json:"rating_count"`
	IngredientCount int     `json:"ingredient_count"`
}

// Recommendation is one ranked profile recommendation.
type Recommendation struct {
	RecipeID   string      `json:"recipe_id"`
	Name       string      `json:"name,omitempty"`
	Score      float64     `json:"score"`
	Rationale  []string    `json:"rationale"`
	Components []Component `json:"components"`
}

// Artifact returns the served artifact, or nil before the first training pass.
func (e *Engine) Artifact() *ModelArtifact {
	return e.current.Load()
}

// Generation increases every time the catalog is reported changed or a new
// artifact is published. It is local to this process; see WithChangeListener
// for invalidation shared between processes.
func (e *Engine) Generation() int64 {
	return e.generation.Load()
}

// Train rebuilds the artifact from the current catalog and publishes it.
// On failure the previously served artifact stays in place.
func (e *Engine) Train(ctx context.Context) (TrainResult, error) {
	recipes, err := e.catalog.GetCatalog(ctx)
	if err != nil {
		metrics.TrainingRunsTotal.WithLabelValues("error").Inc()
		return TrainResult{}, fmt.Errorf("failed to read catalog: %w", err)
	}

	artifact, err := e.builder.Train(recipes)
	if err != nil {
		if errors.Is(err, ErrInsufficientData) {
			metrics.TrainingRunsTotal.WithLabelValues("insufficient_data").Inc()
		} else {
			metrics.TrainingRunsTotal.WithLabelValues("error").Inc()
		}
		return TrainResult{}, err
	}

	e.publish(ctx, artifact)
	e.persist(ctx, artifact)

	e.logger.Info("model trained",
		zap.Int("corpus_size", artifact.CorpusSize),
		zap.Int("vocabulary_size", artifact.VocabularySize()),
		zap.Int("catalog_size", len(recipes)),
	)
	return TrainResult{
		Trained:        true,
		CorpusSize:     artifact.CorpusSize,
		VocabularySize: artifact.VocabularySize(),
		TrainedAt:      artifact.TrainedAt,
	}, nil
}

// Retrain is the mutation hook: it marks the catalog changed and trains,
// absorbing any failure. The returned error is informational only.
func (e *Engine) Retrain(ctx context.Context) (TrainResult, error) {
	e.advance(ctx)
	res, err := e.Train(ctx)
	if err != nil {
		e.logger.Warn("retrain failed, keeping previous artifact",
			zap.Error(err),
			zap.Bool("has_artifact", e.current.Load() != nil),
		)
		return TrainResult{Trained: false}, err
	}
	return res, nil
}

func (e *Engine) advance(ctx context.Context) {
	e.generation.Add(1)
	if e.onChange != nil {
		e.onChange(ctx)
	}
}

func (e *Engine) publish(ctx context.Context, a *ModelArtifact) {
	e.current.Store(a)
	e.advance(ctx)
	metrics.TrainingRunsTotal.WithLabelValues("success").Inc()
	metrics.ModelCorpusSize.Set(float64(a.CorpusSize))
	metrics.ModelVocabularySize.Set(float64(a.VocabularySize()))
}

func (e *Engine) persist(ctx context.Context, a *ModelArtifact) {
	if e.store == nil {
		return
	}
	e.persistMu.Lock()
	defer e.persistMu.Unlock()
	// Only the served artifact is saved.
	if e.current.Load() != a {
		e.logger.Debug("skipping save of superseded artifact", zap.Time("trained_at", a.TrainedAt))
		return
	}
	if err := e.store.Save(ctx, a); err != nil {
		metrics.ArtifactStoreErrorsTotal.WithLabelValues("save").Inc()
		e.logger.Error("failed to persist artifact", zap.Error(err))
	}
}

// Load publishes the last persisted artifact, if any. It is a no-op without a
// store or when the store is empty.
func (e *Engine) Load(ctx context.Context) error {
	if e.store == nil {
		return nil
	}
	a, err := e.store.Load(ctx)
	if errors.Is(err, ErrNoArtifact) {
		e.logger.Info("no persisted artifact found")
		return nil
	}
	if err != nil {
		metrics.ArtifactStoreErrorsTotal.WithLabelValues("load").Inc()
		return fmt.Errorf("failed to load artifact: %w", err)
	}
	e.publish(ctx, a)
	e.logger.Info("loaded persisted artifact",
		zap.Int("corpus_size", a.CorpusSize),
		zap.Time("trained_at", a.TrainedAt),
	)
	return nil
}

// Status reports the served artifact without side effects.
func (e *Engine) Status() ModelStatus {
	a := e.current.Load()
	if a == nil {
		return ModelStatus{}
	}
	trainedAt := a.TrainedAt
	return ModelStatus{
		IsTrained:      true,
		RecipesCount:   a.CorpusSize,
		VocabularySize: a.VocabularySize(),
		TrainedAt:      &trainedAt,
		Version:        a.Version,
	}
}

func (e *Engine) checkLimit(limit int) (int, error) {
	if limit < 1 {
		return 0, invalid("limit", "limit must be at least 1, got %d", limit)
	}
	if limit > e.maxLimit {
		return e.maxLimit, nil
	}
	return limit, nil
}

// SearchByIngredients ranks trained recipes against an ingredient set.
func (e *Engine) SearchByIngredients(ctx context.Context, ingredients []string, limit, minMatch int) ([]SearchResult, error) {
	start := time.Now()
	defer func() { metrics.SearchDuration.Observe(time.Since(start).Seconds()) }()

	artifact := e.current.Load()
	if artifact == nil {
		return nil, ErrModelNotTrained
	}
	query, err := NormalizeQuery(ingredients)
	if err != nil {
		return nil, err
	}
	if limit, err = e.checkLimit(limit); err != nil {
		return nil, err
	}
	if minMatch < 0 {
		return nil, invalid("min_match", "min_match must not be negative, got %d", minMatch)
	}

	scorer := NewLexicalScorer(artifact, query, minMatch)
	candidates := make([]Candidate, 0, len(artifact.Documents))
	for _, doc := range artifact.Documents {
		scored, ok := scorer.scoreDocument(doc, doc.Rating)
		if !ok {
			continue
		}
		candidates = append(candidates, newCandidate(Recipe{ID: doc.RecipeID, Name: doc.Name, Rating: doc.Rating}, scored))
	}

	ranked := Rank(candidates, limit)
	results := make([]SearchResult, len(ranked))
	for i, c := range ranked {
		doc, _ := artifact.Document(c.RecipeID)
		results[i] = SearchResult{
			RecipeID:        c.RecipeID,
			Name:            c.Name,
			Score:           c.Score,
			MatchCount:      c.MatchCount,
			Similarity:      c.Similarity,
			RatingAverage:   doc.Rating.Average,
			RatingCount:     doc.Rating.Count,
			IngredientCount: len(doc.Tokens),
		}
	}
	return results, nil
}

// Recommend scores the eligible catalog against a user's profile. category,
// when non-empty, restricts candidates to that category.
func (e *Engine) Recommend(ctx context.Context, userID, category string, limit int) ([]Recommendation, error) {
	start := time.Now()
	defer func() { metrics.RecommendDuration.Observe(time.Since(start).Seconds()) }()

	limit, err := e.checkLimit(limit)
	if err != nil {
		return nil, err
	}

	profile, err := e.profiles.GetUserProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	intake, err := e.profiles.GetDailyIntake(ctx, userID, e.now())
	if err != nil {
		return nil, fmt.Errorf("failed to get daily intake: %w", err)
	}
	recipes, err := e.catalog.GetCatalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}

	category = strings.TrimSpace(category)
	scorer := NewProfileScorer(profile, ScoringContext{Consumed: intake})
	candidates := make([]Candidate, 0, len(recipes))
	for _, r := range recipes {
		if category != "" && !strings.EqualFold(category, strings.TrimSpace(r.Category)) {
			continue
		}
		scored, ok := scorer.Score(r)
		if !ok {
			continue
		}
		candidates = append(candidates, newCandidate(r, scored))
	}

	ranked := Rank(candidates, limit)
	recs := make([]Recommendation, len(ranked))
	for i, c := range ranked {
		recs[i] = Recommendation{
			RecipeID:   c.RecipeID,
			Name:       c.Name,
			Score:      c.Score,
			Rationale:  c.Rationale,
			Components: c.Components,
		}
	}
	return recs, nil
}
