package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"

	"github.com/pageza/mealmatch/backend/internal/matching"
	"github.com/pageza/mealmatch/backend/internal/model"
)

// PostgresStore keeps the latest artifact in the model_artifacts and
// artifact_vectors tables. IDF weights are exact JSONB numbers; document
// vectors are float4 pgvector sparsevec values.
type PostgresStore struct {
	db *gorm.DB
}

// Ensure PostgresStore implements matching.ArtifactStore
var _ matching.ArtifactStore = (*PostgresStore)(nil)

// NewPostgresStore creates a new PostgresStore instance
func NewPostgresStore(db *gorm.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Save stores the artifact and removes every older one
func (s *PostgresStore) Save(ctx context.Context, artifact *matching.ModelArtifact) error {
	header, vectors := toRows(artifact)

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Vectors").Create(header).Error; err != nil {
			return fmt.Errorf("failed to save artifact: %w", err)
		}
		for i := range vectors {
			vectors[i].ArtifactID = header.ID
		}
		if err := tx.CreateInBatches(vectors, 500).Error; err != nil {
			return fmt.Errorf("failed to save artifact vectors: %w", err)
		}
		if err := tx.Where("artifact_id <> ?", header.ID).Delete(&model.ArtifactVector{}).Error; err != nil {
			return fmt.Errorf("failed to prune artifact vectors: %w", err)
		}
		if err := tx.Where("id <> ?", header.ID).Delete(&model.ModelArtifact{}).Error; err != nil {
			return fmt.Errorf("failed to prune artifacts: %w", err)
		}
		return nil
	})
}

// Load returns the most recently trained artifact
func (s *PostgresStore) Load(ctx context.Context) (*matching.ModelArtifact, error) {
	var header model.ModelArtifact
	err := s.db.WithContext(ctx).
		Preload("Vectors", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Order("trained_at DESC").
		First(&header).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, matching.ErrNoArtifact
		}
		return nil, fmt.Errorf("failed to load artifact: %w", err)
	}
	return fromRows(&header)
}

func toRows(a *matching.ModelArtifact) (*model.ModelArtifact, []model.ArtifactVector) {
	vectors := make([]model.ArtifactVector, len(a.Documents))
	for i, d := range a.Documents {
		elements := make(map[int32]float32, len(d.Vector.Indices))
		for j, idx := range d.Vector.Indices {
			elements[int32(idx)] = float32(d.Vector.Values[j])
		}
		vectors[i] = model.ArtifactVector{
			Position:      i,
			RecipeID:      d.RecipeID,
			Name:          d.Name,
			Tokens:        model.JSONBStringArray(d.Tokens),
			RatingAverage: d.Rating.Average,
			RatingCount:   d.Rating.Count,
			Embedding:     pgvector.NewSparseVectorFromMap(elements, int32(len(a.IDF))),
		}
	}

	header := &model.ModelArtifact{
		Version:    a.Version,
		TrainedAt:  a.TrainedAt.UTC(),
		CorpusSize: a.CorpusSize,
		Vocabulary: model.JSONBStringArray(a.Vocab()),
		IDF:        model.JSONBFloat64Array(append([]float64(nil), a.IDF...)),
	}
	return header, vectors
}

func fromRows(h *model.ModelArtifact) (*matching.ModelArtifact, error) {
	vocab := make(map[string]int, len(h.Vocabulary))
	for i, t := range h.Vocabulary {
		vocab[t] = i
	}
	idf := []float64(h.IDF)

	docs := make([]matching.Document, len(h.Vectors))
	for i, v := range h.Vectors {
		indices := v.Embedding.Indices()
		values := v.Embedding.Values()
		vec := matching.SparseVector{Indices: make([]int, len(indices)), Values: make([]float64, len(values))}
		for j := range indices {
			vec.Indices[j] = int(indices[j])
		}
		for j := range values {
			vec.Values[j] = float64(values[j])
		}
		docs[i] = matching.Document{
			RecipeID: v.RecipeID,
			Name:     v.Name,
			Tokens:   []string(v.Tokens),
			Rating:   matching.RatingAggregate{Average: v.RatingAverage, Count: v.RatingCount},
			Vector:   vec,
		}
	}

	return matching.NewArtifact(h.Version, h.TrainedAt, h.CorpusSize, vocab, idf, docs)
}
