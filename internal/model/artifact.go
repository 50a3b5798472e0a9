package model

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

// ModelArtifact is the stored header of a trained lexical model. The idf
// weights are a JSONB array so the vocabulary size is unbounded; per-recipe
// vectors are ArtifactVectors.
type ModelArtifact struct {
	ID         uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt  time.Time         `json:"created_at"`
	Version    int               `gorm:"not null" json:"version"`
	TrainedAt  time.Time         `gorm:"not null;index" json:"trained_at"`
	CorpusSize int               `gorm:"not null" json:"corpus_size"`
	Vocabulary JSONBStringArray  `gorm:"type:jsonb;not null" json:"vocabulary"`
	IDF        JSONBFloat64Array `gorm:"type:jsonb;not null" json:"-"`
	Vectors    []ArtifactVector  `gorm:"foreignKey:ArtifactID;constraint:OnDelete:CASCADE" json:"-"`
}

// JSONBFloat64Array stores float64 weights as a JSONB array
type JSONBFloat64Array []float64

// Value implements the driver.Valuer interface
func (a JSONBFloat64Array) Value() (driver.Value, error) {
	if len(a) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface
func (a *JSONBFloat64Array) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*a = JSONBFloat64Array{}
		return nil
	case []byte:
		return json.Unmarshal(v, a)
	case string:
		return json.Unmarshal([]byte(v), a)
	default:
		return fmt.Errorf("unsupported JSONBFloat64Array source %T", value)
	}
}

func (ModelArtifact) TableName() string {
	return "model_artifacts"
}

func (a *ModelArtifact) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// ArtifactVector is one trained recipe document
type ArtifactVector struct {
	ID            uint                  `gorm:"primaryKey" json:"id"`
	ArtifactID    uuid.UUID             `gorm:"type:uuid;not null;index" json:"artifact_id"`
	Position      int                   `gorm:"not null" json:"position"`
	RecipeID      string                `gorm:"type:varchar(64);not null" json:"recipe_id"`
	Name          string                `json:"name"`
	Tokens        JSONBStringArray      `gorm:"type:jsonb;not null" json:"tokens"`
	RatingAverage float64               `gorm:"type:float;not null;default:0" json:"rating_average"`
	RatingCount   int                   `gorm:"not null;default:0" json:"rating_count"`
	Embedding     pgvector.SparseVector `gorm:"type:sparsevec;not null" json:"-"`
}

func (ArtifactVector) TableName() string {
	return "artifact_vectors"
}

// All lists every persisted model, in dependency order, for auto-migration
func All() []interface{} {
	return []interface{}{
		&Recipe{},
		&RecipeRating{},
		&HealthProfile{},
		&MealLog{},
		&ModelArtifact{},
		&ArtifactVector{},
	}
}
