package matching

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"
)

// artifactRecord is the persisted layout of a ModelArtifact.
type artifactRecord struct {
	Version    int        `json:"version"`
	TrainedAt  time.Time  `json:"trained_at"`
	CorpusSize int        `json:"corpus_size"`
	Vocabulary []string   `json:"vocabulary"`
	IDF        []float64  `json:"idf"`
	Documents  []Document `json:"documents"`
}

// MarshalArtifact encodes an artifact as a versioned JSON record.
func MarshalArtifact(a *ModelArtifact) ([]byte, error) {
	rec := artifactRecord{
		Version:    a.Version,
		TrainedAt:  a.TrainedAt,
		CorpusSize: a.CorpusSize,
		Vocabulary: a.Vocab(),
		IDF:        a.IDF,
		Documents:  a.Documents,
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("failed to encode artifact: %w", err)
	}
	return data, nil
}

// UnmarshalArtifact decodes and validates a record produced by MarshalArtifact.
func UnmarshalArtifact(data []byte) (*ModelArtifact, error) {
	var rec artifactRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to decode artifact: %w", err)
	}

	vocab := make(map[string]int, len(rec.Vocabulary))
	for i, t := range rec.Vocabulary {
		vocab[t] = i
	}
	return NewArtifact(rec.Version, rec.TrainedAt, rec.CorpusSize, vocab, rec.IDF, rec.Documents)
}

// NewArtifact assembles an artifact from stored parts and checks that they are
// consistent with each other.
func NewArtifact(version int, trainedAt time.Time, corpusSize int, vocab map[string]int, idf []float64, docs []Document) (*ModelArtifact, error) {
	if version != ArtifactVersion {
		return nil, fmt.Errorf("unsupported artifact version %d", version)
	}
	if len(vocab) != len(idf) {
		return nil, fmt.Errorf("artifact vocabulary has %d terms but %d idf weights", len(vocab), len(idf))
	}
	for t, i := range vocab {
		if i < 0 || i >= len(idf) {
			return nil, fmt.Errorf("artifact term %q has index %d out of range", t, i)
		}
	}
	if corpusSize != len(docs) || corpusSize < MinCorpusSize {
		return nil, fmt.Errorf("artifact corpus size %d does not match %d documents", corpusSize, len(docs))
	}
	for _, d := range docs {
		if len(d.Vector.Indices) != len(d.Vector.Values) {
			return nil, fmt.Errorf("artifact document %s has a malformed vector", d.RecipeID)
		}
		for _, idx := range d.Vector.Indices {
			if idx < 0 || idx >= len(idf) {
				return nil, fmt.Errorf("artifact document %s references index %d out of range", d.RecipeID, idx)
			}
		}
	}

	a := &ModelArtifact{
		Version:    version,
		TrainedAt:  trainedAt,
		CorpusSize: corpusSize,
		Vocabulary: vocab,
		IDF:        idf,
		Documents:  docs,
	}
	a.index()
	return a, nil
}
