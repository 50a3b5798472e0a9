package matching

import (
	"math"
	"sort"
	"time"
)

// ArtifactVersion is the schema version of a persisted ModelArtifact.
const ArtifactVersion = 1

// SparseVector holds the non-zero entries of a vector, indices ascending.
type SparseVector struct {
	Indices []int     `json:"indices"`
	Values  []float64 `json:"values"`
}

// Dot returns the inner product of two sparse vectors.
func (v SparseVector) Dot(o SparseVector) float64 {
	var sum float64
	i, j := 0, 0
	for i < len(v.Indices) && j < len(o.Indices) {
		switch {
		case v.Indices[i] == o.Indices[j]:
			sum += v.Values[i] * o.Values[j]
			i++
			j++
		case v.Indices[i] < o.Indices[j]:
			i++
		default:
			j++
		}
	}
	return sum
}

// Norm returns the L2 norm.
func (v SparseVector) Norm() float64 {
	var sum float64
	for _, x := range v.Values {
		sum += x * x
	}
	return math.Sqrt(sum)
}

// newSparseVector builds a normalized sparse vector from index weights.
func newSparseVector(weights map[int]float64) SparseVector {
	indices := make([]int, 0, len(weights))
	for idx, w := range weights {
		if w != 0 {
			indices = append(indices, idx)
		}
	}
	sort.Ints(indices)

	v := SparseVector{Indices: indices, Values: make([]float64, len(indices))}
	for i, idx := range indices {
		v.Values[i] = weights[idx]
	}
	if n := v.Norm(); n > 0 {
		for i := range v.Values {
			v.Values[i] /= n
		}
	}
	return v
}

// Document is one recipe inside a ModelArtifact.
type Document struct {
	RecipeID string          `json:"recipe_id"`
	Name     string          `json:"name,omitempty"`
	Tokens   []string        `json:"tokens"`
	Rating   RatingAggregate `json:"rating"`
	Vector   SparseVector    `json:"vector"`
}

// ModelArtifact is the immutable output of one training pass. It is never
// modified after publication; a retrain replaces it wholesale.
type ModelArtifact struct {
	Version    int
	TrainedAt  time.Time
	CorpusSize int
	Vocabulary map[string]int
	IDF        []float64
	Documents  []Document

	byID map[string]int
}

func (a *ModelArtifact) index() {
	a.byID = make(map[string]int, len(a.Documents))
	for i, d := range a.Documents {
		a.byID[d.RecipeID] = i
	}
}

// VocabularySize returns the number of distinct tokens in the corpus.
func (a *ModelArtifact) VocabularySize() int {
	return len(a.Vocabulary)
}

// Document looks up the trained document for a recipe.
func (a *ModelArtifact) Document(recipeID string) (Document, bool) {
	i, ok := a.byID[recipeID]
	if !ok {
		return Document{}, false
	}
	return a.Documents[i], true
}

// Project maps query tokens into the artifact's vector space. Out of vocabulary
// tokens carry no weight. The result is L2-normalized, or empty when no token
// is known.
func (a *ModelArtifact) Project(tokens []string) SparseVector {
	weights := make(map[int]float64, len(tokens))
	for _, t := range tokens {
		if idx, ok := a.Vocabulary[t]; ok {
			weights[idx] += a.IDF[idx]
		}
	}
	return newSparseVector(weights)
}

// Vocab returns the vocabulary tokens ordered by index.
func (a *ModelArtifact) Vocab() []string {
	out := make([]string, len(a.Vocabulary))
	for t, i := range a.Vocabulary {
		out[i] = t
	}
	return out
}
