package matching

import (
	"math"
	"sort"
	"time"
)

const (
	// MinCorpusSize is the smallest corpus a model can be trained on.
	MinCorpusSize = 2
	// MinQueryTokens is the smallest ingredient set accepted by search.
	MinQueryTokens = 2
)

// Builder turns a catalog snapshot into a ModelArtifact.
type Builder struct {
	now func() time.Time
}

// NewBuilder creates a builder stamping artifacts with the wall clock.
func NewBuilder() *Builder {
	return &Builder{now: time.Now}
}

type corpusEntry struct {
	recipe Recipe
	tokens []string
}

// Train builds a new artifact from recipes. Recipes without ingredient tokens
// and repeated ids are skipped. It returns an InsufficientDataError when fewer
// than MinCorpusSize recipes remain.
func (b *Builder) Train(recipes []Recipe) (*ModelArtifact, error) {
	corpus := make([]corpusEntry, 0, len(recipes))
	seen := make(map[string]struct{}, len(recipes))
	for _, r := range recipes {
		if _, dup := seen[r.ID]; dup {
			continue
		}
		tokens := TokenizeAll(r.Ingredients)
		if len(tokens) == 0 {
			continue
		}
		seen[r.ID] = struct{}{}
		corpus = append(corpus, corpusEntry{recipe: r, tokens: tokens})
	}

	n := len(corpus)
	if n < MinCorpusSize {
		return nil, &InsufficientDataError{CorpusSize: n, Minimum: MinCorpusSize}
	}

	sort.Slice(corpus, func(i, j int) bool {
		return corpus[i].recipe.ID < corpus[j].recipe.ID
	})

	df := make(map[string]int)
	for _, e := range corpus {
		for _, t := range distinct(e.tokens) {
			df[t]++
		}
	}

	terms := make([]string, 0, len(df))
	for t := range df {
		terms = append(terms, t)
	}
	sort.Strings(terms)

	vocab := make(map[string]int, len(terms))
	idf := make([]float64, len(terms))
	for i, t := range terms {
		vocab[t] = i
		idf[i] = math.Log(float64(1+n)/float64(1+df[t])) + 1
	}

	docs := make([]Document, n)
	for i, e := range corpus {
		weights := make(map[int]float64)
		for _, t := range e.tokens {
			weights[vocab[t]]++
		}
		for idx, tf := range weights {
			weights[idx] = tf * idf[idx]
		}
		docs[i] = Document{
			RecipeID: e.recipe.ID,
			Name:     e.recipe.Name,
			Tokens:   distinct(e.tokens),
			Rating:   e.recipe.Rating,
			Vector:   newSparseVector(weights),
		}
	}

	a := &ModelArtifact{
		Version:    ArtifactVersion,
		TrainedAt:  b.now().UTC(),
		CorpusSize: n,
		Vocabulary: vocab,
		IDF:        idf,
		Documents:  docs,
	}
	a.index()
	return a, nil
}
