package matching

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recipe(id string, ingredients ...string) Recipe {
	return Recipe{ID: id, Name: "recipe " + id, Ingredients: ingredients}
}

func fixedBuilder() *Builder {
	return &Builder{now: func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }}
}

func TestTrainVocabularyAndIDF(t *testing.T) {
	a, err := fixedBuilder().Train([]Recipe{
		recipe("1", "chicken", "rice"),
		recipe("2", "rice", "beans"),
	})
	require.NoError(t, err)

	assert.Equal(t, 2, a.CorpusSize)
	assert.Equal(t, 3, a.VocabularySize())
	assert.Equal(t, map[string]int{"beans": 0, "chicken": 1, "rice": 2}, a.Vocabulary)
	assert.InDelta(t, math.Log(3.0/2.0)+1, a.IDF[a.Vocabulary["chicken"]], 1e-12)
	assert.InDelta(t, 1.0, a.IDF[a.Vocabulary["rice"]], 1e-12)
	assert.Equal(t, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC), a.TrainedAt)
	assert.Equal(t, ArtifactVersion, a.Version)

	for _, d := range a.Documents {
		assert.InDelta(t, 1.0, d.Vector.Norm(), 1e-9)
	}
}

func TestTrainVocabularySizeMatchesDistinctTokens(t *testing.T) {
	recipes := []Recipe{
		recipe("a", "Olive Oil, garlic", "pasta"),
		recipe("b", "garlic, garlic, tomato"),
		recipe("c", "tomato basil", "olive oil"),
	}
	a, err := fixedBuilder().Train(recipes)
	require.NoError(t, err)

	distinctTokens := map[string]struct{}{}
	for _, r := range recipes {
		for _, tok := range TokenizeAll(r.Ingredients) {
			distinctTokens[tok] = struct{}{}
		}
	}
	assert.Equal(t, len(distinctTokens), a.VocabularySize())
}

func TestTrainTermFrequencyWeighting(t *testing.T) {
	a, err := fixedBuilder().Train([]Recipe{
		recipe("1", "garlic, garlic, oil"),
		recipe("2", "oil, salt"),
	})
	require.NoError(t, err)

	doc, ok := a.Document("1")
	require.True(t, ok)
	// garlic: tf 2 * idf(ln(3/2)+1); oil: tf 1 * idf 1
	garlic := 2 * (math.Log(1.5) + 1)
	norm := math.Sqrt(garlic*garlic + 1)
	assert.Equal(t, []int{a.Vocabulary["garlic"], a.Vocabulary["oil"]}, doc.Vector.Indices)
	assert.InDelta(t, garlic/norm, doc.Vector.Values[0], 1e-12)
	assert.InDelta(t, 1/norm, doc.Vector.Values[1], 1e-12)
	assert.Equal(t, []string{"garlic", "oil"}, doc.Tokens)
}

func TestTrainIsIdempotent(t *testing.T) {
	recipes := []Recipe{
		recipe("2", "rice, beans, cumin"),
		recipe("1", "chicken, rice"),
		recipe("3", "beans, tortilla"),
	}
	first, err := fixedBuilder().Train(recipes)
	require.NoError(t, err)
	second, err := fixedBuilder().Train(recipes)
	require.NoError(t, err)

	require.Equal(t, len(first.Documents), len(second.Documents))
	for i := range first.Documents {
		assert.Equal(t, first.Documents[i].RecipeID, second.Documents[i].RecipeID)
		assert.Equal(t, first.Documents[i].Vector.Indices, second.Documents[i].Vector.Indices)
		assert.InDeltaSlice(t, first.Documents[i].Vector.Values, second.Documents[i].Vector.Values, 1e-12)
	}
}

func TestTrainInsufficientData(t *testing.T) {
	tests := []struct {
		name    string
		recipes []Recipe
		size    int
	}{
		{"empty", nil, 0},
		{"single recipe", []Recipe{recipe("1", "rice")}, 1},
		{"recipes without ingredients", []Recipe{recipe("1", "rice"), recipe("2"), recipe("3", " , ")}, 1},
		{"duplicate ids", []Recipe{recipe("1", "rice"), recipe("1", "beans")}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := fixedBuilder().Train(tt.recipes)
			assert.Nil(t, a)
			assert.ErrorIs(t, err, ErrInsufficientData)

			var ierr *InsufficientDataError
			require.ErrorAs(t, err, &ierr)
			assert.Equal(t, tt.size, ierr.CorpusSize)
			assert.Equal(t, MinCorpusSize, ierr.Minimum)
		})
	}
}
