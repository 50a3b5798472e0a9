package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scenarioArtifact(t *testing.T) *ModelArtifact {
	t.Helper()
	a, err := fixedBuilder().Train([]Recipe{
		recipe("1", "chicken", "rice"),
		recipe("2", "rice", "beans"),
	})
	require.NoError(t, err)
	return a
}

func TestLexicalScorerScenario(t *testing.T) {
	a := scenarioArtifact(t)
	s := NewLexicalScorer(a, []string{"chicken", "rice"}, 1)

	first, ok := s.Score(recipe("1", "chicken", "rice"))
	require.True(t, ok)
	second, ok := s.Score(recipe("2", "rice", "beans"))
	require.True(t, ok)

	assert.Equal(t, 2, first.MatchCount)
	assert.Equal(t, 1, second.MatchCount)
	assert.InDelta(t, 1.0, first.Similarity, 1e-9)
	assert.Greater(t, first.Similarity, second.Similarity)
	assert.Greater(t, first.Value, second.Value)
	assert.InDelta(t, 0.6+0.2, first.Value, 1e-9)
	assert.Equal(t, []string{"Matches 2 of 2 ingredients"}, first.Rationale)
}

func TestLexicalScorerRating(t *testing.T) {
	a := scenarioArtifact(t)
	s := NewLexicalScorer(a, []string{"chicken", "rice"}, 1)

	r := recipe("1", "chicken", "rice")
	r.Rating = RatingAggregate{Average: 4, Count: 3}
	scored, ok := s.Score(r)
	require.True(t, ok)
	assert.InDelta(t, 0.6+0.2*0.8+0.2, scored.Value, 1e-9)
}

func TestLexicalScorerOOVInvariance(t *testing.T) {
	a := scenarioArtifact(t)
	base := NewLexicalScorer(a, []string{"chicken", "rice"}, 0)
	withOOV := NewLexicalScorer(a, []string{"chicken", "rice", "saffron"}, 0)

	for _, id := range []string{"1", "2"} {
		doc, ok := a.Document(id)
		require.True(t, ok)
		x, _ := base.scoreDocument(doc, doc.Rating)
		y, _ := withOOV.scoreDocument(doc, doc.Rating)
		assert.InDelta(t, x.Similarity, y.Similarity, 1e-12)
	}
}

func TestLexicalScorerMinMatch(t *testing.T) {
	a := scenarioArtifact(t)
	s := NewLexicalScorer(a, []string{"chicken", "rice"}, 2)

	_, ok := s.Score(recipe("2"))
	assert.False(t, ok)
	_, ok = s.Score(recipe("1"))
	assert.True(t, ok)
}

func TestLexicalScorerUnknownRecipe(t *testing.T) {
	a := scenarioArtifact(t)
	s := NewLexicalScorer(a, []string{"chicken", "rice"}, 0)

	_, ok := s.Score(recipe("3", "chicken", "rice"))
	assert.False(t, ok)
}

func TestCompositeScoreMonotonicInOverlap(t *testing.T) {
	rating := RatingAggregate{Average: 3, Count: 2}
	prev := -1.0
	for overlap := 0; overlap <= 5; overlap++ {
		var total float64
		for _, c := range compositeComponents(0.42, rating, overlap, 5) {
			total += c.Value
		}
		assert.GreaterOrEqual(t, total, prev)
		prev = total
	}
}

func TestSparseVectorDot(t *testing.T) {
	v := SparseVector{Indices: []int{0, 2, 5}, Values: []float64{1, 2, 3}}
	o := SparseVector{Indices: []int{2, 3, 5}, Values: []float64{4, 1, 2}}
	assert.InDelta(t, 2*4+3*2, v.Dot(o), 1e-12)
	assert.Zero(t, v.Dot(SparseVector{}))
}
