package matching

// Component is one weighted factor of a score.
type Component struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// Scored is the result of scoring one recipe.
type Scored struct {
	Value      float64
	Rationale  []string
	Components []Component
	// MatchCount is the literal ingredient overlap; only set by the lexical scorer.
	MatchCount int
	Similarity float64
}

// Scorer scores a single recipe. ok is false when the recipe is excluded.
type Scorer interface {
	Name() string
	Score(recipe Recipe) (scored Scored, ok bool)
}

var (
	_ Scorer = (*LexicalScorer)(nil)
	_ Scorer = (*ProfileScorer)(nil)
)

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
