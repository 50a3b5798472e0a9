package matching

import "sort"

// Candidate is a scored recipe awaiting ranking.
type Candidate struct {
	RecipeID    string
	Name        string
	Score       float64
	RatingCount int
	MatchCount  int
	Similarity  float64
	Rationale   []string
	Components  []Component
}

func newCandidate(r Recipe, s Scored) Candidate {
	return Candidate{
		RecipeID:    r.ID,
		Name:        r.Name,
		Score:       s.Value,
		RatingCount: r.Rating.Count,
		MatchCount:  s.MatchCount,
		Similarity:  s.Similarity,
		Rationale:   s.Rationale,
		Components:  s.Components,
	}
}

// Rank orders candidates by score descending, then rating count descending,
// then recipe id ascending, and keeps at most limit entries. The input slice
// is not modified.
func Rank(candidates []Candidate, limit int) []Candidate {
	if limit <= 0 || len(candidates) == 0 {
		return []Candidate{}
	}

	ranked := make([]Candidate, len(candidates))
	copy(ranked, candidates)
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.RatingCount != b.RatingCount {
			return a.RatingCount > b.RatingCount
		}
		return a.RecipeID < b.RecipeID
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
