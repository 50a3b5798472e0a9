package matching

import "fmt"

// Composite search weights.
const (
	SimilarityWeight = 0.6
	RatingWeight     = 0.2
	OverlapWeight    = 0.2
)

// LexicalScorer scores recipes against an ingredient query using a trained artifact.
type LexicalScorer struct {
	artifact *ModelArtifact
	query    []string
	querySet map[string]struct{}
	queryVec SparseVector
	minMatch int
}

// NewLexicalScorer binds a normalized query to an artifact snapshot.
func NewLexicalScorer(artifact *ModelArtifact, query []string, minMatch int) *LexicalScorer {
	set := make(map[string]struct{}, len(query))
	for _, t := range query {
		set[t] = struct{}{}
	}
	return &LexicalScorer{
		artifact: artifact,
		query:    query,
		querySet: set,
		queryVec: artifact.Project(query),
		minMatch: minMatch,
	}
}

func (s *LexicalScorer) Name() string { return "lexical" }

// Score looks the recipe up in the artifact. Recipes added after the last
// training pass are not part of the vector space and are excluded.
func (s *LexicalScorer) Score(recipe Recipe) (Scored, bool) {
	doc, ok := s.artifact.Document(recipe.ID)
	if !ok {
		return Scored{}, false
	}
	return s.scoreDocument(doc, recipe.Rating)
}

func (s *LexicalScorer) scoreDocument(doc Document, rating RatingAggregate) (Scored, bool) {
	overlap := 0
	for _, t := range doc.Tokens {
		if _, ok := s.querySet[t]; ok {
			overlap++
		}
	}
	if overlap < s.minMatch {
		return Scored{}, false
	}

	similarity := s.queryVec.Dot(doc.Vector)
	components := compositeComponents(similarity, rating, overlap, len(s.query))

	return Scored{
		Value:      components[0].Value + components[1].Value + components[2].Value,
		Rationale:  []string{fmt.Sprintf("Matches %d of %d ingredients", overlap, len(s.query))},
		Components: components,
		MatchCount: overlap,
		Similarity: similarity,
	}, true
}

// compositeComponents splits the search score into its weighted parts.
func compositeComponents(similarity float64, rating RatingAggregate, overlap, querySize int) []Component {
	return []Component{
		{Name: "similarity", Value: SimilarityWeight * similarity},
		{Name: "rating", Value: RatingWeight * rating.Normalized()},
		{Name: "overlap", Value: OverlapWeight * float64(overlap) / float64(querySize)},
	}
}
