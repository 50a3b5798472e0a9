package matching

import (
	"math"
	"sort"
	"strings"
)

// Profile score components, in tie-break priority order.
const (
	ComponentNutrition  = "nutrition"
	ComponentPreference = "preference"
	ComponentHistory    = "history"
	ComponentDensity    = "density"
)

const (
	calorieFitWeight      = 0.4
	proteinBonusWeight    = 0.1
	proteinShareOfMeal    = 0.4
	cuisineBonus          = 0.15
	favoriteBonus         = 0.05
	dislikedPenalty       = 0.1
	maxPreference         = 0.3
	historyWeight         = 0.3
	densityBonus          = 0.1
	densityRatioThreshold = 0.1
	maxRationale          = 2

	// FallbackReason is reported when no component contributes.
	FallbackReason = "Personalized recommendation based on your profile"
)

var componentPriority = map[string]int{
	ComponentNutrition:  0,
	ComponentPreference: 1,
	ComponentHistory:    2,
	ComponentDensity:    3,
}

// ScoringContext carries the time-dependent inputs of a profile score.
type ScoringContext struct {
	Consumed Intake
}

// ProfileScorer scores recipes for a single user. It holds no mutable state.
type ProfileScorer struct {
	profile    *UserProfile
	ctx        ScoringContext
	favorites  []string
	disliked   []string
	categories map[string]int
}

// NewProfileScorer binds a profile and the day's intake.
func NewProfileScorer(profile *UserProfile, ctx ScoringContext) *ProfileScorer {
	categories := make(map[string]int, len(profile.RecentCategories))
	for _, c := range profile.RecentCategories {
		categories[strings.ToLower(strings.TrimSpace(c))]++
	}
	return &ProfileScorer{
		profile:    profile,
		ctx:        ctx,
		favorites:  TokenSet(profile.FavoriteIngredients),
		disliked:   TokenSet(profile.DislikedIngredients),
		categories: categories,
	}
}

func (s *ProfileScorer) Name() string { return "profile" }

// Score applies the dietary hard filter and sums the weighted components.
func (s *ProfileScorer) Score(recipe Recipe) (Scored, bool) {
	if !recipe.Dietary.Satisfies(s.profile.Restrictions) {
		return Scored{}, false
	}

	tokens := TokenSet(recipe.Ingredients)
	preference, cuisineMatched := s.preference(recipe, tokens)
	components := []Component{
		{Name: ComponentNutrition, Value: s.nutritionalFit(recipe.Nutrition)},
		{Name: ComponentPreference, Value: preference},
		{Name: ComponentHistory, Value: s.history(recipe.Category)},
		{Name: ComponentDensity, Value: density(recipe.Nutrition)},
	}

	var total float64
	for _, c := range components {
		total += c.Value
	}

	return Scored{
		Value:      clamp(total, 0, 1),
		Rationale:  s.rationale(components, recipe, cuisineMatched),
		Components: components,
	}, true
}

// CalorieFit is the symmetric falloff of recipe calories around the remaining
// daily budget, scaled by the daily target. It is zero without a target.
func CalorieFit(calories, target, consumed float64) float64 {
	if target <= 0 {
		return 0
	}
	remaining := math.Max(0, target-consumed)
	return calorieFitWeight * math.Max(0, 1-math.Abs(calories-remaining)/target)
}

func (s *ProfileScorer) nutritionalFit(n Nutrition) float64 {
	fit := CalorieFit(n.Calories, s.profile.Targets.Calories, s.ctx.Consumed.Calories)

	switch s.profile.Goal {
	case GoalWeightLoss, GoalMuscleGain:
		remaining := s.profile.Targets.Protein - s.ctx.Consumed.Protein
		if remaining > 0 {
			fit += proteinBonusWeight * math.Min(1, n.Protein/(remaining*proteinShareOfMeal))
		}
	}
	return fit
}

func (s *ProfileScorer) preference(r Recipe, tokens []string) (float64, bool) {
	var score float64
	matched := false
	if pref := strings.TrimSpace(s.profile.PreferredCuisine); pref != "" {
		if strings.EqualFold(pref, strings.TrimSpace(r.Cuisine)) || strings.EqualFold(pref, strings.TrimSpace(r.Category)) {
			score += cuisineBonus
			matched = true
		}
	}
	score += favoriteBonus * float64(countPresent(s.favorites, tokens))
	score -= dislikedPenalty * float64(countPresent(s.disliked, tokens))
	return clamp(score, 0, maxPreference), matched
}

func (s *ProfileScorer) history(category string) float64 {
	window := len(s.profile.RecentCategories)
	if window == 0 {
		return 0
	}
	n := s.categories[strings.ToLower(strings.TrimSpace(category))]
	return historyWeight * float64(n) / float64(window)
}

func density(n Nutrition) float64 {
	if n.Calories > 0 && n.Protein/n.Calories > densityRatioThreshold {
		return densityBonus
	}
	return 0
}

func (s *ProfileScorer) rationale(components []Component, r Recipe, cuisineMatched bool) []string {
	contributing := make([]Component, 0, len(components))
	for _, c := range components {
		if c.Value > 0 {
			contributing = append(contributing, c)
		}
	}
	if len(contributing) == 0 {
		return []string{FallbackReason}
	}

	sort.SliceStable(contributing, func(i, j int) bool {
		if contributing[i].Value != contributing[j].Value {
			return contributing[i].Value > contributing[j].Value
		}
		return componentPriority[contributing[i].Name] < componentPriority[contributing[j].Name]
	})
	if len(contributing) > maxRationale {
		contributing = contributing[:maxRationale]
	}

	reasons := make([]string, len(contributing))
	for i, c := range contributing {
		reasons[i] = s.reason(c.Name, r, cuisineMatched)
	}
	return reasons
}

func (s *ProfileScorer) reason(component string, r Recipe, cuisineMatched bool) string {
	switch component {
	case ComponentNutrition:
		if CalorieFit(r.Nutrition.Calories, s.profile.Targets.Calories, s.ctx.Consumed.Calories) == 0 {
			return "Supports your protein goal"
		}
		return "Fits your daily calorie goals"
	case ComponentPreference:
		if cuisineMatched {
			return "Matches your " + s.profile.PreferredCuisine + " preference"
		}
		return "Includes ingredients you like"
	case ComponentHistory:
		return "Similar to " + strings.ToLower(r.Category) + " meals you enjoy"
	default:
		return "High protein content"
	}
}

// countPresent counts members of want (sorted distinct) found in have (sorted distinct).
func countPresent(want, have []string) int {
	n := 0
	for _, w := range want {
		i := sort.SearchStrings(have, w)
		if i < len(have) && have[i] == w {
			n++
		}
	}
	return n
}
