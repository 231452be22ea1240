package recommend

import (
	"context"
	"fmt"
	"sort"

	"github.com/starford/raido/internal/apperr"
	"github.com/starford/raido/internal/graph"
)

// Params holds the engine defaults, normally sourced from configuration.
type Params struct {
	Percentile          float64 // favorite-threshold percentile
	NutrientLowPct      float64
	NutrientHighPct     float64
	Weights             Weights
	ExcludedIngredients []string
	ExcludedTags        []string
	DefaultLimit        int
}

// DefaultParams returns the engine defaults used when a field is unset.
func DefaultParams() Params {
	return Params{
		Percentile:      75,
		NutrientLowPct:  25,
		NutrientHighPct: 75,
		DefaultLimit:    20,
	}
}

// Service is the recommendation engine. It is stateless between calls:
// every request recomputes preferences and ranges from current graph
// state, so concurrent calls are safe as long as the data source supports
// concurrent reads.
type Service struct {
	db     *graph.DB
	params Params
}

// NewService creates a recommendation service over db. Zero-valued params
// fields fall back to DefaultParams.
func NewService(db *graph.DB, params Params) *Service {
	def := DefaultParams()
	if params.Percentile <= 0 {
		params.Percentile = def.Percentile
	}
	if params.NutrientLowPct <= 0 && params.NutrientHighPct <= 0 {
		params.NutrientLowPct = def.NutrientLowPct
		params.NutrientHighPct = def.NutrientHighPct
	}
	if params.DefaultLimit <= 0 {
		params.DefaultLimit = def.DefaultLimit
	}
	return &Service{db: db, params: params}
}

// Options are per-request knobs for Recommend.
type Options struct {
	Axes  []Axis
	Limit int
	// Percentile overrides the configured favorite threshold when >= 0.
	// Pass a negative value to use the service default.
	Percentile float64
}

// ScoredCandidate is one ranked recommendation.
type ScoredCandidate struct {
	RecipeID           string  `json:"recipe_id"`
	Name               string  `json:"name"`
	MatchedIngredients int     `json:"matched_ingredients,omitempty"`
	TotalIngredients   int     `json:"total_ingredients,omitempty"`
	IngredientScore    float64 `json:"ingredient_score,omitempty"`
	MatchedTags        int     `json:"matched_tags,omitempty"`
	TotalTags          int     `json:"total_tags,omitempty"`
	TagScore           float64 `json:"tag_score,omitempty"`
	Score              float64 `json:"score"`
}

// TasteProfile summarizes what the engine has inferred about a user.
type TasteProfile struct {
	UserID         string           `json:"user_id"`
	Favorites      []Preference     `json:"favorite_ingredients"`
	TopTags        []Preference     `json:"top_tags"`
	NutrientRanges map[string]Range `json:"nutrient_ranges,omitempty"`
	Interactions   int              `json:"interactions"`
}

// Recommend produces a ranked list of unseen recipes for userID along the
// requested axes. Axes combine with logical AND. An empty result is a
// valid outcome, distinct from an error.
func (s *Service) Recommend(_ context.Context, userID string, opts Options) ([]ScoredCandidate, error) {
	axes := opts.Axes
	if len(axes) == 0 {
		axes = DefaultAxes
	}
	pct := s.params.Percentile
	if opts.Percentile >= 0 {
		pct = opts.Percentile
	}
	if pct < 0 || pct > 100 {
		return nil, fmt.Errorf("percentile must be in [0,100], got %v", pct)
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = s.params.DefaultLimit
	}

	ok, err := s.db.UserExists(userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("user %s: %w", userID, apperr.ErrNotFound)
	}

	var hasIngredients, hasTags, hasNutrition bool
	for _, a := range axes {
		switch a {
		case AxisIngredients:
			hasIngredients = true
		case AxisTags:
			hasTags = true
		case AxisNutrition:
			hasNutrition = true
		}
	}

	// The exclusion set is computed once and applied on every axis.
	excluded, err := s.db.InteractedRecipeIDs(userID)
	if err != nil {
		return nil, err
	}

	var favorites, topTags []Preference
	if hasIngredients {
		counts, err := s.db.PositiveIngredientCounts(userID, s.params.ExcludedIngredients)
		if err != nil {
			return nil, err
		}
		favorites = ExtractPreferences(counts, pct)
		if len(favorites) == 0 {
			return []ScoredCandidate{}, nil
		}
	}
	if hasTags {
		counts, err := s.db.PositiveTagCounts(userID, s.params.ExcludedTags)
		if err != nil {
			return nil, err
		}
		topTags = ExtractPreferences(counts, pct)
		if len(topTags) == 0 {
			return []ScoredCandidate{}, nil
		}
	}

	var ranges [NutrientCount]Range
	if hasNutrition {
		vectors, err := s.db.PositiveNutrition(userID)
		if err != nil {
			return nil, err
		}
		ranges, err = NutrientRanges(vectors, s.params.NutrientLowPct, s.params.NutrientHighPct)
		if err != nil {
			return nil, err
		}
	}

	var rows []graph.Candidate
	switch {
	case hasIngredients:
		rows, err = s.db.CandidatesByIngredients(Names(favorites), excluded)
	case hasTags:
		rows, err = s.db.CandidatesByTags(Names(topTags), excluded)
	default:
		rows, err = s.db.CandidatesAll(excluded)
	}
	if err != nil {
		return nil, err
	}

	favSet := toSet(Names(favorites))
	tagSet := toSet(Names(topTags))

	out := make([]ScoredCandidate, 0, len(rows))
	for _, c := range rows {
		sc := ScoredCandidate{RecipeID: c.ID, Name: c.Name}

		if hasIngredients {
			total := len(c.Ingredients)
			matched := overlap(c.Ingredients, favSet)
			if total == 0 || matched == 0 {
				continue
			}
			sc.MatchedIngredients = matched
			sc.TotalIngredients = total
			sc.IngredientScore = Relevance(matched, total)
			sc.Score += s.params.Weights.For(AxisIngredients) * sc.IngredientScore
		}
		if hasTags {
			total := len(c.Tags)
			matched := overlap(c.Tags, tagSet)
			if total == 0 || matched == 0 {
				continue
			}
			sc.MatchedTags = matched
			sc.TotalTags = total
			sc.TagScore = Relevance(matched, total)
			sc.Score += s.params.Weights.For(AxisTags) * sc.TagScore
		}
		if hasNutrition && !inAllRanges(c.Nutrition, ranges) {
			continue
		}

		out = append(out, sc)
	}

	// Descending fused score, ascending recipe id on ties, so rankings are
	// reproducible across runs.
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].RecipeID < out[j].RecipeID
	})

	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Profile returns the user's inferred taste profile. Nutrient ranges are
// omitted when the user has no positive interactions.
func (s *Service) Profile(_ context.Context, userID string) (*TasteProfile, error) {
	ok, err := s.db.UserExists(userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("user %s: %w", userID, apperr.ErrNotFound)
	}

	ingredientCounts, err := s.db.PositiveIngredientCounts(userID, s.params.ExcludedIngredients)
	if err != nil {
		return nil, err
	}
	tagCounts, err := s.db.PositiveTagCounts(userID, s.params.ExcludedTags)
	if err != nil {
		return nil, err
	}
	interacted, err := s.db.InteractedRecipeIDs(userID)
	if err != nil {
		return nil, err
	}

	profile := &TasteProfile{
		UserID:       userID,
		Favorites:    nonNilPrefs(ExtractPreferences(ingredientCounts, s.params.Percentile)),
		TopTags:      nonNilPrefs(ExtractPreferences(tagCounts, s.params.Percentile)),
		Interactions: len(interacted),
	}

	vectors, err := s.db.PositiveNutrition(userID)
	if err != nil {
		return nil, err
	}
	if ranges, err := NutrientRanges(vectors, s.params.NutrientLowPct, s.params.NutrientHighPct); err == nil {
		profile.NutrientRanges = make(map[string]Range, NutrientCount)
		for i, name := range Nutrients {
			profile.NutrientRanges[name] = ranges[i]
		}
	}
	return profile, nil
}

// Connectivity returns the two-hop traversal estimate for userID. A user
// with no reviews yields zero counts, not an error.
func (s *Service) Connectivity(_ context.Context, userID string) (graph.ConnectivityEstimate, error) {
	ok, err := s.db.UserExists(userID)
	if err != nil {
		return graph.ConnectivityEstimate{}, err
	}
	if !ok {
		return graph.ConnectivityEstimate{}, fmt.Errorf("user %s: %w", userID, apperr.ErrNotFound)
	}
	return s.db.TwoHopCounts(userID)
}

// History returns the user's full interaction history, submissions first.
func (s *Service) History(_ context.Context, userID string) ([]graph.Interaction, error) {
	ok, err := s.db.UserExists(userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("user %s: %w", userID, apperr.ErrNotFound)
	}
	return s.db.UserInteractions(userID)
}

// RandomUser delegates to the graph: a random user with at least
// minReviews reviews.
func (s *Service) RandomUser(_ context.Context, minReviews int) (string, int, error) {
	return s.db.RandomUser(minReviews)
}

// TagCounts delegates the global tag frequency list to the graph.
func (s *Service) TagCounts(_ context.Context, limit int) ([]graph.NameCount, error) {
	return s.db.TagCounts(limit)
}

// SearchRecipes delegates recipe-name search to the graph.
func (s *Service) SearchRecipes(_ context.Context, query string, limit int) ([]graph.RecipeHit, error) {
	return s.db.SearchRecipes(query, limit)
}

// GraphCounts returns node and relationship totals.
func (s *Service) GraphCounts(_ context.Context) (nodes, rels map[string]int, err error) {
	nodes, err = s.db.NodeCounts()
	if err != nil {
		return nil, nil, err
	}
	rels, err = s.db.RelationshipCounts()
	if err != nil {
		return nil, nil, err
	}
	return nodes, rels, nil
}

// DegreeCounts delegates the degree distribution to the graph.
func (s *Service) DegreeCounts(_ context.Context, label string, relTypes []string, direction string) ([]graph.DegreeBucket, error) {
	return s.db.DegreeCounts(label, relTypes, direction)
}

func toSet(names []string) map[string]struct{} {
	out := make(map[string]struct{}, len(names))
	for _, n := range names {
		out[n] = struct{}{}
	}
	return out
}

func overlap(items []string, set map[string]struct{}) int {
	n := 0
	for _, it := range items {
		if _, ok := set[it]; ok {
			n++
		}
	}
	return n
}

func nonNilPrefs(p []Preference) []Preference {
	if p == nil {
		return []Preference{}
	}
	return p
}
