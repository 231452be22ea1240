package graph

// RecipeRow is a recipe node with its decoded JSON-array properties and
// ingredient edge set.
type RecipeRow struct {
	ID          string
	Name        string
	Nutrition   []float64
	Tags        []string
	Ingredients []string
}

// InteractionRow is a SUBMITTED or REVIEWED edge from a user to a recipe.
type InteractionRow struct {
	UserID   string
	RecipeID string
	Kind     string
	Rating   int // meaningful for REVIEWED only
	Date     string
}

// Interaction is one entry of a user's history, joined with the recipe name.
type Interaction struct {
	RecipeID string `json:"recipe_id"`
	Name     string `json:"name"`
	Kind     string `json:"kind"`
	Rating   int    `json:"rating,omitempty"`
	Date     string `json:"date,omitempty"`
}

// NameCount is an occurrence count for an ingredient or tag name.
// RecipeIDs lists the contributing recipes for ingredient counts; it is
// empty for tag counts.
type NameCount struct {
	Name      string   `json:"name"`
	Count     int      `json:"count"`
	RecipeIDs []string `json:"recipe_ids,omitempty"`
}

// Candidate is a recipe row returned by a candidate scan. Ingredients is
// populated only by scans that join the ingredient edges.
type Candidate struct {
	ID          string
	Name        string
	Ingredients []string
	Tags        []string
	Nutrition   []float64
}

// ConnectivityEstimate holds the two-hop traversal counts used to gauge
// collaborative-filtering feasibility.
type ConnectivityEstimate struct {
	InteractedRecipes int `json:"interacted_recipes"`
	NeighborUsers     int `json:"neighbor_users"`
	CandidatePool     int `json:"candidate_pool"`
}

// DegreeBucket is one row of a degree distribution. Percentile is the
// cumulative share of nodes with degree less than or equal to Degree.
type DegreeBucket struct {
	Degree     int     `json:"degree"`
	Count      int     `json:"count"`
	Percentile float64 `json:"percentile"`
}

// RecipeHit is one recipe-name search result.
type RecipeHit struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
