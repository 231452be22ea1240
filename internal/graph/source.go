package graph

// Source defines the graph data source operations the recommendation
// engine depends on.
type Source interface {
	UserExists(id string) (bool, error)
	InteractedRecipeIDs(userID string) ([]string, error)
	UserInteractions(userID string) ([]Interaction, error)
	PositiveIngredientCounts(userID string, excluded []string) ([]NameCount, error)
	PositiveTagCounts(userID string, excluded []string) ([]NameCount, error)
	PositiveNutrition(userID string) ([][]float64, error)
	CandidatesByIngredients(favorites, excluded []string) ([]Candidate, error)
	CandidatesByTags(tags, excluded []string) ([]Candidate, error)
	CandidatesAll(excluded []string) ([]Candidate, error)
	TwoHopCounts(userID string) (ConnectivityEstimate, error)
	Close() error
}

// Verify *DB satisfies Source at compile time.
var _ Source = (*DB)(nil)
