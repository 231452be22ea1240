package graph

import (
	"errors"
	"os"
	"reflect"
	"sort"
	"testing"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	f, err := os.CreateTemp("", "raido-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	f.Close()
	t.Cleanup(func() { os.Remove(f.Name()) })

	db, err := Open(f.Name())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func seed(t *testing.T, db *DB) {
	t.Helper()
	recipes := []RecipeRow{
		{ID: "1", Name: "sourdough bread", Ingredients: []string{"flour", "water", "salt"}, Tags: []string{"baking", "bread"}, Nutrition: []float64{250, 3, 2, 10, 9, 1, 15}},
		{ID: "2", Name: "sugar cookies", Ingredients: []string{"flour", "sugar", "butter"}, Tags: []string{"baking", "dessert"}, Nutrition: []float64{400, 20, 45, 8, 4, 12, 18}},
		{ID: "3", Name: "pancakes", Ingredients: []string{"flour", "sugar", "milk"}, Tags: []string{"breakfast", "baking"}, Nutrition: []float64{300, 10, 20, 12, 8, 5, 16}},
	}
	if err := db.UpsertRecipes(recipes); err != nil {
		t.Fatalf("UpsertRecipes: %v", err)
	}
	interactions := []InteractionRow{
		{UserID: "alice", RecipeID: "1", Kind: KindReviewed, Rating: 5, Date: "2024-01-02"},
		{UserID: "alice", RecipeID: "2", Kind: KindReviewed, Rating: 4, Date: "2024-01-05"},
		{UserID: "bob", RecipeID: "2", Kind: KindReviewed, Rating: 3, Date: "2024-02-01"},
		{UserID: "bob", RecipeID: "3", Kind: KindSubmitted, Date: "2023-11-20"},
	}
	if err := db.InsertInteractions(interactions); err != nil {
		t.Fatalf("InsertInteractions: %v", err)
	}
}

func TestSchemaCreation(t *testing.T) {
	db := testDB(t)
	for _, table := range []string{"users", "recipes", "ingredients", "recipe_ingredients", "interactions", "dataset_files"} {
		var count int
		if err := db.conn.QueryRow(`SELECT count(*) FROM ` + table).Scan(&count); err != nil {
			t.Fatalf("table %s missing: %v", table, err)
		}
	}
}

func TestUserExists(t *testing.T) {
	db := testDB(t)
	seed(t, db)

	ok, err := db.UserExists("alice")
	if err != nil || !ok {
		t.Errorf("alice: ok=%v err=%v", ok, err)
	}
	ok, err = db.UserExists("nobody")
	if err != nil || ok {
		t.Errorf("nobody: ok=%v err=%v", ok, err)
	}
}

func TestInteractedRecipeIDs(t *testing.T) {
	db := testDB(t)
	seed(t, db)

	ids, err := db.InteractedRecipeIDs("bob")
	if err != nil {
		t.Fatalf("InteractedRecipeIDs: %v", err)
	}
	if len(ids) != 2 {
		t.Errorf("ids = %v, want recipes 2 and 3", ids)
	}
}

func TestPositiveIngredientCounts(t *testing.T) {
	db := testDB(t)
	seed(t, db)

	// alice's positive set is recipes 1 (rated 5) and 2 (rated 4).
	counts, err := db.PositiveIngredientCounts("alice", nil)
	if err != nil {
		t.Fatalf("PositiveIngredientCounts: %v", err)
	}
	if len(counts) != 5 {
		t.Fatalf("counts = %v, want 5 ingredients", counts)
	}
	if counts[0].Name != "flour" || counts[0].Count != 2 {
		t.Errorf("top = %+v, want flour with count 2", counts[0])
	}
	gotIDs := append([]string(nil), counts[0].RecipeIDs...)
	sort.Strings(gotIDs)
	if !reflect.DeepEqual(gotIDs, []string{"1", "2"}) {
		t.Errorf("flour recipe ids = %v, want {1,2}", counts[0].RecipeIDs)
	}
	// Equal counts order alphabetically.
	if counts[1].Name != "butter" {
		t.Errorf("second = %+v, want butter (alphabetical among ties)", counts[1])
	}
}

func TestPositiveIngredientCountsExcluded(t *testing.T) {
	db := testDB(t)
	seed(t, db)

	counts, err := db.PositiveIngredientCounts("alice", []string{"flour", "salt"})
	if err != nil {
		t.Fatalf("PositiveIngredientCounts: %v", err)
	}
	for _, nc := range counts {
		if nc.Name == "flour" || nc.Name == "salt" {
			t.Errorf("excluded ingredient %q leaked through", nc.Name)
		}
	}
}

func TestPositiveTagCounts(t *testing.T) {
	db := testDB(t)
	seed(t, db)

	counts, err := db.PositiveTagCounts("alice", nil)
	if err != nil {
		t.Fatalf("PositiveTagCounts: %v", err)
	}
	if counts[0].Name != "baking" || counts[0].Count != 2 {
		t.Errorf("top tag = %+v, want baking with count 2", counts[0])
	}

	// bob's rating-3 review is not positive; his submission is.
	counts, err = db.PositiveTagCounts("bob", nil)
	if err != nil {
		t.Fatal(err)
	}
	for _, nc := range counts {
		if nc.Name == "dessert" {
			t.Errorf("tag from a rating-3 review counted as positive: %v", counts)
		}
	}
}

func TestPositiveNutrition(t *testing.T) {
	db := testDB(t)
	seed(t, db)

	vectors, err := db.PositiveNutrition("alice")
	if err != nil {
		t.Fatalf("PositiveNutrition: %v", err)
	}
	if len(vectors) != 2 {
		t.Fatalf("vectors = %v, want 2", vectors)
	}
	for _, v := range vectors {
		if len(v) != 7 {
			t.Errorf("vector = %v, want 7 dimensions", v)
		}
	}
}

func TestCandidatesByIngredients(t *testing.T) {
	db := testDB(t)
	seed(t, db)

	cands, err := db.CandidatesByIngredients([]string{"flour"}, []string{"1", "2"})
	if err != nil {
		t.Fatalf("CandidatesByIngredients: %v", err)
	}
	if len(cands) != 1 || cands[0].ID != "3" {
		t.Fatalf("candidates = %+v, want just recipe 3", cands)
	}
	if len(cands[0].Ingredients) != 3 {
		t.Errorf("ingredients = %v, want the full set for match counting", cands[0].Ingredients)
	}

	// No favorites means no candidates, not a full scan.
	cands, err = db.CandidatesByIngredients(nil, nil)
	if err != nil || cands != nil {
		t.Errorf("empty favorites: cands=%v err=%v", cands, err)
	}
}

func TestCandidatesByTags(t *testing.T) {
	db := testDB(t)
	seed(t, db)

	cands, err := db.CandidatesByTags([]string{"baking"}, []string{"1"})
	if err != nil {
		t.Fatalf("CandidatesByTags: %v", err)
	}
	var ids []string
	for _, c := range cands {
		ids = append(ids, c.ID)
	}
	if !reflect.DeepEqual(ids, []string{"2", "3"}) {
		t.Errorf("ids = %v, want [2 3]", ids)
	}
}

func TestCandidatesAll(t *testing.T) {
	db := testDB(t)
	seed(t, db)

	cands, err := db.CandidatesAll([]string{"2"})
	if err != nil {
		t.Fatalf("CandidatesAll: %v", err)
	}
	if len(cands) != 2 {
		t.Errorf("candidates = %+v, want recipes 1 and 3", cands)
	}
}

func TestTwoHopCounts(t *testing.T) {
	db := testDB(t)
	seed(t, db)

	// alice reviewed {1,2}; bob shares recipe 2 and his history reaches
	// recipe 3, which alice has not touched.
	est, err := db.TwoHopCounts("alice")
	if err != nil {
		t.Fatalf("TwoHopCounts: %v", err)
	}
	want := ConnectivityEstimate{InteractedRecipes: 1, NeighborUsers: 1, CandidatePool: 1}
	if est != want {
		t.Errorf("estimate = %+v, want %+v", est, want)
	}
}

func TestTwoHopCountsNoReviews(t *testing.T) {
	db := testDB(t)
	seed(t, db)

	// dave only submitted; the walk starts from reviews, so every count is
	// zero rather than an error.
	if err := db.InsertInteractions([]InteractionRow{
		{UserID: "dave", RecipeID: "1", Kind: KindSubmitted, Date: "2024-05-01"},
	}); err != nil {
		t.Fatal(err)
	}
	est, err := db.TwoHopCounts("dave")
	if err != nil {
		t.Fatalf("TwoHopCounts: %v", err)
	}
	if est != (ConnectivityEstimate{}) {
		t.Errorf("estimate = %+v, want all zero", est)
	}
}

func TestInsertInteractionsIdempotent(t *testing.T) {
	db := testDB(t)
	seed(t, db)

	// Re-ingesting the same review updates in place instead of duplicating.
	if err := db.InsertInteractions([]InteractionRow{
		{UserID: "alice", RecipeID: "1", Kind: KindReviewed, Rating: 3, Date: "2024-06-01"},
	}); err != nil {
		t.Fatal(err)
	}
	var n, rating int
	if err := db.conn.QueryRow(
		`SELECT COUNT(*), MAX(rating) FROM interactions WHERE user_id = 'alice' AND recipe_id = '1'`,
	).Scan(&n, &rating); err != nil {
		t.Fatal(err)
	}
	if n != 1 || rating != 3 {
		t.Errorf("rows = %d rating = %d, want one row with the updated rating", n, rating)
	}
}

func TestUpsertRecipesReplacesEdges(t *testing.T) {
	db := testDB(t)
	seed(t, db)

	if err := db.UpsertRecipes([]RecipeRow{
		{ID: "1", Name: "sourdough bread", Ingredients: []string{"flour", "water"}, Tags: []string{"baking"}, Nutrition: []float64{250, 3, 2, 10, 9, 1, 15}},
	}); err != nil {
		t.Fatal(err)
	}
	var n int
	if err := db.conn.QueryRow(`SELECT COUNT(*) FROM recipe_ingredients WHERE recipe_id = '1'`).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("edges = %d, want 2 after the salt edge was dropped", n)
	}
}

func TestFileChecksums(t *testing.T) {
	db := testDB(t)

	if err := db.SetFileChecksum("recipes.csv", "abc"); err != nil {
		t.Fatal(err)
	}
	if err := db.SetFileChecksum("recipes.csv", "def"); err != nil {
		t.Fatal(err)
	}
	cs, err := db.AllFileChecksums()
	if err != nil {
		t.Fatal(err)
	}
	if cs["recipes.csv"] != "def" {
		t.Errorf("checksum = %q, want def", cs["recipes.csv"])
	}
}

func TestQueryErrorUnwrap(t *testing.T) {
	inner := errors.New("boom")
	qe := &QueryError{Op: "test op", Err: inner}
	if !errors.Is(qe, inner) {
		t.Error("QueryError must unwrap to its cause")
	}
	if qe.Error() != "graph: test op: boom" {
		t.Errorf("Error() = %q", qe.Error())
	}
}
