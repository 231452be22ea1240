// Package testutil provides shared test helpers for setting up graphs and datasets.
package testutil

import (
	"os"
	"testing"

	"github.com/starford/raido/internal/dataset"
	"github.com/starford/raido/internal/graph"
)

// TestDB creates a temporary SQLite graph that is automatically cleaned up.
func TestDB(t *testing.T) *graph.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "raido-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := graph.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestDataDir creates a temporary dataset directory with a dataset.Provider.
func TestDataDir(t *testing.T) (string, dataset.Provider) {
	t.Helper()
	dataDir := t.TempDir()
	store, err := dataset.NewFS(dataDir)
	if err != nil {
		t.Fatal(err)
	}
	return dataDir, store
}

// SeedGraph loads a small fixture graph used across packages: three users,
// five recipes with ingredients, tags and nutrition vectors, and a mix of
// reviews and submissions.
func SeedGraph(t *testing.T, db *graph.DB) {
	t.Helper()

	recipes := []graph.RecipeRow{
		{
			ID:          "1",
			Name:        "rustic sourdough bread",
			Ingredients: []string{"flour", "water", "salt"},
			Tags:        []string{"baking", "bread"},
			Nutrition:   []float64{250, 3, 2, 10, 9, 1, 15},
		},
		{
			ID:          "2",
			Name:        "sugar cookies",
			Ingredients: []string{"flour", "sugar", "butter"},
			Tags:        []string{"baking", "dessert"},
			Nutrition:   []float64{400, 20, 45, 8, 4, 12, 18},
		},
		{
			ID:          "3",
			Name:        "buttermilk pancakes",
			Ingredients: []string{"flour", "sugar", "milk"},
			Tags:        []string{"breakfast", "baking"},
			Nutrition:   []float64{300, 10, 20, 12, 8, 5, 16},
		},
		{
			ID:          "4",
			Name:        "garden salad",
			Ingredients: []string{"lettuce", "tomato", "olive oil"},
			Tags:        []string{"salad", "healthy"},
			Nutrition:   []float64{120, 8, 4, 5, 2, 1, 3},
		},
		{
			ID:          "5",
			Name:        "banana bread",
			Ingredients: []string{"flour", "sugar", "banana"},
			Tags:        []string{"baking", "bread"},
			Nutrition:   []float64{280, 9, 30, 9, 5, 4, 14},
		},
	}
	if err := db.UpsertRecipes(recipes); err != nil {
		t.Fatal(err)
	}

	interactions := []graph.InteractionRow{
		// alice loves baked goods, dislikes salads.
		{UserID: "alice", RecipeID: "1", Kind: graph.KindReviewed, Rating: 5, Date: "2024-01-02"},
		{UserID: "alice", RecipeID: "2", Kind: graph.KindReviewed, Rating: 4, Date: "2024-01-05"},
		{UserID: "alice", RecipeID: "4", Kind: graph.KindReviewed, Rating: 2, Date: "2024-01-09"},
		// bob submitted the pancakes and reviewed the salad well.
		{UserID: "bob", RecipeID: "3", Kind: graph.KindSubmitted, Date: "2023-11-20"},
		{UserID: "bob", RecipeID: "4", Kind: graph.KindReviewed, Rating: 5, Date: "2024-02-01"},
		// carol has a single low review, no positive history.
		{UserID: "carol", RecipeID: "2", Kind: graph.KindReviewed, Rating: 1, Date: "2024-03-15"},
	}
	if err := db.InsertInteractions(interactions); err != nil {
		t.Fatal(err)
	}
}
