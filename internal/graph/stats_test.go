package graph

import (
	"errors"
	"math"
	"testing"

	"github.com/starford/raido/internal/apperr"
)

func TestNodeCounts(t *testing.T) {
	db := testDB(t)
	seed(t, db)

	counts, err := db.NodeCounts()
	if err != nil {
		t.Fatalf("NodeCounts: %v", err)
	}
	if counts[LabelUser] != 2 {
		t.Errorf("users = %d, want 2", counts[LabelUser])
	}
	if counts[LabelRecipe] != 3 {
		t.Errorf("recipes = %d, want 3", counts[LabelRecipe])
	}
	// flour, water, salt, sugar, butter, milk
	if counts[LabelIngredient] != 6 {
		t.Errorf("ingredients = %d, want 6", counts[LabelIngredient])
	}
}

func TestRelationshipCounts(t *testing.T) {
	db := testDB(t)
	seed(t, db)

	counts, err := db.RelationshipCounts()
	if err != nil {
		t.Fatalf("RelationshipCounts: %v", err)
	}
	if counts[KindReviewed] != 3 {
		t.Errorf("REVIEWED = %d, want 3", counts[KindReviewed])
	}
	if counts[KindSubmitted] != 1 {
		t.Errorf("SUBMITTED = %d, want 1", counts[KindSubmitted])
	}
	if counts[RelWithIngredients] != 9 {
		t.Errorf("WITH_INGREDIENTS = %d, want 9", counts[RelWithIngredients])
	}
}

func TestDegreeCountsInvalidDirection(t *testing.T) {
	db := testDB(t)
	seed(t, db)

	_, err := db.DegreeCounts(LabelUser, []string{KindReviewed}, "SIDEWAYS")
	if !errors.Is(err, apperr.ErrInvalidDirection) {
		t.Errorf("err = %v, want ErrInvalidDirection", err)
	}
}

func TestDegreeCountsUnknownLabel(t *testing.T) {
	db := testDB(t)
	seed(t, db)

	if _, err := db.DegreeCounts("Planet", []string{KindReviewed}, DirectionBoth); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestDegreeCountsUserOut(t *testing.T) {
	db := testDB(t)
	seed(t, db)

	// alice has 2 outgoing REVIEWED edges, bob 1.
	buckets, err := db.DegreeCounts(LabelUser, []string{KindReviewed}, DirectionOut)
	if err != nil {
		t.Fatalf("DegreeCounts: %v", err)
	}
	byDegree := map[int]int{}
	for _, b := range buckets {
		byDegree[b.Degree] = b.Count
	}
	if byDegree[1] != 1 || byDegree[2] != 1 {
		t.Errorf("buckets = %+v, want one user at degree 1 and one at degree 2", buckets)
	}
	// Percentiles are cumulative and end at 1.
	last := buckets[len(buckets)-1]
	if math.Abs(last.Percentile-1.0) > 1e-9 {
		t.Errorf("final percentile = %v, want 1.0", last.Percentile)
	}
	for i := 1; i < len(buckets); i++ {
		if buckets[i].Percentile < buckets[i-1].Percentile {
			t.Errorf("percentiles not cumulative: %+v", buckets)
		}
	}
}

func TestDegreeSummary(t *testing.T) {
	db := testDB(t)
	seed(t, db)

	buckets, err := db.DegreeCounts(LabelUser, []string{KindReviewed}, DirectionOut)
	if err != nil {
		t.Fatal(err)
	}
	summary := DegreeSummary(buckets)
	if summary["min"] != 1 || summary["max"] != 2 {
		t.Errorf("summary = %v, want min 1 and max 2", summary)
	}
	// Half the users sit at degree 1, so the median lands there and the
	// upper percentiles climb to 2.
	if summary["p50"] != 1 || summary["p99"] != 2 {
		t.Errorf("summary = %v", summary)
	}

	if got := DegreeSummary(nil); len(got) != 0 {
		t.Errorf("empty distribution: summary = %v, want empty", got)
	}
}

func TestDegreeCountsDirectionMismatchYieldsZeroDegrees(t *testing.T) {
	db := testDB(t)
	seed(t, db)

	// Users have no incoming REVIEWED edges; everyone lands at degree 0.
	buckets, err := db.DegreeCounts(LabelUser, []string{KindReviewed}, DirectionIn)
	if err != nil {
		t.Fatalf("DegreeCounts: %v", err)
	}
	if len(buckets) != 1 || buckets[0].Degree != 0 || buckets[0].Count != 2 {
		t.Errorf("buckets = %+v, want both users at degree 0", buckets)
	}
}

func TestDegreeCountsIngredientIn(t *testing.T) {
	db := testDB(t)
	seed(t, db)

	buckets, err := db.DegreeCounts(LabelIngredient, []string{RelWithIngredients}, DirectionIn)
	if err != nil {
		t.Fatalf("DegreeCounts: %v", err)
	}
	byDegree := map[int]int{}
	for _, b := range buckets {
		byDegree[b.Degree] = b.Count
	}
	// flour appears in all 3 recipes, sugar in 2, the other four in 1 each.
	if byDegree[3] != 1 || byDegree[2] != 1 || byDegree[1] != 4 {
		t.Errorf("buckets = %+v", buckets)
	}
}

func TestRandomUser(t *testing.T) {
	db := testDB(t)
	seed(t, db)

	id, reviews, err := db.RandomUser(2)
	if err != nil {
		t.Fatalf("RandomUser: %v", err)
	}
	if id != "alice" || reviews != 2 {
		t.Errorf("got %s with %d reviews, want alice with 2", id, reviews)
	}

	if _, _, err := db.RandomUser(100); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound when nobody qualifies", err)
	}
}

func TestTagCounts(t *testing.T) {
	db := testDB(t)
	seed(t, db)

	tags, err := db.TagCounts(0)
	if err != nil {
		t.Fatalf("TagCounts: %v", err)
	}
	if tags[0].Name != "baking" || tags[0].Count != 3 {
		t.Errorf("top tag = %+v, want baking with count 3", tags[0])
	}

	limited, err := db.TagCounts(2)
	if err != nil {
		t.Fatal(err)
	}
	if len(limited) != 2 {
		t.Errorf("limited = %v, want 2 entries", limited)
	}
}

func TestSearchRecipes(t *testing.T) {
	db := testDB(t)
	seed(t, db)

	hits, err := db.SearchRecipes("bread", 10)
	if err != nil {
		t.Fatalf("SearchRecipes: %v", err)
	}
	if len(hits) != 1 || hits[0].ID != "1" {
		t.Errorf("hits = %+v, want just the sourdough bread", hits)
	}

	hits, err = db.SearchRecipes("no such dish", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 0 {
		t.Errorf("hits = %+v, want none", hits)
	}
}
