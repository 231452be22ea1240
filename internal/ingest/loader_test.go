package ingest

import (
	"reflect"
	"testing"

	"github.com/starford/raido/internal/testutil"
)

const recipesCSV = `id,name,ingredients,tags,nutrition,contributor_id,submitted
1,sourdough bread,"['flour', 'water', 'salt']","['baking', 'bread']","[250.0, 3.0, 2.0, 10.0, 9.0, 1.0, 15.0]",u1,2019-01-15
2,sugar cookies,"[""flour"", ""sugar"", ""butter""]","[""baking"", ""dessert""]","[400, 20, 45, 8, 4, 12, 18]",u2,2020-06-01
`

const interactionsCSV = `user_id,recipe_id,date,rating,review
u3,1,2021-03-04,5,great loaf
u3,2,2021-04-01,2,too sweet
u1,2,2021-05-10,4,nice
`

func TestLoadRecipesFile(t *testing.T) {
	db := testutil.TestDB(t)

	if err := LoadFile(db, "recipes.csv", []byte(recipesCSV)); err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	cands, err := db.CandidatesAll(nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(cands) != 2 {
		t.Fatalf("recipes = %d, want 2", len(cands))
	}
	if cands[0].Name != "sourdough bread" {
		t.Errorf("name = %q", cands[0].Name)
	}
	// Python-style single-quoted lists are normalized on decode.
	if !reflect.DeepEqual(cands[0].Tags, []string{"baking", "bread"}) {
		t.Errorf("tags = %v", cands[0].Tags)
	}
	if len(cands[0].Nutrition) != 7 || cands[0].Nutrition[0] != 250 {
		t.Errorf("nutrition = %v", cands[0].Nutrition)
	}

	// Contributor columns become SUBMITTED edges.
	rels, err := db.RelationshipCounts()
	if err != nil {
		t.Fatal(err)
	}
	if rels["SUBMITTED"] != 2 {
		t.Errorf("SUBMITTED = %d, want 2", rels["SUBMITTED"])
	}
}

func TestLoadInteractionsFile(t *testing.T) {
	db := testutil.TestDB(t)

	if err := LoadFile(db, "recipes.csv", []byte(recipesCSV)); err != nil {
		t.Fatal(err)
	}
	if err := LoadFile(db, "interactions.csv", []byte(interactionsCSV)); err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	rels, err := db.RelationshipCounts()
	if err != nil {
		t.Fatal(err)
	}
	if rels["REVIEWED"] != 3 {
		t.Errorf("REVIEWED = %d, want 3", rels["REVIEWED"])
	}

	// The rating-5 review is positive, the rating-2 one is not.
	counts, err := db.PositiveTagCounts("u3", nil)
	if err != nil {
		t.Fatal(err)
	}
	for _, nc := range counts {
		if nc.Name == "dessert" {
			t.Errorf("low-rated review counted as positive: %v", counts)
		}
	}
}

func TestLoadFileRejectsUnknownShape(t *testing.T) {
	db := testutil.TestDB(t)

	if err := LoadFile(db, "junk.csv", []byte("a,b,c\n1,2,3\n")); err == nil {
		t.Error("expected error for unrecognized header")
	}
}

func TestLoadFileIdempotent(t *testing.T) {
	db := testutil.TestDB(t)

	for i := 0; i < 2; i++ {
		if err := LoadFile(db, "recipes.csv", []byte(recipesCSV)); err != nil {
			t.Fatal(err)
		}
		if err := LoadFile(db, "interactions.csv", []byte(interactionsCSV)); err != nil {
			t.Fatal(err)
		}
	}

	nodes, err := db.NodeCounts()
	if err != nil {
		t.Fatal(err)
	}
	if nodes["Recipe"] != 2 || nodes["User"] != 3 {
		t.Errorf("nodes = %v, want 2 recipes and 3 users", nodes)
	}
	rels, err := db.RelationshipCounts()
	if err != nil {
		t.Fatal(err)
	}
	if rels["REVIEWED"] != 3 || rels["SUBMITTED"] != 2 {
		t.Errorf("rels = %v after reload", rels)
	}
}

func TestParseStringList(t *testing.T) {
	got, err := parseStringList(`['a', 'b']`)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("got %v", got)
	}

	got, err = parseStringList(`["x"]`)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, []string{"x"}) {
		t.Errorf("got %v", got)
	}

	if got, err := parseStringList(""); err != nil || got != nil {
		t.Errorf("empty input: got %v, %v", got, err)
	}

	if _, err := parseStringList("not a list"); err == nil {
		t.Error("expected error for malformed list")
	}
}
