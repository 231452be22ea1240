// Package ingest populates the property graph from Food.com-shaped CSV
// dataset files and keeps it in sync as files change.
package ingest

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/starford/raido/internal/graph"
)

// LoadFile detects the file's shape from its header and loads it:
// a column named "ingredients" marks a recipes file, a column named
// "rating" marks an interactions file. Anything else is rejected.
func LoadFile(db *graph.DB, path string, data []byte) error {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return fmt.Errorf("ingest %s: read header: %w", path, err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(strings.ToLower(name))] = i
	}

	switch {
	case hasCol(cols, "ingredients"):
		return loadRecipes(db, path, r, cols)
	case hasCol(cols, "rating"):
		return loadInteractions(db, path, r, cols)
	default:
		return fmt.Errorf("ingest %s: unrecognized header %v", path, header)
	}
}

// loadRecipes loads recipe nodes with their ingredient edges, and a
// SUBMITTED interaction for each contributor column present.
func loadRecipes(db *graph.DB, path string, r *csv.Reader, cols map[string]int) error {
	var recipes []graph.RecipeRow
	var submissions []graph.InteractionRow

	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("ingest %s: read row: %w", path, err)
		}

		id := field(rec, cols, "id")
		if id == "" {
			continue
		}
		nutrition, err := parseFloatList(field(rec, cols, "nutrition"))
		if err != nil {
			return fmt.Errorf("ingest %s: recipe %s nutrition: %w", path, id, err)
		}
		tags, err := parseStringList(field(rec, cols, "tags"))
		if err != nil {
			return fmt.Errorf("ingest %s: recipe %s tags: %w", path, id, err)
		}
		ingredients, err := parseStringList(field(rec, cols, "ingredients"))
		if err != nil {
			return fmt.Errorf("ingest %s: recipe %s ingredients: %w", path, id, err)
		}

		recipes = append(recipes, graph.RecipeRow{
			ID:          id,
			Name:        field(rec, cols, "name"),
			Nutrition:   nutrition,
			Tags:        tags,
			Ingredients: ingredients,
		})

		if contributor := field(rec, cols, "contributor_id"); contributor != "" {
			submissions = append(submissions, graph.InteractionRow{
				UserID:   contributor,
				RecipeID: id,
				Kind:     graph.KindSubmitted,
				Date:     field(rec, cols, "submitted"),
			})
		}
	}

	if err := db.UpsertRecipes(recipes); err != nil {
		return err
	}
	return db.InsertInteractions(submissions)
}

// loadInteractions loads REVIEWED edges.
func loadInteractions(db *graph.DB, path string, r *csv.Reader, cols map[string]int) error {
	var rows []graph.InteractionRow

	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("ingest %s: read row: %w", path, err)
		}

		userID := field(rec, cols, "user_id")
		recipeID := field(rec, cols, "recipe_id")
		if userID == "" || recipeID == "" {
			continue
		}
		rating, err := strconv.Atoi(strings.TrimSpace(field(rec, cols, "rating")))
		if err != nil {
			return fmt.Errorf("ingest %s: review %s/%s rating: %w", path, userID, recipeID, err)
		}

		rows = append(rows, graph.InteractionRow{
			UserID:   userID,
			RecipeID: recipeID,
			Kind:     graph.KindReviewed,
			Rating:   rating,
			Date:     field(rec, cols, "date"),
		})
	}

	return db.InsertInteractions(rows)
}

func hasCol(cols map[string]int, name string) bool {
	_, ok := cols[name]
	return ok
}

func field(rec []string, cols map[string]int, name string) string {
	i, ok := cols[name]
	if !ok || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

// parseStringList decodes a JSON string array. Food.com dumps use Python
// list syntax with single quotes, so that form is normalized first.
func parseStringList(raw string) ([]string, error) {
	if raw == "" {
		return nil, nil
	}
	var out []string
	if err := json.Unmarshal([]byte(raw), &out); err == nil {
		return out, nil
	}
	normalized := strings.ReplaceAll(raw, `'`, `"`)
	if err := json.Unmarshal([]byte(normalized), &out); err != nil {
		return nil, fmt.Errorf("not a string list: %q", raw)
	}
	return out, nil
}

func parseFloatList(raw string) ([]float64, error) {
	if raw == "" {
		return nil, nil
	}
	var out []float64
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("not a number list: %q", raw)
	}
	return out, nil
}
