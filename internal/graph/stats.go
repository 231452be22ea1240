package graph

import (
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/starford/raido/internal/apperr"
)

// Traversal directions accepted by DegreeCounts.
const (
	DirectionBoth = "BOTH"
	DirectionIn   = "IN"
	DirectionOut  = "OUT"
)

// Node labels and relationship types of the property graph.
const (
	LabelUser       = "User"
	LabelRecipe     = "Recipe"
	LabelIngredient = "Ingredient"

	RelWithIngredients = "WITH_INGREDIENTS"
)

// NodeCounts returns the total node count per label.
func (db *DB) NodeCounts() (map[string]int, error) {
	out := make(map[string]int, 3)
	for label, table := range map[string]string{
		LabelUser:       "users",
		LabelRecipe:     "recipes",
		LabelIngredient: "ingredients",
	} {
		var n int
		if err := db.conn.QueryRow(`SELECT COUNT(*) FROM ` + table).Scan(&n); err != nil {
			return nil, &QueryError{Op: "node counts", Err: err}
		}
		out[label] = n
	}
	return out, nil
}

// RelationshipCounts returns the total edge count per relationship type.
func (db *DB) RelationshipCounts() (map[string]int, error) {
	out := make(map[string]int, 3)
	for _, kind := range []string{KindReviewed, KindSubmitted} {
		var n int
		if err := db.conn.QueryRow(`SELECT COUNT(*) FROM interactions WHERE kind = ?`, kind).Scan(&n); err != nil {
			return nil, &QueryError{Op: "relationship counts", Err: err}
		}
		out[kind] = n
	}
	var n int
	if err := db.conn.QueryRow(`SELECT COUNT(*) FROM recipe_ingredients`).Scan(&n); err != nil {
		return nil, &QueryError{Op: "relationship counts", Err: err}
	}
	out[RelWithIngredients] = n
	return out, nil
}

// DegreeCounts returns the degree distribution for nodes of label over the
// given relationship types, with a cumulative percentile per bucket.
// direction must be one of BOTH, IN or OUT; anything else fails with
// apperr.ErrInvalidDirection rather than falling back to a default.
func (db *DB) DegreeCounts(label string, relTypes []string, direction string) ([]DegreeBucket, error) {
	dir := strings.ToUpper(direction)
	switch dir {
	case DirectionBoth, DirectionIn, DirectionOut:
	default:
		return nil, fmt.Errorf("%w: direction must be one of {BOTH, IN, OUT}, got %q",
			apperr.ErrInvalidDirection, direction)
	}

	nodeTable, idCol, err := nodeSource(label)
	if err != nil {
		return nil, err
	}

	var halves []string
	var args []any
	for _, rel := range relTypes {
		for _, half := range edgeHalves(label, rel, dir) {
			halves = append(halves, half.sql)
			args = append(args, half.args...)
		}
	}

	q := fmt.Sprintf(`SELECT n.%s, 0 FROM %s n`, idCol, nodeTable)
	if len(halves) > 0 {
		q = fmt.Sprintf(`
			SELECT n.%s, COUNT(e.node_id)
			FROM %s n
			LEFT JOIN (%s) e ON e.node_id = n.%s
			GROUP BY n.%s`,
			idCol, nodeTable, strings.Join(halves, " UNION ALL "), idCol, idCol)
	}

	rows, err := db.conn.Query(q, args...)
	if err != nil {
		return nil, &QueryError{Op: "degree counts", Err: err}
	}
	defer rows.Close()

	byDegree := make(map[int]int)
	total := 0
	for rows.Next() {
		var id string
		var degree int
		if err := rows.Scan(&id, &degree); err != nil {
			return nil, err
		}
		byDegree[degree]++
		total++
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	degrees := make([]int, 0, len(byDegree))
	for d := range byDegree {
		degrees = append(degrees, d)
	}
	sort.Ints(degrees)

	out := make([]DegreeBucket, 0, len(degrees))
	cum := 0
	for _, d := range degrees {
		cum += byDegree[d]
		out = append(out, DegreeBucket{
			Degree:     d,
			Count:      byDegree[d],
			Percentile: float64(cum) / float64(total),
		})
	}
	return out, nil
}

// DegreeSummary condenses a degree distribution into min, nearest-rank
// percentiles and max. Empty input yields an empty map.
func DegreeSummary(buckets []DegreeBucket) map[string]int {
	out := make(map[string]int, 8)
	if len(buckets) == 0 {
		return out
	}
	out["min"] = buckets[0].Degree
	out["max"] = buckets[len(buckets)-1].Degree
	for _, p := range []int{10, 25, 50, 75, 90, 99} {
		share := float64(p) / 100
		for _, b := range buckets {
			if b.Percentile >= share {
				out[fmt.Sprintf("p%d", p)] = b.Degree
				break
			}
		}
	}
	return out
}

type edgeHalf struct {
	sql  string
	args []any
}

// edgeHalves maps a (label, relationship, direction) combination onto the
// table columns holding the matching edge endpoints. Combinations with no
// valid orientation (e.g. User IN REVIEWED) contribute nothing, leaving
// every node at degree zero.
func edgeHalves(label, rel, dir string) []edgeHalf {
	var out []edgeHalf
	wantOut := dir == DirectionOut || dir == DirectionBoth
	wantIn := dir == DirectionIn || dir == DirectionBoth

	switch rel {
	case KindReviewed, KindSubmitted:
		if label == LabelUser && wantOut {
			out = append(out, edgeHalf{
				sql:  `SELECT user_id AS node_id FROM interactions WHERE kind = ?`,
				args: []any{rel},
			})
		}
		if label == LabelRecipe && wantIn {
			out = append(out, edgeHalf{
				sql:  `SELECT recipe_id AS node_id FROM interactions WHERE kind = ?`,
				args: []any{rel},
			})
		}
	case RelWithIngredients:
		if label == LabelRecipe && wantOut {
			out = append(out, edgeHalf{sql: `SELECT recipe_id AS node_id FROM recipe_ingredients`})
		}
		if label == LabelIngredient && wantIn {
			out = append(out, edgeHalf{sql: `SELECT ingredient AS node_id FROM recipe_ingredients`})
		}
	}
	return out
}

func nodeSource(label string) (table, idCol string, err error) {
	switch label {
	case LabelUser:
		return "users", "id", nil
	case LabelRecipe:
		return "recipes", "id", nil
	case LabelIngredient:
		return "ingredients", "name", nil
	default:
		return "", "", fmt.Errorf("%w: unknown label %q", apperr.ErrNotFound, label)
	}
}

// RandomUser picks a random user with at least minReviews REVIEWED edges.
// Returns apperr.ErrNotFound when no user qualifies.
func (db *DB) RandomUser(minReviews int) (string, int, error) {
	var id string
	var reviews int
	err := db.conn.QueryRow(`
		SELECT user_id, COUNT(*) AS review_count
		FROM interactions
		WHERE kind = 'REVIEWED'
		GROUP BY user_id
		HAVING review_count >= ?
		ORDER BY RANDOM()
		LIMIT 1
	`, minReviews).Scan(&id, &reviews)
	if errors.Is(err, sql.ErrNoRows) {
		return "", 0, apperr.ErrNotFound
	}
	if err != nil {
		return "", 0, &QueryError{Op: "random user", Err: err}
	}
	return id, reviews, nil
}

// TagCounts returns the global tag frequency list, most frequent first.
// limit <= 0 means no limit.
func (db *DB) TagCounts(limit int) ([]NameCount, error) {
	q := `
		SELECT je.value, COUNT(*) AS tag_count
		FROM recipes r, json_each(r.tags) AS je
		GROUP BY je.value
		ORDER BY tag_count DESC, je.value`
	var args []any
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := db.conn.Query(q, args...)
	if err != nil {
		return nil, &QueryError{Op: "tag counts", Err: err}
	}
	defer rows.Close()

	var out []NameCount
	for rows.Next() {
		var nc NameCount
		if err := rows.Scan(&nc.Name, &nc.Count); err != nil {
			return nil, err
		}
		out = append(out, nc)
	}
	return out, rows.Err()
}
