package graph

import (
	"database/sql"
	"errors"
	"strings"

	json "github.com/goccy/go-json"
)

// positiveCond selects interactions that signal affinity: a review rated 4
// or higher, or any submission.
const positiveCond = `(i.rating >= 4 OR i.kind = 'SUBMITTED')`

// UserExists reports whether a user node is present in the graph.
func (db *DB) UserExists(id string) (bool, error) {
	var one int
	err := db.conn.QueryRow(`SELECT 1 FROM users WHERE id = ?`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, &QueryError{Op: "user exists", Err: err}
	}
	return true, nil
}

// InteractedRecipeIDs returns every recipe the user has submitted or
// reviewed. This is the exclusion set for candidate generation.
func (db *DB) InteractedRecipeIDs(userID string) ([]string, error) {
	rows, err := db.conn.Query(`
		SELECT DISTINCT recipe_id FROM interactions WHERE user_id = ?
	`, userID)
	if err != nil {
		return nil, &QueryError{Op: "interacted recipe ids", Err: err}
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// UserInteractions returns the user's full history, submissions first,
// most recent first within each kind.
func (db *DB) UserInteractions(userID string) ([]Interaction, error) {
	rows, err := db.conn.Query(`
		SELECT i.recipe_id, r.name, i.kind, i.rating, i.date
		FROM interactions i
		JOIN recipes r ON r.id = i.recipe_id
		WHERE i.user_id = ?
		ORDER BY i.kind DESC, i.date DESC
	`, userID)
	if err != nil {
		return nil, &QueryError{Op: "user interactions", Err: err}
	}
	defer rows.Close()

	var out []Interaction
	for rows.Next() {
		var in Interaction
		if err := rows.Scan(&in.RecipeID, &in.Name, &in.Kind, &in.Rating, &in.Date); err != nil {
			return nil, err
		}
		out = append(out, in)
	}
	return out, rows.Err()
}

// PositiveIngredientCounts aggregates, per ingredient, how many of the
// user's positive interactions contain it, with the contributing recipe
// ids. Blacklisted names are excluded. Ordered by descending count, then
// name, so equal counts rank deterministically.
func (db *DB) PositiveIngredientCounts(userID string, excluded []string) ([]NameCount, error) {
	q := `
		SELECT ri.ingredient, COUNT(*) AS fav_count, json_group_array(r.id)
		FROM interactions i
		JOIN recipes r ON r.id = i.recipe_id
		JOIN recipe_ingredients ri ON ri.recipe_id = r.id
		WHERE i.user_id = ? AND ` + positiveCond
	args := []any{userID}
	if len(excluded) > 0 {
		q += ` AND ri.ingredient NOT IN (` + placeholders(len(excluded)) + `)`
		args = append(args, toAnys(excluded)...)
	}
	q += `
		GROUP BY ri.ingredient
		ORDER BY fav_count DESC, ri.ingredient`

	rows, err := db.conn.Query(q, args...)
	if err != nil {
		return nil, &QueryError{Op: "positive ingredient counts", Err: err}
	}
	defer rows.Close()

	var out []NameCount
	for rows.Next() {
		var nc NameCount
		var recipeIDs string
		if err := rows.Scan(&nc.Name, &nc.Count, &recipeIDs); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(recipeIDs), &nc.RecipeIDs); err != nil {
			return nil, &QueryError{Op: "decode recipe id list", Err: err}
		}
		out = append(out, nc)
	}
	return out, rows.Err()
}

// PositiveTagCounts aggregates, per tag, how many of the user's positive
// interactions carry it. Blacklisted tags are excluded.
func (db *DB) PositiveTagCounts(userID string, excluded []string) ([]NameCount, error) {
	q := `
		SELECT je.value, COUNT(*) AS tag_count
		FROM interactions i
		JOIN recipes r ON r.id = i.recipe_id, json_each(r.tags) AS je
		WHERE i.user_id = ? AND ` + positiveCond
	args := []any{userID}
	if len(excluded) > 0 {
		q += ` AND je.value NOT IN (` + placeholders(len(excluded)) + `)`
		args = append(args, toAnys(excluded)...)
	}
	q += `
		GROUP BY je.value
		ORDER BY tag_count DESC, je.value`

	rows, err := db.conn.Query(q, args...)
	if err != nil {
		return nil, &QueryError{Op: "positive tag counts", Err: err}
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

// PositiveNutrition returns the decoded nutrition vector of every recipe
// the user has positively interacted with, one row per interaction.
func (db *DB) PositiveNutrition(userID string) ([][]float64, error) {
	rows, err := db.conn.Query(`
		SELECT r.nutrition
		FROM interactions i
		JOIN recipes r ON r.id = i.recipe_id
		WHERE i.user_id = ? AND `+positiveCond, userID)
	if err != nil {
		return nil, &QueryError{Op: "positive nutrition", Err: err}
	}
	defer rows.Close()

	var out [][]float64
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var vec []float64
		if err := json.Unmarshal([]byte(raw), &vec); err != nil {
			return nil, &QueryError{Op: "decode nutrition vector", Err: err}
		}
		out = append(out, vec)
	}
	return out, rows.Err()
}

// CandidatesByIngredients returns recipes outside the exclusion set that
// share at least one ingredient with favorites, with their full ingredient
// sets for match counting.
func (db *DB) CandidatesByIngredients(favorites, excluded []string) ([]Candidate, error) {
	if len(favorites) == 0 {
		return nil, nil
	}
	q := `
		SELECT r.id, r.name, r.nutrition, r.tags, json_group_array(ri.ingredient)
		FROM recipes r
		JOIN recipe_ingredients ri ON ri.recipe_id = r.id`
	var args []any
	q += ` WHERE 1=1`
	if len(excluded) > 0 {
		q += ` AND r.id NOT IN (` + placeholders(len(excluded)) + `)`
		args = append(args, toAnys(excluded)...)
	}
	q += `
		GROUP BY r.id, r.name, r.nutrition, r.tags
		HAVING SUM(ri.ingredient IN (` + placeholders(len(favorites)) + `)) > 0
		ORDER BY r.id`
	args = append(args, toAnys(favorites)...)

	return db.scanCandidates("candidates by ingredients", q, args, true)
}

// CandidatesByTags returns recipes outside the exclusion set that share at
// least one tag with tags.
func (db *DB) CandidatesByTags(tags, excluded []string) ([]Candidate, error) {
	if len(tags) == 0 {
		return nil, nil
	}
	q := `
		SELECT r.id, r.name, r.nutrition, r.tags
		FROM recipes r
		WHERE EXISTS (
			SELECT 1 FROM json_each(r.tags) AS je
			WHERE je.value IN (` + placeholders(len(tags)) + `)
		)`
	args := toAnys(tags)
	if len(excluded) > 0 {
		q += ` AND r.id NOT IN (` + placeholders(len(excluded)) + `)`
		args = append(args, toAnys(excluded)...)
	}
	q += ` ORDER BY r.id`

	return db.scanCandidates("candidates by tags", q, args, false)
}

// CandidatesAll returns every recipe outside the exclusion set. Used when
// only the nutrition axis is requested.
func (db *DB) CandidatesAll(excluded []string) ([]Candidate, error) {
	q := `SELECT r.id, r.name, r.nutrition, r.tags FROM recipes r`
	var args []any
	if len(excluded) > 0 {
		q += ` WHERE r.id NOT IN (` + placeholders(len(excluded)) + `)`
		args = toAnys(excluded)
	}
	q += ` ORDER BY r.id`

	return db.scanCandidates("candidates all", q, args, false)
}

func (db *DB) scanCandidates(op, q string, args []any, withIngredients bool) ([]Candidate, error) {
	rows, err := db.conn.Query(q, args...)
	if err != nil {
		return nil, &QueryError{Op: op, Err: err}
	}
	defer rows.Close()

	var out []Candidate
	for rows.Next() {
		var c Candidate
		var nutrition, tags string
		var ingredients string
		dest := []any{&c.ID, &c.Name, &nutrition, &tags}
		if withIngredients {
			dest = append(dest, &ingredients)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(nutrition), &c.Nutrition); err != nil {
			return nil, &QueryError{Op: op + ": decode nutrition", Err: err}
		}
		if err := json.Unmarshal([]byte(tags), &c.Tags); err != nil {
			return nil, &QueryError{Op: op + ": decode tags", Err: err}
		}
		if withIngredients {
			if err := json.Unmarshal([]byte(ingredients), &c.Ingredients); err != nil {
				return nil, &QueryError{Op: op + ": decode ingredients", Err: err}
			}
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// TwoHopCounts walks User -> reviewed Recipe -> neighbor User -> Recipe and
// counts the distinct nodes at each step, excluding recipes the user
// already interacted with from the candidate pool. A user with no reviews
// (or no genuine neighbors) yields all-zero counts, not an error.
func (db *DB) TwoHopCounts(userID string) (ConnectivityEstimate, error) {
	var est ConnectivityEstimate
	err := db.conn.QueryRow(`
		WITH user_recipes AS (
			SELECT DISTINCT recipe_id FROM interactions WHERE user_id = ?
		),
		hops AS (
			SELECT rv.recipe_id AS r1, n.user_id AS u2, i2.recipe_id AS r2
			FROM interactions rv
			JOIN interactions n  ON n.recipe_id = rv.recipe_id AND n.user_id <> rv.user_id
			JOIN interactions i2 ON i2.user_id = n.user_id
			WHERE rv.user_id = ? AND rv.kind = 'REVIEWED'
			  AND i2.recipe_id NOT IN (SELECT recipe_id FROM user_recipes)
		)
		SELECT COUNT(DISTINCT r1), COUNT(DISTINCT u2), COUNT(DISTINCT r2) FROM hops
	`, userID, userID).Scan(&est.InteractedRecipes, &est.NeighborUsers, &est.CandidatePool)
	if err != nil {
		return ConnectivityEstimate{}, &QueryError{Op: "two hop counts", Err: err}
	}
	return est, nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func toAnys(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
