//go:build !sqlite_fts5

package graph

import "database/sql"

func initFTS(_ *sql.DB) error { return nil }

func ftsUpsert(_ *sql.Tx, _, _ string) error { return nil }

// SearchRecipes performs a LIKE-based search over recipe names when the
// binary is built without the sqlite_fts5 tag.
func (db *DB) SearchRecipes(query string, limit int) ([]RecipeHit, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.conn.Query(`
		SELECT id, name
		FROM recipes
		WHERE name LIKE '%' || ? || '%'
		ORDER BY name
		LIMIT ?
	`, query, limit)
	if err != nil {
		return nil, &QueryError{Op: "search recipes", Err: err}
	}
	defer rows.Close()

	var out []RecipeHit
	for rows.Next() {
		var h RecipeHit
		if err := rows.Scan(&h.ID, &h.Name); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}
