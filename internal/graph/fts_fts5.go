//go:build sqlite_fts5

package graph

import (
	"database/sql"
	"fmt"
)

func initFTS(conn *sql.DB) error {
	_, err := conn.Exec(`
		CREATE VIRTUAL TABLE IF NOT EXISTS recipes_fts USING fts5(
			id UNINDEXED,
			name,
			tokenize = 'unicode61 remove_diacritics 2'
		);
	`)
	return err
}

func ftsUpsert(tx *sql.Tx, id, name string) error {
	_, _ = tx.Exec(`DELETE FROM recipes_fts WHERE id = ?`, id)
	_, err := tx.Exec(`INSERT INTO recipes_fts (id, name) VALUES (?, ?)`, id, name)
	if err != nil {
		return &QueryError{Op: fmt.Sprintf("upsert fts for %s", id), Err: err}
	}
	return nil
}

// SearchRecipes performs an FTS5 search over recipe names.
func (db *DB) SearchRecipes(query string, limit int) ([]RecipeHit, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.conn.Query(`
		SELECT id, name
		FROM recipes_fts
		WHERE recipes_fts MATCH ?
		ORDER BY rank
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
