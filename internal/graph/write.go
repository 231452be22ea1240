package graph

import (
	json "github.com/goccy/go-json"
)

// UpsertRecipes inserts or replaces recipe nodes, their ingredient edges,
// and their FTS entries within a single transaction.
func (db *DB) UpsertRecipes(rows []RecipeRow) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return &QueryError{Op: "begin tx", Err: err}
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	recipeStmt, err := tx.Prepare(`
		INSERT INTO recipes (id, name, nutrition, tags)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name      = excluded.name,
			nutrition = excluded.nutrition,
			tags      = excluded.tags
	`)
	if err != nil {
		return &QueryError{Op: "prepare recipe upsert", Err: err}
	}
	defer recipeStmt.Close()

	ingrStmt, err := tx.Prepare(`INSERT OR IGNORE INTO ingredients (name) VALUES (?)`)
	if err != nil {
		return &QueryError{Op: "prepare ingredient insert", Err: err}
	}
	defer ingrStmt.Close()

	edgeStmt, err := tx.Prepare(`INSERT OR IGNORE INTO recipe_ingredients (recipe_id, ingredient) VALUES (?, ?)`)
	if err != nil {
		return &QueryError{Op: "prepare ingredient edge insert", Err: err}
	}
	defer edgeStmt.Close()

	for _, r := range rows {
		nutrition, _ := json.Marshal(r.Nutrition)
		tags, _ := json.Marshal(nonNil(r.Tags))

		if _, err := recipeStmt.Exec(r.ID, r.Name, string(nutrition), string(tags)); err != nil {
			return &QueryError{Op: "upsert recipe", Err: err}
		}

		// Replace ingredient edges: delete old then insert current set.
		if _, err := tx.Exec(`DELETE FROM recipe_ingredients WHERE recipe_id = ?`, r.ID); err != nil {
			return &QueryError{Op: "clear ingredient edges", Err: err}
		}
		for _, name := range r.Ingredients {
			if _, err := ingrStmt.Exec(name); err != nil {
				return &QueryError{Op: "insert ingredient", Err: err}
			}
			if _, err := edgeStmt.Exec(r.ID, name); err != nil {
				return &QueryError{Op: "insert ingredient edge", Err: err}
			}
		}

		if err := ftsUpsert(tx, r.ID, r.Name); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// InsertInteractions inserts user nodes and interaction edges within a
// single transaction. Existing (user, recipe, kind) edges are replaced so
// re-ingesting a dataset file is idempotent.
func (db *DB) InsertInteractions(rows []InteractionRow) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return &QueryError{Op: "begin tx", Err: err}
	}
	defer tx.Rollback() //nolint:errcheck

	userStmt, err := tx.Prepare(`INSERT OR IGNORE INTO users (id) VALUES (?)`)
	if err != nil {
		return &QueryError{Op: "prepare user insert", Err: err}
	}
	defer userStmt.Close()

	edgeStmt, err := tx.Prepare(`
		INSERT INTO interactions (user_id, recipe_id, kind, rating, date)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(user_id, recipe_id, kind) DO UPDATE SET
			rating = excluded.rating,
			date   = excluded.date
	`)
	if err != nil {
		return &QueryError{Op: "prepare interaction insert", Err: err}
	}
	defer edgeStmt.Close()

	for _, in := range rows {
		if _, err := userStmt.Exec(in.UserID); err != nil {
			return &QueryError{Op: "insert user", Err: err}
		}
		if _, err := edgeStmt.Exec(in.UserID, in.RecipeID, in.Kind, in.Rating, in.Date); err != nil {
			return &QueryError{Op: "insert interaction", Err: err}
		}
	}

	return tx.Commit()
}

// AllFileChecksums returns the recorded checksum for every ingested dataset file.
func (db *DB) AllFileChecksums() (map[string]string, error) {
	rows, err := db.conn.Query(`SELECT path, checksum FROM dataset_files`)
	if err != nil {
		return nil, &QueryError{Op: "all file checksums", Err: err}
	}
	defer rows.Close()
	out := make(map[string]string)
	for rows.Next() {
		var p, cs string
		if err := rows.Scan(&p, &cs); err != nil {
			return nil, err
		}
		out[p] = cs
	}
	return out, rows.Err()
}

// SetFileChecksum records the checksum of an ingested dataset file.
func (db *DB) SetFileChecksum(path, cs string) error {
	_, err := db.conn.Exec(`
		INSERT INTO dataset_files (path, checksum) VALUES (?, ?)
		ON CONFLICT(path) DO UPDATE SET checksum = excluded.checksum
	`, path, cs)
	if err != nil {
		return &QueryError{Op: "set file checksum", Err: err}
	}
	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
