// Package graph provides the SQLite-backed property graph of users,
// recipes and ingredients, plus the query primitives the recommendation
// engine runs against it.
package graph

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

// Interaction kinds (edge types from User to Recipe).
const (
	KindReviewed  = "REVIEWED"
	KindSubmitted = "SUBMITTED"
)

const coreSchemaSQL = `
CREATE TABLE IF NOT EXISTS users (
	id TEXT PRIMARY KEY
);

CREATE TABLE IF NOT EXISTS recipes (
	id        TEXT PRIMARY KEY,
	name      TEXT NOT NULL DEFAULT '',
	nutrition TEXT NOT NULL DEFAULT '[]',
	tags      TEXT NOT NULL DEFAULT '[]'
);

CREATE TABLE IF NOT EXISTS ingredients (
	name TEXT PRIMARY KEY
);

CREATE TABLE IF NOT EXISTS recipe_ingredients (
	recipe_id  TEXT NOT NULL,
	ingredient TEXT NOT NULL,
	UNIQUE(recipe_id, ingredient)
);

CREATE TABLE IF NOT EXISTS interactions (
	user_id   TEXT NOT NULL,
	recipe_id TEXT NOT NULL,
	kind      TEXT NOT NULL CHECK (kind IN ('REVIEWED','SUBMITTED')),
	rating    INTEGER NOT NULL DEFAULT 0,
	date      TEXT NOT NULL DEFAULT '',
	UNIQUE(user_id, recipe_id, kind)
);

CREATE TABLE IF NOT EXISTS dataset_files (
	path     TEXT PRIMARY KEY,
	checksum TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_interactions_user ON interactions(user_id);
CREATE INDEX IF NOT EXISTS idx_interactions_recipe ON interactions(recipe_id);
CREATE INDEX IF NOT EXISTS idx_recipe_ingredients_ingredient ON recipe_ingredients(ingredient);
`

// DB wraps a sql.DB with graph-specific operations.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, &QueryError{Op: "open db", Err: err}
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, &QueryError{Op: "ping", Err: err}
	}
	if _, err := conn.Exec(coreSchemaSQL); err != nil {
		conn.Close()
		return nil, &QueryError{Op: "apply core schema", Err: err}
	}
	if err := initFTS(conn); err != nil {
		conn.Close()
		return nil, &QueryError{Op: "apply fts schema", Err: err}
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
