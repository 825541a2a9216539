package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection holding the reasoning graph
type DB struct {
	conn *sql.DB
	Path string
}

// OpenDB opens a SQLite database with WAL mode and foreign keys enabled and
// brings the schema up to date.
func OpenDB(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// One connection: writes are serialized and an in-memory database
	// survives for the lifetime of the handle.
	conn.SetMaxOpenConns(1)

	// Enable WAL mode for concurrent readers from other processes
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("setting WAL mode: %w", err)
	}

	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	d := &DB{conn: conn, Path: path}
	if err := d.Migrate(context.Background()); err != nil {
		conn.Close()
		return nil, err
	}
	return d, nil
}

// Close closes the database connection
func (d *DB) Close() error {
	return d.conn.Close()
}

// Conn returns the underlying sql.DB for custom queries
func (d *DB) Conn() *sql.DB {
	return d.conn
}

const schema = `
CREATE TABLE IF NOT EXISTS thinking_nodes (
	id                   TEXT PRIMARY KEY,
	session_id           TEXT NOT NULL,
	parent_node_id       TEXT REFERENCES thinking_nodes(id) ON DELETE SET NULL,
	reasoning            TEXT NOT NULL DEFAULT '',
	response             TEXT,
	input_query          TEXT,
	structured_reasoning TEXT NOT NULL DEFAULT '{}',
	confidence_score     REAL,
	token_usage          TEXT,
	node_type            TEXT NOT NULL DEFAULT 'thinking',
	created_at           INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_thinking_nodes_session ON thinking_nodes(session_id, created_at);
CREATE INDEX IF NOT EXISTS idx_thinking_nodes_parent ON thinking_nodes(parent_node_id);

CREATE TABLE IF NOT EXISTS decision_points (
	id                TEXT PRIMARY KEY,
	thinking_node_id  TEXT NOT NULL REFERENCES thinking_nodes(id) ON DELETE CASCADE,
	step_number       INTEGER NOT NULL,
	description       TEXT NOT NULL,
	chosen_path       TEXT NOT NULL,
	alternatives      TEXT NOT NULL DEFAULT '[]',
	confidence        REAL,
	reasoning_excerpt TEXT NOT NULL DEFAULT '',
	created_at        INTEGER NOT NULL,
	UNIQUE (thinking_node_id, step_number)
);

CREATE TABLE IF NOT EXISTS reasoning_edges (
	id         TEXT PRIMARY KEY,
	source_id  TEXT NOT NULL REFERENCES thinking_nodes(id) ON DELETE CASCADE,
	target_id  TEXT NOT NULL REFERENCES thinking_nodes(id) ON DELETE CASCADE,
	edge_type  TEXT NOT NULL,
	weight     REAL NOT NULL DEFAULT 1.0,
	metadata   TEXT,
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_reasoning_edges_source ON reasoning_edges(source_id);
CREATE INDEX IF NOT EXISTS idx_reasoning_edges_target ON reasoning_edges(target_id);

CREATE VIRTUAL TABLE IF NOT EXISTS thinking_nodes_fts USING fts5(
	reasoning,
	content='thinking_nodes',
	content_rowid='rowid'
);
CREATE TRIGGER IF NOT EXISTS thinking_nodes_fts_insert AFTER INSERT ON thinking_nodes BEGIN
	INSERT INTO thinking_nodes_fts(rowid, reasoning) VALUES (new.rowid, new.reasoning);
END;
CREATE TRIGGER IF NOT EXISTS thinking_nodes_fts_delete AFTER DELETE ON thinking_nodes BEGIN
	INSERT INTO thinking_nodes_fts(thinking_nodes_fts, rowid, reasoning) VALUES ('delete', old.rowid, old.reasoning);
END;
`

// Migrate creates any missing tables, indexes and triggers. It is safe to run
// on every open.
func (d *DB) Migrate(ctx context.Context) error {
	if _, err := d.conn.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrating schema: %w", err)
	}
	return nil
}
