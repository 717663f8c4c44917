// Package cache stores parsed relationship-file edges in a sqlite3
// database keyed by the source file's path, size, and modification
// time, so re-running against the same CAIDA snapshot skips
// re-tokenizing a possibly multi-hundred-megabyte file (grounded on
// Emeline-1-anaximander_simulator/readers.go's SqliteReader/ReadSqlite,
// which drives database/sql against a sqlite3 file the same way).
package cache

import (
	"database/sql"
	"fmt"
	"os"

	_ "github.com/mattn/go-sqlite3"

	"github.com/cooperfrank/bgp-simulator/ioformat"
)

// Cache wraps a sqlite3-backed edge cache. The zero value is not
// usable; construct with Open.
type Cache struct {
	db *sql.DB
}

// Open creates or opens the cache database at path and ensures its
// schema exists.
func Open(path string) (*Cache, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening cache db %q: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating cache schema: %w", err)
	}
	return &Cache{db: db}, nil
}

// Close releases the underlying database handle.
func (c *Cache) Close() error {
	return c.db.Close()
}

const schema = `
CREATE TABLE IF NOT EXISTS source_files (
	id        INTEGER PRIMARY KEY AUTOINCREMENT,
	path      TEXT NOT NULL,
	size      INTEGER NOT NULL,
	mod_time  INTEGER NOT NULL,
	UNIQUE(path, size, mod_time)
);
CREATE TABLE IF NOT EXISTS edges (
	source_id INTEGER NOT NULL REFERENCES source_files(id) ON DELETE CASCADE,
	x         INTEGER NOT NULL,
	y         INTEGER NOT NULL,
	kind      INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_edges_source ON edges(source_id);
`

// fingerprint identifies a relationship file by the attributes cheap
// enough to stat without reading its contents.
func fingerprint(path string) (size int64, modTime int64, err error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, 0, err
	}
	return info.Size(), info.ModTime().Unix(), nil
}

// Lookup returns the cached edges for path, if its size and mtime
// still match what was stored on a previous Store call. The second
// return value is false on any miss, including a stat error.
func (c *Cache) Lookup(path string) ([]ioformat.Edge, bool) {
	size, modTime, err := fingerprint(path)
	if err != nil {
		return nil, false
	}

	var sourceID int64
	err = c.db.QueryRow(
		`SELECT id FROM source_files WHERE path = ? AND size = ? AND mod_time = ?`,
		path, size, modTime,
	).Scan(&sourceID)
	if err != nil {
		return nil, false
	}

	rows, err := c.db.Query(`SELECT x, y, kind FROM edges WHERE source_id = ?`, sourceID)
	if err != nil {
		return nil, false
	}
	defer rows.Close()

	var edges []ioformat.Edge
	for rows.Next() {
		var e ioformat.Edge
		var kind int
		if err := rows.Scan(&e.X, &e.Y, &kind); err != nil {
			return nil, false
		}
		e.Kind = ioformat.EdgeKind(kind)
		edges = append(edges, e)
	}
	if err := rows.Err(); err != nil {
		return nil, false
	}
	return edges, true
}

// Store records edges under path's current fingerprint, replacing any
// prior entry for the same (path, size, mod_time) triple.
func (c *Cache) Store(path string, edges []ioformat.Edge) error {
	size, modTime, err := fingerprint(path)
	if err != nil {
		return fmt.Errorf("stat %q: %w", path, err)
	}

	tx, err := c.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning cache transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(
		`INSERT OR REPLACE INTO source_files (path, size, mod_time) VALUES (?, ?, ?)`,
		path, size, modTime,
	)
	if err != nil {
		return fmt.Errorf("recording source file: %w", err)
	}
	sourceID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading source file id: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM edges WHERE source_id = ?`, sourceID); err != nil {
		return fmt.Errorf("clearing stale edges: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO edges (source_id, x, y, kind) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing edge insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range edges {
		if _, err := stmt.Exec(sourceID, e.X, e.Y, int(e.Kind)); err != nil {
			return fmt.Errorf("inserting edge: %w", err)
		}
	}

	return tx.Commit()
}
