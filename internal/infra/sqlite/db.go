// Package sqlite provides the in-memory SQLite database backing the record
// stores. Uses modernc.org/sqlite — a pure-Go SQLite driver (no CGO required).
//
// The services hold their collections for the process lifetime only, so the
// database always lives at ":memory:". Every connection to ":memory:" opens a
// distinct database, so the pool is pinned to a single connection; that also
// makes each statement atomic with respect to concurrent gateway requests.
package sqlite

import (
	"database/sql"
	"fmt"

	// Register the modernc sqlite driver under the name "sqlite"
	_ "modernc.org/sqlite"
)

// NewMemoryDB opens a fresh in-memory SQLite database and applies the
// embedded schema. Each call returns a fully independent database.
func NewMemoryDB() (*sql.DB, error) {
	dsn := ":memory:" +
		"?_pragma=foreign_keys(ON)" +
		"&_pragma=temp_store(MEMORY)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite.NewMemoryDB: open: %w", err)
	}

	// A second connection to ":memory:" would be a second, empty database.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite.NewMemoryDB: ping: %w", err)
	}

	if err := InitSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}
