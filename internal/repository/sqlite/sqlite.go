// Package sqlite is the local-only persistence adapter realization: one
// SQLite file, no server. Unlike the postgres realization its schema does
// not cascade deletes, so the entity store strips dependent rows itself.
package sqlite

import (
	"database/sql"
	_ "embed"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"arquivo/internal/domain/repositories"
)

//go:embed schema.sql
var schemaSQL string

// Adapter implements repositories.Adapter on a local SQLite database.
type Adapter struct {
	db *sql.DB
}

// Open creates or opens the database at path and applies the schema.
// Idempotent - safe to call on an existing file.
//
// The database is configured with:
//   - WAL mode for concurrent reads during writes
//   - NORMAL synchronous mode
//   - 5-second busy timeout for lock contention
func Open(path string) (*Adapter, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	// SQLite supports one writer at a time; a single connection avoids
	// SQLITE_BUSY under concurrent store mutations.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Adapter{db: db}, nil
}

// Cascades reports false: deletes here remove exactly one row, the entity
// store handles the dependents.
func (a *Adapter) Cascades() bool { return false }

func (a *Adapter) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

var _ repositories.Adapter = (*Adapter)(nil)

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("execute %q: %w", pragma, err)
		}
	}
	return nil
}
