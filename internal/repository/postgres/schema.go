package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureSchema creates the three entity tables if they don't exist.
// Idempotent. Dependent rows are removed database-side via the cascading
// foreign keys declared here.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool, tables *TableNames) error {
	stmts := []string{
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id UUID PRIMARY KEY,
				name TEXT NOT NULL,
				icon TEXT NOT NULL,
				color TEXT,
				created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
				created_by TEXT NOT NULL
			)
		`, tables.Sectors),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id UUID PRIMARY KEY,
				sector_id UUID NOT NULL REFERENCES %s(id) ON DELETE CASCADE,
				parent_id UUID REFERENCES %s(id) ON DELETE CASCADE,
				name TEXT NOT NULL,
				created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
				created_by TEXT NOT NULL
			)
		`, tables.Folders, tables.Sectors, tables.Folders),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id UUID PRIMARY KEY,
				folder_id UUID NOT NULL REFERENCES %s(id) ON DELETE CASCADE,
				sector_id UUID NOT NULL REFERENCES %s(id) ON DELETE CASCADE,
				name TEXT NOT NULL,
				description TEXT,
				type TEXT NOT NULL,
				file_ref TEXT NOT NULL DEFAULT '',
				file_name TEXT NOT NULL,
				file_size BIGINT NOT NULL DEFAULT 0,
				mime_type TEXT NOT NULL DEFAULT '',
				created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
				created_by TEXT NOT NULL
			)
		`, tables.Documents, tables.Folders, tables.Sectors),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%s_sector ON %s(sector_id)`,
			tables.Folders, tables.Folders),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%s_parent ON %s(parent_id)`,
			tables.Folders, tables.Folders),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%s_folder ON %s(folder_id)`,
			tables.Documents, tables.Documents),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%s_sector ON %s(sector_id)`,
			tables.Documents, tables.Documents),
	}

	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}

// DropTables removes the three entity tables. Used by the seed command's
// --drop-tables flag; never called from the server.
func DropTables(ctx context.Context, pool *pgxpool.Pool, tables *TableNames) error {
	// Documents first so the FK references don't block the drop.
	for _, table := range []string{tables.Documents, tables.Folders, tables.Sectors} {
		if _, err := pool.Exec(ctx, fmt.Sprintf(`DROP TABLE IF EXISTS %s CASCADE`, table)); err != nil {
			return fmt.Errorf("drop %s: %w", table, err)
		}
	}
	return nil
}
