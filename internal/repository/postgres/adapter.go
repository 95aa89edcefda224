// Package postgres is the durable persistence adapter realization. Cascade
// cleanup of dependent rows is delegated to the database: the schema
// declares ON DELETE CASCADE foreign keys, so deleting a sector or folder
// row removes everything under it server-side.
package postgres

import (
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"arquivo/internal/domain/repositories"
)

// Adapter implements repositories.Adapter on a pgx connection pool.
type Adapter struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewAdapter builds a postgres adapter over the given pool.
func NewAdapter(pool *pgxpool.Pool, tables *TableNames, logger *slog.Logger) repositories.Adapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Adapter{pool: pool, tables: tables, logger: logger}
}

// Cascades reports true: the foreign keys carry ON DELETE CASCADE.
func (a *Adapter) Cascades() bool { return true }

func (a *Adapter) Close() error {
	a.pool.Close()
	return nil
}
