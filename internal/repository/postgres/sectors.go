package postgres

import (
	"context"
	"fmt"
	"strings"

	"arquivo/internal/domain"
	"arquivo/internal/domain/models"
)

// FetchSectors retrieves all sectors, name order.
func (a *Adapter) FetchSectors(ctx context.Context) ([]models.Sector, error) {
	query := fmt.Sprintf(`
		SELECT id, name, icon, color, created_at, created_by
		FROM %s
		ORDER BY name ASC
	`, a.tables.Sectors)

	rows, err := a.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("fetch sectors: %w", err)
	}
	defer rows.Close()

	var sectors []models.Sector
	for rows.Next() {
		var s models.Sector
		if err := rows.Scan(&s.ID, &s.Name, &s.Icon, &s.Color, &s.CreatedAt, &s.CreatedBy); err != nil {
			return nil, fmt.Errorf("scan sector: %w", err)
		}
		sectors = append(sectors, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sectors: %w", err)
	}

	return sectors, nil
}

// InsertSector persists a sector built by the store.
func (a *Adapter) InsertSector(ctx context.Context, sector *models.Sector) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, name, icon, color, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, a.tables.Sectors)

	_, err := a.pool.Exec(ctx, query,
		sector.ID,
		sector.Name,
		sector.Icon,
		sector.Color,
		sector.CreatedAt,
		sector.CreatedBy,
	)
	if err != nil {
		if isPgDuplicateError(err) {
			return fmt.Errorf("sector %s: %w", sector.ID, domain.ErrConflict)
		}
		return fmt.Errorf("insert sector: %w", err)
	}

	return nil
}

// UpdateSector applies a partial update.
func (a *Adapter) UpdateSector(ctx context.Context, id string, upd models.SectorUpdate) error {
	sets, args := updateArgs(upd.Name, "name", nil, nil)
	sets, args = updateArgs(upd.Icon, "icon", sets, args)
	sets, args = updateArgs(upd.Color, "color", sets, args)
	if len(sets) == 0 {
		return nil
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE %s SET %s WHERE id = $%d`,
		a.tables.Sectors, strings.Join(sets, ", "), len(args))

	result, err := a.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update sector: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("sector %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// DeleteSector removes a sector row; the FK cascade takes its folders and
// documents with it.
func (a *Adapter) DeleteSector(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, a.tables.Sectors)

	result, err := a.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete sector: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("sector %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// updateArgs appends "col = $n" for a set field. Positional parameters grow
// with the args slice so partial updates stay one statement.
func updateArgs(field *string, col string, sets []string, args []any) ([]string, []any) {
	if field == nil {
		return sets, args
	}
	args = append(args, *field)
	return append(sets, fmt.Sprintf("%s = $%d", col, len(args))), args
}
