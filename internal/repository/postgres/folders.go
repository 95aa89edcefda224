package postgres

import (
	"context"
	"fmt"
	"strings"

	"arquivo/internal/domain"
	"arquivo/internal/domain/models"
)

// FetchFolders retrieves all folders, name order.
func (a *Adapter) FetchFolders(ctx context.Context) ([]models.Folder, error) {
	query := fmt.Sprintf(`
		SELECT id, sector_id, parent_id, name, created_at, created_by
		FROM %s
		ORDER BY name ASC
	`, a.tables.Folders)

	rows, err := a.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("fetch folders: %w", err)
	}
	defer rows.Close()

	var folders []models.Folder
	for rows.Next() {
		var f models.Folder
		if err := rows.Scan(&f.ID, &f.SectorID, &f.ParentID, &f.Name, &f.CreatedAt, &f.CreatedBy); err != nil {
			return nil, fmt.Errorf("scan folder: %w", err)
		}
		folders = append(folders, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate folders: %w", err)
	}

	return folders, nil
}

// InsertFolder persists a folder built by the store.
func (a *Adapter) InsertFolder(ctx context.Context, folder *models.Folder) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, sector_id, parent_id, name, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, a.tables.Folders)

	_, err := a.pool.Exec(ctx, query,
		folder.ID,
		folder.SectorID,
		folder.ParentID,
		folder.Name,
		folder.CreatedAt,
		folder.CreatedBy,
	)
	if err != nil {
		if isPgDuplicateError(err) {
			return fmt.Errorf("folder %s: %w", folder.ID, domain.ErrConflict)
		}
		if isPgForeignKeyError(err) {
			return fmt.Errorf("folder %s: %w", folder.ID, domain.ErrInvalidReference)
		}
		return fmt.Errorf("insert folder: %w", err)
	}

	return nil
}

// UpdateFolder applies a partial update.
func (a *Adapter) UpdateFolder(ctx context.Context, id string, upd models.FolderUpdate) error {
	sets, args := updateArgs(upd.Name, "name", nil, nil)
	if len(sets) == 0 {
		return nil
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE %s SET %s WHERE id = $%d`,
		a.tables.Folders, strings.Join(sets, ", "), len(args))

	result, err := a.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update folder: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// DeleteFolder removes a folder row; the FK cascade takes descendant
// folders and their documents with it.
func (a *Adapter) DeleteFolder(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, a.tables.Folders)

	result, err := a.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete folder: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}

	return nil
}
