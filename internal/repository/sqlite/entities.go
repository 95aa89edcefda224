package sqlite

import (
	"context"
	"fmt"
	"strings"

	"arquivo/internal/domain"
	"arquivo/internal/domain/models"
)

func (a *Adapter) FetchSectors(ctx context.Context) ([]models.Sector, error) {
	rows, err := a.db.QueryContext(ctx, `
		SELECT id, name, icon, color, created_at, created_by
		FROM sectors ORDER BY name ASC
	`)
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
	return sectors, rows.Err()
}

func (a *Adapter) InsertSector(ctx context.Context, sector *models.Sector) error {
	_, err := a.db.ExecContext(ctx, `
		INSERT INTO sectors (id, name, icon, color, created_at, created_by)
		VALUES (?, ?, ?, ?, ?, ?)
	`, sector.ID, sector.Name, sector.Icon, sector.Color, sector.CreatedAt, sector.CreatedBy)
	if err != nil {
		return fmt.Errorf("insert sector: %w", err)
	}
	return nil
}

func (a *Adapter) UpdateSector(ctx context.Context, id string, upd models.SectorUpdate) error {
	sets, args := updateArgs(upd.Name, "name", nil, nil)
	sets, args = updateArgs(upd.Icon, "icon", sets, args)
	sets, args = updateArgs(upd.Color, "color", sets, args)
	if len(sets) == 0 {
		return nil
	}
	return a.exec(ctx, "sector", id,
		fmt.Sprintf(`UPDATE sectors SET %s WHERE id = ?`, strings.Join(sets, ", ")),
		append(args, id)...)
}

func (a *Adapter) DeleteSector(ctx context.Context, id string) error {
	return a.exec(ctx, "sector", id, `DELETE FROM sectors WHERE id = ?`, id)
}

func (a *Adapter) FetchFolders(ctx context.Context) ([]models.Folder, error) {
	rows, err := a.db.QueryContext(ctx, `
		SELECT id, sector_id, parent_id, name, created_at, created_by
		FROM folders ORDER BY name ASC
	`)
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
	return folders, rows.Err()
}

func (a *Adapter) InsertFolder(ctx context.Context, folder *models.Folder) error {
	_, err := a.db.ExecContext(ctx, `
		INSERT INTO folders (id, sector_id, parent_id, name, created_at, created_by)
		VALUES (?, ?, ?, ?, ?, ?)
	`, folder.ID, folder.SectorID, folder.ParentID, folder.Name, folder.CreatedAt, folder.CreatedBy)
	if err != nil {
		return fmt.Errorf("insert folder: %w", err)
	}
	return nil
}

func (a *Adapter) UpdateFolder(ctx context.Context, id string, upd models.FolderUpdate) error {
	sets, args := updateArgs(upd.Name, "name", nil, nil)
	if len(sets) == 0 {
		return nil
	}
	return a.exec(ctx, "folder", id,
		fmt.Sprintf(`UPDATE folders SET %s WHERE id = ?`, strings.Join(sets, ", ")),
		append(args, id)...)
}

func (a *Adapter) DeleteFolder(ctx context.Context, id string) error {
	return a.exec(ctx, "folder", id, `DELETE FROM folders WHERE id = ?`, id)
}

func (a *Adapter) FetchDocuments(ctx context.Context) ([]models.Document, error) {
	rows, err := a.db.QueryContext(ctx, `
		SELECT id, folder_id, sector_id, name, description, type, file_ref,
		       file_name, file_size, mime_type, created_at, created_by
		FROM documents ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("fetch documents: %w", err)
	}
	defer rows.Close()

	var documents []models.Document
	for rows.Next() {
		var d models.Document
		var docType, fileRef string
		err := rows.Scan(
			&d.ID, &d.FolderID, &d.SectorID, &d.Name, &d.Description,
			&docType, &fileRef, &d.FileName, &d.FileSize, &d.MimeType,
			&d.CreatedAt, &d.CreatedBy,
		)
		if err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		d.Type = models.DocumentType(docType)
		if d.File, err = models.ParseFileRef(fileRef); err != nil {
			return nil, fmt.Errorf("document %s: %w", d.ID, err)
		}
		documents = append(documents, d)
	}
	return documents, rows.Err()
}

func (a *Adapter) InsertDocument(ctx context.Context, doc *models.Document) error {
	_, err := a.db.ExecContext(ctx, `
		INSERT INTO documents (id, folder_id, sector_id, name, description, type,
		                       file_ref, file_name, file_size, mime_type, created_at, created_by)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, doc.ID, doc.FolderID, doc.SectorID, doc.Name, doc.Description, string(doc.Type),
		doc.File.String(), doc.FileName, doc.FileSize, doc.MimeType, doc.CreatedAt, doc.CreatedBy)
	if err != nil {
		return fmt.Errorf("insert document: %w", err)
	}
	return nil
}

func (a *Adapter) UpdateDocument(ctx context.Context, id string, upd models.DocumentUpdate) error {
	sets, args := updateArgs(upd.Name, "name", nil, nil)
	sets, args = updateArgs(upd.Description, "description", sets, args)
	if len(sets) == 0 {
		return nil
	}
	return a.exec(ctx, "document", id,
		fmt.Sprintf(`UPDATE documents SET %s WHERE id = ?`, strings.Join(sets, ", ")),
		append(args, id)...)
}

func (a *Adapter) DeleteDocument(ctx context.Context, id string) error {
	return a.exec(ctx, "document", id, `DELETE FROM documents WHERE id = ?`, id)
}

// exec runs a mutation and maps "zero rows touched" to ErrNotFound.
func (a *Adapter) exec(ctx context.Context, kind, id, query string, args ...any) error {
	result, err := a.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s %s: %w", kind, id, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s %s: %w", kind, id, err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", kind, id, domain.ErrNotFound)
	}
	return nil
}

func updateArgs(field *string, col string, sets []string, args []any) ([]string, []any) {
	if field == nil {
		return sets, args
	}
	return append(sets, col+" = ?"), append(args, *field)
}
