package postgres

import (
	"context"
	"fmt"
	"strings"

	"arquivo/internal/domain"
	"arquivo/internal/domain/models"
)

// FetchDocuments retrieves all documents, newest first.
func (a *Adapter) FetchDocuments(ctx context.Context) ([]models.Document, error) {
	query := fmt.Sprintf(`
		SELECT id, folder_id, sector_id, name, description, type, file_ref,
		       file_name, file_size, mime_type, created_at, created_by
		FROM %s
		ORDER BY created_at DESC
	`, a.tables.Documents)

	rows, err := a.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("fetch documents: %w", err)
	}
	defer rows.Close()

	var documents []models.Document
	for rows.Next() {
		var d models.Document
		var docType, fileRef string
		err := rows.Scan(
			&d.ID,
			&d.FolderID,
			&d.SectorID,
			&d.Name,
			&d.Description,
			&docType,
			&fileRef,
			&d.FileName,
			&d.FileSize,
			&d.MimeType,
			&d.CreatedAt,
			&d.CreatedBy,
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
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}

	return documents, nil
}

// InsertDocument persists a document record built by the store.
func (a *Adapter) InsertDocument(ctx context.Context, doc *models.Document) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, folder_id, sector_id, name, description, type,
		                file_ref, file_name, file_size, mime_type, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, a.tables.Documents)

	_, err := a.pool.Exec(ctx, query,
		doc.ID,
		doc.FolderID,
		doc.SectorID,
		doc.Name,
		doc.Description,
		string(doc.Type),
		doc.File.String(),
		doc.FileName,
		doc.FileSize,
		doc.MimeType,
		doc.CreatedAt,
		doc.CreatedBy,
	)
	if err != nil {
		if isPgDuplicateError(err) {
			return fmt.Errorf("document %s: %w", doc.ID, domain.ErrConflict)
		}
		if isPgForeignKeyError(err) {
			return fmt.Errorf("document %s: %w", doc.ID, domain.ErrInvalidReference)
		}
		return fmt.Errorf("insert document: %w", err)
	}

	return nil
}

// UpdateDocument applies a partial update. Only name and description are
// persisted here; content and type never change after creation.
func (a *Adapter) UpdateDocument(ctx context.Context, id string, upd models.DocumentUpdate) error {
	sets, args := updateArgs(upd.Name, "name", nil, nil)
	sets, args = updateArgs(upd.Description, "description", sets, args)
	if len(sets) == 0 {
		return nil
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE %s SET %s WHERE id = $%d`,
		a.tables.Documents, strings.Join(sets, ", "), len(args))

	result, err := a.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update document: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// DeleteDocument removes a document row. File content is the store's
// responsibility, not this adapter's.
func (a *Adapter) DeleteDocument(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, a.tables.Documents)

	result, err := a.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}

	return nil
}
