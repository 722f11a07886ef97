package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"folio-go/internal/folio"
)

// ImportCatalog upserts entries keyed by link inside a single transaction, so
// a failed import leaves the previous catalog untouched. Existing designs keep
// their ids; their detail images and texts are replaced. With prune, designs
// missing from entries are deleted together with their details and any saved
// entries that reference them.
func (s *SQLiteDatabase) ImportCatalog(ctx context.Context, entries []*folio.CatalogEntry, prune bool) (*folio.ImportResult, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	result := &folio.ImportResult{}
	keep := make(map[int64]bool, len(entries))

	for _, e := range entries {
		id, inserted, err := upsertDesign(ctx, tx, e)
		if err != nil {
			return nil, fmt.Errorf("importing %q: %w", e.Link, err)
		}
		if inserted {
			result.Inserted++
		} else {
			result.Updated++
		}
		keep[id] = true

		if err := replaceDetails(ctx, tx, id, e); err != nil {
			return nil, fmt.Errorf("importing details for %q: %w", e.Link, err)
		}
	}

	if prune {
		n, err := pruneDesigns(ctx, tx, keep)
		if err != nil {
			return nil, err
		}
		result.Pruned = n
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing transaction: %w", err)
	}
	return result, nil
}

// upsertDesign returns the design id and whether a new row was created.
func upsertDesign(ctx context.Context, tx *sql.Tx, e *folio.CatalogEntry) (int64, bool, error) {
	desc := sql.NullString{String: e.Description, Valid: e.Description != ""}

	var id int64
	err := tx.QueryRowContext(ctx, "SELECT id FROM designs WHERE link = ?", e.Link).Scan(&id)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		res, err := tx.ExecContext(ctx,
			"INSERT INTO designs (link, title, category, image, description) VALUES (?, ?, ?, ?, ?)",
			e.Link, e.Title, e.Category, e.Image, desc,
		)
		if err != nil {
			return 0, false, fmt.Errorf("inserting design: %w", err)
		}
		id, err = res.LastInsertId()
		if err != nil {
			return 0, false, fmt.Errorf("reading design id: %w", err)
		}
		return id, true, nil
	case err != nil:
		return 0, false, fmt.Errorf("finding design by link: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		"UPDATE designs SET title = ?, category = ?, image = ?, description = ? WHERE id = ?",
		e.Title, e.Category, e.Image, desc, id,
	)
	if err != nil {
		return 0, false, fmt.Errorf("updating design: %w", err)
	}
	return id, false, nil
}

func replaceDetails(ctx context.Context, tx *sql.Tx, designID int64, e *folio.CatalogEntry) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM design_images WHERE design_id = ?", designID); err != nil {
		return fmt.Errorf("clearing images: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM design_texts WHERE design_id = ?", designID); err != nil {
		return fmt.Errorf("clearing texts: %w", err)
	}

	for i, url := range e.Images {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO design_images (design_id, position, url) VALUES (?, ?, ?)", designID, i, url,
		); err != nil {
			return fmt.Errorf("inserting image: %w", err)
		}
	}
	for i, text := range e.Texts {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO design_texts (design_id, position, content) VALUES (?, ?, ?)", designID, i, text,
		); err != nil {
			return fmt.Errorf("inserting text: %w", err)
		}
	}
	return nil
}

// pruneDesigns deletes every design whose id is not in keep.
func pruneDesigns(ctx context.Context, tx *sql.Tx, keep map[int64]bool) (int, error) {
	rows, err := tx.QueryContext(ctx, "SELECT id FROM designs")
	if err != nil {
		return 0, fmt.Errorf("listing designs for prune: %w", err)
	}
	var stale []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return 0, fmt.Errorf("scanning design id: %w", err)
		}
		if !keep[id] {
			stale = append(stale, id)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("listing designs for prune: %w", err)
	}

	for _, id := range stale {
		if _, err := tx.ExecContext(ctx, "DELETE FROM designs WHERE id = ?", id); err != nil {
			return 0, fmt.Errorf("pruning design %d: %w", id, err)
		}
	}
	return len(stale), nil
}
