package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"folio-go/internal/folio"
)

const designColumns = "id, link, title, category, image, description"

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanDesign(row scanner) (*folio.Design, error) {
	var d folio.Design
	var desc sql.NullString
	if err := row.Scan(&d.ID, &d.Link, &d.Title, &d.Category, &d.Image, &desc); err != nil {
		return nil, err
	}
	d.Description = desc.String
	return &d, nil
}

func (s *SQLiteDatabase) queryDesigns(ctx context.Context, query string, args ...any) ([]*folio.Design, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var designs []*folio.Design
	for rows.Next() {
		d, err := scanDesign(rows)
		if err != nil {
			return nil, err
		}
		designs = append(designs, d)
	}
	return designs, rows.Err()
}

func (s *SQLiteDatabase) ListDesigns(ctx context.Context) ([]*folio.Design, error) {
	designs, err := s.queryDesigns(ctx, "SELECT "+designColumns+" FROM designs ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("listing designs: %w", err)
	}
	return designs, nil
}

// FindDesignsByCategory matches category as a case-insensitive substring of
// the stored category, so "kitchen" finds "Living Room, Kitchen". Both sides
// are folded with fold_lower, which handles non-ASCII letters.
func (s *SQLiteDatabase) FindDesignsByCategory(ctx context.Context, category string) ([]*folio.Design, error) {
	pattern := "%" + escapeLike(strings.TrimSpace(category)) + "%"
	designs, err := s.queryDesigns(ctx,
		"SELECT "+designColumns+` FROM designs WHERE fold_lower(category) LIKE fold_lower(?) ESCAPE '\' ORDER BY id`,
		pattern,
	)
	if err != nil {
		return nil, fmt.Errorf("finding designs by category: %w", err)
	}
	return designs, nil
}

func (s *SQLiteDatabase) FindDesignByID(ctx context.Context, id int64) (*folio.Design, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+designColumns+" FROM designs WHERE id = ?", id)
	d, err := scanDesign(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("finding design by id: %w", err)
	}
	return d, nil
}

func (s *SQLiteDatabase) FindDetailImages(ctx context.Context, designID int64) ([]string, error) {
	images, err := s.queryStrings(ctx,
		"SELECT url FROM design_images WHERE design_id = ? ORDER BY position, id", designID)
	if err != nil {
		return nil, fmt.Errorf("finding detail images: %w", err)
	}
	return images, nil
}

func (s *SQLiteDatabase) FindDetailTexts(ctx context.Context, designID int64) ([]string, error) {
	texts, err := s.queryStrings(ctx,
		"SELECT content FROM design_texts WHERE design_id = ? ORDER BY position, id", designID)
	if err != nil {
		return nil, fmt.Errorf("finding detail texts: %w", err)
	}
	return texts, nil
}

func (s *SQLiteDatabase) CountDesigns(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM designs").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting designs: %w", err)
	}
	return n, nil
}

func (s *SQLiteDatabase) queryStrings(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// escapeLike escapes LIKE wildcards so user input matches literally.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
