package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"

	"folio-go/internal/folio"
)

// SaveDesign records designID on the user's saved list. The (user, design)
// pair is unique, so saving twice keeps the first entry and its timestamp.
func (s *SQLiteDatabase) SaveDesign(ctx context.Context, email string, designID int64) error {
	userID, err := s.findUserID(ctx, email)
	if err != nil {
		return err
	}
	if userID == 0 {
		return fmt.Errorf("%w: %s", folio.ErrUnknownUser, email)
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO saved_designs (user_id, design_id, added_at) VALUES (?, ?, ?)",
		userID, designID, s.clock.Now(),
	)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintForeignKey {
			return fmt.Errorf("%w: %d", folio.ErrUnknownDesign, designID)
		}
		return fmt.Errorf("saving design: %w", err)
	}
	return nil
}

func (s *SQLiteDatabase) RemoveSavedDesign(ctx context.Context, email string, designID int64) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM saved_designs
		 WHERE design_id = ? AND user_id = (SELECT id FROM users WHERE email = ?)`,
		designID, email,
	)
	if err != nil {
		return fmt.Errorf("removing saved design: %w", err)
	}
	return nil
}

func (s *SQLiteDatabase) ListSavedDesigns(ctx context.Context, email string) ([]*folio.SavedDesign, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT d.id, d.link, d.title, d.category, d.image, d.description, sd.added_at
		 FROM saved_designs sd
		 JOIN designs d ON d.id = sd.design_id
		 JOIN users u ON u.id = sd.user_id
		 WHERE u.email = ?
		 ORDER BY sd.added_at DESC, sd.id DESC`,
		email,
	)
	if err != nil {
		return nil, fmt.Errorf("listing saved designs: %w", err)
	}
	defer rows.Close()

	var saved []*folio.SavedDesign
	for rows.Next() {
		var sd folio.SavedDesign
		var desc sql.NullString
		if err := rows.Scan(&sd.ID, &sd.Link, &sd.Title, &sd.Category, &sd.Image, &desc, &sd.AddedAt); err != nil {
			return nil, fmt.Errorf("scanning saved design: %w", err)
		}
		sd.Description = desc.String
		saved = append(saved, &sd)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing saved designs: %w", err)
	}
	return saved, nil
}
