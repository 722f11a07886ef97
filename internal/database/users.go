package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"folio-go/internal/folio"
)

// RegisterUser stores a bcrypt hash of password. A duplicate email is
// reported as (false, nil).
func (s *SQLiteDatabase) RegisterUser(ctx context.Context, email, password string) (bool, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return false, fmt.Errorf("hashing password: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO users (email, password_hash, created_at) VALUES (?, ?, ?)",
		email, string(hash), s.clock.Now(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return false, nil
		}
		return false, fmt.Errorf("inserting user: %w", err)
	}
	return true, nil
}

// AuthenticateUser returns nil when the email is unknown or the password
// does not match the stored hash.
func (s *SQLiteDatabase) AuthenticateUser(ctx context.Context, email, password string) (*folio.User, error) {
	var u folio.User
	var hash string
	err := s.db.QueryRowContext(ctx,
		"SELECT id, email, password_hash, created_at FROM users WHERE email = ?", email,
	).Scan(&u.ID, &u.Email, &hash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("finding user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, nil
		}
		return nil, fmt.Errorf("comparing password: %w", err)
	}
	return &u, nil
}

// findUserID returns 0 when no user has the given email.
func (s *SQLiteDatabase) findUserID(ctx context.Context, email string) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, "SELECT id FROM users WHERE email = ?", email).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("finding user: %w", err)
	}
	return id, nil
}
