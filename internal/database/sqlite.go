package database

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/mattn/go-sqlite3"
	"golang.org/x/crypto/bcrypt"

	"folio-go/internal/database/migrations"
	"folio-go/internal/folio"
)

// driverName is go-sqlite3 with folio's SQL functions registered on every
// connection.
const driverName = "sqlite3_folio"

func init() {
	sql.Register(driverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			// SQLite's LOWER folds ASCII only; fold_lower matches strings.ToLower.
			return conn.RegisterFunc("fold_lower", strings.ToLower, true)
		},
	})
}

// SQLiteDatabase implements folio.Database on a single SQLite connection.
type SQLiteDatabase struct {
	db       *sql.DB
	path     string
	clock    folio.Clock
	hashCost int
}

// NewSQLiteDatabase opens the database at path.
// path can be a file path or ":memory:" for an in-memory database.
// A nil clock uses folio.RealClock.
func NewSQLiteDatabase(path string, clock folio.Clock) (*SQLiteDatabase, error) {
	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}

	s := NewSQLiteDatabaseFromDB(db, clock)
	s.path = path
	return s, nil
}

// NewSQLiteDatabaseFromDB wraps an existing connection.
// The caller is responsible for ensuring the connection is properly configured.
func NewSQLiteDatabaseFromDB(db *sql.DB, clock folio.Clock) *SQLiteDatabase {
	if clock == nil {
		clock = folio.RealClock{}
	}
	return &SQLiteDatabase{
		db:       db,
		clock:    clock,
		hashCost: bcrypt.DefaultCost,
	}
}

// OpenConnection opens and configures a SQLite connection.
// The pool is limited to one connection: SQLite allows a single writer, and
// an in-memory database only exists on the connection that created it.
func OpenConnection(path string) (*sql.DB, error) {
	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	// SQLite defaults foreign keys to OFF; cascades depend on them.
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	return db, nil
}

// SetPasswordCost overrides the bcrypt cost used for new accounts.
func (s *SQLiteDatabase) SetPasswordCost(cost int) {
	s.hashCost = cost
}

// Path returns the database file path (or ":memory:" for in-memory databases).
func (s *SQLiteDatabase) Path() string {
	return s.path
}

// Migrate applies any pending schema migrations.
func (s *SQLiteDatabase) Migrate() error {
	return migrations.MigrateUp(s.db)
}

// CheckMigrations verifies the database schema is up-to-date.
func (s *SQLiteDatabase) CheckMigrations() error {
	return migrations.CheckDBMigrationStatus(s.db)
}

// MigrationStatus reports the current and latest schema versions.
func (s *SQLiteDatabase) MigrationStatus() (migrations.Status, error) {
	return migrations.GetStatus(s.db)
}

// BackupTo creates a complete copy of the database at destPath using VACUUM INTO.
func (s *SQLiteDatabase) BackupTo(destPath string) error {
	if _, err := s.db.Exec("VACUUM INTO ?", destPath); err != nil {
		return fmt.Errorf("backing up database: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteDatabase) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// isUniqueViolation reports whether err is a SQLite UNIQUE constraint failure.
func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}

// Compile-time check that SQLiteDatabase implements folio.Database
var _ folio.Database = (*SQLiteDatabase)(nil)
