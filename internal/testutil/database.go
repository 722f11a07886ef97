package testutil

import (
	"testing"

	"golang.org/x/crypto/bcrypt"

	"folio-go/internal/database"
	"folio-go/internal/database/migrations"
	"folio-go/internal/folio"
)

// NewTestDatabase creates a new in-memory SQLite database with migrations applied.
// Passwords are hashed at the minimum bcrypt cost to keep tests fast.
// The database is automatically closed when the test completes.
func NewTestDatabase(t *testing.T, clock folio.Clock) *database.SQLiteDatabase {
	t.Helper()

	sqlDB, err := database.OpenConnection(":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}

	if err := migrations.MigrateUp(sqlDB); err != nil {
		sqlDB.Close()
		t.Fatalf("failed to apply migrations: %v", err)
	}

	db := database.NewSQLiteDatabaseFromDB(sqlDB, clock)
	db.SetPasswordCost(bcrypt.MinCost)

	t.Cleanup(func() {
		db.Close()
	})

	return db
}
