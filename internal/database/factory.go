package database

import (
	"fmt"
	"os"
	"path/filepath"

	"folio-go/internal/config"
	"folio-go/internal/folio"
)

// NewDatabaseFromConfig opens the catalog database described by cfg.
// SQLite files are named after the instance id inside DataDir.
func NewDatabaseFromConfig(cfg config.DatabaseConfig, instanceID string, clock folio.Clock) (*SQLiteDatabase, error) {
	switch cfg.Type {
	case "sqlite":
		if cfg.DataDir == "" {
			return nil, fmt.Errorf("data_dir required for sqlite database")
		}
		if instanceID == "" {
			return nil, fmt.Errorf("instance_id required for sqlite database")
		}
		if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
		return NewSQLiteDatabase(filepath.Join(cfg.DataDir, instanceID+".db"), clock)
	case "memory":
		return NewSQLiteDatabase(":memory:", clock)
	default:
		return nil, fmt.Errorf("unknown database type: %s", cfg.Type)
	}
}
