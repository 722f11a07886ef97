package database

import (
	"os"
	"path/filepath"
	"testing"

	"folio-go/internal/config"
)

func TestNewDatabaseFromConfig(t *testing.T) {
	t.Run("memory database", func(t *testing.T) {
		got, err := NewDatabaseFromConfig(config.DatabaseConfig{Type: "memory"}, "instance-123", nil)
		if err != nil {
			t.Fatalf("NewDatabaseFromConfig() unexpected error: %v", err)
		}
		defer got.Close()

		if got.Path() != ":memory:" {
			t.Errorf("Path() = %q, want :memory:", got.Path())
		}
	})

	t.Run("sqlite database", func(t *testing.T) {
		dataDir := filepath.Join(t.TempDir(), "db")
		cfg := config.DatabaseConfig{Type: "sqlite", DataDir: dataDir}
		got, err := NewDatabaseFromConfig(cfg, "instance-123", nil)
		if err != nil {
			t.Fatalf("NewDatabaseFromConfig() unexpected error: %v", err)
		}
		defer got.Close()

		want := filepath.Join(dataDir, "instance-123.db")
		if got.Path() != want {
			t.Errorf("Path() = %q, want %q", got.Path(), want)
		}
		if err := got.Migrate(); err != nil {
			t.Fatalf("Migrate() error = %v", err)
		}
		if _, err := os.Stat(want); err != nil {
			t.Errorf("database file not created: %v", err)
		}
	})

	errorCases := []struct {
		name       string
		cfg        config.DatabaseConfig
		instanceID string
	}{
		{"sqlite database without data_dir", config.DatabaseConfig{Type: "sqlite"}, "instance-123"},
		{"sqlite database without instance id", config.DatabaseConfig{Type: "sqlite", DataDir: "/tmp"}, ""},
		{"unknown database type", config.DatabaseConfig{Type: "postgres"}, "instance-123"},
	}
	for _, tt := range errorCases {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewDatabaseFromConfig(tt.cfg, tt.instanceID, nil)
			if err == nil {
				t.Error("NewDatabaseFromConfig() expected error, got nil")
			}
			if got != nil {
				t.Error("NewDatabaseFromConfig() should return nil on error")
				got.Close()
			}
		})
	}
}
