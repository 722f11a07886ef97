package snapshot

import (
	"context"
	"fmt"

	"folio-go/internal/config"
	"folio-go/internal/folio"
)

// NewStoreFromConfig creates the snapshot store named by cfg.Type.
// Type "none" disables snapshots and returns a nil store.
func NewStoreFromConfig(ctx context.Context, cfg config.SnapshotConfig) (folio.SnapshotStore, error) {
	switch cfg.Type {
	case "none":
		return nil, nil
	case "memory":
		return NewMemoryStore(), nil
	case "filesystem":
		if cfg.SnapshotRoot == "" {
			return nil, fmt.Errorf("filesystem snapshots require snapshot_root to be set")
		}
		s, err := NewFileSystemStore(cfg.SnapshotRoot)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "s3":
		s, err := NewS3Store(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown snapshot type: %s", cfg.Type)
	}
}
