package folio

import (
	"context"
	"fmt"
)

// SeedMode controls how the bundled catalog is applied at startup.
type SeedMode string

const (
	// SeedIfEmpty imports the catalog only when no designs exist yet.
	SeedIfEmpty SeedMode = "if_empty"
	// SeedSync upserts every entry by link on each run. Design ids, users and
	// saved designs are preserved.
	SeedSync SeedMode = "sync"
	// SeedOff never touches the catalog.
	SeedOff SeedMode = "off"
)

// ParseSeedMode converts a config value into a SeedMode. Empty means SeedIfEmpty.
func ParseSeedMode(s string) (SeedMode, error) {
	switch SeedMode(s) {
	case "", SeedIfEmpty:
		return SeedIfEmpty, nil
	case SeedSync, SeedOff:
		return SeedMode(s), nil
	default:
		return "", fmt.Errorf("unknown seed mode: %q", s)
	}
}

// SeedCatalog applies entries to the database according to mode. It returns
// a nil result when nothing was imported.
func SeedCatalog(ctx context.Context, db Database, entries []*CatalogEntry, mode SeedMode, prune bool, logger Logger) (*ImportResult, error) {
	switch mode {
	case SeedOff:
		logger.Debug("catalog seeding disabled")
		return nil, nil
	case SeedIfEmpty:
		count, err := db.CountDesigns(ctx)
		if err != nil {
			return nil, fmt.Errorf("counting designs: %w", err)
		}
		if count > 0 {
			logger.Debug("catalog already seeded", "designs", count)
			return nil, nil
		}
		prune = false
	case SeedSync:
	default:
		return nil, fmt.Errorf("unknown seed mode: %q", mode)
	}

	result, err := db.ImportCatalog(ctx, entries, prune)
	if err != nil {
		return nil, fmt.Errorf("importing catalog: %w", err)
	}

	logger.Info("catalog seeded",
		"mode", string(mode),
		"inserted", result.Inserted,
		"updated", result.Updated,
		"pruned", result.Pruned,
	)
	return result, nil
}
