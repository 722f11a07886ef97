package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"folio-go/internal/config"
	"folio-go/internal/database"
	"folio-go/internal/encryption"
	"folio-go/internal/folio"
	"folio-go/internal/seed"
	"folio-go/internal/snapshot"
)

// FolioApp is the application layer between the CLI and the folio Session.
// It constructs all dependencies from config, migrates and seeds the store,
// and manages the DB lifecycle on Close.
type FolioApp struct {
	cfg       *config.Config
	db        *database.SQLiteDatabase
	store     folio.SnapshotStore
	encryptor folio.Encryptor
	archive   *folio.SavedListArchive
	session   *folio.Session
	op        *Operation
	logger    *slog.Logger
	logFile   *os.File
}

// NewFolioApp creates a fully wired FolioApp from the given config.
// operation identifies the CLI command being run (e.g. "DesignsList", "SavedAdd").
// Migration failures are fatal; a failed seed is logged and the app starts
// with whatever catalog is already stored. The caller must call Close when done.
func NewFolioApp(ctx context.Context, cfg *config.Config, operation, parameters string) (*FolioApp, error) {
	level, err := ParseLogLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	logger, logFile, err := newLogger(cfg.LogDir, uuid.NewString(), level)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	db, err := database.NewDatabaseFromConfig(cfg.Database, cfg.InstanceID, folio.RealClock{})
	if err != nil {
		logFile.Close()
		return nil, fmt.Errorf("creating database: %w", err)
	}

	if err := db.Migrate(); err != nil {
		db.Close()
		logFile.Close()
		return nil, fmt.Errorf("migrating database: %w", err)
	}

	a := &FolioApp{
		cfg:     cfg,
		db:      db,
		op:      NewOperation(operation, parameters, folio.RealClock{}.Now()),
		logger:  logger,
		logFile: logFile,
	}

	if err := a.openArchive(ctx); err != nil {
		a.Close()
		return nil, err
	}

	a.session = folio.NewSession(db, a.archive, &slogAdapter{l: logger})
	logger.Debug("operation started", "operation", operation, "parameters", parameters)

	mode, err := folio.ParseSeedMode(cfg.Seed.Mode)
	if err != nil {
		logger.Warn("invalid seed mode, skipping seed", "mode", cfg.Seed.Mode, "error", err)
		return a, nil
	}
	if _, _, err := a.SeedCatalog(ctx, mode, cfg.Seed.Prune); err != nil {
		logger.Error("catalog seed failed", "error", err)
	}

	return a, nil
}

// openArchive wires the snapshot store and encryptor. Snapshots are disabled,
// with a warning, when the store type is "none" or encryption keys are missing.
func (a *FolioApp) openArchive(ctx context.Context) error {
	store, err := snapshot.NewStoreFromConfig(ctx, a.cfg.Snapshots)
	if err != nil {
		return fmt.Errorf("creating snapshot store: %w", err)
	}
	enc, err := encryption.NewEncryptorFromConfig(a.cfg.Encryption)
	if err != nil {
		return fmt.Errorf("creating encryptor: %w", err)
	}
	a.store = store
	a.encryptor = enc

	if store == nil {
		a.logger.Debug("saved list snapshots disabled")
		return nil
	}
	if !enc.IsConfigured() {
		a.logger.Warn("saved list snapshots disabled: encryption keys not set up", "public_key", a.cfg.Encryption.PublicKeyPath)
		return nil
	}
	a.archive = folio.NewSavedListArchive(store, enc, folio.RealClock{})
	return nil
}

// OpenDatabase opens the configured database without migrating or seeding it.
// Used by the db maintenance commands.
func OpenDatabase(cfg *config.Config) (*database.SQLiteDatabase, error) {
	return database.NewDatabaseFromConfig(cfg.Database, cfg.InstanceID, folio.RealClock{})
}

// Session returns the application state backing this app.
func (a *FolioApp) Session() *folio.Session {
	return a.session
}

// SeedCatalog loads the configured catalog documents and applies them in mode.
// The result is nil when the mode skipped the import.
func (a *FolioApp) SeedCatalog(ctx context.Context, mode folio.SeedMode, prune bool) (*folio.ImportResult, *seed.Stats, error) {
	if mode == folio.SeedOff {
		return nil, nil, nil
	}

	entries, stats, err := seed.FromConfig(a.cfg.Seed)
	if err != nil {
		return nil, nil, fmt.Errorf("loading catalog: %w", err)
	}
	if stats.Skipped > 0 || stats.Duplicates > 0 {
		a.logger.Warn("catalog entries dropped", "skipped", stats.Skipped, "duplicates", stats.Duplicates)
	}

	result, err := folio.SeedCatalog(ctx, a.db, entries, mode, prune, &slogAdapter{l: a.logger})
	if err != nil {
		return nil, stats, err
	}
	return result, stats, nil
}

// ListDesigns loads all designs, or those matching category when it is non-empty.
func (a *FolioApp) ListDesigns(ctx context.Context, category string) ([]*folio.Design, error) {
	var err error
	if category == "" {
		err = a.session.FetchDesigns(ctx)
	} else {
		err = a.session.FetchDesignsByCategory(ctx, category)
	}
	if err != nil {
		return nil, err
	}
	return a.session.Designs(), nil
}

// Categories returns the distinct categories of the whole catalog.
func (a *FolioApp) Categories(ctx context.Context) ([]string, error) {
	if err := a.session.FetchDesigns(ctx); err != nil {
		return nil, err
	}
	return a.session.Categories(), nil
}

// ShowDesign returns a design with its gallery, or nil when id is unknown.
func (a *FolioApp) ShowDesign(ctx context.Context, id int64) (*folio.DesignDetail, error) {
	if err := a.session.FetchDesignByID(ctx, id); err != nil {
		return nil, err
	}
	return a.session.SelectedDesign(), nil
}

// Register creates an account. It returns false for an already registered email.
func (a *FolioApp) Register(ctx context.Context, email, password, confirm string) (bool, error) {
	return a.session.Register(ctx, email, password, confirm)
}

// Login makes email the session user when the password matches.
func (a *FolioApp) Login(ctx context.Context, email, password string) (bool, error) {
	return a.session.Login(ctx, email, password)
}

// SavedDesigns returns the logged-in user's saved list, most recent first.
func (a *FolioApp) SavedDesigns() ([]*folio.SavedDesign, error) {
	if a.session.User() == "" {
		return nil, folio.ErrNotLoggedIn
	}
	return a.session.SavedDesigns(), nil
}

// AddSavedDesign saves id for the logged-in user.
func (a *FolioApp) AddSavedDesign(ctx context.Context, id int64) error {
	return a.session.AddSavedDesign(ctx, id)
}

// RemoveSavedDesign removes id from the logged-in user's saved list.
func (a *FolioApp) RemoveSavedDesign(ctx context.Context, id int64) error {
	return a.session.RemoveSavedDesign(ctx, id)
}

// SetupEncryption generates the snapshot key pair protected by passphrase.
func (a *FolioApp) SetupEncryption(passphrase string) error {
	if err := a.encryptor.Setup(passphrase); err != nil {
		return err
	}
	if a.archive == nil && a.store != nil {
		a.archive = folio.NewSavedListArchive(a.store, a.encryptor, folio.RealClock{})
		a.session.SetArchive(a.archive)
	}
	return nil
}

// SnapshotsEncrypted reports whether reading a snapshot needs a passphrase.
func (a *FolioApp) SnapshotsEncrypted() bool {
	return a.cfg.Encryption.Type != "none"
}

// ReadSnapshot decrypts the saved-list snapshot written for email on logout.
func (a *FolioApp) ReadSnapshot(email, passphrase string) (*folio.SavedListSnapshot, error) {
	if a.store == nil {
		return nil, errors.New("saved list snapshots are disabled")
	}
	dc, err := a.encryptor.Unlock(passphrase)
	if err != nil {
		return nil, fmt.Errorf("unlocking snapshot key: %w", err)
	}
	archive := folio.NewSavedListArchive(a.store, a.encryptor, folio.RealClock{})
	return archive.Read(folio.NormalizeEmail(email), dc)
}

// Fail records err as the outcome of the current operation.
func (a *FolioApp) Fail(err error) {
	a.op.Fail(err)
}

// Close logs the session out (writing its snapshot), records the operation
// outcome and closes all resources.
func (a *FolioApp) Close() error {
	var firstErr error

	if a.session != nil && a.session.User() != "" {
		if err := a.session.Logout(context.Background()); err != nil {
			firstErr = err
		}
	}

	if a.op.Failed() {
		a.logger.Error("operation failed", "operation", a.op.Name, "parameters", a.op.Parameters, "error", a.op.Err)
	} else {
		a.logger.Debug("operation finished", "operation", a.op.Name)
	}

	if err := a.db.Close(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("closing database: %w", err)
	}

	if a.logFile != nil {
		a.logFile.Close()
	}
	return firstErr
}
