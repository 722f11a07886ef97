package folio

import (
	"context"
	"errors"
)

var (
	// ErrUnknownUser is returned when an operation names an unregistered email.
	ErrUnknownUser = errors.New("unknown user")
	// ErrUnknownDesign is returned when an operation names a design id that does not exist.
	ErrUnknownDesign = errors.New("unknown design")
)

// Database provides the persistence operations the session layer needs.
// Lookups that find nothing return nil (or an empty slice) and a nil error.
type Database interface {
	// Catalog queries

	// ListDesigns returns every design in insertion order.
	ListDesigns(ctx context.Context) ([]*Design, error)

	// FindDesignsByCategory returns designs whose category contains the given
	// text, case-insensitively. Multi-category entries match any of their parts.
	FindDesignsByCategory(ctx context.Context, category string) ([]*Design, error)

	// FindDesignByID returns nil when no design has the given id.
	FindDesignByID(ctx context.Context, id int64) (*Design, error)

	// FindDetailImages returns the gallery image URLs of a design in insertion order.
	FindDetailImages(ctx context.Context, designID int64) ([]string, error)

	// FindDetailTexts returns the text blocks of a design in insertion order.
	FindDetailTexts(ctx context.Context, designID int64) ([]string, error)

	// CountDesigns returns the number of designs in the catalog.
	CountDesigns(ctx context.Context) (int64, error)

	// ImportCatalog upserts entries keyed by link in a single transaction.
	// When prune is true, designs whose link is not among entries are deleted.
	ImportCatalog(ctx context.Context, entries []*CatalogEntry, prune bool) (*ImportResult, error)

	// Accounts

	// RegisterUser creates an account. It returns false with a nil error when
	// the email is already registered.
	RegisterUser(ctx context.Context, email, password string) (bool, error)

	// AuthenticateUser returns the user whose email and password match, or nil.
	AuthenticateUser(ctx context.Context, email, password string) (*User, error)

	// Saved designs

	// SaveDesign adds a design to the user's saved list. Saving twice is a no-op.
	SaveDesign(ctx context.Context, email string, designID int64) error

	// RemoveSavedDesign removes a design from the user's saved list. Removing an
	// unsaved design is a no-op.
	RemoveSavedDesign(ctx context.Context, email string, designID int64) error

	// ListSavedDesigns returns the user's saved designs, most recently added first.
	ListSavedDesigns(ctx context.Context, email string) ([]*SavedDesign, error)

	// Close closes the database connection.
	Close() error
}
