package folio

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"
)

// SavedListKeyPrefix prefixes the snapshot key of every user's saved list.
const SavedListKeyPrefix = "savedDesigns_"

// ErrSnapshotNotFound is returned by SnapshotStore.GetSnapshot for unknown keys.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// SnapshotStore is a key-value store for exported snapshots.
type SnapshotStore interface {
	// PutSnapshot stores the data read from r under key, replacing any
	// previous value. size is the number of bytes that will be read from r.
	PutSnapshot(key string, r io.Reader, size int64) error

	// GetSnapshot writes the data stored under key to w.
	// Returns ErrSnapshotNotFound when nothing is stored under key.
	GetSnapshot(key string, w io.Writer) error

	// ValidateSetup verifies that the store is accessible.
	ValidateSetup() error
}

// SavedListKey returns the snapshot key for a user's saved list.
func SavedListKey(email string) string {
	return SavedListKeyPrefix + email
}

// SavedListSnapshot is the exported form of a user's saved list.
type SavedListSnapshot struct {
	Email   string                  `json:"email"`
	TakenAt time.Time               `json:"taken_at"`
	Designs []SavedListSnapshotItem `json:"designs"`
}

// SavedListSnapshotItem is one design in a SavedListSnapshot.
type SavedListSnapshotItem struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Category    string    `json:"category"`
	Image       string    `json:"image"`
	Description string    `json:"description,omitempty"`
	AddedAt     time.Time `json:"added_at"`
}

// SavedListArchive writes encrypted saved-list snapshots to a SnapshotStore.
type SavedListArchive struct {
	store     SnapshotStore
	encryptor Encryptor
	clock     Clock
}

// NewSavedListArchive creates an archive backed by store and encryptor.
func NewSavedListArchive(store SnapshotStore, encryptor Encryptor, clock Clock) *SavedListArchive {
	return &SavedListArchive{store: store, encryptor: encryptor, clock: clock}
}

// Write snapshots the saved list of email.
func (a *SavedListArchive) Write(email string, saved []*SavedDesign) error {
	snap := SavedListSnapshot{
		Email:   email,
		TakenAt: a.clock.Now(),
		Designs: make([]SavedListSnapshotItem, 0, len(saved)),
	}
	for _, s := range saved {
		snap.Designs = append(snap.Designs, SavedListSnapshotItem{
			ID:          s.ID,
			Title:       s.Title,
			Category:    s.Category,
			Image:       s.Image,
			Description: s.Description,
			AddedAt:     s.AddedAt,
		})
	}

	plain, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encoding saved list: %w", err)
	}

	var sealed bytes.Buffer
	if err := a.encryptor.Encrypt(bytes.NewReader(plain), &sealed); err != nil {
		return fmt.Errorf("encrypting saved list: %w", err)
	}

	if err := a.store.PutSnapshot(SavedListKey(email), &sealed, int64(sealed.Len())); err != nil {
		return fmt.Errorf("storing saved list: %w", err)
	}
	return nil
}

// Read loads and decrypts the saved-list snapshot of email.
func (a *SavedListArchive) Read(email string, dc DecryptionContext) (*SavedListSnapshot, error) {
	var sealed bytes.Buffer
	if err := a.store.GetSnapshot(SavedListKey(email), &sealed); err != nil {
		return nil, err
	}

	var plain bytes.Buffer
	if err := dc.Decrypt(&sealed, &plain); err != nil {
		return nil, fmt.Errorf("decrypting saved list: %w", err)
	}

	var snap SavedListSnapshot
	if err := json.Unmarshal(plain.Bytes(), &snap); err != nil {
		return nil, fmt.Errorf("decoding saved list: %w", err)
	}
	return &snap, nil
}
