package folio_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"folio-go/internal/folio"
	"folio-go/internal/snapshot"
	"folio-go/internal/testutil"
)

func TestSavedListKey(t *testing.T) {
	if got := folio.SavedListKey("a@b.com"); got != "savedDesigns_a@b.com" {
		t.Errorf("SavedListKey() = %q", got)
	}
}

func TestSavedListArchive_WriteRead(t *testing.T) {
	clock := testutil.NewClock()
	store := snapshot.NewMemoryStore()
	enc := testutil.NewTestEncryptor()
	archive := folio.NewSavedListArchive(store, enc, clock)

	added := time.Date(2024, 1, 10, 8, 0, 0, 0, time.UTC)
	saved := []*folio.SavedDesign{
		{Design: folio.Design{ID: 2, Title: "Minimalist Bedroom", Category: "Bedroom", Image: "https://img/2", Description: "Calm."}, AddedAt: added},
		{Design: folio.Design{ID: 1, Title: "Cozy Apartment", Category: "Living Room", Image: "https://img/1"}, AddedAt: added.Add(-time.Hour)},
	}

	if err := archive.Write("a@b.com", saved); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	var raw bytes.Buffer
	if err := store.GetSnapshot("savedDesigns_a@b.com", &raw); err != nil {
		t.Fatalf("GetSnapshot() error = %v", err)
	}
	if strings.HasPrefix(raw.String(), "{") {
		t.Error("stored snapshot was not passed through the encryptor")
	}

	snap, err := archive.Read("a@b.com", enc)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if snap.Email != "a@b.com" || !snap.TakenAt.Equal(clock.Now()) {
		t.Errorf("snapshot header = %q %v", snap.Email, snap.TakenAt)
	}
	if len(snap.Designs) != 2 {
		t.Fatalf("snapshot has %d designs, want 2", len(snap.Designs))
	}
	first := snap.Designs[0]
	if first.ID != 2 || first.Title != "Minimalist Bedroom" || first.Description != "Calm." || !first.AddedAt.Equal(added) {
		t.Errorf("Designs[0] = %+v", first)
	}
}

func TestSavedListArchive_EmptyList(t *testing.T) {
	store := snapshot.NewMemoryStore()
	enc := testutil.NewTestEncryptor()
	archive := folio.NewSavedListArchive(store, enc, testutil.NewClock())

	if err := archive.Write("a@b.com", nil); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	snap, err := archive.Read("a@b.com", enc)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if snap.Designs == nil || len(snap.Designs) != 0 {
		t.Errorf("Designs = %#v, want empty list", snap.Designs)
	}
}

func TestSavedListArchive_ReadMissing(t *testing.T) {
	enc := testutil.NewTestEncryptor()
	archive := folio.NewSavedListArchive(snapshot.NewMemoryStore(), enc, testutil.NewClock())

	_, err := archive.Read("nobody@b.com", enc)
	if !errors.Is(err, folio.ErrSnapshotNotFound) {
		t.Errorf("Read() error = %v, want ErrSnapshotNotFound", err)
	}
}
