package snapshot

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"

	"folio-go/internal/folio"
)

// FileSystemStore keeps one file per snapshot key under root. Keys are
// path-escaped, so an email address never produces a nested path.
type FileSystemStore struct {
	root string
}

var _ folio.SnapshotStore = (*FileSystemStore)(nil)

// NewFileSystemStore creates the root directory if needed.
func NewFileSystemStore(root string) (*FileSystemStore, error) {
	if err := os.MkdirAll(root, 0700); err != nil {
		return nil, fmt.Errorf("failed to create snapshot directory: %w", err)
	}
	return &FileSystemStore{root: root}, nil
}

func (s *FileSystemStore) path(key string) string {
	return filepath.Join(s.root, url.PathEscape(key)+".snap")
}

// PutSnapshot replaces the snapshot atomically: data is written to a temp
// file in root and renamed over the previous one.
func (s *FileSystemStore) PutSnapshot(key string, r io.Reader, size int64) error {
	if key == "" {
		return fmt.Errorf("snapshot key must not be empty")
	}

	tmp, err := os.CreateTemp(s.root, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	written, err := io.Copy(tmp, r)
	if err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if written != size {
		return fmt.Errorf("size mismatch: expected %d bytes, got %d", size, written)
	}

	if err := os.Rename(tmpPath, s.path(key)); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	success = true
	return nil
}

func (s *FileSystemStore) GetSnapshot(key string, w io.Writer) error {
	f, err := os.Open(s.path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", folio.ErrSnapshotNotFound, key)
		}
		return fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("failed to read snapshot: %w", err)
	}
	return nil
}

// ValidateSetup verifies that root is a writable directory.
func (s *FileSystemStore) ValidateSetup() error {
	info, err := os.Stat(s.root)
	if err != nil {
		return fmt.Errorf("snapshot root not accessible: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("snapshot root is not a directory: %s", s.root)
	}

	probe, err := os.CreateTemp(s.root, ".probe-*")
	if err != nil {
		return fmt.Errorf("snapshot root not writable: %w", err)
	}
	probe.Close()
	return os.Remove(probe.Name())
}
