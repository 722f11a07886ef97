package encryption

import (
	"fmt"
	"io"

	"folio-go/internal/folio"
)

// PlainEncryptor stores snapshots as readable JSON. Used with encryption type "none".
type PlainEncryptor struct{}

var _ folio.Encryptor = PlainEncryptor{}

func (PlainEncryptor) Setup(string) error { return nil }

func (PlainEncryptor) Encrypt(r io.Reader, w io.Writer) error {
	if _, err := io.Copy(w, r); err != nil {
		return fmt.Errorf("copying snapshot: %w", err)
	}
	return nil
}

func (PlainEncryptor) Unlock(string) (folio.DecryptionContext, error) {
	return PlainEncryptor{}, nil
}

func (PlainEncryptor) IsConfigured() bool { return true }

func (PlainEncryptor) Decrypt(r io.Reader, w io.Writer) error {
	if _, err := io.Copy(w, r); err != nil {
		return fmt.Errorf("copying snapshot: %w", err)
	}
	return nil
}
