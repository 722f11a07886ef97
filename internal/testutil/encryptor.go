package testutil

import (
	"bytes"
	"fmt"
	"io"

	"folio-go/internal/folio"
)

var sealHeader = []byte("FOLIOENC")

// HeaderEncryptor prepends a fixed header on Encrypt and strips it on Decrypt,
// so sealed output differs from plaintext without needing key files.
type HeaderEncryptor struct{}

var _ folio.Encryptor = HeaderEncryptor{}

func NewTestEncryptor() HeaderEncryptor { return HeaderEncryptor{} }

func (HeaderEncryptor) Setup(string) error { return nil }

func (HeaderEncryptor) Encrypt(r io.Reader, w io.Writer) error {
	if _, err := w.Write(sealHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	_, err := io.Copy(w, r)
	return err
}

func (HeaderEncryptor) Unlock(string) (folio.DecryptionContext, error) {
	return HeaderEncryptor{}, nil
}

func (HeaderEncryptor) IsConfigured() bool { return true }

func (HeaderEncryptor) Decrypt(r io.Reader, w io.Writer) error {
	header := make([]byte, len(sealHeader))
	if _, err := io.ReadFull(r, header); err != nil {
		return fmt.Errorf("reading header: %w", err)
	}
	if !bytes.Equal(header, sealHeader) {
		return fmt.Errorf("invalid header %q", header)
	}
	_, err := io.Copy(w, r)
	return err
}
