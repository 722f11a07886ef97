package encryption

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"filippo.io/age"
	"filippo.io/age/armor"

	"folio-go/internal/config"
	"folio-go/internal/folio"
)

// ErrKeysExist is returned by Setup when a key pair is already on disk.
var ErrKeysExist = errors.New("snapshot keys already exist")

// AgeEncryptor seals snapshots for an X25519 recipient and writes them
// ASCII-armored. The private key is kept on disk wrapped with a passphrase.
type AgeEncryptor struct {
	publicKeyPath  string
	privateKeyPath string
}

var _ folio.Encryptor = (*AgeEncryptor)(nil)

// NewAgeEncryptor creates an AgeEncryptor for the key paths in cfg.
func NewAgeEncryptor(cfg config.EncryptionConfig) *AgeEncryptor {
	return &AgeEncryptor{
		publicKeyPath:  cfg.PublicKeyPath,
		privateKeyPath: cfg.PrivateKeyPath,
	}
}

// Setup generates the key pair. It refuses to replace existing keys, since
// snapshots sealed for the old recipient would become unreadable.
func (e *AgeEncryptor) Setup(passphrase string) error {
	if e.IsConfigured() {
		return ErrKeysExist
	}
	if passphrase == "" {
		return fmt.Errorf("passphrase must not be empty")
	}

	identity, err := age.GenerateX25519Identity()
	if err != nil {
		return fmt.Errorf("generating key pair: %w", err)
	}

	for _, p := range []string{e.publicKeyPath, e.privateKeyPath} {
		if err := os.MkdirAll(filepath.Dir(p), 0700); err != nil {
			return fmt.Errorf("creating key directory: %w", err)
		}
	}

	wrap, err := age.NewScryptRecipient(passphrase)
	if err != nil {
		return fmt.Errorf("creating passphrase recipient: %w", err)
	}

	var wrapped bytes.Buffer
	if err := seal(&wrapped, wrap, []byte(identity.String()+"\n")); err != nil {
		return fmt.Errorf("wrapping private key: %w", err)
	}

	if err := os.WriteFile(e.privateKeyPath, wrapped.Bytes(), 0600); err != nil {
		return fmt.Errorf("writing private key: %w", err)
	}
	if err := os.WriteFile(e.publicKeyPath, []byte(identity.Recipient().String()+"\n"), 0644); err != nil {
		return fmt.Errorf("writing public key: %w", err)
	}
	return nil
}

// Encrypt seals everything read from r for the stored public key.
func (e *AgeEncryptor) Encrypt(r io.Reader, w io.Writer) error {
	pub, err := os.ReadFile(e.publicKeyPath)
	if err != nil {
		return fmt.Errorf("reading public key: %w", err)
	}
	recipients, err := age.ParseRecipients(bytes.NewReader(pub))
	if err != nil {
		return fmt.Errorf("parsing public key: %w", err)
	}
	if len(recipients) == 0 {
		return fmt.Errorf("no recipient in %s", e.publicKeyPath)
	}

	plain, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("reading plaintext: %w", err)
	}
	return seal(w, recipients[0], plain)
}

// Unlock unwraps the private key with passphrase.
func (e *AgeEncryptor) Unlock(passphrase string) (folio.DecryptionContext, error) {
	wrapped, err := os.ReadFile(e.privateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("reading private key: %w", err)
	}

	unwrap, err := age.NewScryptIdentity(passphrase)
	if err != nil {
		return nil, fmt.Errorf("creating passphrase identity: %w", err)
	}

	var keyData bytes.Buffer
	if err := open(&keyData, bytes.NewReader(wrapped), unwrap); err != nil {
		return nil, fmt.Errorf("unwrapping private key: %w", err)
	}

	identities, err := age.ParseIdentities(&keyData)
	if err != nil {
		return nil, fmt.Errorf("parsing private key: %w", err)
	}
	if len(identities) == 0 {
		return nil, fmt.Errorf("no identity in %s", e.privateKeyPath)
	}
	return &AgeDecryptionContext{identity: identities[0]}, nil
}

// IsConfigured reports whether both key files exist.
func (e *AgeEncryptor) IsConfigured() bool {
	for _, p := range []string{e.publicKeyPath, e.privateKeyPath} {
		if _, err := os.Stat(p); err != nil {
			return false
		}
	}
	return true
}

// AgeDecryptionContext opens snapshots with an unlocked identity.
type AgeDecryptionContext struct {
	identity age.Identity
}

var _ folio.DecryptionContext = (*AgeDecryptionContext)(nil)

func (c *AgeDecryptionContext) Decrypt(r io.Reader, w io.Writer) error {
	return open(w, r, c.identity)
}

// seal writes plain as an armored age file for recipient.
func seal(w io.Writer, recipient age.Recipient, plain []byte) error {
	aw := armor.NewWriter(w)
	ew, err := age.Encrypt(aw, recipient)
	if err != nil {
		return fmt.Errorf("creating encrypted writer: %w", err)
	}
	if _, err := ew.Write(plain); err != nil {
		return fmt.Errorf("encrypting: %w", err)
	}
	if err := ew.Close(); err != nil {
		return fmt.Errorf("finalizing encryption: %w", err)
	}
	if err := aw.Close(); err != nil {
		return fmt.Errorf("finalizing armor: %w", err)
	}
	return nil
}

// open reads an armored age file from r and writes the plaintext to w.
func open(w io.Writer, r io.Reader, identity age.Identity) error {
	dr, err := age.Decrypt(armor.NewReader(r), identity)
	if err != nil {
		return fmt.Errorf("creating decrypted reader: %w", err)
	}
	if _, err := io.Copy(w, dr); err != nil {
		return fmt.Errorf("decrypting: %w", err)
	}
	return nil
}
