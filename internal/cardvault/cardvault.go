// Package cardvault seals saved-card secrets before they are written to the
// store. Values are encrypted with XChaCha20-Poly1305 and encoded as
// base64(nonce || ciphertext).
package cardvault

import (
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
)

// ErrMalformed is returned when a sealed value cannot be decoded or fails
// authentication.
var ErrMalformed = errors.New("cardvault: malformed sealed value")

// Sealer encrypts and decrypts card secrets.
type Sealer struct {
	aead cipher.AEAD
}

// New returns a Sealer for a 32-byte key.
func New(key []byte) (*Sealer, error) {
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("cardvault: %w", err)
	}
	return &Sealer{aead: aead}, nil
}

// FromHex returns a Sealer for a hex-encoded key. An empty key derives a
// fixed development key; derived reports whether that happened.
func FromHex(hexKey string) (s *Sealer, derived bool, err error) {
	if hexKey == "" {
		sum := sha256.Sum256([]byte("dompet-development-card-key"))
		s, err = New(sum[:])
		return s, true, err
	}
	key, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, false, fmt.Errorf("cardvault: key is not hex: %w", err)
	}
	s, err = New(key)
	return s, false, err
}

// Seal encrypts plaintext. Empty input seals to an empty string.
func (s *Sealer) Seal(plaintext string) (string, error) {
	if plaintext == "" {
		return "", nil
	}
	nonce := make([]byte, s.aead.NonceSize(), s.aead.NonceSize()+len(plaintext)+s.aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("cardvault: nonce: %w", err)
	}
	sealed := s.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Open decrypts a value produced by Seal.
func (s *Sealer) Open(sealed string) (string, error) {
	if sealed == "" {
		return "", nil
	}
	raw, err := base64.StdEncoding.DecodeString(sealed)
	if err != nil || len(raw) < s.aead.NonceSize() {
		return "", ErrMalformed
	}
	nonce, ciphertext := raw[:s.aead.NonceSize()], raw[s.aead.NonceSize():]
	plain, err := s.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", ErrMalformed
	}
	return string(plain), nil
}
