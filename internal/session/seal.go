// internal/session/seal.go
package session

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/nacl/secretbox"
)

const sealedPrefix = "sealed:"

var errUnseal = errors.New("session: stored credential cannot be opened")

// Sealer encrypts credentials at rest with a key derived from a secret.
type Sealer struct {
	key [32]byte
}

// NewSealer returns nil for an empty secret; a nil Sealer stores plaintext.
func NewSealer(secret string) *Sealer {
	if secret == "" {
		return nil
	}
	return &Sealer{key: sha256.Sum256([]byte(secret))}
}

// Seal encrypts value with a fresh nonce.
func (s *Sealer) Seal(value string) (string, error) {
	if s == nil {
		return value, nil
	}

	var nonce [24]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return "", fmt.Errorf("session: nonce: %w", err)
	}
	box := secretbox.Seal(nonce[:], []byte(value), &nonce, &s.key)
	return sealedPrefix + base64.StdEncoding.EncodeToString(box), nil
}

// Open reverses Seal. Plaintext values written before a secret was set are
// returned unchanged.
func (s *Sealer) Open(stored string) (string, error) {
	if !strings.HasPrefix(stored, sealedPrefix) {
		return stored, nil
	}
	if s == nil {
		return "", errUnseal
	}

	box, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(stored, sealedPrefix))
	if err != nil || len(box) < 24 {
		return "", errUnseal
	}
	var nonce [24]byte
	copy(nonce[:], box[:24])
	plain, ok := secretbox.Open(nil, box[24:], &nonce, &s.key)
	if !ok {
		return "", errUnseal
	}
	return string(plain), nil
}
