// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// service is the private implementation of [Service].
type service struct {
	// bcryptCost is the bcrypt work factor. Stored in the struct so it can
	// be raised per deployment target without touching call sites.
	bcryptCost int

	// now supplies the timestamp prefix of transaction IDs. Overridable
	// in tests to pin the prefix.
	now func() time.Time
}

// NewService constructs a [Service] with the given bcrypt work factor.
// Cost values below [bcrypt.MinCost] are replaced by bcrypt itself with its
// default; callers should pass the configured value (≥ 12).
func NewService(bcryptCost int) Service {
	return &service{
		bcryptCost: bcryptCost,
		now:        time.Now,
	}
}

// HashPassword implements [Service]. It hashes plaintext with bcrypt and
// the configured work factor. The salt is generated and embedded by bcrypt.
// Returns an error if the password exceeds bcrypt's 72-byte input limit or
// the cost is out of range.
func (s *service) HashPassword(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), s.bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword implements [Service]. It compares plaintext against a
// bcrypt hash in constant time (within bcrypt's design). Malformed hash
// input yields false, never an error or panic.
func (s *service) VerifyPassword(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}

// GenerateKey implements [Service]. It reads 32 random bytes from the OS
// CSPRNG and returns them as a fresh AES-256 key. Returns an error if the
// random read fails.
func (s *service) GenerateKey() ([]byte, error) {
	key := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return nil, err
	}
	return key, nil
}

// Encrypt implements [Service]. It encrypts plaintext with key using
// AES-256-GCM. A random 12-byte nonce is prepended to the ciphertext so
// that the decryption side can locate it: blob = nonce ‖ ciphertext. The
// blob is returned Base64 (standard encoding) so it can be stored in a
// TEXT column. Returns [ErrEncryptionFailed] wrapping the cause if cipher
// creation or the random nonce read fails.
func (s *service) Encrypt(plaintext string, key []byte) (string, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return "", fmt.Errorf("%w: create cipher: %w", ErrEncryptionFailed, err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("%w: create gcm: %w", ErrEncryptionFailed, err)
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("%w: generate nonce: %w", ErrEncryptionFailed, err)
	}

	// Prepend the nonce so Decrypt can split it out without side-channel.
	ciphertext := gcm.Seal(nil, nonce, []byte(plaintext), nil)
	blob := append(nonce, ciphertext...)

	return base64.StdEncoding.EncodeToString(blob), nil
}

// Decrypt implements [Service]. It Base64-decodes blob, splits out the
// nonce, and decrypts the ciphertext with key via AES-256-GCM. The blob
// must be at least as long as the GCM nonce (12 bytes). Returns the
// plaintext, or [ErrDecryptionFailed] if the blob is malformed, the key is
// wrong, or the ciphertext is corrupted (authentication-tag mismatch).
// Corrupted input never yields garbage plaintext.
func (s *service) Decrypt(blob string, key []byte) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(blob)
	if err != nil {
		return "", fmt.Errorf("%w: decode base64: %w", ErrDecryptionFailed, err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", fmt.Errorf("%w: create cipher: %w", ErrDecryptionFailed, err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("%w: create gcm: %w", ErrDecryptionFailed, err)
	}

	nonceSize := gcm.NonceSize()
	if len(raw) < nonceSize {
		return "", fmt.Errorf("%w: ciphertext too short", ErrDecryptionFailed)
	}

	// Split the blob into nonce and actual ciphertext.
	nonce, ciphertext := raw[:nonceSize], raw[nonceSize:]

	// Decrypt and verify auth tag. An error here almost always means the
	// wrong wallet key or a tampered row.
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrDecryptionFailed, err)
	}

	return string(plaintext), nil
}

// GenerateTransactionID implements [Service]. The ID is
// "TXN" + yyyymmddhhmmss + 16 uppercase hex characters (8 random bytes).
// The timestamp prefix makes IDs sort lexicographically close to creation
// order; the random suffix makes collisions negligible.
func (s *service) GenerateTransactionID() string {
	suffix := make([]byte, 8)
	if _, err := io.ReadFull(rand.Reader, suffix); err != nil {
		// rand.Reader failing means the OS CSPRNG is broken; fall back to
		// a nanosecond tail rather than returning a short ID.
		return fmt.Sprintf("TXN%s%016X", s.now().Format("20060102150405"), s.now().UnixNano())
	}
	return "TXN" + s.now().Format("20060102150405") + strings.ToUpper(hex.EncodeToString(suffix))
}

// GenerateSessionToken implements [Service]. It reads 32 random bytes from
// the OS CSPRNG and returns them Base64 raw-URL encoded: a 256-bit opaque
// token unrelated to any account data. Returns an error if the random read
// fails.
func (s *service) GenerateSessionToken() (string, error) {
	token := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, token); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(token), nil
}

// HashFileContent implements [Service]. It returns the SHA-256 digest of
// content as a lower-case hex string, used as the integrity fingerprint of
// stored uploads.
func (s *service) HashFileContent(content []byte) string {
	digest := sha256.Sum256(content)
	return hex.EncodeToString(digest[:])
}
