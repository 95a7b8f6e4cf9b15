package crypto

import "errors"

var (
	// ErrEncryptionFailed is returned when a plaintext cannot be sealed
	// (cipher construction or nonce generation failure).
	ErrEncryptionFailed = errors.New("encryption failed")

	// ErrDecryptionFailed is returned when a ciphertext cannot be opened:
	// malformed blob, wrong key, or authentication-tag mismatch. Callers
	// must treat it as a data-integrity fault, not as empty data.
	ErrDecryptionFailed = errors.New("decryption failed")
)
