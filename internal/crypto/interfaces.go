package crypto

// Service owns all cryptographic primitives of the vault core. It knows
// nothing about the database, sessions, or users; its only job is hashing,
// symmetric encryption, and secure random generation.
//
// Per-wallet scheme:
//
//	key       = GenerateKey()                  (once, at wallet creation)
//	blob      = Encrypt(balance, key)          (each balance write)
//	balance   = Decrypt(blob, key)             (each balance read)
type Service interface {
	// HashPassword hashes a plaintext password with bcrypt at the
	// configured work factor. The result embeds the salt.
	HashPassword(plaintext string) (string, error)

	// VerifyPassword reports whether plaintext matches the given bcrypt
	// hash. Malformed hashes return false, never an error.
	VerifyPassword(plaintext, hash string) bool

	// GenerateKey generates a random 256-bit symmetric key for one
	// wallet's encryption domain.
	GenerateKey() ([]byte, error)

	// Encrypt encrypts plaintext with key using AES-GCM and returns a
	// base64 blob (nonce ‖ ciphertext) safe to store in a TEXT column.
	Encrypt(plaintext string, key []byte) (string, error)

	// Decrypt reverses Encrypt. Tampered or wrong-key input fails with
	// ErrDecryptionFailed; it never returns corrupted plaintext silently.
	Decrypt(blob string, key []byte) (string, error)

	// GenerateTransactionID returns a unique, human-inspectable
	// transaction identifier with a sortable timestamp prefix.
	GenerateTransactionID() string

	// GenerateSessionToken returns a high-entropy URL-safe random token.
	GenerateSessionToken() (string, error)

	// HashFileContent returns the SHA-256 hex digest of content.
	HashFileContent(content []byte) string
}
