package models

import "time"

// Wallet is the single encrypted-balance record owned by one user.
// The balance ciphertext and its encryption key live in the same row:
// each wallet is an independent encryption domain, keys are never shared
// across wallets and never rotated.
type Wallet struct {
	// WalletID is the internal unique identifier of the wallet row.
	WalletID int64 `json:"-"`

	// UserID is the owning user. Exactly one wallet exists per user.
	UserID int64 `json:"user_id"`

	// BalanceEncrypted is the AES-GCM ciphertext of the canonical
	// two-decimal balance string (e.g. "0.00"), base64 encoded.
	BalanceEncrypted string `json:"-"`

	// EncryptionKey is the base64-encoded 256-bit symmetric key under
	// which all of this wallet's ciphertexts are produced.
	EncryptionKey string `json:"-"`

	// UpdatedAt is the timestamp of the last balance mutation.
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the name of the database table
// associated with the Wallet model.
func (w Wallet) TableName() string {
	return "wallets"
}
