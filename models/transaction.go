package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType distinguishes money entering a wallet from money
// leaving it.
type TransactionType string

const (
	// Credit is money entering the wallet (deposit).
	Credit TransactionType = "CREDIT"

	// Debit is money leaving the wallet (transfer out).
	Debit TransactionType = "DEBIT"
)

// Transaction is one immutable money-movement event. Rows are never
// updated or deleted once committed; a reversal is a new opposite-direction
// transaction.
type Transaction struct {
	// ID is the internal row identifier.
	ID int64 `json:"-"`

	// TransactionID is the globally unique, human-inspectable identifier:
	// "TXN" + timestamp + random hex suffix. Sorts close to creation order.
	TransactionID string `json:"transaction_id"`

	// UserID is the user that initiated the transaction.
	UserID int64 `json:"user_id"`

	// Type is CREDIT or DEBIT.
	Type TransactionType `json:"type"`

	// Amount is the decrypted transaction amount, always positive with
	// two decimal places.
	Amount decimal.Decimal `json:"amount"`

	// RecipientUsername names the receiving user for a DEBIT transfer.
	// It is a loose string link, not a foreign key.
	RecipientUsername string `json:"recipient_username,omitempty"`

	// Source labels the origin of funds for a CREDIT (e.g. "Bank").
	Source string `json:"source,omitempty"`

	// Description is the decrypted free-text note, possibly empty.
	Description string `json:"description,omitempty"`

	// BalanceAfter is the decrypted wallet balance immediately after this
	// transaction was applied, recorded in the same atomic unit of work.
	BalanceAfter decimal.Decimal `json:"balance_after"`

	// CreatedAt is the commit timestamp.
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the name of the database table
// associated with the Transaction model.
func (t Transaction) TableName() string {
	return "transactions"
}
