package store

import (
	"context"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/shopspring/decimal"

	"github.com/MuhaUsman/SecureVault/internal/crypto"
	"github.com/MuhaUsman/SecureVault/internal/logger"
	"github.com/MuhaUsman/SecureVault/models"
)

// ledgerRepository is the SQLite-backed implementation of
// [LedgerRepository]. Balance mutations and their transaction rows are
// written in one immediate-exclusive transaction: the DSN-level
// _txlock=immediate makes BeginTx take the write lock before the balance
// read, which is the critical section preventing lost updates when two
// transactions for the same wallet race.
type ledgerRepository struct {
	logger *logger.Logger
	db     *DB
	crypto crypto.Service
}

// NewLedgerRepository constructs a [LedgerRepository] backed by the
// provided database connection and crypto service.
func NewLedgerRepository(db *DB, cryptoSvc crypto.Service, logger *logger.Logger) LedgerRepository {
	logger.Debug().Msg("creating ledger repository")
	return &ledgerRepository{
		db:     db,
		crypto: cryptoSvc,
		logger: logger,
	}
}

// querier is satisfied by both *sql.DB and *sql.Tx so wallet helpers can
// run inside or outside an open transaction.
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Balance returns the decrypted wallet balance. A user without a wallet
// row gets one created lazily at 0.00, so no caller ever observes a
// "missing wallet" error.
func (r *ledgerRepository) Balance(ctx context.Context, userID int64) (decimal.Decimal, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		if isBusyErr(err) {
			return decimal.Zero, ErrStorageBusy
		}
		return decimal.Zero, fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	wallet, key, err := r.walletForUpdate(ctx, tx, userID)
	if err != nil {
		return decimal.Zero, err
	}

	balanceStr, err := r.crypto.Decrypt(wallet.BalanceEncrypted, key)
	if err != nil {
		r.logger.Err(err).Str("func", "*ledgerRepository.Balance").Int64("user_id", userID).Msg("error: balance decryption failed")
		return decimal.Zero, err
	}
	balance, err := decimal.NewFromString(balanceStr)
	if err != nil {
		return decimal.Zero, fmt.Errorf("malformed stored balance: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return decimal.Zero, fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}
	return balance, nil
}

// CreateTransaction applies one money movement as a single atomic unit:
// read (or lazily create) the wallet, compute the new balance, write the
// encrypted transaction row and the wallet update together, commit.
// Nothing partial is ever observable; any failure discards the whole unit.
//
// CREDIT adds amount; DEBIT subtracts it and fails with
// [ErrInsufficientFunds] when amount exceeds the current balance. Any
// other type fails with [ErrInvalidTransactionType].
func (r *ledgerRepository) CreateTransaction(ctx context.Context, userID int64, typ models.TransactionType, amount decimal.Decimal, recipientUsername, source, description string) (string, error) {
	if typ != models.Credit && typ != models.Debit {
		return "", ErrInvalidTransactionType
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		r.logger.Err(err).Str("func", "*ledgerRepository.CreateTransaction").Msg("error: cannot begin transaction")
		if isBusyErr(err) {
			return "", ErrStorageBusy
		}
		return "", fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	wallet, key, err := r.walletForUpdate(ctx, tx, userID)
	if err != nil {
		return "", err
	}

	balanceStr, err := r.crypto.Decrypt(wallet.BalanceEncrypted, key)
	if err != nil {
		r.logger.Err(err).Str("func", "*ledgerRepository.CreateTransaction").Int64("user_id", userID).Msg("error: balance decryption failed")
		return "", err
	}
	balance, err := decimal.NewFromString(balanceStr)
	if err != nil {
		return "", fmt.Errorf("malformed stored balance: %w", err)
	}

	var newBalance decimal.Decimal
	switch typ {
	case models.Credit:
		newBalance = balance.Add(amount)
	case models.Debit:
		if amount.GreaterThan(balance) {
			return "", ErrInsufficientFunds
		}
		newBalance = balance.Sub(amount)
	}

	transactionID := r.crypto.GenerateTransactionID()

	encryptedAmount, err := r.crypto.Encrypt(amount.StringFixed(2), key)
	if err != nil {
		return "", err
	}
	encryptedDescription, err := r.crypto.Encrypt(description, key)
	if err != nil {
		return "", err
	}
	encryptedBalanceAfter, err := r.crypto.Encrypt(newBalance.StringFixed(2), key)
	if err != nil {
		return "", err
	}

	_, err = tx.ExecContext(ctx, createTransaction,
		transactionID, userID, string(typ), encryptedAmount,
		nullable(recipientUsername), nullable(source), encryptedDescription,
		encryptedBalanceAfter)
	if err != nil {
		r.logger.Err(err).Str("func", "*ledgerRepository.CreateTransaction").Msg("error: transaction insert failed")
		if isBusyErr(err) {
			return "", ErrStorageBusy
		}
		return "", fmt.Errorf("unexpected DB error: %w", err)
	}

	if _, err := tx.ExecContext(ctx, updateWalletBalance, encryptedBalanceAfter, userID); err != nil {
		r.logger.Err(err).Str("func", "*ledgerRepository.CreateTransaction").Msg("error: wallet update failed")
		return "", fmt.Errorf("unexpected DB error: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	return transactionID, nil
}

// History page bounds. Out-of-range caller values are clamped rather
// than rejected.
const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 500
)

// Transactions lists the user's history most-recent-first. A row whose
// ciphertexts cannot be opened (corruption, key mismatch) is skipped
// rather than aborting the whole list; callers must tolerate gaps.
func (r *ledgerRepository) Transactions(ctx context.Context, userID int64, limit, offset int) ([]models.Transaction, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	} else if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	if offset < 0 {
		offset = 0
	}

	var wallet models.Wallet
	err := r.db.QueryRowContext(ctx, findWalletByUser, userID).
		Scan(&wallet.WalletID, &wallet.UserID, &wallet.BalanceEncrypted, &wallet.EncryptionKey, &wallet.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// no wallet yet means no transactions either
			return []models.Transaction{}, nil
		}
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	key, err := base64.StdEncoding.DecodeString(wallet.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed wallet key", crypto.ErrDecryptionFailed)
	}

	query, args, err := sq.Select(
		"transaction_id", "type", "amount_encrypted", "recipient_username",
		"source", "description_encrypted", "balance_after_encrypted", "created_at").
		From(models.Transaction{}.TableName()).
		Where(sq.Eq{"user_id": userID}).
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		PlaceholderFormat(sq.Question).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		if isBusyErr(err) {
			return nil, ErrStorageBusy
		}
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	transactions := make([]models.Transaction, 0, limit)
	for rows.Next() {
		var (
			t                    models.Transaction
			encryptedAmount      string
			encryptedDescription sql.NullString
			encryptedBalance     string
			recipient, source    sql.NullString
		)
		if err := rows.Scan(&t.TransactionID, &t.Type, &encryptedAmount,
			&recipient, &source, &encryptedDescription, &encryptedBalance, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		t.UserID = userID
		t.RecipientUsername = recipient.String
		t.Source = source.String

		amountStr, err := r.crypto.Decrypt(encryptedAmount, key)
		if err != nil {
			r.logger.Debug().Str("transaction_id", t.TransactionID).Msg("skipping undecryptable transaction row")
			continue
		}
		balanceStr, err := r.crypto.Decrypt(encryptedBalance, key)
		if err != nil {
			r.logger.Debug().Str("transaction_id", t.TransactionID).Msg("skipping undecryptable transaction row")
			continue
		}
		if encryptedDescription.Valid && encryptedDescription.String != "" {
			description, err := r.crypto.Decrypt(encryptedDescription.String, key)
			if err != nil {
				r.logger.Debug().Str("transaction_id", t.TransactionID).Msg("skipping undecryptable transaction row")
				continue
			}
			t.Description = description
		}

		if t.Amount, err = decimal.NewFromString(amountStr); err != nil {
			continue
		}
		if t.BalanceAfter, err = decimal.NewFromString(balanceStr); err != nil {
			continue
		}

		transactions = append(transactions, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return transactions, nil
}

// walletForUpdate reads the user's wallet inside q, creating it at "0.00"
// under a fresh key if absent. Returns the wallet row and its decoded key.
func (r *ledgerRepository) walletForUpdate(ctx context.Context, q querier, userID int64) (models.Wallet, []byte, error) {
	var wallet models.Wallet
	err := q.QueryRowContext(ctx, findWalletByUser, userID).
		Scan(&wallet.WalletID, &wallet.UserID, &wallet.BalanceEncrypted, &wallet.EncryptionKey, &wallet.UpdatedAt)
	if err == nil {
		key, decodeErr := base64.StdEncoding.DecodeString(wallet.EncryptionKey)
		if decodeErr != nil {
			return models.Wallet{}, nil, fmt.Errorf("%w: malformed wallet key", crypto.ErrDecryptionFailed)
		}
		return wallet, key, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		if isBusyErr(err) {
			return models.Wallet{}, nil, ErrStorageBusy
		}
		return models.Wallet{}, nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	// lazily create the wallet at 0.00
	key, err := r.crypto.GenerateKey()
	if err != nil {
		return models.Wallet{}, nil, fmt.Errorf("generate wallet key: %w", err)
	}
	encryptedBalance, err := r.crypto.Encrypt("0.00", key)
	if err != nil {
		return models.Wallet{}, nil, err
	}
	encodedKey := base64.StdEncoding.EncodeToString(key)

	res, err := q.ExecContext(ctx, createWallet, userID, encryptedBalance, encodedKey)
	if err != nil {
		return models.Wallet{}, nil, fmt.Errorf("unexpected DB error: %w", err)
	}
	walletID, _ := res.LastInsertId()

	return models.Wallet{
		WalletID:         walletID,
		UserID:           userID,
		BalanceEncrypted: encryptedBalance,
		EncryptionKey:    encodedKey,
	}, key, nil
}

// nullable maps "" to NULL for optional TEXT columns.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
