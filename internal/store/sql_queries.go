// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

const (
	createUser = `INSERT INTO users (username, email, password_hash)
		VALUES (?, ?, ?);`

	findUserByIdentity = `SELECT
			id,
			username,
			email,
			password_hash,
			created_at,
			last_login,
			is_active,
			failed_attempts,
			locked_until
		FROM users
		WHERE username = ? OR email = ?;`

	findDuplicateIdentity = `SELECT username, email
		FROM users
		WHERE username = ? OR email = ?;`

	userExists = `SELECT 1 FROM users WHERE username = ?;`

	usernameByID = `SELECT username FROM users WHERE id = ?;`

	recordFailedAttempt = `UPDATE users
		SET failed_attempts = ?, locked_until = ?
		WHERE id = ?;`

	recordSuccessfulLogin = `UPDATE users
		SET failed_attempts = 0,
			locked_until    = NULL,
			last_login      = CURRENT_TIMESTAMP
		WHERE id = ?;`

	createWallet = `INSERT INTO wallets (user_id, balance_encrypted, encryption_key)
		VALUES (?, ?, ?);`

	findWalletByUser = `SELECT
			id,
			user_id,
			balance_encrypted,
			encryption_key,
			updated_at
		FROM wallets
		WHERE user_id = ?;`

	updateWalletBalance = `UPDATE wallets
		SET balance_encrypted = ?, updated_at = CURRENT_TIMESTAMP
		WHERE user_id = ?;`

	createTransaction = `INSERT INTO transactions (
			transaction_id,
			user_id,
			type,
			amount_encrypted,
			recipient_username,
			source,
			description_encrypted,
			balance_after_encrypted
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?);`

	insertAuditLog = `INSERT INTO audit_logs (user_id, username, action, details, ip_address, status)
		VALUES (?, ?, ?, ?, ?, ?);`

	insertUploadedFile = `INSERT INTO uploaded_files (user_id, filename, file_type, file_size, file_hash)
		VALUES (?, ?, ?, ?, ?);`
)
