package store

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/MuhaUsman/SecureVault/internal/logger"
	"github.com/MuhaUsman/SecureVault/models"
)

// auditRepository is the SQLite-backed implementation of [AuditRepository].
// The table is append-only: there is no update or delete path.
type auditRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewAuditRepository constructs an [AuditRepository] backed by the provided
// database connection.
func NewAuditRepository(db *DB, logger *logger.Logger) AuditRepository {
	logger.Debug().Msg("creating audit repository")
	return &auditRepository{
		db:     db,
		logger: logger,
	}
}

// Insert appends one audit row. Zero-value fields fall back to the schema
// defaults ("anonymous" is filled in by the caller, ip_address and status
// by the table definition when empty).
func (r *auditRepository) Insert(ctx context.Context, entry models.AuditLogEntry) error {
	username := entry.Username
	if username == "" {
		username = "anonymous"
	}
	ipAddress := entry.IPAddress
	if ipAddress == "" {
		ipAddress = "127.0.0.1"
	}
	status := entry.Status
	if status == "" {
		status = models.AuditSuccess
	}

	var userID any
	if entry.UserID != nil {
		userID = *entry.UserID
	}

	_, err := r.db.ExecContext(ctx, insertAuditLog, userID, username, entry.Action, entry.Details, ipAddress, string(status))
	if err != nil {
		if isBusyErr(err) {
			return ErrStorageBusy
		}
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	return nil
}

// List returns audit entries most-recent-first, optionally filtered to one
// user.
func (r *auditRepository) List(ctx context.Context, limit int, userID *int64) ([]models.AuditLogEntry, error) {
	builder := sq.Select("id", "user_id", "username", "action", "details", "ip_address", "timestamp", "status").
		From(models.AuditLogEntry{}.TableName()).
		OrderBy("timestamp DESC", "id DESC").
		Limit(uint64(limit)).
		PlaceholderFormat(sq.Question)
	if userID != nil {
		builder = builder.Where(sq.Eq{"user_id": *userID})
	}

	query, args, err := builder.ToSql()
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

	entries := make([]models.AuditLogEntry, 0, limit)
	for rows.Next() {
		var (
			entry  models.AuditLogEntry
			rowUID sql.NullInt64
		)
		if err := rows.Scan(&entry.ID, &rowUID, &entry.Username, &entry.Action,
			&entry.Details, &entry.IPAddress, &entry.Timestamp, &entry.Status); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		if rowUID.Valid {
			uid := rowUID.Int64
			entry.UserID = &uid
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return entries, nil
}
