package store

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/MuhaUsman/SecureVault/internal/logger"
	"github.com/MuhaUsman/SecureVault/models"
)

// fileRepository is the SQLite-backed implementation of [FileRepository].
type fileRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewFileRepository constructs a [FileRepository] backed by the provided
// database connection.
func NewFileRepository(db *DB, logger *logger.Logger) FileRepository {
	logger.Debug().Msg("creating file repository")
	return &fileRepository{
		db:     db,
		logger: logger,
	}
}

// SaveFile records the metadata of one validated upload and returns the
// new row ID.
func (r *fileRepository) SaveFile(ctx context.Context, userID int64, filename, fileType string, fileSize int64, fileHash string) (int64, error) {
	res, err := r.db.ExecContext(ctx, insertUploadedFile, userID, filename, fileType, fileSize, fileHash)
	if err != nil {
		r.logger.Err(err).Str("func", "*fileRepository.SaveFile").Msg("error: file insert failed")
		if isBusyErr(err) {
			return 0, ErrStorageBusy
		}
		return 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("unexpected DB error: %w", err)
	}
	return id, nil
}

// FilesByUser lists the user's uploads most-recent-first.
func (r *fileRepository) FilesByUser(ctx context.Context, userID int64) ([]models.StoredFile, error) {
	query, args, err := sq.Select("id", "user_id", "filename", "file_type", "file_size", "upload_timestamp", "file_hash").
		From(models.StoredFile{}.TableName()).
		Where(sq.Eq{"user_id": userID}).
		OrderBy("upload_timestamp DESC", "id DESC").
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

	var files []models.StoredFile
	for rows.Next() {
		var f models.StoredFile
		if err := rows.Scan(&f.ID, &f.UserID, &f.Filename, &f.FileType, &f.FileSize, &f.UploadedAt, &f.FileHash); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		files = append(files, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return files, nil
}
