package models

import "time"

// StoredFile is the metadata record of one validated upload. The content
// itself is not kept in the database, only its SHA-256 hash for integrity
// checks.
type StoredFile struct {
	ID int64 `json:"-"`

	// UserID is the owner of the upload.
	UserID int64 `json:"user_id"`

	// Filename is the sanitized stored name, never the client-supplied one.
	Filename string `json:"filename"`

	// FileType is the validated extension (".pdf", ".jpg", ".png", ".txt").
	FileType string `json:"file_type"`

	// FileSize is the content length in bytes.
	FileSize int64 `json:"file_size"`

	// UploadedAt is when the upload was recorded.
	UploadedAt time.Time `json:"upload_timestamp"`

	// FileHash is the SHA-256 hex digest of the content.
	FileHash string `json:"file_hash"`
}

// TableName returns the name of the database table
// associated with the StoredFile model.
func (f StoredFile) TableName() string {
	return "uploaded_files"
}
