package validators

import "errors"

// Sentinel validation errors. Each validator wraps one of these with a
// human-readable detail; callers match with [errors.Is] and may show the
// detail to the user; validation details never leak storage internals.
var (
	ErrUsernameRequired = errors.New("username is required")
	ErrUsernameLength   = errors.New("username length out of bounds")
	ErrUsernameCharset  = errors.New("username contains invalid characters")
	ErrUsernameReserved = errors.New("username is not available")

	ErrEmailRequired = errors.New("email is required")
	ErrEmailTooLong  = errors.New("email is too long")
	ErrEmailInvalid  = errors.New("invalid email address")

	ErrPasswordRequired = errors.New("password is required")
	ErrPasswordTooShort = errors.New("password is too short")
	ErrPasswordTooWeak  = errors.New("password does not meet requirements")
	ErrPasswordCommon   = errors.New("password is too common")

	ErrAmountRequired  = errors.New("amount is required")
	ErrAmountMalformed = errors.New("amount must be a valid number with up to 2 decimal places")
	ErrAmountTooSmall  = errors.New("amount is below the minimum")
	ErrAmountTooLarge  = errors.New("amount exceeds the maximum")

	ErrTextRequired = errors.New("text field is required")
	ErrTextTooLong  = errors.New("text field is too long")

	ErrUnsafeInput = errors.New("input contains invalid content")

	ErrFileEmpty        = errors.New("no file content provided")
	ErrFilenameRequired = errors.New("filename is required")
	ErrFileTooLarge     = errors.New("file size exceeds the limit")
	ErrFileTypeDenied   = errors.New("file type not allowed")
	ErrFileSignature    = errors.New("file content does not match its extension")
	ErrFilenameUnsafe   = errors.New("invalid filename")

	ErrSearchQueryTooLong = errors.New("search query too long")
)
