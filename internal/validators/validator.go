// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"html"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/MuhaUsman/SecureVault/internal/config"
	"github.com/shopspring/decimal"
)

// Validator screens all untrusted strings before they reach the store.
// All methods are pure functions over the configured policy: no I/O, no
// shared mutable state, safe for concurrent use.
type Validator struct {
	policy config.Policy

	minAmount decimal.Decimal
	maxAmount decimal.Decimal
}

// NewValidator constructs a Validator from the given policy. The amount
// bounds are parsed once at construction; malformed bounds fall back to
// the documented defaults (0.01 and 1,000,000.00).
func NewValidator(policy config.Policy) *Validator {
	minAmount, err := decimal.NewFromString(policy.MinAmount)
	if err != nil {
		minAmount = decimal.RequireFromString("0.01")
	}
	maxAmount, err := decimal.NewFromString(policy.MaxAmount)
	if err != nil {
		maxAmount = decimal.RequireFromString("1000000.00")
	}

	return &Validator{
		policy:    policy,
		minAmount: minAmount,
		maxAmount: maxAmount,
	}
}

// ValidateUsername checks length bounds, charset, reserved words, and
// injection heuristics. Returns nil if username is acceptable.
func (v *Validator) ValidateUsername(username string) error {
	if username == "" {
		return ErrUsernameRequired
	}
	if len(username) < v.policy.UsernameMinLength {
		return fmt.Errorf("%w: must be at least %d characters", ErrUsernameLength, v.policy.UsernameMinLength)
	}
	if len(username) > v.policy.UsernameMaxLength {
		return fmt.Errorf("%w: must not exceed %d characters", ErrUsernameLength, v.policy.UsernameMaxLength)
	}
	if !usernamePattern.MatchString(username) {
		return fmt.Errorf("%w: only letters, numbers, and underscores", ErrUsernameCharset)
	}
	if containsSQLInjection(username) {
		return ErrUsernameCharset
	}
	lower := strings.ToLower(username)
	for _, reserved := range reservedUsernames {
		if lower == reserved {
			return ErrUsernameReserved
		}
	}
	return nil
}

// ValidateEmail checks the length bound, an RFC-light pattern, common
// invalid shapes (double dots, edge dots, multiple @), and injection
// heuristics.
func (v *Validator) ValidateEmail(email string) error {
	if email == "" {
		return ErrEmailRequired
	}
	if len(email) > v.policy.EmailMaxLength {
		return fmt.Errorf("%w: must not exceed %d characters", ErrEmailTooLong, v.policy.EmailMaxLength)
	}
	if !emailPattern.MatchString(email) {
		return ErrEmailInvalid
	}
	if containsSQLInjection(email) {
		return fmt.Errorf("%w: contains invalid characters", ErrEmailInvalid)
	}
	for _, p := range emailRejectPatterns {
		if p.MatchString(email) {
			return ErrEmailInvalid
		}
	}
	return nil
}

// ValidatePassword enforces the minimum length, the case-insensitive
// common-password denylist, and the required character classes (uppercase,
// lowercase, digit, one of @#$%&*!).
func (v *Validator) ValidatePassword(password string) error {
	if password == "" {
		return ErrPasswordRequired
	}
	if len(password) < v.policy.PasswordMinLength {
		return fmt.Errorf("%w: must be at least %d characters long", ErrPasswordTooShort, v.policy.PasswordMinLength)
	}

	lower := strings.ToLower(password)
	for _, common := range v.policy.CommonPasswords {
		if lower == strings.ToLower(common) {
			return ErrPasswordCommon
		}
	}

	var missing []string
	if !passwordUpperPattern.MatchString(password) {
		missing = append(missing, "at least one uppercase letter")
	}
	if !passwordLowerPattern.MatchString(password) {
		missing = append(missing, "at least one lowercase letter")
	}
	if !passwordDigitPattern.MatchString(password) {
		missing = append(missing, "at least one digit")
	}
	if !passwordSpecialPattern.MatchString(password) {
		missing = append(missing, "at least one special character (@#$%&*!)")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: must contain %s", ErrPasswordTooWeak, strings.Join(missing, ", "))
	}
	return nil
}

// ValidateAmount parses a monetary amount string. The string must match
// ^\d+(\.\d{1,2})?$ and the value must lie inside the configured inclusive
// bounds. On success the parsed value is returned with exactly two decimal
// places of precision.
func (v *Validator) ValidateAmount(amountStr string) (decimal.Decimal, error) {
	amountStr = strings.TrimSpace(amountStr)
	if amountStr == "" {
		return decimal.Zero, ErrAmountRequired
	}
	if !amountPattern.MatchString(amountStr) {
		return decimal.Zero, ErrAmountMalformed
	}

	amount, err := decimal.NewFromString(amountStr)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %w", ErrAmountMalformed, err)
	}

	if amount.LessThan(v.minAmount) {
		return decimal.Zero, fmt.Errorf("%w: must be at least %s", ErrAmountTooSmall, v.minAmount.StringFixed(2))
	}
	if amount.GreaterThan(v.maxAmount) {
		return decimal.Zero, fmt.Errorf("%w: cannot exceed %s", ErrAmountTooLarge, v.maxAmount.StringFixed(2))
	}

	return amount.Round(2), nil
}

// ValidateText checks a free-text field (description, purpose) against a
// length bound and the injection and XSS heuristics. required controls
// whether an empty value is an error.
func (v *Validator) ValidateText(text, fieldName string, maxLength int, required bool) error {
	if text == "" {
		if required {
			return fmt.Errorf("%w: %s", ErrTextRequired, fieldName)
		}
		return nil
	}
	if len(text) > maxLength {
		return fmt.Errorf("%w: %s must not exceed %d characters", ErrTextTooLong, fieldName, maxLength)
	}
	if containsSQLInjection(text) {
		return fmt.Errorf("%w: %s contains invalid characters", ErrUnsafeInput, fieldName)
	}
	if containsXSS(text) {
		return fmt.Errorf("%w: %s contains invalid content", ErrUnsafeInput, fieldName)
	}
	return nil
}

// ValidateDescription applies ValidateText with the configured description
// bound. Descriptions are optional.
func (v *Validator) ValidateDescription(description string) error {
	return v.ValidateText(description, "description", v.policy.DescriptionMaxLength, false)
}

// ValidatePurpose applies ValidateText with the configured purpose bound.
func (v *Validator) ValidatePurpose(purpose string) error {
	return v.ValidateText(purpose, "purpose", v.policy.PurposeMaxLength, false)
}

// ValidateSource applies ValidateText with the configured deposit-source
// bound.
func (v *Validator) ValidateSource(source string) error {
	return v.ValidateText(source, "source", v.policy.SourceMaxLength, false)
}

// ValidateFileUpload checks the content size bound, the extension
// allow-list, the magic-byte signature for the extension, and rejects
// path-traversal sequences in the filename.
func (v *Validator) ValidateFileUpload(content []byte, filename string) error {
	if len(content) == 0 {
		return ErrFileEmpty
	}
	if filename == "" {
		return ErrFilenameRequired
	}

	sizeMB := float64(len(content)) / (1024 * 1024)
	if sizeMB > float64(v.policy.MaxFileSizeMB) {
		return fmt.Errorf("%w: must not exceed %dMB", ErrFileTooLarge, v.policy.MaxFileSizeMB)
	}

	ext := fileExtension(filename)
	allowed := false
	for _, e := range v.policy.AllowedFileExtensions {
		if ext == e {
			allowed = true
			break
		}
	}
	if !allowed {
		return fmt.Errorf("%w: allowed types: %s", ErrFileTypeDenied, strings.Join(v.policy.AllowedFileExtensions, ", "))
	}

	if strings.Contains(filename, "..") || strings.ContainsAny(filename, `/\`) {
		return ErrFilenameUnsafe
	}

	if !matchesSignature(content, ext) {
		return ErrFileSignature
	}
	return nil
}

// ValidateSearchQuery bounds and sanitizes a search query, returning the
// sanitized form. Dangerous characters are stripped before the injection
// check so that the returned string is safe to echo back.
func (v *Validator) ValidateSearchQuery(query string) (string, error) {
	if query == "" {
		return "", nil
	}
	if len(query) > 100 {
		return "", ErrSearchQueryTooLong
	}

	sanitized := searchStripPattern.ReplaceAllString(query, "")
	if containsSQLInjection(sanitized) {
		return "", ErrUnsafeInput
	}
	return strings.TrimSpace(sanitized), nil
}

// PasswordStrength scores a password 0..100 and returns improvement
// suggestions. The score is advisory only; acceptance is decided by
// ValidatePassword.
func (v *Validator) PasswordStrength(password string) (int, []string) {
	score := 0
	var suggestions []string

	if len(password) >= 8 {
		score += 20
	} else {
		suggestions = append(suggestions, "Use at least 8 characters")
	}
	if len(password) >= 12 {
		score += 10
	}
	if passwordLowerPattern.MatchString(password) {
		score += 15
	} else {
		suggestions = append(suggestions, "Add lowercase letters")
	}
	if passwordUpperPattern.MatchString(password) {
		score += 15
	} else {
		suggestions = append(suggestions, "Add uppercase letters")
	}
	if passwordDigitPattern.MatchString(password) {
		score += 15
	} else {
		suggestions = append(suggestions, "Add numbers")
	}
	if passwordSpecialPattern.MatchString(password) {
		score += 15
	} else {
		suggestions = append(suggestions, "Add special characters (@#$%&*!)")
	}

	unique := make(map[rune]struct{}, len(password))
	for _, r := range password {
		unique[r] = struct{}{}
	}
	if len(unique) >= 8 {
		score += 10
	}

	if commonShapePattern.MatchString(strings.ToLower(password)) {
		score -= 20
		suggestions = append(suggestions, "Avoid common patterns")
	}

	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}
	return score, suggestions
}

// SanitizeText escapes HTML entities and strips script-bearing content.
// Used for values that are stored and later rendered by the UI layer.
func SanitizeText(text string) string {
	if text == "" {
		return ""
	}
	text = html.EscapeString(text)
	for _, p := range sanitizeStripPatterns {
		text = p.ReplaceAllString(text, "")
	}
	return strings.TrimSpace(text)
}

// SanitizeFilename strips traversal sequences from the client-supplied
// name and replaces it with a collision-free generated one, keeping only
// the extension: upload_<timestamp>_<hex>.<ext>.
func SanitizeFilename(filename string) string {
	filename = strings.NewReplacer("..", "", "/", "", `\`, "").Replace(filename)

	ext := "txt"
	if i := strings.LastIndex(filename, "."); i >= 0 && i < len(filename)-1 {
		ext = filename[i+1:]
	}

	randomPart := make([]byte, 4)
	if _, err := io.ReadFull(rand.Reader, randomPart); err != nil {
		// timestamp alone still avoids traversal; collisions become the
		// caller's problem only in the same second
		return fmt.Sprintf("upload_%s.%s", time.Now().Format("20060102_150405"), ext)
	}
	return fmt.Sprintf("upload_%s_%s.%s", time.Now().Format("20060102_150405"), hex.EncodeToString(randomPart), ext)
}

func fileExtension(filename string) string {
	i := strings.LastIndex(filename, ".")
	if i < 0 {
		return ""
	}
	return strings.ToLower(filename[i:])
}

func matchesSignature(content []byte, ext string) bool {
	signatures, ok := fileSignatures[ext]
	if !ok {
		return false
	}
	if len(signatures) == 0 { // no signature required (plain text)
		return true
	}
	if len(content) < 4 {
		return false
	}
	for _, sig := range signatures {
		if len(content) >= len(sig) && string(content[:len(sig)]) == string(sig) {
			return true
		}
	}
	return false
}

var (
	searchStripPattern = regexp.MustCompile(`[<>"'&;]`)
	commonShapePattern = regexp.MustCompile(`(123|abc|qwe|password)`)

	sanitizeStripPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`),
		regexp.MustCompile(`(?i)javascript:`),
		regexp.MustCompile(`(?i)on\w+\s*=`),
		regexp.MustCompile(`(?is)<iframe[^>]*>.*?</iframe>`),
		regexp.MustCompile(`(?is)<object[^>]*>.*?</object>`),
		regexp.MustCompile(`(?is)<embed[^>]*>.*?</embed>`),
	}
)
