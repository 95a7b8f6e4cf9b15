package validators

import "regexp"

// Compiled pattern sets used by the heuristic input screening. These are a
// defense-in-depth layer only: the store always uses parameterized queries
// regardless of what passes here.

var (
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	emailPattern    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	amountPattern   = regexp.MustCompile(`^\d+(\.\d{1,2})?$`)

	passwordUpperPattern   = regexp.MustCompile(`[A-Z]`)
	passwordLowerPattern   = regexp.MustCompile(`[a-z]`)
	passwordDigitPattern   = regexp.MustCompile(`\d`)
	passwordSpecialPattern = regexp.MustCompile(`[@#$%&*!]`)
)

// sqlInjectionPatterns flag statement keywords, comment markers,
// boolean-tautology shapes, and statement separators.
var sqlInjectionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(SELECT|INSERT|UPDATE|DELETE|DROP|CREATE|ALTER|EXEC|UNION|SCRIPT)\b`),
	regexp.MustCompile(`--|#|/\*|\*/`),
	regexp.MustCompile(`(?i)\bOR\b.*=.*\bOR\b`),
	regexp.MustCompile(`(?i)\bAND\b.*=.*\bAND\b`),
	regexp.MustCompile(`[;|&]`),
	regexp.MustCompile(`(?i)\bxp_cmdshell\b`),
	regexp.MustCompile(`(?i)\bsp_executesql\b`),
}

// xssPatterns flag script tags, javascript: URIs, inline event handlers,
// and embedding tags.
var xssPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`),
	regexp.MustCompile(`(?i)javascript:`),
	regexp.MustCompile(`(?i)on\w+\s*=`),
	regexp.MustCompile(`(?i)<iframe[^>]*>`),
	regexp.MustCompile(`(?i)<object[^>]*>`),
	regexp.MustCompile(`(?i)<embed[^>]*>`),
	regexp.MustCompile(`(?i)<link[^>]*>`),
	regexp.MustCompile(`(?i)<meta[^>]*>`),
}

// reservedUsernames may not be registered regardless of charset validity.
var reservedUsernames = []string{"admin", "root", "system", "null", "undefined"}

// emailRejectPatterns cover shapes the RFC-light pattern lets through:
// consecutive dots, leading/trailing dot, multiple @ signs.
var emailRejectPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\.{2,}`),
	regexp.MustCompile(`^\.`),
	regexp.MustCompile(`\.$`),
	regexp.MustCompile(`@.*@`),
}

// fileSignatures maps allowed extensions to their magic-byte prefixes.
// An empty list means no signature requirement (plain text).
var fileSignatures = map[string][][]byte{
	".pdf": {[]byte("%PDF")},
	".jpg": {{0xFF, 0xD8, 0xFF}},
	".png": {{0x89, 0x50, 0x4E, 0x47}},
	".txt": {},
}

func containsSQLInjection(text string) bool {
	for _, p := range sqlInjectionPatterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}

func containsXSS(text string) bool {
	for _, p := range xssPatterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}
