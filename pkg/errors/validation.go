package errors

import (
	"strings"
	"unicode"
)

// MaxSourceLength bounds the size of program text accepted by the parser.
// Trees are laid out in memory in one pass, so very large inputs are refused
// up front instead of producing a canvas nobody can look at.
const MaxSourceLength = 64 * 1024

// ValidateSource validates program text before it is parsed.
//
// The validation rules:
//   - No empty (or whitespace-only) sources
//   - Maximum length of MaxSourceLength bytes
//   - No null bytes or control characters other than tab, CR and LF
func ValidateSource(src string) error {
	if strings.TrimSpace(src) == "" {
		return New(ErrCodeInvalidSource, "source cannot be empty")
	}

	if len(src) > MaxSourceLength {
		return New(ErrCodeInvalidSource, "source too long (max %d bytes)", MaxSourceLength)
	}

	for _, r := range src {
		if r == '\t' || r == '\n' || r == '\r' {
			continue
		}
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidSource, "source contains invalid control characters")
		}
	}

	return nil
}

// ValidateOutputPath validates an output file path given on the command line.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - Must not name a directory (trailing separator)
func ValidateOutputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.HasSuffix(path, "/") || strings.HasSuffix(path, "\\") {
		return New(ErrCodeInvalidPath, "path must name a file, not a directory")
	}

	return nil
}

// ValidateToken validates a single display token produced by germination.
// Tokens are drawn on one line, so line breaks are rejected.
func ValidateToken(token string) error {
	if strings.ContainsAny(token, "\r\n") {
		return New(ErrCodeInvalidInput, "token %q spans multiple lines", token)
	}
	return nil
}
