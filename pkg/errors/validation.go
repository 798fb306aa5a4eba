package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// hexColorRegex matches colors in the #RRGGBB form accepted everywhere a
// node or scale color is configured.
var hexColorRegex = regexp.MustCompile(`^#[a-fA-F0-9]{6}$`)

// ValidateHexColor validates a color string in #RRGGBB notation.
func ValidateHexColor(color string) error {
	if color == "" {
		return New(ErrCodeInvalidColor, "color cannot be empty")
	}
	if !hexColorRegex.MatchString(color) {
		return New(ErrCodeInvalidColor, "invalid color %q (valid format is '#FFFFFF')", color)
	}
	return nil
}

// IsHexColor reports whether color is a valid #RRGGBB string.
func IsHexColor(color string) bool {
	return hexColorRegex.MatchString(color)
}

// ValidateSeparator validates a level or alias separator.
//
// Separators must be non-empty, must not contain whitespace or control
// characters (tabs delimit the input columns) and are limited to 4 bytes.
func ValidateSeparator(name, sep string) error {
	if sep == "" {
		return New(ErrCodeInvalidSeparator, "%s cannot be empty", name)
	}
	if len(sep) > 4 {
		return New(ErrCodeInvalidSeparator, "%s too long (max 4 characters): %q", name, sep)
	}
	for _, r := range sep {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			return New(ErrCodeInvalidSeparator, "%s contains whitespace or control characters: %q", name, sep)
		}
	}
	return nil
}

// ValidatePath validates a local file path given on the command line or in
// a configuration file.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	// Simple scheme validation without full URL parsing
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}
