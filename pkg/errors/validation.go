package errors

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxPrecision caps the digit count a single run may request. Generation cost
// grows quadratically, and a full default page needs well under this many
// digits.
const MaxPrecision = 250_000

// ValidatePrecision validates a requested digit count.
// Zero is allowed and means "fill the page".
func ValidatePrecision(n int) error {
	if n < 0 {
		return New(ErrCodeInvalidPrecision, "precision cannot be negative: %d", n)
	}

	if n > MaxPrecision {
		return New(ErrCodeInvalidPrecision, "precision %d exceeds maximum %d", n, MaxPrecision)
	}

	return nil
}

// ValidateOutputPath validates a user-supplied output path.
// It rejects values that cannot name a file on any supported platform.
//
// The validation rules are intentionally conservative:
//   - No empty paths
//   - No control characters or null bytes
//   - Maximum length of 500 characters
//
// Absolute paths are allowed; the CLI writes wherever the user points it.
func ValidateOutputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "output path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "output path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "output path contains invalid characters")
		}
	}

	return nil
}

// fontPresetRegex matches valid font preset identifiers.
var fontPresetRegex = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// ValidateFontPreset validates the shape of a font preset identifier.
// Whether the preset is registered is checked by the fonts package.
func ValidateFontPreset(name string) error {
	if name == "" {
		return New(ErrCodeInvalidConfig, "font preset cannot be empty")
	}

	if !fontPresetRegex.MatchString(name) {
		return New(ErrCodeInvalidConfig, "invalid font preset: %q", name)
	}

	return nil
}

// ValidateGlyph validates an overlay glyph: exactly one printable rune.
func ValidateGlyph(glyph string) error {
	if glyph == "" {
		return New(ErrCodeInvalidConfig, "overlay glyph cannot be empty")
	}

	r, size := utf8.DecodeRuneInString(glyph)
	if r == utf8.RuneError || size != len(glyph) {
		return New(ErrCodeInvalidConfig, "overlay glyph must be a single character: %q", glyph)
	}

	if unicode.IsControl(r) || unicode.IsSpace(r) {
		return New(ErrCodeInvalidConfig, "overlay glyph must be printable: %q", glyph)
	}

	return nil
}

// hexColorRegex matches "#rgb" and "#rrggbb" color literals.
var hexColorRegex = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// ValidateHexColor validates a hex color literal used in palette overrides.
func ValidateHexColor(s string) error {
	if s == "" {
		return New(ErrCodeInvalidConfig, "color cannot be empty")
	}

	if !strings.HasPrefix(s, "#") {
		return New(ErrCodeInvalidConfig, "color must start with '#': %q", s)
	}

	if !hexColorRegex.MatchString(s) {
		return New(ErrCodeInvalidConfig, "invalid hex color: %q", s)
	}

	return nil
}
