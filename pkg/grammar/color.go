// Package grammar maps pi digits to Bauhaus motifs.
//
// The mapping is a ten-entry table: each digit owns a shape family, a fill
// color, and a size scale. The table depends on the digit value alone, never
// on stream position, so any visual structure in the poster comes from the
// digit sequence itself.
package grammar

import (
	"fmt"

	"github.com/mkoster/pibauhaus/pkg/errors"
)

// Color is an opaque sRGB triple.
type Color struct {
	R, G, B uint8
}

// ParseHex parses "#rgb" or "#rrggbb" literals.
func ParseHex(s string) (Color, error) {
	if err := errors.ValidateHexColor(s); err != nil {
		return Color{}, err
	}

	hex := s[1:]
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}

	var c Color
	if _, err := fmt.Sscanf(hex, "%02x%02x%02x", &c.R, &c.G, &c.B); err != nil {
		return Color{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parsing hex color %q", s)
	}
	return c, nil
}

// Hex returns the lowercase "#rrggbb" form.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Floats returns the components scaled to [0, 1].
func (c Color) Floats() (r, g, b float64) {
	return float64(c.R) / 255, float64(c.G) / 255, float64(c.B) / 255
}

// Luminance returns the weighted brightness 0.2126 R + 0.7152 G + 0.0722 B
// over components in [0, 1]. Label ink switches on this value.
func (c Color) Luminance() float64 {
	r, g, b := c.Floats()
	return 0.2126*r + 0.7152*g + 0.0722*b
}

// RGBA implements image/color.Color with full opacity.
func (c Color) RGBA() (r, g, b, a uint32) {
	return uint32(c.R) * 0x101, uint32(c.G) * 0x101, uint32(c.B) * 0x101, 0xffff
}

// MarshalText encodes the color as a hex literal for TOML and JSON.
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.Hex()), nil
}

// UnmarshalText decodes a hex literal.
func (c *Color) UnmarshalText(text []byte) error {
	parsed, err := ParseHex(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
