package grammar

import "github.com/mkoster/pibauhaus/pkg/errors"

// ShapeFamily identifies a motif outline.
type ShapeFamily string

// Shape families available to the digit table.
const (
	ShapeCircle   ShapeFamily = "circle"
	ShapeSquare   ShapeFamily = "square"
	ShapeTriangle ShapeFamily = "triangle"
	ShapeQuarter  ShapeFamily = "quarter" // quarter-disc wedge
)

// ValidShape reports whether s names a known shape family.
func ValidShape(s ShapeFamily) bool {
	switch s {
	case ShapeCircle, ShapeSquare, ShapeTriangle, ShapeQuarter:
		return true
	}
	return false
}

// Size scale bounds: digit 0 renders at MinScale of the cell base, digit 9
// at MaxScale, with the rest on a linear ramp.
const (
	MinScale = 0.22
	MaxScale = 0.98
)

// ScaleFor returns the linear size scale for a digit.
func ScaleFor(digit int) float64 {
	return MinScale + (MaxScale-MinScale)*float64(digit)/9
}

// Style is the resolved visual treatment for one digit value.
type Style struct {
	Shape ShapeFamily `json:"shape"`
	Fill  Color       `json:"fill"`
	Scale float64     `json:"scale"`
}

// Rule is one row of the digit table before palette resolution. Color names
// a palette entry ("red") or a hex literal ("#d02020").
type Rule struct {
	Digit int         `toml:"digit" json:"digit"`
	Shape ShapeFamily `toml:"shape" json:"shape"`
	Color string      `toml:"color" json:"color"`
	Scale float64     `toml:"scale" json:"scale"`
}

// DefaultRules returns the canonical digit table. Low digits are round and
// small, high digits angular and large; warm and cool fills alternate with
// digit parity.
func DefaultRules() []Rule {
	return []Rule{
		{Digit: 0, Shape: ShapeCircle, Color: "red", Scale: ScaleFor(0)},
		{Digit: 1, Shape: ShapeCircle, Color: "yellow", Scale: ScaleFor(1)},
		{Digit: 2, Shape: ShapeCircle, Color: "blue", Scale: ScaleFor(2)},
		{Digit: 3, Shape: ShapeSquare, Color: "black", Scale: ScaleFor(3)},
		{Digit: 4, Shape: ShapeSquare, Color: "red", Scale: ScaleFor(4)},
		{Digit: 5, Shape: ShapeSquare, Color: "yellow", Scale: ScaleFor(5)},
		{Digit: 6, Shape: ShapeTriangle, Color: "blue", Scale: ScaleFor(6)},
		{Digit: 7, Shape: ShapeTriangle, Color: "black", Scale: ScaleFor(7)},
		{Digit: 8, Shape: ShapeTriangle, Color: "red", Scale: ScaleFor(8)},
		{Digit: 9, Shape: ShapeQuarter, Color: "yellow", Scale: ScaleFor(9)},
	}
}

// Table is the resolved digit-to-style mapping. Index is the digit value.
type Table [10]Style

// BuildTable resolves rules against a palette. Every digit 0 through 9 must
// appear exactly once; this is the single supported way to change the
// poster's visual grammar.
func BuildTable(rules []Rule, pal Palette) (Table, error) {
	var t Table
	seen := [10]bool{}

	for _, r := range rules {
		if r.Digit < 0 || r.Digit > 9 {
			return Table{}, errors.New(errors.ErrCodeInvalidConfig, "grammar rule digit %d out of range", r.Digit)
		}
		if seen[r.Digit] {
			return Table{}, errors.New(errors.ErrCodeInvalidConfig, "grammar rule for digit %d appears twice", r.Digit)
		}
		if !ValidShape(r.Shape) {
			return Table{}, errors.New(errors.ErrCodeInvalidConfig, "grammar rule for digit %d has unknown shape %q", r.Digit, r.Shape)
		}
		if r.Scale <= 0 || r.Scale > 1 {
			return Table{}, errors.New(errors.ErrCodeInvalidConfig, "grammar rule for digit %d has scale %v outside (0, 1]", r.Digit, r.Scale)
		}

		fill, ok := pal.ColorByName(r.Color)
		if !ok {
			parsed, err := ParseHex(r.Color)
			if err != nil {
				return Table{}, errors.New(errors.ErrCodeInvalidConfig, "grammar rule for digit %d has unknown color %q", r.Digit, r.Color)
			}
			fill = parsed
		}

		seen[r.Digit] = true
		t[r.Digit] = Style{Shape: r.Shape, Fill: fill, Scale: r.Scale}
	}

	for d, ok := range seen {
		if !ok {
			return Table{}, errors.New(errors.ErrCodeInvalidConfig, "grammar table missing digit %d", d)
		}
	}

	return t, nil
}

// DefaultTable resolves the canonical rules against the default palette.
func DefaultTable() Table {
	t, err := BuildTable(DefaultRules(), DefaultPalette())
	if err != nil {
		// The canonical table is statically correct.
		panic(err)
	}
	return t
}

// StyleFor returns the style for a digit value. The result depends on the
// digit alone; callers at different stream positions always get the same
// style for the same digit.
func (t Table) StyleFor(digit int) (Style, error) {
	if digit < 0 || digit > 9 {
		return Style{}, errors.New(errors.ErrCodeInvalidDigit, "digit %d outside 0..9", digit)
	}
	return t[digit], nil
}
