package grammar

// Palette holds the named poster colors. Cream is the paper, gold is
// reserved for the Feynman emphasis, the rest drive the digit table.
type Palette struct {
	Red    Color `toml:"red" json:"red"`
	Blue   Color `toml:"blue" json:"blue"`
	Yellow Color `toml:"yellow" json:"yellow"`
	Black  Color `toml:"black" json:"black"`
	Cream  Color `toml:"cream" json:"cream"`
	Gold   Color `toml:"gold" json:"gold"`
	White  Color `toml:"white" json:"white"`
}

// DefaultPalette returns the canonical Bauhaus palette.
func DefaultPalette() Palette {
	return Palette{
		Red:    Color{0xD0, 0x20, 0x20},
		Blue:   Color{0x1D, 0x5B, 0xB6},
		Yellow: Color{0xF1, 0xB7, 0x20},
		Black:  Color{0x11, 0x11, 0x11},
		Cream:  Color{0xF0, 0xF0, 0xE0},
		Gold:   Color{0xD4, 0xAF, 0x37},
		White:  Color{0xFF, 0xFF, 0xFF},
	}
}

// ColorByName resolves a palette color by its lowercase name.
func (p Palette) ColorByName(name string) (Color, bool) {
	switch name {
	case "red":
		return p.Red, true
	case "blue":
		return p.Blue, true
	case "yellow":
		return p.Yellow, true
	case "black":
		return p.Black, true
	case "cream":
		return p.Cream, true
	case "gold":
		return p.Gold, true
	case "white":
		return p.White, true
	default:
		return Color{}, false
	}
}
