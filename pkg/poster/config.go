// Package poster defines the poster configuration and run metadata.
//
// A Config fully determines the output: page geometry, grid shape, digit
// grammar, overlay and finishing treatments. Equal configs produce
// byte-identical artifacts, so the config doubles as the cache identity for
// everything downstream of digit generation.
package poster

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/mkoster/pibauhaus/pkg/errors"
	"github.com/mkoster/pibauhaus/pkg/grammar"
)

// MMPerInch converts millimeters to inches for pixel math.
const MMPerInch = 25.4

// PageConfig describes the physical page.
type PageConfig struct {
	WidthMM     float64 `toml:"width_mm" json:"width_mm"`
	HeightMM    float64 `toml:"height_mm" json:"height_mm"`
	DPI         int     `toml:"dpi" json:"dpi"`
	MarginRatio float64 `toml:"margin_ratio" json:"margin_ratio"`
}

// WidthPx returns the page width in device pixels.
func (p PageConfig) WidthPx() int {
	return int(p.WidthMM/MMPerInch*float64(p.DPI) + 0.5)
}

// HeightPx returns the page height in device pixels.
func (p PageConfig) HeightPx() int {
	return int(p.HeightMM/MMPerInch*float64(p.DPI) + 0.5)
}

// GridConfig describes the cell grid. The first PerspectiveStartRow rows
// form the uniform main grid; below it, rows shrink by Shrink per step and
// gain columns until the page bottom or MinRowHeightPx stops them.
type GridConfig struct {
	Columns             int     `toml:"columns" json:"columns"`
	Rows                int     `toml:"rows" json:"rows"`
	PerspectiveStartRow int     `toml:"perspective_start_row" json:"perspective_start_row"`
	Shrink              float64 `toml:"shrink" json:"shrink"`
	MinRowHeightPx      float64 `toml:"min_row_height_px" json:"min_row_height_px"`
}

// LabelConfig controls the optional digit glyphs inside motifs.
type LabelConfig struct {
	Enabled           bool    `toml:"enabled" json:"enabled"`
	FontPreset        string  `toml:"font_preset" json:"font_preset"`
	SizeRatio         float64 `toml:"size_ratio" json:"size_ratio"`
	EmphasisSizeRatio float64 `toml:"emphasis_size_ratio" json:"emphasis_size_ratio"`
	InkThreshold      float64 `toml:"ink_threshold" json:"ink_threshold"`
}

// OverlayConfig controls the large translucent glyph and its clipped mosaic.
type OverlayConfig struct {
	Enabled           bool          `toml:"enabled" json:"enabled"`
	Glyph             string        `toml:"glyph" json:"glyph"`
	SizeRatio         float64       `toml:"size_ratio" json:"size_ratio"`
	RaiseRows         float64       `toml:"raise_rows" json:"raise_rows"`
	WashAlpha         float64       `toml:"wash_alpha" json:"wash_alpha"`
	TileRatio         float64       `toml:"tile_ratio" json:"tile_ratio"`
	TileMinPx         float64       `toml:"tile_min_px" json:"tile_min_px"`
	QuarterTone       grammar.Color `toml:"quarter_tone" json:"quarter_tone"`
	QuarterAlpha      float64       `toml:"quarter_alpha" json:"quarter_alpha"`
	TriangleTone      grammar.Color `toml:"triangle_tone" json:"triangle_tone"`
	TriangleAlpha     float64       `toml:"triangle_alpha" json:"triangle_alpha"`
	ContourAlpha      float64       `toml:"contour_alpha" json:"contour_alpha"`
	ContourWidthRatio float64       `toml:"contour_width_ratio" json:"contour_width_ratio"`
	ContourMinWidth   float64       `toml:"contour_min_width" json:"contour_min_width"`
}

// FadeConfig controls the white fade at the page bottom.
type FadeConfig struct {
	Enabled  bool    `toml:"enabled" json:"enabled"`
	HeightCM float64 `toml:"height_cm" json:"height_cm"`
	MaxAlpha float64 `toml:"max_alpha" json:"max_alpha"`
}

// Config is the complete poster description.
type Config struct {
	// Precision is the number of decimal digits to place. Zero means
	// "as many as the page holds".
	Precision int `toml:"precision" json:"precision"`

	Page    PageConfig      `toml:"page" json:"page"`
	Grid    GridConfig      `toml:"grid" json:"grid"`
	Labels  LabelConfig     `toml:"labels" json:"labels"`
	Overlay OverlayConfig   `toml:"overlay" json:"overlay"`
	Fade    FadeConfig      `toml:"fade" json:"fade"`
	Palette grammar.Palette `toml:"palette" json:"palette"`
	Grammar []grammar.Rule  `toml:"grammar" json:"grammar"`
}

// Default returns the canonical A3+ poster configuration.
func Default() Config {
	pal := grammar.DefaultPalette()
	return Config{
		Precision: 0,
		Page: PageConfig{
			WidthMM:     329,
			HeightMM:    483,
			DPI:         300,
			MarginRatio: 0,
		},
		Grid: GridConfig{
			Columns:             30,
			Rows:                50,
			PerspectiveStartRow: 40,
			Shrink:              0.90,
			MinRowHeightPx:      0.8,
		},
		Labels: LabelConfig{
			Enabled:           true,
			FontPreset:        "inter",
			SizeRatio:         0.25,
			EmphasisSizeRatio: 0.34,
			InkThreshold:      0.58,
		},
		Overlay: OverlayConfig{
			Enabled:           true,
			Glyph:             "π",
			SizeRatio:         0.76,
			RaiseRows:         3.5,
			WashAlpha:         0.08,
			TileRatio:         0.020,
			TileMinPx:         30,
			QuarterTone:       grammar.Color{R: 0x12, G: 0x12, B: 0x12},
			QuarterAlpha:      0.14,
			TriangleTone:      grammar.Color{R: 0x1F, G: 0x57, B: 0x2B},
			TriangleAlpha:     0.11,
			ContourAlpha:      0.16,
			ContourWidthRatio: 0.0016,
			ContourMinWidth:   1.8,
		},
		Fade: FadeConfig{
			Enabled:  true,
			HeightCM: 2.0,
			MaxAlpha: 0.42,
		},
		Palette: pal,
		Grammar: grammar.DefaultRules(),
	}
}

// LoadFile layers a TOML file over the defaults. Absent keys keep their
// default values; a grammar array in the file replaces the whole table.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "reading config %s", path)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parsing config %s", path)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Table resolves the grammar rules against the palette.
func (c Config) Table() (grammar.Table, error) {
	return grammar.BuildTable(c.Grammar, c.Palette)
}

// Validate checks the configuration for internal consistency.
func (c Config) Validate() error {
	if err := errors.ValidatePrecision(c.Precision); err != nil {
		return err
	}

	if c.Page.WidthMM <= 0 || c.Page.HeightMM <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "page dimensions must be positive, got %gx%g mm", c.Page.WidthMM, c.Page.HeightMM)
	}
	if c.Page.DPI <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "dpi must be positive, got %d", c.Page.DPI)
	}
	if c.Page.MarginRatio < 0 || c.Page.MarginRatio >= 0.5 {
		return errors.New(errors.ErrCodeInvalidConfig, "margin ratio %g outside [0, 0.5)", c.Page.MarginRatio)
	}

	if c.Grid.Columns <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "grid columns must be positive, got %d", c.Grid.Columns)
	}
	if c.Grid.Rows <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "grid rows must be positive, got %d", c.Grid.Rows)
	}
	if c.Grid.PerspectiveStartRow <= 0 || c.Grid.PerspectiveStartRow > c.Grid.Rows {
		return errors.New(errors.ErrCodeInvalidConfig, "perspective start row %d outside 1..%d", c.Grid.PerspectiveStartRow, c.Grid.Rows)
	}
	if c.Grid.Shrink <= 0 || c.Grid.Shrink >= 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "shrink %g outside (0, 1)", c.Grid.Shrink)
	}
	if c.Grid.MinRowHeightPx <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "min row height must be positive, got %g", c.Grid.MinRowHeightPx)
	}

	if err := errors.ValidateFontPreset(c.Labels.FontPreset); err != nil {
		return err
	}
	if c.Labels.SizeRatio <= 0 || c.Labels.SizeRatio > 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "label size ratio %g outside (0, 1]", c.Labels.SizeRatio)
	}
	if c.Labels.EmphasisSizeRatio <= 0 || c.Labels.EmphasisSizeRatio > 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "emphasis size ratio %g outside (0, 1]", c.Labels.EmphasisSizeRatio)
	}
	if c.Labels.InkThreshold < 0 || c.Labels.InkThreshold > 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "ink threshold %g outside [0, 1]", c.Labels.InkThreshold)
	}

	if c.Overlay.Enabled {
		if err := errors.ValidateGlyph(c.Overlay.Glyph); err != nil {
			return err
		}
		if c.Overlay.SizeRatio <= 0 || c.Overlay.SizeRatio > 1 {
			return errors.New(errors.ErrCodeInvalidConfig, "overlay size ratio %g outside (0, 1]", c.Overlay.SizeRatio)
		}
		if c.Overlay.TileMinPx <= 0 || c.Overlay.TileRatio <= 0 {
			return errors.New(errors.ErrCodeInvalidConfig, "overlay tile sizing must be positive")
		}
	}

	for _, alpha := range []float64{c.Overlay.WashAlpha, c.Overlay.QuarterAlpha, c.Overlay.TriangleAlpha, c.Overlay.ContourAlpha, c.Fade.MaxAlpha} {
		if alpha < 0 || alpha > 1 {
			return errors.New(errors.ErrCodeInvalidConfig, "alpha %g outside [0, 1]", alpha)
		}
	}

	if c.Fade.Enabled && c.Fade.HeightCM <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "fade height must be positive, got %g cm", c.Fade.HeightCM)
	}

	if _, err := c.Table(); err != nil {
		return err
	}

	return nil
}
