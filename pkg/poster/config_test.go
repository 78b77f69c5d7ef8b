package poster

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestDefaultLabelsEnabled(t *testing.T) {
	cfg := Default()
	if !cfg.Labels.Enabled {
		t.Error("Labels.Enabled = false, want labels on by default")
	}
	if cfg.Labels.FontPreset != "inter" {
		t.Errorf("Labels.FontPreset = %q, want inter", cfg.Labels.FontPreset)
	}
}

func TestPagePixels(t *testing.T) {
	page := Default().Page

	// 329 x 483 mm at 300 dpi.
	if got := page.WidthPx(); got != 3886 {
		t.Errorf("WidthPx() = %d, want 3886", got)
	}
	if got := page.HeightPx(); got != 5705 {
		t.Errorf("HeightPx() = %d, want 5705", got)
	}
}

func TestLoadFileMergesOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "poster.toml")

	content := `
precision = 1000

[grid]
columns = 40
perspective_start_row = 20

[labels]
enabled = true
font_preset = "jetbrains-mono"

[palette]
gold = "#c0a030"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	if cfg.Precision != 1000 {
		t.Errorf("Precision = %d, want 1000", cfg.Precision)
	}
	if cfg.Grid.Columns != 40 {
		t.Errorf("Grid.Columns = %d, want 40", cfg.Grid.Columns)
	}
	if cfg.Grid.PerspectiveStartRow != 20 {
		t.Errorf("Grid.PerspectiveStartRow = %d, want 20", cfg.Grid.PerspectiveStartRow)
	}
	if !cfg.Labels.Enabled {
		t.Error("Labels.Enabled = false, want true")
	}
	if cfg.Labels.FontPreset != "jetbrains-mono" {
		t.Errorf("Labels.FontPreset = %q, want jetbrains-mono", cfg.Labels.FontPreset)
	}

	// Untouched sections keep their defaults.
	if cfg.Page.WidthMM != 329 {
		t.Errorf("Page.WidthMM = %g, want default 329", cfg.Page.WidthMM)
	}
	if cfg.Grid.Shrink != 0.90 {
		t.Errorf("Grid.Shrink = %g, want default 0.90", cfg.Grid.Shrink)
	}

	// Palette overrides decode through the hex text format.
	if cfg.Palette.Gold.Hex() != "#c0a030" {
		t.Errorf("Palette.Gold = %s, want #c0a030", cfg.Palette.Gold.Hex())
	}
	if cfg.Palette.Red != Default().Palette.Red {
		t.Error("Palette.Red should keep its default")
	}
}

func TestLoadFileErrors(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		if _, err := LoadFile(filepath.Join(dir, "absent.toml")); err == nil {
			t.Error("expected error for missing file")
		}
	})

	t.Run("malformed toml", func(t *testing.T) {
		path := filepath.Join(dir, "broken.toml")
		if err := os.WriteFile(path, []byte("precision = ["), 0o644); err != nil {
			t.Fatalf("writing fixture: %v", err)
		}
		if _, err := LoadFile(path); err == nil {
			t.Error("expected error for malformed toml")
		}
	})

	t.Run("fails validation", func(t *testing.T) {
		path := filepath.Join(dir, "invalid.toml")
		if err := os.WriteFile(path, []byte("[grid]\nshrink = 1.5\n"), 0o644); err != nil {
			t.Fatalf("writing fixture: %v", err)
		}
		if _, err := LoadFile(path); err == nil {
			t.Error("expected error for invalid shrink")
		}
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		remix func(*Config)
	}{
		{"negative precision", func(c *Config) { c.Precision = -1 }},
		{"zero width", func(c *Config) { c.Page.WidthMM = 0 }},
		{"zero dpi", func(c *Config) { c.Page.DPI = 0 }},
		{"margin too large", func(c *Config) { c.Page.MarginRatio = 0.5 }},
		{"zero columns", func(c *Config) { c.Grid.Columns = 0 }},
		{"zero rows", func(c *Config) { c.Grid.Rows = 0 }},
		{"perspective start beyond rows", func(c *Config) { c.Grid.PerspectiveStartRow = c.Grid.Rows + 1 }},
		{"perspective start zero", func(c *Config) { c.Grid.PerspectiveStartRow = 0 }},
		{"shrink one", func(c *Config) { c.Grid.Shrink = 1 }},
		{"shrink zero", func(c *Config) { c.Grid.Shrink = 0 }},
		{"zero min row height", func(c *Config) { c.Grid.MinRowHeightPx = 0 }},
		{"bad font preset", func(c *Config) { c.Labels.FontPreset = "Comic Sans" }},
		{"label ratio zero", func(c *Config) { c.Labels.SizeRatio = 0 }},
		{"glyph with two runes", func(c *Config) { c.Overlay.Glyph = "pi" }},
		{"wash alpha above one", func(c *Config) { c.Overlay.WashAlpha = 1.5 }},
		{"fade height zero", func(c *Config) { c.Fade.HeightCM = 0 }},
		{"grammar rule dropped", func(c *Config) { c.Grammar = c.Grammar[:5] }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.remix(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() expected error, got nil")
			}
		})
	}
}

func TestDisabledOverlaySkipsGlyphChecks(t *testing.T) {
	cfg := Default()
	cfg.Overlay.Enabled = false
	cfg.Overlay.Glyph = ""

	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() with disabled overlay: %v", err)
	}
}

func TestTableResolves(t *testing.T) {
	table, err := Default().Table()
	if err != nil {
		t.Fatalf("Table: %v", err)
	}

	style, err := table.StyleFor(9)
	if err != nil {
		t.Fatalf("StyleFor(9): %v", err)
	}
	if style.Fill != Default().Palette.Yellow {
		t.Errorf("digit 9 fill = %s, want palette yellow", style.Fill.Hex())
	}
}
