package grammar

import (
	"math"
	"testing"
)

func TestDefaultTable(t *testing.T) {
	table := DefaultTable()
	pal := DefaultPalette()

	tests := []struct {
		digit     int
		wantShape ShapeFamily
		wantFill  Color
	}{
		{0, ShapeCircle, pal.Red},
		{1, ShapeCircle, pal.Yellow},
		{2, ShapeCircle, pal.Blue},
		{3, ShapeSquare, pal.Black},
		{4, ShapeSquare, pal.Red},
		{5, ShapeSquare, pal.Yellow},
		{6, ShapeTriangle, pal.Blue},
		{7, ShapeTriangle, pal.Black},
		{8, ShapeTriangle, pal.Red},
		{9, ShapeQuarter, pal.Yellow},
	}

	for _, tt := range tests {
		style, err := table.StyleFor(tt.digit)
		if err != nil {
			t.Fatalf("StyleFor(%d): %v", tt.digit, err)
		}
		if style.Shape != tt.wantShape {
			t.Errorf("digit %d shape = %v, want %v", tt.digit, style.Shape, tt.wantShape)
		}
		if style.Fill != tt.wantFill {
			t.Errorf("digit %d fill = %v, want %v", tt.digit, style.Fill.Hex(), tt.wantFill.Hex())
		}
	}
}

func TestScaleRamp(t *testing.T) {
	table := DefaultTable()

	s0, _ := table.StyleFor(0)
	if math.Abs(s0.Scale-0.22) > 1e-9 {
		t.Errorf("scale for 0 = %v, want 0.22", s0.Scale)
	}

	s9, _ := table.StyleFor(9)
	if math.Abs(s9.Scale-0.98) > 1e-9 {
		t.Errorf("scale for 9 = %v, want 0.98", s9.Scale)
	}

	// Strictly increasing with the digit value.
	prev := s0.Scale
	for d := 1; d <= 9; d++ {
		s, err := table.StyleFor(d)
		if err != nil {
			t.Fatalf("StyleFor(%d): %v", d, err)
		}
		if s.Scale <= prev {
			t.Errorf("scale for %d = %v, not above %v", d, s.Scale, prev)
		}
		prev = s.Scale
	}
}

func TestStyleForInvalidDigit(t *testing.T) {
	table := DefaultTable()

	for _, d := range []int{-1, 10, 42} {
		if _, err := table.StyleFor(d); err == nil {
			t.Errorf("StyleFor(%d) expected error, got nil", d)
		}
	}
}

func TestBuildTableValidation(t *testing.T) {
	pal := DefaultPalette()

	tests := []struct {
		name  string
		remix func([]Rule) []Rule
	}{
		{
			name: "missing digit",
			remix: func(rules []Rule) []Rule {
				return rules[:9]
			},
		},
		{
			name: "duplicate digit",
			remix: func(rules []Rule) []Rule {
				rules[9].Digit = 0
				return rules
			},
		},
		{
			name: "unknown shape",
			remix: func(rules []Rule) []Rule {
				rules[0].Shape = "hexagon"
				return rules
			},
		},
		{
			name: "unknown color",
			remix: func(rules []Rule) []Rule {
				rules[0].Color = "mauve"
				return rules
			},
		},
		{
			name: "zero scale",
			remix: func(rules []Rule) []Rule {
				rules[0].Scale = 0
				return rules
			},
		},
		{
			name: "scale above one",
			remix: func(rules []Rule) []Rule {
				rules[0].Scale = 1.2
				return rules
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := BuildTable(tt.remix(DefaultRules()), pal); err == nil {
				t.Error("BuildTable expected error, got nil")
			}
		})
	}
}

func TestBuildTableHexColor(t *testing.T) {
	rules := DefaultRules()
	rules[0].Color = "#336699"

	table, err := BuildTable(rules, DefaultPalette())
	if err != nil {
		t.Fatalf("BuildTable: %v", err)
	}

	style, _ := table.StyleFor(0)
	if style.Fill != (Color{0x33, 0x66, 0x99}) {
		t.Errorf("fill = %v, want #336699", style.Fill.Hex())
	}
}

func TestParseHex(t *testing.T) {
	tests := []struct {
		input   string
		want    Color
		wantErr bool
	}{
		{"#d02020", Color{0xD0, 0x20, 0x20}, false},
		{"#1D5BB6", Color{0x1D, 0x5B, 0xB6}, false},
		{"#f00", Color{0xFF, 0x00, 0x00}, false},
		{"d02020", Color{}, true},
		{"#d0202", Color{}, true},
		{"", Color{}, true},
	}

	for _, tt := range tests {
		got, err := ParseHex(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseHex(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if err == nil && got != tt.want {
			t.Errorf("ParseHex(%q) = %v, want %v", tt.input, got.Hex(), tt.want.Hex())
		}
	}
}

func TestLuminance(t *testing.T) {
	tests := []struct {
		name  string
		color Color
		dark  bool // above the 0.58 ink threshold means a light fill
	}{
		{"yellow is light", DefaultPalette().Yellow, false},
		{"cream is light", DefaultPalette().Cream, false},
		{"white is light", DefaultPalette().White, false},
		{"red is dark", DefaultPalette().Red, true},
		{"blue is dark", DefaultPalette().Blue, true},
		{"black is dark", DefaultPalette().Black, true},
		{"gold is light", DefaultPalette().Gold, false},
	}

	const threshold = 0.58
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lum := tt.color.Luminance()
			if tt.dark && lum > threshold {
				t.Errorf("luminance = %v, expected at or below %v", lum, threshold)
			}
			if !tt.dark && lum <= threshold {
				t.Errorf("luminance = %v, expected above %v", lum, threshold)
			}
		})
	}
}

func TestColorTextRoundTrip(t *testing.T) {
	c := Color{0xD4, 0xAF, 0x37}

	text, err := c.MarshalText()
	if err != nil {
		t.Fatalf("MarshalText: %v", err)
	}
	if string(text) != "#d4af37" {
		t.Errorf("MarshalText = %q, want %q", text, "#d4af37")
	}

	var back Color
	if err := back.UnmarshalText(text); err != nil {
		t.Fatalf("UnmarshalText: %v", err)
	}
	if back != c {
		t.Errorf("round trip = %v, want %v", back, c)
	}
}
