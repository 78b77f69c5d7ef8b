package sink

import (
	"bytes"
	"encoding/json"
	"image/png"
	"strings"
	"testing"

	"github.com/mkoster/pibauhaus/pkg/compose"
	"github.com/mkoster/pibauhaus/pkg/digits"
	"github.com/mkoster/pibauhaus/pkg/layout"
	"github.com/mkoster/pibauhaus/pkg/poster"
)

// testConfig returns a small page that keeps test plans fast.
func testConfig() poster.Config {
	cfg := poster.Default()
	cfg.Page.WidthMM = 100
	cfg.Page.HeightMM = 150
	cfg.Page.DPI = 25
	cfg.Grid.Columns = 5
	cfg.Grid.Rows = 10
	cfg.Grid.PerspectiveStartRow = 8
	cfg.Labels.Enabled = false
	return cfg
}

func testPlan(t *testing.T, cfg poster.Config) *compose.Plan {
	t.Helper()

	lay, err := layout.Build(cfg)
	if err != nil {
		t.Fatalf("layout.Build: %v", err)
	}

	stream, err := digits.FromString(strings.Repeat("1415926535897932384626433832795", 4))
	if err != nil {
		t.Fatalf("digits.FromString: %v", err)
	}

	plan, err := compose.Build(lay, stream, nil, cfg)
	if err != nil {
		t.Fatalf("compose.Build: %v", err)
	}
	return plan
}

func TestRenderSVG(t *testing.T) {
	cfg := testConfig()
	plan := testPlan(t, cfg)

	svg := RenderSVG(plan)
	text := string(svg)

	checks := []string{
		`<svg xmlns="http://www.w3.org/2000/svg"`,
		`fill="#f0f0e0"`, // cream background
		`<circle`,
		`<polygon`,
		`<clipPath id="clip`,       // glyph mosaic clip
		`<linearGradient id="fade`, // bottom fade
		"π",                        // overlay glyph as a raw UTF-8 rune
	}

	for _, want := range checks {
		if !strings.Contains(text, want) {
			t.Errorf("SVG output missing %q", want)
		}
	}

	if !strings.HasSuffix(text, "</svg>\n") {
		t.Error("SVG output not closed")
	}
}

func TestRenderSVGDeterministic(t *testing.T) {
	cfg := testConfig()
	plan := testPlan(t, cfg)

	a := RenderSVG(plan)
	b := RenderSVG(plan)
	if !bytes.Equal(a, b) {
		t.Error("two SVG renders of the same plan differ")
	}
}

func TestRenderSVGFontStackOverride(t *testing.T) {
	cfg := testConfig()
	plan := testPlan(t, cfg)

	svg := string(RenderSVG(plan, WithSVGFontStack("TestFamily, serif")))
	if !strings.Contains(svg, "TestFamily, serif") {
		t.Error("font stack override not applied")
	}
}

func TestRenderJSON(t *testing.T) {
	cfg := testConfig()
	plan := testPlan(t, cfg)

	data, err := RenderJSON(plan)
	if err != nil {
		t.Fatalf("RenderJSON: %v", err)
	}

	var decoded compose.Plan
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.PageW != plan.PageW || decoded.PageH != plan.PageH {
		t.Errorf("round-trip page size %dx%d, want %dx%d", decoded.PageW, decoded.PageH, plan.PageW, plan.PageH)
	}
	if len(decoded.Instructions) != len(plan.Instructions) {
		t.Errorf("round-trip instruction count %d, want %d", len(decoded.Instructions), len(plan.Instructions))
	}

	again, err := RenderJSON(plan)
	if err != nil {
		t.Fatalf("RenderJSON: %v", err)
	}
	if !bytes.Equal(data, again) {
		t.Error("two JSON renders of the same plan differ")
	}
}

func TestRenderPNG(t *testing.T) {
	cfg := testConfig()
	// No text instructions, so rendering needs no font files.
	cfg.Overlay.Enabled = false
	plan := testPlan(t, cfg)

	data, err := RenderPNG(plan)
	if err != nil {
		t.Fatalf("RenderPNG: %v", err)
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("output is not valid PNG: %v", err)
	}
	b := img.Bounds()
	if b.Dx() != plan.PageW || b.Dy() != plan.PageH {
		t.Errorf("PNG size %dx%d, want %dx%d", b.Dx(), b.Dy(), plan.PageW, plan.PageH)
	}
}

func TestRenderPNGDeterministic(t *testing.T) {
	cfg := testConfig()
	cfg.Overlay.Enabled = false
	plan := testPlan(t, cfg)

	a, err := RenderPNG(plan)
	if err != nil {
		t.Fatalf("RenderPNG: %v", err)
	}
	b, err := RenderPNG(plan)
	if err != nil {
		t.Fatalf("RenderPNG: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Error("two PNG renders of the same plan differ")
	}
}

func TestThumbnail(t *testing.T) {
	cfg := testConfig()
	cfg.Overlay.Enabled = false
	plan := testPlan(t, cfg)

	full, err := RenderPNG(plan)
	if err != nil {
		t.Fatalf("RenderPNG: %v", err)
	}

	thumb, err := Thumbnail(full, 32)
	if err != nil {
		t.Fatalf("Thumbnail: %v", err)
	}

	img, err := png.Decode(bytes.NewReader(thumb))
	if err != nil {
		t.Fatalf("thumbnail is not valid PNG: %v", err)
	}
	b := img.Bounds()
	if b.Dx() > 32 || b.Dy() > 32 {
		t.Errorf("thumbnail %dx%d exceeds 32px bounding box", b.Dx(), b.Dy())
	}

	if _, err := Thumbnail([]byte("not a png"), 32); err == nil {
		t.Error("Thumbnail should fail on invalid input")
	}
}
