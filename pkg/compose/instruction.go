// Package compose turns placed cells and digits into an ordered drawing
// plan.
//
// The plan is a flat list of instructions replayed by each sink. Order is
// z-order: background, then cell motifs and labels in stream order, then the
// glyph overlay, then the bottom fade. Two runs over the same inputs emit
// identical instruction lists, so artifact bytes depend only on the config
// and the digit stream.
package compose

import (
	"github.com/mkoster/pibauhaus/pkg/grammar"
	"github.com/mkoster/pibauhaus/pkg/layout"
	"github.com/mkoster/pibauhaus/pkg/poster"
)

// Op tags an instruction with its drawing primitive.
type Op string

// Drawing primitives understood by every sink.
const (
	OpBackground   Op = "background"    // full-page fill
	OpCircle       Op = "circle"        // filled disc at (X, Y) radius R
	OpRect         Op = "rect"          // filled rect from (X, Y), size W x H
	OpTriangle     Op = "triangle"      // filled triangle (X,Y) (X2,Y2) (X3,Y3)
	OpWedge        Op = "wedge"         // filled pie at (X, Y), radius R, A1..A2
	OpLabel        Op = "label"         // digit glyph centered on (X, Y)
	OpGlyphWash    Op = "glyph_wash"    // translucent overlay glyph fill
	OpClipGlyph    Op = "clip_glyph"    // begin glyph-shaped clip region
	OpResetClip    Op = "reset_clip"    // end the clip region
	OpGlyphContour Op = "glyph_contour" // stroked overlay glyph outline
	OpFade         Op = "fade"          // vertical fade rect, FillAlpha to FadeTo
)

// Instruction is one drawing step. Fields beyond the ones an op needs stay
// zero. All text renders bold; angles are radians with y pointing down.
type Instruction struct {
	Op Op `json:"op"`

	X  float64 `json:"x,omitempty"`
	Y  float64 `json:"y,omitempty"`
	W  float64 `json:"w,omitempty"`
	H  float64 `json:"h,omitempty"`
	R  float64 `json:"r,omitempty"`
	X2 float64 `json:"x2,omitempty"`
	Y2 float64 `json:"y2,omitempty"`
	X3 float64 `json:"x3,omitempty"`
	Y3 float64 `json:"y3,omitempty"`
	A1 float64 `json:"a1,omitempty"`
	A2 float64 `json:"a2,omitempty"`

	Fill      grammar.Color `json:"fill"`
	FillAlpha float64       `json:"fill_alpha"`

	// A zero StrokeWidth means no stroke.
	StrokeColor grammar.Color `json:"stroke_color"`
	StrokeAlpha float64       `json:"stroke_alpha"`
	StrokeWidth float64       `json:"stroke_width"`

	Text string  `json:"text,omitempty"`
	Size float64 `json:"size,omitempty"` // font size in px
	Font string  `json:"font,omitempty"` // font preset name

	FadeTo float64 `json:"fade_to,omitempty"`

	// Index is the stream index of the cell this instruction renders,
	// or -1 for page furniture.
	Index int `json:"index"`
}

// Cell is a placed cell enriched with its digit and resolved style.
type Cell struct {
	layout.Cell

	Digit      int                 `json:"digit"`
	Shape      grammar.ShapeFamily `json:"shape"`
	Fill       grammar.Color       `json:"fill"`
	Scale      float64             `json:"scale"`
	Emphasized bool                `json:"emphasized"`
	Label      string              `json:"label,omitempty"`
}

// Plan is the complete drawing plan for one poster.
type Plan struct {
	PageW int `json:"page_w"`
	PageH int `json:"page_h"`

	Meta         poster.Metadata `json:"meta"`
	Cells        []Cell          `json:"cells"`
	Instructions []Instruction   `json:"instructions"`
}
