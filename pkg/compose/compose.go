package compose

import (
	"math"
	"strconv"

	"github.com/mkoster/pibauhaus/pkg/digits"
	"github.com/mkoster/pibauhaus/pkg/grammar"
	"github.com/mkoster/pibauhaus/pkg/layout"
	"github.com/mkoster/pibauhaus/pkg/poster"
)

// Motif trim factors keep neighboring shapes from touching at full scale.
const (
	circleTrim   = 0.95
	squareTrim   = 0.95
	triangleGrow = 1.05
	wedgeTrim    = 0.98
)

// furniture marks instructions that render page chrome rather than a cell.
const furniture = -1

// Cells enriches the first min(stream length, capacity) layout cells with
// digits and styles. A located run repaints its cells gold; the run may be
// nil when the stream holds none.
func Cells(lay *layout.Layout, stream *digits.Stream, run *digits.Run, cfg poster.Config) ([]Cell, error) {
	table, err := cfg.Table()
	if err != nil {
		return nil, err
	}

	n := stream.Len()
	if capacity := lay.Capacity(); n > capacity {
		n = capacity
	}
	view := lay.Truncate(n)

	cells := make([]Cell, 0, n)
	for _, lc := range view.Cells {
		d, err := stream.DigitAt(lc.Index)
		if err != nil {
			return nil, err
		}
		style, err := table.StyleFor(d)
		if err != nil {
			return nil, err
		}

		c := Cell{
			Cell:  lc,
			Digit: d,
			Shape: style.Shape,
			Fill:  style.Fill,
			Scale: style.Scale,
		}
		if run != nil && run.Contains(lc.Index) {
			c.Emphasized = true
			c.Fill = cfg.Palette.Gold
		}
		if cfg.Labels.Enabled {
			c.Label = strconv.Itoa(d)
		}
		cells = append(cells, c)
	}

	return cells, nil
}

// Build assembles the full drawing plan: enriched cells plus the ordered
// instruction list.
func Build(lay *layout.Layout, stream *digits.Stream, run *digits.Run, cfg poster.Config) (*Plan, error) {
	cells, err := Cells(lay, stream, run, cfg)
	if err != nil {
		return nil, err
	}

	p := &Plan{
		PageW: lay.PageW,
		PageH: lay.PageH,
		Cells: cells,
	}

	p.Instructions = append(p.Instructions, Instruction{
		Op:        OpBackground,
		W:         float64(lay.PageW),
		H:         float64(lay.PageH),
		Fill:      cfg.Palette.Cream,
		FillAlpha: 1,
		Index:     furniture,
	})

	for i := range cells {
		p.Instructions = append(p.Instructions, motif(&cells[i]))
		if cells[i].Label != "" {
			p.Instructions = append(p.Instructions, label(&cells[i], cfg))
		}
	}

	if cfg.Overlay.Enabled {
		appendOverlay(p, lay, cfg)
	}
	if cfg.Fade.Enabled {
		appendFade(p, lay, cfg)
	}

	p.Meta = metadata(lay, stream, run, cfg, len(cells))
	return p, nil
}

// motif renders a cell's shape. Triangles and wedges rotate with the stream
// index so repeated digits do not stamp identical marks.
func motif(c *Cell) Instruction {
	size := c.Base * c.Scale
	radius := size / 2

	in := Instruction{
		Fill:      c.Fill,
		FillAlpha: 1,
		Index:     c.Index,
	}

	switch c.Shape {
	case grammar.ShapeCircle:
		in.Op = OpCircle
		in.X = c.CX
		in.Y = c.CY
		in.R = radius * circleTrim

	case grammar.ShapeSquare:
		side := size * squareTrim
		in.Op = OpRect
		in.X = c.CX - side/2
		in.Y = c.CY - side/2
		in.W = side
		in.H = side

	case grammar.ShapeTriangle:
		r := radius * triangleGrow
		orient := float64(c.Index%4) * (math.Pi / 2)
		in.Op = OpTriangle
		in.X = c.CX + r*math.Cos(orient-math.Pi/2)
		in.Y = c.CY + r*math.Sin(orient-math.Pi/2)
		in.X2 = c.CX + r*math.Cos(orient+math.Pi/6)
		in.Y2 = c.CY + r*math.Sin(orient+math.Pi/6)
		in.X3 = c.CX + r*math.Cos(orient+5*math.Pi/6)
		in.Y3 = c.CY + r*math.Sin(orient+5*math.Pi/6)

	case grammar.ShapeQuarter:
		in.Op = OpWedge
		in.X = c.CX
		in.Y = c.CY
		in.R = radius * wedgeTrim
		in.A1 = float64(c.Index%4) * (math.Pi / 2)
		in.A2 = in.A1 + math.Pi/2
	}

	return in
}

// label renders a cell's digit glyph. Emphasized cells get white ink with a
// black contour; the rest pick black or white against the fill brightness.
func label(c *Cell, cfg poster.Config) Instruction {
	in := Instruction{
		Op:    OpLabel,
		X:     c.CX,
		Y:     c.CY,
		Text:  c.Label,
		Font:  cfg.Labels.FontPreset,
		Index: c.Index,
	}

	if c.Emphasized {
		in.Size = c.Base * cfg.Labels.EmphasisSizeRatio
		in.Fill = cfg.Palette.White
		in.FillAlpha = 1
		in.StrokeColor = cfg.Palette.Black
		in.StrokeAlpha = 1
		in.StrokeWidth = math.Max(0.8, in.Size*0.12)
		return in
	}

	in.Size = c.Base * cfg.Labels.SizeRatio
	in.FillAlpha = 1
	if c.Fill.Luminance() > cfg.Labels.InkThreshold {
		in.Fill = cfg.Palette.Black
	} else {
		in.Fill = cfg.Palette.White
	}
	return in
}

// appendOverlay emits the big glyph wash, a glyph-clipped two-tone mosaic,
// and a thin contour that keeps the glyph legible over the grid.
func appendOverlay(p *Plan, lay *layout.Layout, cfg poster.Config) {
	pageW := float64(lay.PageW)
	pageH := float64(lay.PageH)
	minEdge := math.Min(pageW, pageH)

	glyphSize := minEdge * cfg.Overlay.SizeRatio
	cx := pageW / 2
	cy := pageH/2 - lay.RowHeight*cfg.Overlay.RaiseRows

	p.Instructions = append(p.Instructions, Instruction{
		Op:        OpGlyphWash,
		X:         cx,
		Y:         cy,
		Size:      glyphSize,
		Text:      cfg.Overlay.Glyph,
		Font:      cfg.Labels.FontPreset,
		Fill:      cfg.Palette.Black,
		FillAlpha: cfg.Overlay.WashAlpha,
		Index:     furniture,
	})

	p.Instructions = append(p.Instructions, Instruction{
		Op:    OpClipGlyph,
		X:     cx,
		Y:     cy,
		Size:  glyphSize,
		Text:  cfg.Overlay.Glyph,
		Font:  cfg.Labels.FontPreset,
		Index: furniture,
	})

	tile := math.Max(cfg.Overlay.TileMinPx, minEdge*cfg.Overlay.TileRatio)
	cols := int(math.Ceil(pageW/tile)) + 1
	rows := int(math.Ceil(pageH/tile)) + 1

	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			x0 := float64(c) * tile
			y0 := float64(r) * tile
			if (r+c)%2 == 0 {
				p.Instructions = append(p.Instructions, quarterTile(x0, y0, tile, (r*3+c)%4, cfg))
			} else {
				p.Instructions = append(p.Instructions, triangleTile(x0, y0, tile, (r+c*2)%4, cfg))
			}
		}
	}

	p.Instructions = append(p.Instructions, Instruction{
		Op:    OpResetClip,
		Index: furniture,
	})

	p.Instructions = append(p.Instructions, Instruction{
		Op:          OpGlyphContour,
		X:           cx,
		Y:           cy,
		Size:        glyphSize,
		Text:        cfg.Overlay.Glyph,
		Font:        cfg.Labels.FontPreset,
		StrokeColor: cfg.Palette.Black,
		StrokeAlpha: cfg.Overlay.ContourAlpha,
		StrokeWidth: math.Max(cfg.Overlay.ContourMinWidth, minEdge*cfg.Overlay.ContourWidthRatio),
		Index:       furniture,
	})
}

// quarterTile is a quarter-disc pie anchored at one tile corner, rotating
// with its position in the mosaic.
func quarterTile(x0, y0, tile float64, orient int, cfg poster.Config) Instruction {
	in := Instruction{
		Op:        OpWedge,
		R:         tile,
		Fill:      cfg.Overlay.QuarterTone,
		FillAlpha: cfg.Overlay.QuarterAlpha,
		Index:     furniture,
	}

	switch orient {
	case 0:
		in.X, in.Y, in.A1 = x0, y0, 0
	case 1:
		in.X, in.Y, in.A1 = x0+tile, y0, math.Pi/2
	case 2:
		in.X, in.Y, in.A1 = x0+tile, y0+tile, math.Pi
	default:
		in.X, in.Y, in.A1 = x0, y0+tile, 3*math.Pi/2
	}
	in.A2 = in.A1 + math.Pi/2
	return in
}

// triangleTile is a right triangle filling half a tile, rotating with its
// position in the mosaic.
func triangleTile(x0, y0, tile float64, orient int, cfg poster.Config) Instruction {
	in := Instruction{
		Op:        OpTriangle,
		Fill:      cfg.Overlay.TriangleTone,
		FillAlpha: cfg.Overlay.TriangleAlpha,
		Index:     furniture,
	}

	switch orient {
	case 0:
		in.X, in.Y, in.X2, in.Y2, in.X3, in.Y3 = x0, y0, x0+tile, y0, x0, y0+tile
	case 1:
		in.X, in.Y, in.X2, in.Y2, in.X3, in.Y3 = x0+tile, y0, x0+tile, y0+tile, x0, y0
	case 2:
		in.X, in.Y, in.X2, in.Y2, in.X3, in.Y3 = x0+tile, y0+tile, x0, y0+tile, x0+tile, y0
	default:
		in.X, in.Y, in.X2, in.Y2, in.X3, in.Y3 = x0, y0+tile, x0, y0, x0+tile, y0+tile
	}
	return in
}

// appendFade emits the white print-finishing fade across the page bottom.
func appendFade(p *Plan, lay *layout.Layout, cfg poster.Config) {
	fadeH := cfg.Fade.HeightCM * 10 / poster.MMPerInch * float64(cfg.Page.DPI)
	if fadeH > float64(lay.PageH) {
		fadeH = float64(lay.PageH)
	}

	p.Instructions = append(p.Instructions, Instruction{
		Op:        OpFade,
		X:         0,
		Y:         float64(lay.PageH) - fadeH,
		W:         float64(lay.PageW),
		H:         fadeH,
		Fill:      cfg.Palette.White,
		FillAlpha: 0,
		FadeTo:    cfg.Fade.MaxAlpha,
		Index:     furniture,
	})
}

// metadata echoes the resolved run parameters.
func metadata(lay *layout.Layout, stream *digits.Stream, run *digits.Run, cfg poster.Config, placed int) poster.Metadata {
	m := poster.Metadata{
		Precision:    stream.Len(),
		CellsPlaced:  placed,
		Capacity:     lay.Capacity(),
		Columns:      cfg.Grid.Columns,
		MainRows:     cfg.Grid.PerspectiveStartRow,
		PageWidthPx:  lay.PageW,
		PageHeightPx: lay.PageH,
		Shrink:       cfg.Grid.Shrink,
		Labels:       cfg.Labels.Enabled,
		FontPreset:   cfg.Labels.FontPreset,
	}

	for _, r := range lay.Truncate(placed).Rows {
		if r.Zone == layout.ZonePerspective {
			m.PerspectiveRows++
		}
	}

	if run != nil {
		r := *run
		m.Feynman = &r
	}
	return m
}
