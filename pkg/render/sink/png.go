package sink

import (
	"bytes"
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"

	"github.com/mkoster/pibauhaus/pkg/compose"
	"github.com/mkoster/pibauhaus/pkg/errors"
	"github.com/mkoster/pibauhaus/pkg/fonts"
	"github.com/mkoster/pibauhaus/pkg/grammar"
)

// labelRingSteps is the number of offset copies used to fake a text outline;
// gg cannot stroke glyph paths directly.
const labelRingSteps = 16

// PNGOption configures PNG rendering via [RenderPNG].
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	faces map[faceKey]font.Face
}

type faceKey struct {
	preset string
	size   float64
}

// RenderPNG rasterizes the plan at its native pixel size. Text instructions
// resolve real font files through pkg/fonts; a plan without text renders on
// systems with no fonts installed at all.
func RenderPNG(p *compose.Plan, opts ...PNGOption) ([]byte, error) {
	r := pngRenderer{faces: make(map[faceKey]font.Face)}
	for _, opt := range opts {
		opt(&r)
	}

	dc := gg.NewContext(p.PageW, p.PageH)

	for _, in := range p.Instructions {
		if err := r.draw(dc, p, in); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, err, "encoding png")
	}
	return buf.Bytes(), nil
}

func (r *pngRenderer) draw(dc *gg.Context, p *compose.Plan, in compose.Instruction) error {
	switch in.Op {
	case compose.OpBackground:
		setFill(dc, in.Fill, in.FillAlpha)
		dc.DrawRectangle(0, 0, in.W, in.H)
		dc.Fill()

	case compose.OpCircle:
		setFill(dc, in.Fill, in.FillAlpha)
		dc.DrawCircle(in.X, in.Y, in.R)
		dc.Fill()

	case compose.OpRect:
		setFill(dc, in.Fill, in.FillAlpha)
		dc.DrawRectangle(in.X, in.Y, in.W, in.H)
		dc.Fill()

	case compose.OpTriangle:
		setFill(dc, in.Fill, in.FillAlpha)
		dc.MoveTo(in.X, in.Y)
		dc.LineTo(in.X2, in.Y2)
		dc.LineTo(in.X3, in.Y3)
		dc.ClosePath()
		dc.Fill()

	case compose.OpWedge:
		setFill(dc, in.Fill, in.FillAlpha)
		dc.MoveTo(in.X, in.Y)
		dc.DrawArc(in.X, in.Y, in.R, in.A1, in.A2)
		dc.ClosePath()
		dc.Fill()

	case compose.OpLabel:
		return r.drawLabel(dc, in)

	case compose.OpGlyphWash:
		face, err := r.face(in.Font, in.Size)
		if err != nil {
			return err
		}
		dc.SetFontFace(face)
		setFill(dc, in.Fill, in.FillAlpha)
		dc.DrawStringAnchored(in.Text, in.X, in.Y, 0.5, 0.5)

	case compose.OpClipGlyph:
		mask, err := r.glyphMask(p, in, 0)
		if err != nil {
			return err
		}
		if err := dc.SetMask(mask); err != nil {
			return errors.Wrap(errors.ErrCodeRender, err, "applying glyph clip mask")
		}

	case compose.OpResetClip:
		dc.ResetClip()

	case compose.OpGlyphContour:
		return r.drawContour(dc, p, in)

	case compose.OpFade:
		grad := gg.NewLinearGradient(in.X, in.Y, in.X, in.Y+in.H)
		fr, fg, fb := in.Fill.Floats()
		grad.AddColorStop(0, rgba(fr, fg, fb, in.FillAlpha))
		grad.AddColorStop(1, rgba(fr, fg, fb, in.FadeTo))
		dc.SetFillStyle(grad)
		dc.DrawRectangle(in.X, in.Y, in.W, in.H)
		dc.Fill()

	default:
		return errors.New(errors.ErrCodeRender, "unsupported draw op %q", in.Op)
	}

	return nil
}

// drawLabel paints a digit glyph. The outline is a ring of offset copies in
// the stroke color under the fill copy.
func (r *pngRenderer) drawLabel(dc *gg.Context, in compose.Instruction) error {
	face, err := r.face(in.Font, in.Size)
	if err != nil {
		return err
	}
	dc.SetFontFace(face)

	if in.StrokeWidth > 0 {
		setFill(dc, in.StrokeColor, in.StrokeAlpha)
		for i := 0; i < labelRingSteps; i++ {
			a := float64(i) / labelRingSteps * 2 * math.Pi
			dc.DrawStringAnchored(in.Text, in.X+in.StrokeWidth*math.Cos(a), in.Y+in.StrokeWidth*math.Sin(a), 0.5, 0.5)
		}
	}

	setFill(dc, in.Fill, in.FillAlpha)
	dc.DrawStringAnchored(in.Text, in.X, in.Y, 0.5, 0.5)
	return nil
}

// drawContour paints a thin glyph outline: the alpha ring between a dilated
// glyph mask and the glyph itself, filled with the stroke color.
func (r *pngRenderer) drawContour(dc *gg.Context, p *compose.Plan, in compose.Instruction) error {
	inner, err := r.glyphMask(p, in, 0)
	if err != nil {
		return err
	}
	outer, err := r.glyphMask(p, in, in.StrokeWidth)
	if err != nil {
		return err
	}

	ring := image.NewAlpha(outer.Bounds())
	for i := range ring.Pix {
		if outer.Pix[i] > inner.Pix[i] {
			ring.Pix[i] = outer.Pix[i] - inner.Pix[i]
		}
	}

	if err := dc.SetMask(ring); err != nil {
		return errors.Wrap(errors.ErrCodeRender, err, "applying contour mask")
	}
	setFill(dc, in.StrokeColor, in.StrokeAlpha)
	dc.DrawRectangle(0, 0, float64(p.PageW), float64(p.PageH))
	dc.Fill()
	dc.ResetClip()
	return nil
}

// glyphMask renders the glyph as a page-sized alpha mask. A non-zero dilate
// draws a ring of offset copies, growing the covered area by that many pixels.
func (r *pngRenderer) glyphMask(p *compose.Plan, in compose.Instruction, dilate float64) (*image.Alpha, error) {
	face, err := r.face(in.Font, in.Size)
	if err != nil {
		return nil, err
	}

	mc := gg.NewContext(p.PageW, p.PageH)
	mc.SetFontFace(face)
	mc.SetRGB(1, 1, 1)
	if dilate > 0 {
		for i := 0; i < labelRingSteps; i++ {
			a := float64(i) / labelRingSteps * 2 * math.Pi
			mc.DrawStringAnchored(in.Text, in.X+dilate*math.Cos(a), in.Y+dilate*math.Sin(a), 0.5, 0.5)
		}
	}
	mc.DrawStringAnchored(in.Text, in.X, in.Y, 0.5, 0.5)

	return mc.AsMask(), nil
}

func (r *pngRenderer) face(preset string, size float64) (font.Face, error) {
	key := faceKey{preset: preset, size: size}
	if f, ok := r.faces[key]; ok {
		return f, nil
	}
	f, err := fonts.Face(preset, size)
	if err != nil {
		return nil, err
	}
	r.faces[key] = f
	return f, nil
}

func setFill(dc *gg.Context, c grammar.Color, alpha float64) {
	cr, cg, cb := c.Floats()
	dc.SetRGBA(cr, cg, cb, alpha)
}

func rgba(r, g, b, a float64) color.Color {
	return color.NRGBA{
		R: uint8(r*255 + 0.5),
		G: uint8(g*255 + 0.5),
		B: uint8(b*255 + 0.5),
		A: uint8(a*255 + 0.5),
	}
}
