package sink

import (
	"bytes"
	"fmt"
	"math"

	"github.com/mkoster/pibauhaus/pkg/compose"
	"github.com/mkoster/pibauhaus/pkg/fonts"
)

// SVGOption configures SVG rendering via [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	title     string
	fontStack string
}

// WithSVGTitle sets the document title element.
func WithSVGTitle(title string) SVGOption {
	return func(r *svgRenderer) { r.title = title }
}

// WithSVGFontStack overrides the CSS font-family stack for all text. Without
// this, each text instruction resolves its preset through pkg/fonts.
func WithSVGFontStack(stack string) SVGOption {
	return func(r *svgRenderer) { r.fontStack = stack }
}

// RenderSVG writes the plan as an SVG document. Output is deterministic: the
// same plan and options produce identical bytes.
func RenderSVG(p *compose.Plan, opts ...SVGOption) []byte {
	r := svgRenderer{title: "pi bauhaus poster"}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" width="%d" height="%d">`+"\n",
		p.PageW, p.PageH, p.PageW, p.PageH)
	fmt.Fprintf(&buf, "  <title>%s</title>\n", xmlEscape(r.title))

	r.renderDefs(&buf, p)
	r.renderBody(&buf, p)

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// renderDefs emits gradient and clip-path definitions. Ids derive from the
// instruction position, keeping them stable across runs.
func (r *svgRenderer) renderDefs(buf *bytes.Buffer, p *compose.Plan) {
	var defs bytes.Buffer

	for i, in := range p.Instructions {
		switch in.Op {
		case compose.OpFade:
			fmt.Fprintf(&defs, `    <linearGradient id="fade%d" x1="0" y1="0" x2="0" y2="1">`+"\n", i)
			fmt.Fprintf(&defs, `      <stop offset="0" stop-color="%s" stop-opacity="%s"/>`+"\n", in.Fill.Hex(), ftoa(in.FillAlpha))
			fmt.Fprintf(&defs, `      <stop offset="1" stop-color="%s" stop-opacity="%s"/>`+"\n", in.Fill.Hex(), ftoa(in.FadeTo))
			defs.WriteString("    </linearGradient>\n")

		case compose.OpClipGlyph:
			fmt.Fprintf(&defs, `    <clipPath id="clip%d">`+"\n", i)
			fmt.Fprintf(&defs, `      <text x="%s" y="%s" font-size="%s" font-family="%s" font-weight="700" text-anchor="middle" dy="0.35em">%s</text>`+"\n",
				ftoa(in.X), ftoa(in.Y), ftoa(in.Size), xmlEscape(r.stackFor(in.Font)), xmlEscape(in.Text))
			defs.WriteString("    </clipPath>\n")
		}
	}

	if defs.Len() > 0 {
		buf.WriteString("  <defs>\n")
		buf.Write(defs.Bytes())
		buf.WriteString("  </defs>\n")
	}
}

func (r *svgRenderer) renderBody(buf *bytes.Buffer, p *compose.Plan) {
	clipped := false

	for i, in := range p.Instructions {
		switch in.Op {
		case compose.OpBackground:
			fmt.Fprintf(buf, `  <rect x="0" y="0" width="%s" height="%s" fill="%s"/>`+"\n",
				ftoa(in.W), ftoa(in.H), in.Fill.Hex())

		case compose.OpCircle:
			fmt.Fprintf(buf, `  <circle cx="%s" cy="%s" r="%s" fill="%s"%s/>`+"\n",
				ftoa(in.X), ftoa(in.Y), ftoa(in.R), in.Fill.Hex(), opacityAttr(in.FillAlpha))

		case compose.OpRect:
			fmt.Fprintf(buf, `  <rect x="%s" y="%s" width="%s" height="%s" fill="%s"%s/>`+"\n",
				ftoa(in.X), ftoa(in.Y), ftoa(in.W), ftoa(in.H), in.Fill.Hex(), opacityAttr(in.FillAlpha))

		case compose.OpTriangle:
			fmt.Fprintf(buf, `  <polygon points="%s,%s %s,%s %s,%s" fill="%s"%s/>`+"\n",
				ftoa(in.X), ftoa(in.Y), ftoa(in.X2), ftoa(in.Y2), ftoa(in.X3), ftoa(in.Y3),
				in.Fill.Hex(), opacityAttr(in.FillAlpha))

		case compose.OpWedge:
			fmt.Fprintf(buf, `  <path d="%s" fill="%s"%s/>`+"\n",
				wedgePath(in), in.Fill.Hex(), opacityAttr(in.FillAlpha))

		case compose.OpLabel:
			r.renderLabel(buf, in)

		case compose.OpGlyphWash:
			fmt.Fprintf(buf, `  <text x="%s" y="%s" font-size="%s" font-family="%s" font-weight="700" text-anchor="middle" dy="0.35em" fill="%s" fill-opacity="%s">%s</text>`+"\n",
				ftoa(in.X), ftoa(in.Y), ftoa(in.Size), xmlEscape(r.stackFor(in.Font)),
				in.Fill.Hex(), ftoa(in.FillAlpha), xmlEscape(in.Text))

		case compose.OpClipGlyph:
			fmt.Fprintf(buf, `  <g clip-path="url(#clip%d)">`+"\n", i)
			clipped = true

		case compose.OpResetClip:
			if clipped {
				buf.WriteString("  </g>\n")
				clipped = false
			}

		case compose.OpGlyphContour:
			fmt.Fprintf(buf, `  <text x="%s" y="%s" font-size="%s" font-family="%s" font-weight="700" text-anchor="middle" dy="0.35em" fill="none" stroke="%s" stroke-opacity="%s" stroke-width="%s">%s</text>`+"\n",
				ftoa(in.X), ftoa(in.Y), ftoa(in.Size), xmlEscape(r.stackFor(in.Font)),
				in.StrokeColor.Hex(), ftoa(in.StrokeAlpha), ftoa(in.StrokeWidth), xmlEscape(in.Text))

		case compose.OpFade:
			fmt.Fprintf(buf, `  <rect x="%s" y="%s" width="%s" height="%s" fill="url(#fade%d)"/>`+"\n",
				ftoa(in.X), ftoa(in.Y), ftoa(in.W), ftoa(in.H), i)
		}
	}

	if clipped {
		buf.WriteString("  </g>\n")
	}
}

func (r *svgRenderer) renderLabel(buf *bytes.Buffer, in compose.Instruction) {
	stroke := ""
	if in.StrokeWidth > 0 {
		stroke = fmt.Sprintf(` stroke="%s" stroke-opacity="%s" stroke-width="%s" paint-order="stroke"`,
			in.StrokeColor.Hex(), ftoa(in.StrokeAlpha), ftoa(in.StrokeWidth))
	}
	fmt.Fprintf(buf, `  <text x="%s" y="%s" font-size="%s" font-family="%s" font-weight="700" text-anchor="middle" dy="0.35em" fill="%s"%s%s>%s</text>`+"\n",
		ftoa(in.X), ftoa(in.Y), ftoa(in.Size), xmlEscape(r.stackFor(in.Font)),
		in.Fill.Hex(), opacityAttr(in.FillAlpha), stroke, xmlEscape(in.Text))
}

func (r *svgRenderer) stackFor(preset string) string {
	if r.fontStack != "" {
		return r.fontStack
	}
	return fonts.CSSStack(preset)
}

// wedgePath builds the pie path for a quarter-disc: center, radial edge, arc,
// close. Angles are radians with y pointing down, so the sweep flag is 1.
func wedgePath(in compose.Instruction) string {
	x1 := in.X + in.R*math.Cos(in.A1)
	y1 := in.Y + in.R*math.Sin(in.A1)
	x2 := in.X + in.R*math.Cos(in.A2)
	y2 := in.Y + in.R*math.Sin(in.A2)

	large := 0
	if in.A2-in.A1 > math.Pi {
		large = 1
	}

	return fmt.Sprintf("M %s %s L %s %s A %s %s 0 %d 1 %s %s Z",
		ftoa(in.X), ftoa(in.Y), ftoa(x1), ftoa(y1), ftoa(in.R), ftoa(in.R), large, ftoa(x2), ftoa(y2))
}

// opacityAttr renders a fill-opacity attribute, omitting it for full opacity.
func opacityAttr(alpha float64) string {
	if alpha >= 1 {
		return ""
	}
	return fmt.Sprintf(` fill-opacity="%s"`, ftoa(alpha))
}

// ftoa formats coordinates with two decimals, trimming trailing zeros so the
// output stays compact and byte-stable.
func ftoa(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	for len(s) > 0 && s[len(s)-1] == '0' {
		s = s[:len(s)-1]
	}
	if len(s) > 0 && s[len(s)-1] == '.' {
		s = s[:len(s)-1]
	}
	if s == "-0" {
		s = "0"
	}
	return s
}

func xmlEscape(s string) string {
	var buf bytes.Buffer
	for _, r := range s {
		switch r {
		case '&':
			buf.WriteString("&amp;")
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		case '"':
			buf.WriteString("&quot;")
		default:
			buf.WriteRune(r)
		}
	}
	return buf.String()
}
