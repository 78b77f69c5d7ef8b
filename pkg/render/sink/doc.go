// Package sink renders poster drawing plans into output artifacts.
//
// Each sink walks the plan's instruction list in order; instruction order is
// z-order, so later draws land on top. Supported outputs:
//
//   - [RenderSVG]: hand-written SVG with a clipPath for the glyph mosaic and
//     a linearGradient for the bottom fade. Needs no font files; text uses
//     CSS family stacks from pkg/fonts.
//   - [RenderPNG]: direct rasterization via fogleman/gg. Label and overlay
//     glyphs resolve real font files through pkg/fonts.
//   - [RenderJSON]: pretty-printed export of the whole plan, the primary
//     interchange format for audits and round-trip rendering.
//   - [Thumbnail]: Lanczos-downscaled PNG preview of a rendered poster.
//
// All sinks are pure functions of their inputs and safe for concurrent use.
package sink
