// Package render holds the output backends for poster drawing plans.
//
// The [sink] subpackage plays back an ordered instruction list produced by
// pkg/compose into concrete artifacts: hand-written SVG, in-process PNG
// rasterization, and a JSON export of the full plan for reproducibility
// audits. Every sink is deterministic: the same plan yields the same bytes.
package render
