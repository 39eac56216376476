// Package render turns computed layouts into draw instructions.
//
// # Overview
//
// The emitters in this package never produce pixels. They hand declarative
// shapes (ellipses, rectangles, paths, text) to a [Surface]:
//
//   - [EmitStemma] draws a description with the coordinates Graphviz
//     already computed
//   - [EmitChord] draws a [chord.Layout] around the origin
//
// Two surfaces ship with the package. [Recorder] keeps every instruction in
// memory (tests, JSON output) and [SVG] writes a standalone SVG document.
//
// # Per-Element Failures
//
// Edges whose endpoints do not resolve and elements without usable
// geometry are skipped, logged, and counted in [Stats.Skipped]; the rest
// of the diagram is still drawn.
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg).
//
//	svg := render.NewSVG()
//	render.EmitChord(svg, layout, render.Options{})
//	pdf, err := render.ToPDF(ctx, svg.Bytes())
//	png, err := render.ToPNG(ctx, svg.Bytes(), 2.0)  // 2x scale
//
// [chord.Layout]: github.com/matzehuels/stemma/pkg/chord.Layout
package render
