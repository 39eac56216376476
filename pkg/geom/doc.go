// Package geom converts layout-engine geometry into display geometry.
//
// Graphviz writes coordinates in points (72 per inch) with the y axis
// pointing up. Browsers and SVG viewers draw in CSS pixels (96 per inch)
// with the y axis pointing down. Every coordinate that leaves this package
// is in display space.
//
// # Primitives
//
//   - [ParsePoint]: "x,y" (optionally prefixed with an "s" or "e" anchor marker)
//   - [ParseBBox]: "llx,lly,urx,ury", returned as a top-left anchored [BBox]
//   - [ParsePath]: whitespace-separated point tokens, line continuations removed
//   - [ParseSpline]: an edge "pos" value with its arrow anchors kept apart
//
// Malformed points are not errors: their fields are NaN and [Point.Valid]
// reports false. Callers skip such elements instead of drawing them.
// Malformed boxes are reported as MALFORMED_GEOMETRY errors because a
// negative extent has no sensible rendering.
//
// # Paths
//
// [BuildPath] and [Spline.Path] turn an edge spline into an SVG path
// command string:
//
//	geom.BuildPath("e,30,0 0,0 10,10 20,10 30,0")
//	// "M0,0C13.33,-13.33 26.67,-13.33 40,0L40,0"
//
// # Round Trips
//
// [FormatPoint], [FormatBBox] and [FormatPath] write display geometry back
// in source units, so parse and format are inverse within float tolerance.
package geom
