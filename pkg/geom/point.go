package geom

import "math"

// Point is a position in display space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Valid reports whether both coordinates are finite.
func (p Point) Valid() bool {
	return isFinite(p.X) && isFinite(p.Y)
}

// BBox is an axis-aligned box in display space anchored at its top-left
// corner. Width and Height are never negative for boxes produced by this
// package.
type BBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Valid reports whether the box is finite with a non-negative extent.
func (b BBox) Valid() bool {
	return isFinite(b.X) && isFinite(b.Y) && isFinite(b.Width) && isFinite(b.Height) &&
		b.Width >= 0 && b.Height >= 0
}

// Center returns the midpoint of the box.
func (b BBox) Center() Point {
	return Point{X: b.X + b.Width/2, Y: b.Y + b.Height/2}
}

// Union returns the smallest box containing both b and o.
func (b BBox) Union(o BBox) BBox {
	x0, y0 := math.Min(b.X, o.X), math.Min(b.Y, o.Y)
	x1 := math.Max(b.X+b.Width, o.X+o.Width)
	y1 := math.Max(b.Y+b.Height, o.Y+o.Height)
	return BBox{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// Pad grows the box by m on every side.
func (b BBox) Pad(m float64) BBox {
	return BBox{X: b.X - m, Y: b.Y - m, Width: b.Width + 2*m, Height: b.Height + 2*m}
}

// BBoxAround returns the box of the given display size centered on c.
func BBoxAround(c Point, width, height float64) BBox {
	return BBox{X: c.X - width/2, Y: c.Y - height/2, Width: width, Height: height}
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
