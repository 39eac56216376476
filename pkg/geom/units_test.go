package geom

import (
	"math"
	"testing"
)

func TestUnits(t *testing.T) {
	if got := ToDisplayLength(72); got != 96 {
		t.Errorf("ToDisplayLength(72) = %v, want 96", got)
	}
	if got := ToDisplayY(72); got != -96 {
		t.Errorf("ToDisplayY(72) = %v, want -96", got)
	}
	if got := InchesToDisplay(0.5); got != 48 {
		t.Errorf("InchesToDisplay(0.5) = %v, want 48", got)
	}
	if got := PointsToDisplay(14); math.Abs(got-18.67) > 0.01 {
		t.Errorf("PointsToDisplay(14) = %v, want 18.67", got)
	}
	for _, v := range []float64{0, 1, -3.5, 1234.5678} {
		if got := ToSourceLength(ToDisplayLength(v)); math.Abs(got-v) > 1e-9 {
			t.Errorf("ToSourceLength(ToDisplayLength(%v)) = %v", v, got)
		}
		if got := ToSourceY(ToDisplayY(v)); math.Abs(got-v) > 1e-9 {
			t.Errorf("ToSourceY(ToDisplayY(%v)) = %v", v, got)
		}
	}
}

func TestBBoxHelpers(t *testing.T) {
	a := BBox{X: 0, Y: 0, Width: 10, Height: 10}
	b := BBox{X: 5, Y: -5, Width: 10, Height: 5}
	u := a.Union(b)
	if u != (BBox{X: 0, Y: -5, Width: 15, Height: 15}) {
		t.Errorf("Union() = %+v", u)
	}
	if c := a.Center(); c != (Point{X: 5, Y: 5}) {
		t.Errorf("Center() = %+v", c)
	}
	if p := a.Pad(2); p != (BBox{X: -2, Y: -2, Width: 14, Height: 14}) {
		t.Errorf("Pad() = %+v", p)
	}
	if got := BBoxAround(Point{X: 10, Y: 10}, 4, 2); got != (BBox{X: 8, Y: 9, Width: 4, Height: 2}) {
		t.Errorf("BBoxAround() = %+v", got)
	}
	if (BBox{Width: -1}).Valid() {
		t.Error("negative width reported valid")
	}
}
