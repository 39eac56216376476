package chord

import (
	"strings"

	"github.com/matzehuels/stemma/pkg/geom"
)

// BundlePath returns the SVG path of a bundled curve through pts. Each
// point is pulled toward the straight line from the first to the last
// point by 1-beta, then the result is drawn as a uniform cubic B-spline.
// Fewer than two points produce an empty path.
func BundlePath(pts []geom.Point, beta float64) string {
	j := len(pts) - 1
	if j <= 0 {
		return ""
	}
	p0, pn := pts[0], pts[j]
	dx, dy := pn.X-p0.X, pn.Y-p0.Y

	var b basis
	for i, p := range pts {
		t := float64(i) / float64(j)
		b.point(
			beta*p.X+(1-beta)*(p0.X+t*dx),
			beta*p.Y+(1-beta)*(p0.Y+t*dy),
		)
	}
	return b.end()
}

// basis draws a uniform cubic B-spline through its points, starting at
// the first point and ending at the last.
type basis struct {
	sb     strings.Builder
	n      int
	x0, y0 float64
	x1, y1 float64
}

func (b *basis) point(x, y float64) {
	switch b.n {
	case 0:
		b.moveTo(x, y)
	case 1:
	case 2:
		b.lineTo((5*b.x0+b.x1)/6, (5*b.y0+b.y1)/6)
		b.curve(x, y)
	default:
		b.curve(x, y)
	}
	if b.n < 3 {
		b.n++
	}
	b.x0, b.x1 = b.x1, x
	b.y0, b.y1 = b.y1, y
}

func (b *basis) curve(x, y float64) {
	b.sb.WriteString("C")
	b.sb.WriteString(pair((2*b.x0+b.x1)/3, (2*b.y0+b.y1)/3))
	b.sb.WriteString(" ")
	b.sb.WriteString(pair((b.x0+2*b.x1)/3, (b.y0+2*b.y1)/3))
	b.sb.WriteString(" ")
	b.sb.WriteString(pair((b.x0+4*b.x1+x)/6, (b.y0+4*b.y1+y)/6))
}

func (b *basis) end() string {
	switch b.n {
	case 3:
		b.curve(b.x1, b.y1)
		b.lineTo(b.x1, b.y1)
	case 2:
		b.lineTo(b.x1, b.y1)
	}
	return b.sb.String()
}

func (b *basis) moveTo(x, y float64) { b.sb.WriteString("M" + pair(x, y)) }
func (b *basis) lineTo(x, y float64) { b.sb.WriteString("L" + pair(x, y)) }

func pair(x, y float64) string {
	return geom.FormatNumber(x) + "," + geom.FormatNumber(y)
}
