package geom

import (
	"math"
	"strconv"
	"strings"
)

// Spline is a parsed edge "pos" value. Start and End are the optional
// arrow anchors ("s,x,y" and "e,x,y"); Points are the curve points, the
// first being the move-to origin followed by cubic control triples.
type Spline struct {
	Start  *Point  `json:"start,omitempty"`
	End    *Point  `json:"end,omitempty"`
	Points []Point `json:"points"`
}

// ParseSpline parses an edge "pos" value. Anchors are recognized by their
// own "s," or "e," prefix, so both may appear in either order.
func ParseSpline(s string) Spline {
	var sp Spline
	for _, f := range strings.Fields(stripContinuations(s)) {
		p := ParsePoint(f)
		switch {
		case strings.HasPrefix(f, "e,"):
			sp.End = &p
		case strings.HasPrefix(f, "s,"):
			sp.Start = &p
		default:
			sp.Points = append(sp.Points, p)
		}
	}
	return sp
}

// Valid reports whether every point of the spline is finite and there is
// at least one point to draw.
func (sp Spline) Valid() bool {
	if sp.Start != nil && !sp.Start.Valid() {
		return false
	}
	if sp.End != nil && !sp.End.Valid() {
		return false
	}
	for _, p := range sp.Points {
		if !p.Valid() {
			return false
		}
	}
	return len(sp.Points) > 0 || sp.Start != nil || sp.End != nil
}

// Path returns the SVG path commands for the spline. A start anchor adds a
// leading line to the first curve point, an end anchor a trailing line to
// the arrow tip. Curve points are consumed in groups of three; an
// incomplete final group is dropped. Without curve points the result is a
// single move-to at the nearest anchor.
func (sp Spline) Path() string {
	if len(sp.Points) == 0 {
		switch {
		case sp.End != nil:
			return "M" + formatPair(*sp.End)
		case sp.Start != nil:
			return "M" + formatPair(*sp.Start)
		}
		return ""
	}

	var b strings.Builder
	if sp.Start != nil {
		b.WriteString("M" + formatPair(*sp.Start))
		b.WriteString("L" + formatPair(sp.Points[0]))
	} else {
		b.WriteString("M" + formatPair(sp.Points[0]))
	}
	rest := sp.Points[1:]
	for len(rest) >= 3 {
		b.WriteString("C" + formatPair(rest[0]) + " " + formatPair(rest[1]) + " " + formatPair(rest[2]))
		rest = rest[3:]
	}
	if sp.End != nil {
		b.WriteString("L" + formatPair(*sp.End))
	}
	return b.String()
}

// BuildPath reconstructs SVG path commands from a raw edge "pos" string.
func BuildPath(raw string) string {
	return ParseSpline(raw).Path()
}

// FormatNumber prints v rounded to two decimals without trailing zeros.
func FormatNumber(v float64) string {
	v = math.Round(v*100) / 100
	if v == 0 {
		v = 0 // normalize -0
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatPair(p Point) string {
	return FormatNumber(p.X) + "," + FormatNumber(p.Y)
}
