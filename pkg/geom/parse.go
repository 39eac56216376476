package geom

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/stemma/pkg/errors"
)

// ParsePoint parses "x,y" into display space. A leading "s" or "e" anchor
// marker ("e,10,20") and a trailing pin marker ("10,20!") are stripped. Any
// other shape yields a point with NaN fields.
func ParsePoint(s string) Point {
	s = strings.TrimSuffix(strings.TrimSpace(s), "!")
	parts := strings.Split(s, ",")
	if len(parts) > 0 && isMarker(parts[0]) {
		parts = parts[1:]
	}
	if len(parts) != 2 {
		return Point{X: math.NaN(), Y: math.NaN()}
	}
	return Point{
		X: ToDisplayLength(parseFloat(parts[0])),
		Y: ToDisplayY(parseFloat(parts[1])),
	}
}

// ParseBBox parses "llx,lly,urx,ury" (source space, y up) into a display
// box whose origin is the visual top-left corner.
func ParseBBox(s string) (BBox, error) {
	parts := strings.Split(strings.TrimSpace(s), ",")
	if len(parts) != 4 {
		return BBox{}, errors.New(errors.ErrCodeMalformedGeometry, "bounding box %q: want 4 values, got %d", s, len(parts))
	}
	var v [4]float64
	for i, p := range parts {
		v[i] = parseFloat(p)
		if !isFinite(v[i]) {
			return BBox{}, errors.New(errors.ErrCodeMalformedGeometry, "bounding box %q: value %q is not a number", s, p)
		}
	}
	llx, lly, urx, ury := v[0], v[1], v[2], v[3]
	if urx < llx || ury < lly {
		return BBox{}, errors.New(errors.ErrCodeMalformedGeometry, "bounding box %q: negative extent", s)
	}
	return BBox{
		X:      ToDisplayLength(llx),
		Y:      ToDisplayY(ury),
		Width:  ToDisplayLength(urx - llx),
		Height: ToDisplayLength(ury - lly),
	}, nil
}

// ParsePath parses whitespace-separated point tokens. Graphviz wraps long
// attribute values with a backslash-newline continuation, which is removed
// first. Anchor markers are stripped from their points.
func ParsePath(s string) []Point {
	fields := strings.Fields(stripContinuations(s))
	pts := make([]Point, 0, len(fields))
	for _, f := range fields {
		pts = append(pts, ParsePoint(f))
	}
	return pts
}

// FormatPoint writes p back in source units as "x,y".
func FormatPoint(p Point) string {
	return formatSource(ToSourceLength(p.X)) + "," + formatSource(ToSourceY(p.Y))
}

// FormatBBox writes b back in source units as "llx,lly,urx,ury".
func FormatBBox(b BBox) string {
	llx := ToSourceLength(b.X)
	ury := ToSourceY(b.Y)
	urx := llx + ToSourceLength(b.Width)
	lly := ury - ToSourceLength(b.Height)
	return fmt.Sprintf("%s,%s,%s,%s", formatSource(llx), formatSource(lly), formatSource(urx), formatSource(ury))
}

// FormatPath writes pts back in source units, space separated.
func FormatPath(pts []Point) string {
	out := make([]string, len(pts))
	for i, p := range pts {
		out[i] = FormatPoint(p)
	}
	return strings.Join(out, " ")
}

func isMarker(tok string) bool {
	tok = strings.TrimSpace(tok)
	return tok == "s" || tok == "e"
}

func parseFloat(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

func formatSource(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func stripContinuations(s string) string {
	s = strings.ReplaceAll(s, "\\\r\n", "")
	return strings.ReplaceAll(s, "\\\n", "")
}
