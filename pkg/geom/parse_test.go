package geom

import (
	"math"
	"testing"

	"github.com/matzehuels/stemma/pkg/errors"
)

const tolerance = 1e-9

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-2
}

func TestParsePoint(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Point
	}{
		{"plain", "72,72", Point{X: 96, Y: -96}},
		{"origin", "0,0", Point{X: 0, Y: 0}},
		{"end marker", "e,10,20", Point{X: 13.33, Y: -26.67}},
		{"start marker", "s,30,15", Point{X: 40, Y: -20}},
		{"spaces", " 36 , 18 ", Point{X: 48, Y: -24}},
		{"pinned", "10,20!", Point{X: 13.33, Y: -26.67}},
		{"pinned spaces", " 36,18! ", Point{X: 48, Y: -24}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParsePoint(tt.input)
			if !near(got.X, tt.want.X) || !near(got.Y, tt.want.Y) {
				t.Errorf("ParsePoint(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
			if !got.Valid() {
				t.Errorf("ParsePoint(%q).Valid() = false", tt.input)
			}
		})
	}
}

func TestParsePointMalformed(t *testing.T) {
	for _, input := range []string{"", "abc", "1", "1,2,3", "x,1", "e,1", "1,NaNy", "!", "1,2!!"} {
		p := ParsePoint(input)
		if p.Valid() {
			t.Errorf("ParsePoint(%q) = %+v, want invalid", input, p)
		}
	}
}

func TestParseBBox(t *testing.T) {
	got, err := ParseBBox("0,0,100,50")
	if err != nil {
		t.Fatalf("ParseBBox: %v", err)
	}
	want := BBox{X: 0, Y: -66.67, Width: 133.33, Height: 66.67}
	if !near(got.X, want.X) || !near(got.Y, want.Y) || !near(got.Width, want.Width) || !near(got.Height, want.Height) {
		t.Errorf("ParseBBox() = %+v, want %+v", got, want)
	}
}

func TestParseBBoxMalformed(t *testing.T) {
	tests := []string{
		"",
		"1,2,3",
		"0,0,a,1",
		"10,0,0,10", // urx < llx
		"0,10,10,0", // ury < lly
		"0,0,10,10,5",
	}
	for _, input := range tests {
		_, err := ParseBBox(input)
		if err == nil {
			t.Errorf("ParseBBox(%q) error = nil, want error", input)
			continue
		}
		if !errors.Is(err, errors.ErrCodeMalformedGeometry) {
			t.Errorf("ParseBBox(%q) code = %v, want %v", input, errors.GetCode(err), errors.ErrCodeMalformedGeometry)
		}
	}
}

func TestParseBBoxNonNegative(t *testing.T) {
	inputs := []string{"0,0,0,0", "-50,-20,-10,5", "1.5,2.5,3.5,4.5", "0,0,100,50", "-1e3,-1e3,1e3,1e3"}
	for _, input := range inputs {
		b, err := ParseBBox(input)
		if err != nil {
			t.Fatalf("ParseBBox(%q): %v", input, err)
		}
		if b.Width < 0 || b.Height < 0 {
			t.Errorf("ParseBBox(%q) = %+v, want non-negative extent", input, b)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	t.Run("point", func(t *testing.T) {
		for _, input := range []string{"12.5,99", "0,0", "-4,17.25", "1000,0.001"} {
			p := ParsePoint(input)
			q := ParsePoint(FormatPoint(p))
			if math.Abs(p.X-q.X) > tolerance || math.Abs(p.Y-q.Y) > tolerance {
				t.Errorf("round trip %q: %+v != %+v", input, p, q)
			}
		}
	})

	t.Run("bbox", func(t *testing.T) {
		for _, input := range []string{"0,0,100,50", "-10,-5,10,5", "3.25,4.5,7.75,9"} {
			b, err := ParseBBox(input)
			if err != nil {
				t.Fatalf("ParseBBox(%q): %v", input, err)
			}
			c, err := ParseBBox(FormatBBox(b))
			if err != nil {
				t.Fatalf("ParseBBox(FormatBBox(%q)): %v", input, err)
			}
			if math.Abs(b.X-c.X) > tolerance || math.Abs(b.Y-c.Y) > tolerance ||
				math.Abs(b.Width-c.Width) > tolerance || math.Abs(b.Height-c.Height) > tolerance {
				t.Errorf("round trip %q: %+v != %+v", input, b, c)
			}
		}
	})
}

func TestParsePath(t *testing.T) {
	pts := ParsePath("e,30,0 0,0 10,10\\\n 20,10 30,0")
	if len(pts) != 5 {
		t.Fatalf("len(ParsePath()) = %d, want 5", len(pts))
	}
	if !near(pts[0].X, 40) || !near(pts[0].Y, 0) {
		t.Errorf("pts[0] = %+v, want marker stripped {40 0}", pts[0])
	}
	for i, p := range pts {
		if !p.Valid() {
			t.Errorf("pts[%d] = %+v, want valid", i, p)
		}
	}
}

func TestParsePathIdempotent(t *testing.T) {
	first := ParsePath("27,71.7 27,63.98 27,54.71 27,46.11 1.5,-3")
	second := ParsePath(FormatPath(first))
	if len(first) != len(second) {
		t.Fatalf("len = %d, want %d", len(second), len(first))
	}
	for i := range first {
		if math.Abs(first[i].X-second[i].X) > tolerance || math.Abs(first[i].Y-second[i].Y) > tolerance {
			t.Errorf("point %d: %+v != %+v", i, second[i], first[i])
		}
	}
}
