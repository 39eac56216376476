package render

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/matzehuels/stemma/pkg/chord"
	"github.com/matzehuels/stemma/pkg/dot"
	"github.com/matzehuels/stemma/pkg/errors"
)

func positioned() *dot.Description {
	return dot.Adapt([]dot.Statement{
		dot.Attr(dot.ScopeGraph, map[string]string{"bb": "0,0,120,60"}),
		dot.SubgraphStmt("cluster_a",
			dot.Attr(dot.ScopeGraph, map[string]string{"bb": "5,5,55,55", "label": "a", "lp": "30,50"}),
			dot.NodeStmt("A", map[string]string{"pos": "27,18", "width": "0.75", "height": "0.5", "label": "A <1>"}),
		),
		dot.NodeStmt("B", map[string]string{"pos": "90,18", "width": "0.75", "height": "0.5", "shape": "box", "hsnr": "200"}),
		dot.EdgeStmt("A", "B", map[string]string{"pos": "e,63,18 54,18 58,18 60,18 62,18"}),
		dot.EdgeStmt("A", "ghost", map[string]string{"pos": "27,18 30,18 40,18 50,18"}),
	})
}

func TestEmitStemma(t *testing.T) {
	rec := NewRecorder()
	st, err := EmitStemma(rec, positioned(), Options{DataAttrs: []string{"hsnr"}})
	if err != nil {
		t.Fatalf("EmitStemma() error: %v", err)
	}

	if st.Nodes != 2 || st.Edges != 1 || st.Skipped != 1 {
		t.Errorf("Stats = %+v, want 2 nodes, 1 edge, 1 skipped", st)
	}
	if len(rec.Log) < 2 || rec.Log[0] != "clear" || rec.Log[1] != "viewbox" {
		t.Fatalf("Log = %v, want clear then viewbox first", rec.Log)
	}
	if got := rec.Count("ellipse"); got != 1 {
		t.Errorf("ellipses = %d, want 1", got)
	}
	if got := rec.Count("rect"); got != 2 {
		t.Errorf("rects = %d, want 2 (cluster and box node)", got)
	}
	if got := rec.Count("path"); got != 1 {
		t.Errorf("paths = %d, want 1", got)
	}

	for _, s := range rec.Shapes {
		switch v := s.(type) {
		case *Path:
			if !v.Arrow {
				t.Error("edge with end anchor should draw an arrow")
			}
			if !strings.HasPrefix(v.D, "M72,-24C") || !strings.HasSuffix(v.D, "L84,-24") {
				t.Errorf("D = %q", v.D)
			}
			if v.Data["source"] != "A" || v.Data["target"] != "B" {
				t.Errorf("Data = %v", v.Data)
			}
		case *Rect:
			if v.ID == "node-B" && v.Data["hsnr"] != "200" {
				t.Errorf("node-B data = %v, want hsnr", v.Data)
			}
		}
	}

	vb := rec.ViewBox
	if !near(vb.X, -DefaultPadding) || !near(vb.Width, 160+2*DefaultPadding) {
		t.Errorf("ViewBox = %+v", vb)
	}
}

func TestEmitStemmaTitle(t *testing.T) {
	rec := NewRecorder()
	if _, err := EmitStemma(rec, positioned(), Options{Title: "Acts 1"}); err != nil {
		t.Fatal(err)
	}
	vb := rec.ViewBox
	for _, s := range rec.Shapes {
		if v, ok := s.(*Text); ok && v.Class == "title" {
			if !near(v.X, vb.X+vb.Width/2) || v.Text != "Acts 1" {
				t.Errorf("title = %+v, want centered in %+v", v, vb)
			}
			return
		}
	}
	t.Error("no title drawn")
}

func TestEmitStemmaLeavesSurfaceOnError(t *testing.T) {
	rec := NewRecorder()
	if _, err := EmitStemma(rec, positioned(), Options{}); err != nil {
		t.Fatal(err)
	}
	before := len(rec.Shapes)
	rec.Log = nil

	_, err := EmitStemma(rec, dot.Adapt(nil), Options{})
	if !errors.Is(err, errors.ErrCodeEmptyGraph) {
		t.Fatalf("error = %v, want EMPTY_GRAPH", err)
	}
	if len(rec.Log) != 0 || len(rec.Shapes) != before {
		t.Errorf("surface touched on error: log %v", rec.Log)
	}

	noGeometry := dot.Adapt([]dot.Statement{dot.NodeStmt("A", nil)})
	if _, err := EmitStemma(rec, noGeometry, Options{}); !errors.Is(err, errors.ErrCodeMalformedGeometry) {
		t.Errorf("error = %v, want MALFORMED_GEOMETRY", err)
	}
}

func chordLayout(t *testing.T) *chord.Layout {
	t.Helper()
	leaf := func(id, labez string) dot.Statement {
		return dot.NodeStmt(id, map[string]string{"labez": labez, "hsnr": id})
	}
	d := dot.Adapt([]dot.Statement{
		dot.SubgraphStmt("a", dot.Attr(dot.ScopeGraph, map[string]string{"label": "a"}), leaf("1", "a"), leaf("2", "a")),
		dot.SubgraphStmt("b", dot.Attr(dot.ScopeGraph, map[string]string{"label": "b"}), leaf("3", "b"), leaf("4", "b")),
		dot.EdgeStmt("1", "3", nil),
		dot.EdgeStmt("2", "4", nil),
		dot.EdgeStmt("4", "4", nil),
	})
	l, err := chord.Compute(d, chord.Options{})
	if err != nil {
		t.Fatalf("Compute() error: %v", err)
	}
	return l
}

func TestEmitChord(t *testing.T) {
	l := chordLayout(t)
	rec := NewRecorder()
	st, err := EmitChord(rec, l, Options{Title: "Passage 1"})
	if err != nil {
		t.Fatalf("EmitChord() error: %v", err)
	}

	if st.Nodes != 4 || st.Edges != 2 || st.Skipped != 1 {
		t.Errorf("Stats = %+v, want 4 nodes, 2 edges, 1 skipped", st)
	}
	if got := rec.Count("ellipse"); got != 4 {
		t.Errorf("ellipses = %d, want 4", got)
	}
	// 4 leaf labels, 2 group labels, 1 title
	if got := rec.Count("text"); got != 7 {
		t.Errorf("texts = %d, want 7", got)
	}
	vb := rec.ViewBox
	if !near(vb.X, -vb.Width/2) || vb.Height <= vb.Width {
		t.Errorf("ViewBox = %+v, want centered with room for the title", vb)
	}
}

func TestEmitChordEmpty(t *testing.T) {
	rec := NewRecorder()
	if _, err := EmitChord(rec, nil, Options{}); !errors.Is(err, errors.ErrCodeEmptyGraph) {
		t.Errorf("error = %v, want EMPTY_GRAPH", err)
	}
	if len(rec.Log) != 0 {
		t.Errorf("Log = %v, want untouched surface", rec.Log)
	}
}

func TestLeafLabelOrientation(t *testing.T) {
	tests := []struct {
		angle  float64
		rotate float64
		anchor string
	}{
		{45, -45, "end"},
		{90, 0, "end"},
		{270, 360, "start"},
	}
	for _, tt := range tests {
		got := leafLabel(&chord.HierarchyNode{Angle: tt.angle}, 100)
		if got.Rotate != tt.rotate || got.Anchor != tt.anchor {
			t.Errorf("angle %v: rotate %v anchor %q, want %v %q", tt.angle, got.Rotate, got.Anchor, tt.rotate, tt.anchor)
		}
	}
}

func TestSVG(t *testing.T) {
	svg := NewSVG()
	svg.Interactive = true
	if _, err := EmitStemma(svg, positioned(), Options{}); err != nil {
		t.Fatal(err)
	}
	out := string(svg.Bytes())

	for _, want := range []string{
		`<svg xmlns="http://www.w3.org/2000/svg"`,
		`marker-end="url(#arrow)"`,
		`data-source="A"`,
		`A &lt;1&gt;`,
		`<script>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("SVG missing %q", want)
		}
	}
	if strings.Index(out, `class="clusters"`) > strings.Index(out, `class="labels"`) {
		t.Error("clusters should be painted before labels")
	}
	if strings.Contains(out, "<1>") {
		t.Error("label not escaped")
	}

	svg.Clear()
	if strings.Contains(string(svg.Bytes()), "<ellipse") {
		t.Error("Clear() kept shapes")
	}
}

func TestRecorderJSON(t *testing.T) {
	rec := NewRecorder()
	rec.Draw(&Ellipse{Meta: Meta{ID: "n"}, CX: 1, CY: 2, RX: 3, RY: 4})

	data, err := json.Marshal(rec)
	if err != nil {
		t.Fatal(err)
	}
	var got struct {
		Instructions []struct {
			Type  string         `json:"type"`
			Shape map[string]any `json:"shape"`
		} `json:"instructions"`
	}
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if len(got.Instructions) != 1 || got.Instructions[0].Type != "ellipse" || got.Instructions[0].Shape["id"] != "n" {
		t.Errorf("JSON = %s", data)
	}
}

func near(a, b float64) bool { return a-b < 0.01 && b-a < 0.01 }
