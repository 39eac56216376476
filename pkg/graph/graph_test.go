package graph

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/stemma/pkg/chord"
	"github.com/matzehuels/stemma/pkg/dot"
	"github.com/matzehuels/stemma/pkg/geom"
	"github.com/matzehuels/stemma/pkg/render"
)

func stemmaDescription() *dot.Description {
	return dot.Adapt([]dot.Statement{
		dot.Attr(dot.ScopeGraph, map[string]string{"bb": "0,0,100,50"}),
		dot.NodeStmt("A", map[string]string{"pos": "20,25", "width": "0.5", "height": "0.5", "label": "Alpha"}),
		dot.NodeStmt("B", map[string]string{"pos": "80,25", "width": "0.5", "height": "0.5"}),
		dot.EdgeStmt("A", "B", map[string]string{"pos": "e,62,25 38,25 45,25 52,25 56,25"}),
		dot.EdgeStmt("A", "ghost", nil),
	})
}

func TestBuildStemma(t *testing.T) {
	d := stemmaDescription()
	rec := render.NewRecorder()
	stats, err := render.EmitStemma(rec, d, render.Options{Title: "Acts 1:1"})
	if err != nil {
		t.Fatal(err)
	}

	l := Build(StyleStemma, d, nil, rec)
	l.Stats = stats

	if l.Version != Version || l.Style != StyleStemma || l.Title != "Acts 1:1" {
		t.Errorf("header = %d %s %q", l.Version, l.Style, l.Title)
	}
	if l.ViewBox != rec.ViewBox {
		t.Errorf("ViewBox = %+v, want %+v", l.ViewBox, rec.ViewBox)
	}
	if len(l.Instructions) != len(rec.Shapes) {
		t.Errorf("len(Instructions) = %d, want %d", len(l.Instructions), len(rec.Shapes))
	}
	if len(l.Nodes) != 2 || l.Nodes[0].Label != "Alpha" || l.Nodes[1].Label != "" {
		t.Errorf("Nodes = %+v", l.Nodes)
	}
	if l.Nodes[0].X != geom.ToDisplayLength(20) {
		t.Errorf("node A x = %v, want display space", l.Nodes[0].X)
	}
	if len(l.Edges) != 2 {
		t.Fatalf("len(Edges) = %d, want 2", len(l.Edges))
	}
	if !strings.HasPrefix(l.Edges[0].Path, "M") {
		t.Errorf("drawn edge path = %q", l.Edges[0].Path)
	}
	if l.Edges[1].Path != "" {
		t.Errorf("unresolved edge should have no path, got %q", l.Edges[1].Path)
	}
	if l.Groups != nil || l.IsChord() {
		t.Error("stemma layout should have no groups")
	}
}

func TestBuildChord(t *testing.T) {
	d := dot.Adapt([]dot.Statement{
		dot.SubgraphStmt("a",
			dot.Attr(dot.ScopeGraph, map[string]string{"label": "A"}),
			dot.NodeStmt("1", nil),
			dot.NodeStmt("2", nil),
		),
		dot.SubgraphStmt("b", dot.NodeStmt("3", nil)),
		dot.EdgeStmt("1", "3", nil),
	})
	cl, err := chord.Compute(d, chord.Options{})
	if err != nil {
		t.Fatal(err)
	}
	rec := render.NewRecorder()
	if _, err := render.EmitChord(rec, cl, render.Options{}); err != nil {
		t.Fatal(err)
	}

	l := Build(StyleChord, d, cl, rec)
	if !l.IsChord() || len(l.Groups) != 2 {
		t.Fatalf("Groups = %+v", l.Groups)
	}
	if l.Groups[0].Label != "A" || len(l.Groups[0].Leaves) != 2 || len(l.Groups[1].Leaves) != 1 {
		t.Errorf("Groups = %+v", l.Groups)
	}
	for _, n := range l.Nodes {
		if n.X == 0 && n.Y == 0 {
			t.Errorf("leaf %s not placed on the circle", n.ID)
		}
	}
	if l.Edges[0].Path == "" {
		t.Error("chord link path missing")
	}
}

func TestLayoutRoundTrip(t *testing.T) {
	d := stemmaDescription()
	rec := render.NewRecorder()
	if _, err := render.EmitStemma(rec, d, render.Options{}); err != nil {
		t.Fatal(err)
	}
	l := Build(StyleStemma, d, nil, rec)

	path := filepath.Join(t.TempDir(), "layout.json")
	if err := WriteLayoutFile(l, path); err != nil {
		t.Fatal(err)
	}
	got, err := ReadLayoutFile(path)
	if err != nil {
		t.Fatal(err)
	}

	// Replaying the decoded layout must reproduce the same SVG.
	want, replayed := render.NewSVG(), render.NewSVG()
	Replay(l, want)
	Replay(got, replayed)
	if !bytes.Equal(want.Bytes(), replayed.Bytes()) {
		t.Error("replayed SVG differs after round trip")
	}
	for i, in := range got.Instructions {
		if in.Shape.Kind() != l.Instructions[i].Type {
			t.Errorf("instruction %d decoded as %s, want %s", i, in.Shape.Kind(), l.Instructions[i].Type)
		}
	}
}

func TestUnmarshalLayoutErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"Syntax", `{`, "unmarshal layout"},
		{"Version", `{"version": 9, "style": "stemma", "view_box": {"width": 1, "height": 1}}`, "version"},
		{"ViewBox", `{"version": 1, "style": "stemma"}`, "view box"},
		{"Style", `{"version": 1, "style": "radial", "view_box": {"width": 1, "height": 1}}`, "style"},
		{"Instruction", `{"version": 1, "style": "stemma", "view_box": {"width": 1, "height": 1},
			"instructions": [{"type": "polygon", "shape": {}}]}`, "polygon"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnmarshalLayout([]byte(tt.data))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("UnmarshalLayout() error = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestReadLayoutFileMissing(t *testing.T) {
	if _, err := ReadLayoutFile(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("expected error for missing file")
	}
}
