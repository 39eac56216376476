package graph

import (
	"strings"

	"github.com/matzehuels/stemma/pkg/chord"
	"github.com/matzehuels/stemma/pkg/dot"
	"github.com/matzehuels/stemma/pkg/render"
)

// Build assembles a Layout from a load. cl is nil for the stemma style;
// rec must hold the drawing the load produced. Stats and Crossings are
// left for the caller.
func Build(style string, d *dot.Description, cl *chord.Layout, rec *render.Recorder) *Layout {
	l := &Layout{
		Version:      Version,
		Style:        style,
		ViewBox:      rec.ViewBox,
		Nodes:        []Node{},
		Edges:        []Edge{},
		Instructions: make([]Instruction, len(rec.Shapes)),
	}

	paths := make(map[string]string)
	for i, s := range rec.Shapes {
		l.Instructions[i] = Instruction{Type: s.Kind(), Shape: s}
		switch s := s.(type) {
		case *render.Path:
			id := strings.TrimPrefix(strings.TrimPrefix(s.ID, "edge-"), "link-")
			paths[id] = s.D
		case *render.Text:
			if s.Class == "title" {
				l.Title = s.Text
			}
		}
	}

	if d != nil {
		for _, id := range d.NodeOrder {
			l.Nodes = append(l.Nodes, fromNode(d.Nodes[id]))
		}
		for _, e := range d.Edges {
			l.Edges = append(l.Edges, Edge{ID: e.ID, Source: e.Source, Target: e.Target, Path: paths[e.ID]})
		}
	}

	if cl != nil {
		pos := make(map[string]*chord.HierarchyNode, len(cl.Leaves))
		for _, leaf := range cl.Leaves {
			pos[leaf.ID] = leaf
		}
		for i := range l.Nodes {
			if leaf, ok := pos[l.Nodes[i].ID]; ok {
				l.Nodes[i].X, l.Nodes[i].Y = leaf.X, leaf.Y
			}
		}
		for _, g := range cl.Groups {
			grp := Group{ID: g.ID, Label: g.Label, Angle: g.Angle, Leaves: []string{}}
			for _, c := range g.Children {
				grp.Leaves = append(grp.Leaves, c.ID)
			}
			l.Groups = append(l.Groups, grp)
		}
	}
	return l
}

func fromNode(n *dot.Node) Node {
	out := Node{
		ID:       n.ID,
		Subgraph: n.Subgraph,
		Width:    n.Width,
		Height:   n.Height,
		Attrs:    n.Attrs,
	}
	if label := n.Label(); label != n.ID {
		out.Label = label
	}
	if n.Pos != nil {
		out.X, out.Y = n.Pos.X, n.Pos.Y
	}
	return out
}

// Replay clears s and redraws l onto it.
func Replay(l *Layout, s render.Surface) {
	s.Clear()
	s.SetViewBox(l.ViewBox)
	for _, in := range l.Instructions {
		s.Draw(in.Shape)
	}
}
