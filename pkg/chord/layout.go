package chord

import (
	"github.com/matzehuels/stemma/pkg/dot"
	"github.com/matzehuels/stemma/pkg/errors"
	"github.com/matzehuels/stemma/pkg/geom"
)

// Layout is a computed chord layout. Coordinates are relative to the
// circle center.
type Layout struct {
	Radius      float64          `json:"radius"`
	LabelRadius float64          `json:"label_radius"`
	LeafSize    float64          `json:"leaf_size"`
	Root        *HierarchyNode   `json:"-"`
	Groups      []*HierarchyNode `json:"-"`
	Leaves      []*HierarchyNode `json:"-"` // circle order
	Links       []Link           `json:"links"`

	// Skipped counts edges that were not drawn: unknown endpoints and
	// self loops.
	Skipped int `json:"skipped,omitempty"`
}

// Link is a bundled edge between two leaves.
type Link struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
	Path   string `json:"path"`
}

// Compute builds the hierarchy of d and lays it out on a circle.
// A description without nodes is an EMPTY_GRAPH error.
func Compute(d *dot.Description, opts Options) (*Layout, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "chord options")
	}
	if d == nil || len(d.Nodes) == 0 {
		return nil, errors.New(errors.ErrCodeEmptyGraph, "description has no nodes")
	}

	h := build(d, opts)
	skipped := h.annotate(d, opts)
	order(h.root, opts)

	radius := Radius(h.leafCount(), len(h.groups), opts.LeafSize)
	place(h.root, radius)

	l := &Layout{
		Radius:      radius,
		LabelRadius: LabelRadius(radius, opts.LeafSize),
		LeafSize:    opts.LeafSize,
		Root:        h.root,
		Groups:      h.groups,
	}
	h.root.eachBefore(func(n *HierarchyNode) {
		if n.IsLeaf() {
			l.Leaves = append(l.Leaves, n)
		}
	})

	for _, e := range d.Edges {
		s, t := h.leaves[e.Source], h.leaves[e.Target]
		if s == nil || t == nil {
			continue
		}
		if s == t {
			skipped++
			opts.Logger.Debug("skipping self loop", "edge", e.ID, "node", s.ID)
			continue
		}
		path := s.pathTo(t)
		pts := make([]geom.Point, len(path))
		for i, n := range path {
			pts[i] = geom.Point{X: n.X, Y: n.Y}
		}
		l.Links = append(l.Links, Link{
			ID:     e.ID,
			Source: s.ID,
			Target: t.ID,
			Path:   BundlePath(pts, opts.Tension),
		})
	}
	l.Skipped = skipped

	opts.Logger.Debug("computed chord layout",
		"leaves", len(l.Leaves),
		"groups", len(l.Groups),
		"links", len(l.Links),
		"radius", radius)
	return l, nil
}

// Leaf returns the leaf with the given node ID.
func (l *Layout) Leaf(id string) (*HierarchyNode, bool) {
	for _, n := range l.Leaves {
		if n.ID == id {
			return n, true
		}
	}
	return nil, false
}
