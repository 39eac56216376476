package dot

import (
	"github.com/matzehuels/stemma/pkg/errors"
	"github.com/matzehuels/stemma/pkg/geom"
)

// AttrBlock holds raw attributes of one scope.
type AttrBlock map[string]string

// Description is an adapted graph description.
type Description struct {
	ID            string
	Attrs         map[string]AttrBlock
	BBox          *geom.BBox
	Subgraphs     map[string]*Subgraph
	SubgraphOrder []string
	Nodes         map[string]*Node
	NodeOrder     []string
	Edges         []*Edge

	// Diagnostics collects per-element problems found while adapting.
	Diagnostics []error
}

// Subgraph is an adapted subgraph. Its nodes live in the parent's node
// map; NodeIDs lists every node the subgraph (or a nested one) mentions.
type Subgraph struct {
	ID        string
	Label     string
	Stmts     []Statement
	Attrs     map[string]AttrBlock
	BBox      *geom.BBox
	LabelPos  *geom.Point
	NodeIDs   []string
	Subgraphs []*Subgraph
}

// Node is an adapted node. Geometry is in display space.
type Node struct {
	ID       string
	Subgraph string
	Pos      *geom.Point
	BBox     *geom.BBox
	LabelPos *geom.Point
	Width    float64
	Height   float64
	FontSize float64
	Attrs    map[string]string
}

// Label returns the node's display label.
func (n *Node) Label() string {
	if l := n.Attrs["label"]; l != "" && l != `\N` {
		return l
	}
	return n.ID
}

// Edge is an adapted edge. Source and Target are identifiers to look up
// in [Description.Nodes].
type Edge struct {
	ID       string
	Source   string
	Target   string
	Spline   *geom.Spline
	LabelPos *geom.Point
	Attrs    map[string]string
}

// Node looks up a node by identifier.
func (d *Description) Node(id string) (*Node, bool) {
	n, ok := d.Nodes[id]
	return n, ok
}

// Resolve returns both endpoints of e or an UNRESOLVED_REFERENCE error.
func (d *Description) Resolve(e *Edge) (source, target *Node, err error) {
	source, ok := d.Nodes[e.Source]
	if !ok {
		return nil, nil, errors.New(errors.ErrCodeUnresolvedReference, "edge %s: unknown source %q", e.ID, e.Source)
	}
	target, ok = d.Nodes[e.Target]
	if !ok {
		return nil, nil, errors.New(errors.ErrCodeUnresolvedReference, "edge %s: unknown target %q", e.ID, e.Target)
	}
	return source, target, nil
}

// Groups returns the top-level subgraphs in input order.
func (d *Description) Groups() []*Subgraph {
	out := make([]*Subgraph, 0, len(d.SubgraphOrder))
	for _, id := range d.SubgraphOrder {
		out = append(out, d.Subgraphs[id])
	}
	return out
}

// GraphAttr returns a root graph attribute.
func (d *Description) GraphAttr(name string) string {
	return d.Attrs[ScopeGraph][name]
}

// Bounds returns the root bounding box, or the union of node boxes when
// the description carries none. ok is false if nothing has geometry.
func (d *Description) Bounds() (b geom.BBox, ok bool) {
	if d.BBox != nil {
		return *d.BBox, true
	}
	for _, id := range d.NodeOrder {
		n := d.Nodes[id]
		if n.BBox == nil {
			continue
		}
		if !ok {
			b, ok = *n.BBox, true
			continue
		}
		b = b.Union(*n.BBox)
	}
	return b, ok
}
