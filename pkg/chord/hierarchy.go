package chord

import (
	"github.com/matzehuels/stemma/pkg/dot"
)

// RootID is the identifier of the synthetic hierarchy root.
const RootID = "__root__"

// HierarchyNode is a node of the root → group → leaf hierarchy.
type HierarchyNode struct {
	ID       string           `json:"id"`
	ParentID string           `json:"parent_id,omitempty"`
	Label    string           `json:"label,omitempty"`
	Depth    int              `json:"depth"`
	Angle    float64          `json:"angle"`
	Radius   float64          `json:"radius"`
	X        float64          `json:"x"`
	Y        float64          `json:"y"`
	Children []*HierarchyNode `json:"children,omitempty"`

	// Leaf ordering data.
	Category      string `json:"category,omitempty"`
	Key           string `json:"key,omitempty"`
	OtherCategory string `json:"other_category,omitempty"`
	OtherKey      string `json:"other_key,omitempty"`

	parent *HierarchyNode
	x, y   float64 // cluster coordinates before normalization
}

// IsLeaf reports whether n is a leaf (a graph node).
func (n *HierarchyNode) IsLeaf() bool {
	return n.parent != nil && len(n.Children) == 0
}

// Parent returns the parent node, nil for the root.
func (n *HierarchyNode) Parent() *HierarchyNode { return n.parent }

func (n *HierarchyNode) add(c *HierarchyNode) {
	c.parent = n
	c.ParentID = n.ID
	c.Depth = n.Depth + 1
	n.Children = append(n.Children, c)
}

// eachAfter visits n's subtree in post-order.
func (n *HierarchyNode) eachAfter(fn func(*HierarchyNode)) {
	for _, c := range n.Children {
		c.eachAfter(fn)
	}
	fn(n)
}

// eachBefore visits n's subtree in pre-order.
func (n *HierarchyNode) eachBefore(fn func(*HierarchyNode)) {
	fn(n)
	for _, c := range n.Children {
		c.eachBefore(fn)
	}
}

// pathTo returns the hierarchy path from n to m through their lowest
// common ancestor, both ends included.
func (n *HierarchyNode) pathTo(m *HierarchyNode) []*HierarchyNode {
	ancestor := lca(n, m)
	var up []*HierarchyNode
	for a := n; a != ancestor; a = a.parent {
		up = append(up, a)
	}
	up = append(up, ancestor)
	var down []*HierarchyNode
	for b := m; b != ancestor; b = b.parent {
		down = append(down, b)
	}
	for i := len(down) - 1; i >= 0; i-- {
		up = append(up, down[i])
	}
	return up
}

func lca(a, b *HierarchyNode) *HierarchyNode {
	seen := make(map[*HierarchyNode]bool)
	for x := a; x != nil; x = x.parent {
		seen[x] = true
	}
	for y := b; y != nil; y = y.parent {
		if seen[y] {
			return y
		}
	}
	return nil
}

// hierarchy is the built tree plus lookup tables.
type hierarchy struct {
	root   *HierarchyNode
	groups []*HierarchyNode
	leaves map[string]*HierarchyNode
}

// build creates the hierarchy for d. Groups follow subgraph order and
// groups without members are dropped. Nodes outside every subgraph hang
// directly off the root after the groups.
func build(d *dot.Description, opts Options) *hierarchy {
	h := &hierarchy{
		root:   &HierarchyNode{ID: RootID},
		leaves: make(map[string]*HierarchyNode, len(d.Nodes)),
	}

	for _, sg := range d.Groups() {
		g := &HierarchyNode{ID: sg.ID, Label: sg.Label}
		if g.Label == "" {
			g.Label = sg.ID
		}
		for _, id := range sg.NodeIDs {
			n := d.Nodes[id]
			if n == nil || n.Subgraph != sg.ID || h.leaves[id] != nil {
				continue
			}
			g.add(h.leaf(n, g.Label, opts))
		}
		if len(g.Children) == 0 {
			continue
		}
		h.root.add(g)
		h.groups = append(h.groups, g)
	}

	for _, id := range d.NodeOrder {
		if h.leaves[id] != nil {
			continue
		}
		h.root.add(h.leaf(d.Nodes[id], "", opts))
	}
	return h
}

func (h *hierarchy) leaf(n *dot.Node, groupLabel string, opts Options) *HierarchyNode {
	l := &HierarchyNode{
		ID:       n.ID,
		Label:    n.Label(),
		Category: n.Attrs[opts.CategoryAttr],
		Key:      n.Attrs[opts.KeyAttr],
	}
	if l.Category == "" {
		l.Category = groupLabel
	}
	if l.Key == "" {
		l.Key = n.ID
	}
	h.leaves[n.ID] = l
	return l
}

// annotate copies each edge's opposite endpoint data onto both leaves.
// A leaf with several edges keeps the data of the last one.
func (h *hierarchy) annotate(d *dot.Description, opts Options) int {
	skipped := 0
	for _, e := range d.Edges {
		s, t := h.leaves[e.Source], h.leaves[e.Target]
		if s == nil || t == nil {
			skipped++
			opts.Logger.Warn("skipping edge with unknown endpoint", "edge", e.ID, "source", e.Source, "target", e.Target)
			continue
		}
		s.OtherCategory, s.OtherKey = t.Category, t.Key
		t.OtherCategory, t.OtherKey = s.Category, s.Key
	}
	return skipped
}

func (h *hierarchy) leafCount() int {
	return len(h.leaves)
}
