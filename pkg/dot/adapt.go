package dot

import (
	"context"
	"fmt"
	"maps"
	"strconv"

	"github.com/matzehuels/stemma/pkg/errors"
	"github.com/matzehuels/stemma/pkg/geom"
)

// Parse runs p over text and adapts the result. Parser failures are
// reported as PARSE_ERROR.
func Parse(ctx context.Context, p Parser, text []byte) (*Description, error) {
	stmts, err := p.Parse(ctx, text)
	if err != nil {
		if errors.GetCode(err) == "" {
			err = errors.Wrap(errors.ErrCodeParse, err, "parse description")
		}
		return nil, err
	}
	return Adapt(stmts), nil
}

// Adapt re-indexes a statement tree into a [Description].
//
// Statements are partitioned by kind in input order. Subgraphs are adapted
// recursively and their nodes merged into the parent node map where the
// subgraph statement appears; a node already present is never replaced,
// and a later statement for it only adds attributes. Subgraph edges are
// appended to the parent edge list.
// Node and edge defaults ("node [..]", "edge [..]") apply to statements
// that follow them in the same or a nested scope.
func Adapt(stmts []Statement) *Description {
	a := &adapter{}
	sc := a.scope(stmts, defaults{})

	d := &Description{
		Attrs:     sc.attrs,
		Subgraphs: make(map[string]*Subgraph, len(sc.subgraphs)),
		Nodes:     sc.nodes,
		NodeOrder: sc.order,
		Edges:     sc.edges,
	}

	if raw, ok := take(sc.attrs[ScopeGraph], "bb"); ok {
		if bb, err := geom.ParseBBox(raw); err != nil {
			a.report(err)
		} else {
			d.BBox = &bb
		}
	}

	for _, sg := range sc.subgraphs {
		if _, dup := d.Subgraphs[sg.ID]; dup {
			continue
		}
		d.Subgraphs[sg.ID] = sg
		d.SubgraphOrder = append(d.SubgraphOrder, sg.ID)
		for _, id := range sg.NodeIDs {
			if n := d.Nodes[id]; n != nil && n.Subgraph == "" {
				n.Subgraph = sg.ID
			}
		}
	}

	d.Diagnostics = a.diags
	return d
}

type adapter struct {
	diags   []error
	edgeSeq int
	anonSeq int
}

type defaults struct {
	node map[string]string
	edge map[string]string
}

// scope is the re-indexed content of one statement list.
type scope struct {
	attrs     map[string]AttrBlock
	subgraphs []*Subgraph
	nodes     map[string]*Node
	order     []string
	edges     []*Edge
}

func (a *adapter) report(err error) {
	a.diags = append(a.diags, err)
}

func (a *adapter) scope(stmts []Statement, inherited defaults) *scope {
	s := &scope{
		attrs: make(map[string]AttrBlock),
		nodes: make(map[string]*Node),
	}
	def := defaults{node: maps.Clone(inherited.node), edge: maps.Clone(inherited.edge)}

	// Nodes declared here are resolved once the scope is read, so
	// attributes from later statements are seen. Nodes merged from a
	// subgraph arrive resolved; restating one resolves only the keys the
	// restatement sets.
	type pendingNode struct {
		n       *Node
		changed map[string]string // nil resolves every key
	}
	var pending []*pendingNode
	index := make(map[string]*pendingNode)

	for _, st := range stmts {
		switch st.Kind {
		case KindAttr:
			blk := s.attrs[st.ID]
			if blk == nil {
				blk = make(AttrBlock, len(st.Attrs))
				s.attrs[st.ID] = blk
			}
			maps.Copy(blk, st.Attrs)
			switch st.ID {
			case ScopeNode:
				def.node = merge(def.node, st.Attrs)
			case ScopeEdge:
				def.edge = merge(def.edge, st.Attrs)
			}

		case KindNode:
			if n, ok := s.nodes[st.ID]; ok {
				maps.Copy(n.Attrs, st.Attrs)
				p := index[st.ID]
				if p == nil {
					p = &pendingNode{n: n, changed: make(map[string]string)}
					index[st.ID] = p
					pending = append(pending, p)
				}
				if p.changed != nil {
					maps.Copy(p.changed, st.Attrs)
				}
				continue
			}
			n := &Node{ID: st.ID, Attrs: merge(def.node, st.Attrs)}
			s.nodes[st.ID] = n
			s.order = append(s.order, st.ID)
			p := &pendingNode{n: n}
			index[st.ID] = p
			pending = append(pending, p)

		case KindEdge:
			a.edgeSeq++
			e := &Edge{ID: st.ID, Source: st.Source, Target: st.Target, Attrs: merge(def.edge, st.Attrs)}
			if e.ID == "" {
				e.ID = e.Attrs["id"]
			}
			if e.ID == "" {
				e.ID = fmt.Sprintf("e%d", a.edgeSeq)
			}
			a.resolveEdge(e)
			s.edges = append(s.edges, e)

		case KindSubgraph:
			sg, sc := a.subgraph(st, def)
			s.subgraphs = append(s.subgraphs, sg)
			for _, id := range sc.order {
				if _, ok := s.nodes[id]; ok {
					continue
				}
				s.nodes[id] = sc.nodes[id]
				s.order = append(s.order, id)
			}
			s.edges = append(s.edges, sc.edges...)
		}
	}

	for _, p := range pending {
		a.resolveNode(p.n, p.changed)
	}
	return s
}

func (a *adapter) subgraph(st Statement, def defaults) (*Subgraph, *scope) {
	sc := a.scope(st.Stmts, def)
	id := st.ID
	if id == "" {
		a.anonSeq++
		id = fmt.Sprintf("subgraph%d", a.anonSeq)
	}

	sg := &Subgraph{
		ID:        id,
		Stmts:     st.Stmts,
		Attrs:     sc.attrs,
		NodeIDs:   sc.order,
		Subgraphs: sc.subgraphs,
	}
	g := sc.attrs[ScopeGraph]
	sg.Label = g["label"]
	if raw, ok := take(g, "bb"); ok {
		if bb, err := geom.ParseBBox(raw); err != nil {
			a.report(errors.Wrap(errors.ErrCodeMalformedGeometry, err, "subgraph %s", id))
		} else {
			sg.BBox = &bb
		}
	}
	if raw, ok := take(g, "lp"); ok {
		sg.LabelPos = a.point("subgraph "+id, "lp", raw)
	}
	return sg, sc
}

// resolveNode parses the geometry keys of n into typed fields. With a
// non-nil changed only the keys it contains are parsed again.
func (a *adapter) resolveNode(n *Node, changed map[string]string) {
	what := "node " + n.ID
	has := func(key string) bool {
		if changed == nil {
			return true
		}
		_, ok := changed[key]
		return ok
	}

	if raw, ok := take(n.Attrs, "pos"); ok {
		n.Pos = a.point(what, "pos", raw)
	}
	if raw, ok := take(n.Attrs, "lp"); ok {
		n.LabelPos = a.point(what, "lp", raw)
	}
	if has("width") {
		n.Width = geom.InchesToDisplay(a.number(what, "width", n.Attrs["width"]))
	}
	if has("height") {
		n.Height = geom.InchesToDisplay(a.number(what, "height", n.Attrs["height"]))
	}
	if has("fontsize") {
		n.FontSize = geom.PointsToDisplay(a.number(what, "fontsize", n.Attrs["fontsize"]))
	}
	if n.Pos != nil {
		bb := geom.BBoxAround(*n.Pos, n.Width, n.Height)
		n.BBox = &bb
	}
}

func (a *adapter) resolveEdge(e *Edge) {
	what := fmt.Sprintf("edge %s (%s -> %s)", e.ID, e.Source, e.Target)
	if raw, ok := take(e.Attrs, "pos"); ok {
		sp := geom.ParseSpline(raw)
		if sp.Valid() {
			e.Spline = &sp
		} else {
			a.report(errors.New(errors.ErrCodeMalformedGeometry, "%s: pos %q", what, raw))
		}
	}
	if raw, ok := take(e.Attrs, "lp"); ok {
		e.LabelPos = a.point(what, "lp", raw)
	}
}

func (a *adapter) point(what, key, raw string) *geom.Point {
	p := geom.ParsePoint(raw)
	if !p.Valid() {
		a.report(errors.New(errors.ErrCodeMalformedGeometry, "%s: %s %q", what, key, raw))
		return nil
	}
	return &p
}

func (a *adapter) number(what, key, raw string) float64 {
	if raw == "" {
		return 0
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		a.report(errors.New(errors.ErrCodeMalformedGeometry, "%s: %s %q", what, key, raw))
		return 0
	}
	return v
}

// take removes key from m and returns its value.
func take(m map[string]string, key string) (string, bool) {
	v, ok := m[key]
	if ok {
		delete(m, key)
	}
	return v, ok && v != ""
}

func merge(base, over map[string]string) map[string]string {
	out := make(map[string]string, len(base)+len(over))
	maps.Copy(out, base)
	maps.Copy(out, over)
	return out
}
