package dot

import (
	"bytes"
	"context"
	"fmt"
	"sync"

	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"

	"github.com/matzehuels/stemma/pkg/errors"
)

// gvMu serializes access to the Graphviz runtime, which is a single
// WebAssembly instance and not safe for concurrent use.
var gvMu sync.Mutex

// GraphvizParser parses DOT text with Graphviz.
//
// All edges are reported at the top level because Graphviz keeps every
// edge in the root graph. Nodes are reported in the innermost subgraph
// that mentions them and only once per scope.
type GraphvizParser struct {
	// AutoLayout runs the dot engine first when the input has no root
	// "bb" attribute, so plain descriptions gain coordinates.
	AutoLayout bool
}

// Parse implements [Parser].
func (p GraphvizParser) Parse(ctx context.Context, text []byte) ([]Statement, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	gvMu.Lock()
	defer gvMu.Unlock()

	g, err := graphviz.ParseBytes(text)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeParse, err, "parse DOT")
	}

	if p.AutoLayout && g.GetStr("bb") == "" {
		laid, err := renderLocked(ctx, g, graphviz.XDOT)
		g.Close()
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeParse, err, "lay out DOT")
		}
		if g, err = graphviz.ParseBytes(laid); err != nil {
			return nil, errors.Wrap(errors.ErrCodeParse, err, "parse laid out DOT")
		}
	}
	defer g.Close()

	w, err := newWalker(g)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeParse, err, "read attributes")
	}
	stmts, err := w.statements()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeParse, err, "walk graph")
	}
	return stmts, nil
}

// Layout runs the dot engine over text and returns the positioned DOT
// description (with "bb", "pos", "lp" and size attributes).
func Layout(ctx context.Context, text []byte) ([]byte, error) {
	gvMu.Lock()
	defer gvMu.Unlock()

	g, err := graphviz.ParseBytes(text)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeParse, err, "parse DOT")
	}
	defer g.Close()

	out, err := renderLocked(ctx, g, graphviz.XDOT)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeParse, err, "lay out DOT")
	}
	return out, nil
}

func renderLocked(ctx context.Context, g *cgraph.Graph, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

// walker converts a cgraph tree into statements.
type walker struct {
	root      *cgraph.Graph
	graphSyms []*cgraph.Symbol
	nodeSyms  []*cgraph.Symbol
	edgeSyms  []*cgraph.Symbol
}

func newWalker(g *cgraph.Graph) (*walker, error) {
	w := &walker{root: g}
	var err error
	if w.graphSyms, err = symbols(g, cgraph.GRAPH); err != nil {
		return nil, err
	}
	if w.nodeSyms, err = symbols(g, cgraph.NODE); err != nil {
		return nil, err
	}
	if w.edgeSyms, err = symbols(g, cgraph.EDGE); err != nil {
		return nil, err
	}
	return w, nil
}

func symbols(g *cgraph.Graph, kind cgraph.ObjectTag) ([]*cgraph.Symbol, error) {
	var out []*cgraph.Symbol
	sym, err := g.NextAttr(int(kind), nil)
	for err == nil && sym != nil {
		out = append(out, sym)
		sym, err = g.NextAttr(int(kind), sym)
	}
	return out, err
}

func (w *walker) statements() ([]Statement, error) {
	var stmts []Statement
	if attrs := w.graphAttrs(w.root, true); len(attrs) > 0 {
		stmts = append(stmts, Attr(ScopeGraph, attrs))
	}
	if attrs := symbolDefaults(w.nodeSyms); len(attrs) > 0 {
		stmts = append(stmts, Attr(ScopeNode, attrs))
	}
	if attrs := symbolDefaults(w.edgeSyms); len(attrs) > 0 {
		stmts = append(stmts, Attr(ScopeEdge, attrs))
	}

	subs, members, err := w.subgraphs(w.root)
	if err != nil {
		return nil, err
	}
	nodes, err := w.nodes(w.root, members)
	if err != nil {
		return nil, err
	}
	edges, err := w.edges()
	if err != nil {
		return nil, err
	}

	stmts = append(stmts, subs...)
	stmts = append(stmts, nodes...)
	return append(stmts, edges...), nil
}

// graphAttrs returns the non-empty graph attributes of g. Subgraphs only
// report values that differ from the root declaration they inherit.
func (w *walker) graphAttrs(g *cgraph.Graph, root bool) map[string]string {
	attrs := make(map[string]string)
	for _, sym := range w.graphSyms {
		v := g.GetStr(sym.Name())
		if v == "" || (!root && v == sym.DefaultValue()) {
			continue
		}
		attrs[sym.Name()] = v
	}
	return attrs
}

func (w *walker) subgraphs(g *cgraph.Graph) ([]Statement, map[string]bool, error) {
	var out []Statement
	members := make(map[string]bool)

	sg, err := g.FirstSubGraph()
	for err == nil && sg != nil {
		st, serr := w.subgraph(sg)
		if serr != nil {
			return nil, nil, serr
		}
		out = append(out, st)
		if serr = eachNode(sg, func(name string, _ *cgraph.Node) { members[name] = true }); serr != nil {
			return nil, nil, serr
		}
		sg, err = sg.NextSubGraph()
	}
	return out, members, err
}

func (w *walker) subgraph(sg *cgraph.Graph) (Statement, error) {
	name, err := sg.Name()
	if err != nil {
		return Statement{}, err
	}

	var stmts []Statement
	if attrs := w.graphAttrs(sg, false); len(attrs) > 0 {
		stmts = append(stmts, Attr(ScopeGraph, attrs))
	}
	nested, members, err := w.subgraphs(sg)
	if err != nil {
		return Statement{}, err
	}
	nodes, err := w.nodes(sg, members)
	if err != nil {
		return Statement{}, err
	}
	stmts = append(stmts, nested...)
	stmts = append(stmts, nodes...)
	return SubgraphStmt(name, stmts...), nil
}

func (w *walker) nodes(g *cgraph.Graph, skip map[string]bool) ([]Statement, error) {
	var out []Statement
	err := eachNode(g, func(name string, n *cgraph.Node) {
		if skip[name] {
			return
		}
		attrs := make(map[string]string)
		for _, sym := range w.nodeSyms {
			v := n.GetStr(sym.Name())
			if v == "" || (sym.Name() == "label" && v == `\N`) {
				continue
			}
			attrs[sym.Name()] = v
		}
		out = append(out, NodeStmt(name, attrs))
	})
	return out, err
}

func (w *walker) edges() ([]Statement, error) {
	var out []Statement
	var walkErr error
	err := eachNode(w.root, func(_ string, n *cgraph.Node) {
		if walkErr != nil {
			return
		}
		e, err := w.root.FirstOut(n)
		for err == nil && e != nil {
			st, serr := w.edge(e)
			if serr != nil {
				walkErr = serr
				return
			}
			out = append(out, st)
			e, err = w.root.NextOut(e)
		}
		if err != nil {
			walkErr = err
		}
	})
	if err != nil {
		return nil, err
	}
	return out, walkErr
}

func (w *walker) edge(e *cgraph.Edge) (Statement, error) {
	tail, err := e.Tail()
	if err != nil {
		return Statement{}, err
	}
	head, err := e.Head()
	if err != nil {
		return Statement{}, err
	}
	source, err := tail.Name()
	if err != nil {
		return Statement{}, err
	}
	target, err := head.Name()
	if err != nil {
		return Statement{}, err
	}

	attrs := make(map[string]string)
	for _, sym := range w.edgeSyms {
		if v := e.GetStr(sym.Name()); v != "" {
			attrs[sym.Name()] = v
		}
	}
	st := EdgeStmt(source, target, attrs)
	st.ID, _ = e.Name() // anonymous edges have no name
	return st, nil
}

func eachNode(g *cgraph.Graph, fn func(name string, n *cgraph.Node)) error {
	n, err := g.FirstNode()
	for err == nil && n != nil {
		name, nerr := n.Name()
		if nerr != nil {
			return nerr
		}
		fn(name, n)
		n, err = g.NextNode(n)
	}
	return err
}

func symbolDefaults(syms []*cgraph.Symbol) map[string]string {
	attrs := make(map[string]string)
	for _, sym := range syms {
		if v := sym.DefaultValue(); v != "" && v != `\N` {
			attrs[sym.Name()] = v
		}
	}
	return attrs
}
