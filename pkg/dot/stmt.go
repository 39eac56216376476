package dot

import "context"

// Kind discriminates statement types.
type Kind int

const (
	// KindAttr is an attribute statement; ID is its scope ("graph", "node" or "edge").
	KindAttr Kind = iota
	// KindNode declares a node; ID is the node identifier.
	KindNode
	// KindEdge connects Source to Target.
	KindEdge
	// KindSubgraph nests Stmts; ID is the subgraph identifier.
	KindSubgraph
)

// Attribute scopes used as keys of attribute blocks.
const (
	ScopeGraph = "graph"
	ScopeNode  = "node"
	ScopeEdge  = "edge"
)

func (k Kind) String() string {
	switch k {
	case KindAttr:
		return "attr"
	case KindNode:
		return "node"
	case KindEdge:
		return "edge"
	case KindSubgraph:
		return "subgraph"
	}
	return "unknown"
}

// Statement is one entry of a parsed description.
type Statement struct {
	Kind   Kind
	ID     string
	Source string // edges only
	Target string // edges only
	Attrs  map[string]string
	Stmts  []Statement // subgraphs only
}

// Parser turns description text into statements.
type Parser interface {
	Parse(ctx context.Context, text []byte) ([]Statement, error)
}

// ParserFunc adapts a function to the [Parser] interface.
type ParserFunc func(ctx context.Context, text []byte) ([]Statement, error)

// Parse calls f(ctx, text).
func (f ParserFunc) Parse(ctx context.Context, text []byte) ([]Statement, error) {
	return f(ctx, text)
}

// Attr returns an attribute statement.
func Attr(scope string, attrs map[string]string) Statement {
	return Statement{Kind: KindAttr, ID: scope, Attrs: attrs}
}

// NodeStmt returns a node statement.
func NodeStmt(id string, attrs map[string]string) Statement {
	return Statement{Kind: KindNode, ID: id, Attrs: attrs}
}

// EdgeStmt returns an edge statement.
func EdgeStmt(source, target string, attrs map[string]string) Statement {
	return Statement{Kind: KindEdge, Source: source, Target: target, Attrs: attrs}
}

// SubgraphStmt returns a subgraph statement.
func SubgraphStmt(id string, stmts ...Statement) Statement {
	return Statement{Kind: KindSubgraph, ID: id, Stmts: stmts}
}
