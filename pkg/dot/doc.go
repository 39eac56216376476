// Package dot turns Graphviz descriptions into an indexed, typed model.
//
// Parsing happens in two steps. A [Parser] produces a tree of
// [Statement] values (graph attributes, nodes, edges and subgraphs, each
// carrying raw string attributes). [Adapt] then re-indexes that tree into a
// [Description]: nodes and subgraphs keyed by identifier, an ordered edge
// list, and geometry attributes ("bb", "lp", "pos") resolved once into
// [geom] types so downstream code never looks at raw coordinate strings.
//
// # Parsers
//
// [GraphvizParser] reads DOT through the Graphviz C library compiled to
// WebAssembly (github.com/goccy/go-graphviz). Inputs that were not laid
// out yet (no root "bb") are optionally passed through the dot engine
// first so that every node carries coordinates.
//
// Any other source of statements works as well; the adapter only depends
// on the [Statement] shape.
//
// # Membership
//
// Subgraph nodes are merged into the parent's node map with first writer
// wins. [Node.Subgraph] names the first top-level subgraph that mentions
// the node, which is the grouping used by radial layouts; nodes outside
// every subgraph have an empty Subgraph.
//
// # Errors
//
// Adaptation never fails as a whole. Malformed geometry on one element
// is recorded in [Description.Diagnostics] and the typed field is left nil.
// Edges whose endpoints do not resolve are kept; [Description.Resolve]
// reports them as UNRESOLVED_REFERENCE so renderers can skip them.
package dot
