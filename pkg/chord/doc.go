// Package chord computes radial "chord" layouts of grouped graphs.
//
// Every node of a [dot.Description] becomes a leaf on a circle. Leaves are
// grouped under their top-level subgraph, groups hang off a synthetic root,
// and edges are drawn as bundled curves that follow the hierarchy from one
// leaf through the groups to the other.
//
// # Algorithm
//
// [Compute] runs these steps on a freshly built hierarchy:
//
//  1. Annotate: each edge copies the opposite endpoint's category and key
//     onto both of its leaves.
//  2. Order: runs of leaf siblings are sorted so leaves that share an edge
//     partner sit next to each other. Leaves of the reference category sort
//     ascending by partner category and own key, all others descending by
//     partner category and partner key.
//  3. Size: the circle radius grows with the leaf and group count so leaf
//     markers never overlap (see [Radius]).
//  4. Place: a cluster placement spreads leaves over 360 degrees with a
//     wider gap between groups; internal nodes sit at the mean angle of
//     their children.
//  5. Bundle: each edge becomes a B-spline through the hierarchy path,
//     straightened toward the direct chord by the bundling tension.
//
// Angles are in degrees with 0 at twelve o'clock, increasing clockwise in
// display space (y pointing down). Coordinates are relative to the center.
//
// # Categories
//
// A leaf's category is its "labez" attribute, falling back to the group's
// label and then the group ID. Its key is its "hsnr" attribute, falling
// back to the node ID. Both attribute names are configurable in [Options].
//
// [CountCrossings] reports how many chords cross for the final ordering.
package chord
