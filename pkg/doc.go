// Package pkg provides the core libraries for Stemma, a layout engine for
// textual-flow diagrams.
//
// # Overview
//
// Stemma reads Graphviz descriptions of manuscript relationships and turns
// them into drawings: either the positioned graph itself (a stemma) or a
// hierarchical chord diagram where manuscripts sit on a ring grouped by
// reading and links are bundled through the group hierarchy.
//
// # Architecture
//
// The typical data flow:
//
//	DOT text (file, URL or inline)
//	         ↓
//	    [dot] package (statements → resolved description)
//	         ↓
//	    [geom] package (Graphviz points → display coordinates)
//	         ↓
//	    [chord] package (hierarchy, ring angles, bundled links)
//	         ↓
//	    [render] package (shapes on a surface: recorder, SVG)
//
// [session] drives one load from fetch to the last emitted shape and
// reports every state transition. [pipeline] wraps sessions with caching
// and artifact formats for the CLI and the HTTP API.
//
// # Quick Start
//
// Lay out an inline description and write SVG:
//
//	svg := render.NewSVG()
//	s := session.New(session.Config{Surface: svg})
//	_, err := s.Load(ctx, session.Request{
//	    Text:  []byte(`digraph { a -> b }`),
//	    Style: session.StyleStemma,
//	})
//	if err != nil {
//	    return err
//	}
//	os.Stdout.Write(svg.Bytes())
//
// # Main Packages
//
// ## Core
//
// [geom] - Points, boxes and paths; conversion from Graphviz units (72 per
// inch, y up) to display units (96 per inch, y down).
//
// [dot] - Statement model, the Graphviz-backed parser and the adapter that
// resolves attribute defaults, geometry and edge endpoints.
//
// [chord] - Hierarchy construction, leaf ordering, bundled link paths and
// crossing counts.
//
// [render] - The [render.Surface] contract, shape emission for both styles,
// an in-memory recorder and an SVG writer.
//
// [session] - Load state machine, observers and the generation tracker
// that discards stale loads.
//
// ## Infrastructure
//
// [fetch] - HTTP and file fetcher with retries, a circuit breaker and
// response caching.
//
// [cache] - File, Redis, memory and null caches plus key derivation.
//
// [graph] - The serialized layout format and its replay onto a surface.
//
// [pipeline] - Read → layout → render with caching, shared by CLI and API.
//
// [config] - TOML configuration for the CLI and server.
//
// [observability] - Hooks for metrics with a Prometheus implementation.
//
// [errors] - Coded errors and struct validation.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...          # All tests
//	go test ./pkg/chord/...    # Specific package
//	go test -run Example ./... # Examples only
//
// [geom]: https://pkg.go.dev/github.com/matzehuels/stemma/pkg/geom
// [dot]: https://pkg.go.dev/github.com/matzehuels/stemma/pkg/dot
// [chord]: https://pkg.go.dev/github.com/matzehuels/stemma/pkg/chord
// [render]: https://pkg.go.dev/github.com/matzehuels/stemma/pkg/render
// [render.Surface]: https://pkg.go.dev/github.com/matzehuels/stemma/pkg/render#Surface
// [session]: https://pkg.go.dev/github.com/matzehuels/stemma/pkg/session
// [fetch]: https://pkg.go.dev/github.com/matzehuels/stemma/pkg/fetch
// [cache]: https://pkg.go.dev/github.com/matzehuels/stemma/pkg/cache
// [graph]: https://pkg.go.dev/github.com/matzehuels/stemma/pkg/graph
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/stemma/pkg/pipeline
// [config]: https://pkg.go.dev/github.com/matzehuels/stemma/pkg/config
// [observability]: https://pkg.go.dev/github.com/matzehuels/stemma/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/stemma/pkg/errors
package pkg
