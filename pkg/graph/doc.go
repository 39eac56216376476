// Package graph provides the serialized form of a computed layout.
//
// A [Layout] is what a load produces once the surface has been fed: the
// view box, the adapted nodes and edges in display space, the chord groups
// when the chord style was used, and the ordered draw instructions. It is
// the canonical wire format for JSON output, API responses and the layout
// cache.
//
// # Building
//
// [Build] assembles a Layout from a description, an optional chord layout
// and the [render.Recorder] that received the draw calls:
//
//	rec := render.NewRecorder()
//	res, err := sess.Load(ctx, req)         // session drawing into rec
//	l := graph.Build("chord", res.Description, res.Layout, rec)
//
// # Replaying
//
// [Replay] feeds a stored layout to any [render.Surface], which is how a
// cached layout becomes an SVG without parsing the description again:
//
//	svg := render.NewSVG()
//	graph.Replay(l, svg)
//	out := svg.Bytes()
//
// # Format
//
//	{
//	  "version": 1,
//	  "style": "stemma",
//	  "view_box": {"x": -8, "y": -8, "width": 176, "height": 116},
//	  "nodes": [{"id": "A", "x": 27, "y": 33, "width": 54, "height": 36}],
//	  "edges": [{"id": "e0", "source": "A", "target": "B", "path": "M..."}],
//	  "instructions": [{"type": "ellipse", "shape": {"cx": 27, ...}}]
//	}
//
// Instructions decode back into the concrete shape types of package render.
package graph
