package render

import (
	"io"
	"math"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/stemma/pkg/chord"
	"github.com/matzehuels/stemma/pkg/dot"
	"github.com/matzehuels/stemma/pkg/errors"
	"github.com/matzehuels/stemma/pkg/geom"
)

// Layers, painted in this order.
const (
	LayerClusters = "clusters"
	LayerLinks    = "links"
	LayerNodes    = "nodes"
	LayerLabels   = "labels"
)

// DefaultPadding is the margin added around the drawing, in pixels.
const DefaultPadding = 8.0

// Options configures the emitters.
type Options struct {
	// Title is drawn above the diagram when set.
	Title string

	// Padding around the drawing. Zero uses [DefaultPadding].
	Padding float64

	// DataAttrs names node attributes copied onto node shapes as data
	// attributes.
	DataAttrs []string

	Logger *log.Logger
}

func (o *Options) setDefaults() {
	if o.Padding == 0 {
		o.Padding = DefaultPadding
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
}

// Stats reports what an emitter drew.
type Stats struct {
	Nodes   int `json:"nodes"`
	Edges   int `json:"edges"`
	Skipped int `json:"skipped"`
}

// EmitStemma draws d with the coordinates stored in it. The surface is
// cleared only after d has been checked for usable bounds.
func EmitStemma(s Surface, d *dot.Description, opts Options) (Stats, error) {
	opts.setDefaults()
	var st Stats
	if d == nil || len(d.Nodes) == 0 {
		return st, errors.New(errors.ErrCodeEmptyGraph, "description has no nodes")
	}
	bounds, ok := d.Bounds()
	if !ok || !bounds.Valid() {
		return st, errors.New(errors.ErrCodeMalformedGeometry, "description has no usable bounding box")
	}

	vb := bounds.Pad(opts.Padding)
	if opts.Title != "" {
		vb.Y -= titleHeight
		vb.Height += titleHeight
	}
	s.Clear()
	s.SetViewBox(vb)
	if opts.Title != "" {
		s.Draw(title(opts.Title, vb.Center().X, vb.Y+titleHeight/2+opts.Padding/2))
	}

	for _, sg := range d.Groups() {
		emitCluster(s, sg)
	}

	for _, e := range d.Edges {
		if _, _, err := d.Resolve(e); err != nil {
			st.Skipped++
			opts.Logger.Warn("skipping edge", "edge", e.ID, "err", err)
			continue
		}
		if e.Spline == nil || !e.Spline.Valid() {
			st.Skipped++
			opts.Logger.Warn("skipping edge without usable path", "edge", e.ID)
			continue
		}
		p := e.Spline.Path()
		if p == "" {
			st.Skipped++
			continue
		}
		s.Draw(&Path{
			Meta: Meta{
				ID:    "edge-" + e.ID,
				Class: "link",
				Layer: LayerLinks,
				Data:  map[string]string{"source": e.Source, "target": e.Target},
			},
			D:     p,
			Arrow: e.Spline.End != nil,
		})
		st.Edges++
	}

	for _, id := range d.NodeOrder {
		n := d.Nodes[id]
		if n.Pos == nil || !n.Pos.Valid() {
			st.Skipped++
			opts.Logger.Warn("skipping node without position", "node", id)
			continue
		}
		meta := Meta{
			ID:    "node-" + id,
			Class: "node",
			Layer: LayerNodes,
			Title: n.Label(),
			Data:  dataAttrs(n.Attrs, opts.DataAttrs),
		}
		switch n.Attrs["shape"] {
		case "box", "rect", "rectangle", "square":
			b := geom.BBoxAround(*n.Pos, n.Width, n.Height)
			s.Draw(&Rect{Meta: meta, X: b.X, Y: b.Y, Width: b.Width, Height: b.Height})
		default:
			s.Draw(&Ellipse{Meta: meta, CX: n.Pos.X, CY: n.Pos.Y, RX: n.Width / 2, RY: n.Height / 2})
		}

		at := *n.Pos
		if n.LabelPos != nil && n.LabelPos.Valid() {
			at = *n.LabelPos
		}
		s.Draw(&Text{
			Meta:   Meta{Layer: LayerLabels},
			X:      at.X,
			Y:      at.Y,
			Text:   n.Label(),
			Anchor: "middle",
			Size:   n.FontSize,
		})
		st.Nodes++
	}

	opts.Logger.Debug("emitted stemma", "nodes", st.Nodes, "edges", st.Edges, "skipped", st.Skipped)
	return st, nil
}

func emitCluster(s Surface, sg *dot.Subgraph) {
	if sg.BBox != nil && sg.BBox.Valid() {
		s.Draw(&Rect{
			Meta:   Meta{ID: "cluster-" + sg.ID, Class: "cluster", Layer: LayerClusters, Title: sg.Label},
			X:      sg.BBox.X,
			Y:      sg.BBox.Y,
			Width:  sg.BBox.Width,
			Height: sg.BBox.Height,
		})
		if sg.Label != "" && sg.LabelPos != nil && sg.LabelPos.Valid() {
			s.Draw(&Text{
				Meta:   Meta{Layer: LayerLabels},
				X:      sg.LabelPos.X,
				Y:      sg.LabelPos.Y,
				Text:   sg.Label,
				Anchor: "middle",
			})
		}
	}
	for _, c := range sg.Subgraphs {
		emitCluster(s, c)
	}
}

// EmitChord draws l centered on the origin: bundled links, one marker per
// leaf with its label inside the ring, and group labels outside it.
func EmitChord(s Surface, l *chord.Layout, opts Options) (Stats, error) {
	opts.setDefaults()
	var st Stats
	if l == nil || len(l.Leaves) == 0 {
		return st, errors.New(errors.ErrCodeEmptyGraph, "layout has no leaves")
	}
	st.Skipped = l.Skipped

	extent := l.LabelRadius + 4*l.LeafSize + opts.Padding
	vb := geom.BBox{X: -extent, Y: -extent, Width: 2 * extent, Height: 2 * extent}
	if opts.Title != "" {
		vb.Y -= titleHeight
		vb.Height += titleHeight
	}
	s.Clear()
	s.SetViewBox(vb)
	if opts.Title != "" {
		s.Draw(title(opts.Title, 0, vb.Y+titleHeight/2+opts.Padding/2))
	}

	for _, link := range l.Links {
		s.Draw(&Path{
			Meta: Meta{
				ID:    "link-" + link.ID,
				Class: "link",
				Layer: LayerLinks,
				Data:  map[string]string{"source": link.Source, "target": link.Target},
			},
			D: link.Path,
		})
		st.Edges++
	}

	r := l.LeafSize / 2
	for _, n := range l.Leaves {
		s.Draw(&Ellipse{
			Meta: Meta{
				ID:    "node-" + n.ID,
				Class: "leaf",
				Layer: LayerNodes,
				Title: n.Label,
				Data:  leafData(n),
			},
			CX: n.X,
			CY: n.Y,
			RX: r,
			RY: r,
		})
		s.Draw(leafLabel(n, l.Radius-l.LeafSize))
		st.Nodes++
	}

	for _, g := range l.Groups {
		x, y := chord.Polar(g.Angle, l.LabelRadius)
		s.Draw(&Text{
			Meta:   Meta{Class: "group", Layer: LayerLabels},
			X:      x,
			Y:      y,
			Text:   g.Label,
			Anchor: sideAnchor(x),
		})
	}

	opts.Logger.Debug("emitted chord", "leaves", st.Nodes, "links", st.Edges, "skipped", st.Skipped)
	return st, nil
}

// leafLabel places a label at radius r, reading outward from the center on
// the right half and inward on the left so text is never upside down.
func leafLabel(n *chord.HierarchyNode, r float64) *Text {
	x, y := chord.Polar(n.Angle, r)
	t := &Text{Meta: Meta{Class: "leaf-label", Layer: LayerLabels}, X: x, Y: y, Text: n.Label}
	if n.Angle < 180 {
		t.Rotate = n.Angle - 90
		t.Anchor = "end"
	} else {
		t.Rotate = n.Angle + 90
		t.Anchor = "start"
	}
	return t
}

func leafData(n *chord.HierarchyNode) map[string]string {
	data := map[string]string{}
	if n.Category != "" {
		data["category"] = n.Category
	}
	if n.Key != "" {
		data["key"] = n.Key
	}
	return data
}

func sideAnchor(x float64) string {
	switch {
	case math.Abs(x) < 1:
		return "middle"
	case x > 0:
		return "start"
	default:
		return "end"
	}
}

const titleHeight = 24.0

func title(text string, x, y float64) *Text {
	return &Text{Meta: Meta{Class: "title", Layer: LayerLabels}, X: x, Y: y, Text: text, Anchor: "middle", Size: 16}
}

func dataAttrs(attrs map[string]string, names []string) map[string]string {
	if len(names) == 0 {
		return nil
	}
	out := make(map[string]string, len(names))
	for _, k := range names {
		if v, ok := attrs[k]; ok {
			out[k] = v
		}
	}
	return out
}
