package render

import (
	"bytes"
	"fmt"
	"html"
	"io"
	"maps"
	"slices"

	"github.com/matzehuels/stemma/pkg/geom"
)

const svgStyle = `
    .link { fill: none; stroke: #555; stroke-opacity: 0.4; stroke-width: 1.5px; transition: stroke-opacity 0.2s ease; }
    .link.highlight { stroke: #d62728; stroke-opacity: 1; }
    .node, .leaf { fill: #fff; stroke: #333; stroke-width: 1px; }
    .leaf.highlight { fill: #d62728; }
    .cluster { fill: none; stroke: #bbb; stroke-dasharray: 4 2; }
    text { font-family: sans-serif; fill: #222; }
    .title { font-weight: bold; }`

const svgInteractionJS = `
    function highlight(id) {
      document.querySelectorAll('.link').forEach(l => l.classList.toggle('highlight', l.dataset.source === id || l.dataset.target === id));
      document.querySelectorAll('.leaf').forEach(n => n.classList.toggle('highlight', n.id === 'node-' + id));
    }
    function clearHighlight() {
      document.querySelectorAll('.highlight').forEach(el => el.classList.remove('highlight'));
    }
    document.querySelectorAll('.leaf, .node').forEach(el => {
      el.addEventListener('mouseenter', () => highlight(el.id.replace('node-', '')));
      el.addEventListener('mouseleave', clearHighlight);
    });`

// SVG is a [Surface] that renders a standalone SVG document.
type SVG struct {
	viewBox geom.BBox
	layers  []string
	shapes  map[string][]Shape

	// Interactive embeds a script highlighting the links of a hovered node.
	Interactive bool
}

// NewSVG returns an empty SVG surface.
func NewSVG() *SVG {
	return &SVG{shapes: make(map[string][]Shape)}
}

// Clear implements [Surface].
func (s *SVG) Clear() {
	s.viewBox = geom.BBox{}
	s.layers = nil
	s.shapes = make(map[string][]Shape)
}

// SetViewBox implements [Surface].
func (s *SVG) SetViewBox(b geom.BBox) { s.viewBox = b }

// Draw implements [Surface].
func (s *SVG) Draw(sh Shape) {
	layer := sh.meta().Layer
	if _, ok := s.shapes[layer]; !ok {
		s.layers = append(s.layers, layer)
	}
	s.shapes[layer] = append(s.shapes[layer], sh)
}

// Bytes returns the SVG document.
func (s *SVG) Bytes() []byte {
	var buf bytes.Buffer
	_, _ = s.WriteTo(&buf)
	return buf.Bytes()
}

// WriteTo writes the SVG document to w.
func (s *SVG) WriteTo(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	vb := s.viewBox
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="%s %s %s %s" width="%.0f" height="%.0f">`+"\n",
		num(vb.X), num(vb.Y), num(vb.Width), num(vb.Height), vb.Width, vb.Height)
	buf.WriteString("  <defs>\n")
	buf.WriteString(`    <marker id="arrow" viewBox="0 0 10 10" refX="10" refY="5" markerWidth="6" markerHeight="6" orient="auto-start-reverse"><path d="M0,0L10,5L0,10z" fill="#555"/></marker>` + "\n")
	buf.WriteString("  </defs>\n")
	fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", svgStyle)

	for _, layer := range s.paintOrder() {
		if layer != "" {
			fmt.Fprintf(&buf, "  <g class=%q>\n", html.EscapeString(layer))
		}
		for _, sh := range s.shapes[layer] {
			buf.WriteString("    ")
			writeShape(&buf, sh)
			buf.WriteString("\n")
		}
		if layer != "" {
			buf.WriteString("  </g>\n")
		}
	}

	if s.Interactive {
		fmt.Fprintf(&buf, "  <script><![CDATA[%s\n  ]]></script>\n", svgInteractionJS)
	}
	buf.WriteString("</svg>\n")

	n, err := w.Write(buf.Bytes())
	return int64(n), err
}

// paintOrder returns the emitter layers first, in their fixed order,
// followed by any other layer in order of first use.
func (s *SVG) paintOrder() []string {
	order := make([]string, 0, len(s.layers))
	for _, l := range []string{"", LayerClusters, LayerLinks, LayerNodes, LayerLabels} {
		if _, ok := s.shapes[l]; ok {
			order = append(order, l)
		}
	}
	for _, l := range s.layers {
		if !slices.Contains(order, l) {
			order = append(order, l)
		}
	}
	return order
}

func writeShape(buf *bytes.Buffer, sh Shape) {
	m := sh.meta()
	switch v := sh.(type) {
	case *Ellipse:
		fmt.Fprintf(buf, `<ellipse%s cx="%s" cy="%s" rx="%s" ry="%s"`, attrs(m), num(v.CX), num(v.CY), num(v.RX), num(v.RY))
	case *Rect:
		fmt.Fprintf(buf, `<rect%s x="%s" y="%s" width="%s" height="%s"`, attrs(m), num(v.X), num(v.Y), num(v.Width), num(v.Height))
	case *Path:
		fmt.Fprintf(buf, `<path%s d="%s"`, attrs(m), html.EscapeString(v.D))
		if v.Arrow {
			buf.WriteString(` marker-end="url(#arrow)"`)
		}
	case *Text:
		fmt.Fprintf(buf, `<text%s x="%s" y="%s"`, attrs(m), num(v.X), num(v.Y))
		if v.Anchor != "" {
			fmt.Fprintf(buf, ` text-anchor="%s"`, html.EscapeString(v.Anchor))
		}
		if v.Size > 0 {
			fmt.Fprintf(buf, ` font-size="%s"`, num(v.Size))
		}
		if v.Rotate != 0 {
			fmt.Fprintf(buf, ` transform="rotate(%s %s %s)"`, num(v.Rotate), num(v.X), num(v.Y))
		}
		buf.WriteString(` dominant-baseline="middle">`)
		buf.WriteString(html.EscapeString(v.Text))
		buf.WriteString("</text>")
		return
	default:
		return
	}

	if m.Title != "" {
		fmt.Fprintf(buf, "><title>%s</title></%s>", html.EscapeString(m.Title), sh.Kind())
		return
	}
	buf.WriteString("/>")
}

func attrs(m *Meta) string {
	var b bytes.Buffer
	if m.ID != "" {
		fmt.Fprintf(&b, ` id="%s"`, html.EscapeString(m.ID))
	}
	if m.Class != "" {
		fmt.Fprintf(&b, ` class="%s"`, html.EscapeString(m.Class))
	}
	for _, k := range slices.Sorted(maps.Keys(m.Data)) {
		fmt.Fprintf(&b, ` data-%s="%s"`, html.EscapeString(k), html.EscapeString(m.Data[k]))
	}
	return b.String()
}

func num(v float64) string { return geom.FormatNumber(v) }
