package render

import "github.com/matzehuels/stemma/pkg/geom"

// Surface receives draw instructions.
//
// Clear removes everything drawn so far. Emitters only call it once new
// geometry is ready, so a failed load leaves the previous drawing intact.
type Surface interface {
	Clear()
	SetViewBox(b geom.BBox)
	Draw(s Shape)
}

// Shape is a declarative draw instruction.
type Shape interface {
	Kind() string
	meta() *Meta
}

// Meta holds the attributes common to every shape. Layer groups shapes
// for painting.
type Meta struct {
	ID    string            `json:"id,omitempty"`
	Class string            `json:"class,omitempty"`
	Layer string            `json:"layer,omitempty"`
	Title string            `json:"title,omitempty"`
	Data  map[string]string `json:"data,omitempty"`
}

func (m *Meta) meta() *Meta { return m }

// Ellipse is centered on (CX, CY).
type Ellipse struct {
	Meta
	CX float64 `json:"cx"`
	CY float64 `json:"cy"`
	RX float64 `json:"rx"`
	RY float64 `json:"ry"`
}

// Rect is anchored at its top-left corner.
type Rect struct {
	Meta
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Path draws SVG path commands. Arrow adds an arrowhead at the end.
type Path struct {
	Meta
	D     string `json:"d"`
	Arrow bool   `json:"arrow,omitempty"`
}

// Text draws a label at (X, Y), rotated by Rotate degrees around that
// point. Anchor is "start", "middle" or "end".
type Text struct {
	Meta
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Text   string  `json:"text"`
	Anchor string  `json:"anchor,omitempty"`
	Rotate float64 `json:"rotate,omitempty"`
	Size   float64 `json:"size,omitempty"`
}

func (*Ellipse) Kind() string { return "ellipse" }
func (*Rect) Kind() string    { return "rect" }
func (*Path) Kind() string    { return "path" }
func (*Text) Kind() string    { return "text" }
