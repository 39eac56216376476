package graph

import (
	"encoding/json"
	"fmt"

	"github.com/matzehuels/stemma/pkg/geom"
	"github.com/matzehuels/stemma/pkg/render"
)

// Version is the current layout format version.
const Version = 1

// Layout styles.
const (
	StyleStemma = "stemma"
	StyleChord  = "chord"
)

// =============================================================================
// Layout - Serialized Load Result
// =============================================================================

// Layout is the serialization format of a drawn description.
type Layout struct {
	Version   int          `json:"version"`
	Style     string       `json:"style"`
	Title     string       `json:"title,omitempty"`
	ViewBox   geom.BBox    `json:"view_box"`
	Stats     render.Stats `json:"stats"`
	Crossings int          `json:"crossings,omitempty"`

	Nodes  []Node  `json:"nodes"`
	Edges  []Edge  `json:"edges"`
	Groups []Group `json:"groups,omitempty"` // chord only

	Instructions []Instruction `json:"instructions"`
}

// IsChord returns true if this is a chord layout.
func (l *Layout) IsChord() bool { return l.Style == StyleChord }

// Node is a positioned description node. X and Y are the display-space
// center; they are zero when the node had no position.
type Node struct {
	ID       string            `json:"id"`
	Label    string            `json:"label,omitempty"`
	Subgraph string            `json:"subgraph,omitempty"`
	X        float64           `json:"x"`
	Y        float64           `json:"y"`
	Width    float64           `json:"width,omitempty"`
	Height   float64           `json:"height,omitempty"`
	Attrs    map[string]string `json:"attrs,omitempty"`
}

// Edge is a description edge. Path holds SVG path commands for edges that
// were drawn and is empty otherwise.
type Edge struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
	Path   string `json:"path,omitempty"`
}

// Group is a chord group with its leaves in circle order.
type Group struct {
	ID     string   `json:"id"`
	Label  string   `json:"label,omitempty"`
	Angle  float64  `json:"angle"`
	Leaves []string `json:"leaves"`
}

// =============================================================================
// Instruction - Typed Shape Envelope
// =============================================================================

// Instruction wraps one shape with its kind so it can be decoded again.
type Instruction struct {
	Type  string       `json:"type"`
	Shape render.Shape `json:"shape"`
}

// UnmarshalJSON decodes the shape into the concrete type named by Type.
func (in *Instruction) UnmarshalJSON(data []byte) error {
	var raw struct {
		Type  string          `json:"type"`
		Shape json.RawMessage `json:"shape"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	var s render.Shape
	switch raw.Type {
	case "ellipse":
		s = &render.Ellipse{}
	case "rect":
		s = &render.Rect{}
	case "path":
		s = &render.Path{}
	case "text":
		s = &render.Text{}
	default:
		return fmt.Errorf("unknown instruction type %q", raw.Type)
	}
	if err := json.Unmarshal(raw.Shape, s); err != nil {
		return fmt.Errorf("decode %s: %w", raw.Type, err)
	}
	in.Type, in.Shape = raw.Type, s
	return nil
}
