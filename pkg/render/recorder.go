package render

import (
	"encoding/json"

	"github.com/matzehuels/stemma/pkg/geom"
)

// Recorder is an in-memory [Surface]. It keeps the current drawing and a
// log of every call, which makes the order of operations observable.
type Recorder struct {
	ViewBox geom.BBox
	Shapes  []Shape
	Log     []string
}

// NewRecorder returns an empty recorder.
func NewRecorder() *Recorder { return &Recorder{} }

// Clear implements [Surface].
func (r *Recorder) Clear() {
	r.Shapes = nil
	r.ViewBox = geom.BBox{}
	r.Log = append(r.Log, "clear")
}

// SetViewBox implements [Surface].
func (r *Recorder) SetViewBox(b geom.BBox) {
	r.ViewBox = b
	r.Log = append(r.Log, "viewbox")
}

// Draw implements [Surface].
func (r *Recorder) Draw(s Shape) {
	r.Shapes = append(r.Shapes, s)
	r.Log = append(r.Log, s.Kind())
}

// Count returns the number of recorded shapes of the given kind.
func (r *Recorder) Count(kind string) int {
	n := 0
	for _, s := range r.Shapes {
		if s.Kind() == kind {
			n++
		}
	}
	return n
}

// Instruction is the wire form of a recorded shape.
type Instruction struct {
	Type  string `json:"type"`
	Shape Shape  `json:"shape"`
}

// Instructions returns the current drawing in paint order.
func (r *Recorder) Instructions() []Instruction {
	out := make([]Instruction, len(r.Shapes))
	for i, s := range r.Shapes {
		out[i] = Instruction{Type: s.Kind(), Shape: s}
	}
	return out
}

// MarshalJSON encodes the view box and instructions.
func (r *Recorder) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ViewBox      geom.BBox     `json:"view_box"`
		Instructions []Instruction `json:"instructions"`
	}{r.ViewBox, r.Instructions()})
}
