package chord

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
)

// Default values.
const (
	// DefaultLeafSize is the diameter of a leaf marker in pixels.
	DefaultLeafSize = 14.0

	// DefaultTension pulls bundled edges halfway toward the straight chord.
	DefaultTension = 0.5

	// DefaultReferenceCategory is the category whose leaves sort ascending.
	DefaultReferenceCategory = "a"

	// DefaultCategoryAttr and DefaultKeyAttr name the node attributes used
	// for grouping and ordering.
	DefaultCategoryAttr = "labez"
	DefaultKeyAttr      = "hsnr"
)

// Options configures [Compute].
type Options struct {
	LeafSize          float64     `json:"leaf_size,omitempty"`
	Tension           float64     `json:"tension,omitempty"`
	ReferenceCategory string      `json:"reference_category,omitempty"`
	CategoryAttr      string      `json:"category_attr,omitempty"`
	KeyAttr           string      `json:"key_attr,omitempty"`
	Logger            *log.Logger `json:"-"`
}

// ValidateAndSetDefaults fills zero values and rejects invalid ones.
func (o *Options) ValidateAndSetDefaults() error {
	if o.LeafSize < 0 {
		return fmt.Errorf("leaf size must be positive, got %v", o.LeafSize)
	}
	if o.Tension < 0 || o.Tension > 1 {
		return fmt.Errorf("tension must be in [0, 1], got %v", o.Tension)
	}
	if o.LeafSize == 0 {
		o.LeafSize = DefaultLeafSize
	}
	if o.Tension == 0 {
		o.Tension = DefaultTension
	}
	if o.ReferenceCategory == "" {
		o.ReferenceCategory = DefaultReferenceCategory
	}
	if o.CategoryAttr == "" {
		o.CategoryAttr = DefaultCategoryAttr
	}
	if o.KeyAttr == "" {
		o.KeyAttr = DefaultKeyAttr
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
	return nil
}
