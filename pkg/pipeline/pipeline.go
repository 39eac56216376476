// Package pipeline provides the load → layout → render pipeline shared by
// the CLI and the HTTP server.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Read: Obtain the description text, inline or through a fetcher
//  2. Layout: Run a session against an in-memory surface and capture the
//     drawing as a [graph.Layout]
//  3. Render: Turn the layout into artifacts (SVG, PNG, PDF, JSON, DOT)
//
// Layouts and artifacts are cached by content hash, so rendering the same
// description twice with the same options only draws it once.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, fetcher, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Source:  "stemma.dot?pass_id=7",
//	    Style:   "chord",
//	    Formats: []string{"svg"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/stemma/pkg/cache"
	"github.com/matzehuels/stemma/pkg/chord"
	"github.com/matzehuels/stemma/pkg/errors"
	"github.com/matzehuels/stemma/pkg/graph"
	"github.com/matzehuels/stemma/pkg/render"
	"github.com/matzehuels/stemma/pkg/session"
)

// =============================================================================
// Default Values
// =============================================================================

// DefaultStyle is the default layout style.
const DefaultStyle = graph.StyleStemma

// DefaultScale is the PNG scale factor.
const DefaultScale = 2.0

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
	FormatDOT  = "dot"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
	FormatDOT:  true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Input options
	Source        string `json:"source,omitempty" validate:"required_without=Text"`
	Text          string `json:"text,omitempty"`
	PassageSource string `json:"passage,omitempty"`
	Refresh       bool   `json:"refresh,omitempty"`

	// Layout options
	Style             string  `json:"style,omitempty" validate:"omitempty,oneof=stemma chord"`
	SkipAutoLayout    bool    `json:"skip_auto_layout,omitempty"`
	LeafSize          float64 `json:"leaf_size,omitempty" validate:"gte=0"`
	Tension           float64 `json:"tension,omitempty" validate:"gte=0,lte=1"`
	ReferenceCategory string  `json:"reference_category,omitempty"`

	// Render options
	Formats     []string `json:"formats,omitempty" validate:"dive,oneof=svg png pdf json dot"`
	Title       string   `json:"title,omitempty"`
	Scale       float64  `json:"scale,omitempty" validate:"gte=0,lte=10"`
	Interactive bool     `json:"interactive,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// TextHash is the content hash of the description text.
	TextHash string

	// LayoutHash is the content hash of the serialized layout.
	LayoutHash string

	// Layout is the captured drawing.
	Layout *graph.Layout

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	Skipped    int
	ReadTime   time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether the layout came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, png, pdf, json, dot)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateStyle checks that a style is valid.
func ValidateStyle(style string) error {
	if !session.Style(style).Valid() {
		return errors.New(errors.ErrCodeInvalidStyle, "invalid style: %q (must be one of: stemma, chord)", style)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks the options and applies defaults.
// This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Style != "" {
		if err := ValidateStyle(o.Style); err != nil {
			return err
		}
	}
	if err := errors.ValidateStruct(o); err != nil {
		return err
	}
	o.SetLayoutDefaults()
	o.SetRenderDefaults()
	o.validated = true
	return nil
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.Style == "" {
		o.Style = DefaultStyle
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
}

// IsChord returns true if this is a chord layout.
func (o *Options) IsChord() bool {
	return o.Style == graph.StyleChord
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	k := cache.LayoutKeyOpts{
		Style:      o.Style,
		AutoLayout: !o.SkipAutoLayout,
	}
	if o.IsChord() {
		k.LeafSize = o.LeafSize
		k.Tension = o.Tension
		k.ReferenceCategory = o.ReferenceCategory
	}
	return k
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: format}
	switch format {
	case FormatSVG:
		k.Interactive = o.Interactive
	case FormatPNG:
		k.Scale = o.Scale
	}
	return k
}

// sessionRequest builds the session request for inline text.
func (o *Options) sessionRequest(text []byte) session.Request {
	return session.Request{
		Text:          text,
		PassageSource: o.PassageSource,
		Style:         session.Style(o.Style),
		Chord: chord.Options{
			LeafSize:          o.LeafSize,
			Tension:           o.Tension,
			ReferenceCategory: o.ReferenceCategory,
			Logger:            o.Logger,
		},
		Render: render.Options{
			Title:  o.Title,
			Logger: o.Logger,
		},
	}
}
