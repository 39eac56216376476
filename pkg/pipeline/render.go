package pipeline

import (
	"context"

	"github.com/matzehuels/stemma/pkg/dot"
	"github.com/matzehuels/stemma/pkg/errors"
	"github.com/matzehuels/stemma/pkg/graph"
	"github.com/matzehuels/stemma/pkg/render"
)

// Render generates output artifacts in the requested formats.
//
// SVG, PNG and PDF are produced by replaying l; PNG and PDF additionally
// need rsvg-convert. DOT needs the original text and yields the
// description with Graphviz coordinates filled in.
func Render(ctx context.Context, l *graph.Layout, text []byte, opts Options) (map[string][]byte, error) {
	var svg []byte
	svgBytes := func() []byte {
		if svg == nil {
			s := render.NewSVG()
			s.Interactive = opts.Interactive
			graph.Replay(l, s)
			svg = s.Bytes()
		}
		return svg
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data = svgBytes()
		case FormatPNG:
			data, err = render.ToPNG(ctx, svgBytes(), opts.Scale)
		case FormatPDF:
			data, err = render.ToPDF(ctx, svgBytes())
		case FormatJSON:
			data, err = graph.MarshalLayout(l)
		case FormatDOT:
			data, err = renderDOT(ctx, text, opts)
		default:
			err = ValidateFormat(format)
		}

		if err != nil {
			if errors.GetCode(err) == "" {
				err = errors.Wrap(errors.ErrCodeInternal, err, "render %s", format)
			}
			return nil, err
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func renderDOT(ctx context.Context, text []byte, opts Options) ([]byte, error) {
	if len(text) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "dot output needs the description text")
	}
	if opts.SkipAutoLayout {
		return text, nil
	}
	return dot.Layout(ctx, text)
}
