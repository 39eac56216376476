package pipeline

import (
	"context"

	"github.com/matzehuels/stemma/pkg/dot"
	"github.com/matzehuels/stemma/pkg/fetch"
	"github.com/matzehuels/stemma/pkg/graph"
	"github.com/matzehuels/stemma/pkg/render"
	"github.com/matzehuels/stemma/pkg/session"
)

// ComputeLayout runs one session load over text against an in-memory
// surface and captures the result. f is only used for the passage.
func ComputeLayout(ctx context.Context, text []byte, f fetch.Fetcher, opts Options) (*graph.Layout, error) {
	rec := render.NewRecorder()
	sess := session.New(session.Config{
		Fetcher: f,
		Parser:  dot.GraphvizParser{AutoLayout: !opts.SkipAutoLayout},
		Surface: rec,
		Logger:  opts.Logger,
	})

	res, err := sess.Load(ctx, opts.sessionRequest(text))
	if err != nil {
		return nil, err
	}

	l := graph.Build(string(res.Style), res.Description, res.Layout, rec)
	l.Stats = res.Stats
	l.Crossings = res.Crossings
	return l, nil
}
