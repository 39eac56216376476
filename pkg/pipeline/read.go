package pipeline

import (
	"context"

	"github.com/matzehuels/stemma/pkg/cache"
	"github.com/matzehuels/stemma/pkg/errors"
	"github.com/matzehuels/stemma/pkg/fetch"
)

// ReadText returns the description text: opts.Text when set, otherwise
// the body of opts.Source fetched through f.
func ReadText(ctx context.Context, f fetch.Fetcher, opts Options) ([]byte, error) {
	if opts.Text != "" {
		return []byte(opts.Text), nil
	}
	if opts.Source == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "source or text is required")
	}
	if f == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no fetcher configured for %q", opts.Source)
	}
	data, err := f.Fetch(ctx, opts.Source)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFetch, err, "fetch %s", opts.Source)
	}
	return data, nil
}

// contentHash identifies everything that ends up in a drawing besides the
// layout options: the text, the explicit title and the passage source.
func contentHash(text []byte, opts Options) string {
	buf := make([]byte, 0, len(text)+len(opts.Title)+len(opts.PassageSource)+2)
	buf = append(buf, text...)
	buf = append(buf, 0)
	buf = append(buf, opts.Title...)
	buf = append(buf, 0)
	buf = append(buf, opts.PassageSource...)
	return cache.Hash(buf)
}
