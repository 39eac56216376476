package fetch

import (
	"context"
	"encoding/json"

	"github.com/matzehuels/stemma/pkg/errors"
)

// Fetcher retrieves the content of a source.
type Fetcher interface {
	Fetch(ctx context.Context, source string) ([]byte, error)
}

// FetcherFunc adapts a function to [Fetcher].
type FetcherFunc func(ctx context.Context, source string) ([]byte, error)

// Fetch calls f.
func (f FetcherFunc) Fetch(ctx context.Context, source string) ([]byte, error) {
	return f(ctx, source)
}

// Text fetches source as a string.
func Text(ctx context.Context, f Fetcher, source string) (string, error) {
	data, err := f.Fetch(ctx, source)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// JSON fetches source and decodes it into v.
func JSON(ctx context.Context, f Fetcher, source string, v any) error {
	data, err := f.Fetch(ctx, source)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode %s", source)
	}
	return nil
}

// Static serves fixed content keyed by source.
type Static map[string]string

// Fetch returns the content for source or a NOT_FOUND error.
func (s Static) Fetch(ctx context.Context, source string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	text, ok := s[source]
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "source %q not found", source)
	}
	return []byte(text), nil
}
