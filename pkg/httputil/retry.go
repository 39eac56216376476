package httputil

import (
	"context"
	"errors"
	"net/http"
	"time"

	serrors "github.com/matzehuels/stemma/pkg/errors"
)

// DefaultMaxDelay caps a single wait, including one asked for by a
// Retry-After header.
const DefaultMaxDelay = 30 * time.Second

// RetryableError marks an error as transient.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retryable wraps err as a [RetryableError]. Retryable(nil) is nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

// RetryableStatus reports whether an HTTP status is worth retrying:
// 408, 429 and every 5xx except 501.
func RetryableStatus(code int) bool {
	switch {
	case code == http.StatusRequestTimeout, code == http.StatusTooManyRequests:
		return true
	case code == http.StatusNotImplemented:
		return false
	default:
		return code >= 500
	}
}

// Policy describes how an upstream call is retried.
type Policy struct {
	// Attempts is the total number of calls; values below 1 mean 1.
	Attempts int

	// Delay is the first wait. It doubles after each failure.
	Delay time.Duration

	// MaxDelay caps each wait; 0 means DefaultMaxDelay.
	MaxDelay time.Duration

	// OnRetry, if set, is called before each wait.
	OnRetry func(attempt int, wait time.Duration, err error)
}

// Do calls fn until it succeeds, returns an error not wrapped with
// [Retryable], or runs out of attempts. A [serrors.RateLimitedError] in
// the chain replaces the backoff with the server's Retry-After. Do returns
// ctx.Err() when the context ends during a wait.
func (p Policy) Do(ctx context.Context, fn func() error) error {
	attempts := max(p.Attempts, 1)
	maxDelay := p.MaxDelay
	if maxDelay <= 0 {
		maxDelay = DefaultMaxDelay
	}

	delay := p.Delay
	var err error
	for i := 1; ; i++ {
		if err = fn(); err == nil || !isRetryable(err) || i == attempts {
			return err
		}

		wait := delay
		var rl *serrors.RateLimitedError
		if errors.As(err, &rl) && rl.RetryAfter > 0 {
			wait = time.Duration(rl.RetryAfter) * time.Second
		}
		wait = min(wait, maxDelay)
		if p.OnRetry != nil {
			p.OnRetry(i, wait, err)
		}

		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
		delay *= 2
	}
}

func isRetryable(err error) bool {
	return errors.As(err, new(*RetryableError))
}
