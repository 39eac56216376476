// Package httputil provides retry helpers for upstream HTTP clients.
//
// A [Policy] re-runs an operation whose error is wrapped with [Retryable],
// doubling the delay after each attempt:
//
//	p := httputil.Policy{Attempts: 3, Delay: time.Second}
//	err := p.Do(ctx, func() error {
//	    resp, err := client.Do(req)
//	    if err != nil {
//	        return httputil.Retryable(err)
//	    }
//	    defer resp.Body.Close()
//	    if httputil.RetryableStatus(resp.StatusCode) {
//	        return httputil.Retryable(fmt.Errorf("status %d", resp.StatusCode))
//	    }
//	    ...
//	})
//
// Errors not wrapped with [Retryable] are returned at once. When the chain
// holds an errors.RateLimitedError with a Retry-After value, that delay is
// used instead of the backoff, capped at Policy.MaxDelay.
package httputil
