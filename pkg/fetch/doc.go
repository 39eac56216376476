// Package fetch retrieves description text and passage metadata.
//
// # Fetchers
//
// A [Fetcher] resolves a source string to bytes. [Client] is the production
// implementation: it reads http(s) URLs, resolves relative sources against
// a base URL, and optionally reads local files. Responses are cached, and
// transient failures are retried with backoff behind a circuit breaker so
// a failing upstream is not hammered:
//
//	client := fetch.NewClient(fetch.Options{
//	    BaseURL: "https://example.org/api/",
//	    Cache:   c,
//	})
//	text, err := client.FetchText(ctx, "stemma.dot?pass_id=12")
//
// [Static] serves fixed content from memory for tests and embedding.
//
// # Errors
//
// Failures carry codes from pkg/errors: NOT_FOUND, NETWORK_ERROR, TIMEOUT,
// RATE_LIMITED or INVALID_PATH. Callers treat any of them as a fetch
// failure.
package fetch
