package fetch

import (
	"context"
	stderrors "errors"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/sony/gobreaker"

	"github.com/matzehuels/stemma/pkg/cache"
	"github.com/matzehuels/stemma/pkg/errors"
	"github.com/matzehuels/stemma/pkg/httputil"
	"github.com/matzehuels/stemma/pkg/observability"
)

const (
	httpTimeout = 10 * time.Second

	// maxBodySize bounds a single response unless Options.MaxBodySize is set.
	maxBodySize = 16 << 20
)

// Options configures a [Client].
type Options struct {
	// BaseURL resolves relative sources. Without it, relative sources are
	// rejected unless AllowFiles is set.
	BaseURL string

	// AllowFiles lets sources that are not http(s) URLs name local files.
	AllowFiles bool

	// Cache stores fetched bodies. Nil disables caching.
	Cache cache.Cache
	Keyer cache.Keyer
	TTL   time.Duration

	// Refresh bypasses cached entries but still stores fresh responses.
	Refresh bool

	// Attempts per request; 0 means 3.
	Attempts   int
	RetryDelay time.Duration

	// MaxBodySize rejects larger responses; 0 means 16 MiB.
	MaxBodySize int64

	Headers    map[string]string
	HTTPClient *http.Client
	Logger     *log.Logger
}

// NewHTTPClient returns an HTTP client with the given overall timeout.
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = httpTimeout
	}
	return &http.Client{Timeout: timeout}
}

// Client fetches sources over HTTP or from local files.
type Client struct {
	opts    Options
	http    *http.Client
	breaker *gobreaker.CircuitBreaker
	logger  *log.Logger
}

// NewClient creates a Client. Zero options use a 10 second HTTP timeout,
// no cache, and 3 attempts starting at a one second delay.
func NewClient(opts Options) *Client {
	if opts.Cache == nil {
		opts.Cache = cache.NewNullCache()
	}
	if opts.Keyer == nil {
		opts.Keyer = cache.NewDefaultKeyer()
	}
	if opts.TTL == 0 {
		opts.TTL = cache.TTLText
	}
	if opts.Attempts == 0 {
		opts.Attempts = 3
	}
	if opts.RetryDelay == 0 {
		opts.RetryDelay = time.Second
	}
	if opts.MaxBodySize <= 0 {
		opts.MaxBodySize = maxBodySize
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = NewHTTPClient(httpTimeout)
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	c := &Client{opts: opts, http: hc, logger: logger}
	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "upstream",
		MaxRequests: 1,
		Interval:    30 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
		},
		// Only upstream trouble counts against the breaker.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, errors.ErrCodeNotFound) || errors.Is(err, errors.ErrCodeInvalidInput)
		},
	})
	return c
}

// Fetch returns the body of source, from cache when possible.
func (c *Client) Fetch(ctx context.Context, source string) ([]byte, error) {
	target, local, err := c.resolve(source)
	if err != nil {
		return nil, err
	}
	if local {
		return readFile(target)
	}

	key := c.opts.Keyer.HTTPKey("fetch", target)
	if !c.opts.Refresh {
		if data, ok, _ := c.opts.Cache.Get(ctx, key); ok {
			observability.Cache().OnCacheHit(ctx, "text")
			c.logger.Debug("cache hit", "url", target)
			return data, nil
		}
		observability.Cache().OnCacheMiss(ctx, "text")
	}

	var body []byte
	start := time.Now()
	policy := httputil.Policy{
		Attempts: c.opts.Attempts,
		Delay:    c.opts.RetryDelay,
		OnRetry: func(attempt int, wait time.Duration, err error) {
			c.logger.Debug("retrying", "url", target, "attempt", attempt, "wait", wait, "err", err)
		},
	}
	err = policy.Do(ctx, func() error {
		out, err := c.breaker.Execute(func() (interface{}, error) {
			return c.get(ctx, target)
		})
		if err != nil {
			if stderrors.Is(err, gobreaker.ErrOpenState) || stderrors.Is(err, gobreaker.ErrTooManyRequests) {
				return errors.Wrap(errors.ErrCodeNetwork, err, "upstream unavailable")
			}
			return err
		}
		body = out.([]byte)
		return nil
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, errors.Wrap(errors.ErrCodeTimeout, err, "fetch %s", target)
		}
		return nil, err
	}
	c.logger.Debug("fetched", "url", target, "bytes", len(body), "elapsed", time.Since(start))

	if err := c.opts.Cache.Set(ctx, key, body, c.opts.TTL); err != nil {
		c.logger.Warn("cache write failed", "url", target, "err", err)
	} else {
		observability.Cache().OnCacheSet(ctx, "text", len(body))
	}
	return body, nil
}

// resolve maps source to an absolute URL or, when allowed, a file path.
func (c *Client) resolve(source string) (target string, local bool, err error) {
	source = strings.TrimSpace(source)
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		if err := errors.ValidateURL(source); err != nil {
			return "", false, err
		}
		return source, false, nil
	}
	if c.opts.BaseURL != "" {
		if err := errors.ValidateSourcePath(source); err != nil {
			return "", false, err
		}
		if err := errors.ValidateURL(c.opts.BaseURL); err != nil {
			return "", false, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid base URL %q", c.opts.BaseURL)
		}
		base, _ := url.Parse(c.opts.BaseURL)
		ref, err := url.Parse(source)
		if err != nil {
			return "", false, errors.Wrap(errors.ErrCodeInvalidPath, err, "invalid source %q", source)
		}
		return base.ResolveReference(ref).String(), false, nil
	}
	if c.opts.AllowFiles && source != "" {
		return strings.TrimPrefix(source, "file://"), true, nil
	}
	return "", false, errors.New(errors.ErrCodeInvalidInput, "cannot resolve source %q", source)
}

func (c *Client) get(ctx context.Context, target string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "build request")
	}
	for k, v := range c.opts.Headers {
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		observability.Fetch().OnError(ctx, req.URL.Host, err)
		if ctx.Err() != nil {
			return nil, errors.Wrap(errors.ErrCodeTimeout, err, "GET %s", target)
		}
		return nil, httputil.Retryable(errors.Wrap(errors.ErrCodeNetwork, err, "GET %s", target))
	}
	defer resp.Body.Close()
	observability.Fetch().OnResponse(ctx, req.URL.Host, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp); err != nil {
		return nil, err
	}
	limit := c.opts.MaxBodySize
	data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, httputil.Retryable(errors.Wrap(errors.ErrCodeNetwork, err, "read %s", target))
	}
	if int64(len(data)) > limit {
		return nil, errors.New(errors.ErrCodeInvalidInput, "%s: response exceeds %d bytes", target, limit)
	}
	return data, nil
}

func checkStatus(resp *http.Response) error {
	code := resp.StatusCode
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusNotFound:
		return errors.New(errors.ErrCodeNotFound, "%s: not found", resp.Request.URL)
	case code == http.StatusTooManyRequests:
		retryAfter, _ := strconv.Atoi(resp.Header.Get("Retry-After"))
		return httputil.Retryable(&rateLimited{
			err:     errors.New(errors.ErrCodeRateLimited, "%s: rate limited", resp.Request.URL),
			limited: &errors.RateLimitedError{RetryAfter: retryAfter},
		})
	case httputil.RetryableStatus(code):
		return httputil.Retryable(errors.New(errors.ErrCodeNetwork, "%s: status %d", resp.Request.URL, code))
	default:
		return errors.New(errors.ErrCodeNetwork, "%s: status %d", resp.Request.URL, code)
	}
}

// rateLimited carries both the coded error and the Retry-After detail.
type rateLimited struct {
	err     *errors.Error
	limited *errors.RateLimitedError
}

func (r *rateLimited) Error() string   { return r.err.Error() }
func (r *rateLimited) Unwrap() []error { return []error{r.err, r.limited} }

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeNotFound, err, "%s: no such file", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "read %s", path)
	}
	return data, nil
}

var _ Fetcher = (*Client)(nil)
