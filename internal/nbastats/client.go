package nbastats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the public stats API root.
	DefaultBaseURL = "https://stats.nba.com/stats"

	defaultTimeout      = 30 * time.Second
	defaultRetries      = 3
	defaultRequestDelay = 600 * time.Millisecond
	defaultBackoff      = 500 * time.Millisecond

	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// ErrUpstream marks failures of the stats API itself, as opposed to bad
// arguments.
var ErrUpstream = errors.New("stats api error")

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Endpoint   string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: %s returned %d", ErrUpstream, e.Endpoint, e.StatusCode)
}

func (e *StatusError) Unwrap() error {
	return ErrUpstream
}

// Client calls stats.nba.com endpoints. It is safe for concurrent use;
// requests from all goroutines share one pacing limiter.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	retries    int
	backoff    time.Duration
	tracer     trace.Tracer
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API root.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = strings.TrimRight(u, "/")
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithRetries sets how many attempts a request gets in total.
func WithRetries(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.retries = n
		}
	}
}

// WithRequestDelay sets the minimum spacing between requests. Zero disables
// pacing.
func WithRequestDelay(d time.Duration) Option {
	return func(c *Client) {
		if d <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		c.limiter = rate.NewLimiter(rate.Every(d), 1)
	}
}

// WithBackoff sets the first retry interval.
func WithBackoff(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.backoff = d
		}
	}
}

// New creates a client with the given options.
func New(opts ...Option) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
		limiter:    rate.NewLimiter(rate.Every(defaultRequestDelay), 1),
		retries:    defaultRetries,
		backoff:    defaultBackoff,
		tracer:     otel.Tracer("shotchart/nbastats"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get calls endpoint with params and decodes the envelope.
func (c *Client) Get(ctx context.Context, endpoint string, params url.Values) (*Response, error) {
	ctx, span := c.tracer.Start(ctx, "nbastats."+endpoint,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("nbastats.endpoint", endpoint)),
	)
	defer span.End()

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.backoff

	attempts := 0
	resp, err := backoff.Retry(ctx, func() (*Response, error) {
		attempts++
		return c.do(ctx, endpoint, params)
	}, backoff.WithBackOff(b), backoff.WithMaxTries(uint(c.retries)))

	span.SetAttributes(attribute.Int("nbastats.attempts", attempts))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return resp, nil
}

func (c *Client) do(ctx context.Context, endpoint string, params url.Values) (*Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, backoff.Permanent(err)
	}

	u := c.baseURL + "/" + endpoint + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("build request: %w", err))
	}
	setHeaders(req.Header)

	res, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, backoff.Permanent(err)
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrUpstream, endpoint, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, res.Body)
		serr := &StatusError{Endpoint: endpoint, StatusCode: res.StatusCode}
		if res.StatusCode >= 400 && res.StatusCode < 500 && res.StatusCode != http.StatusTooManyRequests {
			return nil, backoff.Permanent(serr)
		}
		return nil, serr
	}

	var out Response
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrUpstream, endpoint, err)
	}
	return &out, nil
}

func setHeaders(h http.Header) {
	h.Set("User-Agent", userAgent)
	h.Set("Accept", "application/json, text/plain, */*")
	h.Set("Accept-Language", "en-US,en;q=0.9")
	h.Set("Referer", "https://www.nba.com/")
	h.Set("Origin", "https://www.nba.com")
	h.Set("x-nba-stats-origin", "stats")
	h.Set("x-nba-stats-token", "true")
}
