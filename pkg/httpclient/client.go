// Package httpclient is an outbound HTTP client with bounded retries, a
// circuit breaker per downstream and structured error translation.
package httpclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

// Config tunes transport, retries and the breaker.
type Config struct {
	Timeout         time.Duration
	MaxRetries      int
	RetryWaitMin    time.Duration
	RetryWaitMax    time.Duration
	MaxConnsPerHost int
	Breaker         BreakerConfig
}

// DefaultConfig suits an internal service-to-service call.
func DefaultConfig() Config {
	return Config{
		Timeout:         10 * time.Second,
		MaxRetries:      2,
		RetryWaitMin:    200 * time.Millisecond,
		RetryWaitMax:    2 * time.Second,
		MaxConnsPerHost: 32,
		Breaker:         DefaultBreakerConfig(),
	}
}

// Client calls one downstream service.
type Client struct {
	name    string
	http    *http.Client
	cfg     Config
	breaker *gobreaker.CircuitBreaker[*http.Response]
	logger  *slog.Logger
}

// New returns a client named after the downstream service it talks to.
func New(name string, cfg Config, l *slog.Logger) *Client {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:   true,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: cfg.MaxConnsPerHost,
		MaxConnsPerHost:     cfg.MaxConnsPerHost,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 5 * time.Second,
	}
	return newClient(name, &http.Client{Transport: transport, Timeout: cfg.Timeout}, cfg, l)
}

func newClient(name string, hc *http.Client, cfg Config, l *slog.Logger) *Client {
	return &Client{
		name:    name,
		http:    hc,
		cfg:     cfg,
		breaker: newBreaker(name, cfg.Breaker, l),
		logger:  l,
	}
}

// Do sends req through the breaker. Transport errors and 5xx responses are
// retried with capped exponential backoff. When the breaker is open the call
// fails fast with a SERVICE_UNAVAILABLE AppError.
func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	resp, err := c.breaker.Execute(func() (*http.Response, error) {
		return c.doWithRetry(ctx, req)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, unavailable(c.name, err)
		}
		return nil, err
	}
	return resp, nil
}

func (c *Client) doWithRetry(ctx context.Context, req *http.Request) (*http.Response, error) {
	var lastErr error
	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			if err := wait(ctx, c.retryDelay(attempt)); err != nil {
				return nil, err
			}
		}

		attemptReq, err := cloneRequest(ctx, req)
		if err != nil {
			return nil, err
		}
		otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(attemptReq.Header))

		resp, err := c.http.Do(attemptReq)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = fmt.Errorf("%s %s: %w", req.Method, req.URL.Redacted(), err)
			continue
		}
		if resp.StatusCode >= http.StatusInternalServerError && resp.StatusCode != http.StatusNotImplemented {
			lastErr = ParseResponseError(resp, c.name)
			continue
		}
		return resp, nil
	}

	c.logger.WarnContext(ctx, "downstream call failed",
		slog.String("service", c.name),
		slog.String("url", req.URL.Redacted()),
		slog.Int("attempts", c.cfg.MaxRetries+1),
		slog.String("error", lastErr.Error()),
	)
	return nil, lastErr
}

func (c *Client) retryDelay(attempt int) time.Duration {
	d := c.cfg.RetryWaitMin << (attempt - 1)
	if c.cfg.RetryWaitMax > 0 && (d > c.cfg.RetryWaitMax || d <= 0) {
		d = c.cfg.RetryWaitMax
	}
	return d
}

// GetJSON issues a GET and decodes a 2xx body into out. Non-2xx responses are
// translated with ParseResponseError.
func (c *Client) GetJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.Do(ctx, req)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return ParseResponseError(resp, c.name)
	}
	defer func() { _ = resp.Body.Close() }()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", c.name, err)
	}
	return nil
}

// State reports the breaker state.
func (c *Client) State() gobreaker.State {
	return c.breaker.State()
}

func cloneRequest(ctx context.Context, req *http.Request) (*http.Request, error) {
	out := req.Clone(ctx)
	if req.Body == nil || req.Body == http.NoBody {
		return out, nil
	}
	if req.GetBody == nil {
		return nil, errors.New("request body cannot be replayed")
	}
	body, err := req.GetBody()
	if err != nil {
		return nil, fmt.Errorf("replay request body: %w", err)
	}
	out.Body = io.NopCloser(body)
	return out, nil
}

func wait(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
