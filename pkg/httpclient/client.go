package httpclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"
)

// Doer executes an HTTP request. Both Client and CircuitBreakerClient satisfy it.
type Doer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// Config holds HTTP client configuration.
type Config struct {
	Timeout         time.Duration
	MaxRetries      int
	RetryWaitMin    time.Duration
	RetryWaitMax    time.Duration
	MaxConnsPerHost int
	UserAgent       string
}

// DefaultConfig returns defaults tuned for a storefront calling one upstream API.
func DefaultConfig() Config {
	return Config{
		Timeout:         15 * time.Second,
		MaxRetries:      2,
		RetryWaitMin:    250 * time.Millisecond,
		RetryWaitMax:    3 * time.Second,
		MaxConnsPerHost: 32,
		UserAgent:       "hokaai-storefront",
	}
}

// Client wraps http.Client with retry and backoff.
// 5xx (except 501) and 429 responses are retried; a 429 honours Retry-After.
type Client struct {
	httpClient *http.Client
	config     Config
}

// New creates a client with a pooled transport.
func New(cfg Config) *Client {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          cfg.MaxConnsPerHost,
		MaxIdleConnsPerHost:   cfg.MaxConnsPerHost,
		MaxConnsPerHost:       cfg.MaxConnsPerHost,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ExpectContinueTimeout: time.Second,
	}

	return &Client{
		httpClient: &http.Client{Transport: transport, Timeout: cfg.Timeout},
		config:     cfg,
	}
}

// Do executes req, retrying transient failures. Request bodies are replayed
// through req.GetBody, so requests built with http.NewRequest and a bytes or
// strings reader are safe to retry.
func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	req = req.WithContext(ctx)
	if c.config.UserAgent != "" && req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", c.config.UserAgent)
	}

	var wait time.Duration
	for attempt := 0; ; attempt++ {
		if attempt > 0 {
			if err := sleep(ctx, wait); err != nil {
				return nil, err
			}
			if req.GetBody != nil {
				body, err := req.GetBody()
				if err != nil {
					return nil, fmt.Errorf("rewind request body: %w", err)
				}
				req.Body = body
			}
		}
		last := attempt >= c.config.MaxRetries

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if isRetryableError(err) && !last {
				wait = c.backoff(attempt)
				continue
			}
			return nil, fmt.Errorf("http request failed after %d attempts: %w", attempt+1, err)
		}

		if !last && retryableStatus(resp.StatusCode) {
			wait = c.backoff(attempt)
			if resp.StatusCode == http.StatusTooManyRequests {
				if ra := retryAfter(resp.Header.Get("Retry-After")); ra > 0 {
					wait = min(ra, c.config.RetryWaitMax)
				}
			}
			_, _ = io.Copy(io.Discard, resp.Body)
			_ = resp.Body.Close()
			continue
		}

		return resp, nil
	}
}

// Post performs a POST request with retry.
func (c *Client) Post(ctx context.Context, url, contentType string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, fmt.Errorf("create POST request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	return c.Do(ctx, req)
}

func (c *Client) backoff(attempt int) time.Duration {
	wait := c.config.RetryWaitMin * time.Duration(1<<uint(attempt))
	if wait > c.config.RetryWaitMax {
		wait = c.config.RetryWaitMax
	}
	return wait
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func retryableStatus(status int) bool {
	if status == http.StatusTooManyRequests {
		return true
	}
	return status >= 500 && status != http.StatusNotImplemented
}

func retryAfter(v string) time.Duration {
	if v == "" {
		return 0
	}
	if secs, err := strconv.ParseFloat(v, 64); err == nil && secs > 0 {
		return time.Duration(secs * float64(time.Second))
	}
	if at, err := http.ParseTime(v); err == nil {
		return time.Until(at)
	}
	return 0
}

func isRetryableError(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
