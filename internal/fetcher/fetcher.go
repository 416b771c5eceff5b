// Package fetcher retrieves raw documents over HTTP for the ingestion
// pipeline. It is used both for feed documents and for article pages.
package fetcher

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"time"
)

// Options configures a Client. A zero HostInterval disables per-host rate
// limiting.
type Options struct {
	Timeout      time.Duration
	UserAgent    string
	MaxBytes     int64
	HostInterval time.Duration
}

// StatusError reports a non-2xx response.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d", e.URL, e.StatusCode)
}

// TooLargeError reports a body longer than Options.MaxBytes. Nothing of
// the body is returned.
type TooLargeError struct {
	URL   string
	Limit int64
}

func (e *TooLargeError) Error() string {
	return fmt.Sprintf("GET %s: body exceeds %d bytes", e.URL, e.Limit)
}

// Client fetches documents with a shared connection pool.
type Client struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
	limiter    *hostLimiter
	logger     *slog.Logger
}

func New(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 20 * time.Second
	}
	c := &Client{
		httpClient: newHTTPClient(opts.Timeout),
		userAgent:  opts.UserAgent,
		maxBytes:   opts.MaxBytes,
		logger:     slog.Default().With("component", "fetcher"),
	}
	if opts.HostInterval > 0 {
		c.limiter = newHostLimiter(opts.HostInterval)
	}
	return c
}

// Get returns the raw response body for address. Addresses without a host
// are rejected before any request is made.
func (c *Client) Get(ctx context.Context, address string) ([]byte, error) {
	u, err := url.Parse(address)
	if err != nil {
		return nil, fmt.Errorf("parsing %q: %w", address, err)
	}
	if u.Hostname() == "" {
		return nil, fmt.Errorf("parsing %q: missing host", address)
	}
	if c.limiter != nil {
		if err := c.limiter.wait(ctx, u.Hostname()); err != nil {
			return nil, fmt.Errorf("rate limiting %s: %w", address, err)
		}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, address, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &StatusError{URL: address, StatusCode: resp.StatusCode}
	}
	var body io.Reader = resp.Body
	if c.maxBytes > 0 {
		body = io.LimitReader(resp.Body, c.maxBytes+1)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("reading body of %s: %w", address, err)
	}
	if c.maxBytes > 0 && int64(len(data)) > c.maxBytes {
		return nil, &TooLargeError{URL: address, Limit: c.maxBytes}
	}
	c.logger.Debug("document fetched",
		"url", address,
		"bytes", len(data),
		"duration", time.Since(start),
	)
	return data, nil
}

// Fetch returns the full textual content at address.
func (c *Client) Fetch(ctx context.Context, address string) (string, error) {
	data, err := c.Get(ctx, address)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func newHTTPClient(timeout time.Duration) *http.Client {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}
	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}
}
