// Package gateway implements the typed client for the remote content API.
//
// Every server operation gets one method. All methods fetch the bearer
// token per call from the session provider, make a single request with no
// retries, and convert failures into the uniform *APIError shape so the
// server's message can be surfaced to the user verbatim.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dalemusser/stratadrive/internal/app/system/session"
	"go.uber.org/zap"
)

// Client talks to the remote content API.
type Client struct {
	baseURL string
	http    *http.Client
	session session.Provider
	log     *zap.Logger
}

// Config holds client configuration.
type Config struct {
	// BaseURL is the root of the content API, e.g. https://drive.example.com.
	BaseURL string

	// Timeout is the transport-level timeout per request. Zero uses a
	// 30 second default. Per-operation deadlines come from the caller's
	// context on top of this.
	Timeout time.Duration

	// Session supplies the bearer token for each request.
	Session session.Provider

	Logger *zap.Logger

	// HTTPClient overrides the transport (tests). When set, Timeout is
	// ignored.
	HTTPClient *http.Client
}

// New creates a gateway client.
func New(cfg Config) (*Client, error) {
	u, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", cfg.BaseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q: scheme and host required", cfg.BaseURL)
	}
	if cfg.Session == nil {
		return nil, errors.New("gateway: session provider required")
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	hc := cfg.HTTPClient
	if hc == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = 30 * time.Second
		}
		hc = &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout:   10 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				MaxIdleConns:        100,
				IdleConnTimeout:     90 * time.Second,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		}
	}

	return &Client{
		baseURL: strings.TrimRight(u.String(), "/"),
		http:    hc,
		session: cfg.Session,
		log:     cfg.Logger,
	}, nil
}

// newRequest builds an authenticated request for path (which must start
// with "/"). The token is fetched fresh for every request.
func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body io.Reader) (*http.Request, error) {
	token, err := c.session.Token(ctx)
	if err != nil {
		return nil, err
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	return req, nil
}

// doJSON executes req and decodes a 2xx response body into out (skipped
// when out is nil). Non-2xx responses become *APIError.
func (c *Client) doJSON(req *http.Request, out any) error {
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug("request failed",
			zap.String("method", req.Method),
			zap.String("path", req.URL.Path),
			zap.Error(err))
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	c.log.Debug("request completed",
		zap.String("method", req.Method),
		zap.String("path", req.URL.Path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s %s response: %w", req.Method, req.URL.Path, err)
	}
	return nil
}

// getJSON is the common GET + decode path.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	req, err := c.newRequest(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return err
	}
	return c.doJSON(req, out)
}

// postJSON sends body as JSON and decodes the response into out.
func (c *Client) postJSON(ctx context.Context, method, path string, body, out any) error {
	var r io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding %s body: %w", path, err)
		}
		r = bytes.NewReader(buf)
	}

	req, err := c.newRequest(ctx, method, path, nil, r)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.doJSON(req, out)
}
