// internal/api/client.go

// Package api is the typed client for the licensing backend's REST surface.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// RequestIDHeader correlates console requests with backend logs.
const RequestIDHeader = "X-Request-ID"

// Client talks to the backend. It holds no credential of its own; callers
// pass the session token on each authenticated call.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        logrus.FieldLogger
	observe    func(method, path string, status int, elapsed time.Duration)
}

// Config holds client configuration.
type Config struct {
	BaseURL string
	// Timeout of zero leaves the transport's own timeouts in charge.
	Timeout time.Duration
	Logger  logrus.FieldLogger
	// Observe, when set, is called once per completed round trip.
	Observe func(method, path string, status int, elapsed time.Duration)
}

// New creates a backend client.
func New(cfg Config) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &Client{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        logger,
		observe:    cfg.Observe,
	}
}

// BaseURL returns the backend root the client targets.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) getJSON(ctx context.Context, path, token string, out interface{}) error {
	req, err := c.newRequest(ctx, http.MethodGet, path, token, nil, "")
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) postJSON(ctx context.Context, path, token string, in, out interface{}) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, path, token, bytes.NewReader(body), "application/json")
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) newRequest(ctx context.Context, method, path, token string, body io.Reader, contentType string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	requestID := RequestIDFromContext(ctx)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	req.Header.Set(RequestIDHeader, requestID)

	return req, nil
}

func (c *Client) do(req *http.Request, out interface{}) error {
	start := time.Now()
	path := req.URL.Path

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.WithFields(logrus.Fields{
			"method": req.Method,
			"path":   path,
		}).WithError(err).Warn("Backend request failed")
		return fmt.Errorf("%s %s: %w", req.Method, path, err)
	}
	defer resp.Body.Close()

	if c.observe != nil {
		c.observe(req.Method, path, resp.StatusCode, time.Since(start))
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	c.log.WithFields(logrus.Fields{
		"method":     req.Method,
		"path":       path,
		"status":     resp.StatusCode,
		"duration":   time.Since(start).Milliseconds(),
		"request_id": req.Header.Get(RequestIDHeader),
	}).Debug("Backend request completed")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newError(req.Method, path, resp.StatusCode, respBody)
	}

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}

type requestIDKey struct{}

// WithRequestID tags outgoing backend calls made with ctx.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFromContext returns the id set by WithRequestID.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
