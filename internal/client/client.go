// Package client talks to the remote sensor API: aggregated and single-metric
// sensor readings plus the pump and valve controls.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"water_dashboard/internal/logger"
	"water_dashboard/internal/metrics"
)

// DefaultTimeout is the transport-level timeout applied to every request.
const DefaultTimeout = 10 * time.Second

// Sensor API paths.
const (
	PathSensors      = "/api/sensors"
	PathTemperature  = "/api/temperature"
	PathPH           = "/api/ph"
	PathTDS          = "/api/tds"
	PathTurbidity    = "/api/turbidity"
	PathControlState = "/api/control/state"
	PathControlPump  = "/api/control/pump"
	PathControlValve = "/api/control/valve"
)

// bodies are small JSON documents; anything larger is treated as malformed
const maxBodyBytes = 1 << 20

// Client is a sensor API client. The zero value is not usable; use New.
type Client struct {
	baseURL string
	http    *http.Client
	metrics *metrics.Metrics
	log     *logger.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithMetrics records per-request metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithLogger sets the logger used for swallowed fallback failures.
func WithLogger(l *logger.Logger) Option {
	return func(c *Client) { c.log = l }
}

// New creates a client for baseURL. If httpClient is nil, a client with
// DefaultTimeout is used.
func New(baseURL string, httpClient *http.Client, opts ...Option) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		log:     logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root the client targets.
func (c *Client) BaseURL() string { return c.baseURL }

// doJSON executes a request and decodes a 2xx JSON body into out.
func (c *Client) doJSON(ctx context.Context, op, method, path string, in, out any) (err error) {
	started := time.Now()
	defer func() { c.metrics.ObserveAPI(path, started, err) }()

	fail := func(status int, cause error) error {
		return &NetworkError{Op: op, Method: method, Path: path, StatusCode: status, Err: cause}
	}

	var body io.Reader
	if in != nil {
		b, merr := json.Marshal(in)
		if merr != nil {
			return fail(0, fmt.Errorf("encode request: %w", merr))
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fail(0, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return fail(0, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(res.Body, maxBodyBytes))
		return fail(res.StatusCode, ErrUnexpectedStatus)
	}
	if err := json.NewDecoder(io.LimitReader(res.Body, maxBodyBytes)).Decode(out); err != nil {
		return fail(res.StatusCode, fmt.Errorf("%w: %v", ErrMalformedResponse, err))
	}
	return nil
}
