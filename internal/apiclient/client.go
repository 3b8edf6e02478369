// Package apiclient is the single HTTP client used to talk to the backend REST API.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode"

	"github.com/markjakearzadon/rxmate-checkout/internal/metrics"
)

const (
	defaultTimeout     = 30 * time.Second
	defaultPingTimeout = 5 * time.Second

	// PingEndpoint is the cheap read used as a connectivity probe.
	PingEndpoint = "/universities"
)

// Client sends JSON requests to the backend. It never retries; every failure
// is returned to the caller as an HTTPError, NetworkError or DataShapeError.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	timeout     time.Duration
	pingTimeout time.Duration
	logger      *slog.Logger
	metrics     *metrics.Metrics
}

type Option func(c *Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout bounds every outbound call.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

func WithPingTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.pingTimeout = d
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// New constructs a Client for baseURL. An empty base URL is an error.
func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, ErrMissingBaseURL
	}
	c := &Client{
		baseURL:     baseURL,
		httpClient:  &http.Client{},
		timeout:     defaultTimeout,
		pingTimeout: defaultPingTimeout,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c, nil
}

// BaseURL returns the configured backend base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Get issues a GET and decodes the JSON response into out.
func (c *Client) Get(ctx context.Context, endpoint string, out any) error {
	return c.Do(ctx, http.MethodGet, endpoint, nil, out)
}

// Post issues a POST with body encoded as JSON and decodes the response into out.
func (c *Client) Post(ctx context.Context, endpoint string, body, out any) error {
	return c.Do(ctx, http.MethodPost, endpoint, body, out)
}

// Ping probes the backend with a short timeout.
func (c *Client) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.pingTimeout)
	defer cancel()
	return c.Do(ctx, http.MethodGet, PingEndpoint, nil, nil)
}

// Do sends one request. Strings, byte slices and json.RawMessage bodies are
// sent verbatim; any other non-nil body is JSON-encoded. out may be nil.
func (c *Client) Do(ctx context.Context, method, endpoint string, body, out any) error {
	payload, err := encodeBody(body)
	if err != nil {
		return fmt.Errorf("encode %s %s body: %w", method, endpoint, err)
	}

	header := http.Header{}
	header.Set("Content-Type", "application/json")
	header.Set("Accept", "application/json")

	resp, err := c.send(ctx, method, endpoint, payload, header)
	if err != nil {
		return err
	}
	status, raw := resp.Status, resp.Body
	if status < 200 || status > 299 {
		return newHTTPError(method, c.url(endpoint), status, raw)
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &DataShapeError{Endpoint: endpoint, Detail: "invalid JSON body", Err: err}
	}
	return nil
}

// Response is a backend answer as received.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// Forward relays a raw body to the backend and hands back whatever it answered,
// without interpreting the status. Used for opaque passthroughs such as webhooks.
func (c *Client) Forward(ctx context.Context, method, endpoint string, body []byte, header http.Header) (*Response, error) {
	if header == nil {
		header = http.Header{}
	}
	if header.Get("Content-Type") == "" {
		header.Set("Content-Type", "application/json")
	}
	return c.send(ctx, method, endpoint, body, header)
}

func (c *Client) send(ctx context.Context, method, endpoint string, payload []byte, header http.Header) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	target := c.url(endpoint)
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("create %s %s request: %w", method, endpoint, err)
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	if payload != nil {
		c.logger.DebugContext(ctx, "backend request", "method", method, "url", target, "body", string(maskSensitiveFields(payload)))
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	elapsed := time.Since(start)
	route := routeLabel(endpoint)
	if err != nil {
		c.metrics.ObserveBackendRequest(method, route, 0, elapsed)
		c.logger.ErrorContext(ctx, "backend request failed", "method", method, "url", target, "duration", elapsed, "error", err)
		return nil, &NetworkError{Method: method, URL: target, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	c.metrics.ObserveBackendRequest(method, route, resp.StatusCode, elapsed)
	if err != nil {
		return nil, &NetworkError{Method: method, URL: target, Err: fmt.Errorf("read body: %w", err)}
	}
	c.logger.InfoContext(ctx, "backend response", "method", method, "url", target, "status", resp.StatusCode, "duration", elapsed)
	return &Response{Status: resp.StatusCode, Header: resp.Header, Body: raw}, nil
}

func (c *Client) url(endpoint string) string {
	if !strings.HasPrefix(endpoint, "/") {
		endpoint = "/" + endpoint
	}
	return c.baseURL + endpoint
}

func encodeBody(body any) ([]byte, error) {
	switch b := body.(type) {
	case nil:
		return nil, nil
	case string:
		return []byte(b), nil
	case []byte:
		return b, nil
	case json.RawMessage:
		return b, nil
	default:
		return json.Marshal(b)
	}
}

func newHTTPError(method, url string, status int, raw []byte) *HTTPError {
	he := &HTTPError{Method: method, URL: url, Status: status}
	var body map[string]any
	if err := json.Unmarshal(raw, &body); err == nil {
		he.Body = body
	}
	he.Message = messageFrom(he.Body)
	if he.Message == "" {
		he.Message = fmt.Sprintf("HTTP %d", status)
	}
	return he
}

// routeLabel collapses identifier segments so metric cardinality stays bounded:
// /payment/RX_1_abc becomes /payment/{id}.
func routeLabel(endpoint string) string {
	path, _, _ := strings.Cut(endpoint, "?")
	segments := strings.Split(path, "/")
	for i, seg := range segments {
		if strings.IndexFunc(seg, unicode.IsDigit) >= 0 {
			segments[i] = "{id}"
		}
	}
	return strings.Join(segments, "/")
}
