package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"relief/internal/config"
	"relief/internal/logging"
)

const (
	endpointSubmit         = "job/submit/"
	endpointPending        = "job/current/"
	endpointFinished       = "job/complete/"
	endpointWorkers        = "job/workers/"
	endpointDownload       = "job/download/"
	endpointWorkerConfig   = "job/config/"
	endpointServerInfo     = "srv/get/"
	endpointColourIdentify = "colouridentify/"

	requestIDHeader = "X-Request-ID"
)

// HTTPDoer describes the HTTP client used to reach the service.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client wraps the conversion service's HTTP API.
type Client struct {
	baseURL   *url.URL
	http      HTTPDoer
	logger    *slog.Logger
	requestID func() string
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(doer HTTPDoer) Option {
	return func(c *Client) {
		if doer != nil {
			c.http = doer
		}
	}
}

// WithTimeout sets a per-request timeout on the default HTTP client. Zero
// means no timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.http = &http.Client{Timeout: timeout}
		}
	}
}

// WithLogger routes request logging to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithRequestIDs overrides how request correlation ids are minted.
func WithRequestIDs(gen func() string) Option {
	return func(c *Client) {
		if gen != nil {
			c.requestID = gen
		}
	}
}

// New constructs a client for the service rooted at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimSpace(baseURL)
	if trimmed == "" {
		return nil, errors.New("client: base url required")
	}
	parsed, err := url.Parse(strings.TrimRight(trimmed, "/") + "/")
	if err != nil {
		return nil, fmt.Errorf("client: parse base url: %w", err)
	}
	c := &Client{
		baseURL:   parsed,
		http:      &http.Client{},
		logger:    logging.NewNop(),
		requestID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// NewFromConfig constructs a client from the server section of cfg.
func NewFromConfig(cfg *config.Config, logger *slog.Logger, opts ...Option) (*Client, error) {
	if cfg == nil {
		return nil, errors.New("client: config required")
	}
	base := []Option{
		WithTimeout(cfg.RequestTimeout()),
		WithLogger(logging.NewComponentLogger(logger, "client")),
	}
	return New(cfg.Server.BaseURL, append(base, opts...)...)
}

// BaseURL returns the resolved service root.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

type request struct {
	method      string
	endpoint    string
	query       url.Values
	body        []byte
	contentType string
	kind        error
}

type response struct {
	header http.Header
	body   []byte
}

func (c *Client) do(ctx context.Context, r request) (response, error) {
	target := c.baseURL.JoinPath(r.endpoint)
	if len(r.query) > 0 {
		target.RawQuery = r.query.Encode()
	}

	var body io.Reader
	if r.body != nil {
		body = bytes.NewReader(r.body)
	}
	req, err := http.NewRequestWithContext(ctx, r.method, target.String(), body)
	if err != nil {
		return response{}, fmt.Errorf("%w: build %s request: %w", r.kind, r.endpoint, err)
	}
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}
	requestID := c.requestID()
	req.Header.Set(requestIDHeader, requestID)
	logger := logging.WithContext(logging.WithRequestID(ctx, requestID), c.logger)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		logger.Debug("request failed",
			slog.String("method", r.method),
			slog.String("endpoint", r.endpoint),
			logging.Error(err),
		)
		return response{}, fmt.Errorf("%w: %s: %w", r.kind, r.endpoint, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return response{}, fmt.Errorf("%w: read %s response: %w", r.kind, r.endpoint, err)
	}
	logger.Debug("request complete",
		slog.String("method", r.method),
		slog.String("endpoint", r.endpoint),
		slog.Int("status", resp.StatusCode),
		slog.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logger.Debug("non-success response body",
			slog.String("endpoint", r.endpoint),
			slog.Int("status", resp.StatusCode),
			slog.String("body", truncate(string(data), maxErrorBody)),
		)
		return response{}, &StatusError{
			Endpoint:   r.endpoint,
			StatusCode: resp.StatusCode,
			Body:       string(data),
			kind:       r.kind,
		}
	}
	return response{header: resp.Header, body: data}, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, query url.Values, kind error, out any) error {
	resp, err := c.do(ctx, request{method: http.MethodGet, endpoint: endpoint, query: query, kind: kind})
	if err != nil {
		return err
	}
	if err := json.Unmarshal(resp.body, out); err != nil {
		return fmt.Errorf("%w: decode %s: %w", kind, endpoint, err)
	}
	return nil
}

func (c *Client) postJSON(ctx context.Context, endpoint string, payload any, kind error) (response, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return response{}, fmt.Errorf("%w: encode %s payload: %w", kind, endpoint, err)
	}
	return c.do(ctx, request{
		method:      http.MethodPost,
		endpoint:    endpoint,
		body:        encoded,
		contentType: "application/json",
		kind:        kind,
	})
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
