// Package client talks to the flow-log backend over HTTP.
package client

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"

	"github.com/telhawk-systems/flowsearch/internal/logging"
	"github.com/telhawk-systems/flowsearch/internal/metrics"
)

// RequestIDHeader carries a per-call identifier the backend can log.
const RequestIDHeader = "X-Request-ID"

// Client is the backend collaborator used by uploads, searches, the inventory
// and the liveness monitor.
type Client struct {
	rc      *resty.Client
	logger  *logging.Logger
	metrics *metrics.Metrics
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout bounds every request.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.rc.SetTimeout(d) }
}

// WithLogger sets the logger; the default discards.
func WithLogger(l *logging.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithMetrics records every request on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// New creates a Client for the backend rooted at baseURL, e.g. http://localhost:8000/api.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		rc: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(30*time.Second).
			SetHeader("Accept", "application/json"),
		logger: logging.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// HTTPClient exposes the underlying http.Client for specialized calls and tests.
func (c *Client) HTTPClient() *http.Client { return c.rc.GetClient() }

// BaseURL returns the backend root the client was created with.
func (c *Client) BaseURL() string { return c.rc.BaseURL }

// do executes one request and decodes a 2xx JSON body into out when out is non-nil.
// Every failure comes back as *Error with a translated message.
func (c *Client) do(ctx context.Context, op, method, path string, prepare func(*resty.Request), out interface{}) error {
	reqID := uuid.NewString()
	ctx = logging.ContextWithRequestID(ctx, reqID)
	started := time.Now()

	req := c.rc.R().
		SetContext(ctx).
		SetHeader(RequestIDHeader, reqID)
	if prepare != nil {
		prepare(req)
	}

	resp, err := req.Execute(method, path)

	var result *Error
	switch {
	case err != nil:
		result = newError(op, 0, genericMessage(op), err)
	case !resp.IsSuccess():
		result = newError(op, resp.StatusCode(), translate(op, resp.Body()), nil)
	case out != nil:
		if err := json.Unmarshal(resp.Body(), out); err != nil {
			result = newError(op, resp.StatusCode(), genericMessage(op), err)
		}
	}

	elapsed := time.Since(started).Milliseconds()
	if result != nil {
		c.metrics.ObserveRequest(op, started, result)
		c.logger.WarnContext(ctx, "backend request failed",
			logging.Operation(op),
			logging.Status(result.StatusCode),
			logging.Duration(elapsed),
			logging.Error(result.cause),
		)
		return result
	}

	c.metrics.ObserveRequest(op, started, nil)
	c.logger.DebugContext(ctx, "backend request completed",
		logging.Operation(op),
		logging.Status(resp.StatusCode()),
		logging.Duration(elapsed),
	)
	return nil
}
