package transport

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/yndnr/cmsadmin-go/internal/core/domain"
	"github.com/yndnr/cmsadmin-go/internal/telemetry/logger"
	"github.com/yndnr/cmsadmin-go/internal/telemetry/metric"
)

// DefaultMaxResponseSize bounds how much of a response body is read.
const DefaultMaxResponseSize = 16 << 20

// Client executes envelopes over HTTP.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     logger.Logger
	metrics    *metric.Registry
	maxBody    int64
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTLSConfig sets the TLS configuration of the default transport.
func WithTLSConfig(cfg *tls.Config) Option {
	return func(c *Client) {
		tr := http.DefaultTransport.(*http.Transport).Clone()
		tr.TLSClientConfig = cfg
		c.httpClient = &http.Client{Transport: tr}
	}
}

// WithRateLimit throttles outgoing requests. rps <= 0 disables it.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithMaxResponseSize caps response bodies at n bytes. A larger body
// fails the exchange. n <= 0 restores DefaultMaxResponseSize.
func WithMaxResponseSize(n int64) Option {
	return func(c *Client) {
		if n <= 0 {
			n = DefaultMaxResponseSize
		}
		c.maxBody = n
	}
}

// WithLogger sets the client logger. Execute logs through it.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMetrics records every exchange in the registry.
func WithMetrics(m *metric.Registry) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// NewClient creates an HTTP executor. The envelope deadline bounds each
// exchange, so the http.Client itself carries no timeout.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{},
		logger:     logger.Default(),
		maxBody:    DefaultMaxResponseSize,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Do sends env and reads the whole response before the envelope deadline.
// A response that completes after the deadline is discarded and the
// deadline error returned instead.
func (c *Client) Do(ctx context.Context, env *Envelope) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, env.Timeout())
	defer cancel()

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			// the limiter refuses waits that would outlast the deadline
			return nil, fmt.Errorf("%w: %v", context.DeadlineExceeded, err)
		}
	}

	req, err := c.newRequest(ctx, env)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return nil, err
	}
	if int64(len(body)) > c.maxBody {
		return nil, domain.ErrMalformedResponse.WithMessage(
			fmt.Sprintf("response too large: exceeds %d bytes", c.maxBody))
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
	}, nil
}

// Execute runs Do and Normalize, recording logs and metrics for the
// exchange.
func (c *Client) Execute(ctx context.Context, env *Envelope, defaultMessage string) ([]byte, error) {
	ctx = logger.WithRequestID(ctx, env.RequestID())
	start := time.Now()

	resp, err := c.Do(ctx, env)
	body, err := Normalize(resp, err, defaultMessage)
	elapsed := time.Since(start)

	c.observe(env, err, elapsed)

	log := logger.L(logger.WithLogger(ctx, c.logger)).
		With("method", env.Method(), "url", env.URL(), "elapsed", elapsed)
	if err != nil {
		log.Warn("request failed", "code", domain.GetErrorCode(err), "error", err)
		return nil, err
	}
	log.Debug("request completed", "status", resp.StatusCode)
	return body, nil
}

// Observe records an operation that failed before reaching Execute, such
// as an unauthenticated build.
func (c *Client) Observe(op OpKind, resource string, err error) {
	if c.metrics == nil {
		return
	}
	c.metrics.ObserveRequest(op.String(), resource, outcome(err), 0)
}

func (c *Client) observe(env *Envelope, err error, elapsed time.Duration) {
	if c.metrics == nil {
		return
	}
	c.metrics.ObserveRequest(env.Op().String(), env.Resource(), outcome(err), elapsed)
}

func outcome(err error) string {
	if err == nil {
		return metric.OutcomeSuccess
	}
	f, ok := domain.AsFailure(err)
	if !ok {
		return metric.OutcomeTransport
	}
	switch f.Kind {
	case domain.KindUnauthenticated:
		return metric.OutcomeUnauthenticated
	case domain.KindApplication:
		return metric.OutcomeApplication
	default:
		return metric.OutcomeTransport
	}
}

func (c *Client) newRequest(ctx context.Context, env *Envelope) (*http.Request, error) {
	var (
		body        io.Reader
		contentType string
	)

	switch {
	case env.Form() != nil:
		data, ct, err := encodeForm(env.Form())
		if err != nil {
			return nil, domain.ErrInvalidInput.WithCause(err)
		}
		body, contentType = bytes.NewReader(data), ct
	case env.Body() != nil:
		body = bytes.NewReader(env.Body())
	}

	req, err := http.NewRequestWithContext(ctx, env.Method(), env.URL(), body)
	if err != nil {
		return nil, domain.ErrInvalidInput.WithCause(fmt.Errorf("create request: %w", err))
	}
	req.Header = env.Header()
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return req, nil
}

func encodeForm(form *Form) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for name, value := range form.Fields {
		if err := w.WriteField(name, value); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", name, err)
		}
	}
	for _, f := range form.Files {
		part, err := w.CreateFormFile(f.Field, f.Filename)
		if err != nil {
			return nil, "", fmt.Errorf("create form file %s: %w", f.Field, err)
		}
		if _, err := io.Copy(part, f.Content); err != nil {
			return nil, "", fmt.Errorf("copy form file %s: %w", f.Field, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close form: %w", err)
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}
