package graphql

import (
	"net/http"
	"time"

	"github.com/saturnines/byo-graphql/pkg/auth"
	"github.com/saturnines/byo-graphql/pkg/metrics"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// BuilderOption configures the Builder.
type BuilderOption func(*Builder)

// WithHeader adds a header to the request.
func WithHeader(key, value string) BuilderOption {
	return func(b *Builder) {
		if b.Headers == nil {
			b.Headers = make(map[string]string)
		}
		b.Headers[key] = value
	}
}

// WithHeaders adds multiple headers to the request.
func WithHeaders(headers map[string]string) BuilderOption {
	return func(b *Builder) {
		if len(headers) == 0 {
			return
		}
		if b.Headers == nil {
			b.Headers = make(map[string]string)
		}
		for k, v := range headers {
			b.Headers[k] = v
		}
	}
}

// WithAuthHandler sets a custom auth handler.
func WithAuthHandler(h auth.Handler) BuilderOption {
	return func(b *Builder) {
		b.AuthHandler = h
	}
}

// WithVariable sets a single variable.
func WithVariable(key string, value interface{}) BuilderOption {
	return func(b *Builder) {
		if b.Variables == nil {
			b.Variables = make(map[string]interface{})
		}
		b.Variables[key] = value
	}
}

// WithVariables sets multiple variables.
func WithVariables(variables map[string]interface{}) BuilderOption {
	return func(b *Builder) {
		if len(variables) == 0 {
			return
		}
		if b.Variables == nil {
			b.Variables = make(map[string]interface{})
		}
		for k, v := range variables {
			b.Variables[k] = v
		}
	}
}

// ApplyOptions applies BuilderOption functions in order.
func (b *Builder) ApplyOptions(opts ...BuilderOption) {
	for _, opt := range opts {
		opt(b)
	}
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithHTTPDoer swaps the underlying HTTPDoer.
func WithHTTPDoer(doer HTTPDoer) ClientOption {
	return func(c *Client) {
		c.doer = doer
	}
}

// WithTimeout sets a timeout on the HTTP client (if it's an *http.Client).
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		if httpClient, ok := c.doer.(*http.Client); ok {
			httpClient.Timeout = timeout
		}
	}
}

// WithUserAgent sets the User-Agent header for requests.
func WithUserAgent(userAgent string) ClientOption {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithClientHeader adds a header to every request.
func WithClientHeader(key, value string) ClientOption {
	return func(c *Client) {
		c.headers[key] = value
	}
}

// WithClientHeaders adds multiple headers to every request.
func WithClientHeaders(headers map[string]string) ClientOption {
	return func(c *Client) {
		for k, v := range headers {
			c.headers[k] = v
		}
	}
}

// WithClientAuth authenticates every request with h.
func WithClientAuth(h auth.Handler) ClientOption {
	return func(c *Client) {
		c.auth = h
	}
}

// WithTokenSource authenticates every request with a token from src.
func WithTokenSource(src oauth2.TokenSource) ClientOption {
	return WithClientAuth(auth.NewTokenSourceAuth(src))
}

// WithLogger sets the logger. A nil logger disables logging.
func WithLogger(logger *zap.Logger) ClientOption {
	return func(c *Client) {
		if logger == nil {
			logger = zap.NewNop()
		}
		c.logger = logger
	}
}

// WithMetrics records every query in collector.
func WithMetrics(collector *metrics.Collector) ClientOption {
	return func(c *Client) {
		c.metrics = collector
	}
}

// ApplyOptions applies ClientOption functions in order.
func (c *Client) ApplyOptions(opts ...ClientOption) {
	for _, opt := range opts {
		opt(c)
	}
}
