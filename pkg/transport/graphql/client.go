package graphql

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/saturnines/byo-graphql/pkg/auth"
	"github.com/saturnines/byo-graphql/pkg/config"
	"github.com/saturnines/byo-graphql/pkg/errors"
	"github.com/saturnines/byo-graphql/pkg/metrics"
	"go.uber.org/zap"
)

// maxErrorBody bounds how much of a non-2xx body ends up in an HTTPError.
const maxErrorBody = 4 << 10

// HTTPDoer is the minimal interface satisfied by *http.Client.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// Client sends queries to one GraphQL endpoint. Queries are synchronous; a
// Client adds no locking of its own, so SetBearerAuth must not run
// concurrently with a query.
type Client struct {
	endpoint  string
	doer      HTTPDoer
	userAgent string
	headers   map[string]string
	auth      auth.Handler
	logger    *zap.Logger
	metrics   *metrics.Collector
}

// NewClient creates a client for endpoint. Without options it uses an
// *http.Client with a 30 second timeout, the "byo/0.1" user agent, no
// authentication and no logging.
func NewClient(endpoint string, opts ...ClientOption) *Client {
	c := &Client{
		endpoint:  endpoint,
		doer:      &http.Client{Timeout: config.DefaultTimeout},
		userAgent: config.DefaultUserAgent,
		headers:   make(map[string]string),
		logger:    zap.NewNop(),
	}
	c.ApplyOptions(opts...)
	return c
}

// NewClientFromConfig creates a client from a loaded config. opts are
// applied after the config, so they win.
func NewClientFromConfig(cfg *config.Client, opts ...ClientOption) (*Client, error) {
	h, err := auth.CreateHandler(cfg.Auth)
	if err != nil {
		return nil, errors.WrapError(err, errors.ErrConfiguration, "auth handler")
	}

	base := []ClientOption{WithClientHeaders(cfg.Headers)}
	if cfg.Timeout > 0 {
		base = append(base, WithTimeout(cfg.Timeout))
	}
	if cfg.UserAgent != "" {
		base = append(base, WithUserAgent(cfg.UserAgent))
	}
	if h != nil {
		base = append(base, WithClientAuth(h))
	}

	return NewClient(cfg.Endpoint, append(base, opts...)...), nil
}

// Endpoint returns the URL queries are posted to.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// SetBearerAuth makes every later request carry "Authorization: Bearer <token>".
func (c *Client) SetBearerAuth(token string) {
	c.auth = auth.NewBearerAuth(token)
}

// Do posts r and returns the response of a 2xx answer. The caller must close
// its body. Network failures and other statuses fail with errors.ErrTransport.
func (c *Client) Do(ctx context.Context, r Request) (*http.Response, error) {
	start := time.Now()
	resp, err := c.post(ctx, r)
	c.observe(start, err)
	return resp, err
}

// Raw posts query and returns the undecoded response; see Do.
func (c *Client) Raw(ctx context.Context, query string) (*http.Response, error) {
	return c.Do(ctx, Request{Query: query})
}

// Text returns the server's answer as unparsed text. This is mainly useful
// to debug and tune your structures or query.
func (c *Client) Text(ctx context.Context, query string) (string, error) {
	start := time.Now()
	body, err := c.postAndRead(ctx, Request{Query: query})
	c.observe(start, err)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

func (c *Client) post(ctx context.Context, r Request) (*http.Response, error) {
	b := NewBuilder(c.endpoint, r.Query,
		WithVariables(r.Variables),
		WithHeaders(c.headers),
		WithAuthHandler(c.auth),
	)
	req, err := b.Build(ctx)
	if err != nil {
		return nil, errors.WrapError(err, errors.ErrTransport, "build request")
	}
	req.Header.Set("User-Agent", c.userAgent)

	start := time.Now()
	resp, err := c.doer.Do(req)
	if err != nil {
		c.logger.Warn("graphql request failed",
			zap.String("endpoint", c.endpoint),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return nil, errors.WrapError(err, errors.ErrTransport, "post query")
	}

	c.logger.Debug("graphql response",
		zap.String("endpoint", c.endpoint),
		zap.Int("status", resp.StatusCode),
		zap.Int("query_bytes", len(r.Query)),
		zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		httpErr := &errors.HTTPError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       string(body),
		}
		c.logger.Warn("graphql endpoint returned an error status",
			zap.String("endpoint", c.endpoint),
			zap.Int("status", resp.StatusCode))
		return nil, errors.WrapError(httpErr, errors.ErrTransport, "post query")
	}

	return resp, nil
}

func (c *Client) postAndRead(ctx context.Context, r Request) ([]byte, error) {
	resp, err := c.post(ctx, r)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.WrapError(err, errors.ErrTransport, "read response body")
	}
	return body, nil
}

func (c *Client) observe(start time.Time, err error) {
	c.metrics.ObserveQuery(outcomeOf(err), time.Since(start))
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case errors.Is(err, errors.ErrGraphQL):
		return metrics.OutcomeGraphQLError
	case errors.Is(err, errors.ErrNoData):
		return metrics.OutcomeNoData
	case errors.Is(err, errors.ErrDeserialization):
		return metrics.OutcomeDecodeError
	default:
		return metrics.OutcomeTransportError
	}
}
