package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/habitkeeper/internal/client/models"
	"github.com/dmitrijs2005/habitkeeper/internal/logging"
)

// TokenSource yields the current access token; empty means anonymous.
type TokenSource interface {
	AccessToken() models.Token
}

// TokenSourceFunc adapts a function to TokenSource.
type TokenSourceFunc func() models.Token

func (f TokenSourceFunc) AccessToken() models.Token { return f() }

type Gateway struct {
	base       *url.URL
	httpClient *http.Client
	tokens     TokenSource
	logger     logging.Logger
}

type Option func(*Gateway)

// WithHTTPClient replaces the default client, which only sets Timeout.
func WithHTTPClient(c *http.Client) Option {
	return func(g *Gateway) { g.httpClient = c }
}

func WithTokenSource(ts TokenSource) Option {
	return func(g *Gateway) { g.tokens = ts }
}

func WithLogger(l logging.Logger) Option {
	return func(g *Gateway) { g.logger = l }
}

func NewGateway(baseURL string, timeout time.Duration, opts ...Option) (*Gateway, error) {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url error: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", baseURL)
	}

	g := &Gateway{
		base:       base,
		httpClient: &http.Client{Timeout: timeout},
		tokens:     TokenSourceFunc(func() models.Token { return "" }),
		logger:     logging.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// SetTokenSource is used when the token owner is built after the gateway.
func (g *Gateway) SetTokenSource(ts TokenSource) {
	g.tokens = ts
}

// Request sends body (when non-nil) as JSON to path, resolved against the
// base URL, and returns the raw 2xx response body. An empty body is
// returned as JSON null.
func (g *Gateway) Request(ctx context.Context, method, path string, body any) (json.RawMessage, error) {
	target, err := g.base.Parse(strings.TrimPrefix(path, "/"))
	if err != nil {
		return nil, newTransportError(fmt.Errorf("build url error: %w", err))
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body error: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), reader)
	if err != nil {
		return nil, newTransportError(err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := g.tokens.AccessToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+string(token))
	}

	started := time.Now()
	resp, err := g.httpClient.Do(req)
	if err != nil {
		g.logger.Debug(ctx, "request failed", "method", method, "path", path, "error", err, "duration", time.Since(started))
		return nil, newTransportError(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, newTransportError(fmt.Errorf("read response body error: %w", err))
	}

	g.logger.Debug(ctx, "request done", "method", method, "path", path, "status", resp.StatusCode, "duration", time.Since(started))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newHTTPError(resp.StatusCode, errorPayload(resp.StatusCode, data))
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return json.RawMessage("null"), nil
	}
	return json.RawMessage(data), nil
}

func errorPayload(status int, data []byte) models.ErrorPayload {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return models.DetailPayload(http.StatusText(status))
	}

	var v any
	if err := json.Unmarshal(trimmed, &v); err != nil {
		return models.DetailPayload(string(trimmed))
	}
	if obj, ok := v.(map[string]any); ok {
		return models.ErrorPayload(obj)
	}
	return models.ErrorPayload{"detail": v}
}
