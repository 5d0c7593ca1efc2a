// Package api is the HTTP client for the wellness server.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/Freeeeeet/wellness_client/internal/api/endpoint"
	"github.com/Freeeeeet/wellness_client/internal/environment"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const maxBodySize = 4 << 20

// TokenSource supplies the bearer credential. An empty string means none.
type TokenSource interface {
	Token() string
}

// Request describes one logical call. Endpoint wins over Path when both are set.
type Request struct {
	Method   string
	Endpoint endpoint.Name
	Params   []string
	Path     string // raw path starting with "/"
	Query    url.Values
	Body     any
}

// Response is the decoded server envelope.
type Response struct {
	StatusCode int             `json:"-"`
	Address    string          `json:"-"` // candidate that answered
	Success    bool            `json:"success"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data"`
	Errors     []string        `json:"errors"`
}

// DecodeData unmarshals the envelope's data field into v.
func DecodeData(resp *Response, v any) error {
	data := bytes.TrimSpace(resp.Data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return ErrEmptyData
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode response data: %w", err)
	}
	return nil
}

type Client struct {
	candidates     []string
	httpClient     *http.Client
	tokens         TokenSource
	onUnauthorized func(ctx context.Context)
	newRequestID   func() string
	logger         *zap.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithUnauthorizedHandler registers fn to run whenever a candidate answers 401
// to a call that needs a session. Public endpoints never trigger it.
func WithUnauthorizedHandler(fn func(ctx context.Context)) Option {
	return func(c *Client) {
		c.onUnauthorized = fn
	}
}

func WithRequestIDs(fn func() string) Option {
	return func(c *Client) {
		if fn != nil {
			c.newRequestID = fn
		}
	}
}

// New creates a client that tries candidates in order.
func New(candidates []string, tokens TokenSource, logger *zap.Logger, opts ...Option) *Client {
	c := &Client{
		candidates:   append([]string(nil), candidates...),
		httpClient:   http.DefaultClient,
		tokens:       tokens,
		newRequestID: uuid.NewString,
		logger:       logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewForEnvironment creates a client for the resolved environment's base
// address and its fallbacks.
func NewForEnvironment(env environment.Environment, tokens TokenSource, logger *zap.Logger, opts ...Option) *Client {
	return New(env.Candidates(), tokens, logger, opts...)
}

// Candidates returns the addresses in the order they are tried.
func (c *Client) Candidates() []string {
	return append([]string(nil), c.candidates...)
}

// Do sends req to each candidate in turn and returns the first 2xx response.
// Transport failures and non-2xx answers move on to the next candidate. When
// all of them fail the result is a *NetworkError wrapping the last error.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	path, err := resolvePath(req)
	if err != nil {
		return nil, err
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	var body []byte
	if req.Body != nil {
		body, err = json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
	}

	requestID := c.newRequestID()
	var lastErr error
	attempts := 0

	for _, base := range c.candidates {
		if ctxErr := ctx.Err(); ctxErr != nil {
			lastErr = ctxErr
			break
		}

		attempts++
		resp, err := c.attempt(ctx, base, method, path, req.Query, body, requestID)
		if err == nil {
			c.logger.Debug("Request succeeded",
				zap.String("request_id", requestID),
				zap.String("method", method),
				zap.String("address", base),
				zap.String("path", path),
				zap.Int("status", resp.StatusCode),
				zap.Int("attempt", attempts))
			return resp, nil
		}

		lastErr = err
		c.logger.Warn("Request to candidate failed",
			zap.String("request_id", requestID),
			zap.String("method", method),
			zap.String("address", base),
			zap.String("path", path),
			zap.Int("attempt", attempts),
			zap.Error(err))

		if errors.Is(err, ErrUnauthorized) && c.onUnauthorized != nil && !endpoint.Public(req.Endpoint) {
			c.onUnauthorized(ctx)
		}
	}

	netErr := newNetworkError(attempts, lastErr)
	c.logger.Error("Request exhausted all candidates",
		zap.String("request_id", requestID),
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("attempts", attempts),
		zap.Error(lastErr))

	return nil, netErr
}

func (c *Client) attempt(ctx context.Context, base, method, path string, query url.Values, body []byte, requestID string) (*Response, error) {
	target := strings.TrimRight(base, "/") + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-ID", requestID)
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			httpReq.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, target, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("read response from %s: %w", base, err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, newStatusError(base, resp.StatusCode, raw)
	}

	out := &Response{StatusCode: resp.StatusCode, Address: base}
	if len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return nil, fmt.Errorf("decode response from %s: %w", base, err)
		}
	}

	return out, nil
}

func newStatusError(base string, status int, raw []byte) *StatusError {
	statusErr := &StatusError{Address: base, StatusCode: status}

	var envelope struct {
		Message string   `json:"message"`
		Error   string   `json:"error"`
		Errors  []string `json:"errors"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil {
		statusErr.Message = envelope.Message
		if statusErr.Message == "" {
			statusErr.Message = envelope.Error
		}
		statusErr.Errors = envelope.Errors
		return statusErr
	}

	text := strings.TrimSpace(string(raw))
	if len(text) > 2048 {
		text = text[:2048]
	}
	statusErr.Message = text
	return statusErr
}

func resolvePath(req Request) (string, error) {
	if req.Endpoint != "" {
		return endpoint.Path(req.Endpoint, req.Params...), nil
	}
	if !strings.HasPrefix(req.Path, "/") {
		return "", fmt.Errorf("request path %q must start with /", req.Path)
	}
	return req.Path, nil
}
