// Package api provides the GraphQL client for the P10 server.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/p10-paddock/internal/logger"
	"github.com/yourusername/p10-paddock/internal/metrics"
	"github.com/yourusername/p10-paddock/internal/session"
)

// Config holds the settings of a Client
type Config struct {
	Endpoint  string
	UserAgent string
	CacheTTL  time.Duration
	HTTP      HTTPClientConfig
}

// Client sends GraphQL operations to the P10 server. The authorization header is
// re-derived from the token source on every request.
type Client struct {
	http      *HTTPClient
	endpoint  string
	userAgent string
	source    session.TokenSource
	decorator *session.Decorator
	cache     *QueryCache
	validate  *validator.Validate
	logger    *logger.APILogger

	mu        sync.Mutex
	lastToken string
}

type graphQLRequest struct {
	Query         string                 `json:"query"`
	Variables     map[string]interface{} `json:"variables,omitempty"`
	OperationName string                 `json:"operationName,omitempty"`
}

type graphQLResponse struct {
	Data   map[string]json.RawMessage `json:"data"`
	Errors []GraphQLErrorItem         `json:"errors,omitempty"`
}

// NewClient creates a new API client reading credentials from source
func NewClient(cfg Config, source session.TokenSource, log *logrus.Logger) *Client {
	if log == nil {
		log = logger.Silent()
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "p10-paddock"
	}

	return &Client{
		http:      NewHTTPClient(cfg.HTTP, log),
		endpoint:  cfg.Endpoint,
		userAgent: cfg.UserAgent,
		source:    source,
		decorator: session.NewDecorator(source),
		cache:     NewQueryCache(cfg.CacheTTL),
		validate:  validator.New(),
		logger:    logger.NewAPILogger(log),
	}
}

// Close releases idle connections
func (c *Client) Close() error {
	return c.http.Close()
}

// CircuitOpen reports whether the transport is refusing requests after repeated failures
func (c *Client) CircuitOpen() bool {
	return c.http.IsOpen()
}

// Cache returns the query cache
func (c *Client) Cache() *QueryCache {
	return c.cache
}

// Invalidate drops cached results of the given query fields
func (c *Client) Invalidate(fields ...string) {
	if n := c.cache.Invalidate(fields...); n > 0 {
		c.logger.LogCacheInvalidation(fields, "explicit")
	}
}

// Do sends op and decodes the value of its root field into out. out may be nil.
func (c *Client) Do(ctx context.Context, op Operation, variables map[string]interface{}, out interface{}) error {
	c.checkToken()

	if op.Cached && !op.Mutation {
		if data, ok := c.cache.Get(op.Field, variables); ok {
			c.logger.LogRequest(op.Field, "", http.StatusOK, 0, true)
			return c.decode(op, data, out)
		}
	}

	data, err := c.send(ctx, op, variables)
	if err != nil {
		return err
	}

	if err := c.decode(op, data, out); err != nil {
		return err
	}

	switch {
	case op.FlushCache:
		c.cache.Flush()
		c.logger.LogCacheInvalidation([]string{"*"}, op.Field)
	case len(op.Invalidates) > 0:
		c.cache.Invalidate(op.Invalidates...)
		c.logger.LogCacheInvalidation(op.Invalidates, op.Field)
	case op.Cached:
		c.cache.Set(op.Field, variables, data)
	}
	return nil
}

func (c *Client) send(ctx context.Context, op Operation, variables map[string]interface{}) (json.RawMessage, error) {
	body, err := json.Marshal(graphQLRequest{
		Query:         op.Document,
		Variables:     variables,
		OperationName: op.Name,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	if op.Mutation {
		ctx = WithMutation(ctx)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", requestID)
	c.decorator.Decorate(req)

	start := time.Now()
	resp, err := c.http.Do(ctx, req)
	if err != nil {
		metrics.RecordAPIRequest(op.Field, "network_error", time.Since(start).Seconds())
		c.logger.LogRequestError(op.Field, requestID, err)
		return nil, fmt.Errorf("%s: request failed: %w", op.Field, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.RecordAPIRequest(op.Field, "network_error", time.Since(start).Seconds())
		return nil, fmt.Errorf("%s: failed to read response: %w", op.Field, err)
	}

	data, err := c.parse(op, resp.StatusCode, raw)
	outcome := "success"
	if err != nil {
		outcome = "error"
		c.logger.LogRequestError(op.Field, requestID, err)
	}
	metrics.RecordAPIRequest(op.Field, outcome, time.Since(start).Seconds())
	c.logger.LogRequest(op.Field, requestID, resp.StatusCode, float64(time.Since(start).Microseconds())/1000, false)

	return data, err
}

func (c *Client) parse(op Operation, status int, raw []byte) (json.RawMessage, error) {
	if status == http.StatusUnauthorized {
		return nil, NewHTTPError(op.Field, status, raw)
	}

	var envelope graphQLResponse
	decodeErr := json.Unmarshal(raw, &envelope)

	if decodeErr == nil && len(envelope.Errors) > 0 {
		return nil, NewGraphQLError(op.Field, envelope.Errors)
	}
	if status < 200 || status > 299 {
		return nil, NewHTTPError(op.Field, status, raw)
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidResponse, op.Field, decodeErr)
	}

	data, ok := envelope.Data[op.Field]
	if !ok {
		return nil, fmt.Errorf("%w: %s: missing data", ErrInvalidResponse, op.Field)
	}
	return data, nil
}

func (c *Client) decode(op Operation, data json.RawMessage, out interface{}) error {
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidResponse, op.Field, err)
	}
	if err := c.check(out); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidResponse, op.Field, err)
	}
	return nil
}

// check validates decoded records: a struct, or every element of a slice
func (c *Client) check(v interface{}) error {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Struct:
		return c.validate.Struct(rv.Interface())
	case reflect.Slice:
		if rv.Len() == 0 || indirectKind(rv.Type().Elem()) != reflect.Struct {
			return nil
		}
		return c.validate.Var(rv.Interface(), "dive")
	}
	return nil
}

// checkToken drops cached results when the credential changed since the last request
func (c *Client) checkToken() {
	token := ""
	if c.source != nil {
		token = c.source.Token()
	}

	c.mu.Lock()
	changed := token != c.lastToken
	c.lastToken = token
	c.mu.Unlock()

	if changed {
		c.cache.Flush()
	}
}

func indirectKind(t reflect.Type) reflect.Kind {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Kind()
}
