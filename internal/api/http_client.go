package api

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/yourusername/p10-paddock/internal/logger"
	"github.com/yourusername/p10-paddock/internal/metrics"
)

// HTTPClientConfig holds configuration for the API transport
type HTTPClientConfig struct {
	Timeout             time.Duration
	MaxRetries          int
	RetryWaitMin        time.Duration
	RetryWaitMax        time.Duration
	RateLimit           float64 // requests per second
	CircuitBreakerMax   int     // max consecutive failures before circuit break
	CircuitBreakerReset time.Duration
}

// DefaultHTTPClientConfig returns recommended defaults. Retries are off.
func DefaultHTTPClientConfig() HTTPClientConfig {
	return HTTPClientConfig{
		Timeout:             15 * time.Second,
		MaxRetries:          0,
		RetryWaitMin:        200 * time.Millisecond,
		RetryWaitMax:        5 * time.Second,
		RateLimit:           10.0,
		CircuitBreakerMax:   5,
		CircuitBreakerReset: 30 * time.Second,
	}
}

type mutationKey struct{}

// WithMutation marks ctx as carrying a mutation, which is never retried
func WithMutation(ctx context.Context) context.Context {
	return context.WithValue(ctx, mutationKey{}, true)
}

func isMutation(ctx context.Context) bool {
	v, _ := ctx.Value(mutationKey{}).(bool)
	return v
}

// HTTPClient wraps retryablehttp.Client with rate limiting and a circuit breaker.
// It is safe for concurrent use.
type HTTPClient struct {
	client            *retryablehttp.Client
	limiter           *rate.Limiter
	circuitBreakerMax int
	resetAfter        time.Duration
	logger            *logrus.Entry

	mu                sync.Mutex
	consecutiveErrors int
	openedAt          time.Time
	isOpen            bool
	lastError         error
}

// NewHTTPClient creates a new rate-limited HTTP client
func NewHTTPClient(cfg HTTPClientConfig, log *logrus.Logger) *HTTPClient {
	if log == nil {
		log = logger.Silent()
	}
	entry := log.WithField("component", "http")

	retryClient := retryablehttp.NewClient()
	retryClient.HTTPClient.Timeout = cfg.Timeout
	retryClient.RetryMax = cfg.MaxRetries
	retryClient.RetryWaitMin = cfg.RetryWaitMin
	retryClient.RetryWaitMax = cfg.RetryWaitMax
	retryClient.CheckRetry = retryPolicy()
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler
	retryClient.Logger = leveledLogger{entry}

	if cfg.RateLimit <= 0 {
		cfg.RateLimit = DefaultHTTPClientConfig().RateLimit
	}
	if cfg.CircuitBreakerMax <= 0 {
		cfg.CircuitBreakerMax = DefaultHTTPClientConfig().CircuitBreakerMax
	}

	return &HTTPClient{
		client:            retryClient,
		limiter:           rate.NewLimiter(rate.Limit(cfg.RateLimit), 1),
		circuitBreakerMax: cfg.CircuitBreakerMax,
		resetAfter:        cfg.CircuitBreakerReset,
		logger:            entry,
	}
}

// Do executes an HTTP request with rate limiting and circuit breaker
func (c *HTTPClient) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	if err := c.allow(); err != nil {
		return nil, err
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	rreq, err := retryablehttp.FromRequest(req.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to wrap request: %w", err)
	}

	resp, err := c.client.Do(rreq)
	if err != nil {
		c.recordFailure(err)
		return nil, err
	}

	if resp.StatusCode >= 500 {
		c.recordFailure(fmt.Errorf("status %d", resp.StatusCode))
	} else {
		c.recordSuccess()
	}

	return resp, nil
}

// Close closes any resources held by the client
func (c *HTTPClient) Close() error {
	c.client.HTTPClient.CloseIdleConnections()
	return nil
}

// IsOpen reports whether the circuit breaker is refusing requests
func (c *HTTPClient) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.isOpen
}

func (c *HTTPClient) allow() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.isOpen {
		return nil
	}
	if c.resetAfter > 0 && time.Since(c.openedAt) >= c.resetAfter {
		// half-open: let one request through
		c.isOpen = false
		c.consecutiveErrors = c.circuitBreakerMax - 1
		return nil
	}
	return fmt.Errorf("%w: %v", ErrCircuitOpen, c.lastError)
}

func (c *HTTPClient) recordFailure(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.consecutiveErrors++
	c.lastError = err
	if c.consecutiveErrors >= c.circuitBreakerMax && !c.isOpen {
		c.isOpen = true
		c.openedAt = time.Now()
		metrics.RecordCircuitBreakerTrip()
		c.logger.WithError(err).Warnf("Circuit breaker opened after %d consecutive errors", c.consecutiveErrors)
	}
}

func (c *HTTPClient) recordSuccess() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.consecutiveErrors = 0
	c.isOpen = false
}

// retryPolicy retries queries on network errors, 429 and gateway errors. Mutations are
// never retried.
func retryPolicy() retryablehttp.CheckRetry {
	return func(ctx context.Context, resp *http.Response, err error) (bool, error) {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		if isMutation(ctx) {
			return false, nil
		}
		if err != nil {
			return true, nil
		}

		switch resp.StatusCode {
		case http.StatusTooManyRequests, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			return true, nil
		}
		return false, nil
	}
}

// leveledLogger adapts logrus to retryablehttp.LeveledLogger
type leveledLogger struct {
	entry *logrus.Entry
}

func (l leveledLogger) fields(keysAndValues []interface{}) *logrus.Entry {
	fields := logrus.Fields{}
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		if key, ok := keysAndValues[i].(string); ok {
			fields[key] = keysAndValues[i+1]
		}
	}
	return l.entry.WithFields(fields)
}

func (l leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	l.fields(keysAndValues).Error(msg)
}

func (l leveledLogger) Info(msg string, keysAndValues ...interface{}) {
	l.fields(keysAndValues).Debug(msg)
}

func (l leveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.fields(keysAndValues).Trace(msg)
}

func (l leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.fields(keysAndValues).Warn(msg)
}
