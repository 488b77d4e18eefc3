// Package httpx provides the resilient HTTP core used by the marketplace API client
package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"pro_market/pkg/telemetry"

	"github.com/failsafe-go/failsafe-go"
	"github.com/failsafe-go/failsafe-go/circuitbreaker"
	"github.com/failsafe-go/failsafe-go/retrypolicy"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"
)

// APIError represents a non-2xx response from the backend
type APIError struct {
	StatusCode int
	Body       []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error: status=%d body=%s", e.StatusCode, string(e.Body))
}

// Message extracts the server-provided message field, if any.
// Business-rule rejections are surfaced to the user verbatim.
func (e *APIError) Message() string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(e.Body, &payload); err == nil && payload.Message != "" {
		return payload.Message
	}
	return ""
}

// TokenSource supplies the bearer token attached to authenticated requests
type TokenSource interface {
	Token() string
}

// Client wraps http.Client with retry, circuit breaking, and outbound rate limiting
type Client struct {
	client   *http.Client
	baseURL  string
	tokens   TokenSource
	limiter  *rate.Limiter
	retrying failsafe.Executor[*http.Response]
	direct   failsafe.Executor[*http.Response]

	tracer      trace.Tracer
	reqCounter  metric.Int64Counter
	errCounter  metric.Int64Counter
	latencyHist metric.Float64Histogram
}

// NewClient creates a new HTTP client with default resilience policies.
// Only idempotent reads go through the retry policy; mutating calls run once
// so a flaky network can never duplicate a hire request or a rating.
func NewClient(baseURL string, timeout time.Duration, tokens TokenSource, rps float64, burst int) *Client {
	retryPolicy := retrypolicy.NewBuilder[*http.Response]().
		HandleIf(func(resp *http.Response, err error) bool {
			if err != nil {
				return true
			}
			return resp.StatusCode >= 500 || resp.StatusCode == 429
		}).
		WithBackoff(100*time.Millisecond, 2*time.Second).
		WithMaxRetries(3).
		Build()

	breaker := circuitbreaker.NewBuilder[*http.Response]().
		HandleIf(func(resp *http.Response, err error) bool {
			if err != nil {
				return true
			}
			return resp.StatusCode >= 500
		}).
		WithFailureThresholdRatio(5, 10).
		WithDelay(10 * time.Second).
		Build()

	tracer := telemetry.GetTracer("marketplace-http")
	meter := telemetry.GetMeter("marketplace-http")

	reqCounter, _ := meter.Int64Counter("marketplace_http_requests_total",
		metric.WithDescription("Total number of backend requests"))
	errCounter, _ := meter.Int64Counter("marketplace_http_errors_total",
		metric.WithDescription("Total number of failed backend requests"))
	latencyHist, _ := meter.Float64Histogram("marketplace_http_request_duration_seconds",
		metric.WithDescription("Backend request latency in seconds"))

	if rps <= 0 {
		rps = 10
	}
	if burst <= 0 {
		burst = int(rps)
	}

	return &Client{
		client:      &http.Client{Timeout: timeout},
		baseURL:     baseURL,
		tokens:      tokens,
		limiter:     rate.NewLimiter(rate.Limit(rps), burst),
		retrying:    failsafe.With[*http.Response](retryPolicy, breaker),
		direct:      failsafe.With[*http.Response](breaker),
		tracer:      tracer,
		reqCounter:  reqCounter,
		errCounter:  errCounter,
		latencyHist: latencyHist,
	}
}

// Get sends a GET request
func (c *Client) Get(ctx context.Context, path string, params map[string]string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	q := req.URL.Query()
	for k, v := range params {
		q.Add(k, v)
	}
	req.URL.RawQuery = q.Encode()

	return c.do(req)
}

// Post sends a POST request with a JSON body
func (c *Client) Post(ctx context.Context, path string, body interface{}) ([]byte, error) {
	return c.send(ctx, http.MethodPost, path, body)
}

// Patch sends a PATCH request with a JSON body
func (c *Client) Patch(ctx context.Context, path string, body interface{}) ([]byte, error) {
	return c.send(ctx, http.MethodPatch, path, body)
}

// Delete sends a DELETE request
func (c *Client) Delete(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.do(req)
}

func (c *Client) send(ctx context.Context, method, path string, body interface{}) ([]byte, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal body: %w", err)
		}
		bodyReader = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.do(req)
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	start := time.Now()
	ctx := req.Context()

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	ctx, span := c.tracer.Start(ctx, fmt.Sprintf("%s %s", req.Method, req.URL.Path),
		trace.WithAttributes(
			attribute.String("http.method", req.Method),
			attribute.String("http.url", req.URL.String()),
		),
	)
	defer span.End()

	req = req.WithContext(ctx)
	req.Header.Set("X-Request-Id", uuid.NewString())
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	executor := c.direct
	if req.Method == http.MethodGet {
		executor = c.retrying
	}

	resp, err := executor.GetWithExecution(func(exec failsafe.Execution[*http.Response]) (*http.Response, error) {
		return c.client.Do(req)
	})

	duration := time.Since(start).Seconds()
	c.reqCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("method", req.Method),
		attribute.String("path", req.URL.Path),
	))
	c.latencyHist.Record(ctx, duration, metric.WithAttributes(
		attribute.String("method", req.Method),
		attribute.String("path", req.URL.Path),
	))

	if err != nil {
		span.RecordError(err)
		c.errCounter.Add(ctx, 1, metric.WithAttributes(
			attribute.String("method", req.Method),
			attribute.String("path", req.URL.Path),
			attribute.String("error", "transport"),
		))
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		c.errCounter.Add(ctx, 1, metric.WithAttributes(
			attribute.String("method", req.Method),
			attribute.String("path", req.URL.Path),
			attribute.Int("status", resp.StatusCode),
		))
		return nil, &APIError{StatusCode: resp.StatusCode, Body: respBody}
	}

	return respBody, nil
}
