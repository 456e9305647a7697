// Package transport performs the JSON POST calls made by booking steps.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/dukex/flyout/pkg/log"
	"github.com/dukex/flyout/pkg/models"
	"github.com/dukex/flyout/pkg/otelhelper"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const userAgent = "flyout/1.0"

// Client posts JSON documents and reports what came back.
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
	tracer     trace.Tracer
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithTimeout bounds each attempt. Zero leaves attempts unbounded.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(c *Client) {
		c.tracer = tracer
	}
}

func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{},
		logger:     log.WithModule("transport"),
		tracer:     otel.Tracer("github.com/dukex/flyout/pkg/transport"),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Post sends body as JSON to endpoint. A non-2xx response is returned as an unsuccessful
// outcome on the first attempt; only transport failures are retried, and once the attempts
// are spent they are returned as *Error.
func (c *Client) Post(ctx context.Context, endpoint string, body any, retry RetryConfig) (*models.StepOutcome, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncodeRequest, err)
	}

	maxAttempts := retry.MaxAttempts()

	outcome, attempts, err := Retry(ctx, retry, func(ctx context.Context, attempt int) (*models.StepOutcome, error) {
		return c.attempt(ctx, endpoint, payload, attempt, maxAttempts)
	})
	if err != nil {
		return nil, &Error{Endpoint: endpoint, Attempts: attempts, Err: err}
	}

	outcome.Attempts = attempts

	return outcome, nil
}

func (c *Client) attempt(
	ctx context.Context,
	endpoint string,
	payload []byte,
	attempt, maxAttempts int,
) (*models.StepOutcome, error) {
	ctx, span := otelhelper.StartSpan(ctx, c.tracer, "transport.post",
		attribute.String(otelhelper.EndpointKey, endpoint),
		attribute.Int(otelhelper.AttemptKey, attempt),
	)
	defer span.End()

	logger := c.logger.With(log.Endpoint(endpoint), log.Attempt(attempt, maxAttempts))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, fmt.Errorf("failed to create http request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		otelhelper.SetError(span, err)
		logger.WarnContext(ctx, "http request failed", slog.Duration("duration", time.Since(start)), log.Error(err))

		return nil, fmt.Errorf("http request failed: %w", err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		otelhelper.SetError(span, err)
		logger.WarnContext(ctx, "failed to read response body", log.Error(err))

		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	span.SetAttributes(attribute.Int(otelhelper.StatusCodeKey, resp.StatusCode))

	outcome := &models.StepOutcome{
		Succeeded:  resp.StatusCode >= 200 && resp.StatusCode < 300,
		StatusCode: resp.StatusCode,
		RawBody:    string(raw),
	}

	var parsed any
	if err := json.Unmarshal(raw, &parsed); err == nil {
		outcome.ParsedBody = parsed
	} else {
		logger.DebugContext(ctx, "response body is not JSON, keeping raw text", log.Error(err))
	}

	logger.InfoContext(ctx, "http request completed",
		slog.Int("status_code", resp.StatusCode),
		slog.Int("body_length", len(raw)),
		slog.Duration("duration", time.Since(start)),
	)

	return outcome, nil
}
