// Package predictapi is the HTTP client for the external expense prediction service.
package predictapi

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
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/theirongolddev/spendcast/internal/forecast"
)

const (
	predictPath = "/api/predict"
	healthPath  = "/api/health"
	metricsPath = "/api/model/metrics"

	maxBodySize  = 1 << 20 // 1 MB
	maxErrorBody = 256
	userAgent    = "spendcast/1.0"
)

var (
	// ErrRateLimited indicates the service (or the local budget) refused the call.
	ErrRateLimited = errors.New("predictapi: rate limited")
	// ErrInvalidBaseURL indicates the configured address is not an absolute http(s) URL.
	ErrInvalidBaseURL = errors.New("predictapi: base URL must be an absolute http or https URL")
)

// Client talks to the prediction service.
type Client struct {
	baseURL   string
	http      *http.Client
	timeout   time.Duration
	limiter   *rate.Limiter
	logger    zerolog.Logger
	requestID func() string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout bounds each call. Zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithPredictBudget allows at most perHour prediction calls per hour,
// refilled evenly. Zero disables the budget.
func WithPredictBudget(perHour int) Option {
	return func(c *Client) {
		if perHour <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Every(time.Hour/time.Duration(perHour)), perHour)
	}
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient creates a client for the service at baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	u, err := url.Parse(baseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidBaseURL, baseURL)
	}

	c := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		http:      &http.Client{},
		logger:    log.With().Str("component", "predictapi").Logger(),
		requestID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the normalized service address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Predict sends one prediction request. It implements forecast.Predictor.
func (c *Client) Predict(ctx context.Context, req forecast.Request) (forecast.Prediction, error) {
	if c.limiter != nil && !c.limiter.Allow() {
		return forecast.Prediction{}, fmt.Errorf("%w: local prediction budget exhausted", ErrRateLimited)
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return forecast.Prediction{}, fmt.Errorf("predictapi: encoding request: %w", err)
	}

	body, err := c.do(ctx, http.MethodPost, predictPath, payload)
	if err != nil {
		return forecast.Prediction{}, err
	}

	var raw predictResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return forecast.Prediction{}, fmt.Errorf("predictapi: parsing prediction: %w", err)
	}

	expenses, err := parseExpenses(raw.PredictedExpenses)
	if err != nil {
		return forecast.Prediction{}, err
	}
	if len(expenses) == 0 {
		return forecast.Prediction{}, fmt.Errorf("predictapi: %w", forecast.ErrNoPrediction)
	}

	res := forecast.Prediction{Expenses: expenses, At: time.Now()}
	if raw.ConfidenceScore != nil {
		res.Confidence = *raw.ConfidenceScore
	}
	if raw.Timestamp != "" {
		if t, err := time.Parse("2006-01-02T15:04:05.999999", raw.Timestamp); err == nil {
			res.At = t
		} else if t, err := time.Parse(time.RFC3339Nano, raw.Timestamp); err == nil {
			res.At = t
		}
	}
	return res, nil
}

// Health fetches the service health report.
func (c *Client) Health(ctx context.Context) (*Health, error) {
	body, err := c.do(ctx, http.MethodGet, healthPath, nil)
	if err != nil {
		return nil, err
	}

	var h Health
	if err := json.Unmarshal(body, &h); err != nil {
		return nil, fmt.Errorf("predictapi: parsing health: %w", err)
	}
	return &h, nil
}

// ModelMetrics fetches the training metrics of the deployed model.
func (c *Client) ModelMetrics(ctx context.Context) (map[string]any, error) {
	body, err := c.do(ctx, http.MethodGet, metricsPath, nil)
	if err != nil {
		return nil, err
	}

	var m map[string]any
	if err := json.Unmarshal(body, &m); err != nil {
		return nil, fmt.Errorf("predictapi: parsing model metrics: %w", err)
	}
	return m, nil
}

// do performs one request and returns the response body of a 2xx reply.
func (c *Client) do(ctx context.Context, method, path string, payload []byte) ([]byte, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("predictapi: creating request: %w", err)
	}

	reqID := c.requestID()
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("X-Request-ID", reqID)

	logger := c.logger.With().Str("request_id", reqID).Str("method", method).Str("path", path).Logger()
	start := time.Now()
	logger.Debug().Msg("sending request")

	resp, err := c.http.Do(req)
	if err != nil {
		logger.Warn().Err(err).Dur("elapsed", time.Since(start)).Msg("request failed")
		return nil, fmt.Errorf("predictapi: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	logger.Debug().Int("status", resp.StatusCode).Dur("elapsed", time.Since(start)).Msg("response received")

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, ErrRateLimited
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(snippet))}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("predictapi: reading response: %w", err)
	}
	return body, nil
}
