package predictapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/spendcast/internal/forecast"
)

func newTestClient(t *testing.T, h http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := NewClient(srv.URL+"/", opts...)
	require.NoError(t, err)
	return c
}

func sampleRequest() forecast.Request {
	return forecast.Request{PastSpending: []float64{100, 200, 300}, Commitments: []float64{50}}
}

func TestPredictSendsContract(t *testing.T) {
	var gotBody map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/predict", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NotEmpty(t, r.Header.Get("X-Request-ID"))

		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(raw, &gotBody))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"predicted_expenses":[250.5],"confidence_score":0.85}`))
	})

	res, err := c.Predict(context.Background(), sampleRequest())
	require.NoError(t, err)
	require.Equal(t, []float64{250.5}, res.Expenses)
	require.InDelta(t, 0.85, res.Confidence, 1e-9)

	require.Equal(t, []any{100.0, 200.0, 300.0}, gotBody["past_spending"])
	require.Equal(t, []any{50.0}, gotBody["upcoming_commitments"])
	require.Len(t, gotBody, 2)
}

func TestPredictAcceptsScalarAndQuotedValues(t *testing.T) {
	for body, want := range map[string]float64{
		`{"predicted_expenses": 1234.5, "timestamp": "2024-03-01T10:00:00.123456"}`: 1234.5,
		`{"predicted_expenses": "99.5"}`: 99.5,
	} {
		c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(body))
		})
		res, err := c.Predict(context.Background(), sampleRequest())
		require.NoError(t, err, body)
		require.Equal(t, []float64{want}, res.Expenses)
	}
}

func TestPredictParsesServerTimestamp(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"predicted_expenses":[1],"timestamp":"2024-03-01T10:00:00.5"}`))
	})
	res, err := c.Predict(context.Background(), sampleRequest())
	require.NoError(t, err)
	require.Equal(t, time.Date(2024, 3, 1, 10, 0, 0, 500_000_000, time.UTC), res.At)
}

func TestPredictEmptyArrayIsNoPrediction(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"predicted_expenses":[]}`))
	})
	_, err := c.Predict(context.Background(), sampleRequest())
	require.ErrorIs(t, err, forecast.ErrNoPrediction)
}

func TestPredictMissingFieldIsNoPrediction(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"error":"Model not loaded"}`))
	})
	_, err := c.Predict(context.Background(), sampleRequest())
	require.ErrorIs(t, err, forecast.ErrNoPrediction)
}

func TestPredictMalformedBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html>oops</html>`))
	})
	_, err := c.Predict(context.Background(), sampleRequest())
	require.Error(t, err)
	require.Contains(t, err.Error(), "parsing prediction")
}

func TestPredictWrongShape(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"predicted_expenses":{"value":1}}`))
	})
	_, err := c.Predict(context.Background(), sampleRequest())
	require.Error(t, err)
	require.Contains(t, err.Error(), "unexpected shape")
}

func TestPredictServerError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":"boom"}`, http.StatusInternalServerError)
	})
	_, err := c.Predict(context.Background(), sampleRequest())

	var se *StatusError
	require.ErrorAs(t, err, &se)
	require.Equal(t, http.StatusInternalServerError, se.StatusCode)
	require.Contains(t, se.Body, "boom")
}

func TestPredictServerRateLimited(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})
	_, err := c.Predict(context.Background(), sampleRequest())
	require.ErrorIs(t, err, ErrRateLimited)
}

func TestPredictLocalBudget(t *testing.T) {
	var hits atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(`{"predicted_expenses":[1]}`))
	}, WithPredictBudget(2))

	for i := 0; i < 2; i++ {
		_, err := c.Predict(context.Background(), sampleRequest())
		require.NoError(t, err)
	}
	_, err := c.Predict(context.Background(), sampleRequest())
	require.ErrorIs(t, err, ErrRateLimited)
	require.EqualValues(t, 2, hits.Load())
}

func TestPredictTimeout(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}, WithTimeout(50*time.Millisecond))

	_, err := c.Predict(context.Background(), sampleRequest())
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestPredictConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	c, err := NewClient(addr)
	require.NoError(t, err)
	_, err = c.Predict(context.Background(), sampleRequest())
	require.Error(t, err)
	require.Contains(t, err.Error(), "request failed")
}

func TestNewClientRejectsBadURLs(t *testing.T) {
	for _, u := range []string{"", "localhost:5000", "ftp://host", "http://", "::"} {
		_, err := NewClient(u)
		require.ErrorIs(t, err, ErrInvalidBaseURL, u)
	}
	c, err := NewClient(" http://localhost:5000/ ")
	require.NoError(t, err)
	require.Equal(t, "http://localhost:5000", c.BaseURL())
}

func TestHealthAndMetrics(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		switch r.URL.Path {
		case "/api/health":
			_, _ = w.Write([]byte(`{"status":"healthy","timestamp":"now","model_info":{"r2":0.9}}`))
		case "/api/model/metrics":
			_, _ = w.Write([]byte(`{"r2":0.9,"mae":12.5}`))
		default:
			http.NotFound(w, r)
		}
	})

	h, err := c.Health(context.Background())
	require.NoError(t, err)
	require.True(t, h.Healthy())
	require.Equal(t, 0.9, h.ModelInfo["r2"])

	m, err := c.ModelMetrics(context.Background())
	require.NoError(t, err)
	require.Equal(t, 12.5, m["mae"])
}

func TestWaitHealthyRetriesUntilHealthy(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"status":"healthy"}`))
	})

	var retries int
	h, err := c.WaitHealthy(context.Background(), 10*time.Second, func(error, time.Duration) { retries++ })
	require.NoError(t, err)
	require.True(t, h.Healthy())
	require.EqualValues(t, 3, calls.Load())
	require.Equal(t, 2, retries)
}

func TestWaitHealthyStopsOnClientError(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.NotFound(w, r)
	})

	_, err := c.WaitHealthy(context.Background(), 10*time.Second, nil)
	var se *StatusError
	require.True(t, errors.As(err, &se))
	require.Equal(t, http.StatusNotFound, se.StatusCode)
	require.EqualValues(t, 1, calls.Load())
}

func TestWaitHealthyGivesUp(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status":"starting"}`))
	})
	_, err := c.WaitHealthy(context.Background(), 300*time.Millisecond, nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "starting")
}

func TestClientSatisfiesPredictor(t *testing.T) {
	var _ forecast.Predictor = (*Client)(nil)
}
