package predictapi

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// predictResponse is the raw body of POST /api/predict.
// predicted_expenses is kept raw: it is documented as an array but some
// deployments send a bare number.
type predictResponse struct {
	PredictedExpenses json.RawMessage `json:"predicted_expenses"`
	ConfidenceScore   *float64        `json:"confidence_score"`
	Timestamp         string          `json:"timestamp"`
	ModelMetrics      map[string]any  `json:"model_metrics"`
}

// Health is the body of GET /api/health.
type Health struct {
	Status    string         `json:"status"`
	Timestamp string         `json:"timestamp"`
	ModelInfo map[string]any `json:"model_info"`
}

// Healthy reports whether the service said it is ready to predict.
func (h *Health) Healthy() bool {
	return h != nil && h.Status == "healthy"
}

// StatusError is returned for non-2xx responses other than 429.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("predictapi: unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("predictapi: unexpected status %d: %s", e.StatusCode, e.Body)
}

// parseExpenses accepts an array of numbers or a single number.
func parseExpenses(raw json.RawMessage) ([]float64, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	var list []float64
	if err := json.Unmarshal(raw, &list); err == nil {
		return list, nil
	}

	var single float64
	if err := json.Unmarshal(raw, &single); err == nil {
		return []float64{single}, nil
	}

	// Some servers quote numbers.
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if v, err := strconv.ParseFloat(s, 64); err == nil {
			return []float64{v}, nil
		}
	}

	return nil, fmt.Errorf("predictapi: predicted_expenses has unexpected shape %s", truncate(string(raw), 64))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
