package forecast

import (
	"context"
	"errors"
	"strings"
	"time"
)

// ErrInvalidInput marks a local validation failure. No request was sent.
var ErrInvalidInput = errors.New("forecast: invalid input")

// ValidationError lists the fields that were empty or not numbers.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "forecast: invalid input in " + strings.Join(e.Fields, ", ")
}

// Unwrap lets errors.Is match ErrInvalidInput.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// Request is the parsed snapshot sent to the prediction service.
type Request struct {
	PastSpending []float64 `json:"past_spending"`
	Commitments  []float64 `json:"upcoming_commitments"`
}

// Prediction is what the service returned.
// Confidence is zero when the service did not report one.
type Prediction struct {
	Expenses   []float64
	Confidence float64
	At         time.Time
}

// Predictor performs the outbound prediction exchange.
type Predictor interface {
	Predict(ctx context.Context, req Request) (Prediction, error)
}

// PredictorFunc adapts a function to Predictor.
type PredictorFunc func(ctx context.Context, req Request) (Prediction, error)

// Predict calls f.
func (f PredictorFunc) Predict(ctx context.Context, req Request) (Prediction, error) {
	return f(ctx, req)
}

// Validate parses every field of in. All past-spending slots and the
// commitment must be non-empty finite numbers.
func Validate(in *Inputs) (Request, error) {
	req := Request{
		PastSpending: make([]float64, in.Len()),
		Commitments:  make([]float64, 1),
	}

	var bad []string
	for i, raw := range in.past {
		v, ok := ParseAmount(raw)
		if !ok {
			bad = append(bad, MonthLabel(i))
			continue
		}
		req.PastSpending[i] = v
	}

	c, ok := ParseAmount(in.commitment)
	if !ok {
		bad = append(bad, "Commitment")
	}
	req.Commitments[0] = c

	if len(bad) > 0 {
		return Request{}, &ValidationError{Fields: bad}
	}
	return req, nil
}
