package forecast

import (
	"context"
	"errors"
)

// ErrNoPrediction is reported when a response decoded but held no values.
var ErrNoPrediction = errors.New("forecast: response contained no predicted value")

// Coordinator runs the submit → pending → settled lifecycle. It is not safe
// for concurrent use; callers drive it from a single event loop.
type Coordinator struct {
	state    State
	inflight Request
}

// NewCoordinator returns a coordinator in the Idle state.
func NewCoordinator() *Coordinator {
	return &Coordinator{state: Idle{}}
}

// State returns the current lifecycle state.
func (c *Coordinator) State() State {
	return c.state
}

// Pending reports whether a request is in flight.
func (c *Coordinator) Pending() bool {
	_, ok := c.state.(Pending)
	return ok
}

// Begin starts a submission. It returns the request to send and true when
// the caller should perform the exchange. While a request is in flight it
// returns false and changes nothing. A validation failure moves straight to
// Failed without any exchange.
func (c *Coordinator) Begin(in *Inputs) (Request, bool) {
	if c.Pending() {
		return Request{}, false
	}

	var previous *Succeeded
	switch st := c.state.(type) {
	case Succeeded:
		previous = &st
	case Failed:
		previous = st.Previous
	}
	c.state = Idle{}

	req, err := Validate(in)
	if err != nil {
		c.state = Failed{
			Kind:     FailureValidation,
			Message:  MsgInvalidInput,
			Cause:    err,
			Previous: previous,
		}
		return Request{}, false
	}

	c.state = Pending{}
	c.inflight = req
	return req, true
}

// Settle records the outcome of the exchange started by Begin. Calls made
// while no request is in flight are ignored.
func (c *Coordinator) Settle(res Prediction, err error) {
	if !c.Pending() {
		return
	}
	if err == nil && len(res.Expenses) == 0 {
		err = ErrNoPrediction
	}
	if err != nil {
		c.state = Failed{Kind: FailureRequest, Message: MsgRequestFailed, Cause: err}
		c.inflight = Request{}
		return
	}
	c.state = Succeeded{Amount: res.Expenses[0], Confidence: res.Confidence, Request: c.inflight}
	c.inflight = Request{}
}

// Submit runs a whole submission synchronously and returns the settled state.
func (c *Coordinator) Submit(ctx context.Context, in *Inputs, p Predictor) State {
	req, ok := c.Begin(in)
	if !ok {
		return c.state
	}
	res, err := p.Predict(ctx, req)
	c.Settle(res, err)
	return c.state
}
