// Package forecast holds the spending form state, the chart series derived
// from it, and the lifecycle of a prediction request.
package forecast

import (
	"errors"
	"fmt"
)

// DefaultMonths is the number of past-spending slots in a new form.
const DefaultMonths = 3

// ErrSlotOutOfRange is returned when a past-spending index is outside the form.
var ErrSlotOutOfRange = errors.New("forecast: past-spending slot out of range")

// Inputs owns the raw text the user typed: one entry per past month and a
// single upcoming commitment. Text is stored exactly as entered; parsing
// happens only when a series is built or a request is validated.
type Inputs struct {
	past       []string
	commitment string
}

// NewInputs creates a form with n empty past-spending slots (at least one).
func NewInputs(n int) *Inputs {
	if n < 1 {
		n = 1
	}
	return &Inputs{past: make([]string, n)}
}

// Len returns the fixed number of past-spending slots.
func (in *Inputs) Len() int {
	return len(in.past)
}

// PastSpending returns a copy of the past-spending entries in slot order.
func (in *Inputs) PastSpending() []string {
	out := make([]string, len(in.past))
	copy(out, in.past)
	return out
}

// PastSpendingAt returns the raw text of slot i, or "" when i is out of range.
func (in *Inputs) PastSpendingAt(i int) string {
	if i < 0 || i >= len(in.past) {
		return ""
	}
	return in.past[i]
}

// Commitment returns the raw commitment text.
func (in *Inputs) Commitment() string {
	return in.commitment
}

// SetPastSpendingAt replaces the text of a single slot.
func (in *Inputs) SetPastSpendingAt(index int, value string) error {
	if index < 0 || index >= len(in.past) {
		return fmt.Errorf("%w: index %d, have %d slots", ErrSlotOutOfRange, index, len(in.past))
	}
	in.past[index] = value
	return nil
}

// SetCommitment replaces the commitment text.
func (in *Inputs) SetCommitment(value string) {
	in.commitment = value
}
