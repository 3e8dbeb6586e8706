package predictapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// WaitHealthy polls Health with exponential backoff until the service reports
// healthy, maxWait elapses, or ctx ends. notify, if non-nil, is called before
// each retry. Client errors other than 429 stop the wait immediately.
func (c *Client) WaitHealthy(ctx context.Context, maxWait time.Duration, notify backoff.Notify) (*Health, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 250 * time.Millisecond
	b.MaxInterval = 5 * time.Second
	b.MaxElapsedTime = maxWait

	op := func() (*Health, error) {
		h, err := c.Health(ctx)
		if err != nil {
			var se *StatusError
			if errors.As(err, &se) && se.StatusCode >= 400 && se.StatusCode < 500 && se.StatusCode != http.StatusRequestTimeout {
				return nil, backoff.Permanent(err)
			}
			return nil, err
		}
		if !h.Healthy() {
			return nil, fmt.Errorf("predictapi: service reports status %q", h.Status)
		}
		return h, nil
	}

	return backoff.RetryNotifyWithData(op, backoff.WithContext(b, ctx), notify)
}
