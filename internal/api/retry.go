package api

import (
	"context"
	"time"

	"github.com/cwsops/liveperson-cli/internal/validation"
)

// Default retry configuration values
const (
	DefaultRetryLimit = 3
	DefaultRetryDelay = 15 * time.Millisecond
	UnlimitedRetries  = validation.UnlimitedRetry
)

// RetryConfig controls the signed-request retry loop. Delay is fixed: no
// backoff growth and no jitter.
type RetryConfig struct {
	// Limit is the number of retries after the first attempt, or
	// UnlimitedRetries.
	Limit int
	Delay time.Duration
}

// DefaultRetryConfig returns three retries 15ms apart.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{Limit: DefaultRetryLimit, Delay: DefaultRetryDelay}
}

// Validate rejects limits outside [-1, 5] and negative delays.
func (c RetryConfig) Validate() error {
	if err := validation.ValidateRetryLimit(c.Limit); err != nil {
		return err
	}
	if c.Delay < 0 {
		return &validation.ArgumentError{Field: "retry delay", Value: c.Delay, Reason: "must not be negative"}
	}
	return nil
}

// allows reports whether another retry may follow after retries have been made.
func (c RetryConfig) allows(retries int) bool {
	return c.Limit == UnlimitedRetries || retries < c.Limit
}

// sleepWithContext waits for the duration or returns early on context cancellation.
func sleepWithContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
