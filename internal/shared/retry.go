// ============================================================================
// internal/shared/retry.go
// Bounded retry policy for transient store failures
// ============================================================================

package shared

import (
	"context"
	"log"
	"time"
)

// RetryPolicy retries an operation a bounded number of times with a fixed
// delay between attempts. Each call site carries its own policy: the roster
// read uses 4 attempts, the login lookup 3 attempts with a 2s delay.
//
// Only transient failures are retried; validation, credential, and not-found
// errors return immediately. Waits honor context cancellation instead of
// blocking the goroutine unconditionally.
type RetryPolicy struct {
	MaxAttempts int
	Delay       time.Duration
}

// Do runs fn until it succeeds, fails with a non-transient error, exhausts
// MaxAttempts, or the context is cancelled. The last error is returned on
// exhaustion.
func (p RetryPolicy) Do(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		err = fn(ctx)
		if err == nil || !IsTransient(err) {
			return err
		}

		if attempt == attempts {
			break
		}

		log.Printf("WARN: %s attempt %d/%d failed, retrying in %v: %v", op, attempt, attempts, p.Delay, err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(p.Delay):
		}
	}

	log.Printf("ERROR: %s failed after %d attempts: %v", op, attempts, err)
	return err
}
