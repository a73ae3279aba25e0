package application

import (
	"context"
	"time"
)

// Backoff growth is capped so a long retry budget never produces multi-minute
// stalls at the counter.
const maxBackoff = 16 * time.Second

// ExecuteWithRetry runs op up to maxRetries+1 times. Each failure is
// classified; non-retryable failures are returned immediately without
// consuming the retry budget, retryable ones wait baseDelay << attempt
// (capped) before the next try. The error returned is always the classified
// *ErrorRecord for the final failure. Cancellation during a backoff wait
// stops the loop at once.
//
// The executor retries whatever it is given. Write operations must carry an
// idempotency key established before the first attempt so a retry after a
// server-side partial success cannot duplicate the write.
func ExecuteWithRetry[T any](ctx context.Context, op func(context.Context) (T, error), maxRetries int, baseDelay time.Duration) (T, error) {
	var zero T
	var lastRec *ErrorRecord

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, Classify(err)
		}

		result, err := op(ctx)
		if err == nil {
			return result, nil
		}

		rec := Classify(err)
		lastRec = rec

		if !rec.Retryable {
			return zero, rec
		}

		if attempt == maxRetries {
			break
		}

		timer := time.NewTimer(backoffDelay(baseDelay, attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, Classify(ctx.Err())
		case <-timer.C:
		}
	}

	return zero, lastRec
}

func backoffDelay(base time.Duration, attempt int) time.Duration {
	if base <= 0 {
		return 0
	}
	if attempt > 30 {
		return maxBackoff
	}
	delay := base << attempt
	if delay > maxBackoff || delay <= 0 {
		return maxBackoff
	}
	return delay
}
