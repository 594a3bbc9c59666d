package compare

import (
	"context"
	"time"

	"github.com/fwojciec/visreg"
)

// CaptureFunc is the signature for a capture function.
type CaptureFunc func(ctx context.Context, url string) ([]byte, error)

// LogFunc is the signature for a logging function.
type LogFunc func(format string, args ...any)

// DefaultRetryDelays returns the backoff delays between capture
// attempts: a single 2s delay, i.e. 2 total attempts.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{2 * time.Second}
}

// RetryDelays builds a delay schedule for the given total attempt count,
// with a fixed 2s backoff between attempts. attempts < 1 is treated as 1.
func RetryDelays(attempts int) []time.Duration {
	if attempts < 1 {
		attempts = 1
	}
	delays := make([]time.Duration, attempts-1)
	for i := range delays {
		delays[i] = 2 * time.Second
	}
	return delays
}

// CaptureWithRetry attempts a capture with the default retry schedule.
// The logger function, if provided, is called for each retry attempt.
func CaptureWithRetry(ctx context.Context, url string, capture CaptureFunc, logger LogFunc) ([]byte, error) {
	return CaptureWithRetryDelays(ctx, url, capture, logger, DefaultRetryDelays())
}

// CaptureWithRetryDelays is like CaptureWithRetry but allows configurable
// delays. This is useful for testing without waiting for real delays.
//
// Only automation-layer failures (code EUNAVAILABLE) are retried; any
// other error fails immediately. Exhausting the schedule returns the
// last error.
func CaptureWithRetryDelays(ctx context.Context, url string, capture CaptureFunc, logger LogFunc, delays []time.Duration) ([]byte, error) {
	maxAttempts := len(delays) + 1 // 1 initial + N retries

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		data, err := capture(ctx, url)
		if err == nil {
			return data, nil
		}
		lastErr = err

		// Only transient automation errors are worth retrying.
		if visreg.ErrorCode(err) != visreg.EUNAVAILABLE {
			break
		}

		// Don't retry after the last attempt
		if attempt >= maxAttempts-1 {
			break
		}

		if logger != nil {
			logger("retry %s (attempt %d): %v", url, attempt+2, err)
		}

		// Wait before next attempt
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delays[attempt]):
		}
	}

	return nil, lastErr
}
