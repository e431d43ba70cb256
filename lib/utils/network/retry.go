package network

import (
	"time"

	"profileupdater/lib/utils/retry"
)

// TransientNetworkErrorRetryConfig retries transient network errors
// such as timeout, connection errors, rate limits, and server errors (5xx).
// This sits beneath the queue-level retry budget: a job that still fails after
// these in-process attempts is redelivered by the broker.
func TransientNetworkErrorRetryConfig() retry.RetryConfig {
	return retry.RetryConfig{
		MaxAttempts:  3,
		InitialDelay: 50 * time.Millisecond,
		MaxDelay:     5 * time.Second,
		Multiplier:   2.0,
		Jitter:       0.1, // 10% jitter
		OnRetry:      nil,
		ShouldRetry:  ShouldRetry,
	}
}
