// Package retry runs an operation again after transient failures, with
// exponential backoff and jitter.
package retry

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"
)

// Config configures retry behavior.
type Config struct {
	// MaxAttempts is the maximum number of attempts (including initial).
	MaxAttempts int

	// InitialBackoff is the starting backoff duration.
	InitialBackoff time.Duration

	// MaxBackoff is the maximum backoff duration.
	MaxBackoff time.Duration

	// BackoffFactor is the multiplier applied to backoff after each attempt.
	BackoffFactor float64

	// Jitter is the random jitter factor (0.0-1.0).
	Jitter float64

	// Retryable reports whether err is worth another attempt.
	// Nil treats every error as retryable.
	Retryable func(error) bool
}

// Default is the standard retry configuration.
var Default = Config{
	MaxAttempts:    3,
	InitialBackoff: 100 * time.Millisecond,
	MaxBackoff:     2 * time.Second,
	BackoffFactor:  2.0,
	Jitter:         0.1,
}

// None disables retries.
var None = Config{
	MaxAttempts: 1,
}

// Result describes how a retried operation ended.
type Result struct {
	// Err is the final error, or nil on success.
	Err error

	// Attempts is the number of attempts made.
	Attempts int

	// Duration is the total time spent, backoff included.
	Duration time.Duration
}

// Error is the final failure of a retried operation.
type Error struct {
	Err      error
	Attempts int
	Reason   string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s after %d attempt(s): %v", e.Reason, e.Attempts, e.Err)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Do calls fn until it succeeds, returns a non-retryable error, runs out of
// attempts, or ctx is done.
func Do(ctx context.Context, cfg Config, fn func(context.Context) error) Result {
	start := time.Now()
	backoff := cfg.InitialBackoff
	attempts := max(cfg.MaxAttempts, 1)

	retryable := cfg.Retryable
	if retryable == nil {
		retryable = func(error) bool { return true }
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return Result{
				Err:      &Error{Err: err, Attempts: attempt, Reason: "cancelled"},
				Attempts: attempt,
				Duration: time.Since(start),
			}
		}

		err := fn(ctx)
		if err == nil {
			return Result{Attempts: attempt + 1, Duration: time.Since(start)}
		}
		lastErr = err

		if !retryable(err) {
			return Result{
				Err:      &Error{Err: err, Attempts: attempt + 1, Reason: "permanent failure"},
				Attempts: attempt + 1,
				Duration: time.Since(start),
			}
		}

		// Don't sleep after the last attempt
		if attempt < attempts-1 {
			timer := time.NewTimer(jittered(backoff, cfg.Jitter))
			select {
			case <-ctx.Done():
				timer.Stop()
				return Result{
					Err:      &Error{Err: ctx.Err(), Attempts: attempt + 1, Reason: "cancelled during backoff"},
					Attempts: attempt + 1,
					Duration: time.Since(start),
				}
			case <-timer.C:
			}

			backoff = time.Duration(float64(backoff) * cfg.BackoffFactor)
			if cfg.MaxBackoff > 0 && backoff > cfg.MaxBackoff {
				backoff = cfg.MaxBackoff
			}
		}
	}

	return Result{
		Err:      &Error{Err: lastErr, Attempts: attempts, Reason: "max retries exceeded"},
		Attempts: attempts,
		Duration: time.Since(start),
	}
}

// jittered returns base moved by up to base*jitter in either direction.
func jittered(base time.Duration, jitter float64) time.Duration {
	if jitter <= 0 || base <= 0 {
		return base
	}
	amount := float64(base) * jitter * (rand.Float64()*2 - 1)
	return time.Duration(float64(base) + amount)
}
