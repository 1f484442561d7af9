// Package retry calls a function again when it fails with an error the caller considers transient.
package retry

import (
	"context"
	"log/slog"
	"time"

	"github.com/myrjola/avalanchemystery/internal/errors"
)

// Policy describes how many times to attempt a call and how long to wait in between.
type Policy struct {
	// MaxAttempts is the total number of attempts including the first one.
	MaxAttempts int
	// BaseDelay is the wait after the first failed attempt.
	BaseDelay time.Duration
	// Multiplier grows the delay between consecutive attempts.
	Multiplier float64
	// Retryable reports whether err is worth another attempt. A nil Retryable retries nothing.
	Retryable func(err error) bool
	// Sleep waits for d or until ctx is done. Defaults to a timer based sleep.
	Sleep func(ctx context.Context, d time.Duration) error
	// Logger receives a warning per retried attempt. Optional.
	Logger *slog.Logger
}

// Backoff returns a policy of four attempts waiting 500ms, 1s and 2s in between.
func Backoff(retryable func(error) bool) Policy {
	return Policy{
		MaxAttempts: 4,                      //nolint:mnd // attempts in total
		BaseDelay:   500 * time.Millisecond, //nolint:mnd // doubles on each attempt
		Multiplier:  2,                      //nolint:mnd // exponential
		Retryable:   retryable,
		Sleep:       nil,
		Logger:      nil,
	}
}

// Delay returns the wait before attempt number attempt+1, where attempt starts from 1.
func (p Policy) Delay(attempt int) time.Duration {
	d := float64(p.BaseDelay)
	for range attempt - 1 {
		d *= p.Multiplier
	}
	return time.Duration(d)
}

// Do calls fn until it succeeds, fails with a non-retryable error or the policy runs out of attempts. The last error
// is returned unchanged so callers can inspect it with errors.Is and errors.As.
func Do[T any](ctx context.Context, p Policy, fn func(ctx context.Context) (T, error)) (T, error) {
	var (
		result  T
		lastErr error
		sleep   = p.Sleep
	)
	if sleep == nil {
		sleep = timerSleep
	}
	attempts := max(p.MaxAttempts, 1)

	for attempt := 1; attempt <= attempts; attempt++ {
		if result, lastErr = fn(ctx); lastErr == nil {
			return result, nil
		}
		if p.Retryable == nil || !p.Retryable(lastErr) || attempt == attempts {
			break
		}

		delay := p.Delay(attempt)
		if p.Logger != nil {
			p.Logger.LogAttrs(ctx, slog.LevelWarn, "retrying after transient failure",
				slog.Int("attempt", attempt),
				slog.Duration("delay", delay),
				errors.SlogError(lastErr),
			)
		}
		if err := sleep(ctx, delay); err != nil {
			return result, errors.Join(lastErr, err)
		}
	}

	return result, lastErr
}

func timerSleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err() //nolint:wrapcheck // context errors are returned as is
	case <-timer.C:
		return nil
	}
}
