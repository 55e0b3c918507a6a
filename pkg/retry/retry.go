package retry

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Config holds retry configuration
type Config struct {
	MaxAttempts     int
	InitialDelay    time.Duration
	MaxDelay        time.Duration
	BackoffFactor   float64
	MaxTotalTimeout time.Duration
}

// DefaultConfig returns a default retry configuration with 1 minute max timeout
func DefaultConfig() Config {
	return Config{
		MaxAttempts:     10,
		InitialDelay:    100 * time.Millisecond,
		MaxDelay:        10 * time.Second,
		BackoffFactor:   2.0,
		MaxTotalTimeout: 60 * time.Second,
	}
}

func (c Config) policy(ctx context.Context) backoff.BackOff {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = c.InitialDelay
	exp.MaxInterval = c.MaxDelay
	exp.Multiplier = c.BackoffFactor
	exp.RandomizationFactor = 0
	exp.MaxElapsedTime = c.MaxTotalTimeout

	var b backoff.BackOff = exp
	if c.MaxAttempts > 0 {
		b = backoff.WithMaxRetries(b, uint64(c.MaxAttempts-1))
	}
	return backoff.WithContext(b, ctx)
}

// Do executes fn with exponential backoff until it succeeds or the policy gives up.
func Do(ctx context.Context, cfg Config, fn func() error) error {
	return DoWithLog(ctx, cfg, "operation", fn, nil)
}

// DoWithLog executes the function with retry and reports each failed attempt to logFn
func DoWithLog(ctx context.Context, cfg Config, serviceName string, fn func() error, logFn func(attempt int, err error, nextDelay time.Duration)) error {
	attempt := 0
	notify := func(err error, next time.Duration) {
		if logFn != nil {
			logFn(attempt, err, next)
		}
	}

	err := backoff.RetryNotify(func() error {
		attempt++
		return fn()
	}, cfg.policy(ctx), notify)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("%s: retry aborted after %d attempts: %w (last error: %v)", serviceName, attempt, ctxErr, err)
		}
		return fmt.Errorf("%s: gave up after %d attempts: %w", serviceName, attempt, err)
	}
	return nil
}
