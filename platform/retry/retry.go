// Package retry provides the bounded retry policy used for calls to external
// collaborators (UPC lookup, LLM). Delays grow exponentially from BaseDelay,
// are capped at MaxDelay and carry a jitter of JitterPercent.
package retry

import (
	"context"
	"errors"
	"net"
	"time"

	"simplyskin/platform/config"
	"simplyskin/platform/logger"

	goretry "github.com/sethvargo/go-retry"
)

// Policy configures retry behavior.
type Policy struct {
	MaxAttempts   int           // Total attempts including the first one
	BaseDelay     time.Duration // Delay before the first retry
	MaxDelay      time.Duration // Upper bound for a single delay
	JitterPercent uint64        // +/- percentage applied to every delay

	// Retryable decides whether an error is transient. Defaults to IsTransient.
	Retryable func(error) bool
}

// DefaultPolicy returns 3 attempts, 250ms base, 2s cap, 20% jitter.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts:   3,
		BaseDelay:     250 * time.Millisecond,
		MaxDelay:      2 * time.Second,
		JitterPercent: 20,
	}
}

// FromConfig builds a policy from configuration.
func FromConfig(cfg config.RetryConfig) Policy {
	jitter := cfg.GetRetryJitterPercent()
	if jitter < 0 {
		jitter = 0
	}
	return Policy{
		MaxAttempts:   cfg.GetRetryMaxAttempts(),
		BaseDelay:     cfg.GetRetryBaseDelay(),
		MaxDelay:      cfg.GetRetryMaxDelay(),
		JitterPercent: uint64(jitter),
	}
}

// NoRetry is a single-attempt policy.
func NoRetry() Policy {
	return Policy{MaxAttempts: 1, BaseDelay: time.Millisecond, MaxDelay: time.Millisecond}
}

func (p Policy) backoff() goretry.Backoff {
	base := p.BaseDelay
	if base <= 0 {
		base = time.Millisecond
	}
	b := goretry.NewExponential(base)
	if p.MaxDelay > 0 {
		b = goretry.WithCappedDuration(p.MaxDelay, b)
	}
	if p.JitterPercent > 0 {
		b = goretry.WithJitterPercent(p.JitterPercent, b)
	}
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	return goretry.WithMaxRetries(uint64(attempts-1), b)
}

// Do runs fn until it succeeds, returns a non-transient error, the attempts are
// exhausted or ctx is done. The last error from fn is returned unwrapped.
func (p Policy) Do(ctx context.Context, log *logger.Logger, operation string, fn func(ctx context.Context) error) error {
	retryable := p.Retryable
	if retryable == nil {
		retryable = IsTransient
	}

	attempt := 0
	return goretry.Do(ctx, p.backoff(), func(ctx context.Context) error {
		attempt++
		err := fn(ctx)
		if err == nil {
			return nil
		}
		if ctx.Err() != nil || !retryable(err) {
			return err
		}
		if log != nil && attempt < p.MaxAttempts {
			log.WithContext(ctx).Warn("retryable operation failed", "operation", operation, "attempt", attempt, "error", err)
		}
		return goretry.RetryableError(err)
	})
}

// Transient is implemented by errors that know whether a retry may succeed.
type Transient interface {
	Transient() bool
}

// IsTransient reports whether err looks like a temporary upstream failure:
// an error that says so, or a network error (client timeouts included).
// Cancellation never is.
func IsTransient(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	var t Transient
	if errors.As(err, &t) {
		return t.Transient()
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
