package pipeline

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/avast/retry-go/v4"

	"github.com/bwrigley/docoutline/internal/parser"
)

// RetryPolicy governs re-parsing after transient extraction failures.
// Only parser.ExtractionError is retried; malformed input fails once.
type RetryPolicy struct {
	Attempts uint
	Base     time.Duration
	Factor   float64
}

// IsRetryable checks if an error is worth retrying.
func IsRetryable(err error) bool {
	var extErr *parser.ExtractionError
	return errors.As(err, &extErr)
}

// Do runs fn under the policy with exponential backoff and jitter.
func (p RetryPolicy) Do(ctx context.Context, fn func() error) error {
	attempts := p.Attempts
	if attempts == 0 {
		attempts = 3
	}
	return retry.Do(fn,
		retry.Context(ctx),
		retry.Attempts(attempts),
		retry.RetryIf(IsRetryable),
		retry.LastErrorOnly(true),
		retry.DelayType(retry.CombineDelay(p.backoff, retry.RandomDelay)),
		retry.MaxJitter(p.Base/2),
	)
}

// backoff returns Base * Factor^n, capped at 30 seconds.
func (p RetryPolicy) backoff(n uint, _ error, _ *retry.Config) time.Duration {
	base := p.Base
	if base <= 0 {
		base = time.Second
	}
	factor := p.Factor
	if factor < 1 {
		factor = 2
	}
	d := time.Duration(float64(base) * math.Pow(factor, float64(n)))
	if d > 30*time.Second {
		d = 30 * time.Second
	}
	return d
}
