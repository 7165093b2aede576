package saga

import (
	"math"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// RetryPolicy implements the Retry Policy Engine (C10): exponential
// backoff with a max-attempts bound, per spec.md §4.4's decision
// table. NextDelay reproduces base_delay_ms * backoff_multiplier^(k-1)
// deterministically via backoff.ExponentialBackOff with
// RandomizationFactor 0 — the library supplies the curve primitive,
// this type supplies the domain decision (retry vs. compensate).
type RetryPolicy struct {
	MaxAttempts       int
	BaseDelay         time.Duration
	BackoffMultiplier float64

	// maxInterval bounds backoff.ExponentialBackOff above the largest
	// delay MaxAttempts can ever reach, so the curve never hits the
	// library's 60s default cap and silently deviates from the exact
	// base_delay * multiplier^(attempt-1) formula.
	maxInterval time.Duration
}

func NewRetryPolicy(maxAttempts int, baseDelay time.Duration, backoffMultiplier float64) RetryPolicy {
	largestExponent := 0
	if maxAttempts > 1 {
		largestExponent = maxAttempts - 1
	}
	maxInterval := time.Duration(float64(baseDelay) * math.Pow(backoffMultiplier, float64(largestExponent)))

	return RetryPolicy{
		MaxAttempts:       maxAttempts,
		BaseDelay:         baseDelay,
		BackoffMultiplier: backoffMultiplier,
		maxInterval:       maxInterval,
	}
}

// Decision is the outcome of applying the policy to a failed step.
type Decision int

const (
	DecisionRetry Decision = iota
	DecisionCompensate
)

// Decide applies spec.md §4.4's table: a retryable error schedules a
// retry while attempts remain, otherwise (retryable-but-exhausted, or
// non-retryable) compensation runs.
func (p RetryPolicy) Decide(isRetryable bool, attemptNumber int) Decision {
	if isRetryable && attemptNumber < p.MaxAttempts {
		return DecisionRetry
	}
	return DecisionCompensate
}

// NextDelay computes the exponential backoff delay for the given
// 1-indexed attempt number, i.e. NextDelay(1) is the delay before the
// second attempt.
func (p RetryPolicy) NextDelay(attemptNumber int) time.Duration {
	b := &backoff.ExponentialBackOff{
		InitialInterval:     p.BaseDelay,
		RandomizationFactor: 0,
		Multiplier:          p.BackoffMultiplier,
		MaxInterval:         p.maxInterval,
		MaxElapsedTime:      0,
		Stop:                backoff.Stop,
		Clock:               backoff.SystemClock,
	}
	b.Reset()

	var delay time.Duration
	for i := 0; i < attemptNumber; i++ {
		delay = b.NextBackOff()
	}
	return delay
}

// NextRetryAt returns the absolute time the next attempt is due.
func (p RetryPolicy) NextRetryAt(attemptNumber int) time.Time {
	return time.Now().Add(p.NextDelay(attemptNumber))
}
