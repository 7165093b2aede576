package saga

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRetryPolicy_Decide(t *testing.T) {
	p := NewRetryPolicy(3, 100*time.Millisecond, 2)

	assert.Equal(t, DecisionRetry, p.Decide(true, 1))
	assert.Equal(t, DecisionRetry, p.Decide(true, 2))
	assert.Equal(t, DecisionCompensate, p.Decide(true, 3))
	assert.Equal(t, DecisionCompensate, p.Decide(false, 1))
}

func TestRetryPolicy_NextDelay_FollowsExponentialCurve(t *testing.T) {
	p := NewRetryPolicy(5, 100*time.Millisecond, 2)

	assert.Equal(t, 100*time.Millisecond, p.NextDelay(1))
	assert.Equal(t, 200*time.Millisecond, p.NextDelay(2))
	assert.Equal(t, 400*time.Millisecond, p.NextDelay(3))
	assert.Equal(t, 800*time.Millisecond, p.NextDelay(4))
}

func TestRetryPolicy_NextRetryAt_IsInTheFuture(t *testing.T) {
	p := NewRetryPolicy(5, 50*time.Millisecond, 2)
	before := time.Now()

	at := p.NextRetryAt(1)

	assert.True(t, at.After(before))
}
