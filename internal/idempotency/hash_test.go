package idempotency

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	AmountCents int64
	Currency    string
}

func TestRequestHash_IsStableForIdenticalInput(t *testing.T) {
	a, err := RequestHash(sampleRequest{AmountCents: 100, Currency: "USD"})
	require.NoError(t, err)
	b, err := RequestHash(sampleRequest{AmountCents: 100, Currency: "USD"})
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Len(t, a, 64)
}

func TestRequestHash_DiffersForDifferentInput(t *testing.T) {
	a, err := RequestHash(sampleRequest{AmountCents: 100, Currency: "USD"})
	require.NoError(t, err)
	b, err := RequestHash(sampleRequest{AmountCents: 200, Currency: "USD"})
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}
