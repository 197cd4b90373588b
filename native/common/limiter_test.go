package common

import (
	"testing"

	"github.com/stretchr/testify/require"

	"veles/crypto"
)

func account(b byte) crypto.AccountId {
	raw := make([]byte, 20)
	raw[19] = b
	return crypto.MustNewAccountId(raw)
}

func TestSubmissionLimiterAllowsUpToBurst(t *testing.T) {
	limiter := NewSubmissionLimiter(0, 2)
	caller := account(1)

	require.NoError(t, limiter.Allow(caller))
	require.NoError(t, limiter.Allow(caller))
	require.ErrorIs(t, limiter.Allow(caller), ErrSubmissionRateLimited)
}

func TestSubmissionLimiterTracksAccountsIndependently(t *testing.T) {
	limiter := NewSubmissionLimiter(0, 1)
	first := account(1)
	second := account(2)

	require.NoError(t, limiter.Allow(first))
	require.ErrorIs(t, limiter.Allow(first), ErrSubmissionRateLimited)
	require.NoError(t, limiter.Allow(second))
}

func TestNilSubmissionLimiterAllowsEverything(t *testing.T) {
	var limiter *SubmissionLimiter
	require.NoError(t, limiter.Allow(account(1)))
}
