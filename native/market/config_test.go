package market

import (
	"testing"

	"github.com/stretchr/testify/require"

	"veles/core/state"
	"veles/core/types"
	"veles/crypto"
	"veles/storage"
)

func newTestEngine(t *testing.T) (*Engine, *state.Store, crypto.AccountId) {
	t.Helper()
	db := storage.NewMemDB()
	store := state.NewStore(db)
	authority := crypto.MustNewAccountId(make([]byte, 20))
	require.NoError(t, store.PutAuthority(authority))
	return NewEngine(store, nil), store, authority
}

func TestUpdateFeeValueRejectsUnauthorizedCaller(t *testing.T) {
	eng, _, _ := newTestEngine(t)
	stranger := crypto.MustNewAccountId(bytesOf(1))
	err := eng.UpdateFeeValue(stranger, state.FeeVoting, types.NewBalanceFromUint64(200))
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestUpdateFeeValueRejectsEqualWrite(t *testing.T) {
	eng, _, authority := newTestEngine(t)
	require.NoError(t, eng.UpdateFeeValue(authority, state.FeeVoting, types.NewBalanceFromUint64(200)))
	err := eng.UpdateFeeValue(authority, state.FeeVoting, types.NewBalanceFromUint64(200))
	require.ErrorIs(t, err, ErrUpdatingToCurrentValue)
}

func TestUpdateTimeValueRejectsPalletBaseTime(t *testing.T) {
	eng, _, authority := newTestEngine(t)
	err := eng.UpdateTimeValue(authority, state.TimePalletBaseTime, 10)
	require.ErrorIs(t, err, ErrUnableToChangePalletBaseTime)
}

func TestUpdateTimeValueRejectsZero(t *testing.T) {
	eng, _, authority := newTestEngine(t)
	err := eng.UpdateTimeValue(authority, state.TimeVotingTimeout, 0)
	require.ErrorIs(t, err, ErrInvalidTimeoutValue)
}

func TestUpdateVotePassRatioNormalizes(t *testing.T) {
	eng, store, authority := newTestEngine(t)
	require.NoError(t, eng.UpdateVotePassRatio(authority, 9, 5))
	r, err := store.VotePassRatioValue()
	require.NoError(t, err)
	require.Equal(t, uint64(5), r.ProportionPart)
	require.Equal(t, uint64(5), r.UpperLimitPart)
}

func bytesOf(b byte) []byte {
	out := make([]byte, 20)
	out[19] = b
	return out
}
