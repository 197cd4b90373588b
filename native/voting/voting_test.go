package voting

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"veles/core/currency"
	"veles/core/state"
	"veles/core/types"
	"veles/crypto"
	"veles/storage"
)

var fixedTime = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func account(b byte) crypto.AccountId {
	raw := make([]byte, 20)
	raw[19] = b
	return crypto.MustNewAccountId(raw)
}

func newTestEngine(t *testing.T) (*Engine, *state.Store, crypto.AccountId) {
	t.Helper()
	store := state.NewStore(storage.NewMemDB())
	system := crypto.MustNewAccountId(make([]byte, 20))
	validator := account(1)
	cur := currency.NewMemory(map[crypto.AccountId]types.Balance{
		validator: types.NewBalanceFromUint64(1_000),
	})
	cur.Credit(system, types.NewBalanceFromUint64(1_000_000))
	require.NoError(t, store.ValidatorPut(validator, state.RoleRecord{DocumentationIPFS: "dv"}))
	return NewEngine(store, cur, system, nil), store, validator
}

func TestVotePassedZeroUpperLimitIsStrictMajority(t *testing.T) {
	ratio := state.VotePassRatio{ProportionPart: 0, UpperLimitPart: 0}
	require.True(t, VotePassed(ratio, 3, 2))
	require.False(t, VotePassed(ratio, 4, 2))
	require.True(t, VotePassed(ratio, 1, 1))
}

func TestVotePassedUnanimousWhenProportionEqualsUpperLimit(t *testing.T) {
	ratio := state.VotePassRatio{ProportionPart: 5, UpperLimitPart: 5}
	require.True(t, VotePassed(ratio, 4, 4))
	require.False(t, VotePassed(ratio, 4, 3))
}

func TestVotePassedFractionalFloor(t *testing.T) {
	ratio := state.VotePassRatio{ProportionPart: 2, UpperLimitPart: 3}
	// floor(2*10/3) = 6
	require.True(t, VotePassed(ratio, 10, 6))
	require.False(t, VotePassed(ratio, 10, 5))
}

func TestCastVoteRejectsNonValidator(t *testing.T) {
	eng, store, _ := newTestEngine(t)
	require.NoError(t, store.FootprintReportPut("d1", state.FootprintReport{VotingActive: true}))
	notValidator := account(9)
	err := eng.CastVote(notValidator, state.KindFootprintReport, "d1", true, types.NewBalanceFromUint64(100))
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestCastVoteRejectsDoubleVote(t *testing.T) {
	eng, store, validator := newTestEngine(t)
	require.NoError(t, store.FootprintReportPut("d1", state.FootprintReport{VotingActive: true}))

	fee := types.NewBalanceFromUint64(100)
	require.NoError(t, eng.CastVote(validator, state.KindFootprintReport, "d1", true, fee))
	err := eng.CastVote(validator, state.KindFootprintReport, "d1", true, fee)
	require.ErrorIs(t, err, ErrVoteAlreadySubmitted)
}

func TestCastVoteRejectsClosedCycle(t *testing.T) {
	eng, store, validator := newTestEngine(t)
	require.NoError(t, store.FootprintReportPut("d1", state.FootprintReport{VotingActive: false}))
	err := eng.CastVote(validator, state.KindFootprintReport, "d1", true, types.NewBalanceFromUint64(100))
	require.ErrorIs(t, err, ErrVotingCycleIsOver)
}

func TestFinalizeFootprintReportCreatesCFAccount(t *testing.T) {
	eng, store, validator := newTestEngine(t)
	subject := account(2)
	require.NoError(t, store.FootprintReportPut("d2", state.FootprintReport{
		CFAccount:     subject,
		CarbonBalance: 100,
		VotingActive:  true,
	}))
	require.NoError(t, store.SetVotePassRatio(state.VotePassRatio{}))

	fee := types.NewBalanceFromUint64(100)
	require.NoError(t, eng.CastVote(validator, state.KindFootprintReport, "d2", true, fee))

	require.NoError(t, eng.FinalizeArtifact(state.KindFootprintReport, "d2", types.NewMoment(fixedTime)))

	acct, found, err := store.CFAccountGet(subject)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, int64(100), acct.CarbonBalance)
	require.Equal(t, []types.DocString{"d2"}, acct.DocumentationSet)

	report, found, err := store.FootprintReportGet("d2")
	require.NoError(t, err)
	require.True(t, found)
	require.False(t, report.VotingActive)
}

func TestFinalizeBatchProposalCreatesBatchAndHoldings(t *testing.T) {
	eng, store, validator := newTestEngine(t)
	owner := account(3)
	var projectHash, batchHash crypto.Hash256
	projectHash[0] = 0xAA
	batchHash[0] = 0xBB

	require.NoError(t, store.ProjectPut(projectHash, state.Project{ProjectOwner: owner}))
	require.NoError(t, store.BatchProposalPut("db", state.BatchProposal{
		ProjectHash:        projectHash,
		BatchHash:          batchHash,
		CreditAmount:       types.NewBalanceFromUint64(10),
		InitialCreditPrice: types.NewBalanceFromUint64(5),
		VotingActive:       true,
	}))
	require.NoError(t, store.SetVotePassRatio(state.VotePassRatio{}))

	fee := types.NewBalanceFromUint64(100)
	require.NoError(t, eng.CastVote(validator, state.KindBatchProposal, "db", true, fee))
	require.NoError(t, eng.FinalizeArtifact(state.KindBatchProposal, "db", types.NewMoment(fixedTime)))

	batch, found, err := store.BatchGet(batchHash)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, state.BatchActive, batch.Status)

	holding, err := store.HoldingsGet(batchHash, owner)
	require.NoError(t, err)
	require.Equal(t, types.NewBalanceFromUint64(10), holding.Available)
	require.True(t, holding.Reserved.IsZero())
}
