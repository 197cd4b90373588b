package timeout

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"veles/core/currency"
	"veles/core/state"
	"veles/core/types"
	"veles/crypto"
	"veles/native/holdings"
	"veles/native/voting"
	"veles/storage"
)

func account(b byte) crypto.AccountId {
	raw := make([]byte, 20)
	raw[19] = b
	return crypto.MustNewAccountId(raw)
}

func openTestQueues(t *testing.T) *Queues {
	t.Helper()
	path := filepath.Join(t.TempDir(), "timeouts.db")
	q, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = q.Close() })
	return q
}

func TestSchedulerDrainsVotingTimeoutAndFinalizesArtifact(t *testing.T) {
	queues := openTestQueues(t)
	store := state.NewStore(storage.NewMemDB())
	system := crypto.MustNewAccountId(make([]byte, 20))
	validator := account(1)
	subject := account(2)
	cur := currency.NewMemory(map[crypto.AccountId]types.Balance{validator: types.NewBalanceFromUint64(1_000)})
	cur.Credit(system, types.NewBalanceFromUint64(1_000_000))
	require.NoError(t, store.ValidatorPut(validator, state.RoleRecord{DocumentationIPFS: "dv"}))
	require.NoError(t, store.SetVotePassRatio(state.VotePassRatio{}))
	require.NoError(t, store.SetTimeValue(state.TimeBlocksYearly, 1_000_000))

	votingEngine := voting.NewEngine(store, cur, system, nil)
	require.NoError(t, store.FootprintReportPut("d1", state.FootprintReport{CFAccount: subject, CarbonBalance: 42, VotingActive: true}))
	require.NoError(t, votingEngine.CastVote(validator, state.KindFootprintReport, "d1", true, types.NewBalanceFromUint64(100)))
	require.NoError(t, queues.VotingEnqueue(20, "d1"))

	holdingsEngine := holdings.NewEngine(store, cur, queues, nil)
	scheduler := NewScheduler(queues, store, votingEngine, holdingsEngine, nil)

	scheduler.Tick(20, types.NewMoment(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)))

	report, found, err := store.FootprintReportGet("d1")
	require.NoError(t, err)
	require.True(t, found)
	require.False(t, report.VotingActive)

	acct, found, err := store.CFAccountGet(subject)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, int64(42), acct.CarbonBalance)

	remaining, err := queues.VotingDrain(20)
	require.NoError(t, err)
	require.Empty(t, remaining)
}

func TestSchedulerDrainsSaleTimeoutAndExpiresOrder(t *testing.T) {
	queues := openTestQueues(t)
	store := state.NewStore(storage.NewMemDB())
	system := crypto.MustNewAccountId(make([]byte, 20))
	seller := account(1)
	var batchHash crypto.Hash256
	batchHash[0] = 0x01
	require.NoError(t, store.BatchPut(batchHash, state.CarbonCreditBatch{CreditAmount: types.NewBalanceFromUint64(10), Status: state.BatchActive}))
	require.NoError(t, store.ValidatorPut(seller, state.RoleRecord{}))
	require.NoError(t, store.HoldingsPut(batchHash, seller, state.HoldingsEntry{Available: types.NewBalanceFromUint64(10)}))
	require.NoError(t, store.SetTimeValue(state.TimeBlocksYearly, 1_000_000))

	cur := currency.NewMemory(nil)
	holdingsEngine := holdings.NewEngine(store, cur, queues, nil)
	saleHash, err := holdingsEngine.CreateSaleOrder(seller, batchHash, types.NewBalanceFromUint64(4), types.NewBalanceFromUint64(5), 1, types.NewMoment(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)), 15, 5)
	require.NoError(t, err)

	votingEngine := voting.NewEngine(store, cur, system, nil)
	scheduler := NewScheduler(queues, store, votingEngine, holdingsEngine, nil)

	scheduler.Tick(20, types.NewMoment(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)))

	holding, err := store.HoldingsGet(batchHash, seller)
	require.NoError(t, err)
	require.Equal(t, types.NewBalanceFromUint64(10), holding.Available)

	order, found, err := store.SaleOrderGet(saleHash)
	require.NoError(t, err)
	require.True(t, found)
	require.False(t, order.SaleActive)
}

func TestSchedulerSetsPalletBaseTimeOnFirstTick(t *testing.T) {
	queues := openTestQueues(t)
	store := state.NewStore(storage.NewMemDB())
	require.NoError(t, store.SetTimeValue(state.TimeBlocksYearly, 100))
	scheduler := NewScheduler(queues, store, noopFinalizer{}, noopExpirer{}, nil)

	scheduler.Tick(5, types.NewMoment(time.Now()))

	base, found, err := store.TimeValue(state.TimePalletBaseTime)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, types.BlockNumber(5), base)
}

type noopFinalizer struct{}

func (noopFinalizer) FinalizeArtifact(state.ArtifactKind, types.DocString, types.Moment) error {
	return nil
}

type noopExpirer struct{}

func (noopExpirer) ExpireSaleOrder(crypto.Hash256) error { return nil }
