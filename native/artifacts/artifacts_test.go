package artifacts

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"veles/core/currency"
	"veles/core/state"
	"veles/core/types"
	"veles/crypto"
	"veles/native/common"
	"veles/storage"
)

var fixedTime = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func account(b byte) crypto.AccountId {
	raw := make([]byte, 20)
	raw[19] = b
	return crypto.MustNewAccountId(raw)
}

type fakeQueue struct {
	enqueued map[types.BlockNumber][]types.DocString
}

func newFakeQueue() *fakeQueue {
	return &fakeQueue{enqueued: make(map[types.BlockNumber][]types.DocString)}
}

func (q *fakeQueue) VotingEnqueue(block types.BlockNumber, doc types.DocString) error {
	q.enqueued[block] = append(q.enqueued[block], doc)
	return nil
}

func newTestEngine(t *testing.T) (*Engine, *state.Store, *fakeQueue, crypto.AccountId) {
	t.Helper()
	store := state.NewStore(storage.NewMemDB())
	system := crypto.MustNewAccountId(make([]byte, 20))
	caller := account(1)
	cur := currency.NewMemory(map[crypto.AccountId]types.Balance{
		caller: types.NewBalanceFromUint64(1_000),
	})
	cur.Credit(system, types.NewBalanceFromUint64(1_000_000))
	queue := newFakeQueue()
	return NewEngine(store, cur, queue, system, nil), store, queue, caller
}

func TestSubmitFootprintReportHappyPath(t *testing.T) {
	eng, store, queue, caller := newTestEngine(t)
	fee := types.NewBalanceFromUint64(300)

	err := eng.SubmitFootprintReport(caller, "d1", 50, fee, types.NewMoment(fixedTime), 100, 10)
	require.NoError(t, err)

	report, found, err := store.FootprintReportGet("d1")
	require.NoError(t, err)
	require.True(t, found)
	require.True(t, report.VotingActive)
	require.Equal(t, int64(50), report.CarbonBalance)
	require.Equal(t, []types.DocString{"d1"}, queue.enqueued[110])
}

func TestSubmitFootprintReportRejectsDuplicateDoc(t *testing.T) {
	eng, store, _, caller := newTestEngine(t)
	require.NoError(t, store.DocIndexClaim("d1"))
	fee := types.NewBalanceFromUint64(300)

	err := eng.SubmitFootprintReport(caller, "d1", 50, fee, types.NewMoment(fixedTime), 100, 10)
	require.ErrorIs(t, err, ErrDocumentationWasUsedPreviously)
}

func TestSubmitFootprintReportRejectsSecondActiveReport(t *testing.T) {
	eng, store, _, caller := newTestEngine(t)
	require.NoError(t, store.FootprintReportPut("d0", state.FootprintReport{CFAccount: caller, VotingActive: true}))
	fee := types.NewBalanceFromUint64(300)

	err := eng.SubmitFootprintReport(caller, "d1", 50, fee, types.NewMoment(fixedTime), 100, 10)
	require.ErrorIs(t, err, ErrCarbonFootprintReportAlreadySubmitted)
}

func TestSubmitFootprintReportRejectsNonCFAEligible(t *testing.T) {
	eng, store, _, caller := newTestEngine(t)
	require.NoError(t, store.PutTrader(caller))
	fee := types.NewBalanceFromUint64(300)

	err := eng.SubmitFootprintReport(caller, "d1", 50, fee, types.NewMoment(fixedTime), 100, 10)
	require.ErrorIs(t, err, ErrAccountIdAlreadyInUse)
}

func TestProposeProjectRejectsNonOwner(t *testing.T) {
	eng, _, _, caller := newTestEngine(t)
	fee := types.NewBalanceFromUint64(100)

	err := eng.ProposeProject(caller, "dp", 1, fee, types.NewMoment(fixedTime), 100, 10)
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestProposeProjectHappyPath(t *testing.T) {
	eng, store, queue, caller := newTestEngine(t)
	require.NoError(t, store.OwnerPut(caller, state.RoleRecord{DocumentationIPFS: "owner-doc"}))
	fee := types.NewBalanceFromUint64(100)

	err := eng.ProposeProject(caller, "dp", 1, fee, types.NewMoment(fixedTime), 100, 10)
	require.NoError(t, err)

	proposal, found, err := store.ProjectProposalGet("dp")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, caller, proposal.ProjectOwner)
	require.True(t, proposal.VotingActive)
	require.False(t, proposal.ProjectHash.IsZero())
	require.Equal(t, []types.DocString{"dp"}, queue.enqueued[110])
}

func TestProposeBatchRequiresExistingProjectOwnedByCaller(t *testing.T) {
	eng, store, _, caller := newTestEngine(t)
	require.NoError(t, store.OwnerPut(caller, state.RoleRecord{DocumentationIPFS: "owner-doc"}))
	fee := types.NewBalanceFromUint64(50)
	var projectHash crypto.Hash256

	err := eng.ProposeBatch(caller, projectHash, types.NewBalanceFromUint64(10), types.NewBalanceFromUint64(5), "db", 1, fee, types.NewMoment(fixedTime), 100, 10)
	require.ErrorIs(t, err, ErrProjectDoesntExist)

	other := account(2)
	require.NoError(t, store.ProjectPut(projectHash, state.Project{ProjectOwner: other}))
	err = eng.ProposeBatch(caller, projectHash, types.NewBalanceFromUint64(10), types.NewBalanceFromUint64(5), "db", 1, fee, types.NewMoment(fixedTime), 100, 10)
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestSubmitFootprintReportRejectsWhenRateLimited(t *testing.T) {
	eng, _, _, caller := newTestEngine(t)
	eng.WithSubmissionLimiter(common.NewSubmissionLimiter(0, 1))
	fee := types.NewBalanceFromUint64(300)

	require.NoError(t, eng.SubmitFootprintReport(caller, "d1", 50, fee, types.NewMoment(fixedTime), 100, 10))

	err := eng.SubmitFootprintReport(caller, "d2", 50, fee, types.NewMoment(fixedTime), 100, 10)
	require.ErrorIs(t, err, common.ErrSubmissionRateLimited)
}

func TestProposeBatchHappyPath(t *testing.T) {
	eng, store, queue, caller := newTestEngine(t)
	require.NoError(t, store.OwnerPut(caller, state.RoleRecord{DocumentationIPFS: "owner-doc"}))
	var projectHash crypto.Hash256
	projectHash[0] = 0x01
	require.NoError(t, store.ProjectPut(projectHash, state.Project{ProjectOwner: caller}))
	fee := types.NewBalanceFromUint64(50)

	err := eng.ProposeBatch(caller, projectHash, types.NewBalanceFromUint64(10), types.NewBalanceFromUint64(5), "db", 1, fee, types.NewMoment(fixedTime), 100, 10)
	require.NoError(t, err)

	proposal, found, err := store.BatchProposalGet("db")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, projectHash, proposal.ProjectHash)
	require.Equal(t, types.NewBalanceFromUint64(10), proposal.CreditAmount)
	require.Equal(t, []types.DocString{"db"}, queue.enqueued[110])
}
