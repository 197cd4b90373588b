package holdings

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

type fakeQueue struct {
	enqueued map[types.BlockNumber][]crypto.Hash256
	removed  map[types.BlockNumber][]crypto.Hash256
}

func newFakeQueue() *fakeQueue {
	return &fakeQueue{
		enqueued: make(map[types.BlockNumber][]crypto.Hash256),
		removed:  make(map[types.BlockNumber][]crypto.Hash256),
	}
}

func (q *fakeQueue) SaleEnqueue(block types.BlockNumber, hash crypto.Hash256) error {
	q.enqueued[block] = append(q.enqueued[block], hash)
	return nil
}

func (q *fakeQueue) SaleRemove(block types.BlockNumber, hash crypto.Hash256) error {
	q.removed[block] = append(q.removed[block], hash)
	return nil
}

func newTestEngine(t *testing.T) (*Engine, *state.Store, *fakeQueue, currency.Source) {
	t.Helper()
	store := state.NewStore(storage.NewMemDB())
	cur := currency.NewMemory(nil)
	queue := newFakeQueue()
	return NewEngine(store, cur, queue, nil), store, queue, cur
}

func seedActiveBatch(t *testing.T, store *state.Store, batchHash crypto.Hash256) {
	t.Helper()
	require.NoError(t, store.BatchPut(batchHash, state.CarbonCreditBatch{
		CreditAmount: types.NewBalanceFromUint64(10),
		Status:       state.BatchActive,
	}))
}

func TestCreateSaleOrderHappyPath(t *testing.T) {
	eng, store, queue, _ := newTestEngine(t)
	seller := account(1)
	var batchHash crypto.Hash256
	batchHash[0] = 0x01
	seedActiveBatch(t, store, batchHash)
	require.NoError(t, store.ValidatorPut(seller, state.RoleRecord{}))
	require.NoError(t, store.HoldingsPut(batchHash, seller, state.HoldingsEntry{Available: types.NewBalanceFromUint64(10)}))

	saleHash, err := eng.CreateSaleOrder(seller, batchHash, types.NewBalanceFromUint64(4), types.NewBalanceFromUint64(5), 1, types.NewMoment(fixedTime), 100, 10)
	require.NoError(t, err)

	holding, err := store.HoldingsGet(batchHash, seller)
	require.NoError(t, err)
	require.Equal(t, types.NewBalanceFromUint64(6), holding.Available)
	require.Equal(t, types.NewBalanceFromUint64(4), holding.Reserved)

	order, found, err := store.SaleOrderGet(saleHash)
	require.NoError(t, err)
	require.True(t, found)
	require.True(t, order.SaleActive)
	require.Equal(t, seller, order.Buyer)
	require.Equal(t, []crypto.Hash256{saleHash}, queue.enqueued[110])
}

func TestCreateSaleOrderRejectsInsufficientAvailable(t *testing.T) {
	eng, store, _, _ := newTestEngine(t)
	seller := account(1)
	var batchHash crypto.Hash256
	batchHash[0] = 0x01
	seedActiveBatch(t, store, batchHash)
	require.NoError(t, store.ValidatorPut(seller, state.RoleRecord{}))
	require.NoError(t, store.HoldingsPut(batchHash, seller, state.HoldingsEntry{Available: types.NewBalanceFromUint64(2)}))

	_, err := eng.CreateSaleOrder(seller, batchHash, types.NewBalanceFromUint64(4), types.NewBalanceFromUint64(5), 1, types.NewMoment(fixedTime), 100, 10)
	require.ErrorIs(t, err, ErrNotEnoughAvailableCredits)
}

func TestCompleteSaleOrderMovesCreditsAndPayment(t *testing.T) {
	eng, store, _, cur := newTestEngine(t)
	seller := account(1)
	buyer := account(2)
	var batchHash crypto.Hash256
	batchHash[0] = 0x01
	seedActiveBatch(t, store, batchHash)
	require.NoError(t, store.ValidatorPut(seller, state.RoleRecord{}))
	require.NoError(t, store.OwnerPut(buyer, state.RoleRecord{}))
	require.NoError(t, store.HoldingsPut(batchHash, seller, state.HoldingsEntry{Available: types.NewBalanceFromUint64(10)}))
	cur.(*currency.Memory).Credit(buyer, types.NewBalanceFromUint64(1_000))
	cur.(*currency.Memory).Credit(seller, types.NewBalanceFromUint64(1_000))

	saleHash, err := eng.CreateSaleOrder(seller, batchHash, types.NewBalanceFromUint64(4), types.NewBalanceFromUint64(5), 1, types.NewMoment(fixedTime), 100, 10)
	require.NoError(t, err)

	require.NoError(t, eng.CompleteSaleOrder(buyer, saleHash))

	sellerHolding, err := store.HoldingsGet(batchHash, seller)
	require.NoError(t, err)
	require.Equal(t, types.NewBalanceFromUint64(6), sellerHolding.Available)
	require.True(t, sellerHolding.Reserved.IsZero())

	buyerHolding, err := store.HoldingsGet(batchHash, buyer)
	require.NoError(t, err)
	require.Equal(t, types.NewBalanceFromUint64(4), buyerHolding.Available)

	order, found, err := store.SaleOrderGet(saleHash)
	require.NoError(t, err)
	require.True(t, found)
	require.False(t, order.SaleActive)
	require.Equal(t, buyer, order.Buyer)

	// Payment is 4 credits x price 5 = 20, moved seller -> buyer.
	sellerBalance, err := cur.FreeBalance(seller)
	require.NoError(t, err)
	require.Equal(t, types.NewBalanceFromUint64(980), sellerBalance)
	buyerBalance, err := cur.FreeBalance(buyer)
	require.NoError(t, err)
	require.Equal(t, types.NewBalanceFromUint64(1_020), buyerBalance)
}

func TestCompleteSaleOrderRejectsSelfBuy(t *testing.T) {
	eng, store, _, _ := newTestEngine(t)
	seller := account(1)
	var batchHash crypto.Hash256
	batchHash[0] = 0x01
	seedActiveBatch(t, store, batchHash)
	require.NoError(t, store.ValidatorPut(seller, state.RoleRecord{}))
	require.NoError(t, store.HoldingsPut(batchHash, seller, state.HoldingsEntry{Available: types.NewBalanceFromUint64(10)}))

	saleHash, err := eng.CreateSaleOrder(seller, batchHash, types.NewBalanceFromUint64(4), types.NewBalanceFromUint64(5), 1, types.NewMoment(fixedTime), 100, 10)
	require.NoError(t, err)

	err = eng.CompleteSaleOrder(seller, saleHash)
	require.ErrorIs(t, err, ErrBuyerCantBuyHisOwnTokens)
}

func TestCloseSaleOrderRestoresHoldingsUnchanged(t *testing.T) {
	eng, store, _, _ := newTestEngine(t)
	seller := account(1)
	var batchHash crypto.Hash256
	batchHash[0] = 0x01
	seedActiveBatch(t, store, batchHash)
	require.NoError(t, store.ValidatorPut(seller, state.RoleRecord{}))
	require.NoError(t, store.HoldingsPut(batchHash, seller, state.HoldingsEntry{Available: types.NewBalanceFromUint64(10)}))

	saleHash, err := eng.CreateSaleOrder(seller, batchHash, types.NewBalanceFromUint64(4), types.NewBalanceFromUint64(5), 1, types.NewMoment(fixedTime), 100, 10)
	require.NoError(t, err)

	require.NoError(t, eng.CloseSaleOrder(seller, saleHash))

	holding, err := store.HoldingsGet(batchHash, seller)
	require.NoError(t, err)
	require.Equal(t, types.NewBalanceFromUint64(10), holding.Available)
	require.True(t, holding.Reserved.IsZero())

	order, found, err := store.SaleOrderGet(saleHash)
	require.NoError(t, err)
	require.True(t, found)
	require.False(t, order.SaleActive)
	require.Equal(t, seller, order.Buyer)
}

func TestCloseSaleOrderRejectsNonCreator(t *testing.T) {
	eng, store, _, _ := newTestEngine(t)
	seller := account(1)
	other := account(2)
	var batchHash crypto.Hash256
	batchHash[0] = 0x01
	seedActiveBatch(t, store, batchHash)
	require.NoError(t, store.ValidatorPut(seller, state.RoleRecord{}))
	require.NoError(t, store.ValidatorPut(other, state.RoleRecord{}))
	require.NoError(t, store.HoldingsPut(batchHash, seller, state.HoldingsEntry{Available: types.NewBalanceFromUint64(10)}))

	saleHash, err := eng.CreateSaleOrder(seller, batchHash, types.NewBalanceFromUint64(4), types.NewBalanceFromUint64(5), 1, types.NewMoment(fixedTime), 100, 10)
	require.NoError(t, err)

	err = eng.CloseSaleOrder(other, saleHash)
	require.ErrorIs(t, err, ErrUserDidntCreateTheSellOrder)
}

func TestExpireSaleOrderRestoresSellerAvailable(t *testing.T) {
	eng, store, _, _ := newTestEngine(t)
	seller := account(1)
	var batchHash crypto.Hash256
	batchHash[0] = 0x01
	seedActiveBatch(t, store, batchHash)
	require.NoError(t, store.ValidatorPut(seller, state.RoleRecord{}))
	require.NoError(t, store.HoldingsPut(batchHash, seller, state.HoldingsEntry{Available: types.NewBalanceFromUint64(10)}))

	saleHash, err := eng.CreateSaleOrder(seller, batchHash, types.NewBalanceFromUint64(4), types.NewBalanceFromUint64(5), 1, types.NewMoment(fixedTime), 100, 10)
	require.NoError(t, err)

	require.NoError(t, eng.ExpireSaleOrder(saleHash))

	holding, err := store.HoldingsGet(batchHash, seller)
	require.NoError(t, err)
	require.Equal(t, types.NewBalanceFromUint64(10), holding.Available)
	require.True(t, holding.Reserved.IsZero())

	order, found, err := store.SaleOrderGet(saleHash)
	require.NoError(t, err)
	require.True(t, found)
	require.False(t, order.SaleActive)
	require.Equal(t, seller, order.Buyer)
}
