package indexer

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"veles/core/currency"
	"veles/core/state"
	"veles/core/types"
	"veles/crypto"
	"veles/native/holdings"
	"veles/storage"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	return db
}

func account(b byte) crypto.AccountId {
	raw := make([]byte, 20)
	raw[19] = b
	return crypto.MustNewAccountId(raw)
}

// fakeQueue satisfies holdings.SaleTimeoutQueue without pulling in the
// bbolt-backed native/timeout.Queues, mirroring native/holdings's own test
// fixture so this test drives the real CreateSaleOrder/CompleteSaleOrder
// code path instead of a hand-crafted event shape.
type fakeQueue struct{}

func (fakeQueue) SaleEnqueue(types.BlockNumber, crypto.Hash256) error { return nil }
func (fakeQueue) SaleRemove(types.BlockNumber, crypto.Hash256) error  { return nil }

// TestEmitRecordsEventAndProjectsSaleOrderLifecycle drives the projection
// through the actual holdings.Engine and its event constructors: a
// hand-crafted "holdings.sale_order.created" event previously let this test
// pass even when the real event carried no sale_hash attribute, masking the
// projection bug the created case's view.SaleHash == "" guard was silently
// swallowing.
func TestEmitRecordsEventAndProjectsSaleOrderLifecycle(t *testing.T) {
	idx, err := Open(openTestDB(t), nil)
	require.NoError(t, err)

	store := state.NewStore(storage.NewMemDB())
	cur := currency.NewMemory(nil)
	eng := holdings.NewEngine(store, cur, fakeQueue{}, idx)

	seller := account(1)
	buyer := account(2)
	var batchHash crypto.Hash256
	batchHash[0] = 0x01
	require.NoError(t, store.BatchPut(batchHash, state.CarbonCreditBatch{
		CreditAmount: types.NewBalanceFromUint64(10),
		Status:       state.BatchActive,
	}))
	require.NoError(t, store.ValidatorPut(seller, state.RoleRecord{}))
	require.NoError(t, store.OwnerPut(buyer, state.RoleRecord{}))
	require.NoError(t, store.HoldingsPut(batchHash, seller, state.HoldingsEntry{Available: types.NewBalanceFromUint64(10)}))
	cur.Credit(buyer, types.NewBalanceFromUint64(1000))
	cur.Credit(seller, types.NewBalanceFromUint64(1000))

	now := types.NewMoment(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	saleHash, err := eng.CreateSaleOrder(seller, batchHash, types.NewBalanceFromUint64(4), types.NewBalanceFromUint64(5), 1, now, 100, 10)
	require.NoError(t, err)

	views, err := idx.SaleOrdersBySeller(seller.String())
	require.NoError(t, err)
	require.Len(t, views, 1)
	require.Equal(t, saleHash.String(), views[0].SaleHash)
	require.Equal(t, "active", views[0].Status)

	require.NoError(t, eng.CompleteSaleOrder(buyer, saleHash))

	views, err = idx.SaleOrdersBySeller(seller.String())
	require.NoError(t, err)
	require.Len(t, views, 1)
	require.Equal(t, "completed", views[0].Status)
	require.Equal(t, buyer.String(), views[0].Buyer)

	var count int64
	require.NoError(t, idx.db.Model(&EventRecord{}).Count(&count).Error)
	require.Equal(t, int64(2), count)
}

func TestEmitDiscardsUnrecognizedEventType(t *testing.T) {
	idx, err := Open(openTestDB(t), nil)
	require.NoError(t, err)

	idx.Emit(stubEvent{})

	var count int64
	require.NoError(t, idx.db.Model(&EventRecord{}).Count(&count).Error)
	require.Equal(t, int64(0), count)
}

type stubEvent struct{}

func (stubEvent) EventType() string { return "stub" }
