package registry

import (
	"testing"

	"github.com/stretchr/testify/require"

	"veles/core/currency"
	"veles/core/state"
	"veles/core/types"
	"veles/crypto"
	"veles/storage"
)

func newTestEngine(t *testing.T, opening map[crypto.AccountId]types.Balance) (*Engine, *state.Store) {
	t.Helper()
	db := storage.NewMemDB()
	store := state.NewStore(db)
	system := crypto.MustNewAccountId(make([]byte, 20))
	cur := currency.NewMemory(opening)
	cur.Credit(system, types.NewBalanceFromUint64(1_000_000))
	return NewEngine(store, cur, system, nil), store
}

func account(b byte) crypto.AccountId {
	raw := make([]byte, 20)
	raw[19] = b
	return crypto.MustNewAccountId(raw)
}

func TestRegisterTraderThenOwnerFailsAccountInUse(t *testing.T) {
	a := account(1)
	eng, _ := newTestEngine(t, map[crypto.AccountId]types.Balance{a: types.NewBalanceFromUint64(1_000)})
	require.NoError(t, eng.RegisterTrader(a, types.NewBalanceFromUint64(100)))
	err := eng.RegisterOwner(a, "d1", types.NewBalanceFromUint64(100))
	require.ErrorIs(t, err, ErrAccountIdAlreadyInUse)
}

func TestRegisterValidatorRejectsReusedDocumentation(t *testing.T) {
	b := account(2)
	a := account(3)
	eng, _ := newTestEngine(t, map[crypto.AccountId]types.Balance{
		a: types.NewBalanceFromUint64(1_000),
		b: types.NewBalanceFromUint64(1_000),
	})
	require.NoError(t, eng.RegisterOwner(b, "d1", types.NewBalanceFromUint64(100)))

	err := eng.RegisterValidator(a, "d1", types.NewBalanceFromUint64(100))
	require.ErrorIs(t, err, ErrDocumentationWasUsedPreviously)
}

func TestRegisterOwnerClaimsDocumentation(t *testing.T) {
	owner := account(4)
	eng, store := newTestEngine(t, map[crypto.AccountId]types.Balance{owner: types.NewBalanceFromUint64(1_000)})
	require.NoError(t, eng.RegisterOwner(owner, "dp", types.NewBalanceFromUint64(100)))

	claimed, err := store.DocIndexed("dp")
	require.NoError(t, err)
	require.True(t, claimed)

	rec, found, err := store.OwnerGet(owner)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, types.DocString("dp"), rec.DocumentationIPFS)
}
