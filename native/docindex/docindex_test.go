package docindex

import (
	"testing"

	"github.com/stretchr/testify/require"

	"veles/core/state"
	"veles/core/types"
	"veles/crypto"
	"veles/storage"
)

func TestClaimMakesDocUnavailable(t *testing.T) {
	idx := New(state.NewStore(storage.NewMemDB()))
	available, err := idx.Available("d1")
	require.NoError(t, err)
	require.True(t, available)

	require.NoError(t, idx.Claim("d1"))

	available, err = idx.Available("d1")
	require.NoError(t, err)
	require.False(t, available)
}

func TestVerifyAndClaimRoundTrips(t *testing.T) {
	idx := New(state.NewStore(storage.NewMemDB()))
	payload := []byte("project dossier")
	doc := types.DocString(crypto.ContentAddress(payload))

	require.NoError(t, idx.VerifyAndClaim(doc, payload))

	available, err := idx.Available(doc)
	require.NoError(t, err)
	require.False(t, available)
}

func TestVerifyAndClaimRejectsWrongContentAddress(t *testing.T) {
	idx := New(state.NewStore(storage.NewMemDB()))
	payload := []byte("project dossier")
	wrong := types.DocString(crypto.ContentAddress([]byte("something else")))

	err := idx.VerifyAndClaim(wrong, payload)
	require.Error(t, err)
}
