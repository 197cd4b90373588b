// Package docindex is the documentation-uniqueness enforcer spec.md §2
// item 3 and invariant I2 require: a DocString may be claimed by at most
// one artifact or account, ever. The original pallet (original_source/)
// enforced this with is_ipfs_available, a four-table linear scan repeated
// on every registration/submission; this package generalizes that scan
// into the single reverse index core/state.Store already maintains (one
// key per claimed DocString), the supplemental redesign spec.md §9 calls
// for ("not a linear scan... same treatment as timeout queues").
package docindex

import (
	"fmt"

	"veles/core/state"
	"veles/core/types"
	"veles/crypto"
)

// Index is a thin, named view over the store's documentation table, kept as
// its own package so callers state the invariant they're checking
// (documentation uniqueness) rather than reaching into core/state directly.
type Index struct {
	store *state.Store
}

// New constructs a documentation Index.
func New(store *state.Store) *Index {
	return &Index{store: store}
}

// Available reports whether doc has never been claimed.
func (i *Index) Available(doc types.DocString) (bool, error) {
	used, err := i.store.DocIndexed(doc)
	if err != nil {
		return false, err
	}
	return !used, nil
}

// Claim marks doc as claimed. Callers are expected to have already checked
// Available within the same precondition-check phase of their extrinsic.
func (i *Index) Claim(doc types.DocString) error {
	return i.store.DocIndexClaim(doc)
}

// VerifyAndClaim checks doc is both available and the correct BLAKE3
// content address of payload before claiming it, for callers (off-chain
// submission tooling) that have the raw documentation body on hand and want
// both checks performed atomically before the artifact submission itself
// runs. The core extrinsics (spec.md §4.3) only ever see the DocString, not
// the payload, so they call Available/Claim directly; this helper exists for
// the layer in front of them.
func (i *Index) VerifyAndClaim(doc types.DocString, payload []byte) error {
	ok, err := crypto.VerifyContentAddress(string(doc), payload)
	if err != nil {
		return fmt.Errorf("docindex: %w", err)
	}
	if !ok {
		return fmt.Errorf("docindex: %q is not the content address of the supplied payload", doc)
	}
	available, err := i.Available(doc)
	if err != nil {
		return err
	}
	if !available {
		return fmt.Errorf("docindex: %q already claimed", doc)
	}
	return i.Claim(doc)
}
