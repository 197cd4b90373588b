package state

import "veles/crypto"

// HoldingsGet loads the (available, reserved) entry for (batchHash, holder),
// returning the zero entry if none exists — an absent entry and a
// zero/zero entry are semantically identical per spec.md §3's deletion rule.
func (s *Store) HoldingsGet(batchHash crypto.Hash256, holder crypto.AccountId) (HoldingsEntry, error) {
	var h HoldingsEntry
	_, err := s.getJSON(holdingsKey(batchHash, holder), &h)
	return h, err
}

// HoldingsPut writes or deletes the entry for (batchHash, holder): an entry
// that reaches available=0, reserved=0 is removed entirely rather than
// persisted as an explicit zero, satisfying I4's reliance on faithful
// cleanup (spec.md §9).
func (s *Store) HoldingsPut(batchHash crypto.Hash256, holder crypto.AccountId, h HoldingsEntry) error {
	key := holdingsKey(batchHash, holder)
	if h.IsEmpty() {
		return s.delete(key)
	}
	return s.putJSON(key, h)
}

// SaleOrderGet loads the order keyed by hash.
func (s *Store) SaleOrderGet(hash crypto.Hash256) (SaleOrder, bool, error) {
	var o SaleOrder
	found, err := s.getJSON(saleOrderKey(hash), &o)
	return o, found, err
}

// SaleOrderPut writes the order keyed by hash.
func (s *Store) SaleOrderPut(hash crypto.Hash256, o SaleOrder) error {
	return s.putJSON(saleOrderKey(hash), o)
}
