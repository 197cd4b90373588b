package state

import (
	"veles/core/types"
	"veles/crypto"
)

// IsAuthority reports whether id is a member of the AuthoritySet, the gate
// spec.md §4.1 requires on every configuration mutator.
func (s *Store) IsAuthority(id crypto.AccountId) (bool, error) {
	return s.has(authorityKey(id))
}

// PutAuthority adds id to the AuthoritySet. AuthoritySet mutation is out of
// scope for this core (spec.md §3: "Mutated by governance (out of scope
// how)") but genesis seeding still needs a way to populate it.
func (s *Store) PutAuthority(id crypto.AccountId) error {
	return s.putJSON(authorityKey(id), true)
}

// RemoveAuthority removes id from the AuthoritySet.
func (s *Store) RemoveAuthority(id crypto.AccountId) error {
	return s.delete(authorityKey(id))
}

// FeeValue reads the currently configured Balance for kind, returning found
// = false if it was never set (callers should seed defaults at genesis via
// DefaultFeeValues).
func (s *Store) FeeValue(kind FeeKind) (types.Balance, bool, error) {
	var v types.Balance
	found, err := s.getJSON(feeValueKey(kind), &v)
	return v, found, err
}

// SetFeeValue writes the Balance for kind.
func (s *Store) SetFeeValue(kind FeeKind, v types.Balance) error {
	return s.putJSON(feeValueKey(kind), v)
}

// TimeValue reads the currently configured BlockNumber for kind.
func (s *Store) TimeValue(kind TimeKind) (types.BlockNumber, bool, error) {
	var v types.BlockNumber
	found, err := s.getJSON(timeValueKey(kind), &v)
	return v, found, err
}

// SetTimeValue writes the BlockNumber for kind.
func (s *Store) SetTimeValue(kind TimeKind, v types.BlockNumber) error {
	return s.putJSON(timeValueKey(kind), v)
}

// VotePassRatioValue reads the current (proportion_part, upper_limit_part)
// pair, defaulting to the zero ratio (strict-majority mode) if never set.
func (s *Store) VotePassRatioValue() (VotePassRatio, error) {
	var r VotePassRatio
	_, err := s.getJSON(votePassRatioKey, &r)
	return r, err
}

// SetVotePassRatio writes the ratio. Callers are expected to have already
// normalized it via VotePassRatio.Normalize.
func (s *Store) SetVotePassRatio(r VotePassRatio) error {
	return s.putJSON(votePassRatioKey, r)
}
