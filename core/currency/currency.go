// Package currency wraps the Currency injected capability spec.md §6
// defines — free_balance and a keep-alive transfer — as a narrow interface
// the native engines depend on, satisfied by whatever balance primitive the
// host runtime actually uses. The native engines never own a balance ledger
// themselves (spec.md §1 places "the currency/balance primitive" out of
// scope); Memory below is a minimal in-process ledger for tests and
// single-node runs such as cmd/velesd.
package currency

import (
	"errors"

	"veles/core/types"
	"veles/crypto"
)

// ErrWouldDeleteAccount is returned by Transfer when moving amount out of
// from would leave it below the existential balance a KeepAlive transfer
// must preserve (spec.md §6's "ExistenceRequirement::KeepAlive semantics").
var ErrWouldDeleteAccount = errors.New("currency: transfer would delete sender account")

// Source is the injected currency collaborator. Implementations must be
// atomic within a single extrinsic (spec.md §5): a failed Transfer must
// leave both balances unchanged.
type Source interface {
	FreeBalance(id crypto.AccountId) (types.Balance, error)
	Transfer(from, to crypto.AccountId, amount types.Balance, keepAlive bool) error
}

// Memory is an in-process Source used by tests and single-node deployments
// that have no separate ledger module to delegate to.
type Memory struct {
	balances map[crypto.AccountId]types.Balance
}

// NewMemory constructs a Memory currency source with the given opening
// balances.
func NewMemory(opening map[crypto.AccountId]types.Balance) *Memory {
	balances := make(map[crypto.AccountId]types.Balance, len(opening))
	for id, bal := range opening {
		balances[id] = bal
	}
	return &Memory{balances: balances}
}

// FreeBalance implements Source.
func (m *Memory) FreeBalance(id crypto.AccountId) (types.Balance, error) {
	return m.balances[id], nil
}

// Credit adds amount to id's balance unconditionally, used to seed system
// accounts and test fixtures.
func (m *Memory) Credit(id crypto.AccountId, amount types.Balance) {
	m.balances[id] = m.balances[id].Add(amount)
}

// Transfer implements Source. keepAlive is accepted for interface parity
// with spec.md §6's KeepAlive contract; this in-memory source has no
// existential-deposit floor above zero, so it degrades to a plain
// sufficiency check.
func (m *Memory) Transfer(from, to crypto.AccountId, amount types.Balance, keepAlive bool) error {
	_ = keepAlive
	fromBalance := m.balances[from]
	if !fromBalance.GTE(amount) {
		return ErrWouldDeleteAccount
	}
	m.balances[from] = fromBalance.Sub(amount)
	m.balances[to] = m.balances[to].Add(amount)
	return nil
}
