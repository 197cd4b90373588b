// Package registry implements the account registry spec.md §4.2 defines:
// the three registration operations (trader, project validator, project
// owner) and the eligibility predicates the rest of the marketplace reads.
// Role-set membership itself lives on core/state; this package adds the
// precondition ordering, fee charging, and event emission spec.md §4.2
// specifies.
package registry

import (
	"fmt"

	"veles/core/currency"
	"veles/core/events"
	"veles/core/state"
	"veles/core/types"
	"veles/crypto"
	"veles/native/docindex"
)

// Engine mutates the registry tables under the precondition ordering
// spec.md §4.2 item 1-3 specifies.
type Engine struct {
	store    *state.Store
	docIndex *docindex.Index
	currency currency.Source
	emit     events.Emitter

	// systemAccount is the pallet-owned account fee transfers originate
	// from. spec.md §9 open question 1 preserves the observed
	// pallet-to-user direction rather than inverting it.
	systemAccount crypto.AccountId
}

// NewEngine constructs a registry Engine.
func NewEngine(store *state.Store, cur currency.Source, systemAccount crypto.AccountId, emit events.Emitter) *Engine {
	if emit == nil {
		emit = events.NoopEmitter{}
	}
	return &Engine{store: store, docIndex: docindex.New(store), currency: cur, emit: emit, systemAccount: systemAccount}
}

// checkAvailable implements spec.md §4.2's common precondition 1.
func (e *Engine) checkAvailable(caller crypto.AccountId) error {
	available, err := e.store.IsAccountAvailable(caller)
	if err != nil {
		return err
	}
	if !available {
		return ErrAccountIdAlreadyInUse
	}
	active, err := e.store.HasActiveFootprintReport(caller)
	if err != nil {
		return err
	}
	if active {
		return ErrUserIsActiveInCFRVotingCycle
	}
	return nil
}

// checkDocUnique implements spec.md §4.2's common precondition 2 (I2), via
// the shared documentation-uniqueness index native/docindex owns.
func (e *Engine) checkDocUnique(doc types.DocString) error {
	available, err := e.docIndex.Available(doc)
	if err != nil {
		return err
	}
	if !available {
		return ErrDocumentationWasUsedPreviously
	}
	return nil
}

// chargeFee implements spec.md §4.2's common precondition 3 and effect: the
// caller must have sufficient free balance, then the fee is transferred
// pallet (systemAccount) to user, preserving the direction spec.md §9 open
// question 1 documents rather than charging the caller.
func (e *Engine) chargeFee(caller crypto.AccountId, fee types.Balance) error {
	balance, err := e.currency.FreeBalance(caller)
	if err != nil {
		return fmt.Errorf("registry: read balance: %w", err)
	}
	if !balance.GTE(fee) {
		return ErrInsufficientFunds
	}
	if err := e.currency.Transfer(e.systemAccount, caller, fee, true); err != nil {
		return fmt.Errorf("registry: transfer fee: %w", err)
	}
	return nil
}

// RegisterTrader implements spec.md's register_trader operation.
func (e *Engine) RegisterTrader(caller crypto.AccountId, fee types.Balance) error {
	if err := e.checkAvailable(caller); err != nil {
		return err
	}
	if err := e.chargeFee(caller, fee); err != nil {
		return err
	}
	if err := e.store.PutTrader(caller); err != nil {
		return err
	}
	e.emit.Emit(newTraderRegisteredEvent(caller))
	return nil
}

// RegisterValidator implements spec.md's register_validator operation.
func (e *Engine) RegisterValidator(caller crypto.AccountId, doc types.DocString, fee types.Balance) error {
	if err := e.checkAvailable(caller); err != nil {
		return err
	}
	if err := e.checkDocUnique(doc); err != nil {
		return err
	}
	if err := e.chargeFee(caller, fee); err != nil {
		return err
	}
	if err := e.store.ValidatorPut(caller, state.RoleRecord{DocumentationIPFS: doc}); err != nil {
		return err
	}
	if err := e.docIndex.Claim(doc); err != nil {
		return err
	}
	e.emit.Emit(newValidatorRegisteredEvent(caller, doc))
	return nil
}

// RegisterOwner implements spec.md's register_owner operation.
func (e *Engine) RegisterOwner(caller crypto.AccountId, doc types.DocString, fee types.Balance) error {
	if err := e.checkAvailable(caller); err != nil {
		return err
	}
	if err := e.checkDocUnique(doc); err != nil {
		return err
	}
	if err := e.chargeFee(caller, fee); err != nil {
		return err
	}
	if err := e.store.OwnerPut(caller, state.RoleRecord{DocumentationIPFS: doc}); err != nil {
		return err
	}
	if err := e.docIndex.Claim(doc); err != nil {
		return err
	}
	e.emit.Emit(newOwnerRegisteredEvent(caller, doc))
	return nil
}
