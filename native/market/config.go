// Package market implements the configuration store spec.md §4.1 defines:
// the fee schedule, time schedule, and vote-pass ratio, each independently
// mutable by an authority-gated mutator. It plays the role the teacher's
// native/params.Store plays for nhbchain's pause/staking parameters, but
// the typed accessors live directly on core/state.Store (this package's
// StoreState indirection in the teacher became unnecessary once the store
// itself owns every table), and adds the authority gating and
// input-validity rejections spec.md §4.1 specifies.
package market

import (
	"fmt"

	"veles/core/events"
	"veles/core/state"
	"veles/core/types"
	"veles/crypto"
)

// Engine mutates the configuration tables under AuthoritySet gating. None of
// spec.md §4.1's update operations read the clock or block height, so
// unlike native/artifacts or native/holdings this engine has no such
// dependency to carry.
type Engine struct {
	store *state.Store
	emit  events.Emitter
}

// NewEngine constructs a configuration Engine.
func NewEngine(store *state.Store, emit events.Emitter) *Engine {
	if emit == nil {
		emit = events.NoopEmitter{}
	}
	return &Engine{store: store, emit: emit}
}

func (e *Engine) requireAuthority(caller crypto.AccountId) error {
	ok, err := e.store.IsAuthority(caller)
	if err != nil {
		return fmt.Errorf("market: check authority: %w", err)
	}
	if !ok {
		return ErrUnauthorized
	}
	return nil
}

// UpdateVotePassRatio implements spec.md §4.1's update_vote_pass_ratio
// mutator: normalize (proportion, upper_limit) per spec.md §3 and persist.
func (e *Engine) UpdateVotePassRatio(caller crypto.AccountId, proportion, upperLimit uint64) error {
	if err := e.requireAuthority(caller); err != nil {
		return err
	}
	r := state.VotePassRatio{ProportionPart: proportion, UpperLimitPart: upperLimit}.Normalize()
	if err := e.store.SetVotePassRatio(r); err != nil {
		return err
	}
	e.emit.Emit(newVotePassRatioUpdatedEvent(r))
	return nil
}

// UpdateTimeValue implements spec.md §4.1's update_time_value mutator.
// PalletBaseTime is rejected outright; any other kind must be non-zero and
// must differ from the currently configured value.
func (e *Engine) UpdateTimeValue(caller crypto.AccountId, kind state.TimeKind, value types.BlockNumber) error {
	if err := e.requireAuthority(caller); err != nil {
		return err
	}
	if kind == state.TimePalletBaseTime {
		return ErrUnableToChangePalletBaseTime
	}
	if value == 0 {
		return ErrInvalidTimeoutValue
	}
	current, found, err := e.store.TimeValue(kind)
	if err != nil {
		return err
	}
	if found && current == value {
		return ErrUpdatingToCurrentValue
	}
	if err := e.store.SetTimeValue(kind, value); err != nil {
		return err
	}
	e.emit.Emit(newTimeValueUpdatedEvent(kind, value))
	return nil
}

// UpdateFeeValue implements spec.md §4.1's update_fee_value mutator: reject
// writes equal to the current value, otherwise persist unconditionally
// (every fee value is non-negative by construction of types.Balance).
func (e *Engine) UpdateFeeValue(caller crypto.AccountId, kind state.FeeKind, value types.Balance) error {
	if err := e.requireAuthority(caller); err != nil {
		return err
	}
	current, found, err := e.store.FeeValue(kind)
	if err != nil {
		return err
	}
	if found && current.Cmp(value) == 0 {
		return ErrUpdatingToCurrentValue
	}
	if err := e.store.SetFeeValue(kind, value); err != nil {
		return err
	}
	e.emit.Emit(newFeeValueUpdatedEvent(kind, value))
	return nil
}

// FeeValueOrDefault reads the configured fee for kind, falling back to the
// spec.md §6 default if the store was never seeded for it (guards against a
// genesis file that omits a kind).
func (e *Engine) FeeValueOrDefault(kind state.FeeKind) (types.Balance, error) {
	v, found, err := e.store.FeeValue(kind)
	if err != nil {
		return types.ZeroBalance, err
	}
	if found {
		return v, nil
	}
	defaults := state.DefaultFeeValues()
	return types.NewBalanceFromUint64(defaults[kind]), nil
}

// TimeValueOrDefault reads the configured time value for kind, falling back
// to the genesis-computed default.
func (e *Engine) TimeValueOrDefault(kind state.TimeKind, defaults map[state.TimeKind]types.BlockNumber) (types.BlockNumber, error) {
	v, found, err := e.store.TimeValue(kind)
	if err != nil {
		return 0, err
	}
	if found {
		return v, nil
	}
	return defaults[kind], nil
}
