package market

import stderrors "errors"

// Sentinel errors for the configuration store (spec.md §4.1), one per error
// kind the operation surface table (spec.md §6) names.
var (
	ErrUnauthorized               = stderrors.New("market: caller is not in the authority set")
	ErrUnableToChangePalletBaseTime = stderrors.New("market: pallet base time cannot be changed directly")
	ErrInvalidTimeoutValue        = stderrors.New("market: timeout value must be non-zero")
	ErrUpdatingToCurrentValue     = stderrors.New("market: value already matches the current configuration")
)
