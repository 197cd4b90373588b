package holdings

import stderrors "errors"

// Sentinel errors for the holdings & sale-order lifecycle (spec.md §4.7).
var (
	ErrUserIsNotEligibleForCreditTx = stderrors.New("holdings: caller is not eligible for carbon credit transactions")
	ErrCarbonCreditBatchDoesNotExist = stderrors.New("holdings: carbon credit batch does not exist")
	ErrCarbonCreditBatchIsNotActive  = stderrors.New("holdings: carbon credit batch is not active")
	ErrNotEnoughAvailableCredits     = stderrors.New("holdings: not enough available credits")
	ErrCarbonCreditSaleOrderDoesNotExist = stderrors.New("holdings: sale order does not exist")
	ErrBuyerCantBuyHisOwnTokens      = stderrors.New("holdings: buyer cannot buy his own tokens")
	ErrInsufficientFunds             = stderrors.New("holdings: insufficient funds")
	ErrUserDidntCreateTheSellOrder   = stderrors.New("holdings: caller did not create this sell order")
)
