package registry

import stderrors "errors"

// Sentinel errors for the account registry (spec.md §4.2).
var (
	ErrAccountIdAlreadyInUse             = stderrors.New("registry: account id already in use")
	ErrUserIsActiveInCFRVotingCycle      = stderrors.New("registry: account has an active footprint report voting cycle")
	ErrDocumentationWasUsedPreviously    = stderrors.New("registry: documentation string was used previously")
	ErrInsufficientFunds                 = stderrors.New("registry: insufficient funds")
)
