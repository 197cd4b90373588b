package artifacts

import stderrors "errors"

// Sentinel errors for the three submission operations (spec.md §4.3).
var (
	ErrAccountIdAlreadyInUse              = stderrors.New("artifacts: caller is not eligible to submit a footprint report")
	ErrCarbonFootprintReportAlreadySubmitted = stderrors.New("artifacts: caller already has an active footprint report")
	ErrDocumentationWasUsedPreviously     = stderrors.New("artifacts: documentation string was used previously")
	ErrInsufficientFunds                  = stderrors.New("artifacts: insufficient funds")
	ErrUnauthorized                        = stderrors.New("artifacts: caller is not authorized for this operation")
	ErrProjectProposalAlreadyExists       = stderrors.New("artifacts: a project proposal already exists for this documentation")
	ErrProjectDoesntExist                 = stderrors.New("artifacts: referenced project does not exist")
)
