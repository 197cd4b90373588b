package voting

import stderrors "errors"

// Sentinel errors for the voting engine (spec.md §4.4).
var (
	ErrUnauthorized            = stderrors.New("voting: caller is not a registered project validator")
	ErrInsufficientFunds       = stderrors.New("voting: insufficient funds")
	ErrFootprintReportNotFound = stderrors.New("voting: footprint report not found")
	ErrProjectProposalNotFound = stderrors.New("voting: project proposal not found")
	ErrBatchProposalNotFound   = stderrors.New("voting: batch proposal not found")
	ErrVotingCycleIsOver       = stderrors.New("voting: voting cycle is over")
	ErrVoteAlreadySubmitted    = stderrors.New("voting: vote already submitted")
	ErrUnknownArtifactKind     = stderrors.New("voting: unknown artifact kind")
)
