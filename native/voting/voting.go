// Package voting implements the single cast_vote dispatch spec.md §4.4
// defines, shared across the three proposal families, and the pure
// vote-passed arithmetic spec.md §4.5 requires be the only place a vote
// outcome is decided. Heterogeneity across FootprintReport/ProjectProposal/
// BatchProposal is modeled as a kind tag plus a dispatch table (spec.md §9's
// "tagged sum" redesign note): a kind tag plus a dispatch table, rather
// than three duplicated code paths.
package voting

import (
	"fmt"

	"veles/core/currency"
	"veles/core/events"
	"veles/core/state"
	"veles/core/types"
	"veles/crypto"
)

// Engine casts votes and finalizes artifacts once their voting window closes.
type Engine struct {
	store    *state.Store
	currency currency.Source
	emit     events.Emitter

	// systemAccount is the pallet-owned account the voting fee is paid from,
	// preserving the pallet→user direction spec.md §9 open question 1
	// documents.
	systemAccount crypto.AccountId
}

// NewEngine constructs a voting Engine.
func NewEngine(store *state.Store, cur currency.Source, systemAccount crypto.AccountId, emit events.Emitter) *Engine {
	if emit == nil {
		emit = events.NoopEmitter{}
	}
	return &Engine{store: store, currency: cur, emit: emit, systemAccount: systemAccount}
}

// votingActive loads the voting_active flag for (kind, doc), returning the
// kind-specific not-found error when the artifact does not exist.
func (e *Engine) votingActive(kind state.ArtifactKind, doc types.DocString) (bool, error) {
	switch kind {
	case state.KindFootprintReport:
		r, found, err := e.store.FootprintReportGet(doc)
		if err != nil {
			return false, err
		}
		if !found {
			return false, ErrFootprintReportNotFound
		}
		return r.VotingActive, nil
	case state.KindProjectProposal:
		p, found, err := e.store.ProjectProposalGet(doc)
		if err != nil {
			return false, err
		}
		if !found {
			return false, ErrProjectProposalNotFound
		}
		return p.VotingActive, nil
	case state.KindBatchProposal:
		p, found, err := e.store.BatchProposalGet(doc)
		if err != nil {
			return false, err
		}
		if !found {
			return false, ErrBatchProposalNotFound
		}
		return p.VotingActive, nil
	default:
		return false, ErrUnknownArtifactKind
	}
}

// CastVote implements spec.md §4.4's cast_vote(kind, doc, vote_bool).
func (e *Engine) CastVote(caller crypto.AccountId, kind state.ArtifactKind, doc types.DocString, inFavor bool, votingFee types.Balance) error {
	if _, found, err := e.store.ValidatorGet(caller); err != nil {
		return err
	} else if !found {
		return ErrUnauthorized
	}

	balance, err := e.currency.FreeBalance(caller)
	if err != nil {
		return fmt.Errorf("voting: read balance: %w", err)
	}
	if !balance.GTE(votingFee) {
		return ErrInsufficientFunds
	}

	active, err := e.votingActive(kind, doc)
	if err != nil {
		return err
	}
	if !active {
		return ErrVotingCycleIsOver
	}

	voted, err := e.store.HasVoted(kind, doc, caller)
	if err != nil {
		return err
	}
	if voted {
		return ErrVoteAlreadySubmitted
	}

	if err := e.store.CastVote(kind, doc, caller, inFavor); err != nil {
		return err
	}
	if err := e.currency.Transfer(e.systemAccount, caller, votingFee, true); err != nil {
		return fmt.Errorf("voting: transfer fee: %w", err)
	}
	e.emit.Emit(newSuccessfulVoteEvent(caller, kind, doc, inFavor))
	return nil
}

// VotePassed implements spec.md §4.5's vote-passed arithmetic exactly: the
// only function in this codebase that decides a vote outcome, reused
// identically across all three artifact kinds.
func VotePassed(ratio state.VotePassRatio, total, forCount uint64) bool {
	p, u := ratio.ProportionPart, ratio.UpperLimitPart
	switch {
	case u == 0:
		return forCount >= (total-forCount)+1
	case u == p:
		return forCount == total
	default:
		return forCount >= (p*total)/u
	}
}

// FinalizeArtifact implements spec.md §4.6's voting-finalization effects for
// a single DocString drained from VotingTimeouts at the current block. now
// is the moment to stamp onto newly-created entities.
func (e *Engine) FinalizeArtifact(kind state.ArtifactKind, doc types.DocString, now types.Moment) error {
	ratio, err := e.store.VotePassRatioValue()
	if err != nil {
		return err
	}
	forCount, againstCount, err := e.store.VoteCounts(kind, doc)
	if err != nil {
		return err
	}
	total := forCount + againstCount
	passed := VotePassed(ratio, total, forCount)

	switch kind {
	case state.KindFootprintReport:
		if err := e.finalizeFootprintReport(doc, now, passed); err != nil {
			return err
		}
	case state.KindProjectProposal:
		if err := e.finalizeProjectProposal(doc, now, passed); err != nil {
			return err
		}
	case state.KindBatchProposal:
		if err := e.finalizeBatchProposal(doc, now, passed); err != nil {
			return err
		}
	default:
		return ErrUnknownArtifactKind
	}
	e.emit.Emit(newArtifactFinalizedEvent(kind, doc, passed, forCount, againstCount))
	return nil
}

func (e *Engine) finalizeFootprintReport(doc types.DocString, now types.Moment, passed bool) error {
	report, found, err := e.store.FootprintReportGet(doc)
	if err != nil {
		return err
	}
	if !found {
		return ErrFootprintReportNotFound
	}
	if passed {
		acct, found, err := e.store.CFAccountGet(report.CFAccount)
		if err != nil {
			return err
		}
		if found {
			acct.DocumentationSet = append(acct.DocumentationSet, doc)
			acct.CarbonBalance += report.CarbonBalance
		} else {
			acct = state.CFAccount{
				DocumentationSet: []types.DocString{doc},
				CarbonBalance:    report.CarbonBalance,
				CreationDate:     now,
			}
		}
		if err := e.store.CFAccountPut(report.CFAccount, acct); err != nil {
			return err
		}
	}
	report.VotingActive = false
	return e.store.FootprintReportPut(doc, report)
}

func (e *Engine) finalizeProjectProposal(doc types.DocString, now types.Moment, passed bool) error {
	proposal, found, err := e.store.ProjectProposalGet(doc)
	if err != nil {
		return err
	}
	if !found {
		return ErrProjectProposalNotFound
	}
	if passed {
		project := state.Project{
			DocumentationIPFS: doc,
			ProjectOwner:      proposal.ProjectOwner,
			CreationDate:      now,
		}
		if err := e.store.ProjectPut(proposal.ProjectHash, project); err != nil {
			return err
		}
	}
	proposal.VotingActive = false
	return e.store.ProjectProposalPut(doc, proposal)
}

func (e *Engine) finalizeBatchProposal(doc types.DocString, now types.Moment, passed bool) error {
	proposal, found, err := e.store.BatchProposalGet(doc)
	if err != nil {
		return err
	}
	if !found {
		return ErrBatchProposalNotFound
	}
	if passed {
		batch := state.CarbonCreditBatch{
			ProjectHash:        proposal.ProjectHash,
			DocumentationIPFS:  doc,
			CreationDate:       now,
			CreditAmount:       proposal.CreditAmount,
			InitialCreditPrice: proposal.InitialCreditPrice,
			Status:             state.BatchActive,
		}
		if err := e.store.BatchPut(proposal.BatchHash, batch); err != nil {
			return err
		}
		project, found, err := e.store.ProjectGet(proposal.ProjectHash)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("voting: finalize batch proposal %q: referenced project not found", doc)
		}
		holding := state.HoldingsEntry{Available: proposal.CreditAmount}
		if err := e.store.HoldingsPut(proposal.BatchHash, project.ProjectOwner, holding); err != nil {
			return err
		}
	}
	proposal.VotingActive = false
	return e.store.BatchProposalPut(doc, proposal)
}
