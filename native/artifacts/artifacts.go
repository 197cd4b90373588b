// Package artifacts implements the three submission operations spec.md §4.3
// defines — submit_footprint_report, propose_project, propose_batch — that
// share a single precondition template (role check, documentation
// uniqueness, fee charge) before inserting a new proposal row and enqueuing
// its voting timeout, generalized across the three artifact families
// spec.md §3 names rather than duplicated per family.
package artifacts

import (
	"fmt"

	"veles/core/currency"
	"veles/core/events"
	"veles/core/state"
	"veles/core/types"
	"veles/crypto"
	"veles/native/common"
	"veles/native/docindex"
)

// TimeoutEnqueuer is the subset of native/timeout.Queues this engine needs:
// scheduling a DocString for voting finalization at a future block. Kept as
// a narrow interface (rather than importing native/timeout directly) so
// tests can substitute an in-memory fake, the same seam SaleTimeoutQueue
// gives native/holdings.
type TimeoutEnqueuer interface {
	VotingEnqueue(block types.BlockNumber, doc types.DocString) error
}

// Engine mutates the three proposal tables under the precondition ordering
// spec.md §4.3 specifies.
type Engine struct {
	store    *state.Store
	docIndex *docindex.Index
	currency currency.Source
	timeouts TimeoutEnqueuer
	emit     events.Emitter

	// systemAccount is the pallet-owned account fee transfers originate
	// from, preserving the pallet→user direction spec.md §9 open question 1
	// documents.
	systemAccount crypto.AccountId

	// limiter caps submissions per AccountId ahead of the fee/role checks.
	// Nil by default; set with WithSubmissionLimiter.
	limiter *common.SubmissionLimiter
}

// NewEngine constructs an artifact-submission Engine.
func NewEngine(store *state.Store, cur currency.Source, timeouts TimeoutEnqueuer, systemAccount crypto.AccountId, emit events.Emitter) *Engine {
	if emit == nil {
		emit = events.NoopEmitter{}
	}
	return &Engine{store: store, docIndex: docindex.New(store), currency: cur, timeouts: timeouts, emit: emit, systemAccount: systemAccount}
}

// WithSubmissionLimiter attaches a per-account submission rate limiter,
// checked ahead of every operation's role and fee preconditions. Passing nil
// disables limiting (the default).
func (e *Engine) WithSubmissionLimiter(limiter *common.SubmissionLimiter) *Engine {
	e.limiter = limiter
	return e
}

// chargeFee implements the fee-check-then-transfer step every submission
// operation shares, identical in direction to native/registry's chargeFee
// (pallet→user, spec.md §9 open question 1).
func (e *Engine) chargeFee(caller crypto.AccountId, fee types.Balance) error {
	balance, err := e.currency.FreeBalance(caller)
	if err != nil {
		return fmt.Errorf("artifacts: read balance: %w", err)
	}
	if !balance.GTE(fee) {
		return ErrInsufficientFunds
	}
	if err := e.currency.Transfer(e.systemAccount, caller, fee, true); err != nil {
		return fmt.Errorf("artifacts: transfer fee: %w", err)
	}
	return nil
}

// SubmitFootprintReport implements spec.md's submit_footprint_report(doc,
// balance) operation.
func (e *Engine) SubmitFootprintReport(caller crypto.AccountId, doc types.DocString, carbonBalance int64, fee types.Balance, now types.Moment, votingTimeout types.BlockNumber, currentBlock types.BlockNumber) error {
	if err := e.limiter.Allow(caller); err != nil {
		return err
	}
	eligible, err := e.store.IsEligibleForCFA(caller)
	if err != nil {
		return err
	}
	if !eligible {
		return ErrAccountIdAlreadyInUse
	}
	active, err := e.store.HasActiveFootprintReport(caller)
	if err != nil {
		return err
	}
	if active {
		return ErrCarbonFootprintReportAlreadySubmitted
	}
	available, err := e.docIndex.Available(doc)
	if err != nil {
		return err
	}
	if !available {
		return ErrDocumentationWasUsedPreviously
	}
	if err := e.chargeFee(caller, fee); err != nil {
		return err
	}

	report := state.FootprintReport{
		CFAccount:     caller,
		CreationDate:  now,
		CarbonBalance: carbonBalance,
		VotingActive:  true,
	}
	if err := e.store.FootprintReportPut(doc, report); err != nil {
		return err
	}
	if err := e.docIndex.Claim(doc); err != nil {
		return err
	}
	timeoutBlock := currentBlock + votingTimeout
	if err := e.timeouts.VotingEnqueue(timeoutBlock, doc); err != nil {
		return fmt.Errorf("artifacts: enqueue voting timeout: %w", err)
	}
	e.emit.Emit(newFootprintReportSubmittedEvent(caller, doc))
	return nil
}

// ProposeProject implements spec.md's propose_project(doc) operation. nonce
// is the caller's current account_nonce, the hash-generation input spec.md
// §4.3 names alongside caller and the current moment.
func (e *Engine) ProposeProject(caller crypto.AccountId, doc types.DocString, nonce uint64, fee types.Balance, now types.Moment, votingTimeout types.BlockNumber, currentBlock types.BlockNumber) error {
	if err := e.limiter.Allow(caller); err != nil {
		return err
	}
	if _, found, err := e.store.OwnerGet(caller); err != nil {
		return err
	} else if !found {
		return ErrUnauthorized
	}
	if exists, err := e.store.ProjectProposalExists(doc); err != nil {
		return err
	} else if exists {
		return ErrProjectProposalAlreadyExists
	}
	available, err := e.docIndex.Available(doc)
	if err != nil {
		return err
	}
	if !available {
		return ErrDocumentationWasUsedPreviously
	}
	if err := e.chargeFee(caller, fee); err != nil {
		return err
	}

	projectHash := crypto.EntityDigest(caller, nonce, now.UnixNano())
	proposal := state.ProjectProposal{
		ProjectOwner: caller,
		CreationDate: now,
		ProjectHash:  projectHash,
		VotingActive: true,
	}
	if err := e.store.ProjectProposalPut(doc, proposal); err != nil {
		return err
	}
	if err := e.docIndex.Claim(doc); err != nil {
		return err
	}
	timeoutBlock := currentBlock + votingTimeout
	if err := e.timeouts.VotingEnqueue(timeoutBlock, doc); err != nil {
		return fmt.Errorf("artifacts: enqueue voting timeout: %w", err)
	}
	e.emit.Emit(newProjectProposedEvent(caller, doc))
	return nil
}

// ProposeBatch implements spec.md's propose_batch(project_hash, amount,
// price, doc) operation. nonce is the caller's current account_nonce.
func (e *Engine) ProposeBatch(caller crypto.AccountId, projectHash crypto.Hash256, amount, price types.Balance, doc types.DocString, nonce uint64, fee types.Balance, now types.Moment, votingTimeout types.BlockNumber, currentBlock types.BlockNumber) error {
	if err := e.limiter.Allow(caller); err != nil {
		return err
	}
	if _, found, err := e.store.OwnerGet(caller); err != nil {
		return err
	} else if !found {
		return ErrUnauthorized
	}
	project, found, err := e.store.ProjectGet(projectHash)
	if err != nil {
		return err
	}
	if !found {
		return ErrProjectDoesntExist
	}
	if project.ProjectOwner != caller {
		return ErrUnauthorized
	}
	available, err := e.docIndex.Available(doc)
	if err != nil {
		return err
	}
	if !available {
		return ErrDocumentationWasUsedPreviously
	}
	if err := e.chargeFee(caller, fee); err != nil {
		return err
	}

	batchHash := crypto.EntityDigest(caller, nonce, now.UnixNano())
	proposal := state.BatchProposal{
		ProjectHash:        projectHash,
		BatchHash:          batchHash,
		CreationDate:       now,
		CreditAmount:       amount,
		InitialCreditPrice: price,
		VotingActive:       true,
	}
	if err := e.store.BatchProposalPut(doc, proposal); err != nil {
		return err
	}
	if err := e.docIndex.Claim(doc); err != nil {
		return err
	}
	timeoutBlock := currentBlock + votingTimeout
	if err := e.timeouts.VotingEnqueue(timeoutBlock, doc); err != nil {
		return fmt.Errorf("artifacts: enqueue voting timeout: %w", err)
	}
	e.emit.Emit(newBatchProposedEvent(caller, doc, projectHash))
	return nil
}
